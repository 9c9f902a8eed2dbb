package domain

import (
	"fmt"
	"net/http"
)

// Operation is one named request type against the remote endpoint.
type Operation string

const (
	OpGetBlogPosts      Operation = "getBlogPosts"
	OpGetComments       Operation = "getComments"
	OpAddComment        Operation = "addComment"
	OpAddRecommendation Operation = "addRecommendation"
)

// Operations lists every operation in a stable order.
var Operations = []Operation{
	OpGetBlogPosts,
	OpGetComments,
	OpAddComment,
	OpAddRecommendation,
}

// IsWrite reports whether the operation submits data.
func (o Operation) IsWrite() bool {
	return o == OpAddComment || o == OpAddRecommendation
}

// Method returns the HTTP verb used for the operation.
func (o Operation) Method() string {
	if o.IsWrite() {
		return http.MethodPost
	}
	return http.MethodGet
}

func (o Operation) String() string { return string(o) }

// ParseOperation maps an action name to a known operation.
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", s)
}
