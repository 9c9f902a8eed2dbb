package sheetapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

// payload is the success shape of one operation.
type payload interface {
	validate() error
}

// Envelope is the tagged union every operation returns: either the success
// payload or an error tag, never both.
type Envelope[T payload] struct {
	Payload T
	Error   string
	Failed  bool
}

func (e *Envelope[T]) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if msg, ok := errorTag(fields["error"]); ok {
		e.Failed = true
		e.Error = msg
		return nil
	}
	return json.Unmarshal(data, &e.Payload)
}

// errorTag reports whether the error field is set to a truthy value.
func errorTag(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch string(raw) {
	case "null", "false", `""`, "0":
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	if f, err := strconv.ParseFloat(string(raw), 64); err == nil && f == 0 {
		return "", false
	}
	return string(raw), true
}

// cell is a spreadsheet value shown as text. Numbers and booleans keep their
// JSON spelling; null and nested values decode to the empty string.
type cell string

func (c *cell) UnmarshalJSON(data []byte) error {
	*c = ""

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = cell(s)
	case 'n', '{', '[':
	default:
		*c = cell(data)
	}
	return nil
}

type postRecord struct {
	Title     cell             `json:"title"`
	Content   cell             `json:"content"`
	Timestamp domain.Timestamp `json:"timestamp"`
}

type commentRecord struct {
	Name      cell             `json:"name"`
	Message   cell             `json:"message"`
	Timestamp domain.Timestamp `json:"timestamp"`
}

// PostsPayload is the success shape of getBlogPosts.
type PostsPayload struct {
	Posts *[]postRecord `json:"posts"`
}

func (p PostsPayload) validate() error {
	if p.Posts == nil {
		return errors.New(`missing "posts" field`)
	}
	return nil
}

func (p PostsPayload) posts() []domain.Post {
	out := make([]domain.Post, 0, len(*p.Posts))
	for _, r := range *p.Posts {
		out = append(out, domain.Post{Title: string(r.Title), Content: string(r.Content), Timestamp: r.Timestamp.Time})
	}
	return out
}

// CommentsPayload is the success shape of getComments.
type CommentsPayload struct {
	Data *[]commentRecord `json:"data"`
}

func (p CommentsPayload) validate() error {
	if p.Data == nil {
		return errors.New(`missing "data" field`)
	}
	return nil
}

func (p CommentsPayload) comments() []domain.Comment {
	out := make([]domain.Comment, 0, len(*p.Data))
	for _, r := range *p.Data {
		out = append(out, domain.Comment{Name: string(r.Name), Message: string(r.Message), Timestamp: r.Timestamp.Time})
	}
	return out
}

// WritePayload is the success shape of addComment and addRecommendation.
// The endpoint acknowledges writes without any required field.
type WritePayload struct {
	Success *bool  `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

func (WritePayload) validate() error { return nil }

// writeRequest is the JSON body of a write. Field order is the wire order.
type writeRequest struct {
	Action  domain.Operation `json:"action"`
	Name    string           `json:"name"`
	Message string           `json:"message"`
}
