package domain

import "time"

// Post is a published blog post as returned by the remote endpoint.
// Posts are immutable once fetched and re-fetched on every visit to the blog section.
type Post struct {
	Title string

	// Content holds newline-delimited paragraphs.
	Content string

	Timestamp time.Time
}

// Comment is a visitor comment shown under the blog.
type Comment struct {
	Name      string
	Message   string
	Timestamp time.Time
}

// Recommendation is a write-only visitor recommendation.
type Recommendation struct {
	Name    string
	Message string
}
