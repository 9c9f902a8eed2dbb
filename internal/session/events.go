package session

import (
	"fmt"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/page"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
)

// Event is one unit of work for the session loop.
type Event interface{ eventType() string }

// PageReady is sent once by the browser when the page finished loading.
type PageReady struct{ Fragment string }

// FragmentChanged is sent when the URL fragment changed, either by the browser
// (back/forward, typed URL) or by the session itself after a navigation.
type FragmentChanged struct{ Fragment string }

// NavClicked is sent when a navigation link is clicked.
type NavClicked struct{ Section string }

// Submit carries the values of a submitted form.
type Submit struct {
	Form   string
	Fields map[string]string
}

// DebugToggle flips the debug panel.
type DebugToggle struct{}

// DebugTest runs the probe for one operation.
type DebugTest struct{ Operation domain.Operation }

func (PageReady) eventType() string       { return "page-ready" }
func (FragmentChanged) eventType() string { return "fragment-change" }
func (NavClicked) eventType() string      { return "nav-click" }
func (Submit) eventType() string          { return "submit" }
func (DebugToggle) eventType() string     { return "debug-toggle" }
func (DebugTest) eventType() string       { return "debug-test" }

// completions posted back by async work

type postsLoaded struct {
	token page.Token
	posts []domain.Post
	err   error
}

type commentsLoaded struct {
	token    page.Token
	comments []domain.Comment
	err      error
}

type submitted struct {
	form string
	err  error
}

type probeDone struct {
	token  page.Token
	report sheetapi.ProbeReport
}

// call runs fn on the loop goroutine.
type call struct {
	fn   func()
	done chan struct{}
}

func (postsLoaded) eventType() string    { return "posts-loaded" }
func (commentsLoaded) eventType() string { return "comments-loaded" }
func (submitted) eventType() string      { return "submitted" }
func (probeDone) eventType() string      { return "probe-done" }
func (call) eventType() string           { return "call" }

// WireEvent is the JSON shape the browser posts.
type WireEvent struct {
	Type      string            `json:"type"`
	Fragment  string            `json:"fragment,omitempty"`
	Section   string            `json:"section,omitempty"`
	Operation string            `json:"operation,omitempty"`
	Form      string            `json:"form,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// Event converts the wire form into a session event.
func (w WireEvent) Event() (Event, error) {
	switch w.Type {
	case "page-ready":
		return PageReady{Fragment: w.Fragment}, nil
	case "fragment-change":
		return FragmentChanged{Fragment: w.Fragment}, nil
	case "nav-click":
		if w.Section == "" {
			return nil, fmt.Errorf("nav-click without section")
		}
		return NavClicked{Section: w.Section}, nil
	case "submit":
		if w.Form != page.FormComment && w.Form != page.FormRecommendation {
			return nil, fmt.Errorf("unknown form %q", w.Form)
		}
		return Submit{Form: w.Form, Fields: w.Fields}, nil
	case "debug-toggle":
		return DebugToggle{}, nil
	case "debug-test":
		op, err := domain.ParseOperation(w.Operation)
		if err != nil {
			return nil, err
		}
		return DebugTest{Operation: op}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", w.Type)
	}
}
