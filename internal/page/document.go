package page

import (
	"html/template"
	"sync"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

// Container ids.
const (
	ContainerPosts      = "blog-content"
	ContainerComments   = "comments-container"
	ContainerTestResult = "test-result"
)

// Form ids and their field names.
const (
	FormComment        = "comment-form"
	FieldReviewerName  = "reviewer-name"
	FieldCommentText   = "comment-text"
	FormRecommendation = "recommendation-form"
	FieldName          = "name"
	FieldMessage       = "message"
)

// maxOutbox caps patches kept for a browser that is not listening.
// A reconnecting browser reloads the full page anyway.
const maxOutbox = 256

// Token identifies one write into a container.
type Token uint64

type container struct {
	html  template.HTML
	token Token
}

// Button is a form's submit control.
type Button struct {
	Label    string
	Disabled bool

	original string
	busy     bool
}

// Begin disables the button and shows label, remembering the original label.
func (b *Button) Begin(label string) {
	if !b.busy {
		b.original = b.Label
		b.busy = true
	}
	b.Label = label
	b.Disabled = true
}

// Restore puts back the original label and re-enables the button.
// Calling it again, or without Begin, leaves the button enabled with its label.
func (b *Button) Restore() {
	if b.busy {
		b.Label = b.original
		b.busy = false
	}
	b.Disabled = false
}

// Form is a submission form: its field values and submit button.
type Form struct {
	ID     string
	Fields map[string]string
	Submit Button

	order []string
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string { return f.Fields[name] }

// Document is the rendering target of a page session.
//
// Everything except the patch outbox is owned by the session loop goroutine.
type Document struct {
	sections   []domain.Section
	active     string
	containers map[string]*container
	forms      map[string]*Form
	debugOpen  bool
	msgs       Messages

	mu     sync.Mutex
	outbox []Patch
	notify chan struct{}
}

// NewDocument builds the initial document: no section visible, empty containers.
func NewDocument(sections []domain.Section, msgs Messages) *Document {
	d := &Document{
		sections:   append([]domain.Section(nil), sections...),
		containers: make(map[string]*container),
		forms:      make(map[string]*Form),
		msgs:       msgs.WithDefaults(),
		notify:     make(chan struct{}, 1),
	}
	for _, id := range []string{ContainerPosts, ContainerComments, ContainerTestResult} {
		d.containers[id] = &container{}
	}
	d.forms[FormComment] = newForm(FormComment, "Post Comment", FieldReviewerName, FieldCommentText)
	d.forms[FormRecommendation] = newForm(FormRecommendation, "Send Recommendation", FieldName, FieldMessage)
	return d
}

func newForm(id, label string, fields ...string) *Form {
	f := &Form{ID: id, Fields: make(map[string]string, len(fields)), Submit: Button{Label: label}, order: fields}
	for _, name := range fields {
		f.Fields[name] = ""
	}
	return f
}

// Messages returns the texts in use.
func (d *Document) Messages() Messages { return d.msgs }

// Active returns the visible section id.
func (d *Document) Active() string { return d.active }

// ShowSection hides every section and shows id.
func (d *Document) ShowSection(id string) {
	d.active = id
	d.emit(Patch{Kind: PatchShowSection, Target: id})
}

// HTML returns the current content of a container.
func (d *Document) HTML(id string) template.HTML {
	if c, ok := d.containers[id]; ok {
		return c.html
	}
	return ""
}

// Begin writes html into a container and returns the token of this write.
// Only the latest token may commit into the container.
func (d *Document) Begin(id string, html template.HTML) Token {
	c := d.container(id)
	c.token++
	c.html = html
	d.emit(Patch{Kind: PatchSetHTML, Target: id, HTML: html})
	return c.token
}

// Commit writes html if tok is still the container's latest write.
func (d *Document) Commit(id string, tok Token, html template.HTML) bool {
	c := d.container(id)
	if c.token != tok {
		return false
	}
	c.html = html
	d.emit(Patch{Kind: PatchSetHTML, Target: id, HTML: html})
	return true
}

func (d *Document) container(id string) *container {
	c, ok := d.containers[id]
	if !ok {
		c = &container{}
		d.containers[id] = c
	}
	return c
}

// Form returns a form by id, nil if unknown.
func (d *Document) Form(id string) *Form { return d.forms[id] }

// SetFields records the values typed into a form. Unknown fields are ignored.
func (d *Document) SetFields(id string, values map[string]string) {
	f := d.forms[id]
	if f == nil {
		return
	}
	for name, v := range values {
		if _, ok := f.Fields[name]; ok {
			f.Fields[name] = v
		}
	}
}

// ResetForm clears every field of a form.
func (d *Document) ResetForm(id string) {
	f := d.forms[id]
	if f == nil {
		return
	}
	for name := range f.Fields {
		f.Fields[name] = ""
	}
	d.emit(Patch{Kind: PatchResetForm, Target: id})
}

// BeginSubmit swaps the form's submit label for label and disables it.
func (d *Document) BeginSubmit(id, label string) {
	f := d.forms[id]
	if f == nil {
		return
	}
	f.Submit.Begin(label)
	d.emit(Patch{Kind: PatchSetButton, Target: id, Text: f.Submit.Label, Disabled: f.Submit.Disabled})
}

// RestoreSubmit restores the form's submit control.
func (d *Document) RestoreSubmit(id string) {
	f := d.forms[id]
	if f == nil {
		return
	}
	f.Submit.Restore()
	d.emit(Patch{Kind: PatchSetButton, Target: id, Text: f.Submit.Label, Disabled: f.Submit.Disabled})
}

// Alert shows an acknowledgment to the visitor.
func (d *Document) Alert(text string) {
	d.emit(Patch{Kind: PatchAlert, Text: text})
}

// ReplaceFragment rewrites the browser fragment without a history entry.
func (d *Document) ReplaceFragment(id string) {
	d.emit(Patch{Kind: PatchReplaceFragment, Target: id})
}

// PushFragment sets the browser fragment with a history entry.
func (d *Document) PushFragment(id string) {
	d.emit(Patch{Kind: PatchPushFragment, Target: id})
}

// ToggleDebug flips the debug panel and returns its new visibility.
func (d *Document) ToggleDebug() bool {
	d.debugOpen = !d.debugOpen
	d.emit(Patch{Kind: PatchToggleDebug, Visible: d.debugOpen, Text: d.debugLabel()})
	return d.debugOpen
}

// DebugOpen reports whether the debug panel is visible.
func (d *Document) DebugOpen() bool { return d.debugOpen }

func (d *Document) debugLabel() string {
	if d.debugOpen {
		return d.msgs.HideDebug
	}
	return d.msgs.ShowDebug
}

func (d *Document) emit(p Patch) {
	d.mu.Lock()
	d.outbox = append(d.outbox, p)
	if len(d.outbox) > maxOutbox {
		d.outbox = d.outbox[len(d.outbox)-maxOutbox:]
	}
	d.mu.Unlock()

	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// Drain returns and clears the pending patches. Safe from any goroutine.
func (d *Document) Drain() []Patch {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.outbox
	d.outbox = nil
	return out
}

// Notify is signalled whenever patches are pending.
func (d *Document) Notify() <-chan struct{} { return d.notify }

// View is a snapshot of the document for full-page rendering.
type View struct {
	SessionID  string
	Fragment   string
	Locale     string
	Sections   []SectionView
	Containers map[string]template.HTML
	Forms      map[string]FormView
	DebugOpen  bool
	DebugLabel string
	Operations []domain.Operation
	Messages   Messages
}

// SectionView is one section in a View.
type SectionView struct {
	ID              string
	Title           string
	Body            template.HTML
	Active          bool
	Remote          bool
	Recommendations bool
}

// FormView is one form in a View.
type FormView struct {
	Fields      map[string]string
	SubmitLabel string
	Disabled    bool
}

// View snapshots the document. It must be called from the loop goroutine.
func (d *Document) View() View {
	v := View{
		Containers: make(map[string]template.HTML, len(d.containers)),
		Forms:      make(map[string]FormView, len(d.forms)),
		DebugOpen:  d.debugOpen,
		DebugLabel: d.debugLabel(),
		Operations: domain.Operations,
		Messages:   d.msgs,
	}
	for _, s := range d.sections {
		v.Sections = append(v.Sections, SectionView{
			ID:              s.ID,
			Title:           s.Title,
			Body:            template.HTML(s.Body),
			Active:          s.ID == d.active,
			Remote:          s.Remote,
			Recommendations: s.Recommendations,
		})
	}
	for id, c := range d.containers {
		v.Containers[id] = c.html
	}
	for id, f := range d.forms {
		fields := make(map[string]string, len(f.Fields))
		for _, name := range f.order {
			fields[name] = f.Fields[name]
		}
		v.Forms[id] = FormView{Fields: fields, SubmitLabel: f.Submit.Label, Disabled: f.Submit.Disabled}
	}
	return v
}
