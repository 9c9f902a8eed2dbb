package page

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
)

//go:embed templates/*.html
var templateFS embed.FS

var functions = template.FuncMap{
	"lines": lines,
}

var templates = template.Must(template.New("").Funcs(functions).ParseFS(templateFS, "templates/*.html"))

// lines escapes s and turns newlines into <br>.
func lines(s string) template.HTML {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	parts := strings.Split(s, "\n")
	for i, p := range parts {
		parts[i] = template.HTMLEscapeString(p)
	}
	return template.HTML(strings.Join(parts, "<br>"))
}

// Renderer turns remote results into container HTML for one visitor.
type Renderer struct {
	msgs Messages
	loc  Localizer
}

// NewRenderer creates a renderer with the given texts and locale.
func NewRenderer(msgs Messages, loc Localizer) *Renderer {
	return &Renderer{msgs: msgs.WithDefaults(), loc: loc}
}

// Localizer returns the locale used for dates.
func (r *Renderer) Localizer() Localizer { return r.loc }

// Message renders a single paragraph.
func (r *Renderer) Message(text string) template.HTML {
	return r.fragment("message", text)
}

type postView struct {
	Title   string
	Date    string
	Content string
}

// Posts renders the blog list, or the empty-state message when there are no posts.
func (r *Renderer) Posts(posts []domain.Post) template.HTML {
	if len(posts) == 0 {
		return r.Message(r.msgs.NoPosts)
	}
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{Title: p.Title, Date: r.loc.Date(p.Timestamp), Content: p.Content})
	}
	return r.fragment("posts", struct {
		PostedOn string
		Posts    []postView
	}{r.msgs.PostedOn, views})
}

type commentView struct {
	Name    string
	Date    string
	Message string
}

// Comments renders the comment list, or the empty-state message when there are none.
func (r *Renderer) Comments(comments []domain.Comment) template.HTML {
	if len(comments) == 0 {
		return r.Message(r.msgs.NoComments)
	}
	views := make([]commentView, 0, len(comments))
	for _, c := range comments {
		views = append(views, commentView{Name: c.Name, Date: r.loc.Date(c.Timestamp), Message: c.Message})
	}
	return r.fragment("comments", struct {
		Heading  string
		Comments []commentView
	}{r.msgs.CommentsHeading, views})
}

// PostsError renders a failed blog fetch.
func (r *Renderer) PostsError(err error) template.HTML {
	return r.listError(r.msgs.PostsError, err)
}

// CommentsError renders a failed comments fetch.
func (r *Renderer) CommentsError(err error) template.HTML {
	return r.listError(r.msgs.CommentsError, err)
}

func (r *Renderer) listError(title string, err error) template.HTML {
	return r.fragment("list-error", struct {
		Title   string
		Message string
		Hint    string
	}{title, sheetapi.Describe(err), r.msgs.DebugHint})
}

// Probe renders the full diagnostic report of a debug test.
func (r *Renderer) Probe(report sheetapi.ProbeReport) template.HTML {
	return r.fragment("probe", report)
}

// Page writes the full page shell for a view.
func (r *Renderer) Page(w io.Writer, v View) error {
	if v.Locale == "" {
		v.Locale = r.loc.Locale()
	}
	return templates.ExecuteTemplate(w, "page", v)
}

func (r *Renderer) fragment(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(err.Error()) + "</p>")
	}
	return template.HTML(strings.TrimSpace(buf.String()))
}
