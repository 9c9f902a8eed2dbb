package page

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
)

func parse(t *testing.T, html template.HTML) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	require.NoError(t, err)
	return doc
}

func newTestRenderer() *Renderer {
	return NewRenderer(Messages{}, NewLocalizer("en-US", time.UTC))
}

func TestRenderPosts(t *testing.T) {
	r := newTestRenderer()
	html := r.Posts([]domain.Post{
		{Title: "Hello", Content: "first\nsecond", Timestamp: time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)},
		{Title: "<b>Bold</b>", Content: "x", Timestamp: time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)},
	})

	doc := parse(t, html)
	articles := doc.Find("article.post")
	require.Equal(t, 2, articles.Length())

	first := articles.First()
	assert.Equal(t, "Hello", first.Find("h3").Text())
	assert.Contains(t, first.Find("small").Text(), "3/5/2024")
	assert.Equal(t, 1, first.Find("div br").Length())
	assert.Contains(t, string(html), "first<br>second")

	assert.Equal(t, "<b>Bold</b>", articles.Eq(1).Find("h3").Text(), "titles are escaped")
}

func TestRenderPostsEmpty(t *testing.T) {
	r := newTestRenderer()
	html := r.Posts(nil)

	assert.Equal(t, "No blog posts yet. Check back soon!", parse(t, html).Find("p").Text())
	assert.NotContains(t, string(html), "Error")
	assert.NotContains(t, string(html), "Loading")
}

func TestRenderComments(t *testing.T) {
	r := newTestRenderer()
	html := r.Comments([]domain.Comment{
		{Name: "Ann", Message: "Nice!", Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
	})

	doc := parse(t, html)
	assert.Equal(t, "What others are saying:", doc.Find("h4").Text())
	comment := doc.Find("div.comment")
	require.Equal(t, 1, comment.Length())
	assert.Equal(t, "Ann", comment.Find("strong").Text())
	assert.Equal(t, "(1/2/2024)", comment.Find("small").Text())
	assert.Equal(t, "Nice!", comment.Find("p").Text())
}

func TestRenderCommentsEmpty(t *testing.T) {
	r := newTestRenderer()
	assert.Equal(t, "No comments yet. Be the first to leave one!", parse(t, r.Comments(nil)).Find("p").Text())
}

func TestRenderListError(t *testing.T) {
	r := newTestRenderer()
	err := &sheetapi.ApplicationError{Op: domain.OpGetComments, Message: "Sheet missing"}
	html := r.CommentsError(err)

	text := parse(t, html).Text()
	assert.Contains(t, text, "Could not load comments. Error: Sheet missing")
	assert.Contains(t, text, "Show Debug Info")
}

func TestRenderProbe(t *testing.T) {
	r := newTestRenderer()

	tests := []struct {
		name   string
		report sheetapi.ProbeReport
		want   []string
	}{
		{
			name:   "success",
			report: sheetapi.ProbeReport{Operation: domain.OpGetBlogPosts, Outcome: sheetapi.KindNone, Pretty: `{"posts": []}`},
			want:   []string{"Connection test passed", "getBlogPosts", `{"posts": []}`},
		},
		{
			name:   "application error",
			report: sheetapi.ProbeReport{Operation: domain.OpGetComments, Outcome: sheetapi.KindApplication, Message: "bad sheet", Pretty: `{"error": "bad sheet"}`},
			want:   []string{"Error from the remote endpoint:", "bad sheet", "Full response:"},
		},
		{
			name:   "malformed",
			report: sheetapi.ProbeReport{Operation: domain.OpGetComments, Outcome: sheetapi.KindMalformed, Message: "invalid character", Raw: "<html>"},
			want:   []string{"Error parsing JSON response:", "invalid character", "<html>"},
		},
		{
			name:   "transport",
			report: sheetapi.ProbeReport{Operation: domain.OpAddComment, Outcome: sheetapi.KindTransport, Message: "connection refused"},
			want:   []string{"Failed to fetch:", "connection refused", "Common causes:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := parse(t, r.Probe(tt.report)).Text()
			for _, w := range tt.want {
				assert.Contains(t, text, w)
			}
		})
	}
}

func TestRenderPage(t *testing.T) {
	d := NewDocument([]domain.Section{
		{ID: "profile", Title: "Profile", Body: "<p>Hi, I'm a developer.</p>"},
		{ID: "blog", Title: "Blog", Remote: true},
		{ID: "recommendations", Title: "Recommendations", Recommendations: true},
	}, Messages{})
	d.ShowSection("blog")
	d.Begin(ContainerPosts, "<p>Loading blog posts...</p>")

	v := d.View()
	v.SessionID = "abc"

	var buf bytes.Buffer
	require.NoError(t, newTestRenderer().Page(&buf, v))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)

	assert.Equal(t, "abc", doc.Find("body").AttrOr("data-session", ""))
	assert.Equal(t, 3, doc.Find("nav a[data-tab]").Length())
	assert.Equal(t, 1, doc.Find("main section.active").Length())
	assert.Equal(t, "blog", doc.Find("main section.active").AttrOr("id", ""))
	assert.Equal(t, "Loading blog posts...", doc.Find("#blog-content p").Text())
	assert.Equal(t, 1, doc.Find("#comment-form").Length())
	assert.Equal(t, 1, doc.Find("#recommendation-form").Length())
	assert.Equal(t, 4, doc.Find("[data-test]").Length())
	assert.Equal(t, "Hi, I'm a developer.", doc.Find("#profile p").Text())
}

func TestLines(t *testing.T) {
	assert.Equal(t, template.HTML("a<br>b<br>c"), lines("a\nb\r\nc"))
	assert.Equal(t, template.HTML("&lt;i&gt;"), lines("<i>"))
}

func TestRenderPageLocale(t *testing.T) {
	r := NewRenderer(Messages{}, NewLocalizer("de-DE,de;q=0.9", time.UTC))
	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, NewDocument(nil, Messages{}).View()))

	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "de", doc.Find("html").AttrOr("lang", ""))
}

func TestUnknownFragmentRendersError(t *testing.T) {
	out := newTestRenderer().fragment("does-not-exist", nil)
	assert.True(t, strings.HasPrefix(string(out), "<p>"))
	assert.Contains(t, string(out), "does-not-exist")
}
