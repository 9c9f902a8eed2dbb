package session

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
)

// fakeClient is an in-memory sheetapi.Client recording every call.
type fakeClient struct {
	mu sync.Mutex

	posts       []domain.Post
	postsErr    error
	comments    func(call int) ([]domain.Comment, error)
	writeErr    error
	postsCalls  int
	commentCall int
	added       []domain.Recommendation // comments and recommendations, by kind
	addedKinds  []domain.Operation
	probes      []domain.Operation
}

func (f *fakeClient) GetBlogPosts(context.Context) ([]domain.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.postsCalls++
	return f.posts, f.postsErr
}

func (f *fakeClient) GetComments(context.Context) ([]domain.Comment, error) {
	f.mu.Lock()
	f.commentCall++
	n, fn := f.commentCall, f.comments
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(n)
}

func (f *fakeClient) AddComment(_ context.Context, name, message string) error {
	return f.write(domain.OpAddComment, domain.Recommendation{Name: name, Message: message})
}

func (f *fakeClient) AddRecommendation(_ context.Context, rec domain.Recommendation) error {
	return f.write(domain.OpAddRecommendation, rec)
}

func (f *fakeClient) write(op domain.Operation, rec domain.Recommendation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, rec)
	f.addedKinds = append(f.addedKinds, op)
	return f.writeErr
}

func (f *fakeClient) Probe(_ context.Context, op domain.Operation) sheetapi.ProbeReport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes = append(f.probes, op)
	return sheetapi.ProbeReport{Operation: op, Outcome: sheetapi.KindNone, Pretty: `{"posts": []}`}
}

func (f *fakeClient) counts() (posts, comments, writes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.postsCalls, f.commentCall, len(f.added)
}
