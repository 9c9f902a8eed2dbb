package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/sources/site"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := newTestSession(t, &fakeClient{}, nil)

	r.Add(a)
	assert.Equal(t, 1, r.Count())

	got, ok := r.Get("test")
	require.True(t, ok)
	assert.Same(t, a, got)

	assert.Empty(t, r.IdleSince(time.Now().Add(-time.Hour)))
	assert.Len(t, r.IdleSince(time.Now().Add(time.Hour)), 1)

	r.Remove("test")
	assert.Zero(t, r.Count())
	_, ok = r.Get("test")
	assert.False(t, ok)
	assert.ErrorIs(t, a.Dispatch(DebugToggle{}), ErrClosed)
}

func TestRegistryCloseAll(t *testing.T) {
	r := NewRegistry()
	a := newTestSession(t, &fakeClient{}, nil)
	r.Add(a)

	r.CloseAll()
	assert.Zero(t, r.Count())
	select {
	case <-a.Done():
	default:
		t.Fatal("session loop still running")
	}
}

func TestManagerOpen(t *testing.T) {
	m := NewManager(ManagerOptions{
		Site:   site.NewHolder(site.Builtin()),
		Client: &fakeClient{},
		Zone:   time.UTC,
		Logger: logger.New("error", false),
	})
	t.Cleanup(m.CloseAll)

	s, err := m.Open("fr-FR,fr;q=0.9", "203.0.113.7")
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, "fr", s.Renderer().Localizer().Locale())

	got, ok := m.Get(s.ID())
	require.True(t, ok)
	assert.Same(t, s, got)

	v, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s.ID(), v.SessionID)
	assert.Len(t, v.Sections, 3)

	other, err := m.Open("", "203.0.113.8")
	require.NoError(t, err)
	assert.NotEqual(t, s.ID(), other.ID())
	assert.Equal(t, 2, m.Count())
}

func TestManagerMaxSessions(t *testing.T) {
	m := NewManager(ManagerOptions{
		Site:        site.NewHolder(site.Builtin()),
		Client:      &fakeClient{},
		Zone:        time.UTC,
		MaxSessions: 2,
		Logger:      logger.New("error", false),
	})
	t.Cleanup(m.CloseAll)

	first, err := m.Open("", "203.0.113.7")
	require.NoError(t, err)
	_, err = m.Open("", "203.0.113.7")
	require.NoError(t, err)

	_, err = m.Open("", "203.0.113.9")
	assert.ErrorIs(t, err, ErrTooManySessions)
	assert.Equal(t, 2, m.Count())

	m.Remove(first.ID())
	_, err = m.Open("", "203.0.113.9")
	assert.NoError(t, err, "a closed session frees its slot")
}

func TestRegistryAddWithin(t *testing.T) {
	r := NewRegistry()
	t.Cleanup(r.CloseAll)

	a := newTestSession(t, &fakeClient{}, nil)
	assert.True(t, r.AddWithin(a, 1))
	assert.False(t, r.AddWithin(a, 1), "limit reached")
	assert.True(t, r.AddWithin(a, 0), "zero means no limit")
	assert.Equal(t, 1, r.Count())
}

func TestMemoryThrottle(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	th := NewMemoryThrottle(2, time.Minute)
	th.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := th.Allow(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "submission %d", i+1)
	}

	ok, _ := th.Allow(ctx, "b")
	assert.True(t, ok, "clients are counted separately")

	now = now.Add(time.Minute)
	ok, _ = th.Allow(ctx, "a")
	assert.True(t, ok, "a new window starts fresh")
}

func TestWireEvent(t *testing.T) {
	tests := []struct {
		name    string
		in      WireEvent
		want    Event
		wantErr bool
	}{
		{"page ready", WireEvent{Type: "page-ready", Fragment: "#blog"}, PageReady{Fragment: "#blog"}, false},
		{"fragment change", WireEvent{Type: "fragment-change", Fragment: "#x"}, FragmentChanged{Fragment: "#x"}, false},
		{"nav click", WireEvent{Type: "nav-click", Section: "blog"}, NavClicked{Section: "blog"}, false},
		{"nav click without section", WireEvent{Type: "nav-click"}, nil, true},
		{"submit", WireEvent{Type: "submit", Form: "comment-form", Fields: map[string]string{"reviewer-name": "A"}},
			Submit{Form: "comment-form", Fields: map[string]string{"reviewer-name": "A"}}, false},
		{"submit unknown form", WireEvent{Type: "submit", Form: "login"}, nil, true},
		{"debug toggle", WireEvent{Type: "debug-toggle"}, DebugToggle{}, false},
		{"debug test", WireEvent{Type: "debug-test", Operation: "addComment"}, DebugTest{Operation: "addComment"}, false},
		{"debug test unknown op", WireEvent{Type: "debug-test", Operation: "drop"}, nil, true},
		{"unknown", WireEvent{Type: "scroll"}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Event()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
