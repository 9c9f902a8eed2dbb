package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

func testSections() []domain.Section {
	return []domain.Section{
		{ID: "profile", Title: "Profile"},
		{ID: "projects", Title: "Projects"},
		{ID: "blog", Title: "Blog", Remote: true},
		{ID: "recommendations", Title: "Recommendations"},
	}
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := New(testSections(), "profile")
	require.NoError(t, err)
	return r
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil, "profile")
	assert.Error(t, err, "no sections")

	_, err = New(testSections(), "missing")
	assert.Error(t, err, "unknown default")

	_, err = New([]domain.Section{{ID: "a"}, {ID: "a"}}, "a")
	assert.Error(t, err, "duplicate id")

	_, err = New([]domain.Section{{ID: ""}}, "")
	assert.Error(t, err, "empty id")
}

func TestActivateKnownSection(t *testing.T) {
	for _, id := range []string{"profile", "projects", "blog", "recommendations"} {
		t.Run(id, func(t *testing.T) {
			r := newTestRouter(t)
			effects := r.ActivateFromLocation("#" + id)

			assert.Equal(t, id, r.Active())
			assert.Contains(t, effects, Effect(ShowSection{ID: id}))
			for _, e := range effects {
				_, rewrite := e.(ReplaceFragment)
				assert.False(t, rewrite, "fragment already matches, no rewrite expected")
			}
		})
	}
}

func TestActivateUnknownFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
	}{
		{name: "empty", fragment: ""},
		{name: "bare hash", fragment: "#"},
		{name: "unknown", fragment: "#nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)
			effects := r.ActivateFromLocation(tt.fragment)

			assert.Equal(t, "profile", r.Active())
			assert.Equal(t, []Effect{ShowSection{ID: "profile"}, ReplaceFragment{ID: "profile"}}, effects)
		})
	}
}

func TestActivateIsIdempotent(t *testing.T) {
	r := newTestRouter(t)

	first := r.ActivateFromLocation("#blog")
	require.NotEmpty(t, first)

	second := r.ActivateFromLocation("#blog")
	assert.Empty(t, second)
	assert.Equal(t, "blog", r.Active())
}

func TestUnknownFragmentWhileDefaultActiveOnlyRewrites(t *testing.T) {
	r := newTestRouter(t)
	r.ActivateFromLocation("#profile")

	effects := r.ActivateFromLocation("#bogus")
	assert.Equal(t, []Effect{ReplaceFragment{ID: "profile"}}, effects)
}

func TestRemoteSectionLoadsOncePerActivation(t *testing.T) {
	r := newTestRouter(t)

	count := func(effects []Effect) int {
		n := 0
		for _, e := range effects {
			if lr, ok := e.(LoadRemote); ok {
				assert.Equal(t, "blog", lr.Section)
				n++
			}
		}
		return n
	}

	assert.Equal(t, 1, count(r.Handle(PageReady{Fragment: "blog"})))
	assert.Equal(t, 0, count(r.ActivateFromLocation("blog")))
	assert.Equal(t, 0, count(r.ActivateFromLocation("profile")))
	assert.Equal(t, 1, count(r.ActivateFromLocation("blog")))
}

func TestNavigateToOnlyAssignsFragment(t *testing.T) {
	r := newTestRouter(t)
	r.ActivateFromLocation("")

	effects := r.NavigateTo("blog")
	assert.Equal(t, []Effect{AssignFragment{ID: "blog"}}, effects)
	assert.Equal(t, "profile", r.Active(), "click must not switch sections directly")
}

func TestReduceIsPure(t *testing.T) {
	r := newTestRouter(t)
	before := r.State()

	next, effects := r.Reduce(before, FragmentChanged{Fragment: "projects"})
	assert.Equal(t, "projects", next.Active)
	assert.NotEmpty(t, effects)
	assert.Equal(t, before, r.State(), "Reduce must not touch router state")
}

func TestNormalizeFragment(t *testing.T) {
	assert.Equal(t, "blog", NormalizeFragment("#blog"))
	assert.Equal(t, "blog", NormalizeFragment(" blog "))
	assert.Equal(t, "", NormalizeFragment("#"))
}
