package router

import (
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

// Router keeps exactly one section visible and in sync with the URL fragment.
//
// The fragment is the source of truth: clicks only rewrite it, and every
// activation goes through the fragment-change path.
type Router struct {
	sections []string
	known    map[string]bool
	remote   map[string]bool
	def      string
	state    State
}

// New builds a router over sections. defaultID must be one of them.
func New(sections []domain.Section, defaultID string) (*Router, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("router needs at least one section")
	}

	r := &Router{
		sections: make([]string, 0, len(sections)),
		known:    make(map[string]bool, len(sections)),
		remote:   make(map[string]bool),
		def:      defaultID,
	}
	for _, s := range sections {
		if s.ID == "" {
			return nil, fmt.Errorf("section with empty id")
		}
		if r.known[s.ID] {
			return nil, fmt.Errorf("duplicate section %q", s.ID)
		}
		r.known[s.ID] = true
		r.sections = append(r.sections, s.ID)
		if s.Remote {
			r.remote[s.ID] = true
		}
	}
	if !r.known[defaultID] {
		return nil, fmt.Errorf("default section %q is not a known section", defaultID)
	}
	return r, nil
}

// State returns the current router state.
func (r *Router) State() State { return r.state }

// Active returns the visible section id, empty before page-ready.
func (r *Router) Active() string { return r.state.Active }

// Sections returns the known section ids in declaration order.
func (r *Router) Sections() []string {
	out := make([]string, len(r.sections))
	copy(out, r.sections)
	return out
}

// Default returns the fallback section id.
func (r *Router) Default() string { return r.def }

// Knows reports whether id names a section.
func (r *Router) Knows(id string) bool { return r.known[id] }

// Handle applies ev to the router state and returns the side effects to run.
func (r *Router) Handle(ev Event) []Effect {
	next, effects := r.Reduce(r.state, ev)
	r.state = next
	return effects
}

// ActivateFromLocation selects the section named by fragment, falling back to the default.
func (r *Router) ActivateFromLocation(fragment string) []Effect {
	return r.Handle(FragmentChanged{Fragment: fragment})
}

// NavigateTo handles a navigation click: it only rewrites the fragment.
func (r *Router) NavigateTo(sectionID string) []Effect {
	return r.Handle(NavClicked{Section: sectionID})
}

// Reduce is the pure transition function of the router.
func (r *Router) Reduce(state State, ev Event) (State, []Effect) {
	switch e := ev.(type) {
	case PageReady:
		return r.activate(state, e.Fragment)
	case FragmentChanged:
		return r.activate(state, e.Fragment)
	case NavClicked:
		return state, []Effect{AssignFragment{ID: e.Section}}
	default:
		return state, nil
	}
}

func (r *Router) activate(state State, fragment string) (State, []Effect) {
	fragment = NormalizeFragment(fragment)

	target := r.def
	if fragment != "" && r.known[fragment] {
		target = fragment
	}

	var effects []Effect
	if state.Active != target {
		state.Active = target
		effects = append(effects, ShowSection{ID: target})
		if r.remote[target] {
			effects = append(effects, LoadRemote{Section: target})
		}
	}
	if fragment != target {
		effects = append(effects, ReplaceFragment{ID: target})
	}
	return state, effects
}

// NormalizeFragment strips the leading '#' from a location hash.
func NormalizeFragment(fragment string) string {
	return strings.TrimPrefix(strings.TrimSpace(fragment), "#")
}
