package site

import "sync/atomic"

// Holder publishes the current site to new sessions.
type Holder struct {
	current atomic.Pointer[Site]
}

// NewHolder creates a holder serving s.
func NewHolder(s Site) *Holder {
	h := &Holder{}
	h.Set(s)
	return h
}

// Current returns the site in effect.
func (h *Holder) Current() Site { return *h.current.Load() }

// Set replaces the site. Running sessions keep the site they started with.
func (h *Holder) Set(s Site) { h.current.Store(&s) }
