package session

import (
	"sync"
	"time"

	"github.com/MrSnakeDoc/folio/internal/metrics"
)

// Registry holds the live sessions by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Add registers a session, replacing any session with the same id.
func (r *Registry) Add(s *Session) {
	r.mu.Lock()
	old := r.sessions[s.ID()]
	r.sessions[s.ID()] = s
	n := len(r.sessions)
	r.mu.Unlock()

	if old != nil && old != s {
		old.Close()
	}
	metrics.SetActiveSessions(n)
}

// AddWithin registers a session unless limit sessions are already live.
// A limit of zero or less means no limit.
func (r *Registry) AddWithin(s *Session, limit int) bool {
	r.mu.Lock()
	if limit > 0 && len(r.sessions) >= limit {
		r.mu.Unlock()
		return false
	}
	r.sessions[s.ID()] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SetActiveSessions(n)
	return true
}

// Get retrieves a session by id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Remove closes and unregisters a session.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
	metrics.SetActiveSessions(n)
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// IdleSince returns the sessions with no activity after cutoff.
func (r *Registry) IdleSince(cutoff time.Time) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var idle []*Session
	for _, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
		}
	}
	return idle
}

// CloseAll closes and removes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
	metrics.SetActiveSessions(0)
}
