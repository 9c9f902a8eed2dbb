package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/session"
)

const (
	// DefaultSessionTTL is the idle time after which a page session is closed
	DefaultSessionTTL = 30 * time.Minute
)

// SessionReaper closes page sessions nobody has used for a while
type SessionReaper struct {
	registry *session.Registry
	logger   logger.Logger
	interval time.Duration
	ttl      time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// NewSessionReaper creates a new session reaper
func NewSessionReaper(registry *session.Registry, log logger.Logger, interval, ttl time.Duration) *SessionReaper {
	if ttl == 0 {
		ttl = DefaultSessionTTL
	}

	return &SessionReaper{
		registry: registry,
		logger:   log,
		interval: interval,
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic reaping
func (sr *SessionReaper) Start(ctx context.Context) {
	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sr.Reap()
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the reaper
func (sr *SessionReaper) Stop() {
	close(sr.stopCh)
}

// Reap closes sessions idle for longer than the TTL and returns how many were closed
func (sr *SessionReaper) Reap() int {
	idle := sr.registry.IdleSince(sr.now().Add(-sr.ttl))
	for _, s := range idle {
		sr.registry.Remove(s.ID())
		sr.logger.Debug("reaped idle session",
			logger.String("session", s.ID()),
			logger.Duration("idle_for", sr.now().Sub(s.LastSeen())))
	}

	if len(idle) > 0 {
		metrics.ObserveReaped(len(idle))
		sr.logger.Info("session reaping completed",
			logger.Int("reaped", len(idle)),
			logger.Int("remaining", sr.registry.Count()))
	}
	return len(idle)
}
