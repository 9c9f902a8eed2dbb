package redis

import (
	"context"
	"time"
)

// Throttle limits submissions per client in fixed windows shared by every folio instance.
type Throttle struct {
	store  *Store
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewThrottle allows limit submissions per window and client.
func NewThrottle(store *Store, limit int, window time.Duration) *Throttle {
	return &Throttle{store: store, limit: limit, window: window, now: time.Now}
}

// Allow counts one submission and reports whether it is within the limit.
func (t *Throttle) Allow(ctx context.Context, client string) (bool, error) {
	n, err := t.store.CountSubmission(ctx, client, t.now(), t.window)
	if err != nil {
		return false, err
	}
	return n <= int64(t.limit), nil
}
