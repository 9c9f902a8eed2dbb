package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrThrottled is returned for a submission over the per-client limit.
var ErrThrottled = errors.New("submission limit reached")

// Throttle decides whether a client may submit another form.
type Throttle interface {
	Allow(ctx context.Context, client string) (bool, error)
}

// MemoryThrottle counts submissions per client in fixed windows, in process.
type MemoryThrottle struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	buckets map[string]bucket
}

type bucket struct {
	start time.Time
	count int
}

// NewMemoryThrottle allows limit submissions per window and client.
func NewMemoryThrottle(limit int, window time.Duration) *MemoryThrottle {
	return &MemoryThrottle{
		limit:   limit,
		window:  window,
		now:     time.Now,
		buckets: make(map[string]bucket),
	}
}

func (t *MemoryThrottle) Allow(_ context.Context, client string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	b := t.buckets[client]
	if now.Sub(b.start) >= t.window {
		b = bucket{start: now}
	}
	b.count++
	t.buckets[client] = b

	// drop expired buckets once the map grows
	if len(t.buckets) > 1024 {
		for k, v := range t.buckets {
			if now.Sub(v.start) >= t.window {
				delete(t.buckets, k)
			}
		}
	}
	return b.count <= t.limit, nil
}
