package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/utils"
)

// RateLimitConfig sizes a per-client token bucket.
type RateLimitConfig struct {
	Name              string // route group, used in logs and metrics
	Burst             int
	RefillPerIPPerMin int
	MaxEntries        int           // sweep early once this many clients are tracked
	SweepInterval     time.Duration // default 1m
	IdleTTL           time.Duration // forget clients idle this long, default 15m
	TrustProxy        bool          // resolve IP from proxy headers when true
	Logger            logger.Logger
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// buckets is one token bucket per client key, guarded by a single mutex.
type buckets struct {
	cfg      RateLimitConfig
	perSec   float64
	capacity float64

	mu        sync.Mutex
	byClient  map[string]*bucket
	lastSweep time.Time
}

func newBuckets(cfg RateLimitConfig, now time.Time) *buckets {
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 15 * time.Minute
	}
	cfg.Burst = max(cfg.Burst, 1)
	cfg.RefillPerIPPerMin = max(cfg.RefillPerIPPerMin, 1)

	return &buckets{
		cfg:       cfg,
		perSec:    float64(cfg.RefillPerIPPerMin) / 60,
		capacity:  float64(cfg.Burst),
		byClient:  make(map[string]*bucket),
		lastSweep: now,
	}
}

// take spends one token of key. When none is left it returns the seconds until the next one.
func (b *buckets) take(key string, now time.Time) (ok bool, remaining, retryAfter int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) >= b.cfg.SweepInterval ||
		(b.cfg.MaxEntries > 0 && len(b.byClient) >= b.cfg.MaxEntries) {
		b.sweep(now)
	}

	bk, found := b.byClient[key]
	if !found {
		bk = &bucket{tokens: b.capacity, lastSeen: now}
		b.byClient[key] = bk
	}
	if elapsed := now.Sub(bk.lastSeen).Seconds(); elapsed > 0 {
		bk.tokens = math.Min(b.capacity, bk.tokens+elapsed*b.perSec)
	}
	bk.lastSeen = now

	if bk.tokens < 1 {
		return false, 0, max(int(math.Ceil((1-bk.tokens)/b.perSec)), 1)
	}
	bk.tokens--
	return true, int(bk.tokens), 0
}

func (b *buckets) sweep(now time.Time) {
	for key, bk := range b.byClient {
		if now.Sub(bk.lastSeen) > b.cfg.IdleTTL {
			delete(b.byClient, key)
		}
	}
	b.lastSweep = now
}

// RateLimit rejects clients that exceed their bucket with 429 and a Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	b := newBuckets(cfg, time.Now())
	limit := strconv.Itoa(b.cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := utils.ClientIP(r, b.cfg.TrustProxy)
			ok, remaining, retry := b.take(key, time.Now())

			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !ok {
				metrics.ObserveRateLimited(b.cfg.Name)
				if b.cfg.Logger != nil {
					b.cfg.Logger.Warn("rate limit exceeded",
						logger.String("limiter", b.cfg.Name),
						logger.String("remote_ip", key),
						logger.Int("retry_after", retry))
				}
				h.Set("Retry-After", strconv.Itoa(retry))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
