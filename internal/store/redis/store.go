package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store handles Redis operations for folio
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// CountSubmission increments the client's counter for the current window and returns it.
// The key expires with its window.
func (s *Store) CountSubmission(ctx context.Context, client string, now time.Time, window time.Duration) (int64, error) {
	key := SubmitKey(client, windowStart(now, window))

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count submission: %w", err)
	}

	return incr.Val(), nil
}
