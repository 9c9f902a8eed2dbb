package redis

import (
	"fmt"
	"time"
)

const (
	// KeyPrefixSubmit is the prefix for submission counters
	KeyPrefixSubmit = "folio:submit:"
)

// SubmitKey returns the counter key of a client for the window starting at start
func SubmitKey(client string, start time.Time) string {
	return fmt.Sprintf("%s%s:%d", KeyPrefixSubmit, client, start.Unix())
}

// windowStart truncates now to the beginning of its fixed window
func windowStart(now time.Time, window time.Duration) time.Time {
	return now.Truncate(window)
}
