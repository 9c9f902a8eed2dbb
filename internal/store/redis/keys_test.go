package redis

import (
	"testing"
	"time"
)

func TestSubmitKey(t *testing.T) {
	now := time.Date(2024, 3, 5, 14, 37, 12, 0, time.UTC)
	start := windowStart(now, 10*time.Minute)

	if want := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC); !start.Equal(want) {
		t.Fatalf("windowStart() = %v, want %v", start, want)
	}

	got := SubmitKey("203.0.113.7", start)
	want := "folio:submit:203.0.113.7:1709649000"
	if got != want {
		t.Errorf("SubmitKey() = %q, want %q", got, want)
	}

	later := windowStart(now.Add(2*time.Minute), 10*time.Minute)
	if SubmitKey("203.0.113.7", later) != got {
		t.Error("submissions in the same window must share a key")
	}
}
