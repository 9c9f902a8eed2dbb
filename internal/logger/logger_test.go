package logger

import (
	"errors"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		level  string
		pretty bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"error", true},
		{"bogus", false},
		{"", true},
	} {
		log := New(tc.level, tc.pretty)
		if log == nil {
			t.Fatalf("New(%q, %v) returned nil", tc.level, tc.pretty)
		}
		log.With(String("component", "test")).Debug("hello",
			Int("n", 1), Bool("ok", true), Duration("d", time.Second), Strings("s", []string{"a"}), Error(errors.New("x")))
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Info("discarded")
	log.Errorf("discarded %d", 1)
	if err := log.Sync(); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
}
