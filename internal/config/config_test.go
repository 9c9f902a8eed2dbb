package config

import (
	"reflect"
	"testing"
	"time"
)

func expectPanic(t *testing.T, name string) {
	t.Helper()
	if r := recover(); r == nil {
		t.Errorf("%s should have panicked", name)
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("FOLIO_REMOTE_URL", "https://script.google.com/macros/s/abc/exec")
	t.Setenv("FOLIO_REMOTE_TIMEOUT", "3s")
	t.Setenv("FOLIO_TIMEZONE", "Europe/Paris")
	t.Setenv("FOLIO_SUBMIT_LIMIT", "2")
	t.Setenv("FOLIO_ALLOWED_CIDRS", "10.0.0.0/8, '192.168.1.1'")
	t.Setenv("FOLIO_ALLOWED_ORIGINS", "https://me.example.com")
	t.Setenv("FOLIO_MAX_SESSIONS", "50")

	cfg := Load()

	if cfg.RemoteURL != "https://script.google.com/macros/s/abc/exec" {
		t.Errorf("RemoteURL = %q", cfg.RemoteURL)
	}
	if cfg.RemoteTimeout != 3*time.Second {
		t.Errorf("RemoteTimeout = %v, want 3s", cfg.RemoteTimeout)
	}
	if cfg.Timezone.String() != "Europe/Paris" {
		t.Errorf("Timezone = %v", cfg.Timezone)
	}
	if cfg.SubmitLimit != 2 {
		t.Errorf("SubmitLimit = %d, want 2", cfg.SubmitLimit)
	}
	if want := []string{"10.0.0.0/8", "192.168.1.1"}; !reflect.DeepEqual(cfg.AllowedCIDRS, want) {
		t.Errorf("AllowedCIDRS = %v, want %v", cfg.AllowedCIDRS, want)
	}

	if want := []string{"https://me.example.com"}; !reflect.DeepEqual(cfg.AllowedOrigins, want) {
		t.Errorf("AllowedOrigins = %v, want %v", cfg.AllowedOrigins, want)
	}

	if cfg.MaxSessions != 50 {
		t.Errorf("MaxSessions = %d, want 50", cfg.MaxSessions)
	}

	// defaults
	if cfg.PageBurst != 10 || cfg.PagesPerMin != 30 {
		t.Errorf("page limit = %d/%d, want 10/30", cfg.PageBurst, cfg.PagesPerMin)
	}
	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.SiteFile != "" || cfg.RedisAddr != "" {
		t.Errorf("optional settings should default to empty, got site=%q redis=%q", cfg.SiteFile, cfg.RedisAddr)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
}

func TestLoadRequiresRemoteURL(t *testing.T) {
	t.Setenv("FOLIO_REMOTE_URL", "")
	defer expectPanic(t, "Load() without FOLIO_REMOTE_URL")
	Load()
}

func TestLoadRejectsNegativeSubmitLimit(t *testing.T) {
	t.Setenv("FOLIO_REMOTE_URL", "https://example.com/exec")
	t.Setenv("FOLIO_SUBMIT_LIMIT", "-1")
	defer expectPanic(t, "Load() with a negative limit")
	Load()
}

func TestRequireEnv(t *testing.T) {
	t.Setenv("TEST_VAR", "test_value")
	if got := requireEnv("TEST_VAR"); got != "test_value" {
		t.Errorf("requireEnv() = %v, want test_value", got)
	}

	defer expectPanic(t, "requireEnv() on a missing variable")
	requireEnv("TEST_VAR_MISSING")
}

func TestMustURL(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantPanic bool
	}{
		{"https", "https://example.com/exec", false},
		{"http", "http://localhost:9000/exec", false},
		{"no scheme", "example.com/exec", true},
		{"ftp", "ftp://example.com", true},
		{"no host", "https://", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_URL", tt.value)
			if tt.wantPanic {
				defer expectPanic(t, "mustURL()")
			}
			if got := mustURL("TEST_URL"); got != tt.value {
				t.Errorf("mustURL() = %q, want %q", got, tt.value)
			}
		})
	}
}

func TestMustLocation(t *testing.T) {
	if loc := mustLocation("TEST_TZ_MISSING", "UTC"); loc != time.UTC {
		t.Errorf("mustLocation() = %v, want UTC", loc)
	}

	t.Setenv("TEST_TZ", "Not/AZone")
	defer expectPanic(t, "mustLocation() with an invalid zone")
	mustLocation("TEST_TZ", "UTC")
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://script.google.com/macros/s/SECRET/exec")
	if got != "https://script.google.com/***" {
		t.Errorf("redactURL() = %q", got)
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{` a , "b",, 'c' `, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		if got := splitAndTrim(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}
			if result := mustDuration(tt.key, tt.def); result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		def      bool
		expected bool
	}{
		{"true value", "true", false, true},
		{"false value", "false", true, false},
		{"invalid value uses default", "invalid", true, true},
		{"missing variable uses default", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if result := mustBool("TEST_BOOL", tt.def); result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT_INVALID", "nope")

	if got := getenvInt("TEST_INT", 1); got != 42 {
		t.Errorf("getenvInt() = %d, want 42", got)
	}
	if got := getenvInt("TEST_INT_INVALID", 7); got != 7 {
		t.Errorf("getenvInt() = %d, want default 7", got)
	}
}
