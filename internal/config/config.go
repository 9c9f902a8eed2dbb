package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // FOLIO_TIMEZONE must resolve in scratch images
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	RemoteURL     string        // remote spreadsheet endpoint (ex: https://script.google.com/macros/s/.../exec)
	RemoteTimeout time.Duration // per remote request (default: 15s)

	SiteFile       string         // path to the site.yaml file (optional, empty = builtin site)
	ReloadInterval time.Duration  // interval to reload the site file (default: 1h)
	SessionTTL     time.Duration  // idle time before a page session is closed (default: 30m)
	MaxSessions    int            // live page sessions allowed at once (0 = unlimited)
	ReapInterval   time.Duration  // interval to look for idle sessions (default: 1m)
	Timezone       *time.Location // zone used to render dates (default: UTC)

	SubmitLimit  int           // submissions per client and window (0 = unlimited)
	SubmitWindow time.Duration // submission window (default: 10m)
	EventBurst   int           // browser events allowed in a burst per IP
	EventsPerMin int           // browser events refilled per IP and minute
	PageBurst    int           // page loads allowed in a burst per IP
	PagesPerMin  int           // page loads refilled per IP and minute

	// Redis (optional, shares the submission throttle between instances)
	RedisAddr           string        // ex: "localhost:6379", empty => in-memory throttle
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts

	AllowedHosts   []string // optional, restrict admin routes to specific Host headers
	AllowedCIDRS   []string // optional, restrict admin routes to specific IP ranges (e.g. "10.0.0.0/8, 1.2.3.4")
	AllowedOrigins []string // optional, origins allowed to call the session API cross-origin
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FOLIO_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("FOLIO_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("FOLIO_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FOLIO_PRETTY_LOG", true),

		// Remote endpoint
		RemoteURL:     mustURL("FOLIO_REMOTE_URL"),
		RemoteTimeout: mustDuration("FOLIO_REMOTE_TIMEOUT", 15*time.Second),

		// Site and sessions
		SiteFile:       getenv("FOLIO_SITE_FILE", ""),
		ReloadInterval: mustDuration("FOLIO_RELOAD_INTERVAL", time.Hour),
		SessionTTL:     mustDuration("FOLIO_SESSION_TTL", 30*time.Minute),
		MaxSessions:    getenvInt("FOLIO_MAX_SESSIONS", 2000),
		ReapInterval:   mustDuration("FOLIO_REAP_INTERVAL", time.Minute),
		Timezone:       mustLocation("FOLIO_TIMEZONE", "UTC"),

		// Abuse limits
		SubmitLimit:  getenvInt("FOLIO_SUBMIT_LIMIT", 5),
		SubmitWindow: mustDuration("FOLIO_SUBMIT_WINDOW", 10*time.Minute),
		EventBurst:   getenvInt("FOLIO_EVENT_BURST", 30),
		EventsPerMin: getenvInt("FOLIO_EVENTS_PER_MIN", 120),
		PageBurst:    getenvInt("FOLIO_PAGE_BURST", 10),
		PagesPerMin:  getenvInt("FOLIO_PAGES_PER_MIN", 30),

		// Redis settings
		RedisAddr:           getenv("FOLIO_REDIS_ADDR", ""),
		RedisUser:           getenv("FOLIO_REDIS_USERNAME", ""),
		RedisPassword:       getenv("FOLIO_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("FOLIO_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("FOLIO_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   splitAndTrim(getenv("FOLIO_ALLOWED_CIDRS", "")),
		AllowedOrigins: splitAndTrim(getenv("FOLIO_ALLOWED_ORIGINS", "")),
		TrustProxy:     mustBool("FOLIO_TRUST_PROXY", true),
	}

	if cfg.SubmitLimit < 0 {
		panic(fmt.Sprintf("❌ FATAL: FOLIO_SUBMIT_LIMIT must be >= 0, got %d", cfg.SubmitLimit))
	}
	if cfg.MaxSessions < 0 {
		panic(fmt.Sprintf("❌ FATAL: FOLIO_MAX_SESSIONS must be >= 0, got %d", cfg.MaxSessions))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfgCopy.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		cfgCopy.RemoteURL = redactURL(cfg.RemoteURL)
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// mustURL requires an absolute http(s) URL.
func mustURL(key string) string {
	v := requireEnv(key)
	u, err := url.Parse(v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		panic(fmt.Sprintf("❌ FATAL: %s must be an absolute http(s) URL, got %q", key, v))
	}
	return v
}

func mustLocation(key, def string) *time.Location {
	name := getenv(key, def)
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid time zone for %s: %s", key, name))
	}
	return loc
}

// redactURL keeps scheme and host only.
// Example: https://script.google.com/macros/s/SECRET/exec -> https://script.google.com/***
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "***REDACTED***"
	}
	return u.Scheme + "://" + u.Host + "/***"
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
