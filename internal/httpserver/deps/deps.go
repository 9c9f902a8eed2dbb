package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/session"
	"github.com/MrSnakeDoc/folio/internal/sheetapi"
	"github.com/MrSnakeDoc/folio/internal/sources/site"
)

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	AllowedHosts   []string         // Host headers allowed to reach admin routes
	AllowedCIDRS   []string         // IPs allowed to reach admin routes
	AllowedOrigins []string         // cross-origin callers of the session API (empty = same origin only)
	TrustProxy     bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	EventBurst     int              // browser events allowed in a burst per IP
	EventsPerMin   int              // browser events refilled per IP and minute
	PageBurst      int              // page loads allowed in a burst per IP
	PagesPerMin    int              // page loads refilled per IP and minute
	Sessions       *session.Manager // live page sessions
	Remote         sheetapi.Client  // remote spreadsheet endpoint
	Site           *site.Holder     // site structure served to new sessions
	SiteFile       string           // path of the site file, empty for the builtin site
	RedisClient    *redis.Client    // optional, nil when the throttle is in memory
	ReloadTrigger  chan struct{}    // Channel to trigger a manual site reload
}
