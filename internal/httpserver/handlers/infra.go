package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/folio/internal/domain"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
)

type componentStatus struct {
	OK              bool   `json:"ok"`
	Mode            string `json:"mode,omitempty"`
	Impact          string `json:"impact,omitempty"`
	Error           string `json:"error,omitempty"`
	LatencyMS       *int64 `json:"latency_ms,omitempty"`
	SectionsLoaded  *int   `json:"sections_loaded,omitempty"`
	SessionsActive  *int   `json:"sessions_active,omitempty"`
	DefaultSection  string `json:"default_section,omitempty"`
	SiteFile        string `json:"site_file,omitempty"`
	RemoteOperation string `json:"remote_operation,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

// infraProbeTimeout bounds the remote and redis checks.
const infraProbeTimeout = 5 * time.Second

// Infra reports the state of every dependency: remote endpoint, redis, site and sessions.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(r.Context(), infraProbeTimeout)
		defer cancel()

		st := d.Site.Current()
		sections := len(st.Sections)
		sessions := d.Sessions.Count()

		components := map[string]componentStatus{
			"remote": checkRemote(ctx, d),
			"redis":  checkRedis(ctx, d),
			"site": {
				OK:             sections > 0,
				SectionsLoaded: &sections,
				DefaultSection: st.Default,
				SiteFile:       siteFileLabel(d.SiteFile),
			},
			"sessions": {
				OK:             true,
				SessionsActive: &sessions,
			},
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(infraResponse{
			Status:     overallStatus(components),
			Components: components,
		})
	}
}

func overallStatus(components map[string]componentStatus) string {
	if !components["site"].OK || !components["remote"].OK {
		return "critical" // visitors see errors in every remote section
	}
	if !components["redis"].OK {
		return "degraded" // submission throttle falls open
	}
	return "optimal"
}

func checkRemote(ctx context.Context, d deps.Deps) componentStatus {
	report := d.Remote.Probe(ctx, domain.OpGetBlogPosts)
	latency := report.Duration.Milliseconds()

	if !report.OK() {
		return componentStatus{
			OK:              false,
			Mode:            string(report.Outcome),
			Impact:          "blog-unavailable",
			Error:           report.Message,
			LatencyMS:       &latency,
			RemoteOperation: report.Operation.String(),
		}
	}
	return componentStatus{
		OK:              true,
		Mode:            "reachable",
		LatencyMS:       &latency,
		RemoteOperation: report.Operation.String(),
	}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     true,
			Mode:   "memory",
			Impact: "throttle-per-instance",
		}
	}

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "throttle-disabled",
			Error:  err.Error(),
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "throttle-shared",
	}
}

func siteFileLabel(path string) string {
	if path == "" {
		return "builtin"
	}
	return path
}
