package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every folio collector. It is served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	remoteRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "remote_requests_total",
		Help:      "Requests sent to the remote endpoint, by operation and outcome.",
	}, []string{"operation", "outcome"})

	remoteDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "folio",
		Name:      "remote_request_duration_seconds",
		Help:      "Round-trip time of remote endpoint requests.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
	}, []string{"operation"})

	sessionEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "session_events_total",
		Help:      "Events processed by page sessions, by type.",
	}, []string{"type"})

	activeSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "folio",
		Name:      "sessions_active",
		Help:      "Page sessions currently registered.",
	})

	reapedSessions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "sessions_reaped_total",
		Help:      "Idle page sessions closed by the reaper.",
	})

	rateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "http_rate_limited_total",
		Help:      "Requests rejected by a rate limiter, by limiter.",
	}, []string{"limiter"})

	siteReloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "folio",
		Name:      "site_reloads_total",
		Help:      "Site file reloads, by trigger and outcome.",
	}, []string{"trigger", "outcome"})
)

func init() {
	Registry.MustRegister(
		remoteRequests,
		remoteDuration,
		sessionEvents,
		activeSessions,
		reapedSessions,
		rateLimited,
		siteReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// ObserveRemote records one remote request.
func ObserveRemote(operation, outcome string, d time.Duration) {
	remoteRequests.WithLabelValues(operation, outcome).Inc()
	remoteDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveEvent counts one session event.
func ObserveEvent(eventType string) {
	sessionEvents.WithLabelValues(eventType).Inc()
}

// SetActiveSessions reports the registry size.
func SetActiveSessions(n int) {
	activeSessions.Set(float64(n))
}

// ObserveReaped counts sessions closed for inactivity.
func ObserveReaped(n int) {
	reapedSessions.Add(float64(n))
}

// ObserveRateLimited counts one request rejected by limiter.
func ObserveRateLimited(limiter string) {
	rateLimited.WithLabelValues(limiter).Inc()
}

// ObserveReload records one site reload attempt.
func ObserveReload(trigger string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	siteReloads.WithLabelValues(trigger, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
