package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/metrics"
)

// Metrics serves the Prometheus registry.
func Metrics() http.Handler {
	return metrics.Handler()
}
