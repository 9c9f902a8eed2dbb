package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
)

func init() { Register(registerSession) }

// The patch stream is long-lived, so only the event route gets a timeout.
func registerSession(r chi.Router, d deps.Deps) {
	r.Route("/session/{id}", func(r chi.Router) {
		r.With(
			middleware.Timeout(5*time.Second),
			mw.RateLimit(mw.RateLimitConfig{
				Name:              "events",
				Burst:             d.EventBurst,
				RefillPerIPPerMin: d.EventsPerMin,
				TrustProxy:        d.TrustProxy,
				Logger:            d.Logger,
			}),
		).Post("/events", handlers.Events(d))
		r.Get("/patches", handlers.Patches(d))
	})
}
