package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/folio/internal/httpserver/mw"
)

func init() { Register(registerPage, middleware.Timeout(10*time.Second)) }

// Every page load opens a session, so loads are limited per IP.
func registerPage(r chi.Router, d deps.Deps) {
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Name:              "page",
		Burst:             d.PageBurst,
		RefillPerIPPerMin: d.PagesPerMin,
		TrustProxy:        d.TrustProxy,
		Logger:            d.Logger,
	})).Get("/", handlers.Page(d))
}
