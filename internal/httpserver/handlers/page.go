package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/session"
	"github.com/MrSnakeDoc/folio/internal/utils"
)

// SessionCookie binds a browser tab to its page session.
const SessionCookie = "folio_session"

// Page opens a page session and renders the page shell from its first snapshot.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.Sessions.Open(r.Header.Get("Accept-Language"), utils.ClientIP(r, d.TrustProxy))
		if errors.Is(err, session.ErrTooManySessions) {
			d.Logger.Warn("session limit reached", logger.Int("sessions", d.Sessions.Count()))
			w.Header().Set("Retry-After", "60")
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		}
		if err != nil {
			d.Logger.Error("failed to open session", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		view, err := s.Snapshot(r.Context())
		if err != nil {
			d.Sessions.Remove(s.ID())
			d.Logger.Error("failed to snapshot session", logger.String("session", s.ID()), logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		var buf bytes.Buffer
		if err := s.Renderer().Page(&buf, view); err != nil {
			d.Sessions.Remove(s.ID())
			d.Logger.Error("failed to render page", logger.String("session", s.ID()), logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		// scoped to the session's own routes, so every tab keeps its own cookie
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    s.ID(),
			Path:     "/session/" + s.ID(),
			HttpOnly: true,
			Secure:   r.TLS != nil || (d.TrustProxy && r.Header.Get("X-Forwarded-Proto") == "https"),
			SameSite: http.SameSiteStrictMode,
		})
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if _, err := buf.WriteTo(w); err != nil {
			d.Logger.Debug("failed to write page", logger.Error(err))
		}
	}
}

// lookup resolves the session of a /session/{id} request and checks the tab's cookie.
func lookup(d deps.Deps, w http.ResponseWriter, r *http.Request, id string) (*session.Session, bool) {
	s, ok := d.Sessions.Get(id)
	if !ok {
		http.Error(w, "session expired, reload the page", http.StatusNotFound)
		return nil, false
	}
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value != id {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return nil, false
	}
	return s, true
}
