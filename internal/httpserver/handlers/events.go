package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/session"
)

// maxEventBytes bounds one browser event; form fields included.
const maxEventBytes = 64 << 10

// Events queues one browser event into its page session.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(d, w, r, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		var wire session.WireEvent
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBytes))
		if err := dec.Decode(&wire); err != nil {
			http.Error(w, "invalid event", http.StatusBadRequest)
			return
		}
		ev, err := wire.Event()
		if err != nil {
			d.Logger.Debug("rejected event", logger.String("session", s.ID()), logger.Error(err))
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		switch err := s.Dispatch(ev); {
		case err == nil:
			w.WriteHeader(http.StatusAccepted)
		case errors.Is(err, session.ErrBusy):
			http.Error(w, err.Error(), http.StatusTooManyRequests)
		case errors.Is(err, session.ErrClosed):
			http.Error(w, err.Error(), http.StatusGone)
		default:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}
