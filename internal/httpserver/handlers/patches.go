package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/session"
)

// KeepAlive is the interval of SSE comments sent to idle streams.
var KeepAlive = 25 * time.Second

// Patches streams a session's patches as Server-Sent Events, one JSON array per message.
func Patches(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, ok := lookup(d, w, r, chi.URLParam(r, "id"))
		if !ok {
			return
		}

		rc := http.NewResponseController(w)
		// the server WriteTimeout must not cut the stream
		_ = rc.SetWriteDeadline(time.Time{})

		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			d.Logger.Error("streaming not supported", logger.Error(err))
			return
		}

		ticker := time.NewTicker(KeepAlive)
		defer ticker.Stop()

		for {
			if err := writePatches(w, s); err != nil {
				d.Logger.Debug("patch stream closed", logger.String("session", s.ID()), logger.Error(err))
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}

			select {
			case <-s.Notify():
			case <-ticker.C:
				s.Touch()
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
			case <-s.Done():
				return
			case <-r.Context().Done():
				return
			}
		}
	}
}

func writePatches(w http.ResponseWriter, s *session.Session) error {
	patches := s.Drain()
	if len(patches) == 0 {
		return nil
	}
	data, err := json.Marshal(patches)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
