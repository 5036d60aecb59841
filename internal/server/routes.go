// Package server wires the HTTP surface: the websocket endpoint plus health and board inspection.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"whiteboard/internal/board"
)

// BoardInfo: response body of GET /boards/{boardID}
type BoardInfo struct {
	BoardID string `json:"boardId"`
	State   string `json:"state"`
	board.Stats
}

// NewRouter: ws serves /ws; connect, when non-nil, guards it (per-IP connection budget)
func NewRouter(registry *board.Registry, ws http.Handler, connect func(http.Handler) http.Handler, logger zerolog.Logger) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(logger))

	r.Group(func(r chi.Router) {
		if connect != nil {
			r.Use(connect)
		}
		r.Handle("/ws", ws)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "boards": registry.Len()})
	})

	r.Get("/boards/{boardID}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "boardID")
		hub, ok := registry.Lookup(id)
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "board not found"})
			return
		}

		stats, err := hub.Stats(req.Context())
		if errors.Is(err, board.ErrHubClosed) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "board not found"})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, BoardInfo{
			BoardID: id,
			State:   registry.State(id).String(),
			Stats:   stats,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestLogger: one debug line per request; websocket requests log when the connection ends
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("component", "http").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}
