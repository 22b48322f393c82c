// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/starline/internal/domain/model"
)

// Playback bundles the engine operations the HTTP layer depends on. Using
// an interface bundle keeps the handler layer loosely coupled to the
// implementation in internal/app.
type Playback interface {
	// Frame returns the current read model of the replay.
	Frame() model.Frame

	// Subscribe registers a frame listener for streaming.
	Subscribe() (<-chan model.Frame, func())

	// Transport controls.
	Play()
	Pause()
	Reset()

	// SetPauseOnEvents toggles the halt-on-annotation mode.
	SetPauseOnEvents(enabled bool)
	PauseOnEvents() bool

	// Stats exposes service counters for diagnostics.
	Stats() map[string]any
}

// Server wires HTTP routes for the replay API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	frameHandler    *FrameHandler
	controlsHandler *ControlsHandler
	streamHandler   *StreamHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(playback Playback) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(playback),
		frameHandler:    NewFrameHandler(playback),
		controlsHandler: NewControlsHandler(playback),
		streamHandler:   NewStreamHandler(playback),
	}
}

// Router builds the chi router with all routes attached.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	r.Get("/frame", MetricsMiddleware(s.frameHandler.HandleGetFrame, "frame"))
	r.Get("/stream", s.streamHandler.HandleStream) // long-lived; latency metric skipped

	r.Post("/play", MetricsMiddleware(s.controlsHandler.HandlePlay, "play"))
	r.Post("/pause", MetricsMiddleware(s.controlsHandler.HandlePause, "pause"))
	r.Post("/reset", MetricsMiddleware(s.controlsHandler.HandleReset, "reset"))
	r.Put("/settings", MetricsMiddleware(s.controlsHandler.HandleSettings, "settings"))

	return r
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
