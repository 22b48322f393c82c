package api

import (
	"net/http"

	"github.com/okian/starline/pkg/metrics"
)

// FrameHandler serves the current replay read model.
type FrameHandler struct {
	playback Playback
}

// NewFrameHandler creates a new frame handler.
func NewFrameHandler(playback Playback) *FrameHandler {
	return &FrameHandler{playback: playback}
}

// HandleGetFrame handles GET /frame requests. The frame carries everything
// a renderer needs for one paint: visible series prefixes, the ranking
// snapshot, the active annotation, and timeline markers.
func (h *FrameHandler) HandleGetFrame(w http.ResponseWriter, _ *http.Request) {
	frame := h.playback.Frame()
	metrics.RecordFrameServed()
	writeJSON(w, http.StatusOK, frame)
}
