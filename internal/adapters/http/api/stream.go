package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/starline/pkg/metrics"
)

// StreamHandler pushes frames to clients over Server-Sent Events. Slow
// consumers miss intermediate frames rather than stalling the engine; each
// delivered frame is a complete snapshot so a skipped one costs nothing.
type StreamHandler struct {
	playback Playback
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(playback Playback) *StreamHandler {
	return &StreamHandler{playback: playback}
}

// HandleStream handles GET /stream requests. The connection stays open
// until the client goes away; every frame is one `data:` record.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "stream_unsupported", ErrStreamUnflushed)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	frames, cancel := h.playback.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, open := <-frames:
			if !open {
				return
			}
			payload, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			flusher.Flush()
			metrics.RecordFrameServed()
		}
	}
}
