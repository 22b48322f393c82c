package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ControlsHandler exposes the playback transport: play, pause, reset, and
// runtime settings.
type ControlsHandler struct {
	playback Playback
}

// NewControlsHandler creates a new controls handler.
func NewControlsHandler(playback Playback) *ControlsHandler {
	return &ControlsHandler{playback: playback}
}

// HandlePlay handles POST /play requests. Pressing play at the end of the
// timeline (or before the first press) restarts the replay from scratch.
func (h *ControlsHandler) HandlePlay(w http.ResponseWriter, _ *http.Request) {
	h.playback.Play()
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "playing"})
}

// HandlePause handles POST /pause requests.
func (h *ControlsHandler) HandlePause(w http.ResponseWriter, _ *http.Request) {
	h.playback.Pause()
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "paused"})
}

// HandleReset handles POST /reset requests.
func (h *ControlsHandler) HandleReset(w http.ResponseWriter, _ *http.Request) {
	h.playback.Reset()
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "reset"})
}

// settingsRequest mirrors the PUT /settings schema.
type settingsRequest struct {
	PauseOnEvents *bool `json:"pause_on_events"`
}

// settingsResponse echoes the effective settings back to the caller.
type settingsResponse struct {
	PauseOnEvents bool `json:"pause_on_events"`
}

// HandleSettings handles PUT /settings requests.
func (h *ControlsHandler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if req.PauseOnEvents == nil {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Errorf("%w: missing pause_on_events", ErrBadRequest))
		return
	}

	h.playback.SetPauseOnEvents(*req.PauseOnEvents)
	writeJSON(w, http.StatusOK, settingsResponse{PauseOnEvents: h.playback.PauseOnEvents()})
}
