package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"media-player/internal/player"
)

// PlayerStateResponse bundles the controller state with both engine
// mirrors, so the UI can apply sources, play/pause, and pending seeks
// to its media elements in one poll.
type PlayerStateResponse struct {
	State player.State       `json:"state"`
	Audio player.EngineState `json:"audio"`
	Video player.EngineState `json:"video"`
}

// GetPlayerState returns the current transport state.
func (h *Handlers) GetPlayerState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, PlayerStateResponse{
		State: h.controller.State(),
		Audio: h.audio.State(),
		Video: h.video.State(),
	})
}

// Play starts the catalog entry with the given id.
func (h *Handlers) Play(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.controller.PlayID(id) {
		writeJSONError(w, "unknown track", http.StatusNotFound)
		return
	}
	h.GetPlayerState(w, r)
}

// Pause pauses playback. Idle is a no-op.
func (h *Handlers) Pause(w http.ResponseWriter, r *http.Request) {
	h.controller.Pause()
	h.GetPlayerState(w, r)
}

// Toggle flips between playing and paused.
func (h *Handlers) Toggle(w http.ResponseWriter, r *http.Request) {
	h.controller.Toggle()
	h.GetPlayerState(w, r)
}

// Next advances to the following track, wrapping circularly.
func (h *Handlers) Next(w http.ResponseWriter, r *http.Request) {
	h.controller.Next()
	h.GetPlayerState(w, r)
}

// Previous moves to the preceding track, wrapping circularly.
func (h *Handlers) Previous(w http.ResponseWriter, r *http.Request) {
	h.controller.Previous()
	h.GetPlayerState(w, r)
}

// SeekRequest carries the pointer position as a fraction of the seek
// control width; the pointer arithmetic stays in the UI.
type SeekRequest struct {
	Fraction float64 `json:"fraction"`
}

// Seek positions playback within the current track.
func (h *Handlers) Seek(w http.ResponseWriter, r *http.Request) {
	var req SeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid seek request", http.StatusBadRequest)
		return
	}
	h.controller.SeekFraction(req.Fraction)
	h.GetPlayerState(w, r)
}

// ProgressRequest mirrors a media element's timeupdate event.
type ProgressRequest struct {
	TrackID     string  `json:"trackId"`
	CurrentTime float64 `json:"currentTime"`
	Duration    float64 `json:"duration"`
}

// Progress records playback progress reported by the UI. Events for
// anything but the current track are silently dropped.
func (h *Handlers) Progress(w http.ResponseWriter, r *http.Request) {
	var req ProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid progress event", http.StatusBadRequest)
		return
	}
	h.controller.HandleProgress(req.TrackID, req.CurrentTime, req.Duration)
	w.WriteHeader(http.StatusNoContent)
}

// EndedRequest mirrors a media element's ended event.
type EndedRequest struct {
	TrackID string `json:"trackId"`
}

// Ended advances to the next track when the current one finishes.
func (h *Handlers) Ended(w http.ResponseWriter, r *http.Request) {
	var req EndedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, "invalid ended event", http.StatusBadRequest)
		return
	}
	h.controller.HandleEnded(req.TrackID)
	h.GetPlayerState(w, r)
}
