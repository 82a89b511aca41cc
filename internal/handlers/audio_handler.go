package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// AudioHandler exposes the session's audio manager to the UI layer
type AudioHandler struct{}

// NewAudioHandler creates a new audio handler
func NewAudioHandler() *AudioHandler {
	return &AudioHandler{}
}

// Unlock runs the user-gesture unlock handshake. The UI calls this on the
// first interaction. POST /api/audio/unlock
func (h *AudioHandler) Unlock(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())
	unlocked := svc.Sounds().Unlock()
	respondWithJSON(w, http.StatusOK, map[string]bool{"unlocked": unlocked})
}

// Play requests playback of a named clip. Always succeeds from the
// caller's perspective; a drop is silent. POST /api/audio/play
func (h *AudioHandler) Play(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid play payload", "", err)
		return
	}

	// Fire-and-forget: the caller must not assume audio actually played
	svc.Sounds().PlaySound(req.Name)
	respondWithJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// Stop stops a named clip. Idempotent. POST /api/audio/stop
func (h *AudioHandler) Stop(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid stop payload", "", err)
		return
	}

	svc.Sounds().StopSound(req.Name)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "stopped"})
}

// Volume applies a uniform volume level. POST /api/audio/volume
func (h *AudioHandler) Volume(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	var req struct {
		Level float64 `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid volume payload", "", err)
		return
	}

	svc.Sounds().SetVolume(req.Level)
	respondWithJSON(w, http.StatusOK, map[string]float64{"level": svc.Sounds().Volume()})
}

// Clip serves a loaded clip's bytes to the browser.
// GET /api/audio/clip/{name}
func (h *AudioHandler) Clip(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	name := r.PathValue("name")
	data := svc.Sounds().ClipData(name)
	if data == nil {
		respondWithError(w, http.StatusNotFound, "clip not available", "", nil)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		log.Printf("Failed to serve clip %q: %v", name, err)
	}
}
