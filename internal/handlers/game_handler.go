package handlers

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"mathclash/internal/audio"
	"mathclash/internal/game"
	"mathclash/internal/models"
)

// GameHandler exposes the game store, generator and revive flow
type GameHandler struct {
	tts       *audio.TTSService
	soundsDir string
}

// NewGameHandler creates a new game handler. tts may be nil to disable
// spoken prompts.
func NewGameHandler(tts *audio.TTSService, soundsDir string) *GameHandler {
	return &GameHandler{tts: tts, soundsDir: soundsDir}
}

// State returns the current game state. GET /api/state
func (h *GameHandler) State(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())
	respondWithJSON(w, http.StatusOK, svc.State())
}

// actionEnvelope is the wire form of a dispatched action. Unrecognized
// types are accepted and ignored so older or newer clients never fault the
// store.
type actionEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Dispatch applies a wire-level action to the session's store and returns
// the resulting state. POST /api/actions
func (h *GameHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	var envelope actionEnvelope
	if err := json.NewDecoder(r.Body).Decode(&envelope); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid action payload", "", err)
		return
	}

	action, ok := decodeAction(envelope)
	if !ok {
		// Unknown action kind: state passthrough, no error
		respondWithJSON(w, http.StatusOK, svc.State())
		return
	}

	state := svc.Dispatch(action)

	// Keep the audio manager's flags in step with the preference toggles
	switch action.(type) {
	case game.ToggleSound:
		svc.Sounds().SetEnabled(state.SoundEnabled)
	case game.ToggleMusic:
		svc.Sounds().SetMusicEnabled(state.MusicEnabled)
	}

	respondWithJSON(w, http.StatusOK, state)
}

// decodeAction maps the wire envelope onto the closed action type
func decodeAction(envelope actionEnvelope) (game.Action, bool) {
	switch envelope.Type {
	case "INCREMENT_SCORE":
		return game.IncrementScore{}, true
	case "DECREMENT_LIVES":
		return game.DecrementLives{}, true
	case "RESET_GAME":
		return game.ResetGame{}, true
	case "SET_DIFFICULTY":
		var difficulty models.Difficulty
		if err := json.Unmarshal(envelope.Payload, &difficulty); err != nil {
			return nil, false
		}
		return game.SetDifficulty{Difficulty: difficulty}, true
	case "TOGGLE_SOUND":
		return game.ToggleSound{}, true
	case "TOGGLE_MUSIC":
		return game.ToggleMusic{}, true
	case "TOGGLE_VIBRATION":
		return game.ToggleVibration{}, true
	case "INCREMENT_LEVEL":
		return game.IncrementLevel{}, true
	case "UPDATE_HIGH_SCORE":
		var value int
		if err := json.Unmarshal(envelope.Payload, &value); err != nil {
			return nil, false
		}
		return game.UpdateHighScore{Value: value}, true
	case "SET_GAME_OVER":
		return game.SetGameOver{}, true
	case "UNLOCK_ACHIEVEMENT":
		var id string
		if err := json.Unmarshal(envelope.Payload, &id); err != nil {
			return nil, false
		}
		return game.UnlockAchievement{ID: id}, true
	case "SET_PLAYER_NAME":
		var name string
		if err := json.Unmarshal(envelope.Payload, &name); err != nil {
			return nil, false
		}
		return game.SetPlayerName{Name: name}, true
	case "SET_PLAYER_AVATAR":
		var avatar string
		if err := json.Unmarshal(envelope.Payload, &avatar); err != nil {
			return nil, false
		}
		return game.SetPlayerAvatar{Avatar: avatar}, true
	case "SET_THEME":
		var theme string
		if err := json.Unmarshal(envelope.Payload, &theme); err != nil {
			return nil, false
		}
		return game.SetTheme{Theme: theme}, true
	case "ADD_TO_TOTAL_SCORE":
		var amount int
		if err := json.Unmarshal(envelope.Payload, &amount); err != nil {
			return nil, false
		}
		return game.AddToTotalScore{Amount: amount}, true
	case "PURCHASE_ITEM":
		var id string
		if err := json.Unmarshal(envelope.Payload, &id); err != nil {
			return nil, false
		}
		return game.PurchaseItem{ID: id}, true
	case "RESET_SHOP":
		return game.ResetShop{}, true
	}
	// SET_QUESTION and REVIVE_PLAYER are deliberately not wire-dispatchable:
	// questions come from the generator endpoint and revives only from the
	// rewarded-ad flow
	return nil, false
}

// Question generates the next question for the session's difficulty (or an
// explicit ?difficulty= override) and installs it as current.
// GET /api/question
func (h *GameHandler) Question(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	if override := models.Difficulty(r.URL.Query().Get("difficulty")); override.Valid() {
		svc.Dispatch(game.SetDifficulty{Difficulty: override})
	}

	question := svc.NextQuestion()
	respondWithJSON(w, http.StatusOK, question)
}

// QuestionSpeech serves a spoken rendition of the current question's
// prompt. GET /api/question/speech
func (h *GameHandler) QuestionSpeech(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	state := svc.State()
	if h.tts == nil || state.CurrentQuestion == nil {
		respondWithError(w, http.StatusNotFound, "no spoken prompt available", "", nil)
		return
	}

	filename, err := h.tts.GenerateQuestionAudio(state.CurrentQuestion.Prompt)
	if err != nil {
		respondWithError(w, http.StatusServiceUnavailable, "spoken prompt unavailable", "failed to generate question audio", err)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	http.ServeFile(w, r, filepath.Join(h.soundsDir, filename))
}

// Answer scores a submitted answer against the current question.
// POST /api/answer
func (h *GameHandler) Answer(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	var req struct {
		Answer int `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid answer payload", "", err)
		return
	}

	respondWithJSON(w, http.StatusOK, svc.SubmitAnswer(req.Answer))
}

// Revive runs the rewarded-ad flow and revives the player only when the
// reward fires. POST /api/revive
func (h *GameHandler) Revive(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())

	revived := svc.RequestRevive(r.Context())
	respondWithJSON(w, http.StatusOK, map[string]any{
		"revived": revived,
		"state":   svc.State(),
	})
}
