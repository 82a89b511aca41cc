package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mathclash/internal/models"
	"mathclash/internal/service"
)

// LeaderboardHandler exposes score submission and rankings
type LeaderboardHandler struct {
	leaderboard *service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboard *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// Top returns the highest scores. GET /api/leaderboard?limit=
func (h *LeaderboardHandler) Top(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.leaderboard.Top(limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load leaderboard", "", err)
		return
	}
	if entries == nil {
		entries = []models.LeaderboardEntry{}
	}
	respondWithJSON(w, http.StatusOK, entries)
}

// Submit records a score for the authenticated session.
// POST /api/leaderboard
func (h *LeaderboardHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionIDFromContext(r.Context())

	var req struct {
		Nickname   string            `json:"nickname"`
		Score      int               `json:"score"`
		Difficulty models.Difficulty `json:"difficulty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid submission payload", "", err)
		return
	}

	entry, err := h.leaderboard.Submit(sessionID, req.Nickname, req.Score, req.Difficulty)
	switch {
	case errors.Is(err, service.ErrNicknameRequired),
		errors.Is(err, service.ErrNicknameTooLong),
		errors.Is(err, service.ErrInvalidScore):
		respondWithError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, "failed to record score", "", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, entry)
}
