package handlers

import (
	"net/http"
	"time"

	"mathclash/internal/security"
	"mathclash/internal/service"
)

// SessionHandler manages anonymous session lifecycle
type SessionHandler struct {
	registry      *service.Registry
	tokens        *security.TokenIssuer
	tokenDuration time.Duration
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(registry *service.Registry, tokens *security.TokenIssuer, tokenDuration time.Duration) *SessionHandler {
	return &SessionHandler{registry: registry, tokens: tokens, tokenDuration: tokenDuration}
}

// Create mints a fresh anonymous session and returns its token and initial
// state. POST /api/session
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sessionID, svc := h.registry.Create()

	token, err := h.tokens.Mint(sessionID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to create session", "failed to mint session token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, token, time.Now().Add(h.tokenDuration)))
	respondWithJSON(w, http.StatusCreated, map[string]any{
		"sessionId": sessionID,
		"token":     token,
		"state":     svc.State(),
	})
}

// Clear wipes all durable progress for the session and rotates to a new
// identity. POST /api/session/clear
func (h *SessionHandler) Clear(w http.ResponseWriter, r *http.Request) {
	svc := GetSessionFromContext(r.Context())
	oldID := GetSessionIDFromContext(r.Context())

	state := svc.ResetProgress()
	newID := svc.SessionID()
	h.registry.Rekey(oldID, newID)

	token, err := h.tokens.Mint(newID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to rotate session", "failed to mint session token", err)
		return
	}

	http.SetCookie(w, security.CreateSessionCookie(r, SessionCookieName, token, time.Now().Add(h.tokenDuration)))
	respondWithJSON(w, http.StatusOK, map[string]any{
		"sessionId": newID,
		"token":     token,
		"state":     state,
	})
}
