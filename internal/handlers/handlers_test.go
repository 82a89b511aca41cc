package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mathclash/internal/ads"
	"mathclash/internal/models"
	"mathclash/internal/problems"
	"mathclash/internal/security"
	"mathclash/internal/service"
	"mathclash/internal/storage"
)

type silentLoader struct{}

func (silentLoader) Load(string) ([]byte, error) {
	return []byte("audio"), nil
}

// newTestServer wires the full API surface the way cmd/server does, backed
// by in-memory storage.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	backend := storage.NewMemoryBackend()
	generator := problems.New(rand.New(rand.NewSource(1)))
	registry := service.NewRegistry(backend, generator, silentLoader{}, func() ads.Provider {
		return ads.NewInstantProvider()
	})
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	limiter := security.NewRateLimiter(1000, time.Minute)

	middleware := NewMiddleware(registry, tokens, limiter)
	sessionHandler := NewSessionHandler(registry, tokens, time.Hour)
	gameHandler := NewGameHandler(nil, "")
	audioHandler := NewAudioHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/session", middleware.RateLimit(sessionHandler.Create))
	mux.HandleFunc("POST /api/session/clear", middleware.RequireSession(sessionHandler.Clear))
	mux.HandleFunc("GET /api/state", middleware.RequireSession(gameHandler.State))
	mux.HandleFunc("POST /api/actions", middleware.RequireSession(gameHandler.Dispatch))
	mux.HandleFunc("GET /api/question", middleware.RequireSession(gameHandler.Question))
	mux.HandleFunc("POST /api/answer", middleware.RequireSession(gameHandler.Answer))
	mux.HandleFunc("POST /api/revive", middleware.RequireSession(gameHandler.Revive))
	mux.HandleFunc("POST /api/audio/unlock", middleware.RequireSession(audioHandler.Unlock))
	mux.HandleFunc("POST /api/audio/play", middleware.RequireSession(audioHandler.Play))
	mux.HandleFunc("GET /api/audio/clip/{name}", middleware.RequireSession(audioHandler.Clip))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// createSession opens a session against the test server and returns its
// bearer token.
func createSession(t *testing.T, server *httptest.Server) string {
	t.Helper()

	resp, err := http.Post(server.URL+"/api/session", "application/json", nil)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create session status = %d", resp.StatusCode)
	}

	var body struct {
		SessionID string `json:"sessionId"`
		Token     string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode session response: %v", err)
	}
	if body.SessionID == "" || body.Token == "" {
		t.Fatal("session response missing id or token")
	}
	return body.Token
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token string, payload any, out any) *http.Response {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, server.URL+path, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return resp
}

func TestSessionRequired(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d without a token, want 401", resp.StatusCode)
	}

	req, _ := http.NewRequest("GET", server.URL+"/api/state", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d with a bad token, want 401", resp2.StatusCode)
	}
}

func TestStateRoundTrip(t *testing.T) {
	server := newTestServer(t)
	token := createSession(t, server)

	var state models.GameState
	resp := doJSON(t, server, "GET", "/api/state", token, nil, &state)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if state.Lives != models.MaxLives || state.Score != 0 {
		t.Errorf("unexpected initial state: %+v", state)
	}
}

func TestDispatchAction(t *testing.T) {
	server := newTestServer(t)
	token := createSession(t, server)

	var state models.GameState
	resp := doJSON(t, server, "POST", "/api/actions", token,
		map[string]any{"type": "SET_DIFFICULTY", "payload": "hard"}, &state)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if state.Difficulty != models.DifficultyHard {
		t.Errorf("Difficulty = %q, want hard", state.Difficulty)
	}

	// Unknown action types are ignored, not rejected
	resp = doJSON(t, server, "POST", "/api/actions", token,
		map[string]any{"type": "NO_SUCH_ACTION"}, &state)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d for unknown action, want 200", resp.StatusCode)
	}
	if state.Difficulty != models.DifficultyHard {
		t.Error("unknown action changed state")
	}
}

func TestQuestionAndAnswerFlow(t *testing.T) {
	server := newTestServer(t)
	token := createSession(t, server)

	var question models.Question
	resp := doJSON(t, server, "GET", "/api/question", token, nil, &question)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if question.Prompt == "" || len(question.Options) != 4 {
		t.Fatalf("malformed question: %+v", question)
	}

	var result struct {
		Correct bool             `json:"correct"`
		State   models.GameState `json:"state"`
	}
	doJSON(t, server, "POST", "/api/answer", token, map[string]int{"answer": question.Answer}, &result)
	if !result.Correct {
		t.Error("correct answer scored as wrong")
	}
	if result.State.Score != 1 {
		t.Errorf("Score = %d, want 1", result.State.Score)
	}
}

func TestQuestionDifficultyOverride(t *testing.T) {
	server := newTestServer(t)
	token := createSession(t, server)

	var question models.Question
	doJSON(t, server, "GET", "/api/question?difficulty=medium", token, nil, &question)
	if question.Difficulty != models.DifficultyMedium {
		t.Errorf("Difficulty = %q, want medium", question.Difficulty)
	}

	// The override sticks for the session
	var state models.GameState
	doJSON(t, server, "GET", "/api/state", token, nil, &state)
	if state.Difficulty != models.DifficultyMedium {
		t.Errorf("session Difficulty = %q, want medium", state.Difficulty)
	}
}

func TestReviveFlow(t *testing.T) {
	server := newTestServer(t)
	token := createSession(t, server)

	// Lose every life
	doJSON(t, server, "GET", "/api/question", token, nil, nil)
	for i := 0; i < models.MaxLives; i++ {
		var state models.GameState
		doJSON(t, server, "GET", "/api/state", token, nil, &state)
		wrong := state.CurrentQuestion.Answer + 1
		doJSON(t, server, "POST", "/api/answer", token, map[string]int{"answer": wrong}, nil)
	}

	var result struct {
		Revived bool             `json:"revived"`
		State   models.GameState `json:"state"`
	}
	doJSON(t, server, "POST", "/api/revive", token, nil, &result)
	if !result.Revived {
		t.Fatal("revive failed with a working ad provider")
	}
	if result.State.Lives != models.MaxLives || result.State.IsGameOver {
		t.Errorf("state after revive: %+v", result.State)
	}
}

func TestSessionClearRotatesIdentity(t *testing.T) {
	server := newTestServer(t)
	token := createSession(t, server)

	doJSON(t, server, "POST", "/api/actions", token,
		map[string]any{"type": "UPDATE_HIGH_SCORE", "payload": 64}, nil)

	var cleared struct {
		SessionID string           `json:"sessionId"`
		Token     string           `json:"token"`
		State     models.GameState `json:"state"`
	}
	resp := doJSON(t, server, "POST", "/api/session/clear", token, nil, &cleared)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if cleared.State.HighScore != 0 {
		t.Errorf("HighScore = %d after clear, want 0", cleared.State.HighScore)
	}
	if cleared.Token == "" || cleared.Token == token {
		t.Error("clear did not mint a new token")
	}

	// The new token resolves to the wiped session
	var state models.GameState
	doJSON(t, server, "GET", "/api/state", cleared.Token, nil, &state)
	if state.HighScore != 0 {
		t.Errorf("HighScore = %d under the new identity, want 0", state.HighScore)
	}
}

func TestAudioEndpoints(t *testing.T) {
	server := newTestServer(t)
	token := createSession(t, server)

	var unlock struct {
		Unlocked bool `json:"unlocked"`
	}
	doJSON(t, server, "POST", "/api/audio/unlock", token, nil, &unlock)
	if !unlock.Unlocked {
		t.Error("unlock handshake failed")
	}

	resp := doJSON(t, server, "POST", "/api/audio/play", token, map[string]string{"name": "correct"}, nil)
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("play status = %d, want 202", resp.StatusCode)
	}

	// The play request loads the clip; its bytes become servable
	deadline := time.Now().Add(2 * time.Second)
	for {
		req, _ := http.NewRequest("GET", server.URL+"/api/audio/clip/correct", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		clipResp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("GET clip: %v", err)
		}
		clipResp.Body.Close()
		if clipResp.StatusCode == http.StatusOK {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("clip never became servable, last status %d", clipResp.StatusCode)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRateLimitRejects(t *testing.T) {
	backend := storage.NewMemoryBackend()
	generator := problems.New(rand.New(rand.NewSource(1)))
	registry := service.NewRegistry(backend, generator, silentLoader{}, func() ads.Provider {
		return ads.NewInstantProvider()
	})
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	middleware := NewMiddleware(registry, tokens, security.NewRateLimiter(2, time.Minute))
	sessionHandler := NewSessionHandler(registry, tokens, time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/session", middleware.RateLimit(sessionHandler.Create))
	server := httptest.NewServer(mux)
	defer server.Close()

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Post(server.URL+"/api/session", "application/json", nil)
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	want := []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}
	if fmt.Sprint(statuses) != fmt.Sprint(want) {
		t.Errorf("statuses = %v, want %v", statuses, want)
	}
}
