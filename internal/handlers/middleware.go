package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"mathclash/internal/security"
	"mathclash/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// SessionContextKey carries the session's GameService
	SessionContextKey ContextKey = "session"
	// SessionIDContextKey carries the validated session id
	SessionIDContextKey ContextKey = "sessionID"
)

// SessionCookieName is the cookie that mirrors the bearer token for
// browsers that do not manage Authorization headers
const SessionCookieName = "mathclash_session"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	registry *service.Registry
	tokens   *security.TokenIssuer
	limiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(registry *service.Registry, tokens *security.TokenIssuer, limiter *security.RateLimiter) *Middleware {
	return &Middleware{registry: registry, tokens: tokens, limiter: limiter}
}

// RequireSession validates the session token (Authorization bearer header or
// session cookie) and injects the session's GameService into the context
func (m *Middleware) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}
		}
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "session required", "", nil)
			return
		}

		sessionID, err := m.tokens.Validate(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "invalid session", "", nil)
			return
		}

		svc := m.registry.Get(sessionID)
		ctx := context.WithValue(r.Context(), SessionContextKey, svc)
		ctx = context.WithValue(ctx, SessionIDContextKey, sessionID)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit rejects clients that exceed the configured request budget
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetSessionFromContext retrieves the session's GameService from the
// request context. Nil when RequireSession did not run.
func GetSessionFromContext(ctx context.Context) *service.GameService {
	svc, ok := ctx.Value(SessionContextKey).(*service.GameService)
	if !ok {
		return nil
	}
	return svc
}

// GetSessionIDFromContext retrieves the validated session id
func GetSessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDContextKey).(string)
	return id
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
