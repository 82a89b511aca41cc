package security

import (
	"net/http"
	"sync"
	"time"
)

// RateLimiter caps requests per client IP over a fixed window. The game API
// is anonymous, so the IP budget is the only brake on session minting and
// leaderboard submissions from a single origin.
type RateLimiter struct {
	clients map[string]*clientBucket
	mu      sync.RWMutex
	rate    int           // requests allowed per window
	window  time.Duration // refill interval
}

type clientBucket struct {
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter builds a limiter granting rate requests per window for each
// client IP and starts its background pruning loop.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*clientBucket),
		rate:    rate,
		window:  window,
	}
	go rl.pruneIdleClients()
	return rl
}

// Allow reports whether a request from ip fits the remaining budget and
// consumes a token when it does.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	b, exists := rl.clients[ip]
	if !exists {
		b = &clientBucket{
			tokens:     rl.rate,
			lastRefill: time.Now(),
		}
		rl.clients[ip] = b
	}
	rl.mu.Unlock()

	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	if now.Sub(b.lastRefill) >= rl.window {
		b.tokens = rl.rate
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// pruneIdleClients drops buckets that sat idle for two full windows so the
// per-IP map does not grow without bound.
func (rl *RateLimiter) pruneIdleClients() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for ip, b := range rl.clients {
			b.mu.Lock()
			if now.Sub(b.lastRefill) > rl.window*2 {
				delete(rl.clients, ip)
			}
			b.mu.Unlock()
		}
		rl.mu.Unlock()
	}
}

// GetClientIP extracts the client IP from the request, preferring the proxy
// headers the deployment fronts the server with.
func GetClientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		return forwarded
	}

	realIP := r.Header.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	return r.RemoteAddr
}
