package service

import (
	"log"
	"sync"
	"time"

	"mathclash/internal/ads"
	"mathclash/internal/audio"
	"mathclash/internal/problems"
	"mathclash/internal/security"
	"mathclash/internal/storage"
)

// Registry hands out one GameService per anonymous session, creating them
// on demand and evicting idle ones. The question generator and clip loader
// are shared; the persistence namespace, audio manager and ad provider are
// per session.
type Registry struct {
	mu          sync.Mutex
	sessions    map[string]*registryEntry
	backend     storage.Backend
	generator   *problems.Generator
	clipLoader  audio.Loader
	newProvider func() ads.Provider
}

type registryEntry struct {
	svc      *GameService
	lastSeen time.Time
}

// NewRegistry creates a session registry. newProvider constructs the ad
// provider for each fresh session.
func NewRegistry(backend storage.Backend, generator *problems.Generator, clipLoader audio.Loader, newProvider func() ads.Provider) *Registry {
	return &Registry{
		sessions:    make(map[string]*registryEntry),
		backend:     backend,
		generator:   generator,
		clipLoader:  clipLoader,
		newProvider: newProvider,
	}
}

// Create mints a new session id and its GameService
func (r *Registry) Create() (string, *GameService) {
	id := security.GenerateSessionID()
	svc := r.build(id)
	r.mu.Lock()
	r.sessions[id] = &registryEntry{svc: svc, lastSeen: time.Now()}
	r.mu.Unlock()
	return id, svc
}

// Get returns the GameService for a session id, rebuilding it from
// persisted progress when the in-memory entry was evicted
func (r *Registry) Get(id string) *GameService {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		entry = &registryEntry{svc: r.build(id)}
		r.sessions[id] = entry
	}
	entry.lastSeen = time.Now()
	return entry.svc
}

// Rekey moves a session to a new id after a data wipe rotated its identity
func (r *Registry) Rekey(oldID, newID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.sessions[oldID]; ok {
		delete(r.sessions, oldID)
		entry.lastSeen = time.Now()
		r.sessions[newID] = entry
	}
}

// PruneInactive drops sessions idle for longer than maxIdle and reports how
// many were evicted. Progress is already durable, so eviction only sheds
// memory.
func (r *Registry) PruneInactive(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	evicted := 0
	for id, entry := range r.sessions {
		if entry.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunCleanup prunes idle sessions on an interval until stop is closed
func (r *Registry) RunCleanup(interval, maxIdle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if evicted := r.PruneInactive(maxIdle); evicted > 0 {
				log.Printf("Evicted %d idle sessions", evicted)
			}
		}
	}
}

func (r *Registry) build(id string) *GameService {
	persist := storage.NewStoreWithID(r.backend, id)
	sounds := audio.NewManager(audio.DefaultClips(), r.clipLoader, nil)
	return NewGameService(persist, r.generator, sounds, r.newProvider())
}
