package storage

import (
	"encoding/json"
	"log"
	"sync"

	"mathclash/internal/security"
)

const (
	sessionIDKey   = "mathclash_session_id"
	userDataPrefix = "mathclash_user_"
)

// Store is the per-user persistence layer. Every key is namespaced by an
// opaque session identifier generated on first use, so independent browser
// profiles never see each other's progress.
//
// All operations fail closed: when the backend is unavailable, Get reports
// no value and Set/Clear are no-ops. Callers are never interrupted by a
// storage fault.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	sessionID string

	// persistID controls whether the identity itself is recorded under
	// sessionIDKey. Self-managed stores (single device profile) persist it;
	// stores bound to a server-minted id do not, since the server registry
	// owns the id-to-client mapping.
	persistID bool
}

// NewStore creates a self-managed store: the session identity is generated
// on first use and recorded in the backend so it survives restarts.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend, persistID: true}
}

// NewStoreWithID creates a store bound to an externally minted session id
func NewStoreWithID(backend Backend, sessionID string) *Store {
	return &Store{backend: backend, sessionID: sessionID}
}

// SessionID returns the current session identifier, generating and
// persisting a new one on first use. When the backend cannot record the id
// a process-local identity is still returned so the game keeps working.
func (s *Store) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionIDLocked()
}

func (s *Store) sessionIDLocked() string {
	if s.sessionID != "" {
		return s.sessionID
	}

	if s.persistID {
		stored, err := s.backend.Get(sessionIDKey)
		if err == nil && stored != "" {
			s.sessionID = stored
			return s.sessionID
		}
	}

	s.sessionID = security.GenerateSessionID()
	s.recordIDLocked()
	return s.sessionID
}

func (s *Store) recordIDLocked() {
	if !s.persistID {
		return
	}
	if err := s.backend.Set(sessionIDKey, s.sessionID); err != nil {
		log.Printf("Warning: failed to persist session id: %v", err)
	}
}

// Get decodes the stored value for a key into out and reports whether a
// value was present. Storage faults and decode failures report false.
func (s *Store) Get(key string, out any) bool {
	s.mu.Lock()
	namespaced := s.namespacedLocked(key)
	s.mu.Unlock()

	raw, err := s.backend.Get(namespaced)
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		log.Printf("Warning: failed to decode stored value for %q: %v", key, err)
		return false
	}
	return true
}

// Set stores a JSON-encoded value under the session namespace. Faults are
// logged and swallowed.
func (s *Store) Set(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("Warning: failed to encode value for %q: %v", key, err)
		return
	}

	s.mu.Lock()
	namespaced := s.namespacedLocked(key)
	s.mu.Unlock()

	if err := s.backend.Set(namespaced, string(raw)); err != nil {
		log.Printf("Warning: failed to persist %q: %v", key, err)
	}
}

// SetForSession stores a value only while sessionID still names the current
// identity. A write that races a Clear is dropped instead of landing under
// the rotated namespace. The backend write happens under the store lock so
// it cannot interleave with Clear's delete sweep.
func (s *Store) SetForSession(sessionID, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("Warning: failed to encode value for %q: %v", key, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sessionIDLocked() != sessionID {
		return
	}
	namespaced := userDataPrefix + sessionID + "_" + key
	if err := s.backend.Set(namespaced, string(raw)); err != nil {
		log.Printf("Warning: failed to persist %q: %v", key, err)
	}
}

// Clear removes every key under the current session namespace and rotates
// to a brand-new session identity.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := userDataPrefix + s.sessionIDLocked() + "_"
	keys, err := s.backend.Keys(prefix)
	if err != nil {
		log.Printf("Warning: failed to enumerate session keys: %v", err)
		return
	}
	for _, key := range keys {
		if err := s.backend.Delete(key); err != nil {
			log.Printf("Warning: failed to delete %q: %v", key, err)
		}
	}

	s.sessionID = security.GenerateSessionID()
	s.recordIDLocked()
}

func (s *Store) namespacedLocked(key string) string {
	return userDataPrefix + s.sessionIDLocked() + "_" + key
}
