package storage

import (
	"errors"
	"strings"
	"sync"
)

var errUnavailable = errors.New("storage unavailable")

// MemoryBackend is a map-backed Backend for tests and ephemeral fallback
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string

	// FailAll makes every operation return an error, for exercising the
	// store's fail-closed behavior in tests
	FailAll bool
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

func (m *MemoryBackend) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailAll {
		return "", errUnavailable
	}
	value, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (m *MemoryBackend) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return errUnavailable
	}
	m.data[key] = value
	return nil
}

func (m *MemoryBackend) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailAll {
		return errUnavailable
	}
	delete(m.data, key)
	return nil
}

func (m *MemoryBackend) Keys(prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailAll {
		return nil, errUnavailable
	}
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

// Len reports how many keys the backend holds
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
