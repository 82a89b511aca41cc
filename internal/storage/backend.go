package storage

import "errors"

// ErrNotFound is returned by backends when a key has no value
var ErrNotFound = errors.New("key not found")

// Backend is the minimal key/value surface the session store needs. Two
// implementations exist: an in-memory map for tests and a SQL-backed one
// for production.
type Backend interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
	// Keys returns every stored key beginning with the given prefix
	Keys(prefix string) ([]string, error)
}
