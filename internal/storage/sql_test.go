package storage

import (
	"errors"
	"testing"

	"mathclash/internal/database"
)

func newTestSQLBackend(t *testing.T) *SQLBackend {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE kv_entries (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return NewSQLBackend(db)
}

func TestSQLBackendRoundTrip(t *testing.T) {
	backend := newTestSQLBackend(t)

	if err := backend.Set("a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := backend.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "1" {
		t.Errorf("Get = %q, want 1", got)
	}
}

func TestSQLBackendUpsert(t *testing.T) {
	backend := newTestSQLBackend(t)

	if err := backend.Set("a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := backend.Set("a", "2"); err != nil {
		t.Fatalf("second Set: %v", err)
	}

	got, err := backend.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "2" {
		t.Errorf("Get = %q after upsert, want 2", got)
	}
}

func TestSQLBackendMissingKey(t *testing.T) {
	backend := newTestSQLBackend(t)

	if _, err := backend.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
}

func TestSQLBackendDelete(t *testing.T) {
	backend := newTestSQLBackend(t)

	backend.Set("a", "1")
	if err := backend.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := backend.Get("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error after delete = %v, want ErrNotFound", err)
	}

	// Deleting a missing key is not an error
	if err := backend.Delete("missing"); err != nil {
		t.Errorf("Delete(missing): %v", err)
	}
}

func TestSQLBackendKeysByPrefix(t *testing.T) {
	backend := newTestSQLBackend(t)

	backend.Set("mathclash_user_a_highScore", "10")
	backend.Set("mathclash_user_a_totalScore", "90")
	backend.Set("mathclash_user_b_highScore", "5")

	keys, err := backend.Keys("mathclash_user_a_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("got %d keys, want 2: %v", len(keys), keys)
	}
	for _, key := range keys {
		if key == "mathclash_user_b_highScore" {
			t.Errorf("prefix leak: %v", keys)
		}
	}
}
