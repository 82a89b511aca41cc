package storage

import (
	"database/sql"
	"errors"

	"mathclash/internal/database"
)

// SQLBackend persists key/value entries in the kv_entries table through the
// dialect-aware database wrapper, so the same code runs on sqlite, postgres
// and mysql.
type SQLBackend struct {
	db *database.DB
}

// NewSQLBackend creates a backend over an initialized database
func NewSQLBackend(db *database.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

func (b *SQLBackend) Get(key string) (string, error) {
	var value string
	query := `SELECT value FROM kv_entries WHERE key = ?`
	err := b.db.QueryRow(query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (b *SQLBackend) Set(key, value string) error {
	_, err := b.db.Exec(b.db.Dialect.UpsertKVEntry(), key, value)
	return err
}

func (b *SQLBackend) Delete(key string) error {
	_, err := b.db.Exec(`DELETE FROM kv_entries WHERE key = ?`, key)
	return err
}

func (b *SQLBackend) Keys(prefix string) ([]string, error) {
	query := `SELECT key FROM kv_entries WHERE key LIKE ?`
	rows, err := b.db.Query(query, prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
