package service

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"mathclash/internal/database"
)

// BackupData is the portable JSON form of everything the game persists
type BackupData struct {
	Version     int                `json:"version"`
	ExportedAt  time.Time          `json:"exportedAt"`
	KVEntries   []BackupKVEntry    `json:"kvEntries"`
	Leaderboard []BackupScoreEntry `json:"leaderboard"`
}

// BackupKVEntry is one row of the session key/value store
type BackupKVEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BackupScoreEntry is one leaderboard row
type BackupScoreEntry struct {
	SessionID  string    `json:"sessionId"`
	Nickname   string    `json:"nickname"`
	Score      int       `json:"score"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"createdAt"`
}

const backupVersion = 1

// BackupService exports and imports the durable game data, for moving a
// deployment between database backends
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes all durable data as JSON
func (s *BackupService) Export(w io.Writer) error {
	data := BackupData{Version: backupVersion, ExportedAt: time.Now().UTC()}

	rows, err := s.db.Query(`SELECT key, value FROM kv_entries ORDER BY key`)
	if err != nil {
		return fmt.Errorf("failed to read kv entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var entry BackupKVEntry
		if err := rows.Scan(&entry.Key, &entry.Value); err != nil {
			return fmt.Errorf("failed to scan kv entry: %w", err)
		}
		data.KVEntries = append(data.KVEntries, entry)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	scoreRows, err := s.db.Query(`
		SELECT session_id, nickname, score, difficulty, created_at
		FROM leaderboard_entries ORDER BY id
	`)
	if err != nil {
		return fmt.Errorf("failed to read leaderboard: %w", err)
	}
	defer scoreRows.Close()
	for scoreRows.Next() {
		var entry BackupScoreEntry
		if err := scoreRows.Scan(&entry.SessionID, &entry.Nickname, &entry.Score, &entry.Difficulty, &entry.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		data.Leaderboard = append(data.Leaderboard, entry)
	}
	if err := scoreRows.Err(); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Import loads a backup into the database. With clear set, existing data is
// removed first.
func (s *BackupService) Import(r io.Reader, clear bool) error {
	var data BackupData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if data.Version != backupVersion {
		return fmt.Errorf("unsupported backup version: %d", data.Version)
	}

	if clear {
		if _, err := s.db.Exec(`DELETE FROM kv_entries`); err != nil {
			return fmt.Errorf("failed to clear kv entries: %w", err)
		}
		if _, err := s.db.Exec(`DELETE FROM leaderboard_entries`); err != nil {
			return fmt.Errorf("failed to clear leaderboard: %w", err)
		}
	}

	for _, entry := range data.KVEntries {
		if _, err := s.db.Exec(s.db.Dialect.UpsertKVEntry(), entry.Key, entry.Value); err != nil {
			return fmt.Errorf("failed to import kv entry %q: %w", entry.Key, err)
		}
	}

	for _, entry := range data.Leaderboard {
		query := `
			INSERT INTO leaderboard_entries (session_id, nickname, score, difficulty, created_at)
			VALUES (?, ?, ?, ?, ?)
		`
		if _, err := s.db.Exec(query, entry.SessionID, entry.Nickname, entry.Score, entry.Difficulty, entry.CreatedAt); err != nil {
			return fmt.Errorf("failed to import leaderboard entry: %w", err)
		}
	}

	return nil
}
