package repository

import (
	"time"

	"mathclash/internal/database"
	"mathclash/internal/models"
)

// LeaderboardRepository handles leaderboard database operations
type LeaderboardRepository struct {
	db *database.DB
}

// NewLeaderboardRepository creates a new leaderboard repository
func NewLeaderboardRepository(db *database.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

// Insert records a score submission and returns the stored entry
func (r *LeaderboardRepository) Insert(sessionID, nickname string, score int, difficulty models.Difficulty) (*models.LeaderboardEntry, error) {
	query := `
		INSERT INTO leaderboard_entries (session_id, nickname, score, difficulty)
		VALUES (?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, sessionID, nickname, score, string(difficulty))
	if err != nil {
		return nil, err
	}

	return r.GetByID(id)
}

// GetByID retrieves one leaderboard entry
func (r *LeaderboardRepository) GetByID(id int64) (*models.LeaderboardEntry, error) {
	query := `
		SELECT id, session_id, nickname, score, difficulty, created_at
		FROM leaderboard_entries
		WHERE id = ?
	`

	entry := &models.LeaderboardEntry{}
	var difficulty string
	var createdAt time.Time

	err := r.db.QueryRow(query, id).Scan(
		&entry.ID,
		&entry.SessionID,
		&entry.Nickname,
		&entry.Score,
		&difficulty,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Difficulty = models.Difficulty(difficulty)
	entry.CreatedAt = createdAt
	return entry, nil
}

// TopScores returns the highest scores in descending order
func (r *LeaderboardRepository) TopScores(limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT id, session_id, nickname, score, difficulty, created_at
		FROM leaderboard_entries
		ORDER BY score DESC, created_at ASC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		var difficulty string
		if err := rows.Scan(
			&entry.ID,
			&entry.SessionID,
			&entry.Nickname,
			&entry.Score,
			&difficulty,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Difficulty = models.Difficulty(difficulty)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// BestForSession returns a session's highest submitted score, zero when the
// session has no submissions
func (r *LeaderboardRepository) BestForSession(sessionID string) (int, error) {
	var best int
	query := `SELECT COALESCE(MAX(score), 0) FROM leaderboard_entries WHERE session_id = ?`
	err := r.db.QueryRow(query, sessionID).Scan(&best)
	return best, err
}
