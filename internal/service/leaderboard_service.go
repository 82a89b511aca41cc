package service

import (
	"errors"
	"strings"

	"mathclash/internal/models"
	"mathclash/internal/repository"
)

var (
	ErrNicknameRequired = errors.New("nickname is required")
	ErrNicknameTooLong  = errors.New("nickname is too long")
	ErrInvalidScore     = errors.New("score must be positive")
)

const (
	maxNicknameLength = 24
	defaultTopLimit   = 10
	maxTopLimit       = 100
)

// LeaderboardService handles score submission and ranking
type LeaderboardService struct {
	repo *repository.LeaderboardRepository
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(repo *repository.LeaderboardRepository) *LeaderboardService {
	return &LeaderboardService{repo: repo}
}

// Submit validates and records a score for a session
func (s *LeaderboardService) Submit(sessionID, nickname string, score int, difficulty models.Difficulty) (*models.LeaderboardEntry, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, ErrNicknameRequired
	}
	if len(nickname) > maxNicknameLength {
		return nil, ErrNicknameTooLong
	}
	if score <= 0 {
		return nil, ErrInvalidScore
	}
	if !difficulty.Valid() {
		difficulty = models.DifficultyEasy
	}

	return s.repo.Insert(sessionID, nickname, score, difficulty)
}

// Top returns the highest scores. A non-positive limit falls back to the
// default page size; oversized limits are clamped.
func (s *LeaderboardService) Top(limit int) ([]models.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	return s.repo.TopScores(limit)
}

// BestForSession returns a session's best submitted score
func (s *LeaderboardService) BestForSession(sessionID string) (int, error) {
	return s.repo.BestForSession(sessionID)
}
