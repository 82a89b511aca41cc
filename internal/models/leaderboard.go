package models

import "time"

// LeaderboardEntry is one submitted score on the global leaderboard
type LeaderboardEntry struct {
	ID         int64      `json:"id"`
	SessionID  string     `json:"-"`
	Nickname   string     `json:"nickname"`
	Score      int        `json:"score"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  time.Time  `json:"createdAt"`
}
