package game

import "mathclash/internal/models"

// Action is the closed set of state transitions the game store understands.
// Each action kind is its own struct carrying only its payload; the marker
// method keeps the set closed to this package's variants.
type Action interface {
	isAction()
}

// IncrementScore adds one point and raises the high score if passed
type IncrementScore struct{}

// DecrementLives removes one life; reaching zero ends the game
type DecrementLives struct{}

// ResetGame restores transient fields to their defaults while preserving
// high score, total score, achievements, shop items, profile and preferences
type ResetGame struct{}

// SetDifficulty selects the arithmetic tier for subsequent questions
type SetDifficulty struct {
	Difficulty models.Difficulty
}

// ToggleSound flips the effects-sound preference
type ToggleSound struct{}

// ToggleMusic flips the background-music preference
type ToggleMusic struct{}

// ToggleVibration flips the vibration preference
type ToggleVibration struct{}

// SetQuestion installs the question currently presented to the player
type SetQuestion struct {
	Question *models.Question
}

// IncrementLevel advances to the next level
type IncrementLevel struct{}

// UpdateHighScore overwrites the high score with an externally supplied
// authoritative value. It does not take the max with the current state.
type UpdateHighScore struct {
	Value int
}

// SetGameOver forces the game-over flag without touching lives
type SetGameOver struct{}

// UnlockAchievement marks the matching achievement unlocked; a no-op when
// the id is unknown or the achievement is already unlocked
type UnlockAchievement struct {
	ID string
}

// SetPlayerName updates the player's nickname
type SetPlayerName struct {
	Name string
}

// SetPlayerAvatar updates the player's avatar reference
type SetPlayerAvatar struct {
	Avatar string
}

// SetTheme updates the active theme
type SetTheme struct {
	Theme string
}

// RevivePlayer restores full lives and clears the game-over flag while
// keeping the current score
type RevivePlayer struct{}

// AddToTotalScore credits the spendable total-score balance
type AddToTotalScore struct {
	Amount int
}

// PurchaseItem buys a shop item when it exists, is not yet purchased, and
// the total score covers its price; otherwise the state is unchanged
type PurchaseItem struct {
	ID string
}

// ResetShop reverts every shop item to unpurchased
type ResetShop struct{}

func (IncrementScore) isAction()    {}
func (DecrementLives) isAction()    {}
func (ResetGame) isAction()         {}
func (SetDifficulty) isAction()     {}
func (ToggleSound) isAction()       {}
func (ToggleMusic) isAction()       {}
func (ToggleVibration) isAction()   {}
func (SetQuestion) isAction()       {}
func (IncrementLevel) isAction()    {}
func (UpdateHighScore) isAction()   {}
func (SetGameOver) isAction()       {}
func (UnlockAchievement) isAction() {}
func (SetPlayerName) isAction()     {}
func (SetPlayerAvatar) isAction()   {}
func (SetTheme) isAction()          {}
func (RevivePlayer) isAction()      {}
func (AddToTotalScore) isAction()   {}
func (PurchaseItem) isAction()      {}
func (ResetShop) isAction()         {}
