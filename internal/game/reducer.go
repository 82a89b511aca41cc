package game

import "mathclash/internal/models"

// DurableField names a field the persistence layer should write after a
// reduction. The reducer reports which fields changed durably; actually
// writing them is the store's concern.
type DurableField string

const (
	FieldHighScore    DurableField = "highScore"
	FieldTotalScore   DurableField = "totalScore"
	FieldAchievements DurableField = "achievements"
	FieldShopItems    DurableField = "shopItems"
	FieldPlayerName   DurableField = "playerNickname"
	FieldPlayerAvatar DurableField = "playerAvatar"
)

// Reduce computes the next state for an action. It is pure: no action
// mutates the input state, no action returns an error, and unknown or nil
// actions return the state unchanged with no durable effects.
func Reduce(state models.GameState, action Action) (models.GameState, []DurableField) {
	switch a := action.(type) {
	case IncrementScore:
		next := state.Clone()
		next.Score = state.Score + 1
		if next.Score > next.HighScore {
			next.HighScore = next.Score
			return next, []DurableField{FieldHighScore}
		}
		return next, nil

	case DecrementLives:
		next := state.Clone()
		if next.Lives > 0 {
			next.Lives--
		}
		next.IsGameOver = next.Lives == 0
		return next, nil

	case ResetGame:
		next := state.Clone()
		next.Score = 0
		next.Lives = models.MaxLives
		next.Level = 1
		next.CurrentQuestion = nil
		next.IsGameOver = false
		return next, nil

	case SetDifficulty:
		next := state.Clone()
		if a.Difficulty.Valid() {
			next.Difficulty = a.Difficulty
		}
		return next, nil

	case ToggleSound:
		next := state.Clone()
		next.SoundEnabled = !next.SoundEnabled
		return next, nil

	case ToggleMusic:
		next := state.Clone()
		next.MusicEnabled = !next.MusicEnabled
		return next, nil

	case ToggleVibration:
		next := state.Clone()
		next.VibrationEnabled = !next.VibrationEnabled
		return next, nil

	case SetQuestion:
		next := state.Clone()
		next.CurrentQuestion = a.Question
		return next, nil

	case IncrementLevel:
		next := state.Clone()
		next.Level = state.Level + 1
		return next, nil

	case UpdateHighScore:
		next := state.Clone()
		next.HighScore = a.Value
		return next, []DurableField{FieldHighScore}

	case SetGameOver:
		next := state.Clone()
		next.IsGameOver = true
		return next, nil

	case UnlockAchievement:
		for i, achievement := range state.Achievements {
			if achievement.ID == a.ID && !achievement.Unlocked {
				next := state.Clone()
				next.Achievements[i].Unlocked = true
				return next, []DurableField{FieldAchievements}
			}
		}
		return state, nil

	case SetPlayerName:
		next := state.Clone()
		next.PlayerName = a.Name
		return next, []DurableField{FieldPlayerName}

	case SetPlayerAvatar:
		next := state.Clone()
		next.PlayerAvatar = a.Avatar
		return next, []DurableField{FieldPlayerAvatar}

	case SetTheme:
		next := state.Clone()
		next.Theme = a.Theme
		return next, nil

	case RevivePlayer:
		next := state.Clone()
		next.Lives = models.MaxLives
		next.IsGameOver = false
		return next, nil

	case AddToTotalScore:
		if a.Amount <= 0 {
			return state, nil
		}
		next := state.Clone()
		next.TotalScore = state.TotalScore + a.Amount
		return next, []DurableField{FieldTotalScore}

	case PurchaseItem:
		for i, item := range state.ShopItems {
			if item.ID != a.ID {
				continue
			}
			if item.Purchased || state.TotalScore < item.Price {
				return state, nil
			}
			next := state.Clone()
			next.TotalScore = state.TotalScore - item.Price
			next.ShopItems[i].Purchased = true
			return next, []DurableField{FieldTotalScore, FieldShopItems}
		}
		return state, nil

	case ResetShop:
		next := state.Clone()
		for i := range next.ShopItems {
			next.ShopItems[i].Purchased = false
		}
		return next, []DurableField{FieldShopItems}
	}

	// Unknown or nil action: state passthrough, never an error
	return state, nil
}
