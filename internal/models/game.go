package models

// Difficulty selects the arithmetic tier for generated questions
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty tiers
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// MaxLives is the number of lives a player starts each game with
const MaxLives = 3

// Achievement represents a one-way unlockable milestone
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

// ShopItemCategory classifies shop catalog entries
type ShopItemCategory string

const (
	CategoryPowerup  ShopItemCategory = "powerup"
	CategoryCosmetic ShopItemCategory = "cosmetic"
	CategoryBonus    ShopItemCategory = "bonus"
)

// ShopItem represents a purchasable catalog entry
type ShopItem struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Price     int              `json:"price"`
	Category  ShopItemCategory `json:"category"`
	Purchased bool             `json:"purchased"`
}

// GameState is the full session state owned by the game store.
// It is mutated only through reduction, never externally.
type GameState struct {
	Score            int           `json:"score"`
	Lives            int           `json:"lives"`
	HighScore        int           `json:"highScore"`
	TotalScore       int           `json:"totalScore"`
	Difficulty       Difficulty    `json:"difficulty"`
	SoundEnabled     bool          `json:"soundEnabled"`
	MusicEnabled     bool          `json:"musicEnabled"`
	VibrationEnabled bool          `json:"vibrationEnabled"`
	CurrentQuestion  *Question     `json:"currentQuestion,omitempty"`
	Level            int           `json:"level"`
	IsGameOver       bool          `json:"isGameOver"`
	Achievements     []Achievement `json:"achievements"`
	ShopItems        []ShopItem    `json:"shopItems"`
	PlayerName       string        `json:"playerName"`
	PlayerAvatar     string        `json:"playerAvatar"`
	Theme            string        `json:"theme"`
}

// NewGameState returns the default state for a fresh session: full lives,
// easy difficulty, all sounds on, and the canonical catalogs locked.
func NewGameState() GameState {
	return GameState{
		Score:            0,
		Lives:            MaxLives,
		HighScore:        0,
		TotalScore:       0,
		Difficulty:       DifficultyEasy,
		SoundEnabled:     true,
		MusicEnabled:     true,
		VibrationEnabled: true,
		Level:            1,
		IsGameOver:       false,
		Achievements:     DefaultAchievements(),
		ShopItems:        DefaultShopItems(),
		PlayerName:       "",
		PlayerAvatar:     "",
		Theme:            "space",
	}
}

// Clone returns a deep copy of the state so reductions can build the next
// state without aliasing catalog slices with the previous one.
func (s GameState) Clone() GameState {
	next := s
	next.Achievements = make([]Achievement, len(s.Achievements))
	copy(next.Achievements, s.Achievements)
	next.ShopItems = make([]ShopItem, len(s.ShopItems))
	copy(next.ShopItems, s.ShopItems)
	if s.CurrentQuestion != nil {
		q := *s.CurrentQuestion
		q.Options = make([]int, len(s.CurrentQuestion.Options))
		copy(q.Options, s.CurrentQuestion.Options)
		next.CurrentQuestion = &q
	}
	return next
}
