package service

import (
	"context"
	"sync"

	"mathclash/internal/ads"
	"mathclash/internal/audio"
	"mathclash/internal/game"
	"mathclash/internal/models"
	"mathclash/internal/problems"
	"mathclash/internal/storage"
)

// Durable key layout within the session namespace
const (
	keyHighScore    = "highScore"
	keyTotalScore   = "totalScore"
	keyAchievements = "achievements"
	keyShopItems    = "shopItems"
	keyPlayerName   = "playerNickname"
	keyPlayerAvatar = "playerAvatar"
)

// AnswerResult describes the outcome of one answered question
type AnswerResult struct {
	Correct      bool             `json:"correct"`
	GameOver     bool             `json:"gameOver"`
	LevelUp      bool             `json:"levelUp"`
	Unlocked     []string         `json:"unlockedAchievements,omitempty"`
	NextQuestion *models.Question `json:"nextQuestion,omitempty"`
	State        models.GameState `json:"state"`
}

// GameService orchestrates one player session: it owns the game store,
// merges durable progress at startup, evaluates achievement thresholds on
// answer events, plays feedback sounds, and drives the revive flow through
// the ad provider.
type GameService struct {
	mu        sync.RWMutex
	store     *game.Store
	persist   *storage.Store
	generator *problems.Generator
	sounds    *audio.Manager
	provider  ads.Provider
}

// NewGameService builds a session from its persisted progress. Durable
// values merge over the defaults; missing or unreadable values leave the
// defaults in place.
func NewGameService(persist *storage.Store, generator *problems.Generator, sounds *audio.Manager, provider ads.Provider) *GameService {
	s := &GameService{
		persist:   persist,
		generator: generator,
		sounds:    sounds,
		provider:  provider,
	}
	s.store = game.NewStore(s.loadInitialState(), newDurableWriter(persist))
	return s
}

// gameStore returns the session's current store. ResetProgress swaps the
// pointer, so every access goes through here.
func (s *GameService) gameStore() *game.Store {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store
}

func (s *GameService) loadInitialState() models.GameState {
	state := models.NewGameState()

	var highScore int
	if s.persist.Get(keyHighScore, &highScore) {
		state.HighScore = highScore
	}
	var totalScore int
	if s.persist.Get(keyTotalScore, &totalScore) {
		state.TotalScore = totalScore
	}
	var name string
	if s.persist.Get(keyPlayerName, &name) {
		state.PlayerName = name
	}
	var avatar string
	if s.persist.Get(keyPlayerAvatar, &avatar) {
		state.PlayerAvatar = avatar
	}
	var achievementFlags []models.AchievementFlag
	if s.persist.Get(keyAchievements, &achievementFlags) {
		state.Achievements = models.MergeAchievements(models.DefaultAchievements(), achievementFlags)
	}
	var shopFlags []models.ShopItemFlag
	if s.persist.Get(keyShopItems, &shopFlags) {
		state.ShopItems = models.MergeShopItems(models.DefaultShopItems(), shopFlags)
	}

	return state
}

// durableWriter implements game.PersistSink: it writes the durable fields a
// reduction changed. Called on a background goroutine by the store. The
// writer is bound to the session identity that was current when its store
// was built, so a write that runs after a Clear rotated the identity is
// dropped rather than landing under the new namespace.
type durableWriter struct {
	persist   *storage.Store
	sessionID string
}

func newDurableWriter(persist *storage.Store) *durableWriter {
	return &durableWriter{persist: persist, sessionID: persist.SessionID()}
}

func (w *durableWriter) Persist(state models.GameState, fields []game.DurableField) {
	for _, field := range fields {
		switch field {
		case game.FieldHighScore:
			w.set(keyHighScore, state.HighScore)
		case game.FieldTotalScore:
			w.set(keyTotalScore, state.TotalScore)
		case game.FieldAchievements:
			w.set(keyAchievements, models.AchievementFlags(state.Achievements))
		case game.FieldShopItems:
			w.set(keyShopItems, models.ShopItemFlags(state.ShopItems))
		case game.FieldPlayerName:
			w.set(keyPlayerName, state.PlayerName)
		case game.FieldPlayerAvatar:
			w.set(keyPlayerAvatar, state.PlayerAvatar)
		}
	}
}

func (w *durableWriter) set(key string, value any) {
	w.persist.SetForSession(w.sessionID, key, value)
}

// State returns the current game state
func (s *GameService) State() models.GameState {
	return s.gameStore().State()
}

// Dispatch applies an action to the session's store
func (s *GameService) Dispatch(action game.Action) models.GameState {
	return s.gameStore().Dispatch(action)
}

// Sounds exposes the session's audio manager
func (s *GameService) Sounds() *audio.Manager {
	return s.sounds
}

// SessionID returns the persistence session identifier
func (s *GameService) SessionID() string {
	return s.persist.SessionID()
}

// NextQuestion generates a question for the current difficulty, installs it
// as the current question, and returns it
func (s *GameService) NextQuestion() models.Question {
	question := s.generator.Generate(s.gameStore().State().Difficulty)
	s.gameStore().Dispatch(game.SetQuestion{Question: &question})
	return question
}

// SubmitAnswer scores the player's answer against the current question and
// runs the surrounding achievement, sound and game-over logic. Threshold
// values here are content decisions, kept as explicit checks.
func (s *GameService) SubmitAnswer(selected int) AnswerResult {
	before := s.gameStore().State()
	if before.CurrentQuestion == nil || before.IsGameOver {
		return AnswerResult{State: before}
	}

	if before.CurrentQuestion.CheckAnswer(selected) {
		return s.applyCorrectAnswer(before)
	}
	return s.applyWrongAnswer(before)
}

func (s *GameService) applyCorrectAnswer(before models.GameState) AnswerResult {
	result := AnswerResult{Correct: true}
	s.sounds.PlaySound("correct")
	s.gameStore().Dispatch(game.IncrementScore{})

	// First correct answer ever in this run
	if before.Score == 0 {
		result.Unlocked = s.unlock(result.Unlocked, "first_game")
	}
	// The answer that crosses 100 points
	if before.Score == 99 {
		result.Unlocked = s.unlock(result.Unlocked, "high_scorer")
	}
	if (before.Score+1)%10 == 0 {
		result.LevelUp = true
		s.sounds.PlaySound("level-up")
		s.gameStore().Dispatch(game.IncrementLevel{})
	}

	question := s.NextQuestion()
	result.NextQuestion = &question
	result.State = s.gameStore().State()
	return result
}

func (s *GameService) applyWrongAnswer(before models.GameState) AnswerResult {
	result := AnswerResult{}
	s.sounds.PlaySound("wrong")
	after := s.gameStore().Dispatch(game.DecrementLives{})

	if after.IsGameOver {
		// Losing the last life while still at full lives marks a run that
		// was flawless until now; the check uses the pre-decrement value
		if before.Lives == models.MaxLives {
			result.Unlocked = s.unlock(result.Unlocked, "perfect_game")
		}
		s.sounds.PlaySound("game-over")
		// The run's score converts into spendable coins
		if after.Score > 0 {
			s.gameStore().Dispatch(game.AddToTotalScore{Amount: after.Score})
		}
		result.GameOver = true
	}

	result.State = s.gameStore().State()
	return result
}

func (s *GameService) unlock(unlocked []string, id string) []string {
	state := s.gameStore().State()
	next := s.gameStore().Dispatch(game.UnlockAchievement{ID: id})
	if achievementUnlockedNow(state, next, id) {
		s.sounds.PlaySound("achievement")
		return append(unlocked, id)
	}
	return unlocked
}

func achievementUnlockedNow(before, after models.GameState, id string) bool {
	was := false
	for _, a := range before.Achievements {
		if a.ID == id {
			was = a.Unlocked
		}
	}
	now := false
	for _, a := range after.Achievements {
		if a.ID == id {
			now = a.Unlocked
		}
	}
	return now && !was
}

// RequestRevive shows a rewarded ad and, only when the reward fires,
// restores the player to full lives with their score intact. Every failure
// path leaves game state unchanged.
func (s *GameService) RequestRevive(ctx context.Context) bool {
	if !s.gameStore().State().IsGameOver {
		return false
	}

	rewarded := false
	result := <-s.provider.ShowRewardedAd(ctx, ads.Callbacks{
		OnRewarded: func() { rewarded = true },
	})
	if !result || !rewarded {
		return false
	}

	s.gameStore().Dispatch(game.RevivePlayer{})
	return true
}

// ResetProgress wipes every durable value for this session and restarts
// from defaults under a brand-new identity. The old store's writer stays
// bound to the wiped identity, so persistence it has still in flight cannot
// leak into the fresh namespace.
func (s *GameService) ResetProgress() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persist.Clear()
	fresh := models.NewGameState()
	s.store = game.NewStore(fresh, newDurableWriter(s.persist))
	return fresh
}
