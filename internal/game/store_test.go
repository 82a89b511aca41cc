package game

import (
	"sync"
	"testing"
	"time"

	"mathclash/internal/models"
)

type recordingSink struct {
	mu    sync.Mutex
	calls chan []DurableField
}

func newRecordingSink() *recordingSink {
	return &recordingSink{calls: make(chan []DurableField, 16)}
}

func (s *recordingSink) Persist(state models.GameState, fields []DurableField) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls <- fields
}

func waitForFields(t *testing.T, sink *recordingSink) []DurableField {
	t.Helper()
	select {
	case fields := <-sink.calls:
		return fields
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for persistence")
		return nil
	}
}

func TestDispatchAppliesAction(t *testing.T) {
	store := NewStore(models.NewGameState(), nil)

	state := store.Dispatch(IncrementScore{})

	if state.Score != 1 {
		t.Errorf("Score = %d, want 1", state.Score)
	}
	if got := store.State(); got.Score != 1 {
		t.Errorf("State().Score = %d, want 1", got.Score)
	}
}

func TestDispatchNotifiesSink(t *testing.T) {
	sink := newRecordingSink()
	store := NewStore(models.NewGameState(), sink)

	store.Dispatch(IncrementScore{})

	fields := waitForFields(t, sink)
	if len(fields) != 1 || fields[0] != FieldHighScore {
		t.Errorf("fields = %v, want [highScore]", fields)
	}

	// No durable effects, no sink call
	store.Dispatch(ToggleSound{})
	select {
	case fields := <-sink.calls:
		t.Errorf("sink called for effect-free action: %v", fields)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribersObserveEveryDispatch(t *testing.T) {
	store := NewStore(models.NewGameState(), nil)

	var mu sync.Mutex
	var scores []int
	store.Subscribe(func(state models.GameState) {
		mu.Lock()
		scores = append(scores, state.Score)
		mu.Unlock()
	})

	store.Dispatch(IncrementScore{})
	store.Dispatch(IncrementScore{})
	store.Dispatch(ResetGame{})

	mu.Lock()
	defer mu.Unlock()
	want := []int{1, 2, 0}
	if len(scores) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(scores), len(want))
	}
	for i := range want {
		if scores[i] != want[i] {
			t.Errorf("notification %d: Score = %d, want %d", i, scores[i], want[i])
		}
	}
}

func TestConcurrentDispatch(t *testing.T) {
	store := NewStore(models.NewGameState(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Dispatch(AddToTotalScore{Amount: 1})
		}()
	}
	wg.Wait()

	if got := store.State().TotalScore; got != 50 {
		t.Errorf("TotalScore = %d, want 50", got)
	}
}
