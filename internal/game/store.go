package game

import (
	"sync"

	"mathclash/internal/models"
)

// PersistSink receives the durable fields a reduction changed. Writes are
// fire-and-forget from the caller's point of view: the in-memory state stays
// the source of truth whether or not the sink succeeds.
type PersistSink interface {
	Persist(state models.GameState, fields []DurableField)
}

// Subscriber is notified with the new state after each reduction
type Subscriber func(models.GameState)

// Store owns the game state for one session. Reductions are applied
// atomically under the store's lock, so no caller can observe an
// interleaving of two dispatches.
type Store struct {
	mu          sync.Mutex
	state       models.GameState
	sink        PersistSink
	subscribers []Subscriber
}

// NewStore creates a store seeded with the given state. A nil sink disables
// persistence (in-memory only).
func NewStore(initial models.GameState, sink PersistSink) *Store {
	return &Store{state: initial, sink: sink}
}

// State returns a snapshot of the current state
func (s *Store) State() models.GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers a callback invoked after every reduction with the new
// state. Callbacks run outside the store lock.
func (s *Store) Subscribe(fn Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Dispatch applies an action and returns the resulting state. Durable
// effects are handed to the sink on a background goroutine so the caller is
// never blocked by storage.
func (s *Store) Dispatch(action Action) models.GameState {
	s.mu.Lock()
	next, fields := Reduce(s.state, action)
	s.state = next
	snapshot := next.Clone()
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	if len(fields) > 0 && s.sink != nil {
		go s.sink.Persist(snapshot, fields)
	}
	for _, fn := range subs {
		fn(snapshot)
	}
	return snapshot
}
