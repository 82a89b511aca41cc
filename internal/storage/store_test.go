package storage

import (
	"reflect"
	"testing"
)

type progress struct {
	HighScore    int      `json:"highScore"`
	Achievements []string `json:"achievements"`
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(NewMemoryBackend())

	want := progress{HighScore: 42, Achievements: []string{"first_game", "high_scorer"}}
	store.Set("progress", want)

	var got progress
	if !store.Get("progress", &got) {
		t.Fatal("Get reported no value after Set")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestGetMissingKey(t *testing.T) {
	store := NewStore(NewMemoryBackend())

	var got progress
	if store.Get("progress", &got) {
		t.Error("Get reported a value for a key never set")
	}
}

func TestSessionIDStableAcrossStores(t *testing.T) {
	backend := NewMemoryBackend()

	first := NewStore(backend).SessionID()
	if first == "" {
		t.Fatal("empty session id")
	}

	// A new store over the same backend resumes the persisted identity
	second := NewStore(backend).SessionID()
	if second != first {
		t.Errorf("session id not persisted: %q then %q", first, second)
	}
}

func TestServerBoundStoreDoesNotPersistID(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStoreWithID(backend, "session-a")

	if got := store.SessionID(); got != "session-a" {
		t.Errorf("SessionID = %q, want session-a", got)
	}
	store.Set("highScore", 9)

	if _, err := backend.Get("mathclash_session_id"); err == nil {
		t.Error("server-bound store recorded its id in the backend")
	}
}

func TestNamespaceIsolation(t *testing.T) {
	backend := NewMemoryBackend()
	alice := NewStoreWithID(backend, "alice")
	bob := NewStoreWithID(backend, "bob")

	alice.Set("highScore", 100)
	bob.Set("highScore", 5)

	var got int
	if !alice.Get("highScore", &got) || got != 100 {
		t.Errorf("alice highScore = %d, want 100", got)
	}
	if !bob.Get("highScore", &got) || got != 5 {
		t.Errorf("bob highScore = %d, want 5", got)
	}
}

func TestClearRemovesDataAndRotatesID(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStore(backend)

	oldID := store.SessionID()
	store.Set("highScore", 77)
	store.Set("totalScore", 900)

	store.Clear()

	newID := store.SessionID()
	if newID == oldID {
		t.Error("Clear did not rotate the session id")
	}

	var got int
	if store.Get("highScore", &got) {
		t.Error("highScore survived Clear")
	}
	if store.Get("totalScore", &got) {
		t.Error("totalScore survived Clear")
	}

	// Only the rotated id record should remain in the backend
	if backend.Len() != 1 {
		t.Errorf("backend holds %d keys after Clear, want 1", backend.Len())
	}
}

func TestClearDoesNotTouchOtherSessions(t *testing.T) {
	backend := NewMemoryBackend()
	alice := NewStoreWithID(backend, "alice")
	bob := NewStoreWithID(backend, "bob")

	alice.Set("highScore", 100)
	bob.Set("highScore", 5)

	alice.Clear()

	var got int
	if !bob.Get("highScore", &got) || got != 5 {
		t.Errorf("bob's data affected by alice's Clear: got %d", got)
	}
}

func TestSetForSessionRejectsRotatedIdentity(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStoreWithID(backend, "alice")
	bound := store.SessionID()

	store.SetForSession(bound, "highScore", 41)
	var got int
	if !store.Get("highScore", &got) || got != 41 {
		t.Fatalf("bound write not visible: got %d", got)
	}

	store.Clear()

	// A write still holding the wiped identity must be dropped, not land
	// under the fresh namespace
	store.SetForSession(bound, "highScore", 777)

	if store.Get("highScore", &got) {
		t.Errorf("stale write visible under rotated identity: %d", got)
	}
	if backend.Len() != 0 {
		t.Errorf("backend holds %d keys after rejected write, want 0", backend.Len())
	}
}

func TestFailClosed(t *testing.T) {
	backend := NewMemoryBackend()
	backend.FailAll = true
	store := NewStore(backend)

	// None of these may panic or surface an error to the caller
	store.Set("highScore", 10)
	store.Clear()

	var got int
	if store.Get("highScore", &got) {
		t.Error("Get reported a value from a failing backend")
	}

	// Identity still works process-locally
	if store.SessionID() == "" {
		t.Error("no session id from a failing backend")
	}
}

func TestCorruptValueReportsMissing(t *testing.T) {
	backend := NewMemoryBackend()
	store := NewStoreWithID(backend, "alice")

	backend.Set("mathclash_user_alice_highScore", "{not json")

	var got int
	if store.Get("highScore", &got) {
		t.Error("Get reported a value for undecodable data")
	}
}
