package audio

import (
	"log"
	"sync"
	"time"
)

// ClipState tracks the lifecycle of one clip's bytes
type ClipState int

const (
	ClipUnloaded ClipState = iota
	ClipLoading
	ClipLoaded
	ClipLoadFailed
)

// GateState models the platform restriction that audio output needs a
// user-initiated gesture before anything can play
type GateState int

const (
	GateLocked GateState = iota
	GateUnlocking
	GateUnlocked
)

// Unlocker performs the platform unlock handshake. A nil Unlocker means the
// platform has no gesture restriction and unlocking always succeeds.
type Unlocker interface {
	Unlock() error
}

const loadBatchSize = 3

type clip struct {
	config  ClipConfig
	state   ClipState
	data    []byte
	playing bool
	// playGen invalidates pending plays: a StopSound call bumps it so a
	// still-in-flight PlaySound for the same clip is logically superseded
	playGen uint64
	retried bool
}

// Manager is the registry of named sound clips. Loading is lazy and
// batched, the output gate follows the unlock handshake, and every failure
// mode degrades to a silent no-op.
type Manager struct {
	mu           sync.Mutex
	clips        map[string]*clip
	order        []string
	loader       Loader
	unlocker     Unlocker
	gate         GateState
	enabled      bool
	musicEnabled bool
	volume       float64
	retryDelay   time.Duration
	batchLoading bool
}

// NewManager creates a manager for the given clip catalog. Nothing is
// loaded until the first play request.
func NewManager(configs []ClipConfig, loader Loader, unlocker Unlocker) *Manager {
	m := &Manager{
		clips:        make(map[string]*clip, len(configs)),
		loader:       loader,
		unlocker:     unlocker,
		gate:         GateLocked,
		enabled:      true,
		musicEnabled: true,
		volume:       1.0,
		retryDelay:   250 * time.Millisecond,
	}
	for _, cfg := range configs {
		m.clips[cfg.Name] = &clip{config: cfg}
		m.order = append(m.order, cfg.Name)
	}
	return m
}

// SetRetryDelay overrides the delay before a failed load is retried.
// Intended for tests.
func (m *Manager) SetRetryDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryDelay = d
}

// PlaySound plays a named clip. The returned channel resolves when the play
// attempt settles; callers may ignore it (fire-and-forget) and must not
// assume audio actually played. A locked gate triggers the unlock handshake
// first; a permanently failed clip, a disabled category, or a failed unlock
// are silent drops.
func (m *Manager) PlaySound(name string) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- m.play(name)
	}()
	return done
}

func (m *Manager) play(name string) error {
	m.mu.Lock()
	c, ok := m.clips[name]
	if !ok {
		m.mu.Unlock()
		log.Printf("Warning: unknown sound %q", name)
		return nil
	}
	if (c.config.Loop && !m.musicEnabled) || (!c.config.Loop && !m.enabled) {
		m.mu.Unlock()
		return nil
	}
	gen := c.playGen
	m.mu.Unlock()

	if !m.ensureLoaded(name) {
		// Load failure for this clip leaves every other clip untouched
		log.Printf("Warning: sound %q unavailable", name)
		return nil
	}

	// Opportunistically start loading the next few unloaded clips so the
	// catalog warms up without one synchronous burst
	m.mu.Lock()
	m.scheduleBatchLocked()
	m.mu.Unlock()

	if !m.ensureUnlocked() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c.playGen != gen {
		// Superseded by StopSound while the play was pending
		return nil
	}
	c.playing = true
	return nil
}

// StopSound stops a clip. Idempotent; a no-op for unknown names or clips
// that are not playing. It also supersedes any still-pending play for the
// same clip.
func (m *Manager) StopSound(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clips[name]; ok {
		c.playGen++
		c.playing = false
	}
}

// SetEnabled toggles effect sounds. Disabling stops every currently playing
// non-looping clip immediately; looping audio is governed by the music flag.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = enabled
	if !enabled {
		for _, c := range m.clips {
			if !c.config.Loop && c.playing {
				c.playGen++
				c.playing = false
			}
		}
	}
}

// SetMusicEnabled toggles looping background audio
func (m *Manager) SetMusicEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musicEnabled = enabled
	if !enabled {
		for _, c := range m.clips {
			if c.config.Loop && c.playing {
				c.playGen++
				c.playing = false
			}
		}
	}
}

// SetVolume applies a uniform volume level to all clips, clamped to [0, 1]
func (m *Manager) SetVolume(level float64) {
	if level < 0 {
		level = 0
	} else if level > 1 {
		level = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = level
}

// Volume returns the current uniform volume level
func (m *Manager) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

// Unlock runs the user-gesture unlock handshake. Called by the UI layer on
// the first interaction; PlaySound also attempts it on demand.
func (m *Manager) Unlock() bool {
	return m.ensureUnlocked()
}

// GateState reports the current output gate state
func (m *Manager) GateState() GateState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gate
}

// ClipState reports the load state of a named clip
func (m *Manager) ClipState(name string) ClipState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clips[name]; ok {
		return c.state
	}
	return ClipUnloaded
}

// IsPlaying reports whether a clip is currently playing
func (m *Manager) IsPlaying(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clips[name]
	return ok && c.playing
}

// ClipData returns the loaded bytes for a clip so the transport layer can
// serve them to the browser. Nil until the clip is loaded.
func (m *Manager) ClipData(name string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.clips[name]; ok && c.state == ClipLoaded {
		return c.data
	}
	return nil
}

func (m *Manager) ensureUnlocked() bool {
	m.mu.Lock()
	if m.gate == GateUnlocked {
		m.mu.Unlock()
		return true
	}
	m.gate = GateUnlocking
	unlocker := m.unlocker
	m.mu.Unlock()

	var err error
	if unlocker != nil {
		err = unlocker.Unlock()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.gate = GateLocked
		log.Printf("Warning: audio unlock failed: %v", err)
		return false
	}
	m.gate = GateUnlocked
	return true
}

// ensureLoaded loads the clip if needed, retrying once after a short delay.
// Returns false when the clip is permanently unavailable for the session.
func (m *Manager) ensureLoaded(name string) bool {
	m.mu.Lock()
	c := m.clips[name]
	switch c.state {
	case ClipLoaded:
		m.mu.Unlock()
		return true
	case ClipLoadFailed:
		m.mu.Unlock()
		return false
	case ClipLoading:
		// Another goroutine is loading; treat as a drop rather than block
		m.mu.Unlock()
		return false
	}
	c.state = ClipLoading
	file := c.config.File
	delay := m.retryDelay
	m.mu.Unlock()

	data, err := m.loader.Load(file)
	if err != nil {
		log.Printf("Warning: failed to load sound %q, retrying: %v", name, err)
		time.Sleep(delay)
		data, err = m.loader.Load(file)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		// Second failure is final for this session
		c.state = ClipLoadFailed
		log.Printf("Warning: sound %q marked unavailable: %v", name, err)
		return false
	}
	c.state = ClipLoaded
	c.data = data
	return true
}

// scheduleBatchLocked opportunistically loads a few more unloaded clips in
// the background so the whole catalog is never fetched synchronously at
// once. Callers must hold m.mu.
func (m *Manager) scheduleBatchLocked() {
	if m.batchLoading {
		return
	}
	var pending []string
	for _, name := range m.order {
		if m.clips[name].state == ClipUnloaded {
			pending = append(pending, name)
		}
		if len(pending) == loadBatchSize {
			break
		}
	}
	if len(pending) == 0 {
		return
	}
	m.batchLoading = true
	go func() {
		for _, name := range pending {
			m.ensureLoaded(name)
		}
		m.mu.Lock()
		m.batchLoading = false
		m.mu.Unlock()
	}()
}
