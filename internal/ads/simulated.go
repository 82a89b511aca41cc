package ads

import (
	"context"
	"log"
	"sync"
	"time"
)

// SimulatedProvider stands in for a real ad network during development and
// tests. It mimics the load/show/reward lifecycle with configurable
// latencies and an optional forced failure.
type SimulatedProvider struct {
	mu        sync.Mutex
	loaded    bool
	showing   bool
	loadDelay time.Duration
	showDelay time.Duration

	// FailLoads makes every load attempt fail, exercising the caller's
	// fallback path
	FailLoads bool
}

// NewSimulatedProvider creates a provider with development-friendly delays
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{
		loadDelay: time.Second,
		showDelay: 3 * time.Second,
	}
}

// NewInstantProvider creates a provider with no artificial delay, for tests
func NewInstantProvider() *SimulatedProvider {
	return &SimulatedProvider{}
}

// IsAdAvailable reports whether an ad is loaded and not currently showing
func (p *SimulatedProvider) IsAdAvailable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded && !p.showing
}

// PreloadAd loads an ad in the background if none is ready
func (p *SimulatedProvider) PreloadAd() {
	p.mu.Lock()
	if p.loaded || p.showing {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()
	go p.load(nil)
}

func (p *SimulatedProvider) load(callbacks *Callbacks) bool {
	time.Sleep(p.loadDelay)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailLoads {
		if callbacks != nil && callbacks.OnAdFailed != nil {
			callbacks.OnAdFailed("ad failed to load")
		}
		return false
	}
	p.loaded = true
	if callbacks != nil && callbacks.OnAdLoaded != nil {
		callbacks.OnAdLoaded()
	}
	return true
}

// ShowRewardedAd loads an ad when none is ready, displays it, and fires the
// reward. The returned channel resolves true only when the reward fired;
// concurrent showings, load failures and context cancellation resolve false
// with no other effect.
func (p *SimulatedProvider) ShowRewardedAd(ctx context.Context, callbacks Callbacks) <-chan bool {
	result := make(chan bool, 1)

	p.mu.Lock()
	if p.showing {
		p.mu.Unlock()
		log.Printf("Warning: rewarded ad already showing")
		result <- false
		return result
	}
	p.showing = true
	loaded := p.loaded
	p.mu.Unlock()

	go func() {
		defer func() {
			p.mu.Lock()
			p.showing = false
			p.mu.Unlock()
		}()

		if !loaded && !p.load(&callbacks) {
			result <- false
			return
		}

		select {
		case <-ctx.Done():
			if callbacks.OnAdFailed != nil {
				callbacks.OnAdFailed("ad cancelled")
			}
			result <- false
			return
		case <-time.After(p.showDelay):
		}

		p.mu.Lock()
		p.loaded = false // next showing needs a fresh load
		p.mu.Unlock()

		if callbacks.OnRewarded != nil {
			callbacks.OnRewarded()
		}
		if callbacks.OnAdClosed != nil {
			callbacks.OnAdClosed()
		}
		result <- true
	}()

	return result
}
