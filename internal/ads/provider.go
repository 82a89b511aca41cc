package ads

import "context"

// Callbacks receive provider lifecycle events during a rewarded-ad showing.
// Any callback may be nil.
type Callbacks struct {
	OnAdLoaded func()
	OnAdFailed func(reason string)
	OnAdClosed func()
	OnRewarded func()
}

// Provider is the rewarded-advertisement collaborator. The provider's
// internals are opaque; the game only cares whether the viewing completed
// and the reward fired.
//
// ShowRewardedAd resolves true only when the user earned the reward. Every
// failure path resolves false and must leave the caller free to fall back
// to ending the game.
type Provider interface {
	ShowRewardedAd(ctx context.Context, callbacks Callbacks) <-chan bool
	IsAdAvailable() bool
	PreloadAd()
}
