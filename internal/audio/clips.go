package audio

// ClipConfig describes one named sound clip
type ClipConfig struct {
	Name   string
	File   string
	Volume float64
	Loop   bool
}

// DefaultClips is the game's sound catalog. Background music is the only
// looping clip; it is governed by the music flag rather than the effects
// flag.
func DefaultClips() []ClipConfig {
	return []ClipConfig{
		{Name: "correct", File: "correct.mp3", Volume: 0.7},
		{Name: "wrong", File: "wrong.mp3", Volume: 0.7},
		{Name: "background", File: "background.mp3", Volume: 0.5, Loop: true},
		{Name: "achievement", File: "achievement.mp3", Volume: 0.7},
		{Name: "button-click", File: "button-click.mp3", Volume: 0.4},
		{Name: "game-over", File: "game-over.mp3", Volume: 0.6},
		{Name: "level-up", File: "level-up.mp3", Volume: 0.8},
	}
}
