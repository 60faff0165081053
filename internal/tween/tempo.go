package tween

import (
	"fmt"
	"strings"
	"time"
)

// Tempo selects how fast a layer turn is animated.
type Tempo int

const (
	Normal Tempo = iota
	Scramble
)

func (t Tempo) String() string {
	switch t {
	case Normal:
		return "normal"
	case Scramble:
		return "scramble"
	default:
		return fmt.Sprintf("tempo(%d)", int(t))
	}
}

// ParseTempo parses "normal" or "scramble".
func ParseTempo(s string) (Tempo, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return Normal, nil
	case "scramble":
		return Scramble, nil
	}
	return Normal, fmt.Errorf("tween: unknown tempo %q", s)
}

// Preset is the duration formula and easing for one tempo.
type Preset struct {
	Base   time.Duration
	PerRep time.Duration
	Ease   Easing
}

// Duration returns how long a turn with reps repetitions animates for.
func (p Preset) Duration(reps int) time.Duration {
	return p.Base + p.PerRep*time.Duration(reps)
}

// Presets maps each tempo to its preset.
type Presets map[Tempo]Preset

// DefaultPresets returns the built-in tempos: normal turns take
// 0.7s + 0.3s per repetition with a slight overshoot; scramble turns take
// 0.15s flat.
func DefaultPresets() Presets {
	return Presets{
		Normal: {
			Base:   700 * time.Millisecond,
			PerRep: 300 * time.Millisecond,
			Ease:   MustParseEase("back.inOut(1)"),
		},
		Scramble: {
			Base: 150 * time.Millisecond,
			Ease: MustParseEase("power1.inOut"),
		},
	}
}

// Get returns the preset for t, falling back to the built-in one.
func (p Presets) Get(t Tempo) Preset {
	if pr, ok := p[t]; ok {
		return pr
	}
	if pr, ok := DefaultPresets()[t]; ok {
		return pr
	}
	return DefaultPresets()[Normal]
}
