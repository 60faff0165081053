package tween

import (
	"context"
	"time"
)

// DefaultFPS is the update rate of a Clock created with a zero FPS.
const DefaultFPS = 60

// Animator drives step with eased progress from 0 to 1 over d.
//
// Run returns once step has been called with the final value, or with the
// context error if ctx ends first. step is called from the goroutine that
// called Run.
type Animator interface {
	Run(ctx context.Context, d time.Duration, ease Easing, step func(v float64)) error
}

// Clock animates in real time, updating at FPS frames per second.
type Clock struct {
	FPS int
}

func (c Clock) Run(ctx context.Context, d time.Duration, ease Easing, step func(v float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		step(ease.At(1))
		return nil
	}

	fps := c.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	start := time.Now()
	step(ease.At(0))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			p := float64(now.Sub(start)) / float64(d)
			if p >= 1 {
				step(ease.At(1))
				return nil
			}
			step(ease.At(p))
		}
	}
}

// Instant completes every animation in a single step.
type Instant struct{}

func (Instant) Run(ctx context.Context, _ time.Duration, ease Easing, step func(v float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	step(ease.At(1))
	return nil
}
