package cubeanim

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubeanim/internal/model"
	"github.com/SeamusWaldron/cubeanim/internal/solver"
	"github.com/SeamusWaldron/cubeanim/internal/tween"
)

// Option configures Puzzle behavior.
type Option func(*config)

type config struct {
	logger         zerolog.Logger
	animator       tween.Animator
	presets        tween.Presets
	animateTimeout time.Duration
	pieceSize      float64
	solver         solver.Solver
	journal        Journal
	moveHistory    bool
	scrambleLength int
	seed           *[2]uint64
}

func defaultConfig() *config {
	return &config{
		logger:         zerolog.Nop(),
		animator:       tween.Clock{},
		presets:        tween.DefaultPresets(),
		pieceSize:      model.DefaultPieceSize,
		moveHistory:    true,
		scrambleLength: 25,
	}
}

// WithLogger sets the logger used by the puzzle and its engine.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithInstant completes every turn immediately instead of animating it.
func WithInstant() Option {
	return func(c *config) {
		c.animator = tween.Instant{}
	}
}

// WithFrameRate animates turns in real time at fps updates per second.
func WithFrameRate(fps int) Option {
	return func(c *config) {
		c.animator = tween.Clock{FPS: fps}
	}
}

// WithAnimator sets a custom animator.
func WithAnimator(a tween.Animator) Option {
	return func(c *config) {
		c.animator = a
	}
}

// WithPresets overrides the tempo presets.
func WithPresets(p tween.Presets) Option {
	return func(c *config) {
		c.presets = p
	}
}

// WithAnimateTimeout bounds how long a single turn may animate.
// When exceeded the turn snaps to its final position.
func WithAnimateTimeout(d time.Duration) Option {
	return func(c *config) {
		c.animateTimeout = d
	}
}

// WithPieceSize sets the cubie edge length in world units.
func WithPieceSize(size float64) Option {
	return func(c *config) {
		c.pieceSize = size
	}
}

// WithSolver sets the solver used by Solve and Scramble.
// It can also be set later with SetSolver.
func WithSolver(s solver.Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithJournal records every completed move.
func WithJournal(j Journal) Option {
	return func(c *config) {
		c.journal = j
	}
}

// WithMoveHistory enables or disables move history tracking.
// When enabled (default), completed moves are accessible via Moves().
// Disable this for long sessions to reduce memory usage.
func WithMoveHistory(enabled bool) Option {
	return func(c *config) {
		c.moveHistory = enabled
	}
}

// WithScrambleLength sets how many random turns generate the target
// state for Scramble.
func WithScrambleLength(n int) Option {
	return func(c *config) {
		c.scrambleLength = n
	}
}

// WithSeed makes scrambles reproducible.
func WithSeed(seed1, seed2 uint64) Option {
	return func(c *config) {
		c.seed = &[2]uint64{seed1, seed2}
	}
}
