package engine

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubeanim/internal/model"
	"github.com/SeamusWaldron/cubeanim/internal/tween"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger     zerolog.Logger
	animator   tween.Animator
	presets    tween.Presets
	timeout    time.Duration
	locker     sync.Locker
	ctx        context.Context
	onComplete func(Job, time.Duration)
	geometry   model.Geometry
}

func defaultConfig() *config {
	return &config{
		logger:   zerolog.Nop(),
		animator: tween.Clock{},
		presets:  tween.DefaultPresets(),
		locker:   &sync.Mutex{},
		ctx:      context.Background(),
		geometry: model.Geometry{Size: model.DefaultPieceSize},
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithAnimator sets the animator driving each turn.
func WithAnimator(a tween.Animator) Option {
	return func(c *config) {
		c.animator = a
	}
}

// WithPresets sets the tempo presets.
func WithPresets(p tween.Presets) Option {
	return func(c *config) {
		c.presets = p
	}
}

// WithAnimateTimeout bounds how long a single turn may animate. When it
// expires the turn is completed immediately. Zero means no bound.
func WithAnimateTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithLocker sets the lock guarding the scene. Readers of the scene must
// hold the same lock.
func WithLocker(l sync.Locker) Option {
	return func(c *config) {
		c.locker = l
	}
}

// WithContext sets the context the engine runs under. Once it is done the
// engine halts before the next turn.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

// WithOnComplete registers a callback fired after each turn has been
// committed, in execution order, from the engine goroutine.
func WithOnComplete(fn func(Job, time.Duration)) Option {
	return func(c *config) {
		c.onComplete = fn
	}
}

// WithGeometry sets the piece geometry the scene was built with.
func WithGeometry(g model.Geometry) Option {
	return func(c *config) {
		c.geometry = g
	}
}
