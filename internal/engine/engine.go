// Package engine executes queued layer turns against a scene graph, one at a
// time: select the layer, regroup it under a transient node, animate the
// node's rotation, then commit the pieces back under the root.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/SeamusWaldron/cubeanim/internal/model"
	"github.com/SeamusWaldron/cubeanim/internal/queue"
	"github.com/SeamusWaldron/cubeanim/internal/registry"
	"github.com/SeamusWaldron/cubeanim/internal/scene"
	"github.com/SeamusWaldron/cubeanim/internal/tween"
)

var (
	ErrCardinality = errors.New("engine: layer selection did not return 9 pieces")
	ErrClosed      = errors.New("engine: closed")
)

// Scene is the part of a scene graph the engine manipulates.
type Scene interface {
	Root() scene.NodeID
	NewNode(name string, parent scene.NodeID) (scene.NodeID, error)
	Remove(id scene.NodeID) error
	Attach(id, parent scene.NodeID) error
	World(id scene.NodeID) (scene.Transform, error)
	SetLocal(id scene.NodeID, t scene.Transform) error
}

// Job is one queued turn.
type Job struct {
	Instance registry.Instance
	Tempo    tween.Tempo
	Seq      uint64
}

// Engine drains a command queue against a scene.
type Engine struct {
	scene  Scene
	pieces []*model.Piece
	queue  *queue.Queue[Job]
	cfg    *config
	log    zerolog.Logger

	mu        sync.Mutex
	done      chan struct{}
	seq       uint64
	closed    bool
	displayed string

	executed metric.Int64Counter
	failed   metric.Int64Counter
	duration metric.Float64Histogram
	qlen     metric.Int64ObservableGauge
	reg      metric.Registration
}

// New creates an engine for pieces, which must already be built in sc.
// Uses the global OTel meter for metrics (no-op if not configured).
func New(sc Scene, pieces []*model.Piece, opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	e := &Engine{
		scene:  sc,
		pieces: pieces,
		cfg:    cfg,
		log:    cfg.logger.With().Str("component", "engine").Logger(),
	}
	e.queue = queue.New(e.startDrain)

	cfg.locker.Lock()
	displayed, err := e.locate()
	cfg.locker.Unlock()
	if err != nil {
		return nil, fmt.Errorf("reading initial state: %w", err)
	}
	e.displayed = displayed

	m := meter()

	e.executed, err = m.Int64Counter(
		"engine.commands.executed",
		metric.WithDescription("Total layer turns committed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating executed counter: %w", err)
	}

	e.failed, err = m.Int64Counter(
		"engine.commands.failed",
		metric.WithDescription("Total layer turns that halted the queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating failed counter: %w", err)
	}

	e.duration, err = m.Float64Histogram(
		"engine.command.duration",
		metric.WithDescription("Wall time to execute one layer turn"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration histogram: %w", err)
	}

	e.qlen, err = m.Int64ObservableGauge(
		"engine.queue.length",
		metric.WithDescription("Current number of queued turns, the running one included"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating queue length gauge: %w", err)
	}

	e.reg, err = m.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(e.qlen, int64(e.queue.Len()))
			return nil
		},
		e.qlen,
	)
	if err != nil {
		return nil, fmt.Errorf("registering queue callback: %w", err)
	}

	return e, nil
}

// Submit queues inst at tempo. If the engine is idle it starts executing
// immediately.
func (e *Engine) Submit(inst registry.Instance, tempo tween.Tempo) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.seq++
	job := Job{Instance: inst, Tempo: tempo, Seq: e.seq}
	e.mu.Unlock()

	return e.queue.Enqueue(job)
}

// FaceletString returns the displayed state as of the last committed turn,
// in facelet-string order.
func (e *Engine) FaceletString() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.displayed
}

// locate derives the displayed state from the stickers' world positions.
// The scene lock must be held.
func (e *Engine) locate() (string, error) {
	var out [54]byte
	for _, p := range e.pieces {
		for _, f := range p.Facelets {
			w, err := e.scene.World(f.Node)
			if err != nil {
				return "", err
			}
			seat, err := e.cfg.geometry.Locate(w.Position)
			if err != nil {
				return "", err
			}
			out[seat.Index()] = f.Home.Face().Letter()
		}
	}
	return string(out[:]), nil
}

// Len returns the number of queued turns, the running one included.
func (e *Engine) Len() int {
	return e.queue.Len()
}

// Pending returns the queued turns in execution order.
func (e *Engine) Pending() []Job {
	return e.queue.Snapshot()
}

// Err returns the error that halted the engine, if any.
func (e *Engine) Err() error {
	return e.queue.Err()
}

// Reset clears a halted engine so it accepts turns again. The scene is left
// as the failed turn left it.
func (e *Engine) Reset() []Job {
	return e.queue.Reset()
}

// Wait blocks until the queue has drained or halted, returning the halt
// error, or until ctx is done.
func (e *Engine) Wait(ctx context.Context) error {
	for {
		e.mu.Lock()
		done := e.done
		e.mu.Unlock()
		if done == nil {
			return e.queue.Err()
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close rejects further submissions, waits for queued turns to finish and
// releases the metric callback.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	err := e.Wait(ctx)
	if e.reg != nil {
		if uerr := e.reg.Unregister(); uerr != nil && err == nil {
			err = uerr
		}
	}
	return err
}

// startDrain is called by the queue when it goes from empty to non-empty.
func (e *Engine) startDrain(front Job) {
	done := make(chan struct{})
	e.mu.Lock()
	e.done = done
	e.mu.Unlock()

	go e.drain(front, done)
}

func (e *Engine) drain(job Job, done chan struct{}) {
	defer func() {
		e.mu.Lock()
		if e.done == done {
			e.done = nil
		}
		e.mu.Unlock()
		close(done)
	}()

	for {
		cmdAttr := attribute.String("command", job.Instance.Code())
		start := time.Now()

		if err := e.execute(job); err != nil {
			e.queue.Halt(err)
			e.failed.Add(context.Background(), 1, metric.WithAttributes(cmdAttr))
			e.log.Error().Err(err).
				Str("move", job.Instance.Notation()).
				Uint64("seq", job.Seq).
				Msg("turn failed, queue halted")
			return
		}

		elapsed := time.Since(start)
		e.executed.Add(context.Background(), 1, metric.WithAttributes(cmdAttr))
		e.duration.Record(context.Background(), float64(elapsed.Microseconds())/1000, metric.WithAttributes(cmdAttr))
		e.log.Debug().
			Str("move", job.Instance.Notation()).
			Str("tempo", job.Tempo.String()).
			Uint64("seq", job.Seq).
			Dur("elapsed", elapsed).
			Msg("turn committed")

		if e.cfg.onComplete != nil {
			e.cfg.onComplete(job, elapsed)
		}

		next, ok := e.queue.Dequeue()
		if !ok {
			return
		}
		job = next
	}
}

// execute runs one turn. Any error leaves the queue halted.
func (e *Engine) execute(job Job) error {
	inst := job.Instance
	lock := e.cfg.locker

	lock.Lock()
	nodes, group, err := e.regroup(inst)
	lock.Unlock()
	if err != nil {
		return err
	}

	if err := e.cfg.ctx.Err(); err != nil {
		lock.Lock()
		defer lock.Unlock()
		if cerr := e.commit(nodes, group); cerr != nil {
			return cerr
		}
		return fmt.Errorf("turn %s not started: %w", inst.Notation(), err)
	}

	angle := inst.Angle()
	axis := inst.Axis().Vec()
	preset := e.cfg.presets.Get(job.Tempo)

	actx := e.cfg.ctx
	if e.cfg.timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(actx, e.cfg.timeout)
		defer cancel()
	}

	var serr error
	aerr := e.cfg.animator.Run(actx, preset.Duration(inst.Repetitions), preset.Ease, func(v float64) {
		lock.Lock()
		defer lock.Unlock()
		if err := e.scene.SetLocal(group, scene.Rotation(angle*v, axis)); err != nil && serr == nil {
			serr = err
		}
	})

	lock.Lock()
	defer lock.Unlock()

	// Always finish on the exact target so pieces stay on the lattice.
	if err := e.scene.SetLocal(group, scene.Rotation(angle, axis)); err != nil {
		return fmt.Errorf("turn %s: %w", inst.Notation(), err)
	}
	if err := e.commit(nodes, group); err != nil {
		return err
	}

	if serr != nil {
		return fmt.Errorf("turn %s: %w", inst.Notation(), serr)
	}
	if aerr != nil {
		if perr := e.cfg.ctx.Err(); perr != nil {
			return fmt.Errorf("turn %s interrupted: %w", inst.Notation(), perr)
		}
		e.log.Warn().Err(aerr).Str("move", inst.Notation()).Msg("animation cut short")
	}
	return nil
}

// regroup selects the layer for inst and moves its piece and sticker nodes
// under a new group node, keeping their world transforms.
func (e *Engine) regroup(inst registry.Instance) ([]scene.NodeID, scene.NodeID, error) {
	placed := make([]registry.Placed, len(e.pieces))
	for i, p := range e.pieces {
		w, err := e.scene.World(p.Node)
		if err != nil {
			return nil, 0, fmt.Errorf("locating piece %v: %w", p.Index, err)
		}
		placed[i] = registry.Placed{Piece: p, Position: w.Position}
	}

	selected := inst.Select(placed)
	if len(selected) != registry.LayerSize {
		return nil, 0, fmt.Errorf("%w: %s selected %d", ErrCardinality, inst.Notation(), len(selected))
	}

	group, err := e.scene.NewNode("group:"+inst.Notation(), e.scene.Root())
	if err != nil {
		return nil, 0, fmt.Errorf("creating group: %w", err)
	}

	nodes := make([]scene.NodeID, 0, registry.LayerSize*4)
	for _, p := range selected {
		nodes = append(nodes, p.Node)
		for _, f := range p.Facelets {
			nodes = append(nodes, f.Node)
		}
	}
	for _, n := range nodes {
		if err := e.scene.Attach(n, group); err != nil {
			return nil, 0, fmt.Errorf("regrouping node %d: %w", n, err)
		}
	}
	return nodes, group, nil
}

// commit moves nodes back under the root, keeping their world transforms,
// and removes the group.
func (e *Engine) commit(nodes []scene.NodeID, group scene.NodeID) error {
	root := e.scene.Root()
	for _, n := range nodes {
		if err := e.scene.Attach(n, root); err != nil {
			return fmt.Errorf("committing node %d: %w", n, err)
		}
	}
	if err := e.scene.Remove(group); err != nil {
		return fmt.Errorf("dissolving group: %w", err)
	}

	displayed, err := e.locate()
	if err != nil {
		return fmt.Errorf("reading committed state: %w", err)
	}
	e.mu.Lock()
	e.displayed = displayed
	e.mu.Unlock()
	return nil
}
