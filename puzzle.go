package cubeanim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/SeamusWaldron/cubeanim/internal/engine"
	"github.com/SeamusWaldron/cubeanim/internal/facecube"
	"github.com/SeamusWaldron/cubeanim/internal/model"
	"github.com/SeamusWaldron/cubeanim/internal/notation"
	"github.com/SeamusWaldron/cubeanim/internal/queue"
	"github.com/SeamusWaldron/cubeanim/internal/registry"
	"github.com/SeamusWaldron/cubeanim/internal/scene"
	"github.com/SeamusWaldron/cubeanim/internal/solver"
)

// Solved is the facelet string of the solved puzzle.
const Solved = facecube.Solved

// Puzzle is an animated 3x3x3 puzzle.
//
// Create one with New:
//
//	p, err := cubeanim.New(cubeanim.WithInstant())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close(ctx)
//
// Moves are queued and executed one at a time in the background. The
// puzzle tracks two states: the pending state after every queued move, which
// Solve works from, and the displayed state of the scene graph.
type Puzzle struct {
	graph   *scene.Graph
	sceneMu sync.Mutex
	pieces  []*model.Piece
	geo     model.Geometry
	engine  *engine.Engine
	config  *config
	log     zerolog.Logger

	mu          sync.RWMutex
	pending     facecube.Cube
	version     uint64
	solver      solver.Solver
	rng         *rand.Rand
	moveHistory []Move

	// Callbacks
	onMove   func(Move)
	onSolved func()
}

// Sticker is one facelet as currently displayed.
type Sticker struct {
	Home     string // Seat the sticker occupied when solved, e.g. U1
	Color    string // Display color as #rrggbb
	Position r3.Vec // World position of the sticker center
	Normal   r3.Vec // World direction the sticker faces
}

// New builds a solved puzzle.
func New(opts ...Option) (*Puzzle, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.scrambleLength < 0 {
		return nil, fmt.Errorf("%w: scramble length %d is negative", ErrInvalidOption, cfg.scrambleLength)
	}
	if !(cfg.pieceSize > 0) {
		return nil, fmt.Errorf("%w: piece size %v must be positive", ErrInvalidOption, cfg.pieceSize)
	}

	p := &Puzzle{
		graph:   scene.New(),
		geo:     model.Geometry{Size: cfg.pieceSize},
		config:  cfg,
		log:     cfg.logger.With().Str("component", "puzzle").Logger(),
		pending: facecube.New(),
		solver:  cfg.solver,
	}
	if cfg.seed != nil {
		p.rng = rand.New(rand.NewPCG(cfg.seed[0], cfg.seed[1]))
	} else {
		p.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	pieces, err := model.Build(p.graph, p.graph.Root(), p.geo)
	if err != nil {
		return nil, fmt.Errorf("building puzzle: %w", err)
	}
	p.pieces = pieces

	p.engine, err = engine.New(p.graph, pieces,
		engine.WithLogger(cfg.logger),
		engine.WithAnimator(cfg.animator),
		engine.WithPresets(cfg.presets),
		engine.WithAnimateTimeout(cfg.animateTimeout),
		engine.WithLocker(&p.sceneMu),
		engine.WithGeometry(p.geo),
		engine.WithOnComplete(p.handleComplete),
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Close waits for queued moves to finish and stops accepting new ones.
func (p *Puzzle) Close(ctx context.Context) error {
	return p.engine.Close(ctx)
}

// Event callbacks

// OnMove sets a callback that fires after each move is committed.
func (p *Puzzle) OnMove(cb func(Move)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onMove = cb
}

// OnSolved sets a callback that fires when a move leaves the displayed
// puzzle solved.
func (p *Puzzle) OnSolved(cb func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onSolved = cb
}

// SetSolver sets the solver used by Solve and Scramble.
func (p *Puzzle) SetSolver(s solver.Solver) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.solver = s
}

// Moves

// Move queues every valid token of s at normal tempo. Invalid tokens are
// skipped, logged and returned as diagnostics.
func (p *Puzzle) Move(s string) ([]Diagnostic, error) {
	return p.MoveTempo(s, TempoNormal)
}

// MoveTempo queues every valid token of s at tempo.
func (p *Puzzle) MoveTempo(s string, tempo Tempo) ([]Diagnostic, error) {
	var fatal error
	diags := notation.CompileTo(s, func(inst registry.Instance) error {
		if fatal != nil {
			return fatal
		}
		if err := p.submit(inst, tempo); err != nil {
			fatal = err
			return err
		}
		return nil
	})

	var skipped []Diagnostic
	for _, d := range diags {
		if fatal != nil && errors.Is(d.Err, fatal) {
			continue
		}
		p.log.Warn().Str("token", d.Token).Int("index", d.Index).Err(d.Err).Msg("skipping invalid move")
		skipped = append(skipped, d)
	}
	return skipped, fatal
}

func (p *Puzzle) submit(inst registry.Instance, tempo Tempo) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.submitLocked(inst, tempo)
}

// submitAll queues insts only if no move was queued since version.
func (p *Puzzle) submitAll(insts []registry.Instance, tempo Tempo, version uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.version != version {
		return ErrStateChanged
	}
	for _, inst := range insts {
		if err := p.submitLocked(inst, tempo); err != nil {
			return err
		}
	}
	return nil
}

// submitLocked requires p.mu.
func (p *Puzzle) submitLocked(inst registry.Instance, tempo Tempo) error {
	if err := p.engine.Submit(inst, tempo); err != nil {
		switch {
		case errors.Is(err, queue.ErrHalted):
			return fmt.Errorf("%w: %w", ErrHalted, p.engine.Err())
		case errors.Is(err, engine.ErrClosed):
			return ErrClosed
		}
		return err
	}
	p.pending = p.pending.Apply(inst)
	p.version++
	return nil
}

// ScrambleMoves queues every command twice in random order at scramble
// tempo and returns the sequence.
func (p *Puzzle) ScrambleMoves() (string, error) {
	codes := registry.Codes()
	codes = append(codes, codes...)

	p.mu.Lock()
	p.rng.Shuffle(len(codes), func(i, j int) { codes[i], codes[j] = codes[j], codes[i] })
	p.mu.Unlock()

	seq := strings.Join(codes, " ")
	if _, err := p.MoveTempo(seq, TempoScramble); err != nil {
		return "", err
	}
	return seq, nil
}

// Scramble picks a random state, asks the solver for a path to it from the
// pending state and queues that path at scramble tempo.
func (p *Puzzle) Scramble(ctx context.Context) (string, error) {
	return p.solveTo(ctx, p.randomTarget(), TempoScramble)
}

func (p *Puzzle) randomTarget() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	target, _ := facecube.Random(p.rng, p.config.scrambleLength)
	return target.String()
}

// Solve asks the solver for a path from the pending state to solved and
// queues it at normal tempo.
func (p *Puzzle) Solve(ctx context.Context) (string, error) {
	return p.solveTo(ctx, "", TempoNormal)
}

func (p *Puzzle) solveTo(ctx context.Context, target string, tempo Tempo) (string, error) {
	p.mu.RLock()
	s := p.solver
	source := p.pending.String()
	version := p.version
	p.mu.RUnlock()

	if s == nil {
		return "", ErrSolverNotReady
	}
	if source == target || (target == "" && source == Solved) {
		return "", nil
	}

	start := time.Now()
	solution, err := s.Solve(ctx, source, target)
	if err != nil {
		return "", fmt.Errorf("solving: %w", err)
	}
	p.log.Info().Str("solution", solution).Dur("elapsed", time.Since(start)).Msg("solver finished")

	// Nothing is queued unless the whole solution compiles.
	res := notation.Compile(solution)
	if len(res.Diagnostics) > 0 {
		return "", fmt.Errorf("%w: solver returned %q: %w", ErrInvalidNotation, solution, res.Diagnostics[0])
	}
	if err := p.submitAll(res.Instances, tempo, version); err != nil {
		return "", err
	}
	return solution, nil
}

// State access

// FaceletString returns the displayed state as of the last committed move.
func (p *Puzzle) FaceletString() string {
	return p.engine.FaceletString()
}

// PendingFaceletString returns the state after every queued move.
func (p *Puzzle) PendingFaceletString() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pending.String()
}

// IsSolved returns true if the displayed puzzle is solved.
func (p *Puzzle) IsSolved() bool {
	c, err := facecube.Parse(p.FaceletString())
	return err == nil && c.IsSolved()
}

// Net returns the displayed state as an unfolded text net.
func (p *Puzzle) Net() string {
	c, err := facecube.Parse(p.FaceletString())
	if err != nil {
		return ""
	}
	return c.Net()
}

// Stickers returns every sticker's current world placement, mid-turn
// included.
func (p *Puzzle) Stickers() ([]Sticker, error) {
	p.sceneMu.Lock()
	defer p.sceneMu.Unlock()

	out := make([]Sticker, 0, 54)
	for _, piece := range p.pieces {
		for _, f := range piece.Facelets {
			w, err := p.graph.World(f.Node)
			if err != nil {
				return nil, err
			}
			out = append(out, Sticker{
				Home:     string(f.Home),
				Color:    f.Color.Hex(),
				Position: w.Position,
				Normal:   r3.Sub(w.Apply(r3.Vec{Z: 1}), w.Position),
			})
		}
	}
	return out, nil
}

// Len returns the number of queued moves, the running one included.
func (p *Puzzle) Len() int {
	return p.engine.Len()
}

// Pending returns the queued moves in execution order.
func (p *Puzzle) Pending() []string {
	jobs := p.engine.Pending()
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Instance.Notation()
	}
	return out
}

// Wait blocks until every queued move has been committed or the queue has
// halted.
func (p *Puzzle) Wait(ctx context.Context) error {
	if err := p.engine.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		return fmt.Errorf("%w: %w", ErrHalted, err)
	}
	return nil
}

// Err returns the error that halted the queue, if any.
func (p *Puzzle) Err() error {
	return p.engine.Err()
}

// Moves returns the completed move history.
func (p *Puzzle) Moves() []Move {
	p.mu.RLock()
	defer p.mu.RUnlock()
	result := make([]Move, len(p.moveHistory))
	copy(result, p.moveHistory)
	return result
}

// Control

// Recover clears a halted queue, dropping the failed move and everything
// queued behind it. The pending state is reset to the displayed state.
func (p *Puzzle) Recover() ([]string, error) {
	if p.engine.Err() == nil {
		return nil, nil
	}
	dropped := p.engine.Reset()

	c, err := facecube.Parse(p.engine.FaceletString())
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.pending = c
	p.version++
	p.mu.Unlock()

	out := make([]string, len(dropped))
	for i, j := range dropped {
		out[i] = j.Instance.Notation()
	}
	p.log.Warn().Strs("dropped", out).Msg("queue recovered")
	return out, nil
}

// ClearHistory clears the move history.
func (p *Puzzle) ClearHistory() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.moveHistory = make([]Move, 0)
}

// Internal

func (p *Puzzle) handleComplete(job engine.Job, elapsed time.Duration) {
	inst := job.Instance
	facelets := p.engine.FaceletString()
	move := Move{
		Seq:         job.Seq,
		Notation:    inst.Notation(),
		Code:        inst.Code(),
		Repetitions: inst.Repetitions,
		Axis:        inst.Axis().String(),
		Angle:       inst.Angle(),
		Tempo:       job.Tempo,
		Facelets:    facelets,
		Duration:    elapsed,
		Time:        time.Now(),
	}

	p.mu.Lock()
	if p.config.moveHistory {
		p.moveHistory = append(p.moveHistory, move)
	}
	moveCallback := p.onMove
	solvedCallback := p.onSolved
	p.mu.Unlock()

	if p.config.journal != nil {
		if err := p.config.journal.Record(move); err != nil {
			p.log.Warn().Err(err).Str("move", move.Notation).Msg("journal write failed")
		}
	}

	// Fire callbacks outside the lock
	if moveCallback != nil {
		moveCallback(move)
	}
	if solvedCallback != nil && facelets == Solved {
		solvedCallback()
	}
}
