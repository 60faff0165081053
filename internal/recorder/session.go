package recorder

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubeanim"
	"github.com/SeamusWaldron/cubeanim/internal/storage"
	"github.com/SeamusWaldron/cubeanim/internal/tween"
)

// switchAnimator runs turns instantly while a session is being replayed
// and with the live animator afterwards.
type switchAnimator struct {
	live    tween.Animator
	instant atomic.Bool
}

func (a *switchAnimator) Run(ctx context.Context, d time.Duration, ease tween.Easing, step func(float64)) error {
	if a.instant.Load() || a.live == nil {
		return tween.Instant{}.Run(ctx, d, ease, step)
	}
	return a.live.Run(ctx, d, ease, step)
}

// Options configures Open.
type Options struct {
	// Kind is stored on a session created by Open.
	Kind string
	// Animator animates live moves; nil means instant.
	Animator tween.Animator
	// AppVersion is stored on a session created by Open.
	AppVersion string
	Logger     zerolog.Logger
	// Puzzle options applied after the session's own.
	Puzzle []cubeanim.Option
}

// Session is the active puzzle run: its stored moves replayed onto a live
// puzzle that journals every new move.
type Session struct {
	db        *storage.DB
	stateFile *StateFile
	sessions  *storage.SessionRepository
	moves     *storage.MoveRepository
	log       zerolog.Logger

	id        string
	resumed   int
	puzzle    *cubeanim.Puzzle
	anim      *switchAnimator
	replaying atomic.Bool
}

// Open resumes the active session, or starts a new one if there is none
// or the active one has ended. The returned puzzle shows the state after
// every stored move.
func Open(ctx context.Context, db *storage.DB, stateFile *StateFile, opts Options) (*Session, error) {
	s := &Session{
		db:        db,
		stateFile: stateFile,
		sessions:  storage.NewSessionRepository(db),
		moves:     storage.NewMoveRepository(db),
		log:       opts.Logger,
		anim:      &switchAnimator{live: opts.Animator},
	}

	if err := s.resolve(opts); err != nil {
		return nil, err
	}

	journal := storage.NewJournal(s.moves, s.id)

	puzzleOpts := []cubeanim.Option{
		cubeanim.WithLogger(opts.Logger),
		cubeanim.WithAnimator(s.anim),
		cubeanim.WithJournal(cubeanim.JournalFunc(func(m cubeanim.Move) error {
			if s.replaying.Load() {
				return nil
			}
			return journal.Record(m)
		})),
	}
	puzzle, err := cubeanim.New(append(puzzleOpts, opts.Puzzle...)...)
	if err != nil {
		return nil, err
	}
	s.puzzle = puzzle

	if err := s.replay(ctx); err != nil {
		s.puzzle.Close(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Session) resolve(opts Options) error {
	if active, ok := s.stateFile.Active(s.db.Path()); ok {
		id := active.SessionID
		existing, err := s.sessions.Get(id)
		if err != nil {
			return err
		}
		if existing != nil && existing.EndedAt == nil {
			s.id = id
			return nil
		}
		s.log.Debug().Str("session", id).Msg("active session missing or ended, starting a new one")
	}

	id, err := s.sessions.Create(cubeanim.Solved, opts.Kind, "", opts.AppVersion)
	if err != nil {
		return err
	}
	if err := s.stateFile.SetActive(s.db.Path(), id); err != nil {
		return err
	}
	s.id = id
	s.log.Info().Str("session", id).Msg("started session")
	return nil
}

func (s *Session) replay(ctx context.Context) error {
	records, err := s.moves.GetBySession(s.id)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	s.replaying.Store(true)
	s.anim.instant.Store(true)
	defer func() {
		s.anim.instant.Store(false)
		s.replaying.Store(false)
	}()

	tokens := make([]string, len(records))
	for i, r := range records {
		tokens[i] = r.Notation
	}
	diags, err := s.puzzle.Move(strings.Join(tokens, " "))
	if err != nil {
		return fmt.Errorf("replaying session %s: %w", s.id, err)
	}
	if len(diags) > 0 {
		return fmt.Errorf("replaying session %s: %w", s.id, diags[0])
	}
	if err := s.puzzle.Wait(ctx); err != nil {
		return fmt.Errorf("replaying session %s: %w", s.id, err)
	}
	s.puzzle.ClearHistory()

	want, err := s.moves.LastState(s.id)
	if err != nil {
		return err
	}
	if got := s.puzzle.FaceletString(); got != want {
		s.log.Warn().Str("session", s.id).Str("stored", want).Str("replayed", got).Msg("replayed state differs from journal")
	}
	s.resumed = len(records)
	s.log.Debug().Str("session", s.id).Int("moves", len(records)).Msg("session replayed")
	return nil
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// DBPath returns the path of the database the session is stored in.
func (s *Session) DBPath() string {
	return s.db.Path()
}

// Puzzle returns the live puzzle.
func (s *Session) Puzzle() *cubeanim.Puzzle {
	return s.puzzle
}

// Resumed returns how many stored moves were replayed by Open.
func (s *Session) Resumed() int {
	return s.resumed
}

// MoveCount returns the number of moves journaled so far.
func (s *Session) MoveCount() (int, error) {
	next, err := s.moves.NextIndex(s.id)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// Close waits for queued moves to finish.
func (s *Session) Close(ctx context.Context) error {
	return s.puzzle.Close(ctx)
}

// End waits for queued moves, marks the session ended and clears it from
// the state file. The next Open starts a new session.
func (s *Session) End(ctx context.Context) error {
	if err := s.Close(ctx); err != nil {
		return err
	}
	if err := s.sessions.End(s.id); err != nil {
		return err
	}
	return s.stateFile.ClearActive(s.db.Path())
}
