package cubeanim

import (
	"fmt"
	"time"

	"github.com/SeamusWaldron/cubeanim/internal/notation"
	"github.com/SeamusWaldron/cubeanim/internal/tween"
)

// Tempo selects how fast moves are animated.
type Tempo = tween.Tempo

const (
	TempoNormal   = tween.Normal
	TempoScramble = tween.Scramble
)

// Diagnostic reports a notation token that was skipped.
type Diagnostic = notation.Diagnostic

// Move is a completed layer turn.
type Move struct {
	Seq         uint64        // Position in submission order, starting at 1
	Notation    string        // e.g. R, R', R2
	Code        string        // Command code without repetitions, e.g. R'
	Repetitions int           // Quarter turns
	Axis        string        // x, y or z
	Angle       float64       // Radians about Axis
	Tempo       Tempo         // Tempo the move was animated at
	Facelets    string        // Displayed state after the move
	Duration    time.Duration // Time spent executing
	Time        time.Time     // When the move completed
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation
}

// Journal receives every completed move, in order, from the engine
// goroutine.
type Journal interface {
	Record(m Move) error
}

// JournalFunc adapts a function to Journal.
type JournalFunc func(m Move) error

func (f JournalFunc) Record(m Move) error {
	return f(m)
}

// ParseMoves normalizes a notation string. Invalid tokens are skipped and
// reported.
// Example: "R U R' U'"
func ParseMoves(s string) (string, []Diagnostic) {
	res := notation.Compile(s)
	return notation.Format(res.Instances), res.Diagnostics
}

// InvertMoves returns the notation that undoes s.
func InvertMoves(s string) (string, error) {
	res := notation.Compile(s)
	if len(res.Diagnostics) > 0 {
		return "", fmt.Errorf("%w: %v", ErrInvalidNotation, res.Diagnostics[0])
	}
	return notation.Format(notation.Invert(res.Instances)), nil
}
