// Package registry defines the fixed set of layer-turn commands: which axis a
// command rotates about, in which direction, and which pieces it moves.
package registry

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/SeamusWaldron/cubeanim/internal/model"
)

var ErrUnknownCommand = errors.New("registry: unknown command")

// Tolerance is the distance from zero within which a piece counts as being
// in a middle slice.
const Tolerance = 1e-3

// LayerSize is the number of pieces every command must select.
const LayerSize = 9

// Axis is a world rotation axis.
type Axis int

const (
	X Axis = iota
	Y
	Z
)

func (a Axis) String() string {
	switch a {
	case X:
		return "x"
	case Y:
		return "y"
	case Z:
		return "z"
	}
	return "?"
}

// Vec returns the unit vector along the axis.
func (a Axis) Vec() r3.Vec {
	switch a {
	case X:
		return r3.Vec{X: 1}
	case Y:
		return r3.Vec{Y: 1}
	default:
		return r3.Vec{Z: 1}
	}
}

// Component returns v's coordinate along the axis.
func (a Axis) Component(v r3.Vec) float64 {
	switch a {
	case X:
		return v.X
	case Y:
		return v.Y
	default:
		return v.Z
	}
}

// Direction is the rotation sense about an axis.
type Direction int

const (
	Positive Direction = 1
	Negative Direction = -1
)

// Placed pairs a piece with its current world position.
type Placed struct {
	Piece    *model.Piece
	Position r3.Vec
}

// Selector picks the pieces a command moves. It must not modify its input.
type Selector func(pieces []Placed) []*model.Piece

// Command is an immutable layer-turn definition.
type Command struct {
	code      string
	axis      Axis
	direction Direction
	selector  Selector
}

func (c Command) Code() string         { return c.code }
func (c Command) Axis() Axis           { return c.axis }
func (c Command) Direction() Direction { return c.direction }

// Select returns the pieces this command moves.
func (c Command) Select(pieces []Placed) []*model.Piece {
	return c.selector(pieces)
}

// Instance is a command with a repetition count.
type Instance struct {
	Command
	Repetitions int
}

// Notation renders the instance as a notation token, e.g. R, R', R2, R'2.
func (i Instance) Notation() string {
	if i.Repetitions == 1 {
		return i.code
	}
	return i.code + strconv.Itoa(i.Repetitions)
}

func (i Instance) String() string {
	return i.Notation()
}

// Angle returns the total rotation in radians about the command's axis.
func (i Instance) Angle() float64 {
	return float64(i.direction) * math.Pi / 2 * float64(i.Repetitions)
}

// Inverse returns the instance that undoes i.
func (i Instance) Inverse() Instance {
	code := i.code
	if n := len(code); n > 1 && code[n-1] == '\'' {
		code = code[:n-1]
	} else {
		code += "'"
	}
	return Instance{Command: commands[code], Repetitions: i.Repetitions}
}

var (
	baseCodes = []string{"U", "R", "F", "D", "L", "B", "M", "E", "S"}
	allCodes  []string
	commands  map[string]Command
)

func init() {
	base := []Command{
		{code: "L", axis: X, direction: Positive, selector: extreme(X, false)},
		{code: "R", axis: X, direction: Negative, selector: extreme(X, true)},
		{code: "U", axis: Y, direction: Negative, selector: extreme(Y, true)},
		{code: "D", axis: Y, direction: Positive, selector: extreme(Y, false)},
		{code: "F", axis: Z, direction: Negative, selector: extreme(Z, true)},
		{code: "B", axis: Z, direction: Positive, selector: extreme(Z, false)},
		{code: "M", axis: X, direction: Positive, selector: middle(X)},
		{code: "E", axis: Y, direction: Positive, selector: middle(Y)},
		{code: "S", axis: Z, direction: Negative, selector: middle(Z)},
	}

	commands = make(map[string]Command, len(base)*2)
	for _, c := range base {
		commands[c.code] = c
		inv := c
		inv.code = c.code + "'"
		inv.direction = -c.direction
		commands[inv.code] = inv
	}
	for _, code := range baseCodes {
		allCodes = append(allCodes, code, code+"'")
	}
}

// Lookup returns an instance of the command named code.
func Lookup(code string, reps int) (Instance, error) {
	c, ok := commands[code]
	if !ok {
		return Instance{}, fmt.Errorf("%w: %q", ErrUnknownCommand, code)
	}
	return Instance{Command: c, Repetitions: reps}, nil
}

// MustLookup is Lookup for codes known at compile time.
func MustLookup(code string, reps int) Instance {
	inst, err := Lookup(code, reps)
	if err != nil {
		panic(err)
	}
	return inst
}

// Codes lists all 18 command codes, each clockwise code followed by its
// counter-clockwise variant.
func Codes() []string {
	return append([]string(nil), allCodes...)
}

// Base lists the nine clockwise command codes.
func Base() []string {
	return append([]string(nil), baseCodes...)
}

// extreme selects the LayerSize pieces with the largest (or smallest)
// coordinate along axis.
func extreme(axis Axis, largest bool) Selector {
	return func(pieces []Placed) []*model.Piece {
		sorted := make([]Placed, len(pieces))
		copy(sorted, pieces)
		sort.SliceStable(sorted, func(i, j int) bool {
			a, b := axis.Component(sorted[i].Position), axis.Component(sorted[j].Position)
			if largest {
				return a > b
			}
			return a < b
		})
		n := LayerSize
		if len(sorted) < n {
			n = len(sorted)
		}
		out := make([]*model.Piece, n)
		for i := range out {
			out[i] = sorted[i].Piece
		}
		return out
	}
}

// middle selects the pieces centered on axis.
func middle(axis Axis) Selector {
	return func(pieces []Placed) []*model.Piece {
		var out []*model.Piece
		for _, p := range pieces {
			if math.Abs(axis.Component(p.Position)) < Tolerance {
				out = append(out, p.Piece)
			}
		}
		return out
	}
}
