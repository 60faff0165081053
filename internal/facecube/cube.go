// Package facecube tracks puzzle state symbolically as a 54-character
// facelet string, the format the two-phase solver reads.
package facecube

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/SeamusWaldron/cubeanim/internal/model"
	"github.com/SeamusWaldron/cubeanim/internal/registry"
)

var ErrInvalidFacelets = errors.New("facecube: invalid facelet string")

// Solved is the facelet string of the solved puzzle.
const Solved = "UUUUUUUUURRRRRRRRRFFFFFFFFFDDDDDDDDDLLLLLLLLLBBBBBBBBB"

// Cube is a facelet-level puzzle state. Position i holds the face letter
// whose color currently occupies seat model.CodeAt(i).
// Each face's seats are numbered:
//
//	1 2 3
//	4 5 6
//	7 8 9
//
// The center (5) defines the face color and never moves under face turns.
type Cube [54]byte

// New creates a solved cube.
func New() Cube {
	var c Cube
	copy(c[:], Solved)
	return c
}

// Parse validates s and returns the state it describes. Each face letter
// must appear nine times; slice moves may relocate centers.
func Parse(s string) (Cube, error) {
	var c Cube
	if len(s) != len(c) {
		return c, fmt.Errorf("%w: length %d", ErrInvalidFacelets, len(s))
	}
	counts := make(map[byte]int, 6)
	for i := 0; i < len(s); i++ {
		if _, ok := model.FaceFromLetter(s[i]); !ok {
			return c, fmt.Errorf("%w: %q at %d", ErrInvalidFacelets, s[i], i)
		}
		counts[s[i]]++
		c[i] = s[i]
	}
	for _, f := range model.Faces {
		if n := counts[f.Letter()]; n != 9 {
			return c, fmt.Errorf("%w: %d %s facelets", ErrInvalidFacelets, n, f)
		}
	}
	return c, nil
}

// String returns the 54-character facelet string.
func (c Cube) String() string {
	return string(c[:])
}

// IsSolved returns true if every face shows a single color.
func (c Cube) IsSolved() bool {
	for f := 0; f < 6; f++ {
		for i := 1; i < 9; i++ {
			if c[f*9+i] != c[f*9] {
				return false
			}
		}
	}
	return true
}

// At returns the face letter showing at seat code.
func (c Cube) At(code model.Code) byte {
	return c[code.Index()]
}

// Color returns the color showing at seat code.
func (c Cube) Color(code model.Code) model.Color {
	f, _ := model.FaceFromLetter(c.At(code))
	return model.ColorOf(f)
}

// Apply performs one command instance.
func (c Cube) Apply(inst registry.Instance) Cube {
	perm := permutationFor(inst.Code())
	reps := ((inst.Repetitions % 4) + 4) % 4
	for r := 0; r < reps; r++ {
		var next Cube
		for s, d := range perm {
			next[d] = c[s]
		}
		c = next
	}
	return c
}

// ApplyAll performs instances in order.
func (c Cube) ApplyAll(instances []registry.Instance) Cube {
	for _, inst := range instances {
		c = c.Apply(inst)
	}
	return c
}

// Random returns the state reached by n random face turns from solved,
// together with the turns. n < 0 is treated as 0.
func Random(rng *rand.Rand, n int) (Cube, []registry.Instance) {
	n = max(n, 0)
	faces := []string{"U", "R", "F", "D", "L", "B"}
	c := New()
	moves := make([]registry.Instance, 0, n)
	last := ""
	for len(moves) < n {
		code := faces[rng.IntN(len(faces))]
		if code == last {
			continue
		}
		last = code
		if rng.IntN(2) == 1 {
			code += "'"
		}
		inst := registry.MustLookup(code, 1+rng.IntN(2))
		c = c.Apply(inst)
		moves = append(moves, inst)
	}
	return c, moves
}

// Net returns a text representation laid out as an unfolded cube.
func (c Cube) Net() string {
	var sb strings.Builder
	row := func(f model.Face, r int) {
		for col := 0; col < 3; col++ {
			sb.WriteString(c.Color(model.CodeAt(int(f)*9+r*3+col)).String())
			sb.WriteByte(' ')
		}
	}

	for r := 0; r < 3; r++ {
		sb.WriteString("      ")
		row(model.U, r)
		sb.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		for _, f := range []model.Face{model.L, model.F, model.R, model.B} {
			row(f, r)
		}
		sb.WriteByte('\n')
	}
	for r := 0; r < 3; r++ {
		sb.WriteString("      ")
		row(model.D, r)
		sb.WriteByte('\n')
	}
	return sb.String()
}
