package facecube

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/SeamusWaldron/cubeanim/internal/notation"
	"github.com/SeamusWaldron/cubeanim/internal/registry"
)

func apply(c Cube, seq string) Cube {
	return c.ApplyAll(notation.Compile(seq).Instances)
}

func TestNewCubeIsSolved(t *testing.T) {
	c := New()
	if !c.IsSolved() {
		t.Error("New cube should be solved")
	}
	if c.String() != Solved {
		t.Errorf("expected %s, got %s", Solved, c)
	}
}

func TestSingleMoveStrings(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"U", "UUUUUUUUUBBBRRRRRRRRRFFFFFFDDDDDDDDDFFFLLLLLLLLLBBBBBB"},
		{"R", "UUFUUFUUFRRRRRRRRRFFDFFDFFDDDBDDBDDBLLLLLLLLLUBBUBBUBB"},
		{"F", "UUUUUULLLURRURRURRFFFFFFFFFRRRDDDDDDLLDLLDLLDBBBBBBBBB"},
	}
	for _, tt := range tests {
		got := apply(New(), tt.seq).String()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tt.seq, diff)
		}
	}
}

func TestFourTurnsReturnToSolved_AllCommands(t *testing.T) {
	for _, code := range registry.Codes() {
		c := New()
		for i := 0; i < 4; i++ {
			c = c.Apply(registry.MustLookup(code, 1))
		}
		if c.String() != Solved {
			t.Errorf("%s x 4 should return to solved", code)
			t.Log(c.Net())
		}
	}
}

func TestMoveThenInverseIsIdentity(t *testing.T) {
	for _, code := range registry.Codes() {
		inst := registry.MustLookup(code, 1)
		c := New().Apply(inst).Apply(inst.Inverse())
		if c.String() != Solved {
			t.Errorf("%s then inverse should return to solved", code)
		}
	}
}

func TestRepetitionsMatchRepeatedTurns(t *testing.T) {
	a := apply(New(), "R2 U3 M'2")
	b := apply(New(), "R R U U U M' M'")
	if a != b {
		t.Errorf("expected R2 U3 M'2 == R R U U U M' M'\n%s\n%s", a, b)
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	c := New()
	for i := 0; i < 6; i++ {
		c = apply(c, "R U R' U'")
	}
	if !c.IsSolved() {
		t.Error("Sexy move x 6 should return to solved")
		t.Log(c.Net())
	}
}

func TestSliceMovesRelocateCenters(t *testing.T) {
	c := apply(New(), "M")
	if c.IsSolved() {
		t.Error("M should break the solved state")
	}
	// M follows L: the front center moves down.
	if got := c.At("D5"); got != 'F' {
		t.Errorf("expected F center on D5 after M, got %c", got)
	}
	if _, err := Parse(c.String()); err != nil {
		t.Errorf("state after M should parse: %v", err)
	}
}

func TestScrambleAndReverse(t *testing.T) {
	seq := notation.Compile("R U R' U' F D L2 M E' S2").Instances
	c := New().ApplyAll(seq)
	if c.IsSolved() {
		t.Error("Cube should be scrambled after moves")
	}
	c = c.ApplyAll(notation.Invert(seq))
	if !c.IsSolved() {
		t.Error("Cube should be solved after reversing scramble")
		t.Log(c.Net())
	}
}

func TestParse(t *testing.T) {
	want := apply(New(), "R U F")
	got, err := Parse(want.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch")
	}

	bad := []string{
		"",
		Solved[:53],
		"X" + Solved[1:],
		"R" + Solved[1:],
	}
	for _, s := range bad {
		if _, err := Parse(s); !errors.Is(err, ErrInvalidFacelets) {
			t.Errorf("Parse(%q): expected ErrInvalidFacelets, got %v", s, err)
		}
	}
}

func TestRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	c, moves := Random(rng, 25)
	if len(moves) != 25 {
		t.Fatalf("expected 25 moves, got %d", len(moves))
	}
	for i := 1; i < len(moves); i++ {
		if moves[i].Code()[0] == moves[i-1].Code()[0] {
			t.Errorf("consecutive turns on the same face at %d", i)
		}
	}
	if c != New().ApplyAll(moves) {
		t.Error("returned state should match returned moves")
	}
}

func TestRandomNegativeLength(t *testing.T) {
	c, moves := Random(rand.New(rand.NewPCG(1, 1)), -3)
	if !c.IsSolved() || len(moves) != 0 {
		t.Errorf("expected solved cube and no moves, got %s and %d moves", c, len(moves))
	}
}

func TestNetLayout(t *testing.T) {
	net := New().Net()
	want := "      W W W \n" +
		"      W W W \n" +
		"      W W W \n" +
		"O O O G G G R R R B B B \n" +
		"O O O G G G R R R B B B \n" +
		"O O O G G G R R R B B B \n" +
		"      Y Y Y \n" +
		"      Y Y Y \n" +
		"      Y Y Y \n"
	if diff := cmp.Diff(want, net); diff != "" {
		t.Errorf("net mismatch (-want +got):\n%s", diff)
	}
}
