package registry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeamusWaldron/cubeanim/internal/model"
)

func solvedPlacement() []Placed {
	geo := model.Geometry{Size: model.DefaultPieceSize}
	var out []Placed
	for _, d := range model.Pieces() {
		p := &model.Piece{Index: d.Index}
		out = append(out, Placed{Piece: p, Position: geo.PiecePosition(d.Index)})
	}
	return out
}

func TestLookup(t *testing.T) {
	inst, err := Lookup("R'", 2)
	require.NoError(t, err)
	assert.Equal(t, "R'", inst.Code())
	assert.Equal(t, X, inst.Axis())
	assert.Equal(t, Positive, inst.Direction())
	assert.Equal(t, 2, inst.Repetitions)
	assert.Equal(t, "R'2", inst.Notation())

	_, err = Lookup("Q", 1)
	assert.ErrorIs(t, err, ErrUnknownCommand)
	_, err = Lookup("r", 1)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestCodes(t *testing.T) {
	codes := Codes()
	assert.Len(t, codes, 18)
	assert.Equal(t, []string{"U", "U'"}, codes[:2])
	assert.Len(t, Base(), 9)

	codes[0] = "X"
	assert.Equal(t, "U", Codes()[0])
}

func TestCounterClockwiseInvertsSign(t *testing.T) {
	for _, code := range Base() {
		cw := MustLookup(code, 1)
		ccw := MustLookup(code+"'", 1)
		assert.Equal(t, cw.Axis(), ccw.Axis(), code)
		assert.Equal(t, -cw.Direction(), ccw.Direction(), code)
		assert.InDelta(t, -cw.Angle(), ccw.Angle(), 1e-12, code)
	}
}

func TestInverse(t *testing.T) {
	inst := MustLookup("F", 3)
	inv := inst.Inverse()
	assert.Equal(t, "F'", inv.Code())
	assert.Equal(t, 3, inv.Repetitions)
	assert.Equal(t, "F", inv.Inverse().Code())
}

func TestAngle(t *testing.T) {
	assert.InDelta(t, -math.Pi/2, MustLookup("U", 1).Angle(), 1e-12)
	assert.InDelta(t, math.Pi, MustLookup("L", 2).Angle(), 1e-12)
	assert.InDelta(t, 3*math.Pi/2, MustLookup("S'", 3).Angle(), 1e-12)
}

func TestSelectorsPickTheirLayer(t *testing.T) {
	placed := solvedPlacement()
	want := map[string]func(model.Index) bool{
		"L": func(i model.Index) bool { return i.X == 0 },
		"R": func(i model.Index) bool { return i.X == 2 },
		"D": func(i model.Index) bool { return i.Y == 0 },
		"U": func(i model.Index) bool { return i.Y == 2 },
		"B": func(i model.Index) bool { return i.Z == 0 },
		"F": func(i model.Index) bool { return i.Z == 2 },
		"M": func(i model.Index) bool { return i.X == 1 },
		"E": func(i model.Index) bool { return i.Y == 1 },
		"S": func(i model.Index) bool { return i.Z == 1 },
	}
	for code, in := range want {
		for _, c := range []string{code, code + "'"} {
			got := MustLookup(c, 1).Select(placed)
			require.Len(t, got, LayerSize, c)
			for _, p := range got {
				assert.True(t, in(p.Index), "%s selected %+v", c, p.Index)
			}
		}
	}
}

func TestSelectorDoesNotReorderInput(t *testing.T) {
	placed := solvedPlacement()
	before := make([]Placed, len(placed))
	copy(before, placed)

	MustLookup("R", 1).Select(placed)
	MustLookup("D'", 1).Select(placed)

	assert.Equal(t, before, placed)
}

func TestMiddleSelectorToleratesDrift(t *testing.T) {
	placed := solvedPlacement()
	for i := range placed {
		placed[i].Position.Y += 1e-6
	}
	assert.Len(t, MustLookup("E", 1).Select(placed), LayerSize)
}
