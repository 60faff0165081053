package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/SeamusWaldron/cubeanim/internal/scene"
)

func TestPieceTableCoversEverySeatOnce(t *testing.T) {
	seen := make(map[Code]bool)
	withStickers := 0
	for _, p := range Pieces() {
		if len(p.Codes) > 0 {
			withStickers++
		}
		for _, c := range p.Codes {
			assert.False(t, seen[c], "duplicate code %s", c)
			seen[c] = true
		}
	}
	assert.Len(t, seen, 54)
	assert.Equal(t, 26, withStickers)
	assert.Len(t, Pieces(), 27)
}

func TestCoreHasNoStickers(t *testing.T) {
	for _, p := range Pieces() {
		if p.Index == (Index{1, 1, 1}) {
			assert.Empty(t, p.Codes)
		}
	}
}

func TestSeatCodeMatchesTable(t *testing.T) {
	for _, p := range Pieces() {
		for _, c := range p.Codes {
			assert.Equal(t, c, SeatCode(c.Face(), p.Index), "piece %+v", p.Index)
		}
	}
}

func TestAllCodesOrder(t *testing.T) {
	codes := AllCodes()
	require.Len(t, codes, 54)
	assert.Equal(t, Code("U1"), codes[0])
	assert.Equal(t, Code("R1"), codes[9])
	assert.Equal(t, Code("B9"), codes[53])
	for i, c := range codes {
		assert.Equal(t, i, c.Index())
	}
}

func TestParseCode(t *testing.T) {
	c, err := ParseCode("F5")
	require.NoError(t, err)
	assert.Equal(t, F, c.Face())
	assert.Equal(t, 5, c.Slot())

	for _, bad := range []string{"", "F", "X1", "F0", "F10"} {
		_, err := ParseCode(bad)
		assert.ErrorIs(t, err, ErrInvalidCode, bad)
	}
}

func TestColorOfFollowsHomeFace(t *testing.T) {
	assert.Equal(t, White, ColorOf(U))
	assert.Equal(t, Red, ColorOf(R))
	assert.Equal(t, Green, ColorOf(F))
	assert.Equal(t, Yellow, ColorOf(D))
	assert.Equal(t, Orange, ColorOf(L))
	assert.Equal(t, Blue, ColorOf(B))
}

func TestBuildPlacesStickersOnTheirSeats(t *testing.T) {
	g := scene.New()
	geo := Geometry{Size: DefaultPieceSize}
	pieces, err := Build(g, g.Root(), geo)
	require.NoError(t, err)
	require.Len(t, pieces, 27)

	// root + 27 pieces + 54 stickers
	assert.Equal(t, 1+27+54, g.Len())

	for _, p := range pieces {
		for _, f := range p.Facelets {
			w, err := g.World(f.Node)
			require.NoError(t, err)
			seat, err := geo.Locate(w.Position)
			require.NoError(t, err)
			assert.Equal(t, f.Home, seat)
			assert.Equal(t, ColorOf(f.Home.Face()), f.Color)
		}
	}
}

func TestStickerNormalFacesOutward(t *testing.T) {
	g := scene.New()
	pieces, err := Build(g, g.Root(), Geometry{Size: DefaultPieceSize})
	require.NoError(t, err)

	for _, p := range pieces {
		for _, f := range p.Facelets {
			w, _ := g.World(f.Node)
			// Local +Z of the sticker plane, rotated into world space.
			n := r3.Sub(w.Apply(r3.Vec{Z: 1}), w.Position)
			want := f.Home.Face().Normal()
			assert.InDelta(t, want.X, n.X, 1e-9, f.Home)
			assert.InDelta(t, want.Y, n.Y, 1e-9, f.Home)
			assert.InDelta(t, want.Z, n.Z, 1e-9, f.Home)
		}
	}
}

func TestLocateRejectsOffLattice(t *testing.T) {
	geo := Geometry{Size: DefaultPieceSize}
	_, err := geo.Locate(geo.PiecePosition(Index{1, 1, 1}))
	assert.ErrorIs(t, err, ErrOffLattice)
}
