package facecube

import (
	"sync"

	"github.com/SeamusWaldron/cubeanim/internal/model"
	"github.com/SeamusWaldron/cubeanim/internal/registry"
)

// ivec is a lattice point with coordinates in {-1, 0, 1}.
type ivec struct{ x, y, z int }

// rotate turns v a quarter turn counter-clockwise about axis, looking down
// the axis towards the origin.
func (v ivec) rotate(axis registry.Axis) ivec {
	switch axis {
	case registry.X:
		return ivec{v.x, -v.z, v.y}
	case registry.Y:
		return ivec{v.z, v.y, -v.x}
	default:
		return ivec{-v.y, v.x, v.z}
	}
}

func normalOf(f model.Face) ivec {
	n := f.Normal()
	return ivec{int(n.X), int(n.Y), int(n.Z)}
}

func faceOf(n ivec) model.Face {
	for _, f := range model.Faces {
		if normalOf(f) == n {
			return f
		}
	}
	return model.U
}

var (
	permOnce sync.Once
	perms    map[string][54]int
)

// permutationFor returns the single-turn seat permutation of a command:
// the sticker on seat s moves to seat perm[s].
func permutationFor(code string) [54]int {
	permOnce.Do(buildPermutations)
	return perms[code]
}

// buildPermutations derives each command's permutation by running the
// registry's selectors on the solved lattice and rotating the selected
// stickers.
func buildPermutations() {
	geo := model.Geometry{Size: model.DefaultPieceSize}
	data := model.Pieces()

	placed := make([]registry.Placed, len(data))
	for i, d := range data {
		codes := make([]*model.Facelet, len(d.Codes))
		for j, c := range d.Codes {
			codes[j] = &model.Facelet{Home: c}
		}
		placed[i] = registry.Placed{
			Piece:    &model.Piece{Index: d.Index, Facelets: codes},
			Position: geo.PiecePosition(d.Index),
		}
	}

	perms = make(map[string][54]int)
	for _, code := range registry.Codes() {
		cmd := registry.MustLookup(code, 1)
		turns := 1
		if cmd.Direction() == registry.Negative {
			turns = 3
		}

		var perm [54]int
		for i := range perm {
			perm[i] = i
		}
		for _, piece := range cmd.Select(placed) {
			pos := ivec{piece.Index.X - 1, piece.Index.Y - 1, piece.Index.Z - 1}
			for _, f := range piece.Facelets {
				p, n := pos, normalOf(f.Home.Face())
				for t := 0; t < turns; t++ {
					p = p.rotate(cmd.Axis())
					n = n.rotate(cmd.Axis())
				}
				idx := model.Index{X: p.x + 1, Y: p.y + 1, Z: p.z + 1}
				perm[f.Home.Index()] = model.SeatCode(faceOf(n), idx).Index()
			}
		}
		perms[code] = perm
	}
}
