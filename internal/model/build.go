package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/SeamusWaldron/cubeanim/internal/scene"
)

// DefaultPieceSize is the edge length of one cubie in world units.
const DefaultPieceSize = 1.0 / 3.0

// faceletLift keeps stickers just outside their cubie's faces.
const faceletLift = 0.00001

var ErrOffLattice = errors.New("model: position is not on a facelet seat")

// Piece is one cubie with its transform node and stickers.
type Piece struct {
	Index    Index
	Node     scene.NodeID
	Facelets []*Facelet
}

// Facelet is one sticker. Home is the seat it occupied when built, which
// fixes its color; the seat it occupies now is derived from its transform.
type Facelet struct {
	Home  Code
	Color Color
	Node  scene.NodeID
}

// Builder is the part of a scene graph needed to construct the puzzle.
type Builder interface {
	NewNode(name string, parent scene.NodeID) (scene.NodeID, error)
	SetLocal(id scene.NodeID, t scene.Transform) error
}

// Geometry converts between grid indices and world coordinates.
type Geometry struct {
	Size float64
}

// offset centers the 3x3x3 grid on the origin.
func (g Geometry) offset() float64 {
	return (3*g.Size)/2 - g.Size/2
}

// PiecePosition returns the world position of a cubie at idx in the solved state.
func (g Geometry) PiecePosition(idx Index) r3.Vec {
	o := g.offset()
	return r3.Vec{
		X: float64(idx.X)*g.Size - o,
		Y: float64(idx.Y)*g.Size - o,
		Z: float64(idx.Z)*g.Size - o,
	}
}

// faceletTransform places a sticker flush on face f of a cubie at center.
// Stickers are modelled as planes facing +Z before rotation.
func (g Geometry) faceletTransform(f Face, center r3.Vec) scene.Transform {
	var t scene.Transform
	switch f {
	case U:
		t = scene.Rotation(-math.Pi/2, r3.Vec{X: 1})
	case D:
		t = scene.Rotation(math.Pi/2, r3.Vec{X: 1})
	case R:
		t = scene.Rotation(math.Pi/2, r3.Vec{Y: 1})
	case L:
		t = scene.Rotation(-math.Pi/2, r3.Vec{Y: 1})
	case B:
		t = scene.Rotation(math.Pi, r3.Vec{Y: 1})
	default:
		t = scene.Identity()
	}
	t.Position = r3.Add(center, r3.Scale(g.Size/2+faceletLift, f.Normal()))
	return t
}

// Build creates one node per cubie and one per sticker, all directly under
// root, and returns the 27 pieces in table order.
func Build(b Builder, root scene.NodeID, geo Geometry) ([]*Piece, error) {
	pieces := make([]*Piece, 0, len(pieceTable))
	for _, data := range pieceTable {
		center := geo.PiecePosition(data.Index)

		node, err := b.NewNode(fmt.Sprintf("piece:%d%d%d", data.Index.X, data.Index.Y, data.Index.Z), root)
		if err != nil {
			return nil, fmt.Errorf("failed to create piece node: %w", err)
		}
		if err := b.SetLocal(node, scene.Translation(center)); err != nil {
			return nil, err
		}

		piece := &Piece{Index: data.Index, Node: node}
		for _, code := range data.Codes {
			fn, err := b.NewNode("facelet:"+string(code), root)
			if err != nil {
				return nil, fmt.Errorf("failed to create facelet node: %w", err)
			}
			if err := b.SetLocal(fn, geo.faceletTransform(code.Face(), center)); err != nil {
				return nil, err
			}
			piece.Facelets = append(piece.Facelets, &Facelet{
				Home:  code,
				Color: ColorOf(code.Face()),
				Node:  fn,
			})
		}
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

// Locate returns the seat a sticker occupies given its world position.
// The dominant axis gives the face; the other two axes give the grid slot.
func (g Geometry) Locate(p r3.Vec) (Code, error) {
	ax, ay, az := math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)

	var f Face
	switch {
	case ax > ay && ax > az:
		f = L
		if p.X > 0 {
			f = R
		}
	case ay > ax && ay > az:
		f = D
		if p.Y > 0 {
			f = U
		}
	case az > ax && az > ay:
		f = B
		if p.Z > 0 {
			f = F
		}
	default:
		return "", fmt.Errorf("%w: %v", ErrOffLattice, p)
	}

	// Pull the sticker back onto its cubie's center before snapping.
	center := r3.Sub(p, r3.Scale(g.Size/2+faceletLift, f.Normal()))
	idx, err := g.snap(center)
	if err != nil {
		return "", err
	}
	return SeatCode(f, idx), nil
}

func (g Geometry) snap(p r3.Vec) (Index, error) {
	o := g.offset()
	var out [3]int
	for i, c := range [3]float64{p.X, p.Y, p.Z} {
		v := (c + o) / g.Size
		n := math.Round(v)
		if math.Abs(v-n) > 0.05 || n < 0 || n > 2 {
			return Index{}, fmt.Errorf("%w: %v", ErrOffLattice, p)
		}
		out[i] = int(n)
	}
	return Index{X: out[0], Y: out[1], Z: out[2]}, nil
}
