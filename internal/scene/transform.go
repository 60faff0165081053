// Package scene provides a minimal retained-mode scene graph: a tree of nodes,
// each with a local transform, whose world transform is the composition of
// every ancestor's local transform.
package scene

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Transform is a rigid transform: a rotation followed by a translation.
type Transform struct {
	Position r3.Vec
	Rotation r3.Rotation
}

var identityRotation = r3.Rotation(quat.Number{Real: 1})

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: identityRotation}
}

// Translation returns a transform that only moves by p.
func Translation(p r3.Vec) Transform {
	return Transform{Position: p, Rotation: identityRotation}
}

// Rotation returns a transform that rotates by angle radians about axis,
// counter-clockwise when looking down the axis towards the origin.
func Rotation(angle float64, axis r3.Vec) Transform {
	if angle == 0 {
		return Identity()
	}
	return Transform{Rotation: r3.NewRotation(angle, axis)}
}

// rotation treats the zero quaternion as identity so the zero Transform is usable.
func (t Transform) rotation() quat.Number {
	q := quat.Number(t.Rotation)
	if q == (quat.Number{}) {
		return quat.Number{Real: 1}
	}
	return q
}

// Mul composes t with child, returning the transform that applies child
// first and then t. For a node, world = parentWorld.Mul(local).
func (t Transform) Mul(child Transform) Transform {
	q := t.rotation()
	rot := quat.Mul(q, child.rotation())
	return Transform{
		Position: r3.Add(t.Position, r3.Rotation(q).Rotate(child.Position)),
		Rotation: r3.Rotation(normalize(rot)),
	}
}

// Inverse returns the transform that undoes t.
func (t Transform) Inverse() Transform {
	inv := quat.Conj(t.rotation())
	return Transform{
		Position: r3.Scale(-1, r3.Rotation(inv).Rotate(t.Position)),
		Rotation: r3.Rotation(inv),
	}
}

// Apply maps a point from t's local space into its parent space.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(t.Position, r3.Rotation(t.rotation()).Rotate(p))
}

// ApproxEqual reports whether two transforms place geometry at the same
// position and orientation within tol. q and -q are the same orientation.
func (t Transform) ApproxEqual(o Transform, tol float64) bool {
	if r3.Norm(r3.Sub(t.Position, o.Position)) > tol {
		return false
	}
	a, b := t.rotation(), o.rotation()
	dot := a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
	return math.Abs(math.Abs(dot)-1) <= tol
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}
