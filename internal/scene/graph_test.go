package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const tol = 1e-9

func vecNear(t *testing.T, want, got r3.Vec) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, "x")
	assert.InDelta(t, want.Y, got.Y, tol, "y")
	assert.InDelta(t, want.Z, got.Z, tol, "z")
}

func TestTransformMulInverse(t *testing.T) {
	a := Rotation(math.Pi/2, r3.Vec{Y: 1})
	a.Position = r3.Vec{X: 1, Y: 2, Z: 3}

	id := a.Mul(a.Inverse())
	assert.True(t, id.ApproxEqual(Identity(), tol))

	vecNear(t, r3.Vec{X: 1, Y: 2, Z: 2}, a.Apply(r3.Vec{X: 1}))
}

func TestRotationIsRightHanded(t *testing.T) {
	// +90 about Y takes +X to -Z.
	r := Rotation(math.Pi/2, r3.Vec{Y: 1})
	vecNear(t, r3.Vec{Z: -1}, r.Apply(r3.Vec{X: 1}))

	// +90 about X takes +Y to +Z.
	r = Rotation(math.Pi/2, r3.Vec{X: 1})
	vecNear(t, r3.Vec{Z: 1}, r.Apply(r3.Vec{Y: 1}))
}

func TestZeroTransformIsIdentity(t *testing.T) {
	var z Transform
	vecNear(t, r3.Vec{X: 4}, z.Apply(r3.Vec{X: 4}))
	assert.True(t, z.Mul(Identity()).ApproxEqual(Identity(), tol))
}

func TestWorldComposesAncestors(t *testing.T) {
	g := New()
	group, err := g.NewNode("group", g.Root())
	require.NoError(t, err)
	child, err := g.NewNode("child", group)
	require.NoError(t, err)

	require.NoError(t, g.SetLocal(child, Translation(r3.Vec{X: 1})))
	require.NoError(t, g.SetLocal(group, Rotation(math.Pi/2, r3.Vec{Z: 1})))

	w, err := g.World(child)
	require.NoError(t, err)
	vecNear(t, r3.Vec{Y: 1}, w.Position)
}

func TestSetParentKeepsLocal(t *testing.T) {
	g := New()
	group, _ := g.NewNode("group", g.Root())
	require.NoError(t, g.SetLocal(group, Translation(r3.Vec{X: 5})))
	leaf, _ := g.NewNode("leaf", g.Root())
	require.NoError(t, g.SetLocal(leaf, Translation(r3.Vec{Y: 1})))

	require.NoError(t, g.SetParent(leaf, group))

	w, _ := g.World(leaf)
	vecNear(t, r3.Vec{X: 5, Y: 1}, w.Position)
}

func TestAttachKeepsWorld(t *testing.T) {
	g := New()
	group, _ := g.NewNode("group", g.Root())
	gt := Rotation(math.Pi/3, r3.Vec{X: 1})
	gt.Position = r3.Vec{X: 2}
	require.NoError(t, g.SetLocal(group, gt))

	leaf, _ := g.NewNode("leaf", g.Root())
	lt := Rotation(math.Pi/2, r3.Vec{Y: 1})
	lt.Position = r3.Vec{Z: 1}
	require.NoError(t, g.SetLocal(leaf, lt))

	before, _ := g.World(leaf)
	require.NoError(t, g.Attach(leaf, group))
	after, _ := g.World(leaf)

	assert.True(t, before.ApproxEqual(after, 1e-9))
	parent, _ := g.Parent(leaf)
	assert.Equal(t, group, parent)
}

func TestRemove(t *testing.T) {
	g := New()
	group, _ := g.NewNode("group", g.Root())
	leaf, _ := g.NewNode("leaf", group)

	err := g.Remove(group)
	assert.True(t, errors.Is(err, ErrHasChildren))

	require.NoError(t, g.SetParent(leaf, g.Root()))
	require.NoError(t, g.Remove(group))

	_, err = g.World(group)
	assert.ErrorIs(t, err, ErrNodeNotFound)

	children, _ := g.Children(g.Root())
	assert.Equal(t, []NodeID{leaf}, children)
	assert.ErrorIs(t, g.Remove(g.Root()), ErrRootNode)
}

func TestSetParentRejectsCycle(t *testing.T) {
	g := New()
	a, _ := g.NewNode("a", g.Root())
	b, _ := g.NewNode("b", a)
	assert.ErrorIs(t, g.SetParent(a, b), ErrCycle)
	assert.ErrorIs(t, g.SetParent(a, a), ErrCycle)
}
