package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mesh(name string) *Node {
	return NewNode(name, WithGeometry(NewPlaneGeometry(1, 1)))
}

func TestNodeWalkPreOrder(t *testing.T) {
	root := NewNode("root", WithChildren(
		NewNode("a", WithChildren(mesh("a1"), mesh("a2"))),
		mesh("b"),
	))

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return true
	})

	assert.Equal(t, []string{"root", "a", "a1", "a2", "b"}, names)
	assert.Equal(t, 3, root.MeshCount())
	assert.Equal(t, 5, root.NodeCount())
}

func TestNodeWalkSkipSubtree(t *testing.T) {
	root := NewNode("root", WithChildren(
		NewNode("skip", WithChildren(mesh("hidden"))),
		mesh("kept"),
	))

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "skip"
	})

	assert.Equal(t, []string{"root", "skip", "kept"}, names)
}

func TestNodeAddReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	child := NewNode("child")

	a.Add(child)
	b.Add(child, nil, b)

	assert.Empty(t, a.Children())
	require.Len(t, b.Children(), 1)
	assert.Same(t, b, child.Parent())
	assert.False(t, a.Remove(child))
	assert.True(t, b.Remove(child))
	assert.Nil(t, child.Parent())
}

func TestNodeFindAndFindParts(t *testing.T) {
	shared := material.NewMaterial()
	legs := mesh("chair_legs")
	legs.PartID = "legs"
	legs.Material = shared
	backLegs := mesh("back_legs")
	backLegs.PartID = "legs"
	root := NewNode("root", WithChildren(mesh("chair_back"), NewNode("group", WithChildren(legs, backLegs))))

	assert.Same(t, legs, root.Find("chair_legs"))
	assert.Nil(t, root.Find("missing"))
	assert.Equal(t, []*Node{legs, backLegs}, root.FindParts("legs"))
	assert.Empty(t, root.FindParts("back"))
	assert.Empty(t, root.FindParts(""))
}

func TestNodeWorldMatrix(t *testing.T) {
	parent := NewNode("parent", WithPosition(0, -1, 0), WithUniformScale(2))
	parent.SetYaw(mgl32.DegToRad(180))
	child := NewNode("child", WithPosition(1, 0, 0))
	parent.Add(child)

	p := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.InDelta(t, -2, p.X(), 1e-5)
	assert.InDelta(t, -1, p.Y(), 1e-5)
	assert.InDelta(t, 0, p.Z(), 1e-5)
}

func TestNodeZeroRotationIsIdentity(t *testing.T) {
	n := &Node{Scale: mgl32.Vec3{1, 1, 1}}
	local := n.LocalMatrix()
	ident := mgl32.Ident4()
	assert.InDeltaSlice(t, ident[:], local[:], 1e-6)
}

func TestNewGeometry(t *testing.T) {
	_, err := NewGeometry(nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoGeometry)

	tri := []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}}
	_, err = NewGeometry(tri, nil, nil, []uint32{0, 1, 5})
	assert.ErrorIs(t, err, ErrNoGeometry)

	g, err := NewGeometry(tri, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2}, g.Indices)
	require.Len(t, g.Normals, 3)
	assert.InDeltaSlice(t, []float32{0, 1, 0}, g.Normals[0][:], 1e-6)
	assert.Equal(t, 1, g.TriangleCount())
	assert.Len(t, g.Interleave(), 3*8)

	lo, hi := g.Bounds()
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, lo)
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, hi)
}
