package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

// Node is one element of the scene or asset hierarchy. A node always has a transform and may have
// children. A node that carries Geometry is a mesh node: it is drawn with its Material and takes part
// in shadow casting and receiving according to its flags.
//
// Nodes are not safe for concurrent mutation; the scene serializes changes against rendering.
type Node struct {
	// Name is the node name as authored in the model file. May be empty.
	Name string

	// PartID is the logical part identifier recorded by the part material binder: the binding table
	// fragment that last matched this node's name. Empty until bound.
	PartID string

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	// Hidden excludes the node and its subtree from rendering.
	Hidden bool

	// Geometry is the renderable mesh data, nil for group/transform-only nodes.
	Geometry *Geometry

	// Material is the surface the geometry is drawn with. Shared by reference between nodes.
	Material material.Material

	CastShadow    bool
	ReceiveShadow bool

	parent   *Node
	children []*Node
}

// NewNode creates a node with an identity transform.
//
// Parameters:
//   - name: the node name
//   - options: functional options applied after the defaults
//
// Returns:
//   - *Node: the new node
func NewNode(name string, options ...NodeOption) *Node {
	n := &Node{
		Name:     name,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
	for _, opt := range options {
		opt(n)
	}
	return n
}

// HasGeometry reports whether the node is a mesh node.
func (n *Node) HasGeometry() bool {
	return n != nil && n.Geometry != nil
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Add appends children to the node, detaching each from any previous parent first.
// Nil children and the node itself are ignored.
//
// Parameters:
//   - children: the nodes to add
func (n *Node) Add(children ...*Node) {
	for _, c := range children {
		if c == nil || c == n {
			continue
		}
		if c.parent != nil {
			c.parent.Remove(c)
		}
		c.parent = n
		n.children = append(n.children, c)
	}
}

// Remove detaches a direct child.
//
// Parameters:
//   - child: the node to remove
//
// Returns:
//   - bool: true if child was a direct child and has been removed
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Walk visits the node and its descendants depth-first in pre-order (a parent before its children,
// children in order). Returning false from fn skips the visited node's subtree.
//
// Parameters:
//   - fn: the visitor
func (n *Node) Walk(fn func(node *Node) bool) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		for i := len(cur.children) - 1; i >= 0; i-- {
			stack = append(stack, cur.children[i])
		}
	}
}

// WalkMeshes visits every mesh node in the subtree in depth-first pre-order.
//
// Parameters:
//   - fn: the visitor, called only for nodes with geometry
func (n *Node) WalkMeshes(fn func(node *Node)) {
	n.Walk(func(node *Node) bool {
		if node.HasGeometry() {
			fn(node)
		}
		return true
	})
}

// Find returns the first node in depth-first order with the exact name, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found = node
			return false
		}
		return true
	})
	return found
}

// FindParts returns every mesh node whose recorded PartID equals partID, in depth-first order.
//
// Parameters:
//   - partID: the logical part identifier recorded by the binder
//
// Returns:
//   - []*Node: the matching mesh nodes, empty if none
func (n *Node) FindParts(partID string) []*Node {
	var parts []*Node
	if partID == "" {
		return parts
	}
	n.WalkMeshes(func(node *Node) {
		if node.PartID == partID {
			parts = append(parts, node)
		}
	})
	return parts
}

// MeshCount returns the number of mesh nodes in the subtree.
func (n *Node) MeshCount() int {
	count := 0
	n.WalkMeshes(func(*Node) { count++ })
	return count
}

// NodeCount returns the number of nodes in the subtree, including n.
func (n *Node) NodeCount() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// SetYaw replaces the node rotation with a rotation of rad radians around +Y.
func (n *Node) SetYaw(rad float32) {
	n.Rotation = mgl32.QuatRotate(rad, common.WorldUp)
}

// LocalMatrix returns the node transform relative to its parent.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	rot := n.Rotation
	if rot.Len() == 0 {
		rot = mgl32.QuatIdent()
	}
	return common.ComposeTRS(n.Position, rot, n.Scale)
}

// WorldMatrix returns the node transform in scene space, composed through its ancestors.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// NodeOption configures a node created with NewNode.
type NodeOption func(*Node)

// WithPosition sets the node position.
func WithPosition(x, y, z float32) NodeOption {
	return func(n *Node) {
		n.Position = mgl32.Vec3{x, y, z}
	}
}

// WithUniformScale sets the same scale on every axis.
func WithUniformScale(s float32) NodeOption {
	return func(n *Node) {
		n.Scale = mgl32.Vec3{s, s, s}
	}
}

// WithGeometry makes the node a mesh node.
func WithGeometry(g *Geometry) NodeOption {
	return func(n *Node) {
		n.Geometry = g
	}
}

// WithMaterial sets the node material.
func WithMaterial(m material.Material) NodeOption {
	return func(n *Node) {
		n.Material = m
	}
}

// WithChildren adds children to the node.
func WithChildren(children ...*Node) NodeOption {
	return func(n *Node) {
		n.Add(children...)
	}
}
