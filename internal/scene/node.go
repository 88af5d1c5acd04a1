// Package scene implements the animated scene graph: nodes that compose
// parent-relative transforms, advance per-frame state and draw themselves
// through a render.Renderer.
//
// A Node is a plain grouping node until it carries components. A Body
// makes it an orbiting celestial body; a PositionSource makes it follow an
// external position, such as the camera eye.
package scene

import (
	"fmt"

	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/pkg/math"
)

// PositionSource supplies a position each update.
type PositionSource func() math.Vec3

// Node is an element of the scene tree.
type Node struct {
	Name string

	// Local transform relative to the parent.
	Position    math.Vec3
	Scale       math.Vec3
	Orientation math.Vec3 // radians about X, Y, Z

	// Body is set for celestial bodies.
	Body *Body
	// Follow, when set, replaces Position on every update.
	Follow PositionSource

	parent   *Node
	children []*Node
}

// NewNode creates a grouping node with unit scale.
func NewNode(name string) *Node {
	return &Node{Name: name, Scale: math.V3(1, 1, 1)}
}

// AddChild appends child. The parent owns the child from then on.
// Adding a node beneath itself panics.
func (n *Node) AddChild(child *Node) {
	for a := n; a != nil; a = a.parent {
		if a == child {
			panic(fmt.Sprintf("scene: adding %q under %q creates a cycle", child.Name, n.Name))
		}
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Children returns the child list in traversal order. The slice must not
// be modified.
func (n *Node) Children() []*Node { return n.children }

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

func (n *Node) SetPosition(x, y, z float32)    { n.Position = math.V3(x, y, z) }
func (n *Node) SetScale(x, y, z float32)       { n.Scale = math.V3(x, y, z) }
func (n *Node) SetOrientation(x, y, z float32) { n.Orientation = math.V3(x, y, z) }

// SetSize sets a uniform scale.
func (n *Node) SetSize(s float32) { n.Scale = math.V3(s, s, s) }

// Update advances the subtree by dT seconds. Children are updated before
// this node's own body state.
func (n *Node) Update(dT float32) {
	if n.Follow != nil {
		n.Position = n.Follow()
	}
	for _, c := range n.children {
		c.Update(dT)
	}
	if n.Body != nil {
		n.Body.advance(dT)
	}
}

// Display draws the subtree. Grouping nodes apply their transform once and
// recurse; bodies run the celestial display sequence.
func (n *Node) Display(r render.Renderer) {
	if n.Body != nil {
		n.displayBody(r)
		return
	}

	r.PushMatrix()
	r.PushStyle()
	n.transform(r)
	n.displaySubtree(r)
	r.PopStyle()
	r.PopMatrix()
}

// transform applies translate, rotate Y, Z, X, then scale.
func (n *Node) transform(r render.Renderer) {
	r.Translate(n.Position.X, n.Position.Y, n.Position.Z)
	r.RotateY(n.Orientation.Y)
	r.RotateZ(n.Orientation.Z)
	r.RotateX(n.Orientation.X)
	r.Scale(n.Scale.X, n.Scale.Y, n.Scale.Z)
}

func (n *Node) displaySubtree(r render.Renderer) {
	for _, c := range n.children {
		c.Display(r)
	}
}

// Walk visits the subtree depth-first, parent before children, in
// insertion order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node in the subtree with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// frame returns the matrix n's children are drawn in.
func (n *Node) frame() math.Mat4 {
	m := math.Identity()
	if n.parent != nil {
		m = n.parent.frame()
	}
	m = m.Mul(math.Translate(n.Position.X, n.Position.Y, n.Position.Z))
	if n.Body != nil {
		return m.Mul(math.RotateY(n.Body.OrbitAngle)).Mul(math.Translate(-n.Body.OrbitRadius, 0, 0))
	}
	return m.Mul(math.RotateY(n.Orientation.Y)).
		Mul(math.RotateZ(n.Orientation.Z)).
		Mul(math.RotateX(n.Orientation.X)).
		Mul(math.Scale(n.Scale.X, n.Scale.Y, n.Scale.Z))
}

// WorldPosition returns where the node's origin is drawn this frame.
func (n *Node) WorldPosition() math.Vec3 {
	return n.frame().Origin()
}
