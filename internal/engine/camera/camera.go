// Package camera provides the free-flying viewer camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/orrery/internal/engine/input"
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/pkg/math"
)

// Defaults for movement and mouse look.
const (
	DefaultSpeed       = 4.0  // units per update
	DefaultSensitivity = 0.01 // view change per pixel dragged
)

var worldUp = math.V3(0, 1, 0)

// Controller moves an eye point with WASD/QE and turns the view direction
// by dragging with the primary mouse button. Movement axes stay level:
// only the horizontal part of the view sets forward.
type Controller struct {
	Speed       float32
	Sensitivity float32

	// OnProjection is called when the user asks for a projection mode.
	// The controller itself holds no projection state.
	OnProjection func(render.ProjectionMode)

	eye     math.Vec3
	view    math.Vec3
	forward math.Vec3
	right   math.Vec3
	up      math.Vec3

	moveForward, moveBack bool
	moveLeft, moveRight   bool
	moveDown, moveUp      bool

	button       input.Button
	prevX, prevY int

	viewportHeight float32
}

// New creates a controller for a viewport of the given height, looking
// 45° downward from the reset position.
func New(viewportHeight float32) *Controller {
	c := &Controller{
		Speed:          DefaultSpeed,
		Sensitivity:    DefaultSensitivity,
		viewportHeight: viewportHeight,
	}
	c.Reset()
	c.view = math.V3(0, 0.5, -0.5).Normalize()
	c.calculateVectors()
	return c
}

// SetViewportHeight changes the height used by Reset.
func (c *Controller) SetViewportHeight(h float32) {
	c.viewportHeight = h
}

func (c *Controller) Eye() math.Vec3     { return c.eye }
func (c *Controller) View() math.Vec3    { return c.view }
func (c *Controller) Forward() math.Vec3 { return c.forward }
func (c *Controller) Right() math.Vec3   { return c.right }
func (c *Controller) Up() math.Vec3      { return c.up }

// Center returns the point the camera looks at.
func (c *Controller) Center() math.Vec3 { return c.eye.Add(c.view) }

// Reset places the eye on the +Z axis at the depth where a 60° vertical
// field of view frames the whole viewport, looking down -Z.
func (c *Controller) Reset() {
	depth := 0.5 * c.viewportHeight / float32(gomath.Tan(gomath.Pi/6))
	c.eye = math.V3(0, 0, depth)
	c.view = math.V3(0, 0, -1)
	c.forward = math.V3(0, 0, -1)
	c.right = math.V3(1, 0, 0)
	c.up = worldUp
}

// BirdsEye looks across the system from far along the vertical axis.
func (c *Controller) BirdsEye() {
	c.eye = math.V3(0, -1000, 0)
	c.view = math.V3(0, 5, -1)
	c.calculateVectors()
}

// calculateVectors rebuilds the level movement axes from view. A view
// with no horizontal part keeps the previous forward.
func (c *Controller) calculateVectors() {
	c.up = worldUp
	if h := c.view.Horizontal(); h.Length() > 0 {
		c.forward = h.Normalize()
	}
	c.right = c.forward.Cross(c.up).Normalize()
}

// Update recomputes the axes and moves the eye once per held key.
// Movement is per update, not per second.
func (c *Controller) Update(dT float32) {
	c.calculateVectors()

	if c.moveLeft {
		c.eye = c.eye.Sub(c.right.Scale(c.Speed))
	}
	if c.moveRight {
		c.eye = c.eye.Add(c.right.Scale(c.Speed))
	}
	if c.moveForward {
		c.eye = c.eye.Add(c.forward.Scale(c.Speed))
	}
	if c.moveBack {
		c.eye = c.eye.Sub(c.forward.Scale(c.Speed))
	}
	if c.moveDown {
		c.eye = c.eye.Sub(c.up.Scale(c.Speed))
	}
	if c.moveUp {
		c.eye = c.eye.Add(c.up.Scale(c.Speed))
	}
}

// HandleEvent applies keyboard and mouse input. It reports whether the
// event was consumed.
func (c *Controller) HandleEvent(ev input.Event) bool {
	switch ev.Type {
	case input.EventKeyDown, input.EventKeyUp:
		return c.handleKey(ev)
	case input.EventMouseDown:
		c.button = ev.Button
		c.prevX, c.prevY = ev.MouseX, ev.MouseY
		return true
	case input.EventMouseUp:
		if ev.Button == c.button {
			c.button = input.ButtonNone
		}
		c.prevX, c.prevY = ev.MouseX, ev.MouseY
		return true
	case input.EventMouseMove:
		return c.handleDrag(ev.MouseX, ev.MouseY)
	}
	return false
}

func (c *Controller) handleKey(ev input.Event) bool {
	down := ev.Pressed()
	switch {
	case ev.IsKey('w') || ev.IsSpecial(input.KeyArrowUp):
		c.moveForward = down
	case ev.IsKey('s') || ev.IsSpecial(input.KeyArrowDown):
		c.moveBack = down
	case ev.IsKey('a') || ev.IsSpecial(input.KeyArrowLeft):
		c.moveLeft = down
	case ev.IsKey('d') || ev.IsSpecial(input.KeyArrowRight):
		c.moveRight = down
	case ev.IsKey('q'):
		c.moveDown = down
	case ev.IsKey('e'):
		c.moveUp = down
	case ev.IsKey(' '):
		if down {
			c.Reset()
		}
	case ev.IsKey('1'):
		if down {
			c.BirdsEye()
		}
	// '2' is orthographic and '3' perspective, as the key labels say. Older
	// builds of this viewer swapped the two at runtime.
	case ev.IsKey('2'):
		if down {
			c.requestProjection(render.Orthographic)
		}
	case ev.IsKey('3'):
		if down {
			c.requestProjection(render.Perspective)
		}
	default:
		return false
	}
	return true
}

func (c *Controller) requestProjection(m render.ProjectionMode) {
	if c.OnProjection != nil {
		c.OnProjection(m)
	}
}

// handleDrag turns the view while the primary button is held: horizontal
// motion swings it along right, vertical motion tilts it directly.
func (c *Controller) handleDrag(x, y int) bool {
	if c.button != input.ButtonLeft {
		return false
	}
	dx := float32(x-c.prevX) * c.Sensitivity
	c.view = c.view.Add(c.right.Scale(dx))
	dy := float32(y-c.prevY) * c.Sensitivity
	c.view.Y += dy
	c.calculateVectors()
	c.prevX, c.prevY = x, y
	return true
}

// Setup installs the look-at transform. Call it before drawing the scene.
func (c *Controller) Setup(r render.Renderer) {
	r.SetLookAt(c.eye, c.Center(), c.up)
}

// ViewMatrix returns the view matrix for this camera.
func (c *Controller) ViewMatrix() math.Mat4 {
	return math.LookAt(c.eye, c.Center(), c.up)
}
