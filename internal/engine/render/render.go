// Package render defines the drawing capability the scene graph renders
// through, plus backend-neutral geometry and a recording software renderer.
//
// Transform calls post-multiply the current model matrix, so the last call
// before a draw is applied to vertices first.
package render

import "github.com/Faultbox/orrery/pkg/math"

// Renderer is the immediate-mode drawing surface used by scene objects.
// Implementations keep a model-matrix stack and a style stack; scene code
// never queries state back.
type Renderer interface {
	PushMatrix()
	PopMatrix()
	Translate(x, y, z float32)
	RotateX(angle float32)
	RotateY(angle float32)
	RotateZ(angle float32)
	Scale(x, y, z float32)

	// PushStyle saves fill, stroke and lighting state.
	PushStyle()
	PopStyle()
	Fill(c Color)
	Stroke(c Color)
	NoStroke()

	// DrawSphere draws a sphere with the current fill. detail is the
	// number of segments around each axis.
	DrawSphere(detail int, radius float32)
	DrawMesh(m Mesh)
	DrawQuad(tex Texture, v [4]QuadVertex)
	DrawPolyline(p *Polyline)
	DrawLine(a, b math.Vec3)

	SetAmbientLight(c Color)
	SetLightSpecular(c Color)
	// SetPointLight adds a light at pos, transformed by the current model
	// matrix, using the most recent specular colour.
	SetPointLight(diffuse Color, pos math.Vec3)
	DisableLighting()
	EnableLighting()

	SetLookAt(eye, center, up math.Vec3)
	SetProjection(p Projection)
}

// Mesh is an uploaded, drawable model.
type Mesh interface {
	Name() string
}

// Texture is an uploaded image.
type Texture interface {
	Name() string
}

// QuadVertex is a corner of a textured quad.
type QuadVertex struct {
	Position math.Vec3
	U, V     float32
}

// Polyline is a list of points drawn as connected line segments.
// Backends may cache GPU buffers by pointer, so Points must not change
// after the first draw.
type Polyline struct {
	Points []math.Vec3
	Closed bool
}

// ProjectionMode selects the camera projection.
type ProjectionMode int

const (
	Perspective ProjectionMode = iota
	Orthographic
)

func (m ProjectionMode) String() string {
	switch m {
	case Perspective:
		return "perspective"
	case Orthographic:
		return "orthographic"
	default:
		return "unknown"
	}
}

// ParseProjectionMode maps a config name to a mode.
func ParseProjectionMode(s string) (ProjectionMode, bool) {
	switch s {
	case "perspective":
		return Perspective, true
	case "orthographic", "ortho":
		return Orthographic, true
	}
	return Perspective, false
}

// Projection holds everything needed to build a projection matrix.
type Projection struct {
	Mode   ProjectionMode
	Width  float32
	Height float32
	FOVY   float32 // radians, perspective only
	Near   float32
	Far    float32
}

// Matrix returns the projection matrix. Orthographic spans ±W/2, ±H/2
// around the view axis.
func (p Projection) Matrix() math.Mat4 {
	if p.Mode == Orthographic {
		return math.Ortho(-p.Width/2, p.Width/2, -p.Height/2, p.Height/2, p.Near, p.Far)
	}
	aspect := float32(1)
	if p.Height > 0 {
		aspect = p.Width / p.Height
	}
	return math.Perspective(p.FOVY, aspect, p.Near, p.Far)
}
