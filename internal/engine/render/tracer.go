package render

import (
	"fmt"

	"github.com/Faultbox/orrery/pkg/math"
)

// CallKind identifies a recorded draw or state call.
type CallKind int

const (
	CallSphere CallKind = iota
	CallMesh
	CallQuad
	CallPolyline
	CallLine
	CallPointLight
)

func (k CallKind) String() string {
	switch k {
	case CallSphere:
		return "sphere"
	case CallMesh:
		return "mesh"
	case CallQuad:
		return "quad"
	case CallPolyline:
		return "polyline"
	case CallLine:
		return "line"
	case CallPointLight:
		return "point-light"
	default:
		return fmt.Sprintf("call(%d)", int(k))
	}
}

// Style is the fill/stroke/lighting state saved by PushStyle.
type Style struct {
	Fill      Color
	Stroke    Color
	HasStroke bool
	Lit       bool
}

// Call is one recorded draw, with the model matrix and style in effect.
type Call struct {
	Kind  CallKind
	Model math.Mat4
	Style Style

	Detail   int
	Radius   float32
	Mesh     Mesh
	Texture  Texture
	Quad     [4]QuadVertex
	Polyline *Polyline
	A, B     math.Vec3

	Diffuse  Color
	Specular Color
	LightPos math.Vec3 // world-space light position
}

// Origin returns where the call's local origin lands in world space.
func (c Call) Origin() math.Vec3 {
	return c.Model.Origin()
}

// Tracer is a software Renderer that tracks transforms on the CPU and
// records draw calls instead of rasterising them. Headless runs and tests
// draw through it.
type Tracer struct {
	model  math.Mat4
	stack  []math.Mat4
	style  Style
	styles []Style

	specular Color

	Ambient    Color
	Eye        math.Vec3
	Center     math.Vec3
	Up         math.Vec3
	Projection Projection

	Calls []Call
}

var _ Renderer = (*Tracer)(nil)

// NewTracer returns a tracer with an identity model matrix.
func NewTracer() *Tracer {
	t := &Tracer{}
	t.Reset()
	return t
}

// Reset clears recorded calls and restores the initial state, as at the
// start of a frame.
func (t *Tracer) Reset() {
	t.model = math.Identity()
	t.stack = t.stack[:0]
	t.style = Style{Fill: White, Stroke: Black, HasStroke: true, Lit: true}
	t.styles = t.styles[:0]
	t.specular = Black
	t.Calls = t.Calls[:0]
}

// Depth returns the matrix stack depth.
func (t *Tracer) Depth() int { return len(t.stack) }

// StyleDepth returns the style stack depth.
func (t *Tracer) StyleDepth() int { return len(t.styles) }

// Model returns the current model matrix.
func (t *Tracer) Model() math.Mat4 { return t.model }

// CurrentStyle returns the active style.
func (t *Tracer) CurrentStyle() Style { return t.style }

// Filter returns recorded calls of the given kind, in draw order.
func (t *Tracer) Filter(kind CallKind) []Call {
	var out []Call
	for _, c := range t.Calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// ViewMatrix returns the look-at matrix from the last SetLookAt.
func (t *Tracer) ViewMatrix() math.Mat4 {
	return math.LookAt(t.Eye, t.Center, t.Up)
}

func (t *Tracer) PushMatrix() {
	t.stack = append(t.stack, t.model)
}

// PopMatrix restores the last pushed matrix. Unbalanced pops panic, the
// same contract the GL matrix stack enforces.
func (t *Tracer) PopMatrix() {
	n := len(t.stack)
	if n == 0 {
		panic("render: PopMatrix without PushMatrix")
	}
	t.model = t.stack[n-1]
	t.stack = t.stack[:n-1]
}

func (t *Tracer) Translate(x, y, z float32) { t.model = t.model.Mul(math.Translate(x, y, z)) }
func (t *Tracer) RotateX(a float32)         { t.model = t.model.Mul(math.RotateX(a)) }
func (t *Tracer) RotateY(a float32)         { t.model = t.model.Mul(math.RotateY(a)) }
func (t *Tracer) RotateZ(a float32)         { t.model = t.model.Mul(math.RotateZ(a)) }
func (t *Tracer) Scale(x, y, z float32)     { t.model = t.model.Mul(math.Scale(x, y, z)) }

func (t *Tracer) PushStyle() {
	t.styles = append(t.styles, t.style)
}

func (t *Tracer) PopStyle() {
	n := len(t.styles)
	if n == 0 {
		panic("render: PopStyle without PushStyle")
	}
	t.style = t.styles[n-1]
	t.styles = t.styles[:n-1]
}

func (t *Tracer) Fill(c Color) { t.style.Fill = c }

func (t *Tracer) Stroke(c Color) {
	t.style.Stroke = c
	t.style.HasStroke = true
}

func (t *Tracer) NoStroke() { t.style.HasStroke = false }

func (t *Tracer) record(c Call) {
	c.Model = t.model
	c.Style = t.style
	t.Calls = append(t.Calls, c)
}

func (t *Tracer) DrawSphere(detail int, radius float32) {
	t.record(Call{Kind: CallSphere, Detail: detail, Radius: radius})
}

func (t *Tracer) DrawMesh(m Mesh) {
	t.record(Call{Kind: CallMesh, Mesh: m})
}

func (t *Tracer) DrawQuad(tex Texture, v [4]QuadVertex) {
	t.record(Call{Kind: CallQuad, Texture: tex, Quad: v})
}

func (t *Tracer) DrawPolyline(p *Polyline) {
	t.record(Call{Kind: CallPolyline, Polyline: p})
}

func (t *Tracer) DrawLine(a, b math.Vec3) {
	t.record(Call{Kind: CallLine, A: a, B: b})
}

func (t *Tracer) SetAmbientLight(c Color)  { t.Ambient = c }
func (t *Tracer) SetLightSpecular(c Color) { t.specular = c }

func (t *Tracer) SetPointLight(diffuse Color, pos math.Vec3) {
	t.record(Call{
		Kind:     CallPointLight,
		Diffuse:  diffuse,
		Specular: t.specular,
		LightPos: t.model.TransformVec3(pos),
	})
}

func (t *Tracer) DisableLighting() { t.style.Lit = false }
func (t *Tracer) EnableLighting()  { t.style.Lit = true }

func (t *Tracer) SetLookAt(eye, center, up math.Vec3) {
	t.Eye, t.Center, t.Up = eye, center, up
}

func (t *Tracer) SetProjection(p Projection) { t.Projection = p }
