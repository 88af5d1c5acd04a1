package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/pkg/math"
)

// matrixStack is the model matrix with its saved copies. Transforms
// post-multiply, matching render.Renderer.
type matrixStack struct {
	current mgl32.Mat4
	saved   []mgl32.Mat4
}

func newMatrixStack() matrixStack {
	return matrixStack{current: mgl32.Ident4()}
}

func (s *matrixStack) reset() {
	s.current = mgl32.Ident4()
	s.saved = s.saved[:0]
}

func (s *matrixStack) push() { s.saved = append(s.saved, s.current) }

// pop restores the last saved matrix and reports whether one existed.
func (s *matrixStack) pop() bool {
	if len(s.saved) == 0 {
		return false
	}
	s.current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
	return true
}

func (s *matrixStack) mul(m mgl32.Mat4) { s.current = s.current.Mul4(m) }

func (s *matrixStack) translate(x, y, z float32) { s.mul(mgl32.Translate3D(x, y, z)) }
func (s *matrixStack) rotateX(a float32)         { s.mul(mgl32.HomogRotate3DX(a)) }
func (s *matrixStack) rotateY(a float32)         { s.mul(mgl32.HomogRotate3DY(a)) }
func (s *matrixStack) rotateZ(a float32)         { s.mul(mgl32.HomogRotate3DZ(a)) }
func (s *matrixStack) scale(x, y, z float32)     { s.mul(mgl32.Scale3D(x, y, z)) }

// transform maps a local point to world space.
func (s *matrixStack) transform(p math.Vec3) math.Vec3 {
	return fromVec3(mgl32.TransformCoordinate(toVec3(p), s.current))
}

// normalMatrix is the inverse transpose of the model's upper 3x3.
func normalMatrix(model mgl32.Mat4) mgl32.Mat3 {
	m := model.Mat3()
	if m.Det() == 0 {
		return mgl32.Ident3()
	}
	return m.Inv().Transpose()
}

// style is the fill, stroke and lighting state saved by PushStyle.
type style struct {
	fill      render.Color
	stroke    render.Color
	hasStroke bool
	lit       bool
}

func defaultStyle() style {
	return style{fill: render.White, stroke: render.Black, hasStroke: true, lit: true}
}

// projectionMatrix builds the GL projection. Scene space is Y-down, so Y
// is flipped in clip space.
func projectionMatrix(p render.Projection) mgl32.Mat4 {
	var m mgl32.Mat4
	if p.Mode == render.Orthographic {
		m = mgl32.Ortho(-p.Width/2, p.Width/2, -p.Height/2, p.Height/2, p.Near, p.Far)
	} else {
		aspect := float32(1)
		if p.Height > 0 {
			aspect = p.Width / p.Height
		}
		m = mgl32.Perspective(p.FOVY, aspect, p.Near, p.Far)
	}
	return mgl32.Scale3D(1, -1, 1).Mul4(m)
}

func viewMatrix(eye, center, up math.Vec3) mgl32.Mat4 {
	return mgl32.LookAtV(toVec3(eye), toVec3(center), toVec3(up))
}

func toVec3(v math.Vec3) mgl32.Vec3   { return mgl32.Vec3{v.X, v.Y, v.Z} }
func fromVec3(v mgl32.Vec3) math.Vec3 { return math.V3(v[0], v[1], v[2]) }

func colorVec4(c render.Color) mgl32.Vec4 { return mgl32.Vec4{c.R, c.G, c.B, c.A} }
func colorVec3(c render.Color) mgl32.Vec3 { return mgl32.Vec3{c.R, c.G, c.B} }

// floatsPerVertex is the interleaved size of render.Vertex.
const floatsPerVertex = 8

// polylineVertices flattens points into interleaved vertices with zero
// normals and texture coordinates.
func polylineVertices(points []math.Vec3) []float32 {
	out := make([]float32, 0, len(points)*floatsPerVertex)
	for _, p := range points {
		out = append(out, p.X, p.Y, p.Z, 0, 0, 0, 0, 0)
	}
	return out
}

// quadVertices interleaves a quad with a face normal from its first
// three corners.
func quadVertices(v [4]render.QuadVertex) []float32 {
	e1 := v[1].Position.Sub(v[0].Position)
	e2 := v[2].Position.Sub(v[0].Position)
	n := e1.Cross(e2).Normalize()
	out := make([]float32, 0, 4*floatsPerVertex)
	for _, q := range v {
		p := q.Position
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z, q.U, q.V)
	}
	return out
}
