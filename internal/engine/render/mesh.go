package render

import (
	stdmath "math"

	"github.com/Faultbox/orrery/pkg/math"
)

// Vertex is an interleaved mesh vertex.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// MeshData is CPU-side triangle geometry ready for upload.
type MeshData struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	// Texture names the diffuse image, if the source declared one.
	Texture string
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *MeshData) Bounds() (min, max math.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	p := m.Vertices[0].Position
	min = math.V3(p[0], p[1], p[2])
	max = min
	for _, v := range m.Vertices[1:] {
		p := v.Position
		min = math.V3(minf(min.X, p[0]), minf(min.Y, p[1]), minf(min.Z, p[2]))
		max = math.V3(maxf(max.X, p[0]), maxf(max.Y, p[1]), maxf(max.Z, p[2]))
	}
	return
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// SphereData builds a unit UV sphere with detail segments in longitude and
// detail rings in latitude. detail is clamped to at least 3.
func SphereData(detail int) MeshData {
	if detail < 3 {
		detail = 3
	}
	rings, segments := detail, detail

	data := MeshData{Name: "sphere"}
	data.Vertices = make([]Vertex, 0, (rings+1)*(segments+1))
	for r := 0; r <= rings; r++ {
		v := float64(r) / float64(rings)
		phi := v * stdmath.Pi
		y := stdmath.Cos(phi)
		sinPhi := stdmath.Sin(phi)
		for s := 0; s <= segments; s++ {
			u := float64(s) / float64(segments)
			theta := u * 2 * stdmath.Pi
			x := sinPhi * stdmath.Cos(theta)
			z := sinPhi * stdmath.Sin(theta)
			n := [3]float32{float32(x), float32(y), float32(z)}
			data.Vertices = append(data.Vertices, Vertex{
				Position: n,
				Normal:   n,
				TexCoord: [2]float32{float32(u), float32(v)},
			})
		}
	}

	stride := uint32(segments + 1)
	data.Indices = make([]uint32, 0, rings*segments*6)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			data.Indices = append(data.Indices, a, b, a+1, a+1, b, b+1)
		}
	}
	return data
}

// Circle returns a closed polyline of n points on the unit circle in the
// XY plane.
func Circle(n int) *Polyline {
	if n < 3 {
		n = 3
	}
	p := &Polyline{Points: make([]math.Vec3, n), Closed: true}
	for i := range p.Points {
		a := 2 * stdmath.Pi * float64(i) / float64(n)
		p.Points[i] = math.V3(float32(stdmath.Cos(a)), float32(stdmath.Sin(a)), 0)
	}
	return p
}
