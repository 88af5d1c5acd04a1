package render

import (
	"testing"

	"github.com/Faultbox/orrery/pkg/math"
)

const eps = 1e-4

func TestTracerComposesTransforms(t *testing.T) {
	tr := NewTracer()

	tr.Translate(10, 0, 0)
	tr.RotateY(math.HalfPi)
	tr.Translate(-100, 0, 0)
	tr.DrawSphere(10, 1)

	got := tr.Calls[0].Origin()
	want := math.V3(10, 0, 100)
	if !got.ApproxEqual(want, eps) {
		t.Errorf("origin = %+v, want %+v", got, want)
	}
}

func TestTracerPushPopRestores(t *testing.T) {
	tr := NewTracer()
	tr.Translate(1, 2, 3)
	before := tr.Model()

	tr.PushMatrix()
	tr.Scale(5, 5, 5)
	tr.RotateZ(1)
	tr.PopMatrix()

	if tr.Model() != before {
		t.Errorf("model not restored: %v", tr.Model())
	}
	if tr.Depth() != 0 {
		t.Errorf("depth = %d, want 0", tr.Depth())
	}
}

func TestTracerUnbalancedPopPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unbalanced PopMatrix")
		}
	}()
	NewTracer().PopMatrix()
}

func TestTracerStyleStack(t *testing.T) {
	tr := NewTracer()
	red := RGB255(255, 0, 0)

	tr.PushStyle()
	tr.Fill(red)
	tr.NoStroke()
	tr.DisableLighting()
	tr.DrawSphere(10, 1)
	tr.PopStyle()
	tr.DrawSphere(10, 1)

	inner, outer := tr.Calls[0].Style, tr.Calls[1].Style
	if inner.Fill != red || inner.HasStroke || inner.Lit {
		t.Errorf("inner style = %+v", inner)
	}
	if outer.Fill != White || !outer.HasStroke || !outer.Lit {
		t.Errorf("outer style not restored: %+v", outer)
	}
}

func TestTracerPointLightUsesModelAndSpecular(t *testing.T) {
	tr := NewTracer()
	tr.Translate(0, 10, 0)
	tr.SetLightSpecular(White)
	tr.SetPointLight(Gray(0.5), math.V3(1, 0, 0))
	tr.SetLightSpecular(Black)

	lights := tr.Filter(CallPointLight)
	if len(lights) != 1 {
		t.Fatalf("got %d lights, want 1", len(lights))
	}
	if !lights[0].LightPos.ApproxEqual(math.V3(1, 10, 0), eps) {
		t.Errorf("light pos = %+v", lights[0].LightPos)
	}
	if lights[0].Specular != White {
		t.Errorf("specular = %+v, want white", lights[0].Specular)
	}
}

func TestTracerReset(t *testing.T) {
	tr := NewTracer()
	tr.PushMatrix()
	tr.Translate(1, 1, 1)
	tr.DrawLine(math.Vec3{}, math.V3(1, 0, 0))
	tr.Reset()

	if len(tr.Calls) != 0 || tr.Depth() != 0 || tr.Model() != math.Identity() {
		t.Error("Reset left state behind")
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#ffff00", Color{1, 1, 0, 1}},
		{"#000000", Black},
		{"#fff", White},
	}
	for _, tt := range tests {
		got, err := Hex(tt.in)
		if err != nil {
			t.Errorf("Hex(%q): %v", tt.in, err)
			continue
		}
		if !math.ApproxEqual(got.R, tt.want.R, eps) ||
			!math.ApproxEqual(got.G, tt.want.G, eps) ||
			!math.ApproxEqual(got.B, tt.want.B, eps) {
			t.Errorf("Hex(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if _, err := Hex("yellow"); err == nil {
		t.Error("expected error for non-hex colour")
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	c := RGB255(204, 200, 200)
	if got := c.Hex(); got != "#ccc8c8" {
		t.Errorf("Hex() = %s, want #ccc8c8", got)
	}
}

func TestSphereData(t *testing.T) {
	data := SphereData(10)

	if len(data.Vertices) != 11*11 {
		t.Errorf("vertices = %d, want %d", len(data.Vertices), 11*11)
	}
	if len(data.Indices) != 10*10*6 {
		t.Errorf("indices = %d, want %d", len(data.Indices), 10*10*6)
	}
	for i, v := range data.Vertices {
		p := math.V3(v.Position[0], v.Position[1], v.Position[2])
		if !math.ApproxEqual(p.Length(), 1, eps) {
			t.Fatalf("vertex %d not on unit sphere: %+v", i, p)
		}
	}
	for _, idx := range data.Indices {
		if int(idx) >= len(data.Vertices) {
			t.Fatalf("index %d out of range", idx)
		}
	}

	// Ten segments miss the exact ±Z extremes.
	min, max := data.Bounds()
	if !min.ApproxEqual(math.V3(-1, -1, -1), 0.05) || !max.ApproxEqual(math.V3(1, 1, 1), 0.05) {
		t.Errorf("bounds = %+v..%+v", min, max)
	}
}

func TestCircle(t *testing.T) {
	c := Circle(100)
	if len(c.Points) != 100 || !c.Closed {
		t.Fatalf("circle has %d points, closed=%v", len(c.Points), c.Closed)
	}
	for _, p := range c.Points {
		if p.Z != 0 || !math.ApproxEqual(p.Length(), 1, eps) {
			t.Fatalf("point %+v not on unit XY circle", p)
		}
	}
}

func TestProjectionMatrix(t *testing.T) {
	ortho := Projection{Mode: Orthographic, Width: 1200, Height: 700, Near: 1, Far: 5000}
	corner := ortho.Matrix().TransformVec3(math.V3(600, 350, -1))
	if !math.ApproxEqual(corner.X, 1, eps) || !math.ApproxEqual(corner.Y, 1, eps) {
		t.Errorf("ortho corner = %+v", corner)
	}

	persp := Projection{Mode: Perspective, Width: 1200, Height: 700, FOVY: math.Radians(60), Near: 1, Far: 5000}
	center := persp.Matrix().TransformVec3(math.V3(0, 0, -10))
	if !math.ApproxEqual(center.X, 0, eps) || !math.ApproxEqual(center.Y, 0, eps) {
		t.Errorf("perspective centre = %+v", center)
	}
}

func TestParseProjectionMode(t *testing.T) {
	if m, ok := ParseProjectionMode("orthographic"); !ok || m != Orthographic {
		t.Errorf("orthographic parsed as %v, %v", m, ok)
	}
	if _, ok := ParseProjectionMode("fisheye"); ok {
		t.Error("expected fisheye to be rejected")
	}
}
