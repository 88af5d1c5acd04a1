// Package lighting provides scene light sources and the per-frame light
// buffer backends upload to shaders.
package lighting

import (
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/pkg/math"
)

// Debug marker geometry.
const (
	markerDetail = 10
	markerRadius = 10
)

// Light is a positional light. The light is placed at the negated
// Position, so it shines toward the origin from Position's mirror image.
type Light struct {
	Position math.Vec3
	Diffuse  render.Color
	Specular render.Color
	// Debug draws a marker sphere and a direction line.
	Debug bool
}

// New creates a light with the default warm-grey diffuse and white
// specular colours.
func New(pos math.Vec3) *Light {
	return &Light{
		Position: pos,
		Diffuse:  render.RGB255(204, 200, 200),
		Specular: render.White,
	}
}

// SetupLighting adds the light to the renderer. The specular colour is
// reset afterwards so it does not leak into lights configured later.
func (l *Light) SetupLighting(r render.Renderer) {
	r.SetLightSpecular(l.Specular)
	r.SetPointLight(l.Diffuse, l.Position.Negate())
	r.SetLightSpecular(render.Black)
}

// Update is a no-op; lights are static.
func (l *Light) Update(dT float32) {}

// Display draws the debug marker when enabled.
func (l *Light) Display(r render.Renderer) {
	if !l.Debug {
		return
	}
	r.DisableLighting()
	r.PushMatrix()
	r.PushStyle()
	r.Fill(l.Diffuse)
	r.NoStroke()
	r.Translate(l.Position.X, l.Position.Y, l.Position.Z)
	r.DrawSphere(markerDetail, markerRadius)
	r.Stroke(l.Diffuse)
	r.DrawLine(math.Vec3{}, l.Position.Negate())
	r.PopStyle()
	r.PopMatrix()
	r.EnableLighting()
}
