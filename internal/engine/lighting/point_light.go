package lighting

import (
	"github.com/Faultbox/orrery/internal/engine/render"
	"github.com/Faultbox/orrery/pkg/math"
)

// MaxPointLights is the maximum number of point lights supported in shaders.
const MaxPointLights = 8

// PointLight is a point light resolved to world space for GPU upload.
type PointLight struct {
	Position [3]float32
	Diffuse  [3]float32
	Specular [3]float32
}

// NewPointLight converts renderer arguments to a buffer entry.
func NewPointLight(pos math.Vec3, diffuse, specular render.Color) PointLight {
	return PointLight{
		Position: pos.Array(),
		Diffuse:  [3]float32{diffuse.R, diffuse.G, diffuse.B},
		Specular: [3]float32{specular.R, specular.G, specular.B},
	}
}

// PointLightBuffer holds the lights configured for the current frame.
type PointLightBuffer struct {
	Lights []PointLight
	Count  int
}

// NewPointLightBuffer creates an empty point light buffer.
func NewPointLightBuffer() *PointLightBuffer {
	return &PointLightBuffer{
		Lights: make([]PointLight, 0, MaxPointLights),
	}
}

// Clear removes all lights from the buffer.
func (b *PointLightBuffer) Clear() {
	b.Lights = b.Lights[:0]
	b.Count = 0
}

// AddLight adds a point light to the buffer.
// Returns false if buffer is full.
func (b *PointLightBuffer) AddLight(light PointLight) bool {
	if b.Count >= MaxPointLights {
		return false
	}
	b.Lights = append(b.Lights, light)
	b.Count++
	return true
}

// Positions returns positions as a flat slice for uniform upload.
// Format: [x0, y0, z0, x1, y1, z1, ...]
func (b *PointLightBuffer) Positions() []float32 {
	return b.flatten(func(l PointLight) [3]float32 { return l.Position })
}

// Diffuse returns diffuse colours as a flat slice.
func (b *PointLightBuffer) Diffuse() []float32 {
	return b.flatten(func(l PointLight) [3]float32 { return l.Diffuse })
}

// Specular returns specular colours as a flat slice.
func (b *PointLightBuffer) Specular() []float32 {
	return b.flatten(func(l PointLight) [3]float32 { return l.Specular })
}

func (b *PointLightBuffer) flatten(get func(PointLight) [3]float32) []float32 {
	result := make([]float32, MaxPointLights*3)
	for i, light := range b.Lights {
		v := get(light)
		copy(result[i*3:], v[:])
	}
	return result
}
