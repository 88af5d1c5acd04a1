package render

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a linear RGBA colour with components in [0,1].
type Color struct {
	R, G, B, A float32
}

var (
	Black = Color{0, 0, 0, 1}
	White = Color{1, 1, 1, 1}
)

// RGB255 builds an opaque colour from 0-255 components.
func RGB255(r, g, b uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
}

// Gray returns an opaque grey of level v.
func Gray(v float32) Color {
	return Color{v, v, v, 1}
}

// Hex parses "#rrggbb" or "#rgb".
func Hex(s string) (Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parsing colour %q: %w", s, err)
	}
	return FromColorful(c), nil
}

// MustHex is Hex for constants; it panics on malformed input.
func MustHex(s string) Color {
	c, err := Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromColorful converts a go-colorful colour, clamping to the RGB gamut.
func FromColorful(c colorful.Color) Color {
	c = c.Clamped()
	return Color{float32(c.R), float32(c.G), float32(c.B), 1}
}

// Colorful returns the colour as a go-colorful value (alpha dropped).
func (c Color) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// Hex formats the colour as "#rrggbb".
func (c Color) Hex() string {
	return c.Colorful().Clamped().Hex()
}

// Scale multiplies the RGB channels, keeping alpha.
func (c Color) Scale(f float32) Color {
	return Color{c.R * f, c.G * f, c.B * f, c.A}
}

// Array returns the colour as a [4]float32 for uniform upload.
func (c Color) Array() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}
