// Package hud rasterises the help and status overlay into an image the
// renderer draws in screen space.
package hud

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Panel layout in pixels.
const (
	Padding    = 8
	LineHeight = 15
	border     = 1
)

var (
	panelColor  = color.RGBA{0, 0, 0, 170}
	borderColor = color.RGBA{90, 90, 110, 255}
	textColor   = color.RGBA{220, 220, 220, 255}
)

// HelpLines lists the viewer controls.
var HelpLines = []string{
	"W/S/A/D or arrows  move      Q/E  down/up",
	"drag     look      SPACE reset view",
	"1 bird's eye   2 ortho   3 perspective   V toggle",
	"P pause   O orbits   L light markers   M mute",
	"F1 help   F2 screenshot   F11 fullscreen   ESC quit",
}

// Overlay caches the rendered panel until its text changes.
type Overlay struct {
	Visible bool

	text string
	img  *image.RGBA
}

// Image returns the panel for lines, re-rendering only when they differ
// from the previous call. The bool reports whether the image changed.
func (o *Overlay) Image(lines []string) (*image.RGBA, bool) {
	text := strings.Join(lines, "\n")
	if o.img != nil && text == o.text {
		return o.img, false
	}
	o.text = text
	o.img = Render(lines)
	return o.img, true
}

// Render draws lines on a translucent bordered panel sized to fit.
func Render(lines []string) *image.RGBA {
	face := basicfont.Face7x13
	width := 0
	for _, l := range lines {
		if w := font.MeasureString(face, l).Ceil(); w > width {
			width = w
		}
	}
	w := width + 2*Padding
	h := len(lines)*LineHeight + 2*Padding

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(borderColor), image.Point{}, draw.Src)
	inner := image.Rect(border, border, w-border, h-border)
	draw.Draw(img, inner, image.NewUniform(panelColor), image.Point{}, draw.Src)

	d := font.Drawer{Dst: img, Src: image.NewUniform(textColor), Face: face}
	ascent := face.Metrics().Ascent.Ceil()
	for i, l := range lines {
		d.Dot = fixed.P(Padding, Padding+i*LineHeight+ascent)
		d.DrawString(l)
	}
	return img
}
