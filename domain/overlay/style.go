// Package overlay computes what to draw for the annotation model without
// drawing it: hole circles, markers, the reference line and the info boxes
// in surface coordinates. Live rendering and export share it; only the
// Projector and the stroke scale differ.
package overlay

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/viewport"
)

// Projector maps image points onto the drawing surface.
type Projector interface {
	ImageToSurface(p r2.Vec) (r2.Vec, bool)
	BufferToImage(p r2.Vec) (r2.Vec, bool)
	ImagePerBuffer() float64
	Buffer() viewport.Size
}

// Identity projects image pixels 1:1, for full-resolution export.
type Identity struct {
	Size viewport.Size
}

func (p Identity) ImageToSurface(v r2.Vec) (r2.Vec, bool) { return v, true }
func (p Identity) BufferToImage(v r2.Vec) (r2.Vec, bool)  { return v, true }
func (p Identity) ImagePerBuffer() float64                { return 1 }
func (p Identity) Buffer() viewport.Size                  { return p.Size }

var (
	_ Projector = Identity{}
	_ Projector = (*viewport.Viewport)(nil)
)

// Style holds stroke widths and sizes in surface pixels.
type Style struct {
	LineWidth     float64
	MinHoleRadius float64
	MarkerSize    float64
	InfoPadding   float64
	InfoOffset    r2.Vec
	InactiveAlpha float64

	Background color.Color
	Reference  color.Color
	Selected   color.Color
	InfoFill   color.Color
	InfoText   color.Color
}

// DefaultStyle returns the export (unscaled) style.
func DefaultStyle() Style {
	return Style{
		LineWidth:     2,
		MinHoleRadius: 4,
		MarkerSize:    8,
		InfoPadding:   6,
		InfoOffset:    r2.Vec{X: 20, Y: 20},
		InactiveAlpha: 0.45,
		Background:    color.NRGBA{0x20, 0x24, 0x2b, 0xff},
		Reference:     color.NRGBA{0xff, 0xd1, 0x00, 0xff},
		Selected:      color.NRGBA{0x00, 0xe5, 0xff, 0xff},
		InfoFill:      color.NRGBA{0x00, 0x00, 0x00, 0xc0},
		InfoText:      color.NRGBA{0xff, 0xff, 0xff, 0xff},
	}
}

// Scaled multiplies every size by k, for device pixel ratio.
func (s Style) Scaled(k float64) Style {
	if k <= 0 {
		return s
	}
	s.LineWidth *= k
	s.MinHoleRadius *= k
	s.MarkerSize *= k
	s.InfoPadding *= k
	s.InfoOffset = r2.Scale(k, s.InfoOffset)
	return s
}

// Palette assigns a colour to each group.
type Palette struct {
	colors []colorful.Color
}

// NewPalette parses hex colours; invalid entries are skipped.
func NewPalette(hex []string) Palette {
	var p Palette
	for _, h := range hex {
		if c, err := colorful.Hex(h); err == nil {
			p.colors = append(p.colors, c)
		}
	}
	return p
}

// For returns the colour of the group with the given id. Without configured
// colours, hues are spaced by the golden angle.
func (p Palette) For(id int) colorful.Color {
	if id < 1 {
		id = 1
	}
	if len(p.colors) > 0 {
		return p.colors[(id-1)%len(p.colors)]
	}
	hue := float64((id-1)*137) + 8
	for hue >= 360 {
		hue -= 360
	}
	return colorful.Hsv(hue, 0.85, 0.95)
}

// WithAlpha converts c to a non-premultiplied colour with alpha a in [0,1].
func WithAlpha(c colorful.Color, a float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.NRGBA{R: r, G: g, B: b, A: uint8(a*255 + 0.5)}
}
