// Package viewport maps points between image space, the visible source
// rectangle of a pan/zoom view and the rendering buffer.
//
// Three coordinate spaces are involved:
//
//   - image: pixels of the original photo, (0,0) top-left, Y down.
//   - display: logical pixels of the surface the pointer reports in.
//   - buffer: pixels of the backing buffer that is actually drawn into. It is
//     display × device pixel ratio, capped to a maximum dimension.
//
// The visible part of the image (the source rectangle) is drawn into a
// letterboxed destination rectangle inside the buffer so the image is never
// stretched.
package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle with float origin and extent.
type Rect struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() r2.Vec { return r2.Vec{X: r.X + r.W/2, Y: r.Y + r.H/2} }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// FitScale returns the view scale at which the whole image is visible.
func FitScale(display, img Size) float64 {
	if img.W <= 0 || img.H <= 0 || display.W <= 0 || display.H <= 0 {
		return 1
	}
	return math.Min(display.W/img.W, display.H/img.H)
}

// ComputeSourceRect returns the sub-rectangle of the image visible at the
// given centre and scale. The rectangle is display/scale in size, clamped to
// the image and pushed fully inside it. Zero extents become 1 pixel.
func ComputeSourceRect(center r2.Vec, viewScale float64, display, img Size) Rect {
	if viewScale <= 0 {
		viewScale = 1
	}
	w := math.Min(display.W/viewScale, img.W)
	h := math.Min(display.H/viewScale, img.H)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	x := clamp(center.X-w/2, 0, math.Max(0, img.W-w))
	y := clamp(center.Y-h/2, 0, math.Max(0, img.H-h))
	return Rect{X: x, Y: y, W: w, H: h}
}

// Letterbox fits src into a buffer of the given size, preserving aspect
// ratio. The returned rectangle is the destination in buffer pixels.
func Letterbox(src Rect, buffer Size) Rect {
	if src.Empty() || buffer.W <= 0 || buffer.H <= 0 {
		return Rect{W: math.Max(buffer.W, 1), H: math.Max(buffer.H, 1)}
	}
	srcAspect := src.W / src.H
	bufAspect := buffer.W / buffer.H
	if srcAspect > bufAspect {
		h := buffer.W / srcAspect
		return Rect{X: 0, Y: (buffer.H - h) / 2, W: buffer.W, H: h}
	}
	w := buffer.H * srcAspect
	return Rect{X: (buffer.W - w) / 2, Y: 0, W: w, H: buffer.H}
}

// ImageToSurface interpolates p's offset within src into dst.
func ImageToSurface(p r2.Vec, src, dst Rect) r2.Vec {
	return r2.Vec{
		X: dst.X + (p.X-src.X)/src.W*dst.W,
		Y: dst.Y + (p.Y-src.Y)/src.H*dst.H,
	}
}

// SurfaceToImage is the inverse of ImageToSurface. It does not check that p
// lies inside dst.
func SurfaceToImage(p r2.Vec, src, dst Rect) r2.Vec {
	return r2.Vec{
		X: src.X + (p.X-dst.X)/dst.W*src.W,
		Y: src.Y + (p.Y-dst.Y)/dst.H*src.H,
	}
}

// BufferSize returns display × dpr, scaled down uniformly so that neither
// side exceeds maxDim. Sides are whole pixels, at least 1.
func BufferSize(display Size, dpr, maxDim float64) Size {
	if dpr <= 0 {
		dpr = 1
	}
	w, h := display.W*dpr, display.H*dpr
	if maxDim > 0 {
		if m := math.Max(w, h); m > maxDim {
			k := maxDim / m
			w, h = w*k, h*k
		}
	}
	return Size{W: math.Max(1, math.Floor(w)), H: math.Max(1, math.Floor(h))}
}

// ZoomToward returns the centre that keeps the image point under the pointer
// fixed when the scale changes from oldScale to newScale.
func ZoomToward(pointer, center r2.Vec, oldScale, newScale float64) r2.Vec {
	k := oldScale / newScale
	return r2.Sub(pointer, r2.Scale(k, r2.Sub(pointer, center)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
