package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Options tune zoom limits and buffer geometry.
type Options struct {
	MinZoom      float64
	MaxZoom      float64
	MaxBufferDim float64
}

// DefaultOptions returns the limits used when none are configured.
func DefaultOptions() Options {
	return Options{MinZoom: 0.05, MaxZoom: 40, MaxBufferDim: 4096}
}

// Viewport holds the pan/zoom state and the geometry cached by the last
// Update. The cached source and destination rectangles are the authority for
// converting pointer positions back to image coordinates.
type Viewport struct {
	opts Options

	image   Size
	display Size
	buffer  Size
	dpr     float64

	center r2.Vec
	scale  float64

	src, dst Rect
	computed bool
}

// New returns a viewport with no image and a 1×1 display.
func New(opts Options) *Viewport {
	if opts.MaxZoom <= 0 {
		opts.MaxZoom = DefaultOptions().MaxZoom
	}
	if opts.MinZoom <= 0 || opts.MinZoom > opts.MaxZoom {
		opts.MinZoom = math.Min(DefaultOptions().MinZoom, opts.MaxZoom)
	}
	v := &Viewport{opts: opts, dpr: 1, scale: 1, display: Size{1, 1}}
	v.buffer = BufferSize(v.display, v.dpr, opts.MaxBufferDim)
	return v
}

// SetImage installs a new image size and resets the view to fit.
func (v *Viewport) SetImage(img Size) {
	v.image = img
	v.computed = false
	if !v.HasImage() {
		return
	}
	v.ResetToFit()
}

// HasImage reports whether an image size has been set.
func (v *Viewport) HasImage() bool { return v.image.W > 0 && v.image.H > 0 }

// Resize recomputes the buffer for a new display size and pixel ratio,
// then resets the view to fit.
func (v *Viewport) Resize(display Size, dpr float64) {
	if display.W < 1 {
		display.W = 1
	}
	if display.H < 1 {
		display.H = 1
	}
	if dpr <= 0 {
		dpr = 1
	}
	v.display, v.dpr = display, dpr
	v.buffer = BufferSize(display, dpr, v.opts.MaxBufferDim)
	v.computed = false
	if v.HasImage() {
		v.ResetToFit()
	}
}

// ResetToFit centres the image at fit scale.
func (v *Viewport) ResetToFit() {
	v.center = r2.Vec{X: v.image.W / 2, Y: v.image.H / 2}
	v.scale = v.MinZoom()
	v.Update()
}

// MinZoom is the configured minimum, floored to the fit scale.
func (v *Viewport) MinZoom() float64 {
	return math.Max(v.opts.MinZoom, math.Min(FitScale(v.display, v.image), v.opts.MaxZoom))
}

// MaxZoom returns the configured maximum.
func (v *Viewport) MaxZoom() float64 { return v.opts.MaxZoom }

func (v *Viewport) Image() Size               { return v.image }
func (v *Viewport) Display() Size             { return v.display }
func (v *Viewport) Buffer() Size              { return v.buffer }
func (v *Viewport) DevicePixelRatio() float64 { return v.dpr }
func (v *Viewport) Center() r2.Vec            { return v.center }
func (v *Viewport) Scale() float64            { return v.scale }

// Update recomputes and caches the source and destination rectangles. The
// centre is clamped so that it matches the (clamped) source rectangle.
func (v *Viewport) Update() (src, dst Rect) {
	if !v.HasImage() {
		v.computed = false
		return Rect{}, Rect{}
	}
	v.src = ComputeSourceRect(v.center, v.scale, v.display, v.image)
	v.dst = Letterbox(v.src, v.buffer)
	v.center = v.src.Center()
	v.computed = true
	return v.src, v.dst
}

// SourceRect returns the cached source rectangle.
func (v *Viewport) SourceRect() (Rect, bool) { return v.src, v.computed }

// Destination returns the cached letterboxed destination rectangle.
func (v *Viewport) Destination() (Rect, bool) { return v.dst, v.computed }

// ImageToSurface maps an image point into buffer pixels.
func (v *Viewport) ImageToSurface(p r2.Vec) (r2.Vec, bool) {
	if !v.computed {
		return r2.Vec{}, false
	}
	return ImageToSurface(p, v.src, v.dst), true
}

// DisplayToBuffer converts a pointer position into buffer pixels.
func (v *Viewport) DisplayToBuffer(p r2.Vec) r2.Vec {
	return r2.Vec{X: p.X * v.buffer.W / v.display.W, Y: p.Y * v.buffer.H / v.display.H}
}

// SurfaceToImage maps a pointer position (display pixels) to an image point.
// It fails when no source rectangle has been computed or when the pointer
// is over the letterbox padding.
func (v *Viewport) SurfaceToImage(p r2.Vec) (r2.Vec, bool) {
	if !v.computed {
		return r2.Vec{}, false
	}
	b := v.DisplayToBuffer(p)
	if !v.dst.Contains(b) {
		return r2.Vec{}, false
	}
	return SurfaceToImage(b, v.src, v.dst), true
}

// BufferToImage maps a buffer point to image space without the letterbox
// containment check. Points outside extrapolate linearly.
func (v *Viewport) BufferToImage(b r2.Vec) (r2.Vec, bool) {
	if !v.computed {
		return r2.Vec{}, false
	}
	return SurfaceToImage(b, v.src, v.dst), true
}

// ImagePerBuffer is the number of image pixels covered by one buffer pixel.
func (v *Viewport) ImagePerBuffer() float64 {
	if !v.computed || v.dst.W <= 0 {
		return 1
	}
	return v.src.W / v.dst.W
}

// BufferPerDisplay is the buffer/display ratio along X.
func (v *Viewport) BufferPerDisplay() float64 { return v.buffer.W / v.display.W }

// ImagePerDisplay converts a length in display pixels into image pixels.
func (v *Viewport) ImagePerDisplay() float64 { return v.BufferPerDisplay() * v.ImagePerBuffer() }

// ZoomAt multiplies the scale by factor while keeping the image point under
// the pointer (display pixels) in place. It reports whether the scale changed.
func (v *Viewport) ZoomAt(pointer r2.Vec, factor float64) bool {
	if !v.HasImage() || factor <= 0 {
		return false
	}
	if !v.computed {
		v.Update()
	}
	next := clamp(v.scale*factor, v.MinZoom(), v.opts.MaxZoom)
	if next == v.scale {
		return false
	}
	anchor, _ := v.BufferToImage(v.DisplayToBuffer(pointer))
	v.center = ZoomToward(anchor, v.center, v.scale, next)
	v.scale = next
	v.Update()
	return true
}

// PanBy moves the view opposite to a pointer delta given in display pixels.
func (v *Viewport) PanBy(delta r2.Vec) {
	if !v.HasImage() {
		return
	}
	if !v.computed {
		v.Update()
	}
	k := v.ImagePerDisplay()
	v.center = r2.Sub(v.center, r2.Scale(k, delta))
	v.Update()
}

// ClampToImage clamps p to the image bounds.
func (v *Viewport) ClampToImage(p r2.Vec) r2.Vec {
	return r2.Vec{X: clamp(p.X, 0, v.image.W), Y: clamp(p.Y, 0, v.image.H)}
}
