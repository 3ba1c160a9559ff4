// Package interaction turns pointer and keyboard events into annotation
// edits. A single Mode value plus one drag kind replace independent
// "is dragging" flags, so at most one drag can be in progress.
package interaction

import (
	"image"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/overlay"
	"github.com/soocke/shotgroup-go/domain/viewport"
)

// Controller is the interaction state machine. It is not safe for
// concurrent use; all events arrive on the UI thread.
type Controller struct {
	logger *slog.Logger
	model  *annotation.Model
	vp     *viewport.Viewport
	boxes  *overlay.Builder
	style  overlay.Style
	opts   Options

	mode      Mode
	listeners []ModeListener
	selected  int
	lastErr   error

	// pointer state, display pixels
	down          bool
	downAt, last  r2.Vec
	moved         bool
	drag          dragKind
	suppressClick bool
	infoID        int
	infoGrab      r2.Vec // buffer offset of the pointer inside the info box
}

// New returns a controller in loading mode.
func New(model *annotation.Model, vp *viewport.Viewport, boxes *overlay.Builder, style overlay.Style, opts Options, logger *slog.Logger) *Controller {
	def := DefaultOptions()
	if opts.HitRadiusBufferPx <= 0 {
		opts.HitRadiusBufferPx = def.HitRadiusBufferPx
	}
	if opts.NudgeDisplayPx <= 0 {
		opts.NudgeDisplayPx = def.NudgeDisplayPx
	}
	if opts.DragThresholdDisplayPx < 0 {
		opts.DragThresholdDisplayPx = def.DragThresholdDisplayPx
	}
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = def.ZoomStep
	}
	return &Controller{
		logger:   logger,
		model:    model,
		vp:       vp,
		boxes:    boxes,
		style:    style,
		opts:     opts,
		mode:     ModeLoading,
		selected: -1,
	}
}

// AddListener registers a mode transition listener.
func (c *Controller) AddListener(l ModeListener) {
	if c == nil || l == nil {
		return
	}
	c.listeners = append(c.listeners, l)
}

func (c *Controller) Mode() Mode {
	if c == nil {
		return ModeLoading
	}
	return c.mode
}

func (c *Controller) Model() *annotation.Model     { return c.model }
func (c *Controller) Viewport() *viewport.Viewport { return c.vp }
func (c *Controller) Style() overlay.Style         { return c.style }

// SetStyle replaces the live overlay style used for info-box hit tests.
func (c *Controller) SetStyle(s overlay.Style) { c.style = s }

// Err returns the last calibration error, cleared on success or mode change.
func (c *Controller) Err() error { return c.lastErr }

// Dragging reports whether a drag is in progress.
func (c *Controller) Dragging() bool { return c.drag != dragNone }

// Selected returns the selected hole index in the active group, or -1. The
// index is checked against the group before it is returned.
func (c *Controller) Selected() int {
	g := c.model.Active()
	if g == nil || c.selected < 0 || c.selected >= g.Len() {
		return -1
	}
	return c.selected
}

func (c *Controller) transition(next Mode) {
	prev := c.mode
	if prev == next {
		return
	}
	c.mode = next
	c.resetPointer()
	if c.logger != nil {
		c.logger.Debug("mode transition", "from", prev.String(), "to", next.String())
	}
	for _, l := range c.listeners {
		l(prev, next)
	}
}

func (c *Controller) resetPointer() {
	c.down = false
	c.drag = dragNone
	c.moved = false
	c.suppressClick = false
}

// SetMode switches mode on user request.
func (c *Controller) SetMode(m Mode) error {
	if m == ModeLoading || m.String() == "unknown" {
		return ErrInvalidMode
	}
	if !c.model.HasImage() {
		return ErrNoImage
	}
	if _, ok := c.model.Scale(); m.NeedsScale() && !ok {
		return ErrScaleRequired
	}
	if m == ModeScaling {
		c.lastErr = nil
	}
	c.transition(m)
	return nil
}

// LoadImage starts a new session on img and enters scaling mode. A nil
// image returns to loading.
func (c *Controller) LoadImage(img image.Image) {
	c.model.LoadImage(img)
	c.selected = -1
	c.lastErr = nil
	c.resetPointer()
	if img == nil {
		c.vp.SetImage(viewport.Size{})
		c.transition(ModeLoading)
		return
	}
	w, h := c.model.Size()
	c.vp.SetImage(viewport.Size{W: w, H: h})
	c.transition(ModeScaling)
}

// SetSettings applies settings; losing the scale returns to scaling mode.
func (c *Controller) SetSettings(s annotation.Settings) {
	c.model.SetSettings(s)
	if _, ok := c.model.Scale(); !ok && c.model.HasImage() {
		c.selected = -1
		c.transition(ModeScaling)
	}
}

// Calibrate derives the scale from the current reference line.
func (c *Controller) Calibrate() error {
	scale, err := c.model.CalculateScale()
	if err != nil {
		c.lastErr = err
		if c.logger != nil {
			c.logger.Warn("calibration rejected", "error", err)
		}
		if c.model.HasImage() {
			c.transition(ModeScaling)
		}
		return err
	}
	c.lastErr = nil
	if c.logger != nil {
		c.logger.Debug("calibration accepted", "scale", scale)
	}
	c.transition(ModePlacingHoles)
	return nil
}

// ClearCalibration drops the reference line and scale.
func (c *Controller) ClearCalibration() {
	if !c.model.HasImage() {
		return
	}
	c.model.ClearCalibration()
	c.selected = -1
	c.lastErr = nil
	c.transition(ModeScaling)
}

// PointerDown starts a drag when the pointer is over an info box, over the
// selected hole, or when panning or scaling. It reports whether a drag
// began, in which case the caller should hold pointer capture.
func (c *Controller) PointerDown(p r2.Vec) bool {
	if !c.model.HasImage() || !c.vp.HasImage() {
		return false
	}
	c.resetPointer()
	c.down, c.downAt, c.last = true, p, p
	b := c.vp.DisplayToBuffer(p)

	if id, rect, ok := c.boxes.InfoBoxAt(c.model, c.vp, c.style, b); ok {
		c.infoID = id
		c.infoGrab = r2.Sub(b, r2.Vec{X: rect.X, Y: rect.Y})
		c.beginDrag(dragInfo)
		return true
	}
	if c.mode == ModeSelectingHole && c.overSelected(b) {
		c.beginDrag(dragHole)
		return true
	}
	switch c.mode {
	case ModePanning:
		c.beginDrag(dragPan)
		return true
	case ModeScaling:
		img, ok := c.vp.SurfaceToImage(p)
		if !ok {
			return false
		}
		c.model.BeginReference(img)
		c.beginDrag(dragReference)
		return true
	}
	return false
}

func (c *Controller) beginDrag(k dragKind) {
	c.drag = k
	c.suppressClick = true
	if c.logger != nil {
		c.logger.Debug("drag started", "kind", k.String(), "mode", c.mode.String())
	}
}

func (c *Controller) overSelected(b r2.Vec) bool {
	i := c.Selected()
	if i < 0 {
		return false
	}
	h, _ := c.model.Active().Hole(i)
	img, ok := c.vp.BufferToImage(b)
	if !ok {
		return false
	}
	tol := c.tolerance()
	return r2.Norm2(r2.Sub(img, h.Pixel())) <= tol*tol
}

// tolerance is the hit radius in image pixels; constant on screen at any zoom.
func (c *Controller) tolerance() float64 {
	return c.opts.HitRadiusBufferPx * c.vp.ImagePerBuffer()
}

// PointerMove updates the drag in progress. Movement past the drag
// threshold also suppresses the next click.
func (c *Controller) PointerMove(p r2.Vec) {
	if !c.down {
		return
	}
	delta := r2.Sub(p, c.last)
	c.last = p
	if !c.moved && r2.Norm(r2.Sub(p, c.downAt)) > c.opts.DragThresholdDisplayPx {
		c.moved = true
		c.suppressClick = true
	}
	b := c.vp.DisplayToBuffer(p)
	switch c.drag {
	case dragPan:
		c.vp.PanBy(delta)
	case dragReference:
		if img, ok := c.vp.BufferToImage(b); ok {
			c.model.SetReferenceEnd(img)
		}
	case dragHole:
		if img, ok := c.vp.BufferToImage(b); ok {
			c.model.MoveHole(c.Selected(), img)
		}
	case dragInfo:
		if a, ok := c.boxes.AnchorFor(c.vp, c.style, r2.Sub(b, c.infoGrab)); ok {
			c.model.MoveInfoAnchor(c.infoID, a)
		}
	}
}

// PointerUp ends the drag. Releasing a reference-line drag attempts
// calibration.
func (c *Controller) PointerUp(p r2.Vec) {
	if !c.down {
		return
	}
	if p != c.last {
		c.PointerMove(p)
	}
	kind := c.drag
	c.down = false
	c.drag = dragNone
	if kind == dragReference {
		_ = c.Calibrate()
		// the transition reset the pointer state; the release must not click
		c.suppressClick = true
	}
}

// CaptureLost clears a drag whose capture was revoked, as an implicit
// pointer-up at the last known position.
func (c *Controller) CaptureLost() {
	if !c.down {
		return
	}
	if c.logger != nil {
		c.logger.Debug("pointer capture lost", "drag", c.drag.String())
	}
	c.PointerUp(c.last)
}

// Click evaluates a click against the current mode unless the preceding
// press turned into a drag. It reports whether the model changed.
func (c *Controller) Click(p r2.Vec) bool {
	if c.suppressClick {
		c.suppressClick = false
		return false
	}
	if !c.model.HasImage() {
		return false
	}
	img, ok := c.vp.SurfaceToImage(p)
	if !ok {
		return false
	}
	switch c.mode {
	case ModePlacingHoles:
		i, ok := c.model.AddHole(img)
		if ok {
			c.selected = i
		}
		return ok
	case ModePlacingAim:
		if c.model.SetAim(img) {
			c.transition(ModePlacingHoles)
			return true
		}
	case ModeSelectingHole:
		prev := c.selected
		c.selected = c.hitTest(img)
		return prev != c.selected
	}
	return false
}

// hitTest returns the closest hole of the active group within tolerance.
// Equal distances resolve to the most recently placed hole.
func (c *Controller) hitTest(img r2.Vec) int {
	g := c.model.Active()
	if g == nil {
		return -1
	}
	tol := c.tolerance()
	best, bestD := -1, tol*tol
	for i, h := range g.Holes() {
		if d := r2.Norm2(r2.Sub(img, h.Pixel())); d <= bestD {
			best, bestD = i, d
		}
	}
	return best
}

// Wheel zooms toward p by ZoomStep per notch; positive notches zoom in.
func (c *Controller) Wheel(p r2.Vec, notches int) bool {
	if notches == 0 {
		return false
	}
	return c.vp.ZoomAt(p, math.Pow(c.opts.ZoomStep, float64(notches)))
}

// ZoomToFit resets the viewport.
func (c *Controller) ZoomToFit() {
	if c.vp.HasImage() {
		c.vp.ResetToFit()
	}
}

// KeyDown handles keyboard commands and reports whether anything changed.
func (c *Controller) KeyDown(k Key) bool {
	center := r2.Scale(0.5, r2.Vec{X: c.vp.Display().W, Y: c.vp.Display().H})
	switch k {
	case KeyZoomIn:
		return c.Wheel(center, 1)
	case KeyZoomOut:
		return c.Wheel(center, -1)
	case KeyZoomFit:
		c.ZoomToFit()
		return true
	case KeyEscape:
		changed := c.selected >= 0
		c.selected = -1
		return changed
	}
	if c.mode != ModeSelectingHole {
		return false
	}
	i := c.Selected()
	if i < 0 {
		c.selected = -1
		return false
	}
	step := c.opts.NudgeDisplayPx * c.vp.ImagePerDisplay()
	var d r2.Vec
	switch k {
	case KeyLeft:
		d.X = -step
	case KeyRight:
		d.X = step
	case KeyUp:
		d.Y = -step
	case KeyDown:
		d.Y = step
	case KeyDelete:
		return c.deleteSelected(i)
	default:
		return false
	}
	h, _ := c.model.Active().Hole(i)
	return c.model.MoveHole(i, r2.Add(h.Pixel(), d))
}

func (c *Controller) deleteSelected(i int) bool {
	g := c.model.Active()
	if !c.model.RemoveHole(i) {
		return false
	}
	switch n := g.Len(); {
	case n == 0:
		c.selected = -1
	case i >= n:
		c.selected = n - 1
	}
	return true
}

// AddGroup creates a new active group.
func (c *Controller) AddGroup() bool {
	if c.model.AddGroup() == nil {
		return false
	}
	c.selected = -1
	return true
}

// DeleteActiveGroup removes the active group.
func (c *Controller) DeleteActiveGroup() bool {
	g := c.model.Active()
	if g == nil {
		return false
	}
	c.boxes.Forget(g.ID())
	c.selected = -1
	return c.model.DeleteGroup(g.ID())
}

// CycleGroup moves the active group by step.
func (c *Controller) CycleGroup(step int) {
	c.model.CycleActive(step)
	c.selected = -1
}

// ClearAim removes the active group's aiming point.
func (c *Controller) ClearAim() bool { return c.model.ClearAim() }

// ClearHoles removes all holes of the active group.
func (c *Controller) ClearHoles() bool {
	c.selected = -1
	return c.model.ClearHoles()
}
