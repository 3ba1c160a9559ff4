package presenter

import (
	"image"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/interaction"
	"github.com/soocke/shotgroup-go/domain/overlay"
	"github.com/soocke/shotgroup-go/domain/render"
	"github.com/soocke/shotgroup-go/domain/viewport"
	"github.com/soocke/shotgroup-go/ui/model"
)

// CanvasView shows a rendered frame.
type CanvasView interface {
	ShowFrame(img image.Image)
}

// CanvasPresenter forwards raw canvas events to the controller and redraws
// the frame on the next tick when anything changed. Positions are display
// pixels relative to the canvas widget.
type CanvasPresenter struct {
	ctrl     *interaction.Controller
	builder  *overlay.Builder
	renderer *render.Renderer
	frame    *model.FrameModel
	view     CanvasView
	base     overlay.Style
	dpr      float64
	logger   *slog.Logger

	buf *image.RGBA
}

// NewCanvasPresenter returns a presenter drawing with base style scaled to
// the buffer resolution.
func NewCanvasPresenter(ctrl *interaction.Controller, builder *overlay.Builder, renderer *render.Renderer, frame *model.FrameModel, view CanvasView, base overlay.Style, dpr float64, logger *slog.Logger) *CanvasPresenter {
	if dpr <= 0 {
		dpr = 1
	}
	return &CanvasPresenter{ctrl: ctrl, builder: builder, renderer: renderer, frame: frame, view: view, base: base, dpr: dpr, logger: logger}
}

func (p *CanvasPresenter) ok() bool { return p != nil && p.ctrl != nil }

// Resize adopts a new display size.
func (p *CanvasPresenter) Resize(w, h int) {
	if !p.ok() || w <= 0 || h <= 0 {
		return
	}
	vp := p.ctrl.Viewport()
	if d := vp.Display(); int(d.W) == w && int(d.H) == h {
		return
	}
	vp.Resize(viewport.Size{W: float64(w), H: float64(h)}, p.dpr)
	p.ctrl.SetStyle(p.base.Scaled(vp.BufferPerDisplay()))
	p.frame.MarkDirty()
	if p.logger != nil {
		b := vp.Buffer()
		p.logger.Debug("canvas resized", "width", w, "height", h, "buffer_w", b.W, "buffer_h", b.H)
	}
}

func (p *CanvasPresenter) PointerDown(x, y float64) {
	if !p.ok() {
		return
	}
	if p.ctrl.PointerDown(r2.Vec{X: x, Y: y}) {
		p.frame.MarkDirty()
	}
}

func (p *CanvasPresenter) PointerMove(x, y float64) {
	if !p.ok() {
		return
	}
	p.ctrl.PointerMove(r2.Vec{X: x, Y: y})
	if p.ctrl.Dragging() {
		p.frame.MarkDirty()
	}
}

// PointerUp ends any drag, then evaluates the release as a click. The
// controller drops the click when a drag just ended.
func (p *CanvasPresenter) PointerUp(x, y float64) {
	if !p.ok() {
		return
	}
	v := r2.Vec{X: x, Y: y}
	p.ctrl.PointerUp(v)
	p.ctrl.Click(v)
	p.frame.MarkDirty()
}

// CaptureLost ends a drag when the window loses the pointer grab.
func (p *CanvasPresenter) CaptureLost() {
	if !p.ok() || !p.ctrl.Dragging() {
		return
	}
	p.ctrl.CaptureLost()
	p.frame.MarkDirty()
}

func (p *CanvasPresenter) Wheel(x, y float64, notches int) {
	if !p.ok() {
		return
	}
	if p.ctrl.Wheel(r2.Vec{X: x, Y: y}, notches) {
		p.frame.MarkDirty()
	}
}

// Key handles a Tk keysym.
func (p *CanvasPresenter) Key(keysym string) {
	if !p.ok() {
		return
	}
	k := interaction.ParseKey(keysym)
	if k == interaction.KeyNone {
		return
	}
	if p.ctrl.KeyDown(k) {
		p.frame.MarkDirty()
	}
}

// Invalidate requests a redraw.
func (p *CanvasPresenter) Invalidate() {
	if p != nil {
		p.frame.MarkDirty()
	}
}

// Tick redraws when a change is pending.
func (p *CanvasPresenter) Tick() {
	if !p.ok() || !p.frame.TakeDirty() {
		return
	}
	p.Render()
}

// Render draws the current state into the view.
func (p *CanvasPresenter) Render() {
	if !p.ok() || p.view == nil {
		return
	}
	vp := p.ctrl.Viewport()
	src, dst := vp.Update()
	sc := p.builder.Build(p.ctrl.Model(), vp, p.ctrl.Style(), p.ctrl.Selected())
	w, h := int(sc.Bounds.W), int(sc.Bounds.H)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if p.buf == nil || p.buf.Bounds().Dx() != w || p.buf.Bounds().Dy() != h {
		p.buf = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	p.renderer.Draw(p.buf, p.ctrl.Model().Image(), src, dst, sc)
	p.view.ShowFrame(p.buf)
	p.frame.Drawn()
}
