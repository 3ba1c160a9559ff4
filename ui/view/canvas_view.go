package view

import (
	"image"
	"strconv"

	"github.com/soocke/shotgroup-go/ui/images"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// CanvasEvents receives raw pointer and keyboard events in canvas pixels.
type CanvasEvents interface {
	PointerDown(x, y float64)
	PointerMove(x, y float64)
	PointerUp(x, y float64)
	CaptureLost()
	Wheel(x, y float64, notches int)
	Key(keysym string)
	Resize(w, h int)
}

// PhotoCanvas shows rendered frames in a borderless label so that event
// coordinates are canvas pixels.
type PhotoCanvas interface {
	ShowFrame(img image.Image)
	Bind(ev CanvasEvents)
}

var _ PhotoCanvas = (*canvasView)(nil)

type canvasView struct {
	label *LabelWidget
	photo *Img // last Tk photo image instance
}

// NewCanvas creates the canvas label with a blank w×h frame and grids it.
// The grid cell stretches with the window.
func NewCanvas(row, col, w, h int) PhotoCanvas {
	photo := NewPhoto(Data(images.EncodePNG(image.NewRGBA(image.Rect(0, 0, w, h)))))
	lbl := Label(Image(photo), Borderwidth(0), Padx(0), Pady(0), Anchor("nw"))
	Grid(lbl, Row(row), Column(col), Sticky("nsew"), Padx("0.4m"), Pady("0.4m"))
	GridRowConfigure(App, row, Weight(1))
	GridColumnConfigure(App, col, Weight(1))
	return &canvasView{label: lbl, photo: photo}
}

// ShowFrame replaces the displayed photo. The previous photo is deleted so
// obsolete pixel buffers are not retained.
func (v *canvasView) ShowFrame(img image.Image) {
	if v == nil || v.label == nil || img == nil {
		return
	}
	pngBytes := images.EncodePNG(img)
	if len(pngBytes) == 0 {
		return
	}
	if v.photo != nil {
		v.photo.Delete()
	}
	v.photo = NewPhoto(Data(pngBytes))
	v.label.Configure(Image(v.photo))
}

// Bind routes button 1 presses, drags and releases, X11 wheel buttons,
// key presses and size changes to ev. A press focuses the canvas so keys
// typed into the settings fields do not reach it. Focus loss is reported as
// a lost pointer capture.
func (v *canvasView) Bind(ev CanvasEvents) {
	if v == nil || v.label == nil || ev == nil {
		return
	}
	Bind(v.label, "<ButtonPress-1>", Command(func(e *Event) {
		Focus(v.label)
		x, y := pointer(e)
		ev.PointerDown(x, y)
	}))
	Bind(v.label, "<B1-Motion>", Command(func(e *Event) {
		x, y := pointer(e)
		ev.PointerMove(x, y)
	}))
	Bind(v.label, "<ButtonRelease-1>", Command(func(e *Event) {
		x, y := pointer(e)
		ev.PointerUp(x, y)
	}))
	Bind(v.label, "<Button-4>", Command(func(e *Event) {
		x, y := pointer(e)
		ev.Wheel(x, y, 1)
	}))
	Bind(v.label, "<Button-5>", Command(func(e *Event) {
		x, y := pointer(e)
		ev.Wheel(x, y, -1)
	}))
	Bind(v.label, "<KeyPress>", Command(func(e *Event) { ev.Key(e.Keysym) }))
	Bind(v.label, "<FocusOut>", Command(func() { ev.CaptureLost() }))
	Bind(v.label, "<Configure>", Command(func(e *Event) {
		if w, h, ok := eventSize(e); ok {
			ev.Resize(w, h)
		}
	}))
}

// eventSize parses the %w %h substitution of a Configure event.
func eventSize(e *Event) (w, h int, ok bool) {
	if e == nil {
		return 0, 0, false
	}
	w, errW := strconv.Atoi(e.Width)
	h, errH := strconv.Atoi(e.Height)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// pointer returns the %x %y substitution of e.
func pointer(e *Event) (float64, float64) {
	return float64(e.X), float64(e.Y)
}
