package presenter

import (
	"image"
	"testing"
	"time"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/interaction"
	"github.com/soocke/shotgroup-go/domain/overlay"
	"github.com/soocke/shotgroup-go/domain/render"
	"github.com/soocke/shotgroup-go/domain/units"
	"github.com/soocke/shotgroup-go/domain/viewport"
	"github.com/soocke/shotgroup-go/ui/model"
)

type fakeCanvas struct {
	frames int
	bounds image.Rectangle
}

func (v *fakeCanvas) ShowFrame(img image.Image) { v.frames++; v.bounds = img.Bounds() }

type fakeStatus struct {
	status  []string
	results [][]string
}

func (v *fakeStatus) SetStatus(s string)       { v.status = append(v.status, s) }
func (v *fakeStatus) SetResults(lines []string) { v.results = append(v.results, lines) }

func (v *fakeStatus) last() string {
	if len(v.status) == 0 {
		return ""
	}
	return v.status[len(v.status)-1]
}

type fakeModeView struct {
	labels []string
	active interaction.Mode
}

func (v *fakeModeView) SetModeLabel(s string)            { v.labels = append(v.labels, s) }
func (v *fakeModeView) SetActiveMode(m interaction.Mode) { v.active = m }

type fakeSessionView struct{ image, total time.Duration }

func (v *fakeSessionView) SetSession(image, total time.Duration) { v.image, v.total = image, total }

type fixture struct {
	ctrl   *interaction.Controller
	frame  *model.FrameModel
	canvas *fakeCanvas
	p      *CanvasPresenter
}

// newFixture shows a 1024² image in a 512² canvas; one display pixel covers
// two image pixels. The reference length is 2 in.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := annotation.DefaultSettings()
	s.ReferenceLength = 2
	m := annotation.New(units.Standard{}, s, 0, nil)
	vp := viewport.New(viewport.DefaultOptions())
	builder := overlay.NewBuilder(overlay.NewPalette(nil), 16)
	ctrl := interaction.New(m, vp, builder, overlay.DefaultStyle(), interaction.DefaultOptions(), nil)
	f := &fixture{ctrl: ctrl, frame: &model.FrameModel{}, canvas: &fakeCanvas{}}
	f.p = NewCanvasPresenter(ctrl, builder, render.New(render.Nearest), f.frame, f.canvas, overlay.DefaultStyle(), 1, nil)
	f.p.Resize(512, 512)
	ctrl.LoadImage(image.NewRGBA(image.Rect(0, 0, 1024, 1024)))
	return f
}

// calibrate drags 100 display px, i.e. 200 image px for 2 in.
func (f *fixture) calibrate(t *testing.T) {
	t.Helper()
	f.p.PointerDown(50, 50)
	f.p.PointerMove(150, 50)
	f.p.PointerUp(150, 50)
	if scale, ok := f.ctrl.Model().Scale(); !ok || scale != 100 {
		t.Fatalf("calibration failed: scale=%v err=%v", scale, f.ctrl.Err())
	}
}
