package interaction

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/overlay"
	"github.com/soocke/shotgroup-go/domain/units"
	"github.com/soocke/shotgroup-go/domain/viewport"
)

// newController returns a controller over a 1024² image shown in a 512²
// display, so one display pixel covers two image pixels.
func newController(t *testing.T) *Controller {
	t.Helper()
	s := annotation.DefaultSettings()
	s.ReferenceLength = 2
	m := annotation.New(units.Standard{}, s, 0, nil)
	vp := viewport.New(viewport.DefaultOptions())
	vp.Resize(viewport.Size{W: 512, H: 512}, 1)
	c := New(m, vp, overlay.NewBuilder(overlay.NewPalette(nil), 16), overlay.DefaultStyle(), DefaultOptions(), nil)
	c.LoadImage(image.NewRGBA(image.Rect(0, 0, 1024, 1024)))
	return c
}

func drag(c *Controller, from, to r2.Vec) bool {
	c.PointerDown(from)
	c.PointerMove(to)
	c.PointerUp(to)
	return c.Click(to)
}

// calibrate draws a 200 px reference line for 2 in, i.e. 100 px/in.
func calibrate(t *testing.T, c *Controller) {
	t.Helper()
	require.Equal(t, ModeScaling, c.Mode())
	drag(c, r2.Vec{X: 50, Y: 50}, r2.Vec{X: 150, Y: 50})
	scale, ok := c.Model().Scale()
	require.True(t, ok, "calibration failed: %v", c.Err())
	require.Equal(t, 100.0, scale)
}

func TestController_LoadImageEntersScaling(t *testing.T) {
	s := annotation.DefaultSettings()
	m := annotation.New(units.Standard{}, s, 0, nil)
	vp := viewport.New(viewport.DefaultOptions())
	c := New(m, vp, overlay.NewBuilder(overlay.NewPalette(nil), 4), overlay.DefaultStyle(), Options{}, nil)

	var got []string
	c.AddListener(func(prev, next Mode) { got = append(got, prev.String()+"->"+next.String()) })
	assert.Equal(t, ModeLoading, c.Mode())
	assert.ErrorIs(t, c.SetMode(ModePanning), ErrNoImage)

	c.LoadImage(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	assert.Equal(t, ModeScaling, c.Mode())
	assert.Equal(t, []string{"loading->scaling"}, got)
	assert.Len(t, m.Groups(), 1)
}

func TestController_ModesRequireScale(t *testing.T) {
	c := newController(t)
	assert.ErrorIs(t, c.SetMode(ModePlacingHoles), ErrScaleRequired)
	assert.ErrorIs(t, c.SetMode(ModeSelectingHole), ErrScaleRequired)
	assert.ErrorIs(t, c.SetMode(ModeLoading), ErrInvalidMode)
	assert.NoError(t, c.SetMode(ModePanning))
	assert.Equal(t, ModePanning, c.Mode())
}

func TestController_CalibrationDrag(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	assert.Equal(t, ModePlacingHoles, c.Mode())
	assert.Equal(t, 0, c.Model().Active().Len(), "release of the reference drag must not place a hole")
	assert.False(t, c.Dragging())
}

func TestController_DegenerateReferenceLineRejected(t *testing.T) {
	c := newController(t)
	drag(c, r2.Vec{X: 50, Y: 50}, r2.Vec{X: 51, Y: 50})
	assert.Equal(t, ModeScaling, c.Mode())
	assert.ErrorIs(t, c.Err(), annotation.ErrDegenerateReferenceLine)
	_, ok := c.Model().Scale()
	assert.False(t, ok)
}

func TestController_FailedRecalibrationKeepsLineAndScale(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	before := c.Model().Reference()

	require.NoError(t, c.SetMode(ModeScaling))
	drag(c, r2.Vec{X: 300, Y: 300}, r2.Vec{X: 301, Y: 300})
	assert.ErrorIs(t, c.Err(), annotation.ErrDegenerateReferenceLine)
	assert.Equal(t, ModeScaling, c.Mode())
	scale, ok := c.Model().Scale()
	assert.True(t, ok)
	assert.Equal(t, 100.0, scale)
	assert.Equal(t, before, c.Model().Reference())
}

func TestController_ClickSuppressedAfterDragThreshold(t *testing.T) {
	c := newController(t)
	calibrate(t, c)

	assert.False(t, drag(c, r2.Vec{X: 100, Y: 100}, r2.Vec{X: 110, Y: 100}))
	assert.Equal(t, 0, c.Model().Active().Len())

	assert.True(t, drag(c, r2.Vec{X: 100, Y: 100}, r2.Vec{X: 102, Y: 100}))
	g := c.Model().Active()
	require.Equal(t, 1, g.Len())
	h, _ := g.Hole(0)
	assert.Equal(t, r2.Vec{X: 204, Y: 200}, h.Pixel())
	assert.Equal(t, 0, c.Selected(), "a placed hole becomes selected")
}

func TestController_ClickInLetterboxIgnored(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	c.Viewport().Resize(viewport.Size{W: 1024, H: 512}, 1)
	// Image is drawn at x in [256,768]; x=10 is padding.
	assert.False(t, c.Click(r2.Vec{X: 10, Y: 100}))
	assert.Equal(t, 0, c.Model().Active().Len())
}

func TestController_SelectTieBreaksToNewestHole(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	m := c.Model()
	m.AddHole(r2.Vec{X: 100, Y: 100})
	m.AddHole(r2.Vec{X: 110, Y: 100})
	require.NoError(t, c.SetMode(ModeSelectingHole))

	// Display (52.5, 50) is image (105, 100): equidistant from both holes.
	assert.True(t, c.Click(r2.Vec{X: 52.5, Y: 50}))
	assert.Equal(t, 1, c.Selected())

	// Far away clears the selection.
	c.Click(r2.Vec{X: 400, Y: 400})
	assert.Equal(t, -1, c.Selected())
}

func TestController_HitToleranceScalesWithZoom(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	c.Model().AddHole(r2.Vec{X: 100, Y: 100})
	require.NoError(t, c.SetMode(ModeSelectingHole))

	// 12 buffer px = 24 image px at fit; 20 image px away is a hit.
	c.Click(r2.Vec{X: 60, Y: 50})
	assert.Equal(t, 0, c.Selected())
	// 30 image px away is a miss.
	c.Click(r2.Vec{X: 65, Y: 50})
	assert.Equal(t, -1, c.Selected())
}

func TestController_NudgeAndDelete(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	m := c.Model()
	m.AddHole(r2.Vec{X: 100, Y: 100})
	m.AddHole(r2.Vec{X: 300, Y: 300})
	require.NoError(t, c.SetMode(ModeSelectingHole))
	c.Click(r2.Vec{X: 150, Y: 150})
	require.Equal(t, 1, c.Selected())

	assert.True(t, c.KeyDown(KeyRight))
	assert.True(t, c.KeyDown(KeyUp))
	h, _ := m.Active().Hole(1)
	assert.Equal(t, r2.Vec{X: 302, Y: 298}, h.Pixel(), "1 display px is 2 image px")

	assert.True(t, c.KeyDown(KeyDelete))
	assert.Equal(t, 1, m.Active().Len())
	assert.Equal(t, 0, c.Selected(), "selection clamps to the last hole")
	assert.True(t, c.KeyDown(KeyDelete))
	assert.Equal(t, -1, c.Selected())
	assert.False(t, c.KeyDown(KeyDelete))
}

func TestController_NudgeClampsToImage(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	c.Model().AddHole(r2.Vec{X: 1, Y: 1})
	require.NoError(t, c.SetMode(ModeSelectingHole))
	c.Click(r2.Vec{X: 0.5, Y: 0.5})
	require.Equal(t, 0, c.Selected())
	c.KeyDown(KeyLeft)
	h, _ := c.Model().Active().Hole(0)
	assert.Equal(t, r2.Vec{X: 0, Y: 1}, h.Pixel())
}

func TestController_DragSelectedHole(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	c.Model().AddHole(r2.Vec{X: 200, Y: 200})
	require.NoError(t, c.SetMode(ModeSelectingHole))
	c.Click(r2.Vec{X: 100, Y: 100})
	require.Equal(t, 0, c.Selected())

	require.True(t, c.PointerDown(r2.Vec{X: 100, Y: 100}))
	c.PointerMove(r2.Vec{X: 150, Y: 100})
	assert.True(t, c.Dragging())
	h, _ := c.Model().Active().Hole(0)
	assert.Equal(t, r2.Vec{X: 300, Y: 200}, h.Pixel(), "moves live")
	c.PointerUp(r2.Vec{X: 150, Y: 100})
	assert.False(t, c.Click(r2.Vec{X: 150, Y: 100}))
	assert.Equal(t, 0, c.Selected())
}

func TestController_DragInfoBoxTakesPriority(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	c.Model().AddHole(r2.Vec{X: 200, Y: 200})
	g := c.Model().Active()
	anchor, ok := g.InfoAnchor()
	require.True(t, ok)
	require.Equal(t, r2.Vec{X: 200, Y: 200}, anchor)

	// Anchor maps to buffer (100,100); the box starts at (120,120).
	require.True(t, c.PointerDown(r2.Vec{X: 125, Y: 125}))
	c.PointerMove(r2.Vec{X: 135, Y: 145})
	c.PointerUp(r2.Vec{X: 135, Y: 145})
	assert.False(t, c.Click(r2.Vec{X: 135, Y: 145}))

	anchor, _ = g.InfoAnchor()
	assert.Equal(t, r2.Vec{X: 220, Y: 240}, anchor)
	assert.Equal(t, 1, g.Len(), "info drag must not place a hole")
}

func TestController_PanAndCaptureLost(t *testing.T) {
	c := newController(t)
	vp := c.Viewport()
	require.True(t, vp.ZoomAt(r2.Vec{X: 256, Y: 256}, 2))
	require.NoError(t, c.SetMode(ModePanning))
	start := vp.Center()

	require.True(t, c.PointerDown(r2.Vec{X: 100, Y: 100}))
	c.PointerMove(r2.Vec{X: 90, Y: 100})
	assert.InDelta(t, start.X+10, vp.Center().X, 1e-9, "view moves opposite to the pointer")

	c.CaptureLost()
	assert.False(t, c.Dragging())
	c.PointerMove(r2.Vec{X: 0, Y: 0})
	assert.InDelta(t, start.X+10, vp.Center().X, 1e-9, "no pan after capture loss")
}

func TestController_PlacingAimReturnsToHoles(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	c.Click(r2.Vec{X: 100, Y: 100})
	require.NoError(t, c.SetMode(ModePlacingAim))
	assert.True(t, c.Click(r2.Vec{X: 50, Y: 50}))
	assert.Equal(t, ModePlacingHoles, c.Mode())

	res, ok := c.Model().Active().Results()
	require.True(t, ok)
	require.NotNil(t, res.Offset)
	assert.InDelta(t, 315, res.Offset.Bearing, 1e-9, "centroid is down-right of the aim")
	assert.True(t, c.ClearAim())
	res, _ = c.Model().Active().Results()
	assert.Nil(t, res.Offset)
}

func TestController_ReferenceUnitChangeReturnsToScaling(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	s := c.Model().Settings()
	s.TargetDistance = 50
	c.SetSettings(s)
	assert.Equal(t, ModePlacingHoles, c.Mode())

	s.ReferenceUnit = units.Millimeters
	c.SetSettings(s)
	assert.Equal(t, ModeScaling, c.Mode())
}

func TestController_GroupCommands(t *testing.T) {
	c := newController(t)
	calibrate(t, c)
	first := c.Model().Active().ID()
	assert.True(t, c.AddGroup())
	assert.NotEqual(t, first, c.Model().Active().ID())
	c.CycleGroup(1)
	assert.Equal(t, first, c.Model().Active().ID())
	assert.True(t, c.DeleteActiveGroup())
	assert.Len(t, c.Model().Groups(), 1)
	assert.True(t, c.DeleteActiveGroup())
	assert.Len(t, c.Model().Groups(), 1, "the group list is never empty")
}

func TestController_WheelZoom(t *testing.T) {
	c := newController(t)
	assert.False(t, c.Wheel(r2.Vec{X: 10, Y: 10}, -1), "cannot zoom out past fit")
	assert.True(t, c.Wheel(r2.Vec{X: 10, Y: 10}, 1))
	assert.InDelta(t, 0.625, c.Viewport().Scale(), 1e-12)
	assert.True(t, c.KeyDown(KeyZoomFit))
	assert.InDelta(t, 0.5, c.Viewport().Scale(), 1e-12)
}

func TestParseKey(t *testing.T) {
	assert.Equal(t, KeyDelete, ParseKey("BackSpace"))
	assert.Equal(t, KeyDelete, ParseKey("Delete"))
	assert.Equal(t, KeyZoomIn, ParseKey("plus"))
	assert.Equal(t, KeyLeft, ParseKey("Left"))
	assert.Equal(t, KeyNone, ParseKey("q"))
}
