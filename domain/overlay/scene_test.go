package overlay

import (
	"image"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/units"
	"github.com/soocke/shotgroup-go/domain/viewport"
)

func calibrated(t *testing.T) *annotation.Model {
	t.Helper()
	s := annotation.DefaultSettings()
	s.ReferenceLength = 2
	m := annotation.New(units.Standard{}, s, 0, nil)
	m.LoadImage(image.NewRGBA(image.Rect(0, 0, 1000, 1000)))
	m.BeginReference(r2.Vec{X: 100, Y: 100})
	m.SetReferenceEnd(r2.Vec{X: 300, Y: 100})
	if _, err := m.CalculateScale(); err != nil {
		t.Fatalf("calibrate: %v", err)
	}
	return m
}

func TestBuild_EmptyModel(t *testing.T) {
	b := NewBuilder(NewPalette(nil), 8)
	proj := Identity{Size: viewport.Size{W: 10, H: 10}}
	sc := b.Build(annotation.New(units.Standard{}, annotation.DefaultSettings(), 0, nil), proj, DefaultStyle(), -1)
	if sc.Reference != nil || len(sc.Groups) != 0 {
		t.Fatalf("expected empty scene, got %+v", sc)
	}
}

func TestBuild_GroupGeometry(t *testing.T) {
	m := calibrated(t)
	m.AddHole(r2.Vec{X: 0, Y: 0})
	m.AddHole(r2.Vec{X: 300, Y: 400})

	b := NewBuilder(NewPalette(nil), 8)
	style := DefaultStyle()
	sc := b.Build(m, Identity{Size: viewport.Size{W: 1000, H: 1000}}, style, 1)

	if diff := cmp.Diff(&Segment{A: r2.Vec{X: 100, Y: 100}, B: r2.Vec{X: 300, Y: 100}}, sc.Reference); diff != "" {
		t.Fatalf("reference mismatch (-want +got):\n%s", diff)
	}
	if len(sc.Groups) != 1 {
		t.Fatalf("expected one group, got %d", len(sc.Groups))
	}
	g := sc.Groups[0]
	if !g.Active || len(g.Holes) != 2 {
		t.Fatalf("unexpected group %+v", g)
	}
	if g.Holes[0].Selected || !g.Holes[1].Selected {
		t.Fatalf("selection not applied to hole 1")
	}
	// 0.308 in at 100 px/in.
	if diff := cmp.Diff(15.4, g.Holes[0].Radius, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Fatalf("radius mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(&r2.Vec{X: 150, Y: 200}, g.Centroid); diff != "" {
		t.Fatalf("centroid mismatch (-want +got):\n%s", diff)
	}
	if g.Aim != nil || g.Offset != nil {
		t.Fatalf("no aim was set")
	}
	if g.Info == nil {
		t.Fatalf("expected info box")
	}
	// The anchor was placed when the first hole made the results valid.
	if g.Info.Rect.X != 20 || g.Info.Rect.Y != 20 {
		t.Fatalf("expected box at first centroid+offset, got %+v", g.Info.Rect)
	}
}

func TestBuild_InfoAnchorPersistsUntilRecalibration(t *testing.T) {
	m := calibrated(t)
	b := NewBuilder(NewPalette(nil), 8)
	proj := Identity{Size: viewport.Size{W: 1000, H: 1000}}
	style := DefaultStyle()
	boxAt := func() viewport.Rect {
		t.Helper()
		sc := b.Build(m, proj, style, -1)
		if sc.Groups[0].Info == nil {
			t.Fatalf("expected info box")
		}
		return sc.Groups[0].Info.Rect
	}

	m.AddHole(r2.Vec{X: 100, Y: 100})
	first := boxAt()
	if first.X != 120 || first.Y != 120 {
		t.Fatalf("expected box at first centroid+offset, got %+v", first)
	}
	m.AddHole(r2.Vec{X: 300, Y: 500})
	m.AddHole(r2.Vec{X: 500, Y: 300})
	if got := boxAt(); got.X != first.X || got.Y != first.Y {
		t.Fatalf("anchor moved with new holes: %+v -> %+v", first, got)
	}

	// Recalibrating re-anchors every box on the current centroid (300,300).
	if _, err := m.CalculateScale(); err != nil {
		t.Fatalf("recalibrate: %v", err)
	}
	if got := boxAt(); got.X != 320 || got.Y != 320 {
		t.Fatalf("expected box at new centroid+offset, got %+v", got)
	}
}

func TestBuild_OffsetSegment(t *testing.T) {
	m := calibrated(t)
	m.AddHole(r2.Vec{X: 200, Y: 200})
	m.SetAim(r2.Vec{X: 100, Y: 100})

	sc := NewBuilder(NewPalette(nil), 8).Build(m, Identity{Size: viewport.Size{W: 1000, H: 1000}}, DefaultStyle(), -1)
	want := &Segment{A: r2.Vec{X: 100, Y: 100}, B: r2.Vec{X: 200, Y: 200}}
	if diff := cmp.Diff(want, sc.Groups[0].Offset); diff != "" {
		t.Fatalf("offset mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_InactiveGroupsKeepTheirColour(t *testing.T) {
	m := calibrated(t)
	m.AddHole(r2.Vec{X: 10, Y: 10})
	m.AddGroup()
	m.AddHole(r2.Vec{X: 20, Y: 20})

	pal := NewPalette([]string{"#ff0000", "#00ff00"})
	sc := NewBuilder(pal, 8).Build(m, Identity{Size: viewport.Size{W: 1000, H: 1000}}, DefaultStyle(), 0)
	if sc.Groups[0].Active || !sc.Groups[1].Active {
		t.Fatalf("second group should be active")
	}
	if sc.Groups[0].Holes[0].Selected {
		t.Fatalf("selection only applies to the active group")
	}
	if sc.Groups[0].Color.Hex() != "#ff0000" || sc.Groups[1].Color.Hex() != "#00ff00" {
		t.Fatalf("unexpected colours %s %s", sc.Groups[0].Color.Hex(), sc.Groups[1].Color.Hex())
	}
}

func TestPlaceBox_ClampsInsideBounds(t *testing.T) {
	bounds := viewport.Size{W: 100, H: 50}
	got := placeBox(r2.Vec{X: 90, Y: 45}, viewport.Size{W: 30, H: 20}, bounds)
	want := viewport.Rect{X: 70, Y: 30, W: 30, H: 20}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("placeBox mismatch (-want +got):\n%s", diff)
	}
	got = placeBox(r2.Vec{X: -5, Y: -5}, viewport.Size{W: 30, H: 20}, bounds)
	if got.X != 0 || got.Y != 0 {
		t.Fatalf("expected clamp to origin, got %+v", got)
	}
}

func TestInfoBoxAt_HitsTopmost(t *testing.T) {
	m := calibrated(t)
	m.AddHole(r2.Vec{X: 100, Y: 100})
	first := m.Active().ID()
	m.AddGroup()
	m.AddHole(r2.Vec{X: 100, Y: 100})
	second := m.Active().ID()

	b := NewBuilder(NewPalette(nil), 8)
	proj := Identity{Size: viewport.Size{W: 1000, H: 1000}}
	id, rect, ok := b.InfoBoxAt(m, proj, DefaultStyle(), r2.Vec{X: 125, Y: 125})
	if !ok || id != second {
		t.Fatalf("expected group %d on top, got %d ok=%v (first=%d)", second, id, ok, first)
	}
	if _, _, ok := b.InfoBoxAt(m, proj, DefaultStyle(), r2.Vec{X: 5, Y: 5}); ok {
		t.Fatalf("miss expected outside boxes")
	}

	anchor, ok := b.AnchorFor(proj, DefaultStyle(), r2.Vec{X: rect.X, Y: rect.Y})
	if !ok || anchor != (r2.Vec{X: 100, Y: 100}) {
		t.Fatalf("expected anchor round trip, got %v", anchor)
	}
}

func TestInfoLines(t *testing.T) {
	m := calibrated(t)
	m.AddHole(r2.Vec{X: 0, Y: 0})
	res, _ := m.Active().Results()
	s := m.Settings()
	lines := InfoLines(m.Active(), res, s, m.Converter())
	want := []string{"Group 1 (1 hole)", "Mean radius: 0.000 in (0.00 MOA)", "Extreme spread: n/a"}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}

	m.AddHole(r2.Vec{X: 254, Y: 0})
	s.ResultUnit = units.Centimeters
	s.TargetDistance = 0
	m.SetSettings(s)
	res, _ = m.Active().Results()
	lines = InfoLines(m.Active(), res, m.Settings(), m.Converter())
	if lines[2] != "Extreme spread: 6.452 cm" {
		t.Fatalf("unexpected spread line %q", lines[2])
	}
	if strings.Contains(strings.Join(lines, "|"), "MOA") {
		t.Fatalf("angles shown without distance: %v", lines)
	}
}

func TestInfoLines_OffsetRendersWithFace(t *testing.T) {
	m := calibrated(t)
	m.AddHole(r2.Vec{X: 200, Y: 200})
	m.SetAim(r2.Vec{X: 100, Y: 100})
	res, ok := m.Active().Results()
	if !ok {
		t.Fatalf("expected valid results")
	}
	lines := InfoLines(m.Active(), res, m.Settings(), m.Converter())
	if len(lines) != 4 || !strings.Contains(lines[3], " @ 315 deg") {
		t.Fatalf("unexpected offset line in %v", lines)
	}
	for _, line := range lines {
		for _, r := range line {
			if _, ok := Face.GlyphAdvance(r); !ok {
				t.Fatalf("face has no glyph for %q in %q", r, line)
			}
		}
	}
}

func TestMeasurer_CachesByText(t *testing.T) {
	m := NewMeasurer(4, 2)
	a := m.Size(1, []string{"ab"})
	if a.W != float64(2*7+4) || a.H != LineHeight()+4 {
		t.Fatalf("unexpected size %+v", a)
	}
	b := m.Size(1, []string{"abcd"})
	if b.W <= a.W {
		t.Fatalf("changed text must be re-measured")
	}
}

func TestStyle_Scaled(t *testing.T) {
	s := DefaultStyle().Scaled(2)
	if s.LineWidth != 4 || s.InfoOffset != (r2.Vec{X: 40, Y: 40}) {
		t.Fatalf("unexpected scaled style %+v", s)
	}
}
