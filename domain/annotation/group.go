package annotation

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/stats"
	"github.com/soocke/shotgroup-go/domain/units"
)

// Point is a marked position. Pixel coordinates are the source of truth;
// the real (reference unit) copy is a projection refreshed whenever the
// scale changes and cannot be set directly.
type Point struct {
	pixel r2.Vec
	real  r2.Vec
}

func newPoint(pixel r2.Vec, scale float64) Point {
	p := Point{pixel: pixel}
	p.project(scale)
	return p
}

func (p *Point) project(scale float64) {
	if scale > 0 {
		p.real = r2.Vec{X: p.pixel.X / scale, Y: p.pixel.Y / scale}
	} else {
		p.real = r2.Vec{}
	}
}

// Pixel returns the image-space position.
func (p Point) Pixel() r2.Vec { return p.pixel }

// Real returns the position in reference units.
func (p Point) Real() r2.Vec { return p.real }

// Group is one shot group: its holes, optional aiming point and the
// statistics derived from them.
type Group struct {
	id    int
	holes []Point
	aim   *Point

	results stats.Results
	valid   bool

	infoAnchor *r2.Vec
}

// ID is the stable identifier assigned at creation.
func (g *Group) ID() int { return g.id }

// Len returns the number of holes.
func (g *Group) Len() int { return len(g.holes) }

// Holes returns a copy of the holes in insertion order.
func (g *Group) Holes() []Point {
	out := make([]Point, len(g.holes))
	copy(out, g.holes)
	return out
}

// Hole returns the hole at index i.
func (g *Group) Hole(i int) (Point, bool) {
	if i < 0 || i >= len(g.holes) {
		return Point{}, false
	}
	return g.holes[i], true
}

// Aim returns the aiming point, if any.
func (g *Group) Aim() (Point, bool) {
	if g.aim == nil {
		return Point{}, false
	}
	return *g.aim, true
}

// Results returns the last computed statistics and whether they are valid.
func (g *Group) Results() (stats.Results, bool) { return g.results, g.valid }

// InfoAnchor returns the image-space anchor of the results overlay.
func (g *Group) InfoAnchor() (r2.Vec, bool) {
	if g.infoAnchor == nil {
		return r2.Vec{}, false
	}
	return *g.infoAnchor, true
}

// SetInfoAnchor pins the results overlay to an image-space point.
func (g *Group) SetInfoAnchor(p r2.Vec) { g.infoAnchor = &p }

// ClearInfoAnchor drops the anchor; it is recomputed on the next valid result.
func (g *Group) ClearInfoAnchor() { g.infoAnchor = nil }

// Invalidate marks the derived statistics stale.
func (g *Group) Invalidate() {
	g.results = stats.Results{Holes: len(g.holes)}
	g.valid = false
}

func (g *Group) addHole(pixel r2.Vec, scale float64) int {
	g.holes = append(g.holes, newPoint(pixel, scale))
	g.Invalidate()
	return len(g.holes) - 1
}

func (g *Group) moveHole(i int, pixel r2.Vec, scale float64) bool {
	if i < 0 || i >= len(g.holes) {
		return false
	}
	g.holes[i] = newPoint(pixel, scale)
	g.Invalidate()
	return true
}

func (g *Group) removeHole(i int) bool {
	if i < 0 || i >= len(g.holes) {
		return false
	}
	g.holes = append(g.holes[:i], g.holes[i+1:]...)
	g.Invalidate()
	return true
}

func (g *Group) clearHoles() {
	g.holes = nil
	g.Invalidate()
}

func (g *Group) setAim(pixel r2.Vec, scale float64) {
	p := newPoint(pixel, scale)
	g.aim = &p
	g.Invalidate()
}

func (g *Group) clearAim() {
	g.aim = nil
	g.Invalidate()
}

// reproject refreshes every real-unit coordinate from pixels.
func (g *Group) reproject(scale float64) {
	for i := range g.holes {
		g.holes[i].project(scale)
	}
	if g.aim != nil {
		g.aim.project(scale)
	}
}

// recompute refreshes the statistics. The info anchor is placed on the
// centroid the first time results become valid.
func (g *Group) recompute(scale float64, p stats.Params, conv units.Converter) {
	if scale <= 0 {
		g.Invalidate()
		return
	}
	pts := make([]r2.Vec, len(g.holes))
	for i, h := range g.holes {
		pts[i] = h.real
	}
	var aim *r2.Vec
	if g.aim != nil {
		a := g.aim.real
		aim = &a
	}
	g.results, g.valid = stats.Compute(pts, aim, p, conv)
	if g.valid && g.infoAnchor == nil && g.results.Centroid != nil {
		g.SetInfoAnchor(r2.Scale(scale, *g.results.Centroid))
	}
}
