package overlay

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/viewport"
)

// Segment is a line in surface pixels.
type Segment struct {
	A, B r2.Vec
}

// Hole is a hole marker in surface pixels.
type Hole struct {
	Index    int
	Center   r2.Vec
	Radius   float64
	Selected bool
}

// InfoBox is a group's results overlay in surface pixels.
type InfoBox struct {
	GroupID int
	Lines   []string
	Rect    viewport.Rect
}

// GroupScene is everything drawn for one group.
type GroupScene struct {
	ID       int
	Active   bool
	Color    colorful.Color
	Holes    []Hole
	Centroid *r2.Vec
	Aim      *r2.Vec
	Offset   *Segment
	Info     *InfoBox
}

// Scene is the full overlay for one frame.
type Scene struct {
	Bounds    viewport.Size
	Style     Style
	Reference *Segment
	Groups    []GroupScene
}

// InfoBoxes returns the info boxes in drawing order.
func (s Scene) InfoBoxes() []InfoBox {
	var out []InfoBox
	for _, g := range s.Groups {
		if g.Info != nil {
			out = append(out, *g.Info)
		}
	}
	return out
}

// Builder turns the annotation model into a Scene.
type Builder struct {
	palette Palette
	measure *Measurer
}

// NewBuilder returns a builder with the given palette and a measurement
// cache of cacheSize groups.
func NewBuilder(palette Palette, cacheSize int) *Builder {
	return &Builder{palette: palette, measure: NewMeasurer(cacheSize, 0)}
}

// Palette returns the group palette.
func (b *Builder) Palette() Palette { return b.palette }

// Build computes the scene. selected is the index of the selected hole in
// the active group, or -1.
func (b *Builder) Build(m *annotation.Model, proj Projector, style Style, selected int) Scene {
	sc := Scene{Bounds: proj.Buffer(), Style: style}
	if m == nil || !m.HasImage() {
		return sc
	}
	if ref := m.Reference(); ref.HasStart {
		a, okA := proj.ImageToSurface(ref.Start)
		e, okB := proj.ImageToSurface(ref.End)
		if okA && okB {
			sc.Reference = &Segment{A: a, B: e}
		}
	}
	active := m.Active()
	radius := b.holeRadius(m, proj, style)
	for _, g := range m.Groups() {
		gs := GroupScene{ID: g.ID(), Active: g == active, Color: b.palette.For(g.ID())}
		for i, h := range g.Holes() {
			c, ok := proj.ImageToSurface(h.Pixel())
			if !ok {
				continue
			}
			gs.Holes = append(gs.Holes, Hole{
				Index:    i,
				Center:   c,
				Radius:   radius,
				Selected: gs.Active && i == selected,
			})
		}
		if a, ok := g.Aim(); ok {
			if p, ok := proj.ImageToSurface(a.Pixel()); ok {
				gs.Aim = &p
			}
		}
		res, valid := g.Results()
		if valid {
			if scale, ok := m.Scale(); ok && res.Centroid != nil {
				if c, ok := proj.ImageToSurface(r2.Scale(scale, *res.Centroid)); ok {
					gs.Centroid = &c
				}
			}
			if gs.Centroid != nil && gs.Aim != nil {
				gs.Offset = &Segment{A: *gs.Aim, B: *gs.Centroid}
			}
			if rect, ok := b.infoRect(m, g, proj, style); ok {
				gs.Info = &InfoBox{
					GroupID: g.ID(),
					Lines:   InfoLines(g, res, m.Settings(), m.Converter()),
					Rect:    rect,
				}
			}
		}
		sc.Groups = append(sc.Groups, gs)
	}
	return sc
}

// InfoBoxAt returns the id of the topmost info box containing the surface
// point p.
func (b *Builder) InfoBoxAt(m *annotation.Model, proj Projector, style Style, p r2.Vec) (int, viewport.Rect, bool) {
	if m == nil {
		return 0, viewport.Rect{}, false
	}
	groups := m.Groups()
	for i := len(groups) - 1; i >= 0; i-- {
		if _, ok := groups[i].Results(); !ok {
			continue
		}
		rect, ok := b.infoRect(m, groups[i], proj, style)
		if ok && rect.Contains(p) {
			return groups[i].ID(), rect, true
		}
	}
	return 0, viewport.Rect{}, false
}

// AnchorFor converts an info box's top-left corner back into the image
// anchor that would produce it.
func (b *Builder) AnchorFor(proj Projector, style Style, topLeft r2.Vec) (r2.Vec, bool) {
	return proj.BufferToImage(r2.Sub(topLeft, style.InfoOffset))
}

// Forget drops cached measurements of a deleted group.
func (b *Builder) Forget(id int) { b.measure.Forget(id) }

func (b *Builder) infoRect(m *annotation.Model, g *annotation.Group, proj Projector, style Style) (viewport.Rect, bool) {
	res, valid := g.Results()
	anchor, ok := g.InfoAnchor()
	if !valid || !ok {
		return viewport.Rect{}, false
	}
	p, ok := proj.ImageToSurface(anchor)
	if !ok {
		return viewport.Rect{}, false
	}
	size := b.measure.Size(g.ID(), InfoLines(g, res, m.Settings(), m.Converter()))
	size.W += 2 * style.InfoPadding
	size.H += 2 * style.InfoPadding
	return placeBox(r2.Add(p, style.InfoOffset), size, proj.Buffer()), true
}

// placeBox clamps a box so it stays inside bounds when it fits.
func placeBox(topLeft r2.Vec, size, bounds viewport.Size) viewport.Rect {
	x := math.Max(0, math.Min(topLeft.X, bounds.W-size.W))
	y := math.Max(0, math.Min(topLeft.Y, bounds.H-size.H))
	return viewport.Rect{X: x, Y: y, W: size.W, H: size.H}
}

// holeRadius is half the bullet diameter in surface pixels, floored at the
// style minimum.
func (b *Builder) holeRadius(m *annotation.Model, proj Projector, style Style) float64 {
	s := m.Settings()
	scale, ok := m.Scale()
	if !ok || s.BulletDiameter <= 0 {
		return style.MinHoleRadius
	}
	d, err := m.Converter().Convert(s.BulletDiameter, s.BulletUnit, s.ReferenceUnit)
	if err != nil {
		return style.MinHoleRadius
	}
	k := proj.ImagePerBuffer()
	if k <= 0 {
		k = 1
	}
	return math.Max(style.MinHoleRadius, d*scale/2/k)
}
