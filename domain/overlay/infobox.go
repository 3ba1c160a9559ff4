package overlay

import (
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/soocke/shotgroup-go/domain/annotation"
	"github.com/soocke/shotgroup-go/domain/stats"
	"github.com/soocke/shotgroup-go/domain/units"
	"github.com/soocke/shotgroup-go/domain/viewport"
)

// Face is the font used for info-box text.
var Face font.Face = basicfont.Face7x13

// LineHeight is the vertical advance between info-box lines.
func LineHeight() float64 { return float64(Face.Metrics().Height.Ceil()) + 2 }

// InfoLines formats a group's results for display in the result and
// angular units of s. Measurements that do not apply read "n/a".
func InfoLines(g *annotation.Group, res stats.Results, s annotation.Settings, conv units.Converter) []string {
	holes := "holes"
	if res.Holes == 1 {
		holes = "hole"
	}
	lines := []string{fmt.Sprintf("Group %d (%d %s)", g.ID(), res.Holes, holes)}
	lines = append(lines, measureLine("Mean radius", res.MeanRadius, res.MeanRadiusAngle, s, conv))
	lines = append(lines, measureLine("Extreme spread", res.MaxSpread, res.MaxSpreadAngle, s, conv))
	if res.Offset != nil {
		d := res.Offset.Distance
		line := fmt.Sprintf("Offset: %s @ %.0f deg", length(d, s, conv), res.Offset.Bearing)
		if res.Offset.Angular != nil {
			line += fmt.Sprintf(" (%.2f %s)", res.Offset.Angular.In(s.AngularUnit), s.AngularUnit.Label())
		}
		lines = append(lines, line)
	}
	return lines
}

func measureLine(label string, v *float64, a *stats.Angle, s annotation.Settings, conv units.Converter) string {
	if v == nil {
		return label + ": n/a"
	}
	line := fmt.Sprintf("%s: %s", label, length(*v, s, conv))
	if a != nil {
		line += fmt.Sprintf(" (%.2f %s)", a.In(s.AngularUnit), s.AngularUnit.Label())
	}
	return line
}

func length(v float64, s annotation.Settings, conv units.Converter) string {
	out, err := conv.Convert(v, s.ReferenceUnit, s.ResultUnit)
	unit := s.ResultUnit
	if err != nil {
		out, unit = v, s.ReferenceUnit
	}
	return fmt.Sprintf("%.3f %s", out, unit)
}

type measured struct {
	key  string
	size viewport.Size
}

// Measurer caches info-box sizes per group, keyed on the rendered text.
type Measurer struct {
	cache   *lru.Cache[int, measured]
	padding float64
}

// NewMeasurer returns a measurer holding up to size groups.
func NewMeasurer(size int, padding float64) *Measurer {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[int, measured](size)
	if err != nil {
		panic(err) // only for non-positive size
	}
	return &Measurer{cache: c, padding: padding}
}

// Size returns the box size for the given lines of group id.
func (m *Measurer) Size(id int, lines []string) viewport.Size {
	key := strings.Join(lines, "\n")
	if v, ok := m.cache.Get(id); ok && v.key == key {
		return v.size
	}
	d := &font.Drawer{Face: Face}
	var w float64
	for _, l := range lines {
		if lw := float64(d.MeasureString(l).Ceil()); lw > w {
			w = lw
		}
	}
	size := viewport.Size{
		W: w + 2*m.padding,
		H: float64(len(lines))*LineHeight() + 2*m.padding,
	}
	m.cache.Add(id, measured{key: key, size: size})
	return size
}

// Forget drops a group's cached size.
func (m *Measurer) Forget(id int) { m.cache.Remove(id) }
