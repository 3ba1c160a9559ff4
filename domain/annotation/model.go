// Package annotation holds the per-session annotation model: the loaded
// image, the reference line and scale, and the shot groups.
//
// Every mutation recomputes the affected statistics before returning and
// then notifies subscribers, so readers never observe stale derived values.
package annotation

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/stats"
	"github.com/soocke/shotgroup-go/domain/units"
)

var (
	ErrNoImage                 = errors.New("no image loaded")
	ErrNoReferenceLine         = errors.New("reference line not drawn")
	ErrInvalidReferenceLength  = errors.New("reference length must be positive")
	ErrDegenerateReferenceLine = errors.New("reference line too short")
)

// DefaultMinReferencePixels is the shortest accepted reference line.
const DefaultMinReferencePixels = 5.0

// Settings are the user-editable inputs read on every recompute.
type Settings struct {
	ReferenceLength    float64
	ReferenceUnit      units.Linear
	BulletDiameter     float64
	BulletUnit         units.Linear
	TargetDistance     float64
	TargetDistanceUnit units.Linear
	ResultUnit         units.Linear
	AngularUnit        units.Angular
}

// DefaultSettings returns inch/yard settings with no calibration length.
func DefaultSettings() Settings {
	return Settings{
		ReferenceUnit:      units.Inches,
		BulletDiameter:     0.308,
		BulletUnit:         units.Inches,
		TargetDistance:     100,
		TargetDistanceUnit: units.Yards,
		ResultUnit:         units.Inches,
		AngularUnit:        units.MOA,
	}
}

// ReferenceLine is the calibration segment in image pixels.
type ReferenceLine struct {
	Start, End       r2.Vec
	HasStart, HasEnd bool
}

// Complete reports whether both endpoints are set.
func (l ReferenceLine) Complete() bool { return l.HasStart && l.HasEnd }

// Length returns the pixel length of a complete line.
func (l ReferenceLine) Length() float64 {
	if !l.Complete() {
		return 0
	}
	return r2.Norm(r2.Sub(l.End, l.Start))
}

// Model is the annotation state of one session.
type Model struct {
	logger *slog.Logger
	conv   units.Converter

	img    image.Image
	bounds image.Rectangle

	settings  Settings
	ref       ReferenceLine
	scaleRef  ReferenceLine // line that produced scale
	scale     float64
	minRefPx  float64
	groups    []*Group
	active    int // index into groups
	nextID    int
	listeners []func()
}

// New returns an empty model. conv may not be nil.
func New(conv units.Converter, settings Settings, minRefPx float64, logger *slog.Logger) *Model {
	if minRefPx <= 0 {
		minRefPx = DefaultMinReferencePixels
	}
	return &Model{logger: logger, conv: conv, settings: settings, minRefPx: minRefPx}
}

// Subscribe registers fn to be called after every mutation.
func (m *Model) Subscribe(fn func()) {
	if fn != nil {
		m.listeners = append(m.listeners, fn)
	}
}

func (m *Model) changed() {
	for _, fn := range m.listeners {
		fn()
	}
}

// LoadImage installs a new image and starts a fresh session: the reference
// line, scale and groups are reset and one empty group is created.
func (m *Model) LoadImage(img image.Image) {
	m.img = img
	m.bounds = image.Rectangle{}
	if img != nil {
		m.bounds = img.Bounds()
	}
	m.ref = ReferenceLine{}
	m.scaleRef = ReferenceLine{}
	m.scale = 0
	m.groups = nil
	m.active = 0
	if img != nil {
		m.addGroup()
	}
	if m.logger != nil && img != nil {
		m.logger.Info("image loaded", "width", m.bounds.Dx(), "height", m.bounds.Dy())
	}
	m.changed()
}

func (m *Model) Image() image.Image { return m.img }
func (m *Model) HasImage() bool     { return m.img != nil }

// Size returns the image width and height in pixels.
func (m *Model) Size() (w, h float64) { return float64(m.bounds.Dx()), float64(m.bounds.Dy()) }

// Settings returns the current settings.
func (m *Model) Settings() Settings { return m.settings }

// Converter returns the unit converter used for statistics and display.
func (m *Model) Converter() units.Converter { return m.conv }

// SetSettings applies new settings. A change of reference length or unit
// clears the calibration; any other change recomputes every group.
func (m *Model) SetSettings(s Settings) {
	prev := m.settings
	m.settings = s
	if prev.ReferenceLength != s.ReferenceLength || prev.ReferenceUnit != s.ReferenceUnit {
		m.clearCalibration()
	} else {
		m.recomputeAll()
	}
	m.changed()
}

// Params returns the statistics parameters for the current settings.
func (m *Model) Params() stats.Params {
	return stats.Params{
		ReferenceUnit:      m.settings.ReferenceUnit,
		TargetDistance:     m.settings.TargetDistance,
		TargetDistanceUnit: m.settings.TargetDistanceUnit,
	}
}

// Scale returns pixels per reference unit and whether it is defined.
func (m *Model) Scale() (float64, bool) { return m.scale, m.scale > 0 }

// Reference returns the current reference line.
func (m *Model) Reference() ReferenceLine { return m.ref }

// BeginReference starts a new reference line at p.
func (m *Model) BeginReference(p r2.Vec) {
	p = m.clamp(p)
	m.ref = ReferenceLine{Start: p, End: p, HasStart: true}
	m.changed()
}

// SetReferenceEnd moves the end of the line being drawn.
func (m *Model) SetReferenceEnd(p r2.Vec) {
	if !m.ref.HasStart {
		return
	}
	m.ref.End, m.ref.HasEnd = m.clamp(p), true
	m.changed()
}

// ClearCalibration drops the reference line and the scale.
func (m *Model) ClearCalibration() {
	m.clearCalibration()
	m.changed()
}

func (m *Model) clearCalibration() {
	m.ref = ReferenceLine{}
	m.scaleRef = ReferenceLine{}
	m.scale = 0
	for _, g := range m.groups {
		g.reproject(0)
		g.Invalidate()
		g.ClearInfoAnchor()
	}
}

// CalculateScale derives the scale from the reference line. On failure the
// previous scale is kept together with the line that produced it.
func (m *Model) CalculateScale() (float64, error) {
	if m.img == nil {
		return m.scale, ErrNoImage
	}
	scale, err := m.scaleFromReference()
	if err != nil {
		if m.scale > 0 && m.ref != m.scaleRef {
			m.ref = m.scaleRef
			m.changed()
		}
		return m.scale, err
	}
	px := m.ref.Length()
	m.scale = scale
	m.scaleRef = m.ref
	for _, g := range m.groups {
		g.reproject(m.scale)
		g.Invalidate()
		g.ClearInfoAnchor()
	}
	m.recomputeAll()
	if m.logger != nil {
		m.logger.Info("scale calibrated", "scale", m.scale, "unit", string(m.settings.ReferenceUnit), "line_px", px)
	}
	m.changed()
	return m.scale, nil
}

// RecomputeAll refreshes the statistics of every group.
func (m *Model) RecomputeAll() {
	m.recomputeAll()
	m.changed()
}

func (m *Model) recomputeAll() {
	p := m.Params()
	for _, g := range m.groups {
		g.recompute(m.scale, p, m.conv)
	}
}

func (m *Model) recompute(g *Group) {
	g.recompute(m.scale, m.Params(), m.conv)
	m.changed()
}

func (m *Model) scaleFromReference() (float64, error) {
	if !m.ref.Complete() {
		return 0, ErrNoReferenceLine
	}
	if m.settings.ReferenceLength <= 0 || math.IsNaN(m.settings.ReferenceLength) {
		return 0, ErrInvalidReferenceLength
	}
	px := m.ref.Length()
	if px < m.minRefPx {
		return 0, fmt.Errorf("%w: %.1f px < %.1f px", ErrDegenerateReferenceLine, px, m.minRefPx)
	}
	return px / m.settings.ReferenceLength, nil
}

func (m *Model) clamp(p r2.Vec) r2.Vec {
	w, h := m.Size()
	return r2.Vec{X: math.Max(0, math.Min(p.X, w)), Y: math.Max(0, math.Min(p.Y, h))}
}
