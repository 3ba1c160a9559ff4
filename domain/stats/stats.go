// Package stats computes shot-group accuracy measurements.
//
// All linear results are in the reference unit the hole coordinates are
// expressed in. Fields that do not apply are nil, never zero: a single hole
// has a mean radius of 0 but no extreme spread, and angular sizes only exist
// for a positive target distance.
package stats

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/stat"

	"github.com/soocke/shotgroup-go/domain/units"
)

// Params are the settings the computation reads.
type Params struct {
	ReferenceUnit      units.Linear
	TargetDistance     float64
	TargetDistanceUnit units.Linear
}

// Angle is an angular size in both display units.
type Angle struct {
	MOA  float64
	Mrad float64
}

// In returns the value in the requested angular unit.
func (a Angle) In(u units.Angular) float64 {
	if u == units.Mrad {
		return a.Mrad
	}
	return a.MOA
}

// Offset describes the vector from the aiming point to the centroid.
type Offset struct {
	DX, DY   float64 // reference units, image axes (Y down)
	Distance float64
	// Bearing in degrees: 0 = right, 90 = up.
	Bearing float64
	Angular *Angle
}

// Results holds the derived measurements of one group.
type Results struct {
	Holes      int
	Centroid   *r2.Vec
	MeanRadius *float64
	MaxSpread  *float64

	MeanRadiusAngle *Angle
	MaxSpreadAngle  *Angle

	Offset *Offset
}

// Compute derives group statistics from hole positions and an optional
// aiming point, both in reference units. ok is false when there are no holes.
func Compute(holes []r2.Vec, aim *r2.Vec, p Params, conv units.Converter) (res Results, ok bool) {
	res.Holes = len(holes)
	if len(holes) == 0 {
		return res, false
	}

	xs := make([]float64, len(holes))
	ys := make([]float64, len(holes))
	for i, h := range holes {
		xs[i], ys[i] = h.X, h.Y
	}
	c := r2.Vec{X: stat.Mean(xs, nil), Y: stat.Mean(ys, nil)}
	res.Centroid = &c

	var sum float64
	for _, h := range holes {
		sum += r2.Norm(r2.Sub(h, c))
	}
	mr := sum / float64(len(holes))
	res.MeanRadius = &mr

	if len(holes) >= 2 {
		var spread float64
		for i := 0; i < len(holes); i++ {
			for j := i + 1; j < len(holes); j++ {
				if d := r2.Norm(r2.Sub(holes[i], holes[j])); d > spread {
					spread = d
				}
			}
		}
		res.MaxSpread = &spread
	}

	distM, hasDist := targetMeters(p, conv)
	if hasDist {
		res.MeanRadiusAngle = angleOf(mr, p.ReferenceUnit, distM, conv)
		if res.MaxSpread != nil {
			res.MaxSpreadAngle = angleOf(*res.MaxSpread, p.ReferenceUnit, distM, conv)
		}
	}

	if aim != nil {
		d := r2.Sub(c, *aim)
		bearing := math.Atan2(-d.Y, d.X)
		if bearing < 0 {
			bearing += 2 * math.Pi
		}
		off := &Offset{DX: d.X, DY: d.Y, Distance: r2.Norm(d), Bearing: bearing * 180 / math.Pi}
		if off.Bearing >= 360 {
			off.Bearing = 0
		}
		if hasDist {
			off.Angular = angleOf(off.Distance, p.ReferenceUnit, distM, conv)
		}
		res.Offset = off
	}
	return res, true
}

func targetMeters(p Params, conv units.Converter) (float64, bool) {
	if p.TargetDistance <= 0 || conv == nil {
		return 0, false
	}
	m, err := conv.Convert(p.TargetDistance, p.TargetDistanceUnit, units.Meters)
	if err != nil || m <= 0 {
		return 0, false
	}
	return m, true
}

// angleOf uses the small-angle approximation: mrad = L/D × 1000.
func angleOf(length float64, unit units.Linear, distM float64, conv units.Converter) *Angle {
	lm, err := conv.Convert(length, unit, units.Meters)
	if err != nil {
		return nil
	}
	mrad := lm / distM * 1000
	return &Angle{Mrad: mrad, MOA: conv.MradToMOA(mrad)}
}
