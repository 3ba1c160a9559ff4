// Package units converts scalar lengths between linear units and angles
// between milliradians and minutes of angle.
package units

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Linear identifies a unit of length.
type Linear string

const (
	Inches      Linear = "in"
	Centimeters Linear = "cm"
	Millimeters Linear = "mm"
	Meters      Linear = "m"
	Yards       Linear = "yd"
	Feet        Linear = "ft"
	Miles       Linear = "mi"
	Kilometers  Linear = "km"
)

// Angular identifies the unit used to display angular sizes.
type Angular string

const (
	MOA  Angular = "moa"
	Mrad Angular = "mrad"
)

// ErrUnknownUnit is returned when a unit name is not recognised.
var ErrUnknownUnit = errors.New("unknown unit")

// metersPer maps each linear unit onto the common base unit.
var metersPer = map[Linear]float64{
	Inches:      0.0254,
	Centimeters: 0.01,
	Millimeters: 0.001,
	Meters:      1,
	Yards:       0.9144,
	Feet:        0.3048,
	Miles:       1609.344,
	Kilometers:  1000,
}

// moaPerMrad is (180/π × 60) / 1000.
var moaPerMrad = 180 / math.Pi * 60 / 1000

// Converter is the unit-conversion collaborator. Implementations must be pure.
type Converter interface {
	Convert(value float64, from, to Linear) (float64, error)
	MradToMOA(mrad float64) float64
	MOAToMrad(moa float64) float64
}

// Standard converts through meters.
type Standard struct{}

// Convert converts value from one linear unit to another.
func (Standard) Convert(value float64, from, to Linear) (float64, error) {
	f, ok := metersPer[from]
	if !ok {
		return 0, fmt.Errorf("convert from %q: %w", from, ErrUnknownUnit)
	}
	t, ok := metersPer[to]
	if !ok {
		return 0, fmt.Errorf("convert to %q: %w", to, ErrUnknownUnit)
	}
	if from == to {
		return value, nil
	}
	return value * f / t, nil
}

func (Standard) MradToMOA(mrad float64) float64 { return mrad * moaPerMrad }
func (Standard) MOAToMrad(moa float64) float64  { return moa / moaPerMrad }

var _ Converter = Standard{}

// ParseLinear accepts short names ("in") and common long forms ("inches").
func ParseLinear(s string) (Linear, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in", "inch", "inches", `"`:
		return Inches, nil
	case "cm", "centimeter", "centimeters":
		return Centimeters, nil
	case "mm", "millimeter", "millimeters":
		return Millimeters, nil
	case "m", "meter", "meters", "metre", "metres":
		return Meters, nil
	case "yd", "yard", "yards":
		return Yards, nil
	case "ft", "foot", "feet":
		return Feet, nil
	case "mi", "mile", "miles":
		return Miles, nil
	case "km", "kilometer", "kilometers":
		return Kilometers, nil
	}
	return "", fmt.Errorf("linear unit %q: %w", s, ErrUnknownUnit)
}

// ParseAngular accepts "moa" or "mrad" (also "mil").
func ParseAngular(s string) (Angular, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "moa":
		return MOA, nil
	case "mrad", "mil", "mils":
		return Mrad, nil
	}
	return "", fmt.Errorf("angular unit %q: %w", s, ErrUnknownUnit)
}

// Valid reports whether u is a known linear unit.
func (u Linear) Valid() bool {
	_, ok := metersPer[u]
	return ok
}

// Valid reports whether a is a known angular unit.
func (a Angular) Valid() bool { return a == MOA || a == Mrad }

// Label returns the display abbreviation.
func (a Angular) Label() string {
	if a == Mrad {
		return "mrad"
	}
	return "MOA"
}
