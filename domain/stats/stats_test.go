package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/shotgroup-go/domain/units"
)

var inches = Params{ReferenceUnit: units.Inches, TargetDistanceUnit: units.Yards}

func TestCompute_NoHoles(t *testing.T) {
	res, ok := Compute(nil, nil, inches, units.Standard{})
	assert.False(t, ok)
	assert.Nil(t, res.Centroid)
	assert.Nil(t, res.MeanRadius)
	assert.Nil(t, res.MaxSpread)
	assert.Nil(t, res.Offset)
}

func TestCompute_SingleHole(t *testing.T) {
	res, ok := Compute([]r2.Vec{{X: 1, Y: 2}}, nil, inches, units.Standard{})
	require.True(t, ok)
	require.NotNil(t, res.MeanRadius)
	assert.Equal(t, 0.0, *res.MeanRadius)
	assert.Nil(t, res.MaxSpread, "spread needs two holes")
	assert.Equal(t, r2.Vec{X: 1, Y: 2}, *res.Centroid)
}

func TestCompute_IdenticalPoints(t *testing.T) {
	holes := []r2.Vec{{X: 3, Y: 3}, {X: 3, Y: 3}, {X: 3, Y: 3}}
	res, ok := Compute(holes, nil, inches, units.Standard{})
	require.True(t, ok)
	assert.Equal(t, 0.0, *res.MeanRadius)
	require.NotNil(t, res.MaxSpread)
	assert.Equal(t, 0.0, *res.MaxSpread)
}

func TestCompute_TwoPoints(t *testing.T) {
	// 200 px reference line for 2 in gives 100 px/in; holes at (0,0) and (300,400) px.
	holes := []r2.Vec{{X: 0, Y: 0}, {X: 3, Y: 4}}
	res, ok := Compute(holes, nil, inches, units.Standard{})
	require.True(t, ok)
	assert.InDelta(t, 5.0, *res.MaxSpread, 1e-12)
	assert.InDelta(t, 2.5, *res.MeanRadius, 1e-12)
	assert.InDelta(t, 1.5, res.Centroid.X, 1e-12)
	assert.InDelta(t, 2.0, res.Centroid.Y, 1e-12)
	assert.Nil(t, res.MeanRadiusAngle, "no distance, no angle")
}

func TestCompute_AngularScenario(t *testing.T) {
	// Two holes 2 in apart give a mean radius of 1 in.
	holes := []r2.Vec{{X: 0, Y: 0}, {X: 2, Y: 0}}
	p := inches
	p.TargetDistance = 100
	res, ok := Compute(holes, nil, p, units.Standard{})
	require.True(t, ok)
	require.NotNil(t, res.MeanRadiusAngle)
	assert.InDelta(t, 0.2778, res.MeanRadiusAngle.Mrad, 1e-4)
	assert.InDelta(t, 0.955, res.MeanRadiusAngle.MOA, 1e-3)
	assert.InDelta(t, 0.955, res.MeanRadiusAngle.In(units.MOA), 1e-3)
}

func TestCompute_AngleDecreasesWithDistance(t *testing.T) {
	holes := []r2.Vec{{X: 0, Y: 0}, {X: 1, Y: 1}}
	prev := math.Inf(1)
	for _, d := range []float64{10, 50, 100, 300, 1000} {
		p := inches
		p.TargetDistance = d
		res, _ := Compute(holes, nil, p, units.Standard{})
		require.NotNil(t, res.MaxSpreadAngle)
		assert.Less(t, res.MaxSpreadAngle.MOA, prev)
		prev = res.MaxSpreadAngle.MOA
	}
	for _, d := range []float64{0, -5} {
		p := inches
		p.TargetDistance = d
		res, _ := Compute(holes, nil, p, units.Standard{})
		assert.Nil(t, res.MaxSpreadAngle)
		assert.Nil(t, res.MeanRadiusAngle)
	}
}

func TestCompute_OffsetBearing(t *testing.T) {
	tests := []struct {
		name    string
		hole    r2.Vec
		bearing float64
	}{
		{"right", r2.Vec{X: 1, Y: 0}, 0},
		{"up", r2.Vec{X: 0, Y: -1}, 90},
		{"left", r2.Vec{X: -1, Y: 0}, 180},
		{"down", r2.Vec{X: 0, Y: 1}, 270},
		{"up-right", r2.Vec{X: 1, Y: -1}, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aim := r2.Vec{}
			res, ok := Compute([]r2.Vec{tt.hole}, &aim, inches, units.Standard{})
			require.True(t, ok)
			require.NotNil(t, res.Offset)
			assert.InDelta(t, tt.bearing, res.Offset.Bearing, 1e-9)
			assert.InDelta(t, r2.Norm(tt.hole), res.Offset.Distance, 1e-12)
		})
	}
}
