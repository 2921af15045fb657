// Package fan_test checks the aim solver: chief and marginal convergence on
// the stop, field parameterizations, fan assembly and vignetting retention.
package fan_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optray/optray/fan"
	"github.com/optray/optray/glass"
	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
)

const dLine = 0.5876

// planoConvex: R₁=50, flat rear, 4 mm of N-BK7, stop at the front surface.
// The stop is not the first optical surface in the rearStop variant, so the
// chief solve is non-trivial there.
func planoConvex(stopSemi float64) *system.System {
	return &system.System{
		Surfaces: []surface.Surface{
			{Kind: surface.Object, Radius: surface.Infinity(), Thickness: surface.Infinity()},
			{Kind: surface.Standard, Radius: 50, Thickness: 4, SemiDiameter: stopSemi, Material: "N-BK7", Stop: true},
			{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: 95, SemiDiameter: stopSemi},
			{Kind: surface.Image, Radius: surface.Infinity()},
		},
		Sources: []system.Source{{Wavelength: dLine, Weight: 1, Primary: true}},
		Fields:  []system.Field{{Kind: system.FieldAngle, Y: 0}},
		Catalog: glass.NewCatalog(),
	}
}

// rearStop moves the stop behind the lens: object | lens | stop | image.
func rearStop() *system.System {
	return &system.System{
		Surfaces: []surface.Surface{
			{Kind: surface.Object, Radius: surface.Infinity(), Thickness: surface.Infinity()},
			{Kind: surface.Standard, Radius: 50, Thickness: 4, SemiDiameter: 15, Material: "N-BK7"},
			{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: 20, SemiDiameter: 15},
			{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: 70, SemiDiameter: 5, Stop: true},
			{Kind: surface.Image, Radius: surface.Infinity()},
		},
		Sources: []system.Source{{Wavelength: dLine, Weight: 1, Primary: true}},
		Catalog: glass.NewCatalog(),
	}
}

func stopHit(t *testing.T, sys *system.System, r fan.AimedRay) (x, y float64) {
	t.Helper()
	idx, err := sys.StopIndex()
	require.NoError(t, err)
	rec := r.Path.At(idx)
	require.NotNil(t, rec, "converged ray must record the stop")
	return rec.Pos.X, rec.Pos.Y
}

func TestChief_HitsStopCenterWithinTolerance(t *testing.T) {
	for _, deg := range []float64{0, 3, 7} {
		sys := planoConvex(12)
		s, err := fan.NewSolver(sys, dLine)
		require.NoError(t, err)

		r, err := s.Chief(system.Field{Kind: system.FieldAngle, Y: deg})
		require.NoError(t, err, "field %.0f°", deg)
		require.True(t, r.Converged())

		x, y := stopHit(t, sys, r)
		semi := sys.Surfaces[1].SemiDiameter
		assert.Less(t, math.Hypot(x, y), fan.MissTolFactor*semi, "field %.0f°", deg)
	}
}

func TestChief_RearStopNontrivialSolve(t *testing.T) {
	sys := rearStop()
	s, err := fan.NewSolver(sys, dLine)
	require.NoError(t, err)

	r, err := s.Chief(system.Field{Kind: system.FieldAngle, Y: 5})
	require.NoError(t, err)
	require.True(t, r.Converged())

	x, y := stopHit(t, sys, r)
	assert.Less(t, math.Hypot(x, y), fan.MissTolFactor*5.0)
	// At 5° the chief ray through a rear stop cannot also pass the front
	// vertex: the solve must have moved off the axis.
	assert.NotZero(t, r.Ray.Origin.Y)
}

func TestMarginal_ReachesStopEdge(t *testing.T) {
	sys := planoConvex(12)
	s, err := fan.NewSolver(sys, dLine)
	require.NoError(t, err)
	semi := sys.Surfaces[1].SemiDiameter

	cases := []struct {
		dir  fan.Direction
		x, y float64
	}{
		{fan.Up, 0, semi},
		{fan.Down, 0, -semi},
		{fan.Left, -semi, 0},
		{fan.Right, semi, 0},
	}
	for _, c := range cases {
		r, err := s.Marginal(system.Field{Kind: system.FieldAngle, Y: 2}, c.dir)
		require.NoError(t, err, c.dir)
		x, y := stopHit(t, sys, r)
		assert.InDelta(t, c.x, x, fan.MissTolFactor*semi*2, c.dir)
		assert.InDelta(t, c.y, y, fan.MissTolFactor*semi*2, c.dir)
	}
}

func TestPupil_NormalizedCoordinates(t *testing.T) {
	sys := planoConvex(12)
	s, err := fan.NewSolver(sys, dLine)
	require.NoError(t, err)
	semi := sys.Surfaces[1].SemiDiameter

	r, err := s.Pupil(system.Field{Kind: system.FieldAngle}, 0.5, -0.25)
	require.NoError(t, err)
	x, y := stopHit(t, sys, r)
	assert.InDelta(t, 0.5*semi, x, fan.MissTolFactor*semi*2)
	assert.InDelta(t, -0.25*semi, y, fan.MissTolFactor*semi*2)
	assert.Equal(t, [2]float64{0.5, -0.25}, r.Pupil)
}

func TestCrossFan_CountAndOrdering(t *testing.T) {
	sys := planoConvex(12)
	s, err := fan.NewSolver(sys, dLine)
	require.NoError(t, err)

	f, err := s.CrossFan(system.Field{Kind: system.FieldAngle}, 33)
	require.NoError(t, err)

	all := f.All()
	// 33 rays requested: chief + 4 marginals + 4·(8−1) interior.
	assert.Len(t, all, 33)
	assert.Equal(t, [2]float64{0, 0}, f.Chief.Pupil)
	for _, r := range all {
		assert.True(t, r.Converged(), "pupil (%.3f, %.3f)", r.Pupil[0], r.Pupil[1])
	}
}

func TestCrossFan_DefaultBudget(t *testing.T) {
	sys := planoConvex(12)
	s, err := fan.NewSolver(sys, dLine)
	require.NoError(t, err)

	f, err := s.CrossFan(system.Field{Kind: system.FieldAngle}, 0)
	require.NoError(t, err)
	assert.Len(t, f.All(), fan.DefaultFanCount)
}

func TestCrossFan_RetainsVignettedMembers(t *testing.T) {
	// Shrink the rear aperture so edge rays clip behind the stop.
	sys := planoConvex(12)
	sys.Surfaces[2].SemiDiameter = 8

	s, err := fan.NewSolver(sys, dLine)
	require.NoError(t, err)

	f, err := s.CrossFan(system.Field{Kind: system.FieldAngle}, 17)
	require.NoError(t, err, "downstream clipping is not a solve failure")
	assert.Len(t, f.All(), 17, "vignetted rays stay in the fan")
	assert.True(t, f.Chief.Converged(), "axial chief survives")
	assert.False(t, f.Upper.Converged())
	assert.Equal(t, fan.Vignetted, f.Upper.Status)
}

func TestHeightField_RequiresFiniteObject(t *testing.T) {
	sys := planoConvex(12)
	s, err := fan.NewSolver(sys, dLine)
	require.NoError(t, err)

	_, err = s.Chief(system.Field{Kind: system.FieldHeight, Y: 1})
	assert.ErrorIs(t, err, fan.ErrFieldNeedsFiniteObject)
}

func TestHeightField_FiniteObjectChief(t *testing.T) {
	sys := planoConvex(12)
	sys.Surfaces[0].Thickness = 200 // finite object 200 mm in front

	s, err := fan.NewSolver(sys, dLine)
	require.NoError(t, err)

	r, err := s.Chief(system.Field{Kind: system.FieldHeight, Y: 5})
	require.NoError(t, err)
	require.True(t, r.Converged())
	assert.InDelta(t, 5.0, r.Ray.Origin.Y, 1e-12, "origin pinned to the field point")
	assert.InDelta(t, -200.0, r.Ray.Origin.Z, 1e-12)

	x, y := stopHit(t, sys, r)
	assert.Less(t, math.Hypot(x, y), fan.MissTolFactor*12)
}
