// Package builder_test pins the stock fixtures: structural validity plus
// the first-order values the rest of the test suite relies on.
package builder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optray/optray/builder"
	"github.com/optray/optray/fan"
	"github.com/optray/optray/glass"
	"github.com/optray/optray/paraxial"
	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
)

func TestPlanoConvexSinglet_ReferenceValues(t *testing.T) {
	sys := builder.PlanoConvexSinglet()
	require.NoError(t, sys.Validate())

	m, err := paraxial.Analyze(sys, glass.WavelengthD)
	require.NoError(t, err)

	n, _ := sys.Catalog.Index("N-BK7", glass.WavelengthD)
	assert.InDelta(t, 50/(n-1), m.EFL, 1e-9)
	assert.InDelta(t, m.EFL-4/n, m.BFL, 1e-9)
	assert.InDelta(t, 0.0, m.IMD-m.BFL, 1e-9, "image plane at the paraxial focus")
}

func TestThinLens_FocalLengthExact(t *testing.T) {
	for _, f := range []float64{50, 100, 200} {
		sys := builder.ThinLens(f, 10)
		require.NoError(t, sys.Validate())

		m, err := paraxial.Analyze(sys, glass.WavelengthD)
		require.NoError(t, err)
		assert.InDelta(t, f, m.EFL, 1e-9, "f = %.0f", f)
		assert.InDelta(t, f, m.BFL, 1e-9, "thin lens: principal plane at the lens")
	}
}

func TestAsphericCollimator_Shape(t *testing.T) {
	sys := builder.AsphericCollimator()
	require.NoError(t, sys.Validate())

	front := sys.Surfaces[1]
	assert.Equal(t, surface.AsphericEven, front.Kind)
	assert.Equal(t, -1.0, front.Conic)
	assert.Equal(t, builder.CollimatorA4, front.Coef[1])

	m, err := paraxial.Analyze(sys, glass.WavelengthD)
	require.NoError(t, err)
	assert.InDelta(t, 58.0, m.EFL, 1.0, "R=30 N-BK7 front")
}

func TestAchromat_ColorCorrected(t *testing.T) {
	sys := builder.Achromat(100, 10)
	require.NoError(t, sys.Validate())

	m, err := paraxial.Analyze(sys, glass.WavelengthD)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, m.EFL, 1.5, "thin-split design on a thick build")

	// The doublet's axial color must beat a singlet of equal power by far.
	doublet, err := paraxial.Sums(sys, glass.WavelengthD)
	require.NoError(t, err)
	single, err := paraxial.Sums(builder.ThinLens(100, 10), glass.WavelengthD)
	require.NoError(t, err)
	assert.Less(t, math.Abs(doublet.CL), math.Abs(single.CL)/10)
}

func TestVignettingSinglet_ClipsObliqueBeam(t *testing.T) {
	sys := builder.VignettingSinglet()
	require.NoError(t, sys.Validate())

	idx, err := sys.StopIndex()
	require.NoError(t, err)
	assert.Equal(t, builder.VignettingStopSemi, sys.Surfaces[idx].SemiDiameter)

	s, err := fan.NewSolver(sys, glass.WavelengthD)
	require.NoError(t, err)

	// The chief threads the pinhole even at full field.
	for _, y := range []float64{0, 30} {
		chief, err := s.Chief(system.Field{Kind: system.FieldAngle, Y: y})
		require.NoError(t, err)
		assert.True(t, chief.Converged(), "chief at %.0f°", y)
	}

	// The upper 30° marginal walks off the rear lens aperture.
	marg, _ := s.Marginal(system.Field{Kind: system.FieldAngle, Y: 30}, fan.Up)
	assert.Equal(t, fan.Vignetted, marg.Status, "oblique marginal is flagged")

	// The lower one clears it.
	low, err := s.Marginal(system.Field{Kind: system.FieldAngle, Y: 30}, fan.Down)
	require.NoError(t, err)
	assert.True(t, low.Converged())
}

func TestStrongAsphere_TraceableFixture(t *testing.T) {
	sys := builder.StrongAsphere()
	require.NoError(t, sys.Validate())

	front := sys.Surfaces[1]
	assert.Equal(t, builder.StrongConic, front.Conic)
	assert.Equal(t, builder.StrongA4, front.Coef[1])

	s, err := fan.NewSolver(sys, glass.WavelengthD)
	require.NoError(t, err)
	r, err := s.Marginal(system.Field{Kind: system.FieldAngle}, fan.Up)
	require.NoError(t, err, "Newton ladder holds on the hostile profile")
	assert.True(t, r.Converged())
}
