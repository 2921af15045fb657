// End-to-end acceptance paths: each test builds one stock system and walks
// it through the full pipeline (aim, trace, analyze) the way a caller would.
package builder_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optray/optray/aberration"
	"github.com/optray/optray/builder"
	"github.com/optray/optray/fan"
	"github.com/optray/optray/glass"
	"github.com/optray/optray/merit"
	"github.com/optray/optray/paraxial"
	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
	"github.com/optray/optray/wavefront"
)

// The reference singlet: the axial marginal meets the stop edge exactly and
// the axial chief lands on the image center.
func TestScenario_AxialSinglet(t *testing.T) {
	sys := builder.PlanoConvexSinglet()
	s, err := fan.NewSolver(sys, glass.WavelengthD)
	require.NoError(t, err)

	axial := system.Field{Kind: system.FieldAngle}
	stopIdx, err := sys.StopIndex()
	require.NoError(t, err)

	marg, err := s.Marginal(axial, fan.Up)
	require.NoError(t, err)
	require.True(t, marg.Converged())
	rec := marg.Path.At(stopIdx)
	require.NotNil(t, rec)
	assert.InDelta(t, builder.SingletSemiDiameter, rec.Pos.Y,
		fan.MissTolFactor*builder.SingletSemiDiameter, "marginal pinned to the stop edge")

	chief, err := s.Chief(axial)
	require.NoError(t, err)
	require.True(t, chief.Converged())
	img := chief.Path.Final()
	require.NotNil(t, img)
	assert.InDelta(t, 0, img.Pos.X, 1e-9)
	assert.InDelta(t, 0, img.Pos.Y, 1e-9, "axial chief crosses the image center")
}

// The aspheric collimator is diffraction limited on axis: under a hundredth
// of a wave RMS once piston and tilt are fitted out.
func TestScenario_CollimatorWavefront(t *testing.T) {
	sys := builder.AsphericCollimator()

	wf, err := wavefront.SampleOPD(sys, glass.WavelengthD, system.Field{Kind: system.FieldAngle})
	require.NoError(t, err)
	for _, s := range wf.Samples {
		assert.Equal(t, 1.0, s.Weight, "open pupil, nothing clips")
	}

	fit, err := wavefront.FitZernike(wf, wavefront.WithoutPistonTilt())
	require.NoError(t, err)
	assert.Less(t, fit.CoefficientRMS(), 0.01, "corrected asphere holds 1/100 wave")
}

// Third-order sums of the stock achromat at 3° field against the values
// computed by hand from the catalog dispersion data.
func TestScenario_AchromatThirdOrder(t *testing.T) {
	sys := builder.Achromat(100, 10)
	sys.Fields = append(sys.Fields, system.Field{Kind: system.FieldAngle, Y: 3})

	ev, err := merit.NewEvaluator(sys)
	require.NoError(t, err)

	res, err := ev.Evaluate([]system.OperandRow{
		{ID: "sph", Kind: string(merit.Tot3Sph), Weight: 1},
		{ID: "coma", Kind: string(merit.Tot3Coma), Weight: 1},
		{ID: "lca", Kind: string(merit.TotLca), Weight: 1},
	})
	require.NoError(t, err)
	require.Empty(t, res.Penalized)

	assert.InEpsilon(t, 0.0043028, res.Terms[0].Value, 0.01, "TOT3_SPH")
	assert.InEpsilon(t, 0.0025440, res.Terms[1].Value, 0.01, "TOT3_COMA")
	assert.InEpsilon(t, 0.00045102, res.Terms[2].Value, 0.01, "TOT_LCA")
}

// A near-zero-thickness constant-index lens maps field angles to f·tan θ
// with no measurable distortion across a ±5° grid.
func TestScenario_IdealLensDistortionGrid(t *testing.T) {
	cat := glass.NewCatalog()
	cat.Add(glass.Material{Name: "IDEAL", Formula: glass.Constant, Nd: 1.5})

	// f = 100 symmetric biconvex; 1 µm of glass keeps the surfaces apart
	// for the real tracer without moving the principal planes.
	sys := &system.System{
		Surfaces: []surface.Surface{
			{Kind: surface.Object, Radius: surface.Infinity(), Thickness: math.Inf(1)},
			{Kind: surface.Standard, Radius: 100, Thickness: 1e-3,
				SemiDiameter: 1, Material: "IDEAL", Stop: true},
			{Kind: surface.Standard, Radius: -100, Thickness: 0, SemiDiameter: 1},
			{Kind: surface.Image, Radius: surface.Infinity()},
		},
		Sources: []system.Source{{Wavelength: glass.WavelengthD, Weight: 1, Primary: true}},
		Fields: []system.Field{
			{Kind: system.FieldAngle},
			{Kind: system.FieldAngle, Y: 5},
		},
		Catalog: cat,
	}
	m, err := paraxial.Analyze(sys, glass.WavelengthD)
	require.NoError(t, err)
	sys.Surfaces[2].Thickness = m.IMD

	g, err := aberration.DistortionGrid(sys, glass.WavelengthD, aberration.WithGridSize(5))
	require.NoError(t, err)

	for k := range g.Real {
		require.True(t, g.Valid[k], "mesh point %d traced", k)
		ref := math.Hypot(g.Ideal[k].X, g.Ideal[k].Y)
		if ref == 0 {
			continue
		}
		miss := math.Hypot(g.Real[k].X-g.Ideal[k].X, g.Real[k].Y-g.Ideal[k].Y)
		assert.Less(t, miss/ref, 1e-6, "mesh point %d", k)
	}
}

// At 30° field the pinhole-stop singlet clips the top of the beam on the
// rear lens aperture: those pupil samples carry zero weight, the rest of
// the map stays usable.
func TestScenario_VignettedPupilWeights(t *testing.T) {
	sys := builder.VignettingSinglet()

	wf, err := wavefront.SampleOPD(sys, glass.WavelengthD,
		system.Field{Kind: system.FieldAngle, Y: 30})
	require.NoError(t, err)

	var clipped, open int
	for _, s := range wf.Samples {
		if s.Weight == 0 {
			clipped++
			assert.Equal(t, 0.0, s.OPD, "masked sample carries no OPD")
			assert.Greater(t, s.V, 0.5, "only the top of the pupil clips")
			continue
		}
		open++
		if s.V <= 0 {
			assert.Equal(t, 1.0, s.Weight, "lower pupil half is fully open")
		}
	}
	assert.Greater(t, clipped, 0, "the vignetting boundary cuts the pupil")
	assert.Greater(t, open, clipped, "most of the pupil survives")
}
