// Package trace_test checks the sequential tracer: identity propagation,
// OPL bookkeeping, aperture clipping, TIR and material failure signalling.
package trace_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optray/optray/geom"
	"github.com/optray/optray/glass"
	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
	"github.com/optray/optray/trace"
)

const dLine = 0.5876

// planeSlab builds object | plane(stop) | plane | image, with the two inner
// planes bounding a slab of the given material.
func planeSlab(material string) *system.System {
	return &system.System{
		Surfaces: []surface.Surface{
			{Kind: surface.Object, Radius: surface.Infinity(), Thickness: surface.Infinity()},
			{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: 4, SemiDiameter: 10, Material: material, Stop: true},
			{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: 20, SemiDiameter: 10},
			{Kind: surface.Image, Radius: surface.Infinity()},
		},
		Sources: []system.Source{{Wavelength: dLine, Weight: 1, Primary: true}},
		Catalog: glass.NewCatalog(),
	}
}

func TestTrace_IdentityThroughTrivialInterface(t *testing.T) {
	sys := planeSlab("") // air on both sides: n1 == n2 everywhere
	require.NoError(t, sys.Validate())

	ray := geom.NewRay(geom.Vec3{X: 1, Y: -2, Z: -10}, geom.Vec3{X: 0.02, Y: 0.01, Z: 1}, dLine)
	p := trace.Trace(sys, ray)
	require.False(t, p.Vignetted, "reason: %v", p.Reason)

	final := p.Final()
	require.NotNil(t, final)
	assert.InDelta(t, ray.Dir.X, final.Dir.X, 1e-12, "direction preserved")
	assert.InDelta(t, ray.Dir.Y, final.Dir.Y, 1e-12)
	assert.InDelta(t, ray.Dir.Z, final.Dir.Z, 1e-12)

	// The final point must sit on the original line.
	tm := (final.Pos.Z - ray.Origin.Z) / ray.Dir.Z
	want := ray.At(tm)
	assert.InDelta(t, want.X, final.Pos.X, 1e-12)
	assert.InDelta(t, want.Y, final.Pos.Y, 1e-12)
}

func TestTrace_OPLThroughSlab(t *testing.T) {
	sys := planeSlab("N-BK7")
	ray := geom.NewRay(geom.Vec3{Z: -10}, geom.Vec3{Z: 1}, dLine)

	p := trace.Trace(sys, ray)
	require.False(t, p.Vignetted)
	require.Len(t, p.Records, 3)

	n, err := sys.Catalog.Index("N-BK7", dLine)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, p.Records[0].OPL, 1e-12, "air gap to the first plane")
	assert.InDelta(t, 10+4*n, p.Records[1].OPL, 1e-12, "slab adds 4·n")
	assert.InDelta(t, 10+4*n+20, p.Records[2].OPL, 1e-12, "air to the image")
}

func TestTrace_ApertureVignetting(t *testing.T) {
	sys := planeSlab("")
	ray := geom.NewRay(geom.Vec3{X: 11, Z: -10}, geom.Vec3{Z: 1}, dLine)

	p := trace.Trace(sys, ray)
	require.True(t, p.Vignetted)
	assert.Equal(t, trace.ReasonAperture, p.Reason)
	assert.Equal(t, 1, p.StoppedAt, "clipped at the stop surface")
	assert.True(t, p.Final().Vignetted)
}

func TestTrace_UnknownMaterial(t *testing.T) {
	sys := planeSlab("UNOBTAINIUM")
	ray := geom.NewRay(geom.Vec3{Z: -10}, geom.Vec3{Z: 1}, dLine)

	p := trace.Trace(sys, ray)
	require.True(t, p.Vignetted)
	assert.Equal(t, trace.ReasonMaterial, p.Reason)
}

func TestTrace_TotalInternalReflection(t *testing.T) {
	// Dense-to-air exit plane hit at ~60°, past the ~41.3° critical angle.
	sys := planeSlab("N-BK7")
	sys.Surfaces[0].Material = "N-BK7" // object space already inside glass
	sys.Surfaces[1].SemiDiameter = 50
	sys.Surfaces[2].SemiDiameter = 50

	ray := geom.NewRay(geom.Vec3{Z: -2}, geom.Vec3{X: 1.7, Z: 1}, dLine)
	p := trace.Trace(sys, ray)
	require.True(t, p.Vignetted)
	assert.Equal(t, trace.ReasonTIR, p.Reason)
	assert.Equal(t, 2, p.StoppedAt, "TIR at the glass→air face")
}

func TestTrace_SingletFocusesAxialRay(t *testing.T) {
	// Plano-convex singlet, curved side first: R=50, t=4, N-BK7.
	sys := &system.System{
		Surfaces: []surface.Surface{
			{Kind: surface.Object, Radius: surface.Infinity(), Thickness: surface.Infinity()},
			{Kind: surface.Standard, Radius: 50, Thickness: 4, SemiDiameter: 10, Material: "N-BK7", Stop: true},
			{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: 95, SemiDiameter: 10},
			{Kind: surface.Image, Radius: surface.Infinity()},
		},
		Sources: []system.Source{{Wavelength: dLine, Weight: 1, Primary: true}},
		Catalog: glass.NewCatalog(),
	}
	require.NoError(t, sys.Validate())

	// A paraxial-height parallel ray: crossing z ≈ back focal distance.
	ray := geom.NewRay(geom.Vec3{Y: 0.5, Z: -10}, geom.Vec3{Z: 1}, dLine)
	p := trace.Trace(sys, ray)
	require.False(t, p.Vignetted, "reason: %v", p.Reason)

	rec := p.At(2)
	require.NotNil(t, rec)
	require.Negative(t, rec.Dir.Y, "ray converges after the lens")
	zCross := rec.Pos.Z - rec.Pos.Y/rec.Dir.Y*rec.Dir.Z

	// EFL ≈ 97.8 mm, principal plane at the curved face ⇒ BFD ≈ EFL − t/n.
	n, _ := sys.Catalog.Index("N-BK7", dLine)
	efl := 1 / ((n - 1) * (1 / 50.0))
	bfd := efl - 4/n
	assert.InDelta(t, 4+bfd, zCross, 0.05, "axial crossing near the paraxial focus")
}

func TestTrace_MirrorFoldsTheAxis(t *testing.T) {
	// Object | flat fold mirror | image placed back toward the object.
	sys := &system.System{
		Surfaces: []surface.Surface{
			{Kind: surface.Object, Radius: surface.Infinity(), Thickness: surface.Infinity()},
			{Kind: surface.Mirror, Radius: surface.Infinity(), Thickness: -30, SemiDiameter: 20, Stop: true},
			{Kind: surface.Image, Radius: surface.Infinity()},
		},
		Sources: []system.Source{{Wavelength: dLine, Weight: 1, Primary: true}},
		Catalog: glass.NewCatalog(),
	}
	require.NoError(t, sys.Validate())

	ray := geom.NewRay(geom.Vec3{Y: 1, Z: -10}, geom.Vec3{Z: 1}, dLine)
	p := trace.Trace(sys, ray)
	require.False(t, p.Vignetted, "reason: %v", p.Reason)

	final := p.Final()
	assert.InDelta(t, -1.0, final.Dir.Z, 1e-12, "propagation reversed")
	assert.InDelta(t, -30.0, final.Pos.Z, 1e-9, "image plane reached at z=−30")
	assert.InDelta(t, 1.0, final.Pos.Y, 1e-12, "height preserved by a flat fold")
}

func TestTraceOpenStop_StopDoesNotClip(t *testing.T) {
	sys := planeSlab("")
	ray := geom.NewRay(geom.Vec3{X: 11, Z: -10}, geom.Vec3{Z: 1}, dLine)

	// Strict trace clips at the stop (semi-diameter 10); the open-stop
	// variant lets the same ray through while other apertures still apply.
	require.True(t, trace.Trace(sys, ray).Vignetted)

	p := trace.TraceOpenStop(sys, ray, 1)
	assert.True(t, p.Vignetted, "next aperture still clips at x=11")
	assert.Equal(t, 2, p.StoppedAt)

	sys.Surfaces[2].SemiDiameter = 15
	p = trace.TraceOpenStop(sys, ray, 1)
	assert.False(t, p.Vignetted)
}
