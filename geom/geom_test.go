// Package geom_test exercises the vector and intersection kernels through the
// public API: sphere/Newton intersection agreement, Snell round-trips, and
// degenerate-input behavior.
package geom_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optray/optray/geom"
)

// conicProfile is a minimal SagProfile over the base conic term, used to test
// the Newton intersector without pulling in the surface package.
type conicProfile struct {
	radius float64
	conic  float64
	a4     float64
}

func (p conicProfile) CurvatureRadius() float64 { return p.radius }

func (p conicProfile) Sag(r float64) float64 {
	if r == 0 || p.radius == 0 || math.IsInf(p.radius, 0) {
		return 0
	}
	r2 := r * r
	disc := 1 - (1+p.conic)*r2/(p.radius*p.radius)
	if math.IsNaN(disc) || disc < 0 {
		return 0
	}
	return r2/(p.radius*(1+math.Sqrt(disc))) + p.a4*r2*r2
}

func (p conicProfile) DSag(r float64) float64 {
	if r == 0 || p.radius == 0 || math.IsInf(p.radius, 0) {
		return 0
	}
	r2 := r * r
	term := (1 + p.conic) * r2 / (p.radius * p.radius)
	base := 0.0
	if term < 1 {
		s := math.Sqrt(1 - term)
		denom := p.radius * (1 + s)
		der := (1 + p.conic) * r / (p.radius * p.radius * s)
		base = (2*r*denom - r2*p.radius*der) / (denom * denom)
	} else {
		base = 1 / p.radius
	}
	return base + 4*p.a4*r2*r
}

func TestVec3_BasicAlgebra(t *testing.T) {
	v := geom.Vec3{X: 1, Y: 2, Z: 3}
	w := geom.Vec3{X: -2, Y: 0.5, Z: 4}

	assert.Equal(t, geom.Vec3{X: -1, Y: 2.5, Z: 7}, v.Add(w), "Add")
	assert.Equal(t, geom.Vec3{X: 3, Y: 1.5, Z: -1}, v.Sub(w), "Sub")
	assert.InDelta(t, 11.0, v.Dot(w), 1e-15, "Dot")

	c := v.Cross(w)
	assert.InDelta(t, 0.0, c.Dot(v), 1e-12, "cross orthogonal to v")
	assert.InDelta(t, 0.0, c.Dot(w), 1e-12, "cross orthogonal to w")

	assert.InDelta(t, 1.0, v.Normalize().Norm(), 1e-15, "unit length")
	assert.Equal(t, geom.Vec3{}, geom.Vec3{}.Normalize(), "zero vector stays zero")
}

func TestIntersectSphere_SmallestPositiveRoot(t *testing.T) {
	origin := geom.Vec3{Z: -10}
	dir := geom.Vec3{Z: 1}
	center := geom.Vec3{Z: 5}

	tHit, ok := geom.IntersectSphere(origin, dir, center, 5)
	require.True(t, ok, "axial ray must hit the sphere")
	assert.InDelta(t, 10.0, tHit, 1e-12, "front intersection at z=0")

	// From inside: only the far root is positive.
	tHit, ok = geom.IntersectSphere(geom.Vec3{Z: 5}, dir, center, 5)
	require.True(t, ok)
	assert.InDelta(t, 5.0, tHit, 1e-12, "far intersection at z=10")

	// Clean miss.
	_, ok = geom.IntersectSphere(geom.Vec3{X: 50, Z: -10}, dir, center, 5)
	assert.False(t, ok, "ray far off-axis must miss")
}

func TestIntersectAspheric_MatchesSphereOnConic(t *testing.T) {
	prof := conicProfile{radius: 50}
	origin := geom.Vec3{X: 3, Y: -2, Z: -20}
	dir := geom.Vec3{X: 0.01, Y: 0.02, Z: 1}.Normalize()

	tNewton, ok := geom.IntersectAspheric(origin, dir, prof, 25, 0, 0)
	require.True(t, ok, "Newton must converge on a pure sphere")

	tSphere, ok := geom.IntersectSphere(origin, dir, geom.Vec3{Z: 50}, 50)
	require.True(t, ok)
	assert.InDelta(t, tSphere, tNewton, 1e-6, "Newton and quadratic roots agree")
}

func TestIntersectAspheric_RejectsOutsideAperture(t *testing.T) {
	prof := conicProfile{radius: 50}
	// Aimed to land at r ≈ 10 on the surface; semiDia of 5 must reject it.
	origin := geom.Vec3{X: 10, Z: -20}
	dir := geom.Vec3{Z: 1}

	_, ok := geom.IntersectAspheric(origin, dir, prof, 5, 0, 0)
	assert.False(t, ok, "hit beyond the clear semi-diameter is a miss")

	_, ok = geom.IntersectAspheric(origin, dir, prof, 15, 0, 0)
	assert.True(t, ok, "same ray inside a wider aperture converges")
}

// Strong hyperbolic conic with a large quartic term: the base-sphere seed
// lands far from the true root, so convergence must come from the plane or
// radial seeds of the schedule.
func TestIntersectAspheric_SeedRobustness(t *testing.T) {
	prof := conicProfile{radius: 30, conic: -3, a4: 1e-3}
	origin := geom.Vec3{X: 4, Z: -10}
	dir := geom.Vec3{Z: 1}

	tHit, ok := geom.IntersectAspheric(origin, dir, prof, 6, 20, 1e-7)
	require.True(t, ok, "solver must fall through to an alternate seed")

	p := geom.NewRay(origin, dir, 0.5876).At(tHit)
	assert.InDelta(t, prof.Sag(p.RadialXY()), p.Z, 1e-6, "landed on the surface")
}

func TestRefract_SnellRoundTrip(t *testing.T) {
	normal := geom.Vec3{Z: -1}
	in := geom.Vec3{X: 0.3, Y: -0.1, Z: 1}.Normalize()

	out, ok := geom.Refract(in, normal, 1.0, 1.5168)
	require.True(t, ok, "no TIR entering the denser medium")

	back, ok := geom.Refract(out, normal, 1.5168, 1.0)
	require.True(t, ok, "reverse refraction below the critical angle")

	assert.InDelta(t, in.X, back.X, 1e-12)
	assert.InDelta(t, in.Y, back.Y, 1e-12)
	assert.InDelta(t, in.Z, back.Z, 1e-12)
}

func TestRefract_TotalInternalReflection(t *testing.T) {
	normal := geom.Vec3{Z: -1}
	// Incidence well past the critical angle for n=1.5 → 1.0 (≈41.8°).
	in := geom.Vec3{X: 1, Z: 0.5}.Normalize()

	_, ok := geom.Refract(in, normal, 1.5, 1.0)
	assert.False(t, ok, "steep incidence from the dense side must TIR")
}

func TestReflect_MirrorsAboutNormal(t *testing.T) {
	normal := geom.Vec3{Z: 1}
	in := geom.Vec3{X: 0.5, Z: -1}.Normalize()

	out := geom.Reflect(in, normal)
	assert.InDelta(t, in.X, out.X, 1e-15, "tangential component preserved")
	assert.InDelta(t, -in.Z, out.Z, 1e-15, "axial component flipped")
	assert.InDelta(t, 1.0, out.Norm(), 1e-15, "unit length preserved")
}

func TestFrame_RoundTrip(t *testing.T) {
	f := geom.Frame{VertexZ: 12.5}
	p := geom.Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, p, f.ToGlobal(f.ToLocal(p)), "local/global round trip")
	assert.InDelta(t, -9.5, f.ToLocal(p).Z, 1e-15, "translation along z only")
}
