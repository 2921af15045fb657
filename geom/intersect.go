package geom

import "math"

// Numeric guards shared by the intersection kernels. Values are pinned to the
// reference kernel and covered by the seed-robustness tests.
const (
	epsT    = 1e-10 // minimal admissible ray parameter
	epsDirZ = 1e-14 // |dz| below this ⇒ ray parallel to the vertex plane
	epsR    = 1e-14 // radial direction below this ⇒ no radial progress
	epsDFDT = 1e-14 // |dF/dt| below this ⇒ Newton step undefined

	// DefaultNewtonMaxIter bounds a single Newton run per seed.
	DefaultNewtonMaxIter = 20

	// DefaultNewtonTol is the convergence threshold on |z_ray − sag(r_ray)|.
	DefaultNewtonTol = 1e-7
)

// SagProfile is the rotationally-symmetric surface contract the Newton
// intersector solves against. Implementations must be pure: same r ⇒ same
// sag, no retained state.
type SagProfile interface {
	// Sag returns the axial displacement z(r) from the vertex plane.
	Sag(r float64) float64
	// DSag returns the closed-form derivative dz/dr.
	DSag(r float64) float64
	// CurvatureRadius returns the signed base radius; 0 or ±Inf means plane.
	CurvatureRadius() float64
}

// IntersectSphere returns the smallest positive parameter t at which the ray
// origin+t·dir meets the sphere of the given center and radius.
//
// Contract: dir need not be unit length (the quadratic handles |dir| ≠ 1).
// Misses — negative discriminant or both roots non-positive — return ok=false.
//
// Complexity: O(1).
func IntersectSphere(origin, dir, center Vec3, radius float64) (t float64, ok bool) {
	oc := origin.Sub(center)
	a := dir.Dot(dir)
	if a == 0 {
		return 0, false
	}
	b := 2 * oc.Dot(dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sd := math.Sqrt(disc)
	t1 := (-b - sd) / (2 * a)
	t2 := (-b + sd) / (2 * a)
	if t1 > 0 {
		return t1, true
	}
	if t2 > 0 {
		return t2, true
	}
	return 0, false
}

// IntersectAspheric locates the intersection of a ray with an axisymmetric
// surface placed at z = 0 in the ray's (local) frame, by Newton iteration on
// F(t) = z_ray(t) − sag(r_ray(t)).
//
// Seed schedule (first converged, in-aperture hit wins):
//  1. both positive roots of the base-sphere approximation, nearest first;
//  2. the plane z = 0;
//  3. radial targets at 0.8·semiDia and 1.0·semiDia along the ray;
//  4. a geometric ladder {1e-6, 1e-4, 1e-2} when no other seed exists.
//
// A Newton run stops when |F| < tol, after maxIter steps, or when |dF/dt|
// collapses below 1e-14. A converged point whose radial coordinate exceeds
// semiDia (when semiDia > 0) rejects the seed and the next one is tried.
// Non-positive and non-finite t are rejected throughout.
//
// maxIter ≤ 0 and tol ≤ 0 fall back to DefaultNewtonMaxIter / DefaultNewtonTol.
//
// Complexity: O(seeds · maxIter) sag evaluations.
func IntersectAspheric(origin, dir Vec3, prof SagProfile, semiDia float64, maxIter int, tol float64) (t float64, ok bool) {
	if !origin.IsFinite() || !dir.IsFinite() {
		return 0, false
	}
	if maxIter <= 0 {
		maxIter = DefaultNewtonMaxIter
	}
	if !(tol > 0) {
		tol = DefaultNewtonTol
	}

	seeds := newtonSeeds(origin, dir, prof, semiDia)
	for _, t0 := range seeds {
		if !(t0 > 0) || math.IsInf(t0, 0) || math.IsNaN(t0) {
			continue
		}
		if th, hit := newtonRun(origin, dir, prof, semiDia, t0, maxIter, tol); hit {
			return th, true
		}
	}
	return 0, false
}

// newtonSeeds builds the ordered initial-guess list for IntersectAspheric.
func newtonSeeds(origin, dir Vec3, prof SagProfile, semiDia float64) []float64 {
	seeds := make([]float64, 0, 6)

	// 1) Base-sphere candidates: center at (0,0,R), both positive roots,
	//    nearest first.
	if radius := prof.CurvatureRadius(); radius != 0 && !math.IsInf(radius, 0) && !math.IsNaN(radius) {
		oc := Vec3{origin.X, origin.Y, origin.Z - radius}
		a := dir.Dot(dir)
		if a != 0 {
			b := 2 * oc.Dot(dir)
			c := oc.Dot(oc) - radius*radius
			if disc := b*b - 4*a*c; disc >= 0 {
				sd := math.Sqrt(disc)
				t1 := (-b - sd) / (2 * a)
				t2 := (-b + sd) / (2 * a)
				if t1 > epsT {
					seeds = append(seeds, t1)
				}
				if t2 > epsT {
					seeds = append(seeds, t2)
				}
				if len(seeds) == 2 && seeds[0] > seeds[1] {
					seeds[0], seeds[1] = seeds[1], seeds[0]
				}
			}
		}
	}

	// 2) Plane z = 0.
	if math.Abs(dir.Z) > epsDirZ {
		if tp := -origin.Z / dir.Z; tp > epsT {
			seeds = append(seeds, tp)
		}
	}

	// 3) Radial targets toward the clear edge.
	if semiDia > 0 && !math.IsInf(semiDia, 0) {
		curR := origin.RadialXY()
		dirR := math.Hypot(dir.X, dir.Y)
		if dirR > epsR {
			for _, frac := range [...]float64{0.8, 1.0} {
				if target := semiDia * frac; target > curR {
					if ts := (target - curR) / dirR; ts > epsT {
						seeds = append(seeds, ts)
					}
				}
			}
		}
	}

	// 4) Fallback ladder.
	if len(seeds) == 0 {
		seeds = append(seeds, 1e-6, 1e-4, 1e-2)
	}
	return seeds
}

// newtonRun performs one Newton descent from t0; ok=true only for a
// converged, in-aperture, strictly positive parameter.
func newtonRun(origin, dir Vec3, prof SagProfile, semiDia float64, t0 float64, maxIter int, tol float64) (float64, bool) {
	t := t0
	for i := 0; i < maxIter; i++ {
		p := Vec3{origin.X + dir.X*t, origin.Y + dir.Y*t, origin.Z + dir.Z*t}
		r := p.RadialXY()

		f := p.Z - prof.Sag(r)
		if math.Abs(f) < tol {
			if semiDia > 0 && !math.IsInf(semiDia, 0) && r > semiDia {
				return 0, false // outside the clear aperture; try next seed
			}
			if t > 0 {
				return t, true
			}
			return 0, false
		}

		drdt := 0.0
		if r > epsR {
			drdt = (p.X*dir.X + p.Y*dir.Y) / r
		}
		dfdt := dir.Z - prof.DSag(r)*drdt
		if math.IsNaN(dfdt) || math.IsInf(dfdt, 0) || math.Abs(dfdt) < epsDFDT {
			return 0, false
		}

		step := f / dfdt
		if math.IsNaN(step) || math.IsInf(step, 0) {
			return 0, false
		}
		t -= step
		if !(t > 0) {
			return 0, false
		}
	}
	return 0, false
}
