package geom

import "math"

// Refract bends the unit direction in across an interface with normal n,
// going from index n1 into n2, by the vector form of Snell's law.
//
// The normal may point either way; it is flipped internally so that it faces
// the incoming half-space, which keeps callers free of orientation
// bookkeeping. ok=false signals total internal reflection; the returned
// direction is then the zero vector and must not be propagated.
//
// Contract: in and normal unit length; n1, n2 > 0.
func Refract(in, normal Vec3, n1, n2 float64) (out Vec3, ok bool) {
	n := normal
	cosi := in.Dot(n)
	if cosi > 0 {
		// Normal faces away from the incoming ray: flip it.
		n = n.Mul(-1)
		cosi = -cosi
	}
	cosi = -cosi
	// Clamp against FP drift on grazing/normal incidence.
	if cosi < 0 {
		cosi = 0
	} else if cosi > 1 {
		cosi = 1
	}

	eta := n1 / n2
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return Vec3{}, false
	}
	out = in.Mul(eta).Add(n.Mul(eta*cosi - math.Sqrt(k)))
	return out.Normalize(), true
}

// Reflect mirrors the unit direction in about the normal.
//
// The normal's orientation is irrelevant: the formula is even in n.
func Reflect(in, normal Vec3) Vec3 {
	return in.Sub(normal.Mul(2 * in.Dot(normal))).Normalize()
}
