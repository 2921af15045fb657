package surface

import "math"

// Kind tags the role of a surface in the ordered list.
type Kind int

const (
	// Object is the object plane; always index 0.
	Object Kind = iota
	// Standard is a refractive spherical (or plane) surface.
	Standard
	// Stop is the aperture stop surface.
	Stop
	// Image is the image plane; always the last index.
	Image
	// AsphericEven adds even polynomial terms r², r⁴, …, r²⁰ to the conic.
	AsphericEven
	// AsphericOdd adds odd polynomial terms r³, r⁵, …, r²¹ to the conic.
	AsphericOdd
	// Mirror reflects instead of refracting and flips the propagation axis.
	Mirror
)

// String implements fmt.Stringer for diagnostics.
func (k Kind) String() string {
	switch k {
	case Object:
		return "Object"
	case Standard:
		return "Standard"
	case Stop:
		return "Stop"
	case Image:
		return "Image"
	case AsphericEven:
		return "AsphericEven"
	case AsphericOdd:
		return "AsphericOdd"
	case Mirror:
		return "Mirror"
	default:
		return "Unknown"
	}
}

// CoefCount is the number of polynomial sag coefficients per surface.
const CoefCount = 10

// Surface is one entry in the ordered surface list.
//
// Sign conventions: Radius > 0 places the center of curvature on the +z side
// of the vertex; Thickness is the signed axial distance to the next vertex.
type Surface struct {
	Kind         Kind
	Radius       float64 // ±Inf or 0 ⇒ plane
	Thickness    float64 // ±Inf only on Object (afocal) or Image space
	Conic        float64
	Coef         [CoefCount]float64
	SemiDiameter float64 // clear semi-aperture, > 0
	Material     string  // glass name; empty ⇒ air
	Stop         bool    // exactly one surface per valid system
}

// Infinity is the canonical encoding of a plane radius / infinite thickness.
func Infinity() float64 { return math.Inf(1) }

// IsInfinite reports whether x carries the ∞ sentinel.
func IsInfinite(x float64) bool { return math.IsInf(x, 0) }

// IsPlane reports whether the surface's base conic is a plane.
func (s *Surface) IsPlane() bool { return s.Radius == 0 || math.IsInf(s.Radius, 0) }

// oddMode reports whether the polynomial exponents are 3,5,…,21.
func (s *Surface) oddMode() bool { return s.Kind == AsphericOdd }

// CurvatureRadius exposes the signed base radius for the Newton intersector.
func (s *Surface) CurvatureRadius() float64 { return s.Radius }

// Curvature returns 1/R, or 0 for a plane.
func (s *Surface) Curvature() float64 {
	if s.IsPlane() {
		return 0
	}
	return 1 / s.Radius
}

// Sag evaluates z(r).
//
// Degenerate returns (all exactly 0): r = 0; R = 0; discriminant < 0 or
// non-finite; non-finite total. A plane with R = ±Inf keeps its polynomial
// terms (the base term vanishes smoothly); R = 0 is the "unset" sentinel and
// kills the whole sag, matching the reference kernel.
//
// Complexity: O(CoefCount).
func (s *Surface) Sag(r float64) float64 {
	if r == 0 || s.Radius == 0 {
		return 0
	}
	r2 := r * r

	base := 0.0
	if !math.IsInf(s.Radius, 0) {
		disc := 1 - (1+s.Conic)*r2/(s.Radius*s.Radius)
		if math.IsNaN(disc) || disc < 0 {
			return 0
		}
		base = r2 / (s.Radius * (1 + math.Sqrt(disc)))
	}

	out := base + s.polySag(r, r2)
	if math.IsNaN(out) || math.IsInf(out, 0) {
		return 0
	}
	return out
}

// DSag evaluates dz/dr in closed form. Returns 0 at r = 0 and for the R = 0
// sentinel. When the conic discriminant collapses (term ≥ 1) the base slope
// degenerates to 1/R, the reference kernel's continuation.
//
// Complexity: O(CoefCount).
func (s *Surface) DSag(r float64) float64 {
	if r == 0 || s.Radius == 0 {
		return 0
	}
	r2 := r * r

	base := 0.0
	if !math.IsInf(s.Radius, 0) {
		term := (1 + s.Conic) * r2 / (s.Radius * s.Radius)
		if term < 1 {
			sq := math.Sqrt(1 - term)
			if sq > 0 {
				denom := s.Radius * (1 + sq)
				der := (1 + s.Conic) * r / (s.Radius * s.Radius * sq)
				base = (2*r*denom - r2*s.Radius*der) / (denom * denom)
			}
		} else {
			base = 1 / s.Radius
		}
	}
	return base + s.polyDSag(r, r2)
}

// polySag sums the aspheric polynomial: coef_i · r^(2i) or r^(2i+1).
func (s *Surface) polySag(r, r2 float64) float64 {
	sum := 0.0
	pow := r2 // even mode starts at r²
	if s.oddMode() {
		pow = r2 * r // odd mode starts at r³
	}
	for i := 0; i < CoefCount; i++ {
		if c := s.Coef[i]; c != 0 {
			sum += c * pow
		}
		pow *= r2
	}
	return sum
}

// polyDSag sums the polynomial derivative: coef_i·p·r^(p−1).
func (s *Surface) polyDSag(r, r2 float64) float64 {
	sum := 0.0
	if s.oddMode() {
		pow := r2 // d/dr r³ carries r²
		for i := 0; i < CoefCount; i++ {
			if c := s.Coef[i]; c != 0 {
				sum += c * float64(2*(i+1)+1) * pow
			}
			pow *= r2
		}
		return sum
	}
	pow := r // d/dr r² carries r¹
	for i := 0; i < CoefCount; i++ {
		if c := s.Coef[i]; c != 0 {
			sum += c * float64(2*(i+1)) * pow
		}
		pow *= r2
	}
	return sum
}
