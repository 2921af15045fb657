package paraxial

import (
	"errors"

	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
)

// ErrNoOpticalSurfaces indicates a reduction range with nothing to trace.
var ErrNoOpticalSurfaces = errors.New("paraxial: no optical surfaces in range")

// SurfaceState is the reduced ray state recorded at one surface.
type SurfaceState struct {
	Index int     // surface index in the system list
	C     float64 // curvature 1/R (0 for planes)
	N0    float64 // index before (signed: negative after an odd mirror count)
	N1    float64 // index after
	H     float64 // height at the surface
	U0    float64 // slope before refraction
	U1    float64 // slope after refraction
	D     float64 // signed thickness to the next surface
}

// Reduced is the outcome of one paraxial reduction.
type Reduced struct {
	Surfaces []SurfaceState
	H, U     float64 // state after the last surface of the range
	NImage   float64 // signed index of the final medium
}

// Reduce runs the (α, h, n) reduction from surface `from` to `to` inclusive
// (optical surfaces only; the caller keeps object/image planes out of the
// range). h0 and u0 describe the ray just before surface `from`.
//
// Mirrors reflect by sign inversion of the following indices, the standard
// paraxial treatment; thicknesses stay as stored (negative after a fold).
//
// Errors: ErrNoOpticalSurfaces for an empty range; material resolution
// failures propagate from the catalog.
//
// Complexity: O(surfaces in range).
func Reduce(sys *system.System, lambda float64, from, to int, h0, u0 float64) (*Reduced, error) {
	if from > to || from < 0 || to >= len(sys.Surfaces) {
		return nil, ErrNoOpticalSurfaces
	}

	red := &Reduced{Surfaces: make([]SurfaceState, 0, to-from+1)}
	h, u := h0, u0

	// Medium entering the range: material behind surface from−1, signed by
	// the mirror parity of everything before the range (none for the usual
	// full-range call starting at surface 1).
	n0, err := sys.Index(from-1, lambda)
	if err != nil {
		return nil, err
	}
	sign := 1.0

	for i := from; i <= to; i++ {
		sf := &sys.Surfaces[i]

		var n1 float64
		if sf.Kind == surface.Mirror {
			sign = -sign
			n1 = -n0
		} else {
			n1, err = sys.Index(i, lambda)
			if err != nil {
				return nil, err
			}
			n1 *= sign
		}

		c := sf.Curvature()
		phi := (n1 - n0) * c
		u1 := (u*n0 - h*phi) / n1

		st := SurfaceState{
			Index: i, C: c, N0: n0, N1: n1,
			H: h, U0: u, U1: u1, D: sf.Thickness,
		}
		red.Surfaces = append(red.Surfaces, st)

		u = u1
		if i < to {
			h += u * sf.Thickness
		}
		n0 = n1
	}

	red.H, red.U, red.NImage = h, u, n0
	return red, nil
}

// opticalRange returns the first/last optical surface indices (everything
// between the object and image planes).
func opticalRange(sys *system.System) (from, to int, err error) {
	n := len(sys.Surfaces)
	if n < 3 {
		return 0, 0, ErrNoOpticalSurfaces
	}
	return 1, n - 2, nil
}
