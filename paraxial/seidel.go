package paraxial

import (
	"math"

	"github.com/optray/optray/glass"
	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
)

// Seidel holds the third-order aberration sums over all surfaces, in the
// Welford normalization: S1 spherical, S2 coma, S3 astigmatism, S4 Petzval
// field curvature, S5 distortion, plus the paraxial chromatic sums CL
// (axial) and CT (lateral), computed from the F−C principal dispersion.
type Seidel struct {
	S1, S2, S3, S4, S5 float64
	CL, CT             float64

	// PerSurface carries the individual contributions, aligned with the
	// optical surfaces (object and image planes excluded).
	PerSurface []SeidelTerm

	// Lagrange is the optical invariant H of the marginal/chief pair.
	Lagrange float64
}

// SeidelTerm is the contribution of one surface.
type SeidelTerm struct {
	Index              int
	S1, S2, S3, S4, S5 float64
	CL, CT             float64
}

// Sums computes the Seidel sums for the axial marginal ray (stop edge) and
// the full-field chief ray (stop center) at λ. With an empty object table
// the chief is the axial ray and the field-dependent sums vanish.
//
// Errors: structural sentinels and material failures.
//
// Complexity: O(surfaces).
func Sums(sys *system.System, lambda float64) (*Seidel, error) {
	from, to, err := opticalRange(sys)
	if err != nil {
		return nil, err
	}
	stopIdx, err := sys.StopIndex()
	if err != nil {
		return nil, err
	}
	stopSemi := sys.Surfaces[stopIdx].SemiDiameter

	basisP, err := Reduce(sys, lambda, from, to, 1, 0)
	if err != nil {
		return nil, err
	}
	basisQ, err := Reduce(sys, lambda, from, to, 0, 1)
	if err != nil {
		return nil, err
	}
	a := stateAt(basisP, stopIdx).H
	b := stateAt(basisQ, stopIdx).H

	// Marginal ray: axial object point scaled to the stop edge.
	var mh, mu float64 // launch state just before the first surface
	if sys.ObjectAtInfinity() {
		s := safeDiv(stopSemi, a)
		mh, mu = s, 0
	} else {
		d0 := sys.ObjectDistance()
		s := safeDiv(stopSemi, d0*a+b)
		mh, mu = s*d0, s
	}

	// Chief ray: largest meridional field through the stop center.
	var ch, cu float64
	if y := maxFieldY(sys); y != 0 {
		if sys.ObjectAtInfinity() {
			cu = math.Tan(y * math.Pi / 180)
			ch = -cu * safeDiv(b, a)
		} else {
			d0 := sys.ObjectDistance()
			cu = -y * safeDiv(a, d0*a+b)
			ch = y + cu*d0
		}
	}

	marginal, err := Reduce(sys, lambda, from, to, mh, mu)
	if err != nil {
		return nil, err
	}
	chief, err := Reduce(sys, lambda, from, to, ch, cu)
	if err != nil {
		return nil, err
	}

	out := &Seidel{PerSurface: make([]SeidelTerm, 0, len(marginal.Surfaces))}
	if len(marginal.Surfaces) > 0 {
		m0, c0 := marginal.Surfaces[0], chief.Surfaces[0]
		out.Lagrange = m0.N0 * (c0.U0*m0.H - m0.U0*c0.H)
	}
	h2 := out.Lagrange * out.Lagrange

	for k := range marginal.Surfaces {
		ms, cs := marginal.Surfaces[k], chief.Surfaces[k]
		sf := &sys.Surfaces[ms.Index]

		refrA := ms.N0 * (ms.H*ms.C + ms.U0)
		refrAbar := ms.N0 * (cs.H*ms.C + cs.U0)
		deltaUN := ms.U1/ms.N1 - ms.U0/ms.N0
		deltaInvN := 1/ms.N1 - 1/ms.N0

		term := SeidelTerm{Index: ms.Index}
		term.S1 = -refrA * refrA * ms.H * deltaUN
		term.S2 = -refrA * refrAbar * ms.H * deltaUN
		term.S3 = -refrAbar * refrAbar * ms.H * deltaUN
		term.S4 = -h2 * ms.C * deltaInvN
		if math.Abs(refrA) > 1e-14 {
			term.S5 = (refrAbar / refrA) * (term.S3 + term.S4)
		}

		dn0, dn1, derr := principalDispersion(sys, ms.Index, sf)
		if derr != nil {
			return nil, derr
		}
		deltaDisp := dn1/ms.N1 - dn0/ms.N0
		term.CL = refrA * ms.H * deltaDisp
		term.CT = refrAbar * ms.H * deltaDisp

		out.S1 += term.S1
		out.S2 += term.S2
		out.S3 += term.S3
		out.S4 += term.S4
		out.S5 += term.S5
		out.CL += term.CL
		out.CT += term.CT
		out.PerSurface = append(out.PerSurface, term)
	}
	return out, nil
}

// principalDispersion returns n_F − n_C of the media before and after
// surface idx (0 for air and for the mirror's unchanged medium).
func principalDispersion(sys *system.System, idx int, sf *surface.Surface) (before, after float64, err error) {
	before, err = dispersionOf(sys, idx-1)
	if err != nil {
		return 0, 0, err
	}
	if sf.Kind == surface.Mirror {
		return before, before, nil
	}
	after, err = dispersionOf(sys, idx)
	return before, after, err
}

func dispersionOf(sys *system.System, idx int) (float64, error) {
	if idx < 0 || idx >= len(sys.Surfaces) {
		return 0, nil
	}
	name := sys.Surfaces[idx].Material
	if glass.IsAir(name) {
		return 0, nil
	}
	cat := sys.Catalog
	if cat == nil {
		cat = glass.NewCatalog()
	}
	nf, err := cat.Index(name, glass.WavelengthF)
	if err != nil {
		return 0, err
	}
	nc, err := cat.Index(name, glass.WavelengthC)
	if err != nil {
		return 0, err
	}
	return nf - nc, nil
}

// maxFieldY returns the meridional extent of the largest field point
// (degrees for angle fields, mm for height fields); 0 with no fields.
func maxFieldY(sys *system.System) float64 {
	best := 0.0
	for _, f := range sys.Fields {
		if y := math.Abs(f.Y); y > math.Abs(best) {
			best = f.Y
		}
	}
	return best
}
