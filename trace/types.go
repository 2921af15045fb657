package trace

import "github.com/optray/optray/geom"

// Reason classifies why a ray stopped short of the image plane.
type Reason int

const (
	// ReasonNone: the ray reached the image surface.
	ReasonNone Reason = iota
	// ReasonMiss: the intersection solver found no surface hit.
	ReasonMiss
	// ReasonAperture: the hit fell outside the clear semi-diameter.
	ReasonAperture
	// ReasonTIR: total internal reflection at a refracting surface.
	ReasonTIR
	// ReasonMaterial: a surface references an unknown material.
	ReasonMaterial
	// ReasonNonConvergent: the Newton intersection failed to converge.
	ReasonNonConvergent
)

// String implements fmt.Stringer for diagnostics.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonMiss:
		return "miss"
	case ReasonAperture:
		return "aperture"
	case ReasonTIR:
		return "tir"
	case ReasonMaterial:
		return "material"
	case ReasonNonConvergent:
		return "non-convergent"
	default:
		return "unknown"
	}
}

// Record is the state of the ray at one surface.
type Record struct {
	Surface   int       // surface index in the system list
	Pos       geom.Vec3 // global intersection point
	Dir       geom.Vec3 // unit direction after the surface
	OPL       float64   // optical path accumulated up to this point
	Vignetted bool
	Reason    Reason
}

// Path is the full per-surface record of one traced ray.
type Path struct {
	Ray       geom.Ray // the launched ray, for reference
	Records   []Record
	Vignetted bool
	Reason    Reason
	StoppedAt int // surface index of the failure; −1 when none
}

// Final returns the last record, or nil for an empty path.
func (p *Path) Final() *Record {
	if len(p.Records) == 0 {
		return nil
	}
	return &p.Records[len(p.Records)-1]
}

// At returns the record for surface index i, or nil when the ray never got
// there.
func (p *Path) At(i int) *Record {
	for k := range p.Records {
		if p.Records[k].Surface == i {
			return &p.Records[k]
		}
	}
	return nil
}

// Reached reports whether the ray produced a non-vignetted record at i.
func (p *Path) Reached(i int) bool {
	r := p.At(i)
	return r != nil && !r.Vignetted
}
