package system

import (
	"math"

	"github.com/optray/optray/glass"
	"github.com/optray/optray/surface"
)

// Source is one row of the wavelength table.
type Source struct {
	Wavelength float64 `json:"wavelength"` // µm
	Weight     float64 `json:"weight"`
	Primary    bool    `json:"isPrimary"`
	Angle      float64 `json:"angle"` // degrees, source tilt metadata
}

// FieldKind tags how an object point is specified.
type FieldKind int

const (
	// FieldAngle specifies the field by incoming angles (degrees).
	FieldAngle FieldKind = iota
	// FieldHeight specifies the field by object-plane height (mm).
	FieldHeight
)

// Field is one object point.
type Field struct {
	Kind FieldKind `json:"kind"`
	X    float64   `json:"x"`
	Y    float64   `json:"y"`
}

// System is the expanded, trace-ready description. The numeric packages
// treat it as read-only; the caller serializes mutation and re-queries.
type System struct {
	Surfaces []surface.Surface
	Sources  []Source
	Fields   []Field
	Catalog  *glass.Catalog
}

// NumSurfaces returns the surface count.
func (s *System) NumSurfaces() int { return len(s.Surfaces) }

// StopIndex returns the index of the stop surface.
//
// Errors: ErrNoStop / ErrMultipleStops.
func (s *System) StopIndex() (int, error) {
	idx := -1
	for i := range s.Surfaces {
		if s.Surfaces[i].Stop || s.Surfaces[i].Kind == surface.Stop {
			if idx >= 0 {
				return -1, ErrMultipleStops
			}
			idx = i
		}
	}
	if idx < 0 {
		return -1, ErrNoStop
	}
	return idx, nil
}

// StopSemiDiameter returns the clear semi-aperture of the stop.
func (s *System) StopSemiDiameter() (float64, error) {
	idx, err := s.StopIndex()
	if err != nil {
		return 0, err
	}
	return s.Surfaces[idx].SemiDiameter, nil
}

// PrimaryWavelength returns the wavelength flagged primary, in µm.
//
// Errors: ErrNoPrimarySource when the flag count differs from one.
func (s *System) PrimaryWavelength() (float64, error) {
	found := false
	var wl float64
	for _, src := range s.Sources {
		if src.Primary {
			if found {
				return 0, ErrNoPrimarySource
			}
			wl = src.Wavelength
			found = true
		}
	}
	if !found {
		return 0, ErrNoPrimarySource
	}
	return wl, nil
}

// ObjectDistance returns the (positive) axial distance from the object plane
// to the first optical surface; +Inf for an afocal object.
func (s *System) ObjectDistance() float64 {
	if len(s.Surfaces) == 0 {
		return math.Inf(1)
	}
	return math.Abs(s.Surfaces[0].Thickness)
}

// ObjectAtInfinity reports the afocal-object case.
func (s *System) ObjectAtInfinity() bool { return math.IsInf(s.ObjectDistance(), 0) }

// VertexZ returns the global z of every surface vertex. The first optical
// surface (index 1) sits at z = 0; the object plane sits at −ObjectDistance
// (−Inf for an afocal object); all later vertices accumulate the signed
// thicknesses, so mirror trains with negative gaps fold back naturally.
func (s *System) VertexZ() []float64 {
	n := len(s.Surfaces)
	z := make([]float64, n)
	if n == 0 {
		return z
	}
	z[0] = -s.ObjectDistance()
	if n > 1 {
		z[1] = 0
		for i := 2; i < n; i++ {
			z[i] = z[i-1] + s.Surfaces[i-1].Thickness
		}
	}
	return z
}

// ImageZ returns the global z of the image plane vertex.
func (s *System) ImageZ() float64 {
	z := s.VertexZ()
	if len(z) == 0 {
		return 0
	}
	return z[len(z)-1]
}

// Index resolves n(λ) for the medium following surface i (its material side).
// The object-space medium (before surface 1) is that of the object surface,
// conventionally air.
func (s *System) Index(i int, lambda float64) (float64, error) {
	if i < 0 || i >= len(s.Surfaces) {
		return 1, nil
	}
	cat := s.Catalog
	if cat == nil {
		cat = glass.NewCatalog()
	}
	return cat.Index(s.Surfaces[i].Material, lambda)
}

// Clone deep-copies the description (the catalog handle is shared: it is
// read-only during evaluation).
func (s *System) Clone() *System {
	out := &System{Catalog: s.Catalog}
	out.Surfaces = append([]surface.Surface(nil), s.Surfaces...)
	out.Sources = append([]Source(nil), s.Sources...)
	out.Fields = append([]Field(nil), s.Fields...)
	return out
}
