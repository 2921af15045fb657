package system

import (
	"math"

	"github.com/optray/optray/surface"
)

// Validate checks the structural invariants of the surface list and source
// table. The first violation is returned immediately (fail-fast, load-time
// semantics); analyzers call this before any numeric work.
//
// Invariants enforced:
//   - at least three surfaces: Object, …, Image;
//   - surface 0 is Object, the last surface is Image;
//   - exactly one surface carries the stop flag;
//   - no NaN radius; ∞ remains the legal plane encoding;
//   - ∞ thickness only on the object or next-to-image surface;
//   - positive semi-diameter on every non-object, non-image surface;
//   - exactly one primary source when the source table is non-empty.
//
// Complexity: O(n) over surfaces + sources.
func (s *System) Validate() error {
	n := len(s.Surfaces)
	if n < 3 {
		return ErrEmptySystem
	}
	if s.Surfaces[0].Kind != surface.Object {
		return ErrObjectNotFirst
	}
	if s.Surfaces[n-1].Kind != surface.Image {
		return ErrImageNotLast
	}
	for i := 1; i < n-1; i++ {
		if s.Surfaces[i].Kind == surface.Object {
			return ErrObjectNotFirst
		}
		if s.Surfaces[i].Kind == surface.Image {
			return ErrImageNotLast
		}
	}

	if _, err := s.StopIndex(); err != nil {
		return err
	}

	for i := range s.Surfaces {
		sf := &s.Surfaces[i]
		if math.IsNaN(sf.Radius) {
			return ErrNonFiniteRadius
		}
		if math.IsInf(sf.Thickness, 0) && i != 0 && i != n-2 {
			return ErrInfiniteInnerThickness
		}
		if i > 0 && i < n-1 && !(sf.SemiDiameter > 0) {
			return ErrBadSemiDiameter
		}
	}

	if len(s.Sources) > 0 {
		if _, err := s.PrimaryWavelength(); err != nil {
			return err
		}
	}
	return nil
}
