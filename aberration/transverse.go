package aberration

import (
	"github.com/optray/optray/fan"
	"github.com/optray/optray/system"
	"github.com/optray/optray/trace"
)

// TransverseFan traces dense meridians across the stop for one (field, λ)
// and reports the image-surface ray displacements relative to the chief:
// Δy versus pupil y (meridional) and Δx versus pupil x (sagittal).
//
// Errors: solver construction sentinels; ErrUnresolved when the chief ray
// itself cannot reach the image surface. Lost fan members are kept as
// invalid points.
//
// Complexity: O(rayCount) aim solves.
func TransverseFan(sys *system.System, lambda float64, field system.Field, opts ...Option) (*Transverse, error) {
	o := gatherOptions(opts...)

	s, err := fan.NewSolver(sys, lambda)
	if err != nil {
		return nil, err
	}
	chief, err := s.Chief(field)
	if err != nil {
		return nil, err
	}
	ref := imageHit(sys, &chief)
	if ref == nil {
		return nil, ErrUnresolved
	}

	span := pupilSpan(o.rayCount)
	curve := func(hits []*trace.Record, sagittal bool) []FanPoint {
		pts := make([]FanPoint, len(span))
		for i, rec := range hits {
			pts[i].Pupil = span[i]
			if rec == nil {
				continue
			}
			if sagittal {
				pts[i].Delta = rec.Pos.X - ref.Pos.X
			} else {
				pts[i].Delta = rec.Pos.Y - ref.Pos.Y
			}
			pts[i].Valid = true
		}
		return pts
	}

	return &Transverse{
		Meridional: curve(meridianHits(sys, s, field, false, span), false),
		Sagittal:   curve(meridianHits(sys, s, field, true, span), true),
	}, nil
}
