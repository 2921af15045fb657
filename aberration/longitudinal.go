package aberration

import (
	"math"

	"github.com/optray/optray/fan"
	"github.com/optray/optray/paraxial"
	"github.com/optray/optray/system"
)

// LongitudinalSpherical traces a meridional fan for the axial field and
// reports, per pupil height in [0, 1], the axial crossing of the ray minus
// the paraxial image position. The crossing solve divides by the meridional
// slope, so rays whose Y direction component is below 1e-14 report 0,
// matching the flat plot of an aberration-free system.
//
// Errors: solver and paraxial sentinels; ErrUnresolved when no fan member
// survives.
func LongitudinalSpherical(sys *system.System, lambda float64, opts ...Option) ([]FanPoint, error) {
	o := gatherOptions(opts...)

	m, err := paraxial.Analyze(sys, lambda)
	if err != nil {
		return nil, err
	}
	s, err := fan.NewSolver(sys, lambda)
	if err != nil {
		return nil, err
	}

	// Paraxial focus: image distance measured from the last optical vertex.
	zPar := sys.VertexZ()[len(sys.Surfaces)-2] + m.IMD

	axial := system.Field{Kind: system.FieldAngle}
	pts := make([]FanPoint, o.rayCount)
	alive := 0
	for i := range pts {
		t := float64(i) / float64(o.rayCount-1)
		pts[i].Pupil = t

		r, err := s.Pupil(axial, 0, t)
		if err != nil {
			continue
		}
		rec := imageHit(sys, &r)
		if rec == nil {
			continue
		}
		pts[i].Valid = true
		alive++

		// Axial crossing: solve y = 0 along the image-space segment.
		if math.Abs(rec.Dir.Y) < 1e-14 {
			continue // parallel to the axis: report 0
		}
		zStar := rec.Pos.Z - rec.Pos.Y/rec.Dir.Y*rec.Dir.Z
		pts[i].Delta = zStar - zPar
	}
	if alive == 0 {
		return nil, ErrUnresolved
	}
	return pts, nil
}
