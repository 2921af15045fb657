package aberration

import (
	"math"

	"github.com/optray/optray/fan"
	"github.com/optray/optray/system"
	"github.com/optray/optray/trace"
)

// imageHit returns the image-surface record of a solved ray, or nil when
// the ray vignetted, diverged or never reached the image plane.
func imageHit(sys *system.System, r *fan.AimedRay) *trace.Record {
	if !r.Converged() {
		return nil
	}
	rec := r.Path.At(len(sys.Surfaces) - 1)
	if rec == nil || rec.Vignetted {
		return nil
	}
	return rec
}

// pupilSpan returns n pupil fractions evenly spanning [-1, 1].
func pupilSpan(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = -1 + 2*float64(i)/float64(n-1)
	}
	return out
}

// meridianHits solves one meridian fan and returns, per pupil fraction, the
// image-space record (nil for lost rays). sagittal selects the x meridian.
func meridianHits(sys *system.System, s *fan.Solver, field system.Field, sagittal bool, span []float64) []*trace.Record {
	hits := make([]*trace.Record, len(span))
	for i, t := range span {
		u, v := 0.0, t
		if sagittal {
			u, v = t, 0
		}
		r, err := s.Pupil(field, u, v)
		if err != nil {
			continue
		}
		hits[i] = imageHit(sys, &r)
	}
	return hits
}

// planeHit propagates an image-space record to the plane z and returns the
// transverse point. ok=false when the segment nearly parallels the plane.
func planeHit(rec *trace.Record, z float64) (x, y float64, ok bool) {
	if math.Abs(rec.Dir.Z) < 1e-14 {
		return 0, 0, false
	}
	t := (z - rec.Pos.Z) / rec.Dir.Z
	return rec.Pos.X + rec.Dir.X*t, rec.Pos.Y + rec.Dir.Y*t, true
}
