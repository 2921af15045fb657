package fan

import "github.com/optray/optray/system"

// Chief aims the chief ray of the field: the ray through the stop center.
//
// Errors: ErrNonConvergent when the iteration budget is exhausted or the
// stop is never reached; the returned AimedRay still carries the
// best-effort trace.
func (s *Solver) Chief(field system.Field) (AimedRay, error) {
	return s.aim(field, 0, 0)
}

// Marginal aims a stop-edge ray along one of the four meridian directions.
func (s *Solver) Marginal(field system.Field, dir Direction) (AimedRay, error) {
	u, v := dirUnit(dir)
	return s.aim(field, u*s.stopSemi, v*s.stopSemi)
}

// Pupil aims a ray at normalized stop coordinates (u, v); the unit circle
// is the stop edge, (0,0) is the chief ray.
func (s *Solver) Pupil(field system.Field, u, v float64) (AimedRay, error) {
	return s.aim(field, u*s.stopSemi, v*s.stopSemi)
}

// CrossFan solves a full cross-beam fan: the chief ray, the four marginal
// rays, and evenly spaced interior rays along both meridians. rayCount is
// the total ray budget (chief + 4·perQuadrant); values below 5 fall back
// to DefaultFanCount. Vignetted and non-convergent members are retained
// with their Status set, so the caller can mask them.
//
// Complexity: O(rayCount · maxIter · surfaces) traces.
func (s *Solver) CrossFan(field system.Field, rayCount int) (Fan, error) {
	if rayCount < 5 {
		rayCount = DefaultFanCount
	}
	per := (rayCount - 1) / 4

	var f Fan
	var firstErr error
	keep := func(r AimedRay, err error) AimedRay {
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return r
	}

	f.Chief = keep(s.Chief(field))
	f.Upper = keep(s.Marginal(field, Up))
	f.Lower = keep(s.Marginal(field, Down))
	f.Left = keep(s.Marginal(field, Left))
	f.Right = keep(s.Marginal(field, Right))

	// Interior rays: fractions k/per of the stop radius per quadrant
	// meridian; k=per is the marginal, already solved above.
	f.Interior = make([]AimedRay, 0, 4*(per-1))
	for k := 1; k < per; k++ {
		t := float64(k) / float64(per)
		f.Interior = append(f.Interior,
			keep(s.Pupil(field, 0, t)),
			keep(s.Pupil(field, 0, -t)),
			keep(s.Pupil(field, -t, 0)),
			keep(s.Pupil(field, t, 0)),
		)
	}
	return f, firstErr
}

func dirUnit(d Direction) (u, v float64) {
	switch d {
	case Up:
		return 0, 1
	case Down:
		return 0, -1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}
