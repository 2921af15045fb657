package aberration

import (
	"math"

	"github.com/optray/optray/fan"
	"github.com/optray/optray/sweep"
	"github.com/optray/optray/system"
	"github.com/optray/optray/trace"
)

const invPhi = 0.6180339887498949 // 1/φ, golden-section ratio

// Astigmatism locates, for each field, the meridional and sagittal
// best-focus planes: the z minimizing the transverse RMS of the meridian
// fan about the chief ray, searched by a coarse ±10 mm scan around the
// image plane followed by golden-section refinement. M and S are reported
// relative to the axial best focus at the primary wavelength, so an
// anastigmatic axial point reads (0, 0).
//
// Fields whose fans lose every ray are kept with Valid=false; the call
// fails with ErrUnresolved only when the axial reference itself cannot be
// resolved. A progress callback (WithProgress) may cancel the field sweep
// with sweep.ErrCancelled.
//
// Complexity: O(fields · rayCount · (scan + refine)) plane evaluations.
func Astigmatism(sys *system.System, lambda float64, fields []system.Field, opts ...Option) ([]AstigPoint, error) {
	o := gatherOptions(opts...)
	if len(fields) == 0 {
		return nil, ErrUnresolved
	}

	primary, err := sys.PrimaryWavelength()
	if err != nil {
		return nil, err
	}
	refSolver, err := fan.NewSolver(sys, primary)
	if err != nil {
		return nil, err
	}
	axial := system.Field{Kind: fields[0].Kind}
	zRef, err := bestFocus(sys, refSolver, axial, false, o.rayCount)
	if err != nil {
		return nil, err
	}

	s := refSolver
	if lambda != primary {
		if s, err = fan.NewSolver(sys, lambda); err != nil {
			return nil, err
		}
	}

	rep := sweep.NewReporter(o.progress, len(fields), 0, "astigmatism")
	out := make([]AstigPoint, len(fields))
	for i, f := range fields {
		if err := rep.Tick(i); err != nil {
			return nil, err
		}
		zM, errM := bestFocus(sys, s, f, false, o.rayCount)
		zS, errS := bestFocus(sys, s, f, true, o.rayCount)
		out[i] = AstigPoint{
			FieldY: f.Y,
			M:      zM - zRef,
			S:      zS - zRef,
			Valid:  errM == nil && errS == nil,
		}
	}
	if err := rep.Tick(len(fields)); err != nil {
		return nil, err
	}
	return out, nil
}

// bestFocus minimizes the fan's transverse RMS about the chief over planes
// near the image surface. Coarse scan first, then golden section on the
// winning 5-sample bracket until the interval shrinks below refineTol.
func bestFocus(sys *system.System, s *fan.Solver, field system.Field, sagittal bool, rayCount int) (float64, error) {
	chief, err := s.Chief(field)
	if err != nil {
		return 0, ErrUnresolved
	}
	chiefRec := imageHit(sys, &chief)
	if chiefRec == nil {
		return 0, ErrUnresolved
	}

	span := pupilSpan(rayCount)
	var segs []*trace.Record
	for _, rec := range meridianHits(sys, s, field, sagittal, span) {
		if rec != nil {
			segs = append(segs, rec)
		}
	}
	if len(segs) == 0 {
		return 0, ErrUnresolved
	}

	rms := func(z float64) float64 {
		cx, cy, ok := planeHit(chiefRec, z)
		if !ok {
			return math.Inf(1)
		}
		sum, n := 0.0, 0
		for _, seg := range segs {
			x, y, ok := planeHit(seg, z)
			if !ok {
				continue
			}
			dx, dy := x-cx, y-cy
			sum += dx*dx + dy*dy
			n++
		}
		if n == 0 {
			return math.Inf(1)
		}
		return math.Sqrt(sum / float64(n))
	}

	// Coarse scan around the image plane.
	zImg := sys.ImageZ()
	best, bestVal := 0, math.Inf(1)
	zAt := func(i int) float64 {
		return zImg - scanHalfRange + 2*scanHalfRange*float64(i)/float64(scanSamples-1)
	}
	for i := 0; i < scanSamples; i++ {
		if v := rms(zAt(i)); v < bestVal {
			best, bestVal = i, v
		}
	}
	if math.IsInf(bestVal, 1) {
		return 0, ErrUnresolved
	}

	// Bracket: the 5 samples centered on the winner, clamped to the scan.
	lo, hi := best-2, best+2
	if lo < 0 {
		lo = 0
	}
	if hi > scanSamples-1 {
		hi = scanSamples - 1
	}
	a, b := zAt(lo), zAt(hi)

	for iter := 0; iter < refineMaxIter && b-a > refineTol; iter++ {
		c := b - invPhi*(b-a)
		d := a + invPhi*(b-a)
		if rms(c) < rms(d) {
			b = d
		} else {
			a = c
		}
	}
	return (a + b) / 2, nil
}
