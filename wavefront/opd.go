package wavefront

import (
	"errors"
	"math"

	"github.com/optray/optray/fan"
	"github.com/optray/optray/geom"
	"github.com/optray/optray/paraxial"
	"github.com/optray/optray/sweep"
	"github.com/optray/optray/system"
	"github.com/optray/optray/trace"
)

// ErrUnresolved is returned when the pupil is entirely obscured: no sample
// ray reaches the image surface, the chief included.
var ErrUnresolved = errors.New("wavefront: pupil entirely obscured")

// Sample is one pupil point. U, V are normalized stop coordinates inside
// the unit disk; Weight is 0 for vignetted or non-convergent rays, whose
// OPD is meaningless and must be masked.
type Sample struct {
	U      float64
	V      float64
	OPD    float64
	Weight float64
}

// Map is the sampled wavefront of one (field, λ).
type Map struct {
	Lambda  float64
	Microns bool // false: OPD in waves of Lambda
	Samples []Sample
}

// SampleOPD traces one aimed ray per pupil grid point and returns its
// optical path relative to the chief ray, referred to the sphere centered
// on the chief image point with radius equal to the exit-pupil-to-image
// distance. The center is the real chief intersection, not the paraxial
// image point: off axis the two differ by the distortion of the chief, a
// pure tilt of the map that piston/tilt removal in the Zernike fit takes
// out. Positive OPD means the ray's wavefront lags the reference.
//
// Errors: solver and paraxial sentinels, ErrUnresolved for an obscured
// pupil, sweep.ErrCancelled from the progress callback.
//
// Complexity: O(pupilSamples²) aim solves.
func SampleOPD(sys *system.System, lambda float64, field system.Field, opts ...Option) (*Map, error) {
	o := gatherOptions(opts...)

	m, err := paraxial.Analyze(sys, lambda)
	if err != nil {
		return nil, err
	}
	s, err := fan.NewSolver(sys, lambda)
	if err != nil {
		return nil, err
	}

	chief, err := s.Chief(field)
	if err != nil {
		return nil, ErrUnresolved
	}
	imgIdx := len(sys.Surfaces) - 1
	chiefRec := chief.Path.At(imgIdx)
	if chiefRec == nil || chiefRec.Vignetted {
		return nil, ErrUnresolved
	}

	// Reference sphere: centered on the chief image point, radius from the
	// exit pupil to the image plane.
	center := chiefRec.Pos
	radius := math.Abs(sys.ImageZ() - m.Exit.Position)
	chiefOPL, ok := oplAtSphere(chiefRec, center, radius)
	if !ok {
		return nil, ErrUnresolved
	}

	scale := 1000 / lambda // mm → waves of λ[µm]
	if o.microns {
		scale = 1000 // mm → µm
	}

	n := o.pupilSamples
	out := &Map{Lambda: lambda, Microns: o.microns, Samples: make([]Sample, 0, n*n)}
	rep := sweep.NewReporter(o.progress, n*n, 0, "wavefront")

	for iv := 0; iv < n; iv++ {
		v := -1 + 2*float64(iv)/float64(n-1)
		for iu := 0; iu < n; iu++ {
			if err := rep.Tick(iv*n + iu); err != nil {
				return nil, err
			}
			u := -1 + 2*float64(iu)/float64(n-1)
			if u*u+v*v > 1 {
				continue
			}

			smp := Sample{U: u, V: v}
			r, err := s.Pupil(field, u, v)
			if err == nil && r.Converged() {
				if rec := r.Path.At(imgIdx); rec != nil && !rec.Vignetted {
					if opl, ok := oplAtSphere(rec, center, radius); ok {
						smp.OPD = (opl - chiefOPL) * scale
						smp.Weight = 1
					}
				}
			}
			out.Samples = append(out.Samples, smp)
		}
	}
	if err := rep.Tick(n * n); err != nil {
		return nil, err
	}

	alive := 0
	for _, smp := range out.Samples {
		if smp.Weight > 0 {
			alive++
		}
	}
	if alive == 0 {
		return nil, ErrUnresolved
	}
	return out, nil
}

// oplAtSphere rewinds an image-plane record to the reference sphere and
// returns the accumulated optical path there. The image medium is air in
// this pipeline, so geometric and optical path coincide on the rewind.
func oplAtSphere(rec *trace.Record, center geom.Vec3, radius float64) (float64, bool) {
	// |pos + t·dir − center| = radius with unit dir; the sphere sits
	// upstream of the image plane, so take the more negative root.
	oc := rec.Pos.Sub(center)
	b := oc.Dot(rec.Dir)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	return rec.OPL + (-b - math.Sqrt(disc)), true
}
