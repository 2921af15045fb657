package aberration

import (
	"math"

	"github.com/optray/optray/fan"
	"github.com/optray/optray/paraxial"
	"github.com/optray/optray/sweep"
	"github.com/optray/optray/system"
)

// Distortion sweeps the field from the axis to the largest field in the
// system's field table and compares the real chief-ray image height with
// the first-order ideal: f·tanθ for angle fields, β·h for finite objects,
// h itself for afocal systems. The field kind is taken from the table.
//
// Errors: solver and paraxial sentinels; ErrUnresolved when the field
// table is empty or purely axial. Samples whose chief ray is lost are kept
// with Valid=false.
func Distortion(sys *system.System, lambda float64, opts ...Option) ([]DistortionPoint, error) {
	o := gatherOptions(opts...)

	kind, maxF, err := fieldExtent(sys)
	if err != nil {
		return nil, err
	}
	m, err := paraxial.Analyze(sys, lambda)
	if err != nil {
		return nil, err
	}
	s, err := fan.NewSolver(sys, lambda)
	if err != nil {
		return nil, err
	}

	rep := sweep.NewReporter(o.progress, o.fieldSamples, 0, "distortion")
	out := make([]DistortionPoint, o.fieldSamples)
	for i := range out {
		if err := rep.Tick(i); err != nil {
			return nil, err
		}
		fy := maxF * float64(i) / float64(o.fieldSamples-1)
		out[i].Field = fy

		r, err := s.Chief(system.Field{Kind: kind, Y: fy})
		if err != nil {
			continue
		}
		rec := imageHit(sys, &r)
		if rec == nil {
			continue
		}

		real := math.Abs(rec.Pos.Y)
		ideal := math.Abs(idealHeight(m, kind, fy))
		rel := 0.0
		if ideal != 0 {
			rel = (real - ideal) / ideal
		}
		out[i] = DistortionPoint{Field: fy, Real: real, Ideal: ideal, Relative: rel, Valid: true}
	}
	if err := rep.Tick(o.fieldSamples); err != nil {
		return nil, err
	}
	return out, nil
}

// DistortionGrid evaluates the chief-ray image position over a gridSize ×
// gridSize mesh of field directions spanning ±maxField on both axes and
// returns the real and ideal grids row-major. Unreachable mesh points carry
// (HoleSentinel, HoleSentinel) and Valid=false.
func DistortionGrid(sys *system.System, lambda float64, opts ...Option) (*Grid, error) {
	o := gatherOptions(opts...)

	kind, maxF, err := fieldExtent(sys)
	if err != nil {
		return nil, err
	}
	m, err := paraxial.Analyze(sys, lambda)
	if err != nil {
		return nil, err
	}
	s, err := fan.NewSolver(sys, lambda)
	if err != nil {
		return nil, err
	}

	size := o.gridSize
	g := &Grid{
		Size:  size,
		Ideal: make([]GridPoint, size*size),
		Real:  make([]GridPoint, size*size),
		Valid: make([]bool, size*size),
	}
	rep := sweep.NewReporter(o.progress, size*size, 0, "distortion grid")

	k := 0
	for iy := 0; iy < size; iy++ {
		fy := -maxF + 2*maxF*float64(iy)/float64(size-1)
		for ix := 0; ix < size; ix++ {
			if err := rep.Tick(k); err != nil {
				return nil, err
			}
			fx := -maxF + 2*maxF*float64(ix)/float64(size-1)

			g.Ideal[k] = GridPoint{X: idealHeight(m, kind, fx), Y: idealHeight(m, kind, fy)}
			g.Real[k] = GridPoint{X: HoleSentinel, Y: HoleSentinel}

			r, err := s.Chief(system.Field{Kind: kind, X: fx, Y: fy})
			if err == nil {
				if rec := imageHit(sys, &r); rec != nil && rec.Pos.IsFinite() {
					g.Real[k] = GridPoint{X: rec.Pos.X, Y: rec.Pos.Y}
					g.Valid[k] = true
				}
			}
			k++
		}
	}
	if err := rep.Tick(size * size); err != nil {
		return nil, err
	}
	return g, nil
}

// fieldExtent reads the field kind and the largest meridional field from
// the system's field table.
func fieldExtent(sys *system.System) (system.FieldKind, float64, error) {
	if len(sys.Fields) == 0 {
		return 0, 0, ErrUnresolved
	}
	kind := sys.Fields[0].Kind
	maxF := 0.0
	for _, f := range sys.Fields {
		if v := math.Abs(f.Y); v > maxF {
			maxF = v
		}
		if v := math.Abs(f.X); v > maxF {
			maxF = v
		}
	}
	if maxF == 0 {
		return kind, 0, ErrUnresolved
	}
	return kind, maxF, nil
}

// idealHeight is the signed first-order image coordinate of one field
// coordinate: f·tanθ (angle, degrees), β·h (finite object), h (afocal).
func idealHeight(m *paraxial.Metrics, kind system.FieldKind, f float64) float64 {
	switch {
	case kind == system.FieldHeight:
		return m.Magnification * f
	case math.IsInf(m.EFL, 0):
		return f
	default:
		return m.EFL * math.Tan(f*math.Pi/180)
	}
}
