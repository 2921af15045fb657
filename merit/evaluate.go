package merit

import (
	"fmt"
	"math"

	"github.com/optray/optray/aberration"
	"github.com/optray/optray/fan"
	"github.com/optray/optray/paraxial"
	"github.com/optray/optray/system"
	"github.com/optray/optray/wavefront"
)

// Term is the evaluation of one operand row.
type Term struct {
	ID        string
	Kind      Kind
	Value     float64
	Term      float64 // weight · (value − target)²
	ImpactPct float64
	Penalized bool // value was non-finite or unevaluable
}

// Result is a full merit evaluation. Penalized lists the ids of operands
// whose value was replaced by PenaltyValue.
type Result struct {
	Terms     []Term
	Total     float64
	Penalized []string
}

// Evaluator computes merit terms over one system, caching the first-order
// reductions per wavelength. It is read-only over the system; build a new
// evaluator after any mutation.
type Evaluator struct {
	sys     *system.System
	metrics map[float64]*paraxial.Metrics
	seidel  map[float64]*paraxial.Seidel
}

// NewEvaluator validates the system and prepares the caches.
func NewEvaluator(sys *system.System) (*Evaluator, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{
		sys:     sys,
		metrics: make(map[float64]*paraxial.Metrics),
		seidel:  make(map[float64]*paraxial.Seidel),
	}, nil
}

// Evaluate computes every row and the merit scalar Σ weight·(value−target)².
// Unknown kinds fail the whole evaluation (a malformed merit function is a
// caller bug); non-finite values are penalized per operand instead.
func (e *Evaluator) Evaluate(rows []system.OperandRow) (*Result, error) {
	res := &Result{Terms: make([]Term, len(rows))}
	for i, row := range rows {
		kind := Kind(row.Kind)
		term := Term{ID: row.ID, Kind: kind}

		v, err := e.value(kind, row.Params)
		if err != nil {
			return nil, fmt.Errorf("operand %q: %w", row.ID, err)
		}
		if !isFinite(v) {
			v = PenaltyValue
			term.Penalized = true
			res.Penalized = append(res.Penalized, row.ID)
		}
		term.Value = v
		d := v - row.Target
		term.Term = row.Weight * d * d

		res.Terms[i] = term
		res.Total += term.Term
	}
	if res.Total > 0 {
		for i := range res.Terms {
			res.Terms[i].ImpactPct = 100 * res.Terms[i].Term / res.Total
		}
	}
	return res, nil
}

// value dispatches one operand kind. Evaluation failures that depend on
// the current design state (lost fans, obscured pupils) yield NaN, which
// Evaluate converts to the penalty; structural errors propagate.
func (e *Evaluator) value(kind Kind, params [5]float64) (float64, error) {
	nan := math.NaN()
	switch kind {
	case FL, EFL, BFL, IMD, OBJD, TSL, EFFL,
		EXPD, EXPP, ENPD, ENPP, ENPM,
		FnoObject, FnoImage, FnoWorking, NaObject, NaImage, PMAG:
		lambda, err := e.wavelength(params[0])
		if err != nil {
			return 0, err
		}
		m, err := e.metricsAt(lambda)
		if err != nil {
			return nan, nil
		}
		return firstOrder(kind, m), nil

	case Tot3Sph, Tot3Coma, Tot3Asti, Tot3Fcur, Tot3Dist, TotLca, TotTca:
		lambda, err := e.wavelength(params[0])
		if err != nil {
			return 0, err
		}
		s, err := e.seidelAt(lambda)
		if err != nil {
			return nan, nil
		}
		switch kind {
		case Tot3Sph:
			return s.S1, nil
		case Tot3Coma:
			return s.S2, nil
		case Tot3Asti:
			return s.S3, nil
		case Tot3Fcur:
			return s.S4, nil
		case Tot3Dist:
			return s.S5, nil
		case TotLca:
			return s.CL, nil
		default:
			return s.CT, nil
		}

	case CLRH:
		return e.clearance(params)

	case SpotSizeAnnular:
		return e.spotAnnular(params)

	case SpotSizeRect:
		return e.spotRect(params)

	case LaRmsUm:
		lambda, err := e.wavelength(params[0])
		if err != nil {
			return 0, err
		}
		pts, err := aberration.LongitudinalSpherical(e.sys, lambda)
		if err != nil {
			return nan, nil
		}
		sum, n := 0.0, 0
		for _, p := range pts {
			if p.Valid {
				sum += p.Delta * p.Delta
				n++
			}
		}
		if n == 0 {
			return nan, nil
		}
		return math.Sqrt(sum/float64(n)) * 1000, nil // mm → µm

	case ZernCoeff:
		return e.zernike(params)

	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOperand, kind)
	}
}

func firstOrder(kind Kind, m *paraxial.Metrics) float64 {
	switch kind {
	case FL:
		return m.FL
	case EFL, EFFL:
		return m.EFL
	case BFL:
		return m.BFL
	case IMD:
		return m.IMD
	case OBJD:
		return m.ObjectDistance
	case TSL:
		return m.TotalTrack
	case EXPD:
		return m.Exit.Diameter
	case EXPP:
		return m.Exit.Position
	case ENPD:
		return m.Entrance.Diameter
	case ENPP:
		return m.Entrance.Position
	case ENPM:
		return m.Entrance.Magnification
	case FnoObject:
		return m.FnoObject
	case FnoImage:
		return m.FnoImage
	case FnoWorking:
		return m.FnoWorking
	case NaObject:
		return m.NAObject
	case NaImage:
		return m.NAImage
	default: // PMAG
		return m.Magnification
	}
}

// clearance: semi-diameter margin of the upper marginal ray at one surface.
func (e *Evaluator) clearance(params [5]float64) (float64, error) {
	idx := int(params[0])
	if idx < 1 || idx >= len(e.sys.Surfaces)-1 {
		return 0, fmt.Errorf("merit: CLRH: surface index %d out of range", idx)
	}
	lambda, err := e.wavelength(params[1])
	if err != nil {
		return 0, err
	}
	s, err := fan.NewSolver(e.sys, lambda)
	if err != nil {
		return math.NaN(), nil
	}
	r, err := s.Marginal(system.Field{Kind: system.FieldAngle}, fan.Up)
	if err != nil {
		return math.NaN(), nil
	}
	rec := r.Path.At(idx)
	if rec == nil {
		return math.NaN(), nil
	}
	return e.sys.Surfaces[idx].SemiDiameter - rec.Pos.RadialXY(), nil
}

// spotAnnular: RMS image-plane radius about the chief for a ring of rays
// at one pupil fraction.
func (e *Evaluator) spotAnnular(params [5]float64) (float64, error) {
	lambda, err := e.wavelength(params[0])
	if err != nil {
		return 0, err
	}
	field, err := e.field(params[1])
	if err != nil {
		return 0, err
	}
	frac := params[2]
	if frac <= 0 || frac > 1 {
		frac = 1
	}

	const ringRays = 16
	pupil := make([][2]float64, ringRays)
	for i := range pupil {
		a := 2 * math.Pi * float64(i) / ringRays
		pupil[i] = [2]float64{frac * math.Cos(a), frac * math.Sin(a)}
	}
	return e.spotRMS(lambda, field, pupil)
}

// spotRect: RMS image-plane radius about the chief for a rectangular pupil
// grid clipped to the unit disk.
func (e *Evaluator) spotRect(params [5]float64) (float64, error) {
	lambda, err := e.wavelength(params[0])
	if err != nil {
		return 0, err
	}
	field, err := e.field(params[1])
	if err != nil {
		return 0, err
	}
	side := int(params[2])
	if side < 2 {
		side = 8
	}

	var pupil [][2]float64
	for iy := 0; iy < side; iy++ {
		v := -1 + 2*float64(iy)/float64(side-1)
		for ix := 0; ix < side; ix++ {
			u := -1 + 2*float64(ix)/float64(side-1)
			if u*u+v*v <= 1 {
				pupil = append(pupil, [2]float64{u, v})
			}
		}
	}
	return e.spotRMS(lambda, field, pupil)
}

func (e *Evaluator) spotRMS(lambda float64, field system.Field, pupil [][2]float64) (float64, error) {
	s, err := fan.NewSolver(e.sys, lambda)
	if err != nil {
		return math.NaN(), nil
	}
	chief, err := s.Chief(field)
	if err != nil {
		return math.NaN(), nil
	}
	imgIdx := len(e.sys.Surfaces) - 1
	ref := chief.Path.At(imgIdx)
	if ref == nil || ref.Vignetted {
		return math.NaN(), nil
	}

	sum, n := 0.0, 0
	for _, uv := range pupil {
		r, err := s.Pupil(field, uv[0], uv[1])
		if err != nil || !r.Converged() {
			continue
		}
		rec := r.Path.At(imgIdx)
		if rec == nil || rec.Vignetted {
			continue
		}
		dx, dy := rec.Pos.X-ref.Pos.X, rec.Pos.Y-ref.Pos.Y
		sum += dx*dx + dy*dy
		n++
	}
	if n == 0 {
		return math.NaN(), nil
	}
	return math.Sqrt(sum / float64(n)), nil
}

// zernike: one OSA/ANSI coefficient, or the piston/tilt-free coefficient
// RMS when the index parameter is 0.
func (e *Evaluator) zernike(params [5]float64) (float64, error) {
	lambda, err := e.wavelength(params[0])
	if err != nil {
		return 0, err
	}
	field, err := e.field(params[1])
	if err != nil {
		return 0, err
	}

	m, err := wavefront.SampleOPD(e.sys, lambda, field)
	if err != nil {
		return math.NaN(), nil
	}
	fit, err := wavefront.FitZernike(m)
	if err != nil {
		return math.NaN(), nil
	}

	j := int(params[4])
	if j == 0 {
		return fit.CoefficientRMS(), nil
	}
	if j < 0 || j >= len(fit.Coefficients) {
		return 0, fmt.Errorf("merit: ZERN_COEFF: index %d out of range", j)
	}
	return fit.Coefficients[j], nil
}

// wavelength resolves a 1-based source-row parameter; 0 selects the
// primary source.
func (e *Evaluator) wavelength(param float64) (float64, error) {
	i := int(param)
	if i == 0 {
		return e.sys.PrimaryWavelength()
	}
	if i < 1 || i > len(e.sys.Sources) {
		return 0, fmt.Errorf("merit: source row %d out of range", i)
	}
	return e.sys.Sources[i-1].Wavelength, nil
}

// field resolves a 1-based field-row parameter; 0 selects the axial field.
func (e *Evaluator) field(param float64) (system.Field, error) {
	i := int(param)
	if i == 0 {
		return system.Field{Kind: system.FieldAngle}, nil
	}
	if i < 1 || i > len(e.sys.Fields) {
		return system.Field{}, fmt.Errorf("merit: field row %d out of range", i)
	}
	return e.sys.Fields[i-1], nil
}

func (e *Evaluator) metricsAt(lambda float64) (*paraxial.Metrics, error) {
	if m, ok := e.metrics[lambda]; ok {
		return m, nil
	}
	m, err := paraxial.Analyze(e.sys, lambda)
	if err != nil {
		return nil, err
	}
	e.metrics[lambda] = m
	return m, nil
}

func (e *Evaluator) seidelAt(lambda float64) (*paraxial.Seidel, error) {
	if s, ok := e.seidel[lambda]; ok {
		return s, nil
	}
	s, err := paraxial.Sums(e.sys, lambda)
	if err != nil {
		return nil, err
	}
	e.seidel[lambda] = s
	return s, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
