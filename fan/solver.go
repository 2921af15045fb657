package fan

import (
	"math"

	"github.com/optray/optray/geom"
	"github.com/optray/optray/paraxial"
	"github.com/optray/optray/system"
	"github.com/optray/optray/trace"
)

// Solver carries the per-(system, wavelength) state the aim iteration needs:
// stop geometry, the paraxial entrance pupil used for seeding, and the
// launch plane for angle fields. Build one per wavelength and reuse it
// across fields; it is read-only after construction.
type Solver struct {
	sys      *system.System
	lambda   float64
	stopIdx  int
	stopSemi float64

	enpZ   float64 // entrance pupil position (global z)
	enpMag float64 // stop→entrance-pupil magnification
	launchZ float64
}

// NewSolver validates the system and prepares the paraxial seed state.
//
// Errors: structural sentinels from Validate/StopIndex, material failures
// from the paraxial reduction.
func NewSolver(sys *system.System, lambda float64) (*Solver, error) {
	if err := sys.Validate(); err != nil {
		return nil, err
	}
	stopIdx, err := sys.StopIndex()
	if err != nil {
		return nil, err
	}
	m, err := paraxial.Analyze(sys, lambda)
	if err != nil {
		return nil, err
	}

	s := &Solver{
		sys:      sys,
		lambda:   lambda,
		stopIdx:  stopIdx,
		stopSemi: sys.Surfaces[stopIdx].SemiDiameter,
		enpZ:     m.Entrance.Position,
		enpMag:   m.Entrance.Magnification,
	}
	// Launch upstream of both the first vertex and the entrance pupil.
	s.launchZ = math.Min(0, s.enpZ) - 10
	return s, nil
}

// launcher binds the two aim scalars to a ray for one field point.
type launcher func(p, q float64) geom.Ray

// buildLauncher returns the parameterization for the field and the seed
// (p₀, q₀) aiming at the given stop-plane target via the entrance pupil.
func (s *Solver) buildLauncher(field system.Field, tx, ty float64) (launcher, [2]float64, error) {
	// Paraxial image of the stop target on the entrance pupil.
	ex := tx * s.enpMag
	ey := ty * s.enpMag

	switch field.Kind {
	case system.FieldAngle:
		dir := geom.Vec3{
			X: math.Tan(field.X * math.Pi / 180),
			Y: math.Tan(field.Y * math.Pi / 180),
			Z: 1,
		}.Normalize()
		zl := s.launchZ
		launch := func(p, q float64) geom.Ray {
			return geom.Ray{Origin: geom.Vec3{X: p, Y: q, Z: zl}, Dir: dir, Wavelength: s.lambda}
		}
		// Seed: back the pupil point along the fixed direction.
		t := (s.enpZ - zl) / dir.Z
		return launch, [2]float64{ex - dir.X*t, ey - dir.Y*t}, nil

	case system.FieldHeight:
		if s.sys.ObjectAtInfinity() {
			return nil, [2]float64{}, ErrFieldNeedsFiniteObject
		}
		origin := geom.Vec3{X: field.X, Y: field.Y, Z: -s.sys.ObjectDistance()}
		launch := func(p, q float64) geom.Ray {
			return geom.NewRay(origin, geom.Vec3{X: p, Y: q, Z: 1}, s.lambda)
		}
		dz := s.enpZ - origin.Z
		if dz == 0 {
			dz = 1
		}
		return launch, [2]float64{(ex - origin.X) / dz, (ey - origin.Y) / dz}, nil

	default:
		return nil, [2]float64{}, ErrFieldNeedsFiniteObject
	}
}

// stopResidual traces the candidate and returns its (x,y) miss at the stop.
// The stop aperture does not clip here: the solver targets points on it, so
// intermediate iterates (and edge marginals) must see through it.
// reached=false when the ray never produces a stop record.
func (s *Solver) stopResidual(ray geom.Ray, tx, ty float64) (rx, ry float64, path trace.Path, reached bool) {
	path = trace.TraceOpenStop(s.sys, ray, s.stopIdx)
	rec := path.At(s.stopIdx)
	if rec == nil || rec.Vignetted {
		return 0, 0, path, false
	}
	return rec.Pos.X - tx, rec.Pos.Y - ty, path, true
}

// aim solves the two aim scalars so the traced ray meets (tx, ty) on the
// stop surface. The returned error is nil for Converged and ErrNonConvergent
// otherwise; the AimedRay always carries the best-effort trace.
//
// Iteration: damped Newton with a forward-difference 2×2 Jacobian; the
// difference step is proportional to the current miss (floored to keep the
// Jacobian well-posed near convergence). Steps that lose the stop are
// halved up to five times before the solve is declared vignetted.
//
// Complexity: O(maxIter · surfaces) traces.
func (s *Solver) aim(field system.Field, tx, ty float64) (AimedRay, error) {
	out := AimedRay{Pupil: [2]float64{safeNorm(tx, s.stopSemi), safeNorm(ty, s.stopSemi)}}

	launch, seed, err := s.buildLauncher(field, tx, ty)
	if err != nil {
		out.Status = Vignetted
		return out, err
	}
	out.Status = Seeded
	tol := MissTolFactor * s.stopSemi

	p, q := seed[0], seed[1]
	rx, ry, path, reached := s.stopResidual(launch(p, q), tx, ty)
	if !reached {
		out.Ray, out.Path, out.Status = launch(p, q), path, Vignetted
		return out, ErrNonConvergent
	}

	for iter := 1; iter <= DefaultMaxIter; iter++ {
		out.Status = Iterating
		miss := math.Hypot(rx, ry)
		out.Iterations = iter
		if miss < tol {
			out.Ray, out.Path, out.Status, out.StopMiss = launch(p, q), path, Converged, miss
			// Aimed fine, but clipped downstream of the stop.
			if path.Vignetted {
				out.Status = Vignetted
			}
			return out, nil
		}

		// Forward-difference Jacobian, step ∝ current miss.
		h := math.Max(miss*1e-2, 1e-9)
		rxp, ryp, _, okP := s.stopResidual(launch(p+h, q), tx, ty)
		rxq, ryq, _, okQ := s.stopResidual(launch(p, q+h), tx, ty)
		if !okP || !okQ {
			out.Ray, out.Path, out.Status, out.StopMiss = launch(p, q), path, Vignetted, miss
			return out, ErrNonConvergent
		}
		j11 := (rxp - rx) / h
		j21 := (ryp - ry) / h
		j12 := (rxq - rx) / h
		j22 := (ryq - ry) / h

		det := j11*j22 - j12*j21
		if math.Abs(det) < 1e-18 || math.IsNaN(det) {
			out.Ray, out.Path, out.Status, out.StopMiss = launch(p, q), path, Diverged, miss
			return out, ErrNonConvergent
		}
		dp := (-rx*j22 + ry*j12) / det
		dq := (-ry*j11 + rx*j21) / det

		// Damped update: halve the step while the stop is lost.
		step := 1.0
		for k := 0; ; k++ {
			np, nq := p+step*dp, q+step*dq
			nrx, nry, npath, ok := s.stopResidual(launch(np, nq), tx, ty)
			if ok {
				p, q, rx, ry, path = np, nq, nrx, nry, npath
				break
			}
			if k == 4 {
				out.Ray, out.Path, out.Status, out.StopMiss = launch(p, q), path, Vignetted, miss
				return out, ErrNonConvergent
			}
			step /= 2
		}
	}

	out.Ray, out.Path, out.Status, out.StopMiss = launch(p, q), path, Diverged, math.Hypot(rx, ry)
	return out, ErrNonConvergent
}

func safeNorm(v, scale float64) float64 {
	if scale == 0 {
		return 0
	}
	return v / scale
}
