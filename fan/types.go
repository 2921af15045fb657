package fan

import (
	"errors"

	"github.com/optray/optray/geom"
	"github.com/optray/optray/trace"
)

// Solver tolerances and limits; miss tolerance is relative to the stop
// semi-diameter.
const (
	// DefaultMaxIter bounds the aim Newton iteration.
	DefaultMaxIter = 30

	// MissTolFactor: convergence when ‖miss‖ < MissTolFactor·stopSemiDia.
	MissTolFactor = 1e-7

	// DefaultFanCount is the cross-fan ray budget when the caller passes 0.
	DefaultFanCount = 33
)

var (
	// ErrNonConvergent is returned (with a best-effort ray) when the Newton
	// iteration exhausts its budget without meeting the miss tolerance.
	ErrNonConvergent = errors.New("fan: aim solver did not converge")

	// ErrFieldNeedsFiniteObject is returned when a height field is used with
	// an afocal object.
	ErrFieldNeedsFiniteObject = errors.New("fan: height field requires a finite object distance")
)

// Status is the solve state: Seeded → Iterating → one of the three
// terminal states. Only Converged is a success; Diverged rays are still
// returned for diagnostic use.
type Status int

const (
	// Seeded: the launcher and paraxial seed are built, nothing traced yet.
	Seeded Status = iota
	// Iterating: the Newton loop is running.
	Iterating
	// Converged: the stop target was met within tolerance.
	Converged
	// Diverged: iteration budget exhausted; the ray is best-effort.
	Diverged
	// Vignetted: the ray cannot reach the stop through the apertures.
	Vignetted
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Seeded:
		return "seeded"
	case Iterating:
		return "iterating"
	case Converged:
		return "converged"
	case Diverged:
		return "diverged"
	case Vignetted:
		return "vignetted"
	default:
		return "unknown"
	}
}

// Direction selects a marginal-ray meridian.
type Direction int

const (
	// Up targets (0, +stopSemiDia).
	Up Direction = iota
	// Down targets (0, −stopSemiDia).
	Down
	// Left targets (−stopSemiDia, 0).
	Left
	// Right targets (+stopSemiDia, 0).
	Right
)

// AimedRay is one solved ray plus its full trace and solve diagnostics.
type AimedRay struct {
	Ray        geom.Ray
	Path       trace.Path
	Status     Status
	StopMiss   float64    // final ‖(x,y) − target‖ at the stop
	Pupil      [2]float64 // normalized stop target (u, v), chief = (0,0)
	Iterations int
}

// Converged reports a successful solve for terse call sites.
func (a *AimedRay) Converged() bool { return a.Status == Converged }

// Fan is a cross-beam bundle through the stop: the chief, the four
// stop-edge marginals and the interior meridian rays. Vignetted members are
// retained with their flags set.
type Fan struct {
	Chief    AimedRay
	Upper    AimedRay
	Lower    AimedRay
	Left     AimedRay
	Right    AimedRay
	Interior []AimedRay
}

// All returns every ray of the fan in deterministic order: chief, the four
// marginals, then the interior rays.
func (f *Fan) All() []AimedRay {
	out := make([]AimedRay, 0, 5+len(f.Interior))
	out = append(out, f.Chief, f.Upper, f.Lower, f.Left, f.Right)
	return append(out, f.Interior...)
}
