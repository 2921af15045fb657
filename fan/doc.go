// Package fan aims real rays from a field point at prescribed targets on the
// stop surface: the chief ray (stop center), marginal rays (stop edge) and
// whole cross-beam fans spanning both meridians.
//
// The solver Newton-iterates two aim scalars — launch-plane offsets for
// angle fields, direction slopes for height fields — against the traced
// position at the stop, with a finite-difference Jacobian whose step scales
// with the current miss. The seed comes from the paraxial entrance pupil, so
// well-behaved systems converge in a handful of iterations.
//
// Solver lifecycle: Seeded → Iterating → (Converged | Diverged | Vignetted).
// Only Converged is a success, but Diverged and Vignetted rays are returned
// with their best-effort trace for diagnostic use by the aberration
// analyzers; fans always retain vignetted members, flagged.
package fan
