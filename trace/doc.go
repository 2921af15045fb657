// Package trace walks a real ray through the ordered surface list of a
// system description and records the per-surface path.
//
// For every surface after the object plane the tracer:
//  1. shifts the ray into the surface's local frame (vertex at z = 0);
//  2. intersects via the Newton kernel (spheres and planes are degenerate
//     aspheres with zero polynomial);
//  3. computes the analytic normal from the sag gradient;
//  4. refracts — or reflects at mirrors — with n(λ) resolved on both sides;
//  5. accumulates optical path length (geometric distance × n before).
//
// No failure escapes as an error: a miss, an aperture violation, total
// internal reflection, an unknown material or a non-convergent Newton all
// mark the path vignetted with a typed Reason and halt the walk. Partial
// records up to the failing surface are retained for diagnostics.
package trace
