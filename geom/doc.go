// Package geom provides the vector-algebra and intersection kernels the ray
// tracer is built on: 3-component vectors, rays, pure-translation local
// frames, ray/sphere intersection, multi-seed Newton intersection with an
// arbitrary rotationally-symmetric sag profile, vector Snell refraction and
// mirror reflection.
//
// Conventions:
//   - Right-handed coordinates; the optical axis is +z.
//   - All lengths are millimetres, wavelengths are micrometres.
//   - Ray directions are unit vectors; constructors normalize.
//   - Local surface frames place the vertex at z = 0 (pure translation along
//     the axis — the core scope is centered, axisymmetric systems only).
//
// Failure signals:
//   - Intersections report misses via an ok=false return, never via error.
//   - Refract reports total internal reflection via ok=false.
//
// Determinism: every routine is a pure function of its arguments.
package geom
