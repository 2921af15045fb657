// Package builder provides deterministic stock optical systems for tests,
// examples and benchmarks: the canonical fixtures of the workbench.
//
// The package offers the following constructors:
//
//   - PlanoConvexSinglet: R₁ = 50, flat rear, 4 mm of N-BK7, stop at the
//     front surface — the reference singlet for every analyzer.
//   - ThinLens:           symmetric biconvex constant-index lens with a
//     prescribed focal length and zero thickness.
//   - AsphericCollimator: parabolic front (k = −1) with an even a₄ term.
//   - Achromat:           cemented N-BK7/N-SF5 Fraunhofer doublet whose
//     radii are solved from the catalog dispersion at build time.
//   - VignettingSinglet:  the reference singlet behind a 0.5 mm stop.
//   - StrongAsphere:      a deliberately hostile surface (k = −3, large
//     a₄) that stresses the Newton intersection ladder.
//
// Guarantees:
//
//   - Determinism: equal inputs produce identical systems.
//   - Every constructor returns a system that passes Validate, with the
//     image plane at the paraxial focus unless documented otherwise.
package builder
