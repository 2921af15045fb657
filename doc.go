// Package optray is a deterministic numeric core for centered, axisymmetric
// optical systems — from surface sag kernels to full aberration analysis.
//
// 🔭 What is optray?
//
//	A pure-computation library that brings together:
//		• Surface model: spherical and even/odd aspheric sag + derivative kernels
//		• Materials: Sellmeier / Abbe dispersion with a configuration-owned catalog
//		• Geometry: vector algebra, sphere & Newton aspheric intersection, Snell refraction
//		• Ray tracing: sequential surface-by-surface propagation with vignette reasons
//		• Paraxial engine: focal lengths, pupils, F-numbers, NA, magnification, Seidel sums
//		• Aim solvers: chief & marginal rays via damped Newton, cross-beam fans
//		• Aberrations: transverse, longitudinal, astigmatic best focus, distortion grids
//		• Wavefront: OPD sampling on the pupil disk + OSA/ANSI Zernike least-squares fit
//		• Merit: a closed operand catalog, weighted-RMS evaluation, variable registry
//
// ✨ Why choose optray?
//
//   - Deterministic – results depend only on the system description, never on
//     interleaving, wall-clock or hidden global state
//   - Strict sentinels – every failure mode is a typed, documented error value
//   - Pure Go numerics – runtime dependencies are gonum's linear algebra and
//     x/text for legacy deck encodings
//   - Cooperative – long sweeps accept progress/cancel callbacks and leave no
//     partial state behind when cancelled
//
// Under the hood, everything is organized per concern:
//
//	geom/       — vectors, rays, frames, intersection & refraction kernels
//	surface/    — surface records and the aspheric sag kernel
//	glass/      — refractive-index catalog and dispersion formulas
//	system/     — system description, JSON document form, normalizer, registry
//	trace/      — the sequential real ray tracer
//	paraxial/   — (α, h, n) reduction, pupils, Seidel sums
//	fan/        — chief/marginal aim solver and cross-beam fans
//	sweep/      — progress reporting and cooperative cancellation for sweeps
//	aberration/ — transverse, longitudinal, astigmatism, distortion analyzers
//	wavefront/  — OPD sampling and Zernike decomposition
//	merit/      — operand catalog and merit-function evaluation
//	zmx/        — Zemax .zmx subset importer
//	builder/    — canonical stock systems for tests, examples and benchmarks
//
// Dive into each package's doc.go for contracts, complexity and error tables.
package optray
