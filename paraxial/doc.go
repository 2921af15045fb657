// Package paraxial linearizes a system description near the optical axis and
// derives its first-order metrics: focal lengths, image distance, entrance
// and exit pupils, F-numbers, numerical apertures and magnification — plus
// the third-order Seidel sums the merit catalog reports.
//
// The reduction iterates, per optical surface,
//
//	u' = (u·n − h·φ) / n'      φ = (n' − n)·c
//	h' = h + u'·d
//
// over height h and slope u, with mirrors folded in as n' = −n. Pupils fall
// out of two basis rays traced from object space — every object-space ray is
// a linear combination of them, so the chief condition (zero height at the
// stop) and the pupil magnifications are solved algebraically instead of by
// iteration.
//
// Afocal objects are handled symbolically: bases launch at the first optical
// surface and metrics that require a finite object (β, object-side NA)
// return the documented 0 sentinel.
package paraxial
