// Package surface defines the per-surface record of an optical system and
// the sag kernel evaluated by the ray tracer.
//
// A Surface is one entry of the ordered list running from the object plane
// (index 0) to the image plane (last index). The sag of a rotationally
// symmetric surface is
//
//	z(r) = r² / [R·(1 + √(1 − (1+k)·r²/R²))] + Σᵢ coefᵢ·r^pᵢ
//
// with pᵢ = 2i for even aspheres and 2i+1 for odd aspheres (i = 1..10).
// Degenerate inputs collapse to 0 rather than NaN: r = 0, R = 0, a negative
// or non-finite discriminant, and a non-finite total all yield 0, matching
// the reference kernel bit for bit. DSag is the closed-form derivative with
// the same guards.
//
// Radius and Thickness use ±Inf as the "plane"/"infinite gap" sentinel;
// IsPlane and IsInfinite make the encoding explicit at call sites.
package surface
