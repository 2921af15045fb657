// Package merit evaluates weighted merit functions over a closed operand
// catalog: first-order metrics (focal lengths, pupils, F-numbers),
// real-ray statistics (spot sizes, longitudinal spherical RMS, Zernike
// coefficients), Seidel sums and chromatic totals.
//
// Each operand row {kind, target, weight, params} yields
//
//	value, term = weight · (value − target)², impactPct
//
// and the merit scalar is Σ term. A non-finite operand value never poisons
// the scalar: it is replaced by a large finite penalty and the operand id
// is reported in the result, so an optimizer can keep stepping while the
// caller sees exactly which constraint blew up.
package merit
