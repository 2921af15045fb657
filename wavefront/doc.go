// Package wavefront samples the optical path difference over the pupil and
// decomposes it into OSA/ANSI Zernike polynomials.
//
// SampleOPD aims one ray per pupil grid point inside the unit disk, takes
// its accumulated optical path minus the chief ray's, and refers both to
// the reference sphere centered on the chief image point with radius equal
// to the exit-pupil-to-image distance. Vignetted pupil points stay in the
// sample set with weight 0 so a fit can see the pupil shape.
//
// FitZernike solves the weighted least-squares system
//
//	min Σ wᵢ · (OPDᵢ − Σⱼ cⱼ · Zⱼ(ρᵢ, θᵢ))²
//
// with a QR factorization (gonum/mat), returning coefficients in the
// sampling unit (waves by default), the residual RMS, the peak-to-valley
// and a reconstruction for plotting. Piston and tilt may be removed.
package wavefront
