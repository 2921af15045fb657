package wavefront

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Fit is the result of a weighted Zernike decomposition. Coefficients is
// indexed by the OSA/ANSI single index, in the unit of the sampled map;
// Reconstructed is parallel to the map's Samples.
type Fit struct {
	MaxOrder      int
	Coefficients  []float64
	RMS           float64 // weighted RMS of the fit residual
	PV            float64 // peak-to-valley of the (optionally detilted) OPD
	Reconstructed []float64
}

// FitZernike solves the weighted least-squares Zernike fit of a sampled
// wavefront. With WithoutPistonTilt the j = 0..2 terms are still part of
// the solve (so higher coefficients are unbiased) but are zeroed in the
// output and subtracted before the PV statistic.
//
// Errors: ErrUnresolved when fewer usable samples than terms remain.
//
// Complexity: O(samples · terms²) via QR.
func FitZernike(wf *Map, opts ...Option) (*Fit, error) {
	o := gatherOptions(opts...)
	terms := TermCount(o.maxOrder)

	var rows []int
	for i := range wf.Samples {
		if wf.Samples[i].Weight > 0 {
			rows = append(rows, i)
		}
	}
	if len(rows) < terms {
		return nil, ErrUnresolved
	}

	// Rows scaled by √w turn the weighted problem into plain least squares.
	a := mat.NewDense(len(rows), terms, nil)
	b := mat.NewVecDense(len(rows), nil)
	for r, i := range rows {
		s := wf.Samples[i]
		w := math.Sqrt(s.Weight)
		rho, theta := polar(s)
		for j := 0; j < terms; j++ {
			a.Set(r, j, w*Zernike(j, rho, theta))
		}
		b.SetVec(r, w*s.OPD)
	}

	var qr mat.QR
	qr.Factorize(a)
	var cv mat.VecDense
	if err := qr.SolveVecTo(&cv, false, b); err != nil {
		return nil, err
	}

	full := make([]float64, terms)
	for j := range full {
		full[j] = cv.AtVec(j)
	}
	kept := append([]float64(nil), full...)
	if o.removePistTilt {
		for j := 0; j < 3 && j < terms; j++ {
			kept[j] = 0
		}
	}

	fit := &Fit{
		MaxOrder:      o.maxOrder,
		Coefficients:  kept,
		Reconstructed: make([]float64, len(wf.Samples)),
	}

	var residSum, wSum float64
	pvMin, pvMax := math.Inf(1), math.Inf(-1)
	for i := range wf.Samples {
		s := wf.Samples[i]
		rho, theta := polar(s)

		var recKept, recFull float64
		for j := 0; j < terms; j++ {
			z := Zernike(j, rho, theta)
			recKept += kept[j] * z
			recFull += full[j] * z
		}
		fit.Reconstructed[i] = recKept

		if s.Weight <= 0 {
			continue
		}
		resid := s.OPD - recFull
		residSum += s.Weight * resid * resid
		wSum += s.Weight

		detilted := s.OPD - (recFull - recKept)
		pvMin = math.Min(pvMin, detilted)
		pvMax = math.Max(pvMax, detilted)
	}
	fit.RMS = math.Sqrt(residSum / wSum)
	fit.PV = pvMax - pvMin
	return fit, nil
}

// CoefficientRMS is the root-sum-square of the coefficients excluding
// piston and tilt. With unit-RMS normalization this equals the wavefront
// RMS of the fitted aberration content.
func (f *Fit) CoefficientRMS() float64 {
	sum := 0.0
	for j := 3; j < len(f.Coefficients); j++ {
		sum += f.Coefficients[j] * f.Coefficients[j]
	}
	return math.Sqrt(sum)
}

func polar(s Sample) (rho, theta float64) {
	return math.Hypot(s.U, s.V), math.Atan2(s.V, s.U)
}
