package wavefront

import "math"

// ZernIndex converts the OSA/ANSI single index j to the (n, m) pair,
// inverting j = (n(n+2) + m) / 2.
func ZernIndex(j int) (n, m int) {
	for (n+1)*(n+2)/2 <= j {
		n++
	}
	return n, 2*j - n*(n+2)
}

// TermCount is the number of OSA/ANSI terms up to radial order n inclusive.
func TermCount(order int) int { return (order + 1) * (order + 2) / 2 }

// Zernike evaluates the j-th OSA/ANSI polynomial, normalized to unit RMS
// over the unit disk, at polar pupil coordinates.
func Zernike(j int, rho, theta float64) float64 {
	n, m := ZernIndex(j)
	am := m
	if am < 0 {
		am = -am
	}
	r := zernRadial(n, am, rho)
	norm := math.Sqrt(2 * float64(n+1))
	if m == 0 {
		norm = math.Sqrt(float64(n + 1))
	}
	switch {
	case m > 0:
		return norm * r * math.Cos(float64(am)*theta)
	case m < 0:
		return norm * r * math.Sin(float64(am)*theta)
	default:
		return norm * r
	}
}

// zernRadial is the radial polynomial R_n^m for m >= 0.
func zernRadial(n, m int, rho float64) float64 {
	s := 0.0
	for k := 0; k <= (n-m)/2; k++ {
		c := factorial(n-k) / (factorial(k) * factorial((n+m)/2-k) * factorial((n-m)/2-k))
		if k%2 == 1 {
			c = -c
		}
		s += c * math.Pow(rho, float64(n-2*k))
	}
	return s
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return f
}
