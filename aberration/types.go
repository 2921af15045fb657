package aberration

import "errors"

// ErrUnresolved is returned when an analyzer cannot produce a value: every
// ray of a fan was lost, or no field samples survived.
var ErrUnresolved = errors.New("aberration: no usable rays for the analysis")

// FanPoint is one sample of a 1-D aberration curve. Pupil is the normalized
// stop coordinate in [-1, 1]; Delta is the curve value. Invalid points carry
// Delta 0 and mark rays that vignetted or failed to converge.
type FanPoint struct {
	Pupil float64
	Delta float64
	Valid bool
}

// Transverse holds the ray-fan plots for one (field, wavelength): Δy versus
// pupil y for the meridional fan and Δx versus pupil x for the sagittal fan,
// both measured at the image surface relative to the chief ray.
type Transverse struct {
	Meridional []FanPoint
	Sagittal   []FanPoint
}

// AstigPoint is the astigmatic focus shift of one field sample. M and S are
// the meridional and sagittal best-focus positions relative to the axial
// primary-wavelength reference plane.
type AstigPoint struct {
	FieldY float64
	M      float64
	S      float64
	Valid  bool
}

// DistortionPoint is one field sample of the distortion sweep. Field is the
// field coordinate (degrees or object height, matching the system's field
// kind); Real and Ideal are image heights; Relative is (real−ideal)/ideal.
type DistortionPoint struct {
	Field    float64
	Real     float64
	Ideal    float64
	Relative float64
	Valid    bool
}

// HoleSentinel marks unreachable grid points, kept for wire compatibility
// with consumers that pattern-match the legacy value. The Valid mask is the
// authoritative signal.
const HoleSentinel = -50.0

// GridPoint is one image-plane position of the distortion grid.
type GridPoint struct {
	X float64
	Y float64
}

// Grid holds the real and ideal image positions of a Size×Size mesh of
// field directions, row-major. Holes carry (HoleSentinel, HoleSentinel) in
// Real and false in Valid.
type Grid struct {
	Size  int
	Ideal []GridPoint
	Real  []GridPoint
	Valid []bool
}
