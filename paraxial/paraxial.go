package paraxial

import (
	"math"

	"github.com/optray/optray/system"
)

// Pupil describes the paraxial image of the stop on one side of the system.
type Pupil struct {
	Position      float64 // global z (first optical vertex at z = 0)
	Diameter      float64
	Magnification float64 // signed, relative to the stop diameter
}

// Metrics bundles the first-order quantities of a system at one wavelength.
//
// Sentinels: metrics that require a finite object (Magnification, NAObject,
// FnoObject) are 0 for an afocal object; an afocal system yields ±Inf focal
// lengths, which the caller treats as the degenerate case.
type Metrics struct {
	FL  float64 // focal length, −1/u' for the (h=1, u=0) basis
	EFL float64 // effective focal length (same basis; see package doc)
	BFL float64 // back focal distance, last vertex → axial focus
	IMD float64 // last vertex → paraxial image of the actual object

	ObjectDistance float64 // object plane → first vertex; +Inf when afocal
	TotalTrack     float64 // first vertex → image plane (TSL)

	Entrance Pupil
	Exit     Pupil

	FnoObject  float64
	FnoImage   float64
	FnoWorking float64
	NAObject   float64
	NAImage    float64

	Magnification float64 // β = u₁/u', finite objects only
}

// Analyze reduces the system at λ and derives all first-order metrics.
//
// Errors: system structural sentinels (via StopIndex), ErrNoOpticalSurfaces,
// and material failures from the catalog.
//
// Complexity: O(surfaces) — two basis reductions plus algebra.
func Analyze(sys *system.System, lambda float64) (*Metrics, error) {
	from, to, err := opticalRange(sys)
	if err != nil {
		return nil, err
	}
	stopIdx, err := sys.StopIndex()
	if err != nil {
		return nil, err
	}
	stopSemi := sys.Surfaces[stopIdx].SemiDiameter

	// Basis rays spanning object space: P = (h=1, u=0), Q = (h=0, u=1).
	basisP, err := Reduce(sys, lambda, from, to, 1, 0)
	if err != nil {
		return nil, err
	}
	basisQ, err := Reduce(sys, lambda, from, to, 0, 1)
	if err != nil {
		return nil, err
	}

	m := &Metrics{
		ObjectDistance: sys.ObjectDistance(),
		TotalTrack:     sys.ImageZ(),
	}

	// Focal lengths from the parallel basis.
	m.FL = -safeDiv(1, basisP.U)
	m.EFL = m.FL
	m.BFL = -safeDiv(basisP.H, basisP.U)

	// Heights at the stop: every object-space ray (h₁,u₁) lands at
	// h_stop = h₁·A + u₁·B.
	a := stateAt(basisP, stopIdx).H
	b := stateAt(basisQ, stopIdx).H

	vertexZ := sys.VertexZ()
	zLast := vertexZ[to]

	// Entrance pupil: the chief condition h_stop = 0 pins the object-space
	// line; its axis crossing and the ray-height ratio give position and
	// magnification in one step.
	m.Entrance.Position = safeDiv(b, a)
	m.Entrance.Magnification = safeDiv(1, a)
	m.Entrance.Diameter = 2 * stopSemi * math.Abs(m.Entrance.Magnification)

	// Exit pupil: the same chief combination continued into image space.
	hc := basisQ.H - safeDiv(b, a)*basisP.H
	uc := basisQ.U - safeDiv(b, a)*basisP.U
	zExpRel := -safeDiv(hc, uc)
	m.Exit.Position = zLast + zExpRel
	m.Exit.Magnification = safeDiv(basisP.H+basisP.U*zExpRel, a)
	m.Exit.Diameter = 2 * stopSemi * math.Abs(m.Exit.Magnification)

	// Marginal ray of the actual object point; the image-side slope sets the
	// working aperture.
	var uImg, uObj float64
	if sys.ObjectAtInfinity() {
		s := safeDiv(stopSemi, a)
		uImg = s * basisP.U
		m.IMD = -safeDiv(basisP.H, basisP.U)
	} else {
		d0 := m.ObjectDistance
		hM := d0*basisP.H + basisQ.H
		uM := d0*basisP.U + basisQ.U
		hMs := d0*a + b
		s := safeDiv(stopSemi, hMs)
		uImg = s * uM
		uObj = s
		m.IMD = -safeDiv(hM, uM)
		m.Magnification = safeDiv(1, uM)
	}

	m.NAImage = math.Abs(basisP.NImage * uImg)
	m.NAObject = math.Abs(uObj)
	m.FnoWorking = safeDiv(1, 2*m.NAImage)
	m.FnoImage = safeDiv(math.Abs(m.EFL), m.Entrance.Diameter)
	m.FnoObject = safeDiv(math.Abs(m.EFL), m.Exit.Diameter)

	return m, nil
}

// EFLRange computes the effective focal length of the surface sub-range
// [from, to] alone (block-scoped EFL for the EFFL operand).
func EFLRange(sys *system.System, lambda float64, from, to int) (float64, error) {
	red, err := Reduce(sys, lambda, from, to, 1, 0)
	if err != nil {
		return 0, err
	}
	return -safeDiv(1, red.U), nil
}

// PupilMagnification returns EXPD/ENPD.
func (m *Metrics) PupilMagnification() float64 {
	return safeDiv(m.Exit.Diameter, m.Entrance.Diameter)
}

// stateAt returns the recorded state at surface index idx; the zero state
// when the index is outside the reduction range.
func stateAt(red *Reduced, idx int) SurfaceState {
	for _, st := range red.Surfaces {
		if st.Index == idx {
			return st
		}
	}
	return SurfaceState{}
}

// safeDiv returns a/b with the IEEE result (±Inf/NaN) contained: b == 0
// maps to 0 when a == 0, ±Inf otherwise. It keeps afocal degeneracies from
// poisoning downstream arithmetic with NaN.
func safeDiv(a, b float64) float64 {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return math.Inf(int(math.Copysign(1, a)))
	}
	return a / b
}
