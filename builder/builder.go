package builder

import (
	"math"

	"github.com/optray/optray/glass"
	"github.com/optray/optray/paraxial"
	"github.com/optray/optray/surface"
	"github.com/optray/optray/system"
)

// Fixture geometry, single source of truth for the stock systems.
const (
	// SingletRadius is the front radius of the reference singlet.
	SingletRadius = 50.0
	// SingletThickness is its center thickness.
	SingletThickness = 4.0
	// SingletSemiDiameter is its clear semi-aperture.
	SingletSemiDiameter = 10.0
	// SingletMaterial is its glass.
	SingletMaterial = "N-BK7"

	// VignettingStopSemi is the narrow stop of VignettingSinglet and
	// VignettingStopStandoff its distance to the lens vertex. At 14.5 mm
	// a 30° beam centers on the rear aperture edge: the chief clears it
	// by 0.3 mm while the upper marginal overshoots by 0.2 mm.
	VignettingStopSemi     = 0.5
	VignettingStopStandoff = 14.5

	// CollimatorRadius / CollimatorA4 define the aspheric collimator front.
	// The quartic term nulls the spherical aberration the parabolic base
	// and the flat rear leave behind; the residual is under 1/1000 wave.
	CollimatorRadius = 30.0
	CollimatorA4     = 1.97e-6

	// ThinLensIndex is the constant index of the ideal thin lens.
	ThinLensIndex = 1.5

	// StrongConic / StrongA4 define the hostile test asphere.
	StrongConic = -3.0
	StrongA4    = 1e-3
)

// PlanoConvexSinglet builds the reference singlet: stop at the curved front
// surface, image plane at the paraxial focus for the d line.
func PlanoConvexSinglet() *system.System {
	cat := glass.NewCatalog()
	n, _ := cat.Index(SingletMaterial, glass.WavelengthD)
	efl := SingletRadius / (n - 1)
	bfd := efl - SingletThickness/n

	return infiniteConjugate(cat, []surface.Surface{
		{Kind: surface.Standard, Radius: SingletRadius, Thickness: SingletThickness,
			SemiDiameter: SingletSemiDiameter, Material: SingletMaterial, Stop: true},
		{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: bfd,
			SemiDiameter: SingletSemiDiameter},
	})
}

// VignettingSinglet is the reference singlet behind a separate 0.5 mm stop,
// so oblique beams clip on the lens aperture while the axial beam passes.
func VignettingSinglet() *system.System {
	sys := PlanoConvexSinglet()
	sys.Surfaces[1].Stop = false
	stop := surface.Surface{Kind: surface.Standard, Radius: surface.Infinity(),
		Thickness: VignettingStopStandoff, SemiDiameter: VignettingStopSemi, Stop: true}
	sys.Surfaces = append([]surface.Surface{sys.Surfaces[0], stop}, sys.Surfaces[1:]...)
	return sys
}

// ThinLens builds a zero-thickness symmetric biconvex lens of focal length
// f out of a constant-index material, the closest realizable analogue of a
// paraxial ideal lens. semiDia sets both the aperture and the stop.
// First-order fixture only: the coincident surfaces cross away from the
// axis, so real-ray work should use the singlet fixtures instead.
func ThinLens(f, semiDia float64) *system.System {
	cat := glass.NewCatalog()
	cat.Add(glass.Material{Name: "IDEAL", Formula: glass.Constant, Nd: ThinLensIndex})

	// 1/f = (n−1)·2/R for a symmetric thin lens.
	r := 2 * (ThinLensIndex - 1) * f
	return infiniteConjugate(cat, []surface.Surface{
		{Kind: surface.Standard, Radius: r, Thickness: 0,
			SemiDiameter: semiDia, Material: "IDEAL", Stop: true},
		{Kind: surface.Standard, Radius: -r, Thickness: f, SemiDiameter: semiDia},
	})
}

// AsphericCollimator builds a parabolic-front collimating singlet: R = 30,
// k = −1, even a₄ term, flat rear.
func AsphericCollimator() *system.System {
	cat := glass.NewCatalog()
	n, _ := cat.Index(SingletMaterial, glass.WavelengthD)
	efl := CollimatorRadius / (n - 1)
	bfd := efl - SingletThickness/n

	front := surface.Surface{Kind: surface.AsphericEven, Radius: CollimatorRadius,
		Conic: -1, Thickness: SingletThickness, SemiDiameter: SingletSemiDiameter,
		Material: SingletMaterial, Stop: true}
	front.Coef[1] = CollimatorA4 // slot 2: r⁴ in the even series

	return infiniteConjugate(cat, []surface.Surface{
		front,
		{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: bfd,
			SemiDiameter: SingletSemiDiameter},
	})
}

// Achromat builds a cemented N-BK7/N-SF5 doublet of focal length f. The
// element powers follow the standard achromatic split φᵢ ∝ Vᵢ/(V₁−V₂) and
// the radii are solved from the catalog indices, so the doublet stays
// color-corrected if the builtin dispersion data changes. The crown is
// equiconvex; the image plane sits at the real paraxial focus.
func Achromat(f, semiDia float64) *system.System {
	cat := glass.NewCatalog()
	v1 := abbe(cat, "N-BK7")
	v2 := abbe(cat, "N-SF5")
	n1, _ := cat.Index("N-BK7", glass.WavelengthD)
	n2, _ := cat.Index("N-SF5", glass.WavelengthD)

	phi := 1 / f
	phi1 := phi * v1 / (v1 - v2)
	phi2 := phi * v2 / (v2 - v1)

	// Equiconvex crown: φ₁ = (n₁−1)·2/R₁.
	r1 := 2 * (n1 - 1) / phi1
	// Cemented interface shares the crown's rear radius.
	r2 := -r1
	// Flint rear from φ₂ = (n₂−1)(1/R₂ − 1/R₃).
	r3 := 1 / (1/r2 - phi2/(n2-1))

	sys := infiniteConjugate(cat, []surface.Surface{
		{Kind: surface.Standard, Radius: r1, Thickness: 4, SemiDiameter: semiDia,
			Material: "N-BK7", Stop: true},
		{Kind: surface.Standard, Radius: r2, Thickness: 2, SemiDiameter: semiDia,
			Material: "N-SF5"},
		{Kind: surface.Standard, Radius: r3, Thickness: 0, SemiDiameter: semiDia},
	})
	focusImage(sys)
	return sys
}

// StrongAsphere is a single hostile surface for intersection stress tests:
// strongly hyperbolic with a large quartic term. The image distance is set
// paraxially and is not a good focus; the fixture exists for the tracer,
// not for image quality.
func StrongAsphere() *system.System {
	cat := glass.NewCatalog()

	// 1.1 mm of sag at the 5 mm edge; deeper apertures would cross the
	// rear surface.
	front := surface.Surface{Kind: surface.AsphericEven, Radius: 25,
		Conic: StrongConic, Thickness: 5, SemiDiameter: 5,
		Material: SingletMaterial, Stop: true}
	front.Coef[1] = StrongA4

	sys := infiniteConjugate(cat, []surface.Surface{
		front,
		{Kind: surface.Standard, Radius: surface.Infinity(), Thickness: 0, SemiDiameter: 5},
	})
	focusImage(sys)
	return sys
}

// infiniteConjugate wraps optical rows in object/image planes with a d-line
// primary source and an axial field.
func infiniteConjugate(cat *glass.Catalog, optical []surface.Surface) *system.System {
	rows := make([]surface.Surface, 0, len(optical)+2)
	rows = append(rows, surface.Surface{Kind: surface.Object,
		Radius: surface.Infinity(), Thickness: math.Inf(1)})
	rows = append(rows, optical...)
	rows = append(rows, surface.Surface{Kind: surface.Image, Radius: surface.Infinity()})

	return &system.System{
		Surfaces: rows,
		Sources:  []system.Source{{Wavelength: glass.WavelengthD, Weight: 1, Primary: true}},
		Fields:   []system.Field{{Kind: system.FieldAngle}},
		Catalog:  cat,
	}
}

// focusImage places the image plane at the paraxial d-line focus by setting
// the last optical thickness to the computed image distance.
func focusImage(sys *system.System) {
	m, err := paraxial.Analyze(sys, glass.WavelengthD)
	if err != nil {
		return
	}
	sys.Surfaces[len(sys.Surfaces)-2].Thickness = m.IMD
}

// abbe computes the Abbe number from the catalog's own F, d, C indices.
func abbe(cat *glass.Catalog, name string) float64 {
	nf, _ := cat.Index(name, glass.WavelengthF)
	nd, _ := cat.Index(name, glass.WavelengthD)
	nc, _ := cat.Index(name, glass.WavelengthC)
	return (nd - 1) / (nf - nc)
}
