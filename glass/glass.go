package glass

import (
	"errors"
	"math"
	"strings"
)

// ErrMaterialUnknown is returned when a name resolves to no catalog entry.
// Callers may recover by substituting air or rejecting the surface.
var ErrMaterialUnknown = errors.New("glass: unknown material")

// Fraunhofer reference wavelengths (µm) used by the Abbe reconstruction and
// by chromatic analyses.
const (
	WavelengthC = 0.6563 // red hydrogen line
	WavelengthD = 0.5876 // yellow helium line
	WavelengthF = 0.4861 // blue hydrogen line
)

// Formula selects the dispersion model of a catalog entry.
type Formula int

const (
	// Sellmeier uses three-term Sellmeier coefficients B[i], C[i].
	Sellmeier Formula = iota
	// Abbe reconstructs a Cauchy fit from Nd and Vd.
	Abbe
	// Constant returns Nd at every wavelength.
	Constant
)

// Material is one catalog entry.
type Material struct {
	Name    string
	Formula Formula

	// Sellmeier coefficients (λ in µm).
	B [3]float64
	C [3]float64

	// d-line index and Abbe number for the Abbe/Constant models; Nd and Vd
	// are also kept for Sellmeier entries so chromatic operands can read Vd
	// without re-deriving it.
	Nd float64
	Vd float64
}

// Catalog maps upper-cased material names to entries. It carries no hidden
// synchronization: the caller serializes mutation (the core only reads).
type Catalog struct {
	entries map[string]Material
}

// NewCatalog returns a catalog preloaded with the built-in table.
func NewCatalog() *Catalog {
	c := &Catalog{entries: make(map[string]Material, len(builtins)+4)}
	for _, m := range builtins {
		c.entries[m.Name] = m
	}
	// Historical aliases resolve to the modern melt.
	c.alias("BK7", "N-BK7")
	c.alias("SF5", "N-SF5")
	c.alias("F2", "N-F2")
	return c
}

func (c *Catalog) alias(alias, canonical string) {
	if m, ok := c.entries[canonical]; ok {
		m.Name = alias
		c.entries[alias] = m
	}
}

// Add inserts or overrides an entry; the name is case-insensitive.
func (c *Catalog) Add(m Material) {
	m.Name = strings.ToUpper(strings.TrimSpace(m.Name))
	c.entries[m.Name] = m
}

// Lookup returns the entry for name, if any.
func (c *Catalog) Lookup(name string) (Material, bool) {
	m, ok := c.entries[strings.ToUpper(strings.TrimSpace(name))]
	return m, ok
}

// IsAir reports whether name denotes the trivial medium.
func IsAir(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "", "AIR":
		return true
	}
	return false
}

// Index resolves n(λ) for the named material; λ in µm.
//
// Air returns exactly 1.0. Unknown names return ErrMaterialUnknown.
//
// Complexity: O(1).
func (c *Catalog) Index(name string, lambda float64) (float64, error) {
	if IsAir(name) {
		return 1.0, nil
	}
	m, ok := c.Lookup(name)
	if !ok {
		return 0, ErrMaterialUnknown
	}
	return m.IndexAt(lambda), nil
}

// IndexAt evaluates the entry's dispersion model at λ (µm).
func (m Material) IndexAt(lambda float64) float64 {
	switch m.Formula {
	case Sellmeier:
		l2 := lambda * lambda
		n2 := 1.0
		for i := 0; i < 3; i++ {
			n2 += m.B[i] * l2 / (l2 - m.C[i])
		}
		return math.Sqrt(n2)
	case Abbe:
		// Two-term Cauchy n(λ) = A + B/λ² pinned to n_d and the Abbe number:
		// n_F − n_C = (n_d − 1)/V_d fixes B; A follows from n(λ_d) = n_d.
		if m.Vd == 0 {
			return m.Nd
		}
		b := (m.Nd - 1) / m.Vd / (1/(WavelengthF*WavelengthF) - 1/(WavelengthC*WavelengthC))
		a := m.Nd - b/(WavelengthD*WavelengthD)
		return a + b/(lambda*lambda)
	default:
		return m.Nd
	}
}

// builtins is the built-in Sellmeier table (coefficients from vendor data
// sheets, λ in µm).
var builtins = []Material{
	{
		Name: "N-BK7", Formula: Sellmeier,
		B:  [3]float64{1.03961212, 0.231792344, 1.01046945},
		C:  [3]float64{0.00600069867, 0.0200179144, 103.560653},
		Nd: 1.5168, Vd: 64.17,
	},
	{
		Name: "N-SF5", Formula: Sellmeier,
		B:  [3]float64{1.52481889, 0.187085527, 1.42729015},
		C:  [3]float64{0.011254756, 0.0588995392, 129.141675},
		Nd: 1.67271, Vd: 32.25,
	},
	{
		Name: "N-F2", Formula: Sellmeier,
		B:  [3]float64{1.39757037, 0.159201403, 1.26865430},
		C:  [3]float64{0.00995906143, 0.0546931752, 119.248346},
		Nd: 1.62005, Vd: 36.43,
	},
	{
		Name: "N-SK16", Formula: Sellmeier,
		B:  [3]float64{1.34317774, 0.241144399, 0.994317969},
		C:  [3]float64{0.00704687339, 0.0229005000, 92.7508526},
		Nd: 1.62041, Vd: 60.32,
	},
	{
		Name: "FUSED-SILICA", Formula: Sellmeier,
		B:  [3]float64{0.6961663, 0.4079426, 0.8974794},
		C:  [3]float64{0.0684043 * 0.0684043, 0.1162414 * 0.1162414, 9.896161 * 9.896161},
		Nd: 1.4585, Vd: 67.8,
	},
}
