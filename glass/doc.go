// Package glass resolves refractive indices n(λ) for named optical materials.
//
// A Catalog is configuration-owned state: every system description holds (or
// shares read-only) its own catalog, and nothing in this package is global or
// mutable behind the caller's back. The built-in table covers the common
// crown/flint glasses the stock systems use; user entries may be added or
// overridden per catalog.
//
// Dispersion models:
//   - Sellmeier: n²(λ) = 1 + Σᵢ Bᵢλ² / (λ² − Cᵢ), λ in µm — the form glass
//     vendors publish.
//   - Abbe: a two-term Cauchy fit reconstructed from (n_d, V_d), for materials
//     known only by their d-line index and Abbe number.
//   - Constant: a fixed index for ideal/test materials.
//
// Air (the empty name, "AIR", or "air") always resolves to exactly 1.0.
// Unknown names fail with ErrMaterialUnknown.
package glass
