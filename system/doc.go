// Package system holds the system description every analyzer consumes: the
// ordered surface list, the source (wavelength) table, the object (field)
// table, the material catalog handle, and the persisted JSON document form
// with its normalizer and variable registry.
//
// Separation of concerns:
//   - System is the expanded, trace-ready description. It is plain data; the
//     numeric packages read it and never mutate it.
//   - Document / Config is the persisted JSON shape: configurations wrapper,
//     high-level blocks (Lens, Gap, Stop, ImageSurface, …) with parameters
//     and optimize-flagged variables, and the derived per-surface list that
//     is persisted for stability.
//   - Normalize migrates legacy document shapes into the canonical one and
//     reports every mismatch as an Issue{Severity, Phase, Message} rather
//     than failing midway.
//   - Registry is the optimizer's view: every block variable with optimize
//     mode "V", addressed as blockId.key, readable and writable through a
//     pure setter that keeps the canonical parameter, the legacy duplicated
//     value, and the derived surface list in sync.
//
// Validation is structural and fail-fast: exactly one stop, Object first,
// Image last, finite radii where required, exactly one primary source. Every
// structural sentinel wraps ErrInvalidSystem so callers can match either the
// family or the specific cause.
//
// JSON encoding note: float64 cannot round-trip ±Inf through encoding/json,
// so persisted radii/thicknesses use |x| ≥ InfinityThreshold as the ∞
// sentinel — the same convention the .zmx importer applies on DISZ.
package system
