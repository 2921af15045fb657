// Package zmx imports the sequential-surface subset of Zemax .zmx lens
// files: SURF blocks with STOP, CURV, DISZ, GLAS, DIAM, CONI, PARM and
// TYPE EVENASPH, under UTF-16 or UTF-8 encoding (auto-detected).
//
// Coordinate breaks and odd aspheres have no representation in a centered
// axisymmetric surface list and abort the import with a hard error;
// everything else the format carries (wavelength tables, field tables,
// vendor UI state) is skipped. The importer reports repairs and defaults
// as warning issues and always returns them alongside the system.
package zmx
