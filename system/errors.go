package system

import (
	"errors"
	"fmt"
)

// ErrInvalidSystem is the family sentinel for structural violations; every
// specific structural error below wraps it, so errors.Is(err, ErrInvalidSystem)
// matches all of them.
var ErrInvalidSystem = errors.New("system: invalid system description")

var (
	// ErrEmptySystem indicates a surface list with fewer than three entries
	// (object, at least one optical surface, image).
	ErrEmptySystem = fmt.Errorf("%w: fewer than three surfaces", ErrInvalidSystem)

	// ErrNoStop indicates no surface carries the stop flag.
	ErrNoStop = fmt.Errorf("%w: no stop surface", ErrInvalidSystem)

	// ErrMultipleStops indicates more than one surface carries the stop flag.
	ErrMultipleStops = fmt.Errorf("%w: more than one stop surface", ErrInvalidSystem)

	// ErrObjectNotFirst indicates index 0 is not the object plane.
	ErrObjectNotFirst = fmt.Errorf("%w: first surface must be Object", ErrInvalidSystem)

	// ErrImageNotLast indicates the last index is not the image plane.
	ErrImageNotLast = fmt.Errorf("%w: last surface must be Image", ErrInvalidSystem)

	// ErrNonFiniteRadius indicates a NaN radius (∞ is the legal plane sentinel).
	ErrNonFiniteRadius = fmt.Errorf("%w: radius is NaN", ErrInvalidSystem)

	// ErrInfiniteInnerThickness indicates an ∞ thickness on a surface that is
	// neither the object nor adjacent to image space.
	ErrInfiniteInnerThickness = fmt.Errorf("%w: infinite thickness inside the system", ErrInvalidSystem)

	// ErrBadSemiDiameter indicates a non-positive clear semi-aperture on an
	// optical surface.
	ErrBadSemiDiameter = fmt.Errorf("%w: semi-diameter must be positive", ErrInvalidSystem)

	// ErrNoPrimarySource indicates the source table has no (or several)
	// primary wavelengths.
	ErrNoPrimarySource = fmt.Errorf("%w: exactly one primary source required", ErrInvalidSystem)
)

// ErrUnknownVariable is returned by the registry for an unknown blockId.key.
var ErrUnknownVariable = errors.New("system: unknown variable reference")

// ErrUnknownBlockType is reported (as a fatal Issue) during block expansion.
var ErrUnknownBlockType = errors.New("system: unknown block type")
