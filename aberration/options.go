package aberration

import (
	"fmt"

	"github.com/optray/optray/sweep"
)

// Defaults - single source of truth for zero-value behavior.
const (
	// DefaultRayCount is the per-meridian fan density (odd, spanning [-1, 1]).
	DefaultRayCount = 21

	// DefaultFieldSamples is the distortion sweep density.
	DefaultFieldSamples = 20

	// DefaultGridSize is the per-side density of the distortion grid.
	DefaultGridSize = 9
)

// Astigmatism search constants (not configurable; fixed by the method).
const (
	scanHalfRange = 10.0 // mm around the image plane
	scanSamples   = 41
	refineTol     = 1e-3 // mm, 1/1000 of the scan unit
	refineMaxIter = 30
)

const (
	panicRayCountInvalid = "aberration: WithRayCount: count must be >= 3"
	panicSamplesInvalid  = "aberration: WithFieldSamples: count must be >= 2"
	panicGridSizeInvalid = "aberration: WithGridSize: size must be >= 2"
)

// Option mutates analyzer options. Constructors panic only on nonsensical
// values (programmer error).
type Option func(*options)

type options struct {
	rayCount     int
	fieldSamples int
	gridSize     int
	progress     sweep.ProgressFunc
}

// WithRayCount sets the per-meridian fan density.
func WithRayCount(n int) Option {
	if n < 3 {
		panic(fmt.Sprintf("%s (got %d)", panicRayCountInvalid, n))
	}
	return func(o *options) { o.rayCount = n }
}

// WithFieldSamples sets the distortion field-sweep density.
func WithFieldSamples(n int) Option {
	if n < 2 {
		panic(fmt.Sprintf("%s (got %d)", panicSamplesInvalid, n))
	}
	return func(o *options) { o.fieldSamples = n }
}

// WithGridSize sets the per-side density of the distortion grid.
func WithGridSize(n int) Option {
	if n < 2 {
		panic(fmt.Sprintf("%s (got %d)", panicGridSizeInvalid, n))
	}
	return func(o *options) { o.gridSize = n }
}

// WithProgress registers a cooperative progress/cancel callback for the
// long sweeps (astigmatism over fields, distortion grids).
func WithProgress(fn sweep.ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

func gatherOptions(opts ...Option) options {
	o := options{
		rayCount:     DefaultRayCount,
		fieldSamples: DefaultFieldSamples,
		gridSize:     DefaultGridSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
