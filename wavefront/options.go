package wavefront

import (
	"fmt"

	"github.com/optray/optray/sweep"
)

// Defaults - single source of truth for zero-value behavior.
const (
	// DefaultPupilSamples is the per-side density of the pupil grid; only
	// points inside the unit disk are traced.
	DefaultPupilSamples = 15

	// DefaultMaxOrder is the highest Zernike radial order fitted.
	DefaultMaxOrder = 6
)

const (
	panicPupilSamplesInvalid = "wavefront: WithPupilSamples: count must be >= 3"
	panicMaxOrderInvalid     = "wavefront: WithMaxOrder: order must be >= 1"
)

// Option mutates sampling and fit options. Constructors panic only on
// nonsensical values (programmer error).
type Option func(*options)

type options struct {
	pupilSamples    int
	maxOrder        int
	microns         bool
	removePistTilt  bool
	progress        sweep.ProgressFunc
}

// WithPupilSamples sets the per-side pupil grid density.
func WithPupilSamples(n int) Option {
	if n < 3 {
		panic(fmt.Sprintf("%s (got %d)", panicPupilSamplesInvalid, n))
	}
	return func(o *options) { o.pupilSamples = n }
}

// WithMaxOrder sets the highest fitted Zernike radial order.
func WithMaxOrder(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("%s (got %d)", panicMaxOrderInvalid, n))
	}
	return func(o *options) { o.maxOrder = n }
}

// WithMicrons reports OPD and coefficients in micrometers instead of waves.
func WithMicrons() Option {
	return func(o *options) { o.microns = true }
}

// WithoutPistonTilt removes the fitted piston and tilt terms (j = 0, 1, 2)
// from the coefficients, the reconstruction and the residual statistics.
func WithoutPistonTilt() Option {
	return func(o *options) { o.removePistTilt = true }
}

// WithProgress registers a cooperative progress/cancel callback for the
// pupil sweep.
func WithProgress(fn sweep.ProgressFunc) Option {
	return func(o *options) { o.progress = fn }
}

func gatherOptions(opts ...Option) options {
	o := options{
		pupilSamples: DefaultPupilSamples,
		maxOrder:     DefaultMaxOrder,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
