package sweep

import "errors"

// DefaultStep is the minimum percent gap between two callback invocations.
const DefaultStep = 5

// ErrCancelled is returned by a sweep whose ProgressFunc asked to stop.
var ErrCancelled = errors.New("sweep: cancelled by caller")

// ProgressFunc receives coarse progress updates, percent in [0, 100].
// Returning false requests cancellation of the sweep.
type ProgressFunc func(percent int, message string) bool

// Reporter rations ProgressFunc invocations to fixed percent steps over a
// known amount of work. A nil function or zero total disables reporting;
// Tick then never cancels.
type Reporter struct {
	fn      ProgressFunc
	total   int
	step    int
	last    int
	message string
}

// NewReporter prepares a reporter for total units of work. step percent
// values below 1 fall back to DefaultStep.
func NewReporter(fn ProgressFunc, total, step int, message string) *Reporter {
	if step < 1 {
		step = DefaultStep
	}
	// last starts one full step below zero so the first tick reports 0%.
	return &Reporter{fn: fn, total: total, step: step, last: -step, message: message}
}

// Tick records that done units are complete and invokes the callback when
// the percent crossed the next step boundary. Returns ErrCancelled when the
// callback declines to continue.
func (r *Reporter) Tick(done int) error {
	if r.fn == nil || r.total <= 0 {
		return nil
	}
	pct := done * 100 / r.total
	if pct > 100 {
		pct = 100
	}
	if pct < r.last+r.step && pct != 100 {
		return nil
	}
	r.last = pct
	if !r.fn(pct, r.message) {
		return ErrCancelled
	}
	return nil
}
