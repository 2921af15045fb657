// Package sweep provides cooperative progress reporting and cancellation
// for long-running analyses (astigmatism over many fields, distortion
// grids, pupil sampling).
//
// A caller passes a ProgressFunc; the sweep invokes it at coarse percent
// intervals and aborts with ErrCancelled when the callback returns false.
// Cancellation is cooperative: a sweep checks between units of work, never
// mid-trace, and leaves no partial mutation behind.
package sweep
