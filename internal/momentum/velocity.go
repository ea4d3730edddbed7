// Package momentum implements velocity tracking and momentum-curve
// projection for pointer gestures: once a drag or swipe lifts, the
// pointer keeps moving along a decelerating curve derived from the
// velocity measured just before release, the way a trackpad's kinetic
// scrolling does.
package momentum

import "math"

// tau is the time constant, in seconds, of the first-order low-pass
// filter VelocityTracker applies to raw per-event speed samples.
const tau = 0.1

// VelocityTracker smooths a noisy stream of per-axis position deltas
// into a stable velocity estimate using a first-order IIR low-pass
// filter. Each ProcessEvent call folds in the instantaneous speed since
// the previous call, weighted so that estimates from more than a few tau
// ago decay away.
type VelocityTracker struct {
	velocity float64
	prevTime float64
	haveTime bool
}

// NewVelocityTracker returns a tracker with no prior estimate.
func NewVelocityTracker() *VelocityTracker {
	return &VelocityTracker{}
}

// ProcessEvent folds a new displacement sample, observed at timestamp
// seconds, into the running velocity estimate. The first call in a
// gesture seeds only the timestamp: there is no previous sample to
// derive a dt from, so the delta it carries is discarded rather than
// treated as an instantaneous velocity. A dt smaller than one
// microsecond is also ignored: dividing by it would blow up the
// instantaneous-speed term with no real information behind it.
func (v *VelocityTracker) ProcessEvent(delta, timestamp float64) {
	if !v.haveTime {
		v.prevTime = timestamp
		v.haveTime = true
		return
	}

	dt := timestamp - v.prevTime
	v.prevTime = timestamp

	if dt < 1e-6 {
		return
	}

	instant := delta / dt
	alpha := 1 - math.Exp(-dt/tau)
	v.velocity += alpha * (instant - v.velocity)
}

// Velocity returns the current smoothed velocity estimate, in units per
// second.
func (v *VelocityTracker) Velocity() float64 {
	return v.velocity
}

// Reset clears the tracker back to its initial state, used when a new
// gesture (a fresh button press) begins.
func (v *VelocityTracker) Reset() {
	v.velocity = 0
	v.prevTime = 0
	v.haveTime = false
}
