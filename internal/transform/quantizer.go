// Package transform implements the mutator stages that reshape relative
// and absolute pointer motion on its way through a pipeline: quantizing
// sub-pixel motion into whole-unit steps, converting absolute tablet
// coordinates into relative deltas, filtering spurious jumps, and the
// raw pass-through used by mouse-mode.
package transform

import (
	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/pipeline"
)

// Quantizer accumulates fractional relative motion per axis and emits
// whole-unit steps only once the accumulator crosses a full Step. The
// leftover fraction is kept for the next event, so motion is conserved
// exactly over time: no unit of movement is ever dropped or duplicated,
// only delayed until it adds up to a full step.
type Quantizer struct {
	// Step is the size of one quantized unit. A Step of 1 passes motion
	// through unchanged; larger values slow the pointer, smaller values
	// speed it up.
	Step float64

	acc map[uint16]float64
}

var _ pipeline.Mutator = (*Quantizer)(nil)

// NewQuantizer returns a Quantizer with the given step size. A zero or
// negative step is treated as 1 (pass-through).
func NewQuantizer(step float64) *Quantizer {
	if step <= 0 {
		step = 1
	}
	return &Quantizer{Step: step, acc: make(map[uint16]float64)}
}

// Name satisfies [pipeline.Stage].
func (q *Quantizer) Name() string { return "transform.Quantizer" }

// Mutate rewrites REL_X/REL_Y events in place, replacing Value with the
// quantized whole-unit delta and folding the remainder back into the
// accumulator. All other events pass through untouched.
func (q *Quantizer) Mutate(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := &ctx.Event
	if ev.Type != evcodes.EV_REL || !isPositionalAxis(ev.Code) {
		return pipeline.Next, nil
	}

	q.acc[ev.Code] += float64(ev.Value)

	steps := truncDiv(q.acc[ev.Code], q.Step)
	q.acc[ev.Code] -= steps * q.Step

	if steps == 0 {
		return pipeline.IgnoreEvent, nil
	}

	ev.Value = int32(steps)
	return pipeline.Next, nil
}

// truncDiv returns the largest magnitude whole multiple of step that
// fits within acc, truncating toward zero so residual accumulation never
// changes sign.
func truncDiv(acc, step float64) float64 {
	if acc >= 0 {
		return float64(int64(acc / step))
	}
	return -float64(int64(-acc / step))
}

// Reset clears every axis's accumulator, used when a device is regrabbed
// or a gesture restarts, so stale fractional motion never bleeds into the
// next one.
func (q *Quantizer) Reset() {
	q.acc = make(map[uint16]float64)
}

func isPositionalAxis(code uint16) bool {
	return code == evcodes.REL_X || code == evcodes.REL_Y
}
