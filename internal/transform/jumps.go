package transform

import (
	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/pipeline"
)

// BigJumpFilter drops REL_X/REL_Y events whose magnitude exceeds
// Threshold. Tablets and some touchpads occasionally report a single
// wild sample when a finger lifts or a stylus loses proximity; letting
// that sample through as pointer motion would snap the cursor across the
// screen.
type BigJumpFilter struct {
	Threshold int32
}

var _ pipeline.Mutator = (*BigJumpFilter)(nil)

// NewBigJumpFilter returns a filter that drops any single-event delta
// larger in magnitude than threshold.
func NewBigJumpFilter(threshold int32) *BigJumpFilter {
	return &BigJumpFilter{Threshold: threshold}
}

// Name satisfies [pipeline.Stage].
func (f *BigJumpFilter) Name() string { return "transform.BigJumpFilter" }

// Mutate reports IgnoreEvent for any REL_X/REL_Y sample beyond Threshold,
// and Next for everything else.
func (f *BigJumpFilter) Mutate(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := &ctx.Event
	if ev.Type != evcodes.EV_REL || !isPositionalAxis(ev.Code) {
		return pipeline.Next, nil
	}

	if abs32(ev.Value) > f.Threshold {
		return pipeline.IgnoreEvent, nil
	}

	return pipeline.Next, nil
}

// InitMoveFilter drops the first N relative-motion events after a device
// is (re)grabbed. Some hardware emits a burst of stale or calibration
// motion in the first moments after being opened; suppressing it avoids
// an unwanted cursor jolt at startup.
type InitMoveFilter struct {
	Count int

	seen int
}

var _ pipeline.Mutator = (*InitMoveFilter)(nil)

// NewInitMoveFilter returns a filter that drops the first count
// REL_X/REL_Y events it observes.
func NewInitMoveFilter(count int) *InitMoveFilter {
	return &InitMoveFilter{Count: count}
}

// Name satisfies [pipeline.Stage].
func (f *InitMoveFilter) Name() string { return "transform.InitMoveFilter" }

// Mutate drops REL_X/REL_Y events until Count of them have been seen.
func (f *InitMoveFilter) Mutate(ctx *pipeline.Context) (pipeline.Action, error) {
	ev := &ctx.Event
	if ev.Type != evcodes.EV_REL || !isPositionalAxis(ev.Code) {
		return pipeline.Next, nil
	}

	if f.seen < f.Count {
		f.seen++
		return pipeline.IgnoreEvent, nil
	}

	return pipeline.Next, nil
}

// Reset re-arms the filter, used when a gesture or grab restarts.
func (f *InitMoveFilter) Reset() { f.seen = 0 }

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// MouseMode passes REL_X/REL_Y events through unmodified in both
// directions. The original demo this is modeled on silently dropped
// negative deltas, which made the pointer only ever move down and right;
// this implementation forwards both signs, since a mouse moving left or
// up is not an error condition.
type MouseMode struct{}

var _ pipeline.Mutator = (*MouseMode)(nil)

// NewMouseMode returns a no-op-by-default mouse mode mutator. It exists
// as a distinct pipeline stage (rather than simply omitting a mutator)
// so its presence in a pipeline's stage list documents the intent to
// forward raw pointer motion unchanged.
func NewMouseMode() *MouseMode { return &MouseMode{} }

// Name satisfies [pipeline.Stage].
func (m *MouseMode) Name() string { return "transform.MouseMode" }

// Mutate forwards every event, including negative REL_X/REL_Y deltas,
// unchanged.
func (m *MouseMode) Mutate(ctx *pipeline.Context) (pipeline.Action, error) {
	return pipeline.Next, nil
}
