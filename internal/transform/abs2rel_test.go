package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/event"
	"github.com/moisrex/foresight/internal/pipeline"
)

func TestConvertAxisDropsFirstSample(t *testing.T) {
	a := NewAbsToRel(AxisInfo{Maximum: 4095}, AxisInfo{Maximum: 4095}, 1, 100)
	ctx := pipeline.NewContext()
	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_X, Value: 1000}

	action, err := a.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.IgnoreEvent, action)
}

func TestConvertAxisEmitsDeltaOnSecondSample(t *testing.T) {
	a := NewAbsToRel(AxisInfo{Maximum: 4095}, AxisInfo{Maximum: 4095}, 1, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_X, Value: 1000}
	a.Mutate(ctx)

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_X, Value: 1050}
	action, err := a.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
	require.Equal(t, uint16(evcodes.EV_REL), ctx.Event.Type)
	require.Equal(t, uint16(evcodes.REL_X), ctx.Event.Code)
	require.Equal(t, int32(50), ctx.Event.Value)
}

func TestConvertAxisIgnoresZeroDelta(t *testing.T) {
	a := NewAbsToRel(AxisInfo{Maximum: 4095}, AxisInfo{}, 1, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_X, Value: 1000}
	a.Mutate(ctx)

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_X, Value: 1000}
	action, _ := a.Mutate(ctx)
	require.Equal(t, pipeline.IgnoreEvent, action)
}

func TestConvertPressureFiresOnThresholdCrossing(t *testing.T) {
	a := NewAbsToRel(AxisInfo{}, AxisInfo{}, 1, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_PRESSURE, Value: 150}
	action, err := a.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
	require.Equal(t, uint16(evcodes.EV_KEY), ctx.Event.Type)
	require.Equal(t, uint16(evcodes.BTN_LEFT), ctx.Event.Code)
	require.Equal(t, int32(1), ctx.Event.Value)

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_PRESSURE, Value: 200}
	action, _ = a.Mutate(ctx)
	require.Equal(t, pipeline.IgnoreEvent, action)

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_PRESSURE, Value: 10}
	action, _ = a.Mutate(ctx)
	require.Equal(t, pipeline.Next, action)
	require.Equal(t, int32(0), ctx.Event.Value)
}

func TestStylusButtonRemappedToRightClick(t *testing.T) {
	a := NewAbsToRel(AxisInfo{}, AxisInfo{}, 1, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_KEY, Code: evcodes.BTN_STYLUS, Value: 1}
	action, err := a.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
	require.Equal(t, uint16(evcodes.BTN_RIGHT), ctx.Event.Code)
}

func TestTouchButtonIsDropped(t *testing.T) {
	a := NewAbsToRel(AxisInfo{}, AxisInfo{}, 1, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_KEY, Code: evcodes.BTN_TOUCH, Value: 1}
	action, _ := a.Mutate(ctx)
	require.Equal(t, pipeline.IgnoreEvent, action)
}

func TestTiltAxesAreDropped(t *testing.T) {
	a := NewAbsToRel(AxisInfo{}, AxisInfo{}, 1, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_TILT_X, Value: 5}
	action, _ := a.Mutate(ctx)
	require.Equal(t, pipeline.IgnoreEvent, action)
}

func TestConvertAxisAppliesResolutionOverConfiguredScale(t *testing.T) {
	a := NewAbsToRel(AxisInfo{Maximum: 4095, Resolution: 40}, AxisInfo{}, 10, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_X, Value: 1000}
	a.Mutate(ctx)

	ctx.Event = event.Event{Type: evcodes.EV_ABS, Code: evcodes.ABS_X, Value: 1050}
	action, err := a.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
	// delta 50 * (resolution 40 / configuredScale 10) = 200
	require.Equal(t, int32(200), ctx.Event.Value)
}

func TestToolPenSetsActiveToolAndIsDropped(t *testing.T) {
	a := NewAbsToRel(AxisInfo{}, AxisInfo{}, 1, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_KEY, Code: evcodes.BTN_TOOL_PEN, Value: 1}
	action, err := a.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.IgnoreEvent, action)
	require.Equal(t, uint16(evcodes.BTN_TOOL_PEN), a.ActiveTool())
}

func TestToolBrushIsDropped(t *testing.T) {
	a := NewAbsToRel(AxisInfo{}, AxisInfo{}, 1, 100)
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_KEY, Code: evcodes.BTN_TOOL_BRUSH, Value: 1}
	action, _ := a.Mutate(ctx)
	require.Equal(t, pipeline.IgnoreEvent, action)
}
