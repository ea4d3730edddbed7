package keystatus

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/event"
	"github.com/moisrex/foresight/internal/pipeline"
)

func TestObserveTracksPressAndRelease(t *testing.T) {
	tr := NewTracker()
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_KEY, Code: evcodes.KEY_A, Value: 1}
	action, err := tr.Observe(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
	require.True(t, tr.IsPressed(evcodes.KEY_A))
	require.False(t, tr.IsReleased(evcodes.KEY_A))

	ctx.Event = event.Event{Type: evcodes.EV_KEY, Code: evcodes.KEY_A, Value: 0}
	_, err = tr.Observe(ctx)
	require.NoError(t, err)
	require.False(t, tr.IsPressed(evcodes.KEY_A))
}

func TestObserveTracksLEDs(t *testing.T) {
	tr := NewTracker()
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_LED, Code: evcodes.LED_CAPSL, Value: 1}
	_, err := tr.Observe(ctx)
	require.NoError(t, err)
	require.True(t, tr.IsOn(evcodes.LED_CAPSL))
	require.False(t, tr.IsOff(evcodes.LED_CAPSL))
}

func TestAllPressedRequiresEveryCode(t *testing.T) {
	tr := NewTracker()
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_KEY, Code: evcodes.KEY_LEFTCTRL, Value: 1}
	tr.Observe(ctx)

	require.False(t, tr.AllPressed(evcodes.KEY_LEFTCTRL, evcodes.KEY_LEFTSHIFT))

	ctx.Event = event.Event{Type: evcodes.EV_KEY, Code: evcodes.KEY_LEFTSHIFT, Value: 1}
	tr.Observe(ctx)

	require.True(t, tr.AllPressed(evcodes.KEY_LEFTCTRL, evcodes.KEY_LEFTSHIFT))
}

func TestUnrelatedEventLeavesTableUnchanged(t *testing.T) {
	tr := NewTracker()
	ctx := pipeline.NewContext()

	ctx.Event = event.Event{Type: evcodes.EV_REL, Code: 0, Value: 5}
	action, err := tr.Observe(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
	require.False(t, tr.IsPressed(0))
}
