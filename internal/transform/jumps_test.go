package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/pipeline"
)

func TestBigJumpFilterDropsOversizedDelta(t *testing.T) {
	f := NewBigJumpFilter(100)
	ctx := pipeline.NewContext()
	ctx.Event.Type = evcodes.EV_REL
	ctx.Event.Code = evcodes.REL_X
	ctx.Event.Value = 500

	action, err := f.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.IgnoreEvent, action)
}

func TestBigJumpFilterPassesSmallDelta(t *testing.T) {
	f := NewBigJumpFilter(100)
	ctx := pipeline.NewContext()
	ctx.Event.Type = evcodes.EV_REL
	ctx.Event.Code = evcodes.REL_Y
	ctx.Event.Value = -50

	action, err := f.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
}

func TestInitMoveFilterDropsFirstN(t *testing.T) {
	f := NewInitMoveFilter(2)
	ctx := pipeline.NewContext()
	ctx.Event.Type = evcodes.EV_REL
	ctx.Event.Code = evcodes.REL_X

	for i := 0; i < 2; i++ {
		action, err := f.Mutate(ctx)
		require.NoError(t, err)
		require.Equal(t, pipeline.IgnoreEvent, action)
	}

	action, err := f.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
}

func TestMouseModeForwardsNegativeDeltas(t *testing.T) {
	m := NewMouseMode()
	ctx := pipeline.NewContext()
	ctx.Event.Type = evcodes.EV_REL
	ctx.Event.Code = evcodes.REL_X
	ctx.Event.Value = -42

	action, err := m.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
	require.Equal(t, int32(-42), ctx.Event.Value)
}
