package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/evcodes"
	"github.com/moisrex/foresight/internal/pipeline"
)

func TestQuantizerConservesMotion(t *testing.T) {
	q := NewQuantizer(10)
	ctx := pipeline.NewContext()

	var total int32
	for i := 0; i < 25; i++ {
		ctx.Event.Type = evcodes.EV_REL
		ctx.Event.Code = evcodes.REL_X
		ctx.Event.Value = 1

		action, err := q.Mutate(ctx)
		require.NoError(t, err)

		if action == pipeline.Next {
			total += ctx.Event.Value * 10
		}
	}

	// 25 single-unit inputs at step 10 should conserve exactly to the
	// nearest multiple of 10 below 25, i.e. 20.
	require.Equal(t, int32(20), total)
}

func TestQuantizerIgnoresBelowStep(t *testing.T) {
	q := NewQuantizer(10)
	ctx := pipeline.NewContext()
	ctx.Event.Type = evcodes.EV_REL
	ctx.Event.Code = evcodes.REL_X
	ctx.Event.Value = 3

	action, err := q.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.IgnoreEvent, action)
}

func TestQuantizerPassesThroughNonPositionalAxes(t *testing.T) {
	q := NewQuantizer(10)
	ctx := pipeline.NewContext()
	ctx.Event.Type = evcodes.EV_REL
	ctx.Event.Code = evcodes.REL_WHEEL
	ctx.Event.Value = 1

	action, err := q.Mutate(ctx)
	require.NoError(t, err)
	require.Equal(t, pipeline.Next, action)
	require.Equal(t, int32(1), ctx.Event.Value)
}
