package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/event"
)

type countingProducer struct {
	remaining int
}

func (p *countingProducer) Name() string { return "countingProducer" }
func (p *countingProducer) Produce(ctx *Context) (Action, error) {
	if p.remaining <= 0 {
		ctx.Stop()
		return Exit, nil
	}
	p.remaining--
	ctx.Event = event.Event{Value: int32(p.remaining)}
	return Next, nil
}

type recordingObserver struct {
	seen []int32
}

func (o *recordingObserver) Name() string { return "recordingObserver" }
func (o *recordingObserver) Observe(ctx *Context) (Action, error) {
	o.seen = append(o.seen, ctx.Event.Value)
	return Next, nil
}

func TestPipelineRunsUntilProducerExits(t *testing.T) {
	producer := &countingProducer{remaining: 3}
	observer := &recordingObserver{}

	p := New(producer, observer)
	err := p.Run(NewContext())

	require.NoError(t, err)
	require.Equal(t, []int32{2, 1, 0}, observer.seen)
}

type dropEverything struct{}

func (d *dropEverything) Name() string { return "dropEverything" }
func (d *dropEverything) Observe(ctx *Context) (Action, error) {
	return IgnoreEvent, nil
}

func TestIgnoreEventSkipsLaterStages(t *testing.T) {
	producer := &countingProducer{remaining: 1}
	dropper := &dropEverything{}
	observer := &recordingObserver{}

	p := New(producer, dropper, observer)
	err := p.Run(NewContext())

	require.NoError(t, err)
	require.Empty(t, observer.seen)
}

type startStopStage struct {
	started, closed bool
}

func (s *startStopStage) Name() string          { return "startStopStage" }
func (s *startStopStage) Start(_ *Context) error { s.started = true; return nil }
func (s *startStopStage) Close() error           { s.closed = true; return nil }

func TestStartAndCloseAreCalled(t *testing.T) {
	s := &startStopStage{}
	producer := &countingProducer{remaining: 0}

	p := New(s, producer)
	err := p.Run(NewContext())

	require.NoError(t, err)
	require.True(t, s.started)
	require.True(t, s.closed)
}

func TestActionString(t *testing.T) {
	require.Equal(t, "next", Next.String())
	require.Equal(t, "ignore", IgnoreEvent.String())
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "exit", Exit.String())
}
