package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/moisrex/foresight/internal/pipeline"
)

func TestTypedTriggerFiresOnSuffixMatch(t *testing.T) {
	buf := NewBuffer()
	var fired int
	trig := NewTypedTrigger(buf, "hi", func() { fired++ })

	ctx := pipeline.NewContext()

	for _, r := range "ohi" {
		buf.Push(r)
		_, err := trig.Observe(ctx)
		require.NoError(t, err)
	}

	require.Equal(t, 1, fired)
}

func TestTypedTriggerDoesNotRefireWithoutNewInput(t *testing.T) {
	buf := NewBuffer()
	var fired int
	trig := NewTypedTrigger(buf, "hi", func() { fired++ })

	ctx := pipeline.NewContext()
	for _, r := range "hi" {
		buf.Push(r)
		trig.Observe(ctx)
	}
	trig.Observe(ctx)
	trig.Observe(ctx)

	require.Equal(t, 1, fired)
}

func TestBufferHasSuffixRejectsShortBuffer(t *testing.T) {
	buf := NewBufferSize(10)
	buf.Push('a')
	require.False(t, buf.HasSuffix([]rune("ab")))
}

func TestMultiClickTriggerCounts(t *testing.T) {
	var lastCount int
	trig := NewMultiClickTrigger(30, 500*time.Millisecond, time.Millisecond, func(n int) { lastCount = n })

	ctx := pipeline.NewContext()
	base := time.Now()

	for i := 0; i < 3; i++ {
		ctx.Event.Type = 0x01 // EV_KEY
		ctx.Event.Code = 30
		ctx.Event.Value = 1
		ctx.Event.Time = base.Add(time.Duration(i) * 100 * time.Millisecond)
		_, err := trig.Observe(ctx)
		require.NoError(t, err)
	}

	require.Equal(t, 3, lastCount)
}

func TestMultiClickTriggerRejectsBounce(t *testing.T) {
	var counts []int
	trig := NewMultiClickTrigger(30, 500*time.Millisecond, 5*time.Millisecond, func(n int) { counts = append(counts, n) })

	ctx := pipeline.NewContext()
	base := time.Now()

	ctx.Event.Type, ctx.Event.Code, ctx.Event.Value, ctx.Event.Time = 0x01, 30, 1, base
	trig.Observe(ctx)

	ctx.Event.Time = base.Add(time.Microsecond * 500)
	trig.Observe(ctx)

	require.Equal(t, []int{1}, counts)
}

func TestSwipeTriggerReportsThresholdMultiples(t *testing.T) {
	var multiples []int
	trig := NewSwipeTrigger(272 /* BTN_LEFT */, 0x00 /* REL_X */, 50, func(n int) { multiples = append(multiples, n) })

	ctx := pipeline.NewContext()

	ctx.Event.Type, ctx.Event.Code, ctx.Event.Value = 0x01, 272, 1
	trig.Observe(ctx)

	ctx.Event.Type, ctx.Event.Code, ctx.Event.Value = 0x02, 0x00, 60
	trig.Observe(ctx)

	ctx.Event.Value = 60
	trig.Observe(ctx)

	require.Equal(t, []int{1, 2}, multiples)
}

type fakeReverser struct {
	bare, shifted rune
}

func (f fakeReverser) Reverse(keycode uint16, held ...uint16) (rune, bool) {
	if keycode != 30 {
		return 0, false
	}
	for _, h := range held {
		if h == 42 {
			return f.shifted, true
		}
	}
	return f.bare, true
}

type fakeTracker struct {
	pressed map[uint16]bool
}

func (f fakeTracker) IsPressed(code uint16) bool { return f.pressed[code] }

func TestKeyFeederPushesTranslatedCodepointOnPress(t *testing.T) {
	buf := NewBuffer()
	feeder := NewKeyFeeder(fakeReverser{bare: 'a', shifted: 'A'}, fakeTracker{}, buf)

	ctx := pipeline.NewContext()
	ctx.Event.Type, ctx.Event.Code, ctx.Event.Value = 0x01, 30, 1

	_, err := feeder.Observe(ctx)
	require.NoError(t, err)
	require.True(t, buf.HasSuffix([]rune("a")))
}

func TestKeyFeederRespectsHeldShift(t *testing.T) {
	buf := NewBuffer()
	tracker := fakeTracker{pressed: map[uint16]bool{42: true}}
	feeder := NewKeyFeeder(fakeReverser{bare: 'a', shifted: 'A'}, tracker, buf)

	ctx := pipeline.NewContext()
	ctx.Event.Type, ctx.Event.Code, ctx.Event.Value = 0x01, 30, 1

	_, err := feeder.Observe(ctx)
	require.NoError(t, err)
	require.True(t, buf.HasSuffix([]rune("A")))
}

func TestKeyFeederIgnoresReleases(t *testing.T) {
	buf := NewBuffer()
	feeder := NewKeyFeeder(fakeReverser{bare: 'a'}, fakeTracker{}, buf)

	ctx := pipeline.NewContext()
	ctx.Event.Type, ctx.Event.Code, ctx.Event.Value = 0x01, 30, 0

	feeder.Observe(ctx)
	require.False(t, buf.HasSuffix([]rune("a")))
}
