package momentum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVelocityTrackerFirstSampleSeedsOnlyTimestamp(t *testing.T) {
	v := NewVelocityTracker()
	v.ProcessEvent(1000, 5.0)
	require.Zero(t, v.Velocity())
}

func TestVelocityTrackerConverges(t *testing.T) {
	v := NewVelocityTracker()

	dt := 1.0 / 60
	ts := 0.0
	v.ProcessEvent(5, ts)

	for i := 0; i < 200; i++ {
		ts += dt
		v.ProcessEvent(5, ts)
	}

	require.InDelta(t, 5.0/dt, v.Velocity(), 2.0)
}

func TestVelocityTrackerMatchesWorkedExample(t *testing.T) {
	v := NewVelocityTracker()
	v.ProcessEvent(5.0, 0.100)
	v.ProcessEvent(10.0, 0.150)

	require.InDelta(t, 78.69, v.Velocity(), 2.0)
}

func TestVelocityTrackerIgnoresTinyDt(t *testing.T) {
	v := NewVelocityTracker()
	v.ProcessEvent(100, 0)
	v.ProcessEvent(100, 1e-9)
	require.Equal(t, 0.0, v.Velocity())
}

func TestVelocityTrackerReset(t *testing.T) {
	v := NewVelocityTracker()
	v.ProcessEvent(10, 0)
	v.ProcessEvent(10, 0.1)
	require.NotZero(t, v.Velocity())

	v.Reset()
	require.Zero(t, v.Velocity())
}

func TestCalculatorDestinationMatchesWorkedExample(t *testing.T) {
	c := NewCalculator(100, 5, 20)
	require.InDelta(t, 183.5, c.Destination(), 1e-9)
}

func TestCalculatorPosAtMatchesWorkedExample(t *testing.T) {
	c := NewCalculator(100, 5, 20)
	require.InDelta(t, 100.0, c.PosAt(0), 1e-9)
	require.InDelta(t, 183.5, c.PosAt(1.0), 1e-9)
	require.InDelta(t, 183.5, c.PosAt(1.5), 1e-9)
}

func TestCalculatorLinearForSmallDelta(t *testing.T) {
	c := NewCalculator(0, 0.5, 100)
	require.True(t, c.linear)
}

func TestCalculatorLinearWhenDestinationIsEssentiallyStart(t *testing.T) {
	c := NewCalculator(100, 0, 50)
	require.True(t, c.linear)
	require.Equal(t, 100.0, c.Destination())
}

func TestCalculatorBezierProgressesTowardDestination(t *testing.T) {
	c := NewCalculator(0, 10, 50)
	require.False(t, c.linear)

	require.InDelta(t, 0.0, c.PosAt(0), 1e-9)
	mid := c.PosAt(0.5)
	require.Greater(t, mid, 0.0)
	require.LessOrEqual(t, mid, c.Destination()+1e-9)
	require.InDelta(t, c.Destination(), c.PosAt(1.0), 1e-9)
}
