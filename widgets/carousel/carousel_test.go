package carousel

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestSlideToSettlesAfterSpeed(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, 5)
	var settled []int
	c.OnSettle = func(i int) { settled = append(settled, i) }

	c.SlideTo(1)
	require.True(t, c.Animating())
	require.Equal(t, 1, c.Current())
	require.Equal(t, 0.0, c.Position())

	clock.Advance(DefaultSpeed / 2)
	c.Update()
	require.Empty(t, settled)
	pos := c.Position()
	require.Greater(t, pos, 0.5, "ease out is past halfway at half time")
	require.Less(t, pos, 1.0)

	clock.Advance(DefaultSpeed)
	c.Update()
	require.Equal(t, []int{1}, settled)
	require.False(t, c.Animating())
	require.Equal(t, 1.0, c.Position())
}

func TestSlideToClampsAndIgnoresNoop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, 3)
	calls := 0
	c.OnSettle = func(int) { calls++ }

	c.SlideTo(0)
	require.False(t, c.Animating())

	c.SlideTo(10)
	clock.Advance(time.Second)
	c.Update()
	require.Equal(t, 2, c.Current())
	require.Equal(t, 1, calls)
}

func TestDragAndSpringBack(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, 3)
	c.Reset(3, 1)
	calls := 0
	c.OnSettle = func(int) { calls++ }

	c.Drag(-0.25)
	require.InDelta(t, 1.25, c.Position(), 1e-9)
	first, last := c.Visible()
	require.Equal(t, 1, first)
	require.Equal(t, 2, last)
	require.EqualValues(t, 75, c.Offset(2, 100))

	c.Release()
	clock.Advance(time.Second)
	c.Update()
	require.Equal(t, 1.0, c.Position())
	require.Zero(t, calls, "spring back is not a settle")
}

func TestDragResistsAtEnds(t *testing.T) {
	c := New(clockwork.NewFakeClock(), 3)
	c.Drag(0.6)
	require.InDelta(t, -0.2, c.Position(), 1e-9)
}

func TestSlideFromDragContinuesFromPosition(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := New(clock, 3)
	c.Drag(-0.5)
	c.SlideTo(1)
	require.InDelta(t, 0.5, c.Position(), 1e-9)
}

func TestEmpty(t *testing.T) {
	c := New(clockwork.NewFakeClock(), 0)
	c.SlideTo(2)
	require.False(t, c.Animating())
	first, last := c.Visible()
	require.Greater(t, first, last)
}
