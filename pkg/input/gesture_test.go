package input

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func TestWheelGestureCollapsesBurst(t *testing.T) {
	clock := clockwork.NewFakeClock()
	w := NewWheelGesture(clock, 0)

	require.True(t, w.Begin())
	for i := 0; i < 10; i++ {
		clock.Advance(20 * time.Millisecond)
		require.False(t, w.Begin(), "event %d belongs to the same flick", i)
	}

	clock.Advance(DefaultWheelGap)
	require.True(t, w.Begin())
}

func TestWheelGestureLongBurstStaysOne(t *testing.T) {
	clock := clockwork.NewFakeClock()
	w := NewWheelGesture(clock, 100*time.Millisecond)

	require.True(t, w.Begin())
	// inertia keeps firing past the gap measured from the first event
	for i := 0; i < 20; i++ {
		clock.Advance(50 * time.Millisecond)
		require.False(t, w.Begin())
	}
}

func TestSwipeDirections(t *testing.T) {
	s := NewSwipe(60)

	s.Down(100, 400)
	require.Equal(t, -150, s.Move(105, 250))
	require.Equal(t, SwipeNext, s.Up(105, 250))

	s.Down(100, 200)
	require.Equal(t, SwipePrevious, s.Up(100, 320))

	s.Down(100, 200)
	require.Equal(t, SwipeNone, s.Up(100, 230), "short drag")

	s.Down(100, 200)
	require.Equal(t, SwipeNone, s.Up(300, 120), "horizontal drag")
}

func TestSwipeTapAndIdle(t *testing.T) {
	s := NewSwipe(60)
	require.Equal(t, SwipeNone, s.Up(0, 0))
	require.Zero(t, s.Move(10, 10))

	s.Down(50, 50)
	require.True(t, s.Dragging())
	require.Equal(t, Tap, s.Up(53, 48))
	require.False(t, s.Dragging())

	s.Down(50, 50)
	s.Move(50, 150)
	require.Equal(t, 100, s.Offset())
	s.Cancel()
	require.Zero(t, s.Offset())
}
