package input

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultWheelGap is how long the wheel must be quiet before another event
// counts as a new gesture. Trackpads emit a burst of events per flick.
const DefaultWheelGap = 300 * time.Millisecond

// WheelGesture collapses a burst of wheel events into one discrete gesture.
type WheelGesture struct {
	clock clockwork.Clock
	gap   time.Duration
	last  time.Time
	seen  bool
	mu    sync.Mutex
}

// NewWheelGesture creates a gate. A nil clock uses the real one, a zero gap
// uses DefaultWheelGap.
func NewWheelGesture(clock clockwork.Clock, gap time.Duration) *WheelGesture {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if gap <= 0 {
		gap = DefaultWheelGap
	}
	return &WheelGesture{clock: clock, gap: gap}
}

// Begin records a wheel event and reports whether it starts a new gesture.
func (w *WheelGesture) Begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	fresh := !w.seen || now.Sub(w.last) >= w.gap
	w.last = now
	w.seen = true
	return fresh
}

// SwipeResult is what a finished drag amounted to.
type SwipeResult int

const (
	SwipeNone SwipeResult = iota
	SwipeNext
	SwipePrevious
	Tap
)

// Swipe follows one pointer drag (mouse button or finger) along the vertical
// axis.
type Swipe struct {
	// Threshold is the vertical travel that turns a drag into a swipe.
	Threshold int
	// TapSlop is the travel still considered a tap.
	TapSlop int

	active       bool
	startX       int
	startY       int
	lastX, lastY int
}

// NewSwipe returns a detector with the given swipe threshold in pixels.
func NewSwipe(threshold int) *Swipe {
	return &Swipe{Threshold: threshold, TapSlop: 8}
}

// Down starts a drag at x,y.
func (s *Swipe) Down(x, y int) {
	s.active = true
	s.startX, s.startY = x, y
	s.lastX, s.lastY = x, y
}

// Move updates the drag and returns the current vertical offset.
func (s *Swipe) Move(x, y int) int {
	if !s.active {
		return 0
	}
	s.lastX, s.lastY = x, y
	return y - s.startY
}

// Dragging reports whether a drag is in progress.
func (s *Swipe) Dragging() bool { return s.active }

// Offset is the vertical travel of the current drag.
func (s *Swipe) Offset() int {
	if !s.active {
		return 0
	}
	return s.lastY - s.startY
}

// Up ends the drag. Dragging the content up advances to the next slide.
func (s *Swipe) Up(x, y int) SwipeResult {
	if !s.active {
		return SwipeNone
	}
	s.active = false
	dx := x - s.startX
	dy := y - s.startY

	if abs(dx) <= s.TapSlop && abs(dy) <= s.TapSlop {
		return Tap
	}
	if abs(dy) <= abs(dx) || abs(dy) < s.Threshold {
		return SwipeNone
	}
	if dy < 0 {
		return SwipeNext
	}
	return SwipePrevious
}

// Cancel drops the current drag.
func (s *Swipe) Cancel() { s.active = false }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
