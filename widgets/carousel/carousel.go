// Package carousel animates a vertical stack of full-height slides.
package carousel

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultSpeed is the duration of one slide transition.
const DefaultSpeed = 300 * time.Millisecond

// Carousel tracks the scroll position of the slide stack. Positions are in
// slides: 2.5 means halfway between slide 2 and slide 3.
type Carousel struct {
	clock clockwork.Clock
	speed time.Duration
	count int

	current int

	animating bool
	from      float64
	target    int
	started   time.Time

	drag float64

	// OnSettle is called once the stack comes to rest on a slide other than
	// the one it left.
	OnSettle func(index int)
}

// New creates a carousel over count slides.
func New(clock clockwork.Clock, count int) *Carousel {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Carousel{clock: clock, speed: DefaultSpeed, count: count}
}

// SetSpeed changes the transition duration.
func (c *Carousel) SetSpeed(d time.Duration) {
	if d > 0 {
		c.speed = d
	}
}

// Reset jumps to index without animating and without OnSettle. Used when
// the slide list is replaced.
func (c *Carousel) Reset(count, index int) {
	c.count = count
	c.current = clamp(index, 0, max(count-1, 0))
	c.animating = false
	c.drag = 0
}

// Current is the slide the stack rests on, or is heading to while
// animating.
func (c *Carousel) Current() int {
	if c.animating {
		return c.target
	}
	return c.current
}

// Animating reports whether a transition is running.
func (c *Carousel) Animating() bool { return c.animating }

// SlideTo animates to index.
func (c *Carousel) SlideTo(index int) {
	if c.count == 0 {
		return
	}
	index = clamp(index, 0, c.count-1)
	from := c.Position()
	c.drag = 0
	if index == c.current && !c.animating && from == float64(index) {
		return
	}
	c.from = from
	c.target = index
	c.started = c.clock.Now()
	c.animating = true
}

// Drag follows a pointer drag. offset is in slides, positive when the
// content is pulled down (towards the previous slide).
func (c *Carousel) Drag(offset float64) {
	if c.animating || c.count == 0 {
		return
	}
	// resist dragging past the ends
	if (c.current == 0 && offset > 0) || (c.current == c.count-1 && offset < 0) {
		offset /= 3
	}
	c.drag = math.Max(-1, math.Min(1, offset))
}

// Release ends a drag that did not turn into a swipe and springs back.
func (c *Carousel) Release() {
	if c.drag == 0 {
		return
	}
	c.SlideTo(c.current)
}

// Position is the current scroll position.
func (c *Carousel) Position() float64 {
	if !c.animating {
		return float64(c.current) - c.drag
	}
	t := float64(c.clock.Since(c.started)) / float64(c.speed)
	if t >= 1 {
		return float64(c.target)
	}
	return c.from + (float64(c.target)-c.from)*easeOut(t)
}

// Update finishes a transition whose time is up and reports the settle.
func (c *Carousel) Update() {
	if !c.animating || c.clock.Since(c.started) < c.speed {
		return
	}
	c.animating = false
	prev := c.current
	c.current = c.target
	if c.current != prev && c.OnSettle != nil {
		c.OnSettle(c.current)
	}
}

// Visible returns the range of slides that intersect the viewport at the
// current position.
func (c *Carousel) Visible() (first, last int) {
	if c.count == 0 {
		return 0, -1
	}
	pos := c.Position()
	first = clamp(int(math.Floor(pos)), 0, c.count-1)
	last = clamp(int(math.Ceil(pos)), 0, c.count-1)
	return first, last
}

// Offset returns the vertical pixel offset of slide index for slides of the
// given height.
func (c *Carousel) Offset(index int, height int32) int32 {
	return int32(math.Round((float64(index) - c.Position()) * float64(height)))
}

func easeOut(t float64) float64 {
	u := 1 - t
	return 1 - u*u*u
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
