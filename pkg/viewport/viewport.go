package viewport

import "sync"

// DesktopMinWidth is the narrowest viewport treated as a desktop-class screen.
const DesktopMinWidth = 1024

// Mode is the platform layout mode derived from the viewport width.
type Mode int

const (
	Mobile Mode = iota
	Desktop
)

func (m Mode) String() string {
	if m == Desktop {
		return "desktop"
	}
	return "mobile"
}

// ModeFor classifies a viewport width.
func ModeFor(width int) Mode {
	if width >= DesktopMinWidth {
		return Desktop
	}
	return Mobile
}

// Size is a viewport size in device-independent pixels.
type Size struct {
	Width  int
	Height int
}

// Snapshot is a size plus the mode derived from it. Consumers get the mode
// from here rather than recomputing it from a raw width.
type Snapshot struct {
	Size
	Mode Mode
}

// NewSnapshot derives the mode for a size.
func NewSnapshot(width, height int) Snapshot {
	return Snapshot{Size: Size{Width: width, Height: height}, Mode: ModeFor(width)}
}

// Tracker holds the current viewport and republishes it to subscribers
// whenever it changes.
type Tracker struct {
	mu      sync.Mutex
	current Snapshot
	nextID  int
	subs    map[int]func(Snapshot)
}

// NewTracker creates a tracker seeded with an initial size.
func NewTracker(width, height int) *Tracker {
	return &Tracker{
		current: NewSnapshot(width, height),
		subs:    make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current viewport.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// Update records a new size. Subscribers are notified only when the size
// actually changed; the return value reports whether it did.
func (t *Tracker) Update(width, height int) bool {
	t.mu.Lock()
	if t.current.Width == width && t.current.Height == height {
		t.mu.Unlock()
		return false
	}
	t.current = NewSnapshot(width, height)
	snap := t.current
	subs := make([]func(Snapshot), 0, len(t.subs))
	for _, fn := range t.subs {
		subs = append(subs, fn)
	}
	t.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return true
}

// Subscribe registers fn for future changes and returns a function that
// removes it.
func (t *Tracker) Subscribe(fn func(Snapshot)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	return func() {
		t.mu.Lock()
		delete(t.subs, id)
		t.mu.Unlock()
	}
}
