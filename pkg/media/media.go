// Package media models the two kinds of playable slide content and the
// per-slide handle table the feed owns.
package media

import (
	"sort"
	"time"
)

// NativePlayer is a seekable media element rendered by the app itself.
type NativePlayer interface {
	Play() error
	Pause()
	Seek(offset time.Duration) error
	SetLoop(loop bool)
	SetMuted(muted bool)
}

// EmbeddedFrame is an embedded page. Clearing its source detaches the page
// completely so it stops using network, CPU and audio.
type EmbeddedFrame interface {
	SetSource(url string)
	ClearSource()
	Source() string
}

// Kind tags which variant a Handle holds.
type Kind int

const (
	KindNone Kind = iota
	KindNative
	KindEmbedded
)

func (k Kind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindEmbedded:
		return "embedded"
	default:
		return "none"
	}
}

// Handle is a tagged reference to one slide's media element. Exactly one of
// Native or Frame is set, according to Kind.
type Handle struct {
	Kind   Kind
	Native NativePlayer
	Frame  EmbeddedFrame
}

// NativeHandle wraps a native player.
func NativeHandle(p NativePlayer) Handle {
	return Handle{Kind: KindNative, Native: p}
}

// FrameHandle wraps an embedded frame.
func FrameHandle(f EmbeddedFrame) Handle {
	return Handle{Kind: KindEmbedded, Frame: f}
}

// Valid reports whether the handle references an element of its kind.
func (h Handle) Valid() bool {
	switch h.Kind {
	case KindNative:
		return h.Native != nil
	case KindEmbedded:
		return h.Frame != nil
	default:
		return false
	}
}

// Registry maps slide index to the handle of its mounted media element.
// Slides register on mount and clear on unmount; the registry never owns the
// elements' lifetime.
type Registry struct {
	handles map[int]Handle
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handles: make(map[int]Handle)}
}

// Set registers h for index, replacing any previous handle.
func (r *Registry) Set(index int, h Handle) {
	r.handles[index] = h
}

// Clear forgets the handle for index.
func (r *Registry) Clear(index int) {
	delete(r.handles, index)
}

// Get returns the handle for index.
func (r *Registry) Get(index int) (Handle, bool) {
	h, ok := r.handles[index]
	return h, ok
}

// Len returns the number of registered slides.
func (r *Registry) Len() int {
	return len(r.handles)
}

// Reset forgets every handle.
func (r *Registry) Reset() {
	r.handles = make(map[int]Handle)
}

// Each calls fn for every registered slide in ascending index order.
func (r *Registry) Each(fn func(index int, h Handle)) {
	indexes := make([]int, 0, len(r.handles))
	for i := range r.handles {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	for _, i := range indexes {
		fn(i, r.handles[i])
	}
}
