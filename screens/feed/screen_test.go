package feed

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"

	"zooo-feed/pkg/localstore"
	"zooo-feed/pkg/media/mediatest"
	"zooo-feed/pkg/playback"
	"zooo-feed/pkg/session"
	"zooo-feed/pkg/sharedTypes"
)

type fakeClip struct {
	*mediatest.Player
	url    string
	closed atomic.Bool
}

func (c *fakeClip) SetRenderer(*sdl.Renderer) error    { return nil }
func (c *fakeClip) Update() error                      { return nil }
func (c *fakeClip) Draw(*sdl.Renderer, sdl.Rect) error { return nil }
func (c *fakeClip) Close() error                       { c.closed.Store(true); return nil }

type opener struct {
	mu    sync.Mutex
	clips map[string]*fakeClip
	fail  map[string]bool
	gate  chan struct{} // when set, opens wait for it to close
}

func newOpener() *opener {
	return &opener{clips: make(map[string]*fakeClip), fail: make(map[string]bool)}
}

func (o *opener) open(url string) (Clip, error) {
	if o.gate != nil {
		<-o.gate
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.fail[url] {
		return nil, errors.New("unreachable")
	}
	c := &fakeClip{Player: mediatest.NewPlayer(), url: url}
	o.clips[url] = c
	return c, nil
}

func (o *opener) clip(name string) *fakeClip {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clips[cdn(name)]
}

// cdn turns a bare clip name into an absolute URL.
func cdn(name string) string {
	if strings.Contains(name, "://") {
		return name
	}
	return "https://cdn.example.com/" + name
}

func videos(names ...string) []sharedTypes.VideoRecord {
	out := make([]sharedTypes.VideoRecord, len(names))
	for i, n := range names {
		out[i] = sharedTypes.VideoRecord{ID: n, Title: n, VideoURL: cdn(n)}
	}
	return out
}

// settle runs Update until cond holds.
func settle(t *testing.T, s *FeedScreen, cond func() bool) {
	t.Helper()
	require.Eventually(t, func() bool {
		require.NoError(t, s.Update(nil))
		return cond()
	}, 2*time.Second, 5*time.Millisecond)
}

func newScreen(t *testing.T, o *opener, clock clockwork.Clock, list []sharedTypes.VideoRecord, width int) *FeedScreen {
	t.Helper()
	store := session.New(localstore.NewMemory(), clock, nil)
	s := NewFeedScreen(Options{
		Videos:  list,
		Session: store,
		Open:    o.open,
		Width:   width,
		Height:  900,
		Clock:   clock,
	})
	t.Cleanup(s.Close)
	return s
}

func TestMountsLiveWindowAndPlaysActive(t *testing.T) {
	o := newOpener()
	s := newScreen(t, o, clockwork.NewFakeClock(), videos("a.mp4", "b.mp4", "c.mp4"), 800)

	settle(t, s, func() bool { return len(s.slides) == 2 })

	a, b := o.clip("a.mp4"), o.clip("b.mp4")
	require.NotNil(t, a)
	require.NotNil(t, b)
	require.Nil(t, o.clip("c.mp4"), "slides outside the live window are not opened")

	require.True(t, a.Playing)
	require.True(t, a.Looping)
	require.Equal(t, playback.SeekOffset, a.Position)
	require.True(t, b.Silenced())
}

func TestWheelMovesAfterCarouselSettles(t *testing.T) {
	clock := clockwork.NewFakeClock()
	o := newOpener()
	s := newScreen(t, o, clock, videos("a.mp4", "b.mp4", "c.mp4"), 1280)
	settle(t, s, func() bool { return len(s.slides) == 2 })

	require.True(t, s.HandleEvent(&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1}))
	require.Equal(t, 0, s.ctrl.Active(), "commit waits for the carousel")

	clock.Advance(time.Second)
	settle(t, s, func() bool { return o.clip("c.mp4") != nil && s.slides[2] != nil })

	require.Equal(t, 1, s.ctrl.Active())
	require.True(t, o.clip("a.mp4").Silenced())
	require.True(t, o.clip("b.mp4").Playing)
}

func TestWheelIgnoredOnNarrowWindow(t *testing.T) {
	s := newScreen(t, newOpener(), clockwork.NewFakeClock(), videos("a.mp4", "b.mp4"), 800)
	require.False(t, s.HandleEvent(&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1}))
}

func TestSwipeUpAdvances(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := newScreen(t, newOpener(), clock, videos("a.mp4", "b.mp4"), 800)

	s.HandleEvent(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 100, Y: 600})
	s.HandleEvent(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 100, Y: 400})
	s.HandleEvent(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT, X: 100, Y: 300})

	clock.Advance(time.Second)
	require.NoError(t, s.Update(nil))
	require.Equal(t, 1, s.ctrl.Active())
}

func TestTapUnmutesActive(t *testing.T) {
	o := newOpener()
	s := newScreen(t, o, clockwork.NewFakeClock(), videos("a.mp4", "b.mp4"), 800)
	settle(t, s, func() bool { return len(s.slides) == 2 })

	s.HandleEvent(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 100, Y: 300})
	s.HandleEvent(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_LEFT, X: 102, Y: 301})

	require.False(t, o.clip("a.mp4").Muted)
	require.True(t, o.clip("b.mp4").Muted)
}

func TestEmbeddedSlideHasNoSourceWhileInactive(t *testing.T) {
	o := newOpener()
	s := newScreen(t, o, clockwork.NewFakeClock(), videos("a.mp4", "https://example.com/embed/2"), 800)
	settle(t, s, func() bool { return len(s.slides) == 2 })

	card := s.slides[1].card
	require.NotNil(t, card)
	require.Empty(t, card.Source())
}

func TestOpenFailureLeavesPlaceholder(t *testing.T) {
	o := newOpener()
	o.fail[cdn("a.mp4")] = true
	s := newScreen(t, o, clockwork.NewFakeClock(), videos("a.mp4", "b.mp4"), 800)
	settle(t, s, func() bool { return len(s.slides) == 2 })

	require.True(t, s.slides[0].failed)
	require.NotNil(t, s.slides[1].clip)
}

func TestResolveRunsBeforeOpen(t *testing.T) {
	o := newOpener()
	s := NewFeedScreen(Options{
		Videos: videos("s3://bucket/a.mp4"),
		Open:   o.open,
		Resolve: func(_ context.Context, url string) (string, error) {
			return "https://signed.example.com/a.mp4", nil
		},
		Width:  800,
		Height: 900,
		Clock:  clockwork.NewFakeClock(),
	})
	t.Cleanup(s.Close)

	settle(t, s, func() bool { return s.slides[0] != nil })
	require.NotNil(t, o.clip("https://signed.example.com/a.mp4"))
}

func TestRefreshReplacesAndClosesPlayers(t *testing.T) {
	o := newOpener()
	updates := make(chan []sharedTypes.VideoRecord, 1)
	s := NewFeedScreen(Options{
		Videos:  videos("a.mp4", "b.mp4"),
		Open:    o.open,
		Updates: updates,
		Width:   800,
		Height:  900,
		Clock:   clockwork.NewFakeClock(),
	})
	t.Cleanup(s.Close)
	settle(t, s, func() bool { return len(s.slides) == 2 })

	updates <- videos("x.mp4")
	settle(t, s, func() bool { return o.clip("x.mp4") != nil && s.slides[0] != nil && s.slides[0].clip != nil })

	require.True(t, o.clip("a.mp4").closed.Load())
	require.True(t, o.clip("b.mp4").closed.Load())
	require.Equal(t, 1, s.ctrl.Len())
	require.True(t, o.clip("x.mp4").Playing)
}

func TestCloseReleasesPlayers(t *testing.T) {
	o := newOpener()
	s := NewFeedScreen(Options{
		Videos: videos("a.mp4"),
		Open:   o.open,
		Width:  800,
		Height: 900,
		Clock:  clockwork.NewFakeClock(),
	})
	settle(t, s, func() bool { return s.slides[0] != nil })

	s.Close()
	require.True(t, o.clip("a.mp4").closed.Load())
	require.Empty(t, s.slides)
}

func TestCloseReleasesPlayersOpenedLate(t *testing.T) {
	o := newOpener()
	o.gate = make(chan struct{})
	names := []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4", "f.mp4"}
	s := NewFeedScreen(Options{
		Videos: videos(names...),
		Open:   o.open,
		Width:  800,
		Height: 900,
		Clock:  clockwork.NewFakeClock(),
	})
	require.NoError(t, s.Update(nil))
	pending := len(s.opening)
	require.NotZero(t, pending)

	s.Close()
	close(o.gate)

	require.Eventually(t, func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		if len(o.clips) != pending {
			return false
		}
		for _, c := range o.clips {
			if !c.closed.Load() {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond)
}
