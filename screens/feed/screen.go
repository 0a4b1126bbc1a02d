// Package feed is the vertical video feed screen: a full-height carousel of
// slides, one playing at a time.
package feed

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	feedctl "zooo-feed/pkg/feed"
	"zooo-feed/pkg/input"
	"zooo-feed/pkg/input/keys"
	"zooo-feed/pkg/performance"
	"zooo-feed/pkg/sharedTypes"
	"zooo-feed/pkg/video"
	"zooo-feed/pkg/viewport"
	"zooo-feed/ui"
	"zooo-feed/widgets/carousel"
)

const (
	// swipeThreshold is the drag distance that turns into a slide change.
	swipeThreshold = 60
	// reportEvery is how many frames pass between performance reports.
	reportEvery    = 600
	resolveTimeout = 15 * time.Second
)

// NewFeedScreen builds the screen and restores the saved position. Players
// for the live slides open on the first Update.
func NewFeedScreen(opts Options) *FeedScreen {
	logger := opts.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	if opts.Resolve == nil {
		opts.Resolve = func(_ context.Context, url string) (string, error) { return url, nil }
	}

	s := &FeedScreen{
		tracker:      viewport.NewTracker(opts.Width, opts.Height),
		swipe:        input.NewSwipe(swipeThreshold),
		keyboard:     keys.NewKeyPressTracker(),
		monitor:      performance.NewFrameMonitor(120, time.Second/30),
		skipper:      video.NewFrameSkipper(),
		log:          logger.WithField("component", "feed-screen"),
		open:         opts.Open,
		resolve:      opts.Resolve,
		updates:      opts.Updates,
		fonts:        opts.Fonts,
		slides:       make(map[int]*slide),
		openResultCh: make(chan openResult, 4),
		done:         make(chan struct{}),
		opening:      make(map[int]bool),
	}

	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	s.carousel = carousel.New(opts.Clock, len(opts.Videos))
	s.ctrl = feedctl.New(opts.Videos, feedctl.Options{
		Session:   opts.Session,
		Prefetch:  opts.Prefetch,
		Navigator: s.carousel,
		Viewport:  s.tracker.Snapshot(),
		Clock:     opts.Clock,
		OnChange:  func(int) { s.skipper.Reset() },
		Log:       logger,
	})
	s.carousel.Reset(s.ctrl.Len(), s.ctrl.Active())
	s.carousel.OnSettle = s.ctrl.Settle
	s.tracker.Subscribe(s.ctrl.SetViewport)

	s.log.WithFields(log.Fields{
		"videos": s.ctrl.Len(),
		"active": s.ctrl.Active(),
	}).Info("feed ready")
	return s
}

// Controller exposes the feed state machine.
func (s *FeedScreen) Controller() *feedctl.Controller { return s.ctrl }

// SetRenderer configures the SDL2 renderer used for player textures.
func (s *FeedScreen) SetRenderer(renderer *sdl.Renderer) error {
	s.renderer = renderer
	for _, sl := range s.slides {
		if sl.clip != nil {
			if err := sl.clip.SetRenderer(renderer); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetFonts sets the fonts used for titles and hints.
func (s *FeedScreen) SetFonts(fonts *ui.Fonts) { s.fonts = fonts }

// Resize records a new window size.
func (s *FeedScreen) Resize(width, height int) {
	if s.tracker.Update(width, height) {
		s.log.WithField("viewport", s.tracker.Snapshot().Mode).Debug("viewport changed")
	}
}

// Update advances animations and playback and applies finished background
// work. keyState may be nil when another screen has focus.
func (s *FeedScreen) Update(keyState []uint8) error {
	now := time.Now()
	if !s.lastUpdate.IsZero() {
		s.monitor.RecordFrame(now.Sub(s.lastUpdate))
	}
	s.lastUpdate = now

	s.handleFeedUpdates()
	s.handleOpenResults()

	if keyState != nil {
		if delta := s.keyboard.Step(keyState); delta != 0 {
			s.ctrl.Step(delta)
		}
	}

	s.carousel.Update()
	s.syncMounts()

	if s.skipper.ShouldAdvance(s.monitor.Report()) {
		s.advanceClips()
	}

	s.frames++
	if s.frames%reportEvery == 0 {
		s.report()
	}
	return nil
}

// advanceClips steps every mounted clip. A clip that fails is replaced by a
// placeholder.
func (s *FeedScreen) advanceClips() {
	for i, sl := range s.slides {
		if sl.clip == nil {
			continue
		}
		if err := sl.clip.Update(); err != nil {
			log.Printf("feed: slide %d playback failed: %v", i, err)
			s.ctrl.Unmount(i)
			sl.clip.Close()
			sl.clip = nil
			sl.failed = true
		}
	}
}

func (s *FeedScreen) report() {
	r := s.monitor.Report()
	entry := s.log.WithFields(log.Fields{
		"avg_frame_ms": r.AvgFrameMs,
		"avg_open_ms":  r.AvgOpenMs,
		"slow_frames":  r.SlowFrames,
		"frames":       r.Frames,
	})
	if r.Healthy {
		entry.Debug("frame report")
	} else {
		entry.Warn("frame budget exceeded")
		performance.LogMemorySnapshot(s.log)
	}
	s.monitor.Reset()
}

// handleFeedUpdates applies a refreshed video list.
func (s *FeedScreen) handleFeedUpdates() {
	select {
	case videos := <-s.updates:
		s.replace(videos)
	default:
		// No refreshed list available
	}
}

func (s *FeedScreen) replace(videos []sharedTypes.VideoRecord) {
	for i := range s.slides {
		s.dispose(i)
	}
	s.generation++
	s.opening = make(map[int]bool)
	s.ctrl.Replace(videos)
	s.carousel.Reset(s.ctrl.Len(), s.ctrl.Active())
	log.Printf("feed: replaced list with %d video(s), active %d", s.ctrl.Len(), s.ctrl.Active())
}

// HandleEvent routes pointer input to the feed. It reports whether the
// event was consumed.
func (s *FeedScreen) HandleEvent(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.MouseWheelEvent:
		dx, dy := float64(e.X), -float64(e.Y)
		if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
			dx, dy = -dx, -dy
		}
		return s.ctrl.Wheel(dx, dy)

	case *sdl.MouseButtonEvent:
		if e.Button != sdl.BUTTON_LEFT {
			return false
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			s.swipe.Down(int(e.X), int(e.Y))
			return true
		}
		return s.release(int(e.X), int(e.Y))

	case *sdl.MouseMotionEvent:
		if !s.swipe.Dragging() {
			return false
		}
		off := s.swipe.Move(int(e.X), int(e.Y))
		if h := s.tracker.Snapshot().Height; h > 0 {
			s.carousel.Drag(float64(off) / float64(h))
		}
		return true
	}
	return false
}

func (s *FeedScreen) release(x, y int) bool {
	if !s.swipe.Dragging() {
		return false
	}
	switch s.swipe.Up(x, y) {
	case input.SwipeNext:
		if !s.ctrl.Step(1) {
			s.carousel.Release()
		}
	case input.SwipePrevious:
		if !s.ctrl.Step(-1) {
			s.carousel.Release()
		}
	case input.Tap:
		s.carousel.Release()
		s.tap(int32(x), int32(y))
	default:
		s.carousel.Release()
	}
	return true
}

// tap opens the page of an embedded slide when its title is hit, and
// otherwise runs the first-tap gesture of the active slide.
func (s *FeedScreen) tap(x, y int32) {
	active := s.ctrl.Active()
	if sl := s.slides[active]; sl != nil && sl.card != nil {
		if sl.card.HitTitle(x, y) {
			if err := sl.card.Open(); err != nil {
				log.Printf("feed: failed to open page: %v", err)
			}
		}
		return
	}
	s.ctrl.Tap(active)
}

// Close stops background work and releases every player.
func (s *FeedScreen) Close() {
	select {
	case <-s.done:
		return
	default:
		close(s.done)
	}
	go s.drainOpens()
	s.ctrl.Close()
	for i := range s.slides {
		s.dispose(i)
	}
	s.generation++
}

// drainOpens closes players whose open finished after Close.
func (s *FeedScreen) drainOpens() {
	s.opens.Wait()
	for {
		select {
		case res := <-s.openResultCh:
			if res.clip != nil {
				res.clip.Close()
			}
		default:
			return
		}
	}
}
