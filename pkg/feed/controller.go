// Package feed holds the position state machine of the video feed: which
// slide is active, how gestures move it, and what happens on every move.
package feed

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"zooo-feed/pkg/geometry"
	"zooo-feed/pkg/input"
	"zooo-feed/pkg/media"
	"zooo-feed/pkg/playback"
	"zooo-feed/pkg/sharedTypes"
	"zooo-feed/pkg/viewport"
)

// Lookahead is how many slides on each side of the active one stay mounted.
const Lookahead = 1

// Session persists the active index.
type Session interface {
	Restore() int
	Save(index int)
}

// Prefetcher warms upcoming slides.
type Prefetcher interface {
	Schedule(index int, url string)
	Cancel()
}

// Navigator animates the carousel to a slide and reports back through
// Controller.Settle once it comes to rest.
type Navigator interface {
	SlideTo(index int)
}

// Options wire a Controller to its collaborators. Only Session is required
// for persistence; everything else may be nil.
type Options struct {
	Session   Session
	Prefetch  Prefetcher
	Navigator Navigator
	OnChange  func(index int)
	Registry  *media.Registry
	Viewport  viewport.Snapshot
	Geometry  geometry.Params
	Clock     clockwork.Clock
	WheelGap  time.Duration
	Log       logrus.FieldLogger
}

// Controller is driven from the UI loop and is not safe for concurrent use.
type Controller struct {
	videos   []sharedTypes.VideoRecord
	active   int
	session  Session
	prefetch Prefetcher
	nav      Navigator
	onChange func(int)
	reg      *media.Registry
	slides   map[int]*playback.Slide
	ready    map[int]bool
	vp       viewport.Snapshot
	params   geometry.Params
	wheel    *input.WheelGesture
	log      logrus.FieldLogger
	closed   bool
}

// SlideView describes how one slide should be rendered.
type SlideView struct {
	Index    int
	Video    sharedTypes.VideoRecord
	Kind     media.Kind
	Active   bool
	Live     bool
	Source   string
	Autoplay bool
	Loop     bool
	Muted    bool
	Width    int
	Height   int
	// OpenHint shows the "tap the title to open the page" hint.
	OpenHint bool
}

// New restores the saved position, silences everything but the active slide
// and schedules the first prefetch.
func New(videos []sharedTypes.VideoRecord, opts Options) *Controller {
	if opts.Registry == nil {
		opts.Registry = media.NewRegistry()
	}
	if opts.Geometry.AspectRatio <= 0 {
		opts.Geometry = geometry.DefaultParams
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	c := &Controller{
		videos:   videos,
		session:  opts.Session,
		prefetch: opts.Prefetch,
		nav:      opts.Navigator,
		onChange: opts.OnChange,
		reg:      opts.Registry,
		slides:   make(map[int]*playback.Slide),
		ready:    make(map[int]bool),
		vp:       opts.Viewport,
		params:   opts.Geometry,
		wheel:    input.NewWheelGesture(opts.Clock, opts.WheelGap),
		log:      opts.Log.WithField("component", "feed"),
	}

	if c.session != nil {
		c.active = c.session.Restore()
	}
	if !c.inBounds(c.active) {
		if c.active != 0 {
			c.log.WithField("index", c.active).Info("saved position out of range, starting over")
		}
		c.active = 0
	}

	playback.Enforce(c.reg, c.active)
	c.schedulePrefetch()
	return c
}

// Active returns the active index.
func (c *Controller) Active() int { return c.active }

// Len returns the number of videos.
func (c *Controller) Len() int { return len(c.videos) }

// Video returns the record at i.
func (c *Controller) Video(i int) (sharedTypes.VideoRecord, bool) {
	if !c.inBounds(i) {
		return sharedTypes.VideoRecord{}, false
	}
	return c.videos[i], true
}

// Registry exposes the media registry for the screen.
func (c *Controller) Registry() *media.Registry { return c.reg }

// Viewport returns the current viewport snapshot.
func (c *Controller) Viewport() viewport.Snapshot { return c.vp }

// SetViewport replaces the viewport snapshot used for wheel gating and
// geometry.
func (c *Controller) SetViewport(vp viewport.Snapshot) { c.vp = vp }

// Settle commits the slide the carousel came to rest on.
func (c *Controller) Settle(n int) {
	if c.closed || !c.inBounds(n) || n == c.active {
		return
	}
	c.commit(n)
}

// Wheel handles a mouse wheel event. Only vertical gestures on a desktop
// sized viewport move the feed, one slide per gesture. It reports whether a
// move was requested.
func (c *Controller) Wheel(dx, dy float64) bool {
	if c.closed || c.vp.Mode != viewport.Desktop {
		return false
	}
	if abs(dy) <= abs(dx) {
		return false
	}
	if !c.wheel.Begin() {
		return false
	}
	if dy > 0 {
		return c.navigate(c.active + 1)
	}
	return c.navigate(c.active - 1)
}

// Step moves by delta slides (keyboard and swipe navigation).
func (c *Controller) Step(delta int) bool {
	if c.closed || delta == 0 {
		return false
	}
	return c.navigate(c.active + delta)
}

func (c *Controller) navigate(target int) bool {
	if len(c.videos) == 0 {
		return false
	}
	target = clamp(target, 0, len(c.videos)-1)
	if target == c.active {
		return false
	}
	if c.nav != nil {
		c.nav.SlideTo(target)
		return true
	}
	c.commit(target)
	return true
}

func (c *Controller) commit(n int) {
	prev := c.active
	if s := c.slides[prev]; s != nil {
		s.Deactivate()
	}
	c.active = n

	playback.Enforce(c.reg, n)
	c.activate(n)
	if c.session != nil {
		c.session.Save(n)
	}
	if c.onChange != nil {
		c.onChange(n)
	}
	c.schedulePrefetch()

	c.log.WithFields(logrus.Fields{"from": prev, "to": n}).Debug("slide changed")
}

// activate starts the active slide's media if it is mounted.
func (c *Controller) activate(n int) {
	h, ok := c.reg.Get(n)
	if !ok || !h.Valid() {
		return
	}
	switch h.Kind {
	case media.KindNative:
		s := c.slide(n)
		if err := s.Activate(h.Native, c.ready[n]); err != nil {
			c.log.WithError(err).WithField("index", n).Warn("autoplay refused")
		}
	case media.KindEmbedded:
		if h.Frame.Source() == "" {
			h.Frame.SetSource(c.videos[n].VideoURL)
		}
	}
}

func (c *Controller) slide(n int) *playback.Slide {
	s := c.slides[n]
	if s == nil {
		s = playback.NewSlide(c.videos[n].VideoURL)
		c.slides[n] = s
	}
	return s
}

func (c *Controller) schedulePrefetch() {
	if c.prefetch == nil {
		return
	}
	next := c.active + 1
	if !c.inBounds(next) {
		c.prefetch.Cancel()
		return
	}
	c.prefetch.Schedule(next, c.videos[next].VideoURL)
}

// Mount registers the media of slide i. Inactive media is silenced right
// away; active media starts playing.
func (c *Controller) Mount(i int, h media.Handle) {
	if c.closed || !c.inBounds(i) || !h.Valid() {
		return
	}
	c.reg.Set(i, h)
	playback.Enforce(c.reg, c.active)
	if i == c.active {
		c.activate(i)
	}
}

// Unmount forgets the media of slide i.
func (c *Controller) Unmount(i int) {
	c.reg.Clear(i)
	if s := c.slides[i]; s != nil {
		s.Deactivate()
	}
	delete(c.slides, i)
	delete(c.ready, i)
}

// MetadataLoaded tells the controller slide i's player knows its duration,
// so a pending start offset seek can run.
func (c *Controller) MetadataLoaded(i int) {
	h, ok := c.reg.Get(i)
	if !ok || h.Kind != media.KindNative || h.Native == nil {
		return
	}
	c.ready[i] = true
	if s := c.slides[i]; s != nil {
		s.MetadataLoaded(h.Native)
	}
}

// Tap is the user tapping slide i. The first tap on the active native slide
// unmutes it.
func (c *Controller) Tap(i int) {
	if i != c.active {
		return
	}
	h, ok := c.reg.Get(i)
	if !ok || h.Kind != media.KindNative || h.Native == nil {
		return
	}
	if err := c.slide(i).Tap(h.Native); err != nil {
		c.log.WithError(err).WithField("index", i).Warn("play after tap failed")
	}
}

// Replace swaps in a refreshed list of videos. The caller must have disposed
// of the media it mounted for the old list.
func (c *Controller) Replace(videos []sharedTypes.VideoRecord) {
	if c.closed {
		return
	}
	c.videos = videos
	c.reg.Reset()
	c.slides = make(map[int]*playback.Slide)
	c.ready = make(map[int]bool)

	if !c.inBounds(c.active) {
		c.active = 0
		if c.session != nil {
			c.session.Save(0)
		}
		if c.onChange != nil {
			c.onChange(0)
		}
	}
	playback.Enforce(c.reg, c.active)
	c.schedulePrefetch()
}

// Live reports whether slide i should have its media mounted.
func (c *Controller) Live(i int) bool {
	return c.inBounds(i) && abs(float64(i-c.active)) <= Lookahead
}

// View describes slide i for rendering.
func (c *Controller) View(i int) (SlideView, bool) {
	if !c.inBounds(i) {
		return SlideView{}, false
	}
	v := c.videos[i]
	active := i == c.active
	w, h := geometry.Frame(c.vp, c.params)

	view := SlideView{
		Index:  i,
		Video:  v,
		Kind:   media.KindEmbedded,
		Active: active,
		Live:   c.Live(i),
		Muted:  true,
		Width:  w,
		Height: h,
	}
	if v.IsDirectMedia() {
		view.Kind = media.KindNative
		view.Source = v.VideoURL
		view.Autoplay = active
		view.Loop = active
		if s := c.slides[i]; s != nil && s.Tapped() {
			view.Muted = false
		}
		return view, true
	}
	if active {
		view.Source = v.VideoURL
		view.OpenHint = true
	}
	return view, true
}

// Close stops background work. The controller ignores input afterwards.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	if c.prefetch != nil {
		c.prefetch.Cancel()
	}
}

func (c *Controller) inBounds(i int) bool { return i >= 0 && i < len(c.videos) }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
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
