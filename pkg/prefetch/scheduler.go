// Package prefetch warms the slide after the active one so it starts
// without a network stall.
package prefetch

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"zooo-feed/pkg/performance"
)

const (
	DefaultDelay = 250 * time.Millisecond
	DefaultHold  = 5 * time.Second
)

// Resource is something a warmer produced and must give back.
type Resource interface {
	Release() error
}

// Warmer fetches enough of url to make opening it later cheap.
type Warmer interface {
	Warm(ctx context.Context, url string) (Resource, error)
}

// Options configure a Scheduler. Zero values pick the defaults.
type Options struct {
	Delay    time.Duration
	Hold     time.Duration
	Clock    clockwork.Clock
	Pressure performance.PressureProbe
	Log      logrus.FieldLogger
}

// held is a warmed resource and the URL it was warmed for.
type held struct {
	url string
	res Resource
}

type task struct {
	index  int
	url    string
	timer  clockwork.Timer
	ctx    context.Context
	cancel context.CancelFunc
}

// Scheduler runs at most one pending warm-up at a time. Scheduling a new
// index supersedes the previous task; warmed resources are held for a while
// and released when they expire.
type Scheduler struct {
	warmer   Warmer
	clock    clockwork.Clock
	delay    time.Duration
	pressure performance.PressureProbe
	log      logrus.FieldLogger
	warmed   *cache.Cache

	mu      sync.Mutex
	pending *task
	closed  bool
	wg      sync.WaitGroup
}

// New creates a scheduler around warmer.
func New(warmer Warmer, opts Options) *Scheduler {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.Hold <= 0 {
		opts.Hold = DefaultHold
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}

	s := &Scheduler{
		warmer:   warmer,
		clock:    opts.Clock,
		delay:    opts.Delay,
		pressure: opts.Pressure,
		log:      opts.Log.WithField("component", "prefetch"),
		warmed:   cache.New(opts.Hold, opts.Hold/2),
	}
	s.warmed.OnEvicted(func(key string, v interface{}) {
		if h, ok := v.(held); ok {
			if err := h.res.Release(); err != nil {
				s.log.WithError(err).WithField("index", key).Warn("release failed")
			}
		}
	})
	return s
}

// Schedule arms a warm-up of url for the slide at index after the delay.
// Any task for another index is cancelled first.
func (s *Scheduler) Schedule(index int, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || url == "" {
		return
	}
	if p := s.pending; p != nil {
		if p.index == index && p.url == url {
			return
		}
		s.cancelLocked()
	}
	if v, ok := s.warmed.Get(key(index)); ok && v.(held).url == url {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{index: index, url: url, ctx: ctx, cancel: cancel}
	s.wg.Add(1)
	t.timer = s.clock.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.run(t)
	})
	s.pending = t
}

// Cancel drops the pending task, if any.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

// Pending returns the index of the pending task.
func (s *Scheduler) Pending() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return 0, false
	}
	return s.pending.index, true
}

// Warmed reports whether a resource for index is being held.
func (s *Scheduler) Warmed(index int) bool {
	_, ok := s.warmed.Get(key(index))
	return ok
}

// Held is the number of resources currently held.
func (s *Scheduler) Held() int {
	return s.warmed.ItemCount()
}

// Close cancels pending work and releases every held resource.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.cancelLocked()
	s.mu.Unlock()

	s.wg.Wait()
	s.warmed.DeleteExpired()
	for k := range s.warmed.Items() {
		s.warmed.Delete(k)
	}
}

func (s *Scheduler) cancelLocked() {
	p := s.pending
	if p == nil {
		return
	}
	s.pending = nil
	p.cancel()
	if p.timer.Stop() {
		s.wg.Done()
	}
	s.log.WithField("index", p.index).Debug("prefetch superseded")
}

func (s *Scheduler) run(t *task) {
	if t.ctx.Err() != nil {
		return
	}
	if s.pressure != nil {
		if level := s.pressure(); level.Starved() {
			s.log.WithField("pressure", level.String()).Debug("prefetch skipped")
			s.finish(t)
			return
		}
	}

	res, err := s.warmer.Warm(t.ctx, t.url)
	if err != nil {
		if t.ctx.Err() == nil {
			s.log.WithError(err).WithField("index", t.index).Warn("prefetch failed")
		}
		s.finish(t)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ctx.Err() != nil || s.closed {
		_ = res.Release()
		return
	}
	if s.pending == t {
		s.pending = nil
	}
	k := key(t.index)
	s.warmed.Delete(k)
	s.warmed.SetDefault(k, held{url: t.url, res: res})
	s.log.WithField("index", t.index).Debug("prefetched")
}

func (s *Scheduler) finish(t *task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == t {
		s.pending = nil
	}
}

func key(index int) string { return strconv.Itoa(index) }
