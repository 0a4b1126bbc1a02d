package feed

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	feedctl "zooo-feed/pkg/feed"
	"zooo-feed/pkg/input"
	"zooo-feed/pkg/input/keys"
	"zooo-feed/pkg/media"
	"zooo-feed/pkg/performance"
	"zooo-feed/pkg/sharedTypes"
	"zooo-feed/pkg/video"
	"zooo-feed/pkg/viewport"
	"zooo-feed/ui"
	"zooo-feed/widgets/carousel"
	"zooo-feed/widgets/embed"
)

// Clip is a native player as the screen drives it.
type Clip interface {
	media.NativePlayer
	SetRenderer(renderer *sdl.Renderer) error
	Update() error
	Draw(renderer *sdl.Renderer, dst sdl.Rect) error
	Close() error
}

// Opener opens a clip. It blocks and runs on a background goroutine.
type Opener func(url string) (Clip, error)

// Resolver turns a feed URL into one the player can open, for example by
// presigning s3:// URLs.
type Resolver func(ctx context.Context, url string) (string, error)

// Options configure a FeedScreen.
type Options struct {
	Videos   []sharedTypes.VideoRecord
	Session  feedctl.Session
	Prefetch feedctl.Prefetcher
	Updates  <-chan []sharedTypes.VideoRecord
	Open     Opener
	Resolve  Resolver
	Fonts    *ui.Fonts
	Width    int
	Height   int
	Clock    clockwork.Clock
	Log      logrus.FieldLogger
}

type FeedScreen struct {
	ctrl     *feedctl.Controller
	tracker  *viewport.Tracker
	carousel *carousel.Carousel
	swipe    *input.Swipe
	keyboard keys.KeyPressTracker
	monitor  *performance.FrameMonitor
	skipper  *video.FrameSkipper
	log      logrus.FieldLogger

	open    Opener
	resolve Resolver
	updates <-chan []sharedTypes.VideoRecord

	renderer *sdl.Renderer
	fonts    *ui.Fonts

	// mounted slides by index
	slides map[int]*slide

	// Background player opens
	openResultCh chan openResult
	done         chan struct{} // closed by Close; abandons pending opens
	opens        sync.WaitGroup
	opening      map[int]bool
	generation   uint64 // bumped whenever the video list is replaced

	lastUpdate time.Time
	frames     int
}

// slide is the media mounted for one index. Exactly one of clip, card is set
// once it is ready; failed slides draw a placeholder.
type slide struct {
	clip   Clip
	card   *embed.Widget
	failed bool
}

// Struct used to communicate results of background player opens.
type openResult struct {
	index      int
	generation uint64
	clip       Clip
	err        error
	took       time.Duration
}
