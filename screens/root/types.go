package root

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"zooo-feed/pkg/sharedTypes"
	"zooo-feed/screens/feed"
	"zooo-feed/ui"
	"zooo-feed/widgets/chrome"
)

// Options configure the root screen.
type Options struct {
	Title      string
	Fullscreen bool
	// Load fetches the initial video list. It blocks and runs in the
	// background; failures are expected to come back as an empty list.
	Load func(ctx context.Context) []sharedTypes.VideoRecord
	// NewFeed builds the feed screen once the list is in.
	NewFeed func(videos []sharedTypes.VideoRecord, width, height int) *feed.FeedScreen
	Log     logrus.FieldLogger
}

// RootScreen hosts the window chrome and the feed
type RootScreen struct {
	feed *feed.FeedScreen

	// SDL2 rendering
	window   *sdl.Window
	renderer *sdl.Renderer

	// UI components
	fonts  *ui.Fonts
	chrome *chrome.Window
	title  string

	// Background initial load
	newFeed    func(videos []sharedTypes.VideoRecord, width, height int) *feed.FeedScreen
	loadCh     chan []sharedTypes.VideoRecord
	loadCancel context.CancelFunc

	log logrus.FieldLogger
}
