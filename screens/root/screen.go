// Package root is the top-level screen: window chrome on top, the feed
// below it.
package root

import (
	"context"
	"math"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"zooo-feed/pkg/sharedTypes"
	"zooo-feed/ui"
	"zooo-feed/widgets/chrome"
)

// NewRootScreen creates the root screen and starts loading the feed.
func NewRootScreen(window *sdl.Window, renderer *sdl.Renderer, opts Options) *RootScreen {
	logger := opts.Log
	if logger == nil {
		logger = log.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())

	rs := &RootScreen{
		window:     window,
		renderer:   renderer,
		chrome:     chrome.NewWindow(window, opts.Fullscreen),
		title:      opts.Title,
		newFeed:    opts.NewFeed,
		loadCh:     make(chan []sharedTypes.VideoRecord, 1),
		loadCancel: cancel,
		log:        logger.WithField("component", "root"),
	}

	fonts, err := ui.LoadFonts()
	if err != nil {
		log.Printf("Warning: Failed to initialize fonts: %v", err)
	}
	rs.fonts = fonts

	rs.chrome.OnToggleTitlebar(func(visible bool) {
		rs.log.WithField("titlebar", visible).Debug("titlebar toggled")
		rs.resizeFeed()
	})

	go func() {
		var videos []sharedTypes.VideoRecord
		if opts.Load != nil {
			videos = opts.Load(ctx)
		}
		rs.loadCh <- videos
	}()

	return rs
}

// contentRect is the part of the window below the titlebar.
func (rs *RootScreen) contentRect() sdl.Rect {
	w, h := rs.window.GetSize()
	var top int32
	if rs.chrome.TitlebarVisible() {
		top = chrome.BarHeight
	}
	return sdl.Rect{X: 0, Y: top, W: w, H: h - top}
}

func (rs *RootScreen) resizeFeed() {
	if rs.feed == nil {
		return
	}
	r := rs.contentRect()
	rs.feed.Resize(int(r.W), int(r.H))
}

// Update handles SDL2 input and updates screen state
func (rs *RootScreen) Update() error {
	rs.handleLoadResult()
	if rs.feed == nil {
		return nil
	}
	return rs.feed.Update(sdl.GetKeyboardState())
}

// handleLoadResult builds the feed once the initial list arrives
func (rs *RootScreen) handleLoadResult() {
	select {
	case videos := <-rs.loadCh:
		r := rs.contentRect()
		rs.feed = rs.newFeed(videos, int(r.W), int(r.H))
		rs.feed.SetFonts(rs.fonts)
		if err := rs.feed.SetRenderer(rs.renderer); err != nil {
			log.Printf("Warning: Failed to set renderer for feed: %v", err)
		}
	default:
		// Still loading
	}
}

// HandleEvent routes one SDL event. Window keys and titlebar clicks are
// handled here; everything else goes to the feed.
func (rs *RootScreen) HandleEvent(event sdl.Event) {
	switch e := event.(type) {
	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED || e.Event == sdl.WINDOWEVENT_RESIZED {
			rs.resizeFeed()
		}
		return

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return
		}
		switch e.Keysym.Sym {
		case sdl.K_F11:
			rs.chrome.ToggleFullscreen()
		case sdl.K_ESCAPE:
			if rs.chrome.Fullscreen() {
				rs.chrome.ToggleFullscreen()
				return
			}
			rs.chrome.Close()
		}
		return

	case *sdl.MouseButtonEvent:
		w, _ := rs.window.GetSize()
		if e.Type == sdl.MOUSEBUTTONDOWN && rs.chrome.Click(e.X, e.Y, w) {
			return
		}
		moved := *e
		moved.Y -= rs.contentRect().Y
		event = &moved

	case *sdl.MouseMotionEvent:
		moved := *e
		moved.Y -= rs.contentRect().Y
		event = &moved
	}

	if rs.feed != nil {
		rs.feed.HandleEvent(event)
	}
}

// Draw renders the complete frame using SDL2
func (rs *RootScreen) Draw() error {
	w, h := rs.window.GetSize()

	rs.renderer.SetDrawColor(0, 0, 0, 255)
	rs.renderer.Clear()

	content := rs.contentRect()
	if rs.feed != nil {
		rs.renderer.SetViewport(&content)
		err := rs.feed.Draw(rs.renderer, content.W, content.H)
		rs.renderer.SetViewport(nil)
		if err != nil {
			return err
		}
	} else {
		rs.drawLoadingIcon(w, h)
	}

	rs.chrome.Render(rs.renderer, w, rs.title, rs.fonts)

	rs.renderer.Present()
	return nil
}

// drawLoadingIcon draws a spinner in the middle of the window
func (rs *RootScreen) drawLoadingIcon(screenWidth, screenHeight int32) {
	iconSize := int32(48)
	centerX := screenWidth / 2
	centerY := screenHeight / 2

	angle := float64(time.Now().UnixMilli()/50) * 0.1

	for i := 0; i < 8; i++ {
		segmentAngle := angle + float64(i)*math.Pi/4

		radius := float64(iconSize / 2)
		x1 := centerX + int32(radius*0.6*math.Cos(segmentAngle))
		y1 := centerY + int32(radius*0.6*math.Sin(segmentAngle))
		x2 := centerX + int32(radius*math.Cos(segmentAngle))
		y2 := centerY + int32(radius*math.Sin(segmentAngle))

		opacity := uint8(255 * (float64(i) + 1) / 8)
		rs.renderer.SetDrawColor(255, 255, 255, opacity)

		for thickness := int32(0); thickness < 3; thickness++ {
			rs.renderer.DrawLine(x1+thickness, y1, x2+thickness, y2)
			rs.renderer.DrawLine(x1, y1+thickness, x2, y2+thickness)
		}
	}
}

// Close cleans up resources
func (rs *RootScreen) Close() {
	rs.loadCancel()
	if rs.feed != nil {
		rs.feed.Close()
	}
	if rs.fonts != nil {
		rs.fonts.Close()
	}
}
