package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"zooo-feed/pkg/config"
	"zooo-feed/screens/root"
)

const (
	targetFPS = 60
	minWidth  = 800
	minHeight = 600
)

func main() {
	// SDL must stay on the main thread
	runtime.LockOSThread()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runShell opens the window and runs the feed until the window closes.
func runShell(cfg *config.Config, logger *log.Logger) error {
	deps, err := wire(cfg, logger)
	if err != nil {
		return err
	}
	defer deps.Close()

	if err := initializeSDL2(); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}
	defer func() {
		log.Println("Shutting down SDL2...")
		sdl.Quit()
	}()
	logDisplayInfo()

	window, err := createWindow(cfg)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer window.Destroy()

	renderer, err := createRenderer(window)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer renderer.Destroy()

	deps.Start()

	screen := root.NewRootScreen(window, renderer, root.Options{
		Title:      cfg.WindowTitle,
		Fullscreen: cfg.Fullscreen,
		Load:       deps.LoadFeed,
		NewFeed:    deps.NewFeedScreen,
		Log:        logger,
	})
	defer screen.Close()

	runLoop(screen)

	logger.Info("Zooo Feed shutting down...")
	return nil
}

// initializeSDL2 initializes SDL2, trying the configured video driver first
// and then the platform defaults.
func initializeSDL2() error {
	var videoDrivers []string
	if envDriver := os.Getenv("SDL_VIDEODRIVER"); envDriver != "" {
		log.Printf("Using environment SDL_VIDEODRIVER: %s", envDriver)
		videoDrivers = append(videoDrivers, envDriver)
	}
	switch runtime.GOOS {
	case "darwin":
		videoDrivers = append(videoDrivers, "cocoa")
	case "windows":
		videoDrivers = append(videoDrivers, "windows")
	default:
		videoDrivers = append(videoDrivers, "wayland", "x11", "kmsdrm")
	}

	for _, driver := range videoDrivers {
		log.Printf("Attempting SDL2 initialization with %s driver", driver)
		if err := trySDLInitialization(driver); err != nil {
			log.Printf("SDL2 initialization failed with %s driver: %v", driver, err)
			continue
		}
		log.Printf("SDL2 successfully initialized with %s driver", driver)
		return nil
	}
	return fmt.Errorf("all SDL2 video drivers failed")
}

func trySDLInitialization(driver string) error {
	sdl.Quit()

	sdl.SetHint(sdl.HINT_VIDEODRIVER, driver)
	switch driver {
	case "wayland":
		sdl.SetHint("SDL_VIDEO_WAYLAND_WMCLASS", "zooo-feed")
	case "x11":
		sdl.SetHint("SDL_VIDEO_X11_NET_WM_BYPASS_COMPOSITOR", "0")
	}
	sdl.SetHint(sdl.HINT_RENDER_BATCHING, "1")
	sdl.SetHint(sdl.HINT_VIDEO_MINIMIZE_ON_FOCUS_LOSS, "0")
	sdl.SetHint("SDL_MOUSE_TOUCH_EVENTS", "1")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("SDL_INIT_VIDEO failed: %v", err)
	}
	if _, err := sdl.GetCurrentVideoDriver(); err != nil {
		return fmt.Errorf("failed to get video driver: %v", err)
	}
	return nil
}

// logDisplayInfo outputs debugging information about the display setup
func logDisplayInfo() {
	numDisplays, err := sdl.GetNumVideoDisplays()
	if err != nil {
		log.Printf("Failed to get number of displays: %v", err)
		return
	}
	for i := 0; i < numDisplays; i++ {
		if mode, err := sdl.GetCurrentDisplayMode(i); err == nil {
			log.WithFields(log.Fields{
				"display": i,
				"width":   mode.W,
				"height":  mode.H,
				"hz":      mode.RefreshRate,
			}).Debug("display mode")
		}
	}
}

// createWindow creates a resizable window no smaller than 800x600.
func createWindow(cfg *config.Config) (*sdl.Window, error) {
	var windowFlags uint32 = sdl.WINDOW_SHOWN | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI
	if cfg.Fullscreen {
		windowFlags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	window, err := sdl.CreateWindow(
		cfg.WindowTitle,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.WindowWidth),
		int32(cfg.WindowHeight),
		windowFlags,
	)
	if err != nil {
		return nil, err
	}
	window.SetMinimumSize(minWidth, minHeight)
	if cfg.Fullscreen {
		window.SetBordered(false)
	}
	return window, nil
}

// createRenderer creates an accelerated renderer, falling back to software.
func createRenderer(window *sdl.Window) (*sdl.Renderer, error) {
	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		log.Printf("Hardware acceleration failed, trying software: %v", err)
		renderer, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			return nil, err
		}
	}

	// Enable alpha blending for overlays
	renderer.SetDrawBlendMode(sdl.BLENDMODE_BLEND)
	return renderer, nil
}

// runLoop forwards events to the root screen and runs a fixed-FPS
// update/draw cycle until quit.
func runLoop(screen *root.RootScreen) {
	running := true
	frameTime := time.Second / targetFPS
	lastTime := time.Now()

	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if _, ok := event.(*sdl.QuitEvent); ok {
				running = false
				continue
			}
			screen.HandleEvent(event)
		}

		if err := screen.Update(); err != nil {
			log.Printf("Update error: %v", err)
			break
		}
		if err := screen.Draw(); err != nil {
			log.Printf("Draw error: %v", err)
			break
		}

		// Frame rate limiting
		elapsed := time.Since(lastTime)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
		lastTime = time.Now()
	}
}
