// Package chrome provides the window controls of the desktop shell:
// minimize, maximize toggle, close, and a titlebar that hides in fullscreen.
package chrome

import (
	"github.com/veandco/go-sdl2/sdl"

	log "github.com/sirupsen/logrus"
)

// BarHeight is the height of the in-app titlebar.
const BarHeight = 32

// sdlWindow is the part of *sdl.Window the controls use.
type sdlWindow interface {
	Minimize()
	Maximize()
	Restore()
	GetFlags() uint32
	SetBordered(bordered bool)
	SetFullscreen(flags uint32) error
}

// Window wraps the shell window.
type Window struct {
	win        sdlWindow
	fullscreen bool
	listeners  []func(visible bool)

	// Quit ends the app. Defaults to pushing an SDL quit event.
	Quit func()
}

// NewWindow wraps win. fullscreen is the state the window was created in.
func NewWindow(win sdlWindow, fullscreen bool) *Window {
	return &Window{
		win:        win,
		fullscreen: fullscreen,
		Quit: func() {
			sdl.PushEvent(&sdl.QuitEvent{Type: sdl.QUIT, Timestamp: sdl.GetTicks()})
		},
	}
}

func (w *Window) Minimize() { w.win.Minimize() }

// ToggleMaximize maximizes the window, or restores it if already maximized.
func (w *Window) ToggleMaximize() {
	if w.win.GetFlags()&sdl.WINDOW_MAXIMIZED != 0 {
		w.win.Restore()
		return
	}
	w.win.Maximize()
}

func (w *Window) Close() {
	if w.Quit != nil {
		w.Quit()
	}
}

// OnToggleTitlebar registers fn to be told whether the titlebar is visible
// whenever fullscreen is entered or left.
func (w *Window) OnToggleTitlebar(fn func(visible bool)) {
	w.listeners = append(w.listeners, fn)
}

// TitlebarVisible reports whether the titlebar should be drawn.
func (w *Window) TitlebarVisible() bool { return !w.fullscreen }

// Fullscreen reports the current fullscreen state.
func (w *Window) Fullscreen() bool { return w.fullscreen }

// ToggleFullscreen switches between desktop fullscreen and windowed mode.
func (w *Window) ToggleFullscreen() {
	var flags uint32
	if !w.fullscreen {
		flags = sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	if err := w.win.SetFullscreen(flags); err != nil {
		log.WithError(err).Warn("failed to toggle fullscreen")
		return
	}
	w.fullscreen = !w.fullscreen
	w.win.SetBordered(!w.fullscreen)
	for _, fn := range w.listeners {
		fn(!w.fullscreen)
	}
}
