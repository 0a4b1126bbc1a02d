package chrome

import (
	"github.com/veandco/go-sdl2/sdl"

	"zooo-feed/ui"
)

// Action is a titlebar button.
type Action int

const (
	ActionNone Action = iota
	ActionMinimize
	ActionMaximize
	ActionClose
)

const buttonWidth = 46

// Buttons returns the rects of the minimize, maximize and close buttons for
// a window of the given width, right aligned.
func Buttons(width int32) map[Action]sdl.Rect {
	return map[Action]sdl.Rect{
		ActionClose:    {X: width - buttonWidth, Y: 0, W: buttonWidth, H: BarHeight},
		ActionMaximize: {X: width - 2*buttonWidth, Y: 0, W: buttonWidth, H: BarHeight},
		ActionMinimize: {X: width - 3*buttonWidth, Y: 0, W: buttonWidth, H: BarHeight},
	}
}

// HitTest returns the button under (x, y).
func (w *Window) HitTest(x, y, width int32) Action {
	if !w.TitlebarVisible() {
		return ActionNone
	}
	p := sdl.Point{X: x, Y: y}
	for action, r := range Buttons(width) {
		if p.InRect(&r) {
			return action
		}
	}
	return ActionNone
}

// Click runs the action of the button under (x, y) and reports whether one
// was hit.
func (w *Window) Click(x, y, width int32) bool {
	switch w.HitTest(x, y, width) {
	case ActionMinimize:
		w.Minimize()
	case ActionMaximize:
		w.ToggleMaximize()
	case ActionClose:
		w.Close()
	default:
		return false
	}
	return true
}

// Render draws the titlebar across the top of the window.
func (w *Window) Render(renderer *sdl.Renderer, width int32, title string, fonts *ui.Fonts) {
	if !w.TitlebarVisible() {
		return
	}
	ui.DrawGradient(renderer, sdl.Rect{W: width, H: BarHeight}, ui.SlateLight, ui.SlateDark)

	if fonts != nil && fonts.Small != nil {
		ui.RenderTextFit(renderer, title, 12, 6, Buttons(width)[ActionMinimize].X-24, ui.White, fonts.Small)
	}

	renderer.SetDrawColor(226, 232, 240, 255)
	buttons := Buttons(width)
	cx := func(r sdl.Rect) int32 { return r.X + r.W/2 }
	cy := int32(BarHeight / 2)

	m := buttons[ActionMinimize]
	renderer.DrawLine(cx(m)-6, cy, cx(m)+6, cy)

	x := buttons[ActionMaximize]
	renderer.DrawRect(&sdl.Rect{X: cx(x) - 6, Y: cy - 6, W: 12, H: 12})

	c := buttons[ActionClose]
	renderer.DrawLine(cx(c)-6, cy-6, cx(c)+6, cy+6)
	renderer.DrawLine(cx(c)-6, cy+6, cx(c)+6, cy-6)
}
