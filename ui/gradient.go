package ui

import "github.com/veandco/go-sdl2/sdl"

// DrawGradient fills r with a vertical gradient from top to bottom.
func DrawGradient(renderer *sdl.Renderer, r sdl.Rect, top, bottom sdl.Color) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	for i := int32(0); i < r.H; i++ {
		t := 0.0
		if r.H > 1 {
			t = float64(i) / float64(r.H-1)
		}
		renderer.SetDrawColor(mix(top.R, bottom.R, t), mix(top.G, bottom.G, t), mix(top.B, bottom.B, t), mix(top.A, bottom.A, t))
		renderer.DrawLine(r.X, r.Y+i, r.X+r.W-1, r.Y+i)
	}
}

func mix(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// Slate colors shared by the widgets.
var (
	SlateLight = sdl.Color{R: 30, G: 41, B: 59, A: 255}
	SlateDark  = sdl.Color{R: 15, G: 23, B: 42, A: 255}
	White      = sdl.Color{R: 255, G: 255, B: 255, A: 255}
	Muted      = sdl.Color{R: 148, G: 163, B: 184, A: 255}
)
