package ui

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

const ellipsis = "…"

// RenderText renders text at the specified position with the given font and color
func RenderText(renderer *sdl.Renderer, text string, x, y int32, color sdl.Color, font *ttf.Font) error {
	if font == nil {
		return fmt.Errorf("font not available")
	}
	if text == "" {
		return nil
	}

	surface, err := font.RenderUTF8Blended(text, color)
	if err != nil {
		return err
	}
	defer surface.Free()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return err
	}
	defer texture.Destroy()

	dstRect := sdl.Rect{X: x, Y: y, W: surface.W, H: surface.H}
	return renderer.Copy(texture, nil, &dstRect)
}

// RenderTextFit renders text cut down with an ellipsis so it is no wider
// than maxWidth.
func RenderTextFit(renderer *sdl.Renderer, text string, x, y, maxWidth int32, color sdl.Color, font *ttf.Font) error {
	if font == nil {
		return fmt.Errorf("font not available")
	}
	return RenderText(renderer, Truncate(text, int(maxWidth), func(s string) int {
		w, _, err := font.SizeUTF8(s)
		if err != nil {
			return 0
		}
		return w
	}), x, y, color, font)
}

// Truncate shortens text rune by rune until measure reports it fits in
// maxWidth, appending an ellipsis when anything was cut.
func Truncate(text string, maxWidth int, measure func(string) int) string {
	if maxWidth <= 0 || measure(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for n := len(runes) - 1; n > 0; n-- {
		candidate := string(runes[:n]) + ellipsis
		if measure(candidate) <= maxWidth {
			return candidate
		}
	}
	return ellipsis
}
