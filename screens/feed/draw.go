package feed

import (
	"github.com/veandco/go-sdl2/sdl"

	"zooo-feed/pkg/geometry"
	"zooo-feed/pkg/media"
	"zooo-feed/ui"
)

// Draw renders the visible slides of the carousel.
func (s *FeedScreen) Draw(renderer *sdl.Renderer, screenWidth, screenHeight int32) error {
	renderer.SetDrawColor(0, 0, 0, 255)
	renderer.FillRect(&sdl.Rect{X: 0, Y: 0, W: screenWidth, H: screenHeight})

	if s.ctrl.Len() == 0 {
		return s.drawEmpty(renderer, screenWidth, screenHeight)
	}

	first, last := s.carousel.Visible()
	for i := first; i <= last; i++ {
		top := s.carousel.Offset(i, screenHeight)
		if err := s.drawSlide(renderer, i, top, screenWidth, screenHeight); err != nil {
			s.log.WithError(err).WithField("index", i).Warn("draw slide")
		}
	}
	return nil
}

func (s *FeedScreen) drawSlide(renderer *sdl.Renderer, i int, top, screenWidth, screenHeight int32) error {
	view, ok := s.ctrl.View(i)
	if !ok {
		return nil
	}
	w, h := int32(view.Width), int32(view.Height)
	if w <= 0 || h <= 0 {
		w, h = screenWidth, screenHeight
	}
	frame := sdl.Rect{X: (screenWidth - w) / 2, Y: top + (screenHeight-h)/2, W: w, H: h}

	sl := s.slides[i]
	if view.Kind == media.KindEmbedded {
		if sl == nil || sl.card == nil {
			return s.drawPlaceholder(renderer, frame, view.Video.Title, "")
		}
		area := sdl.Rect{X: 0, Y: top, W: screenWidth, H: screenHeight}
		return sl.card.Render(renderer, area, frame, s.fonts, view.OpenHint)
	}

	// native clips fill the whole slide below the title band
	band := int32(geometry.DefaultParams.ChromeOverhead)
	video := sdl.Rect{X: 0, Y: top + band, W: screenWidth, H: screenHeight - band}
	if s.fonts != nil {
		ui.RenderTextFit(renderer, view.Video.Title, 16, top+10, screenWidth-32, ui.White, s.fonts.Medium)
	}

	switch {
	case sl == nil:
		return s.drawPlaceholder(renderer, video, "", "Loading...")
	case sl.failed || sl.clip == nil:
		return s.drawPlaceholder(renderer, video, "", "Video unavailable")
	}
	if err := sl.clip.Draw(renderer, video); err != nil {
		return err
	}
	if view.Active && view.Muted && s.fonts != nil {
		ui.RenderText(renderer, "Tap to unmute", video.X+16, video.Y+video.H-40, ui.Muted, s.fonts.Small)
	}
	return nil
}

func (s *FeedScreen) drawPlaceholder(renderer *sdl.Renderer, r sdl.Rect, title, message string) error {
	ui.DrawGradient(renderer, r, ui.SlateLight, ui.SlateDark)
	if s.fonts == nil {
		return nil
	}
	y := r.Y + 20
	if title != "" {
		if err := ui.RenderTextFit(renderer, title, r.X+20, y, r.W-40, ui.White, s.fonts.Large); err != nil {
			return err
		}
		y += 50
	}
	if message != "" {
		return ui.RenderText(renderer, message, r.X+20, y, ui.Muted, s.fonts.Small)
	}
	return nil
}

func (s *FeedScreen) drawEmpty(renderer *sdl.Renderer, screenWidth, screenHeight int32) error {
	if s.fonts == nil {
		return nil
	}
	return ui.RenderText(renderer, "No videos yet", screenWidth/2-80, screenHeight/2-12, ui.Muted, s.fonts.Medium)
}
