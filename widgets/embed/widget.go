// Package embed renders slides whose media is a web page. The page cannot be
// played inside the app, so the card shows the title and a QR code of the
// page and opens it in the system browser when the title is tapped.
package embed

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/skip2/go-qrcode"
	"github.com/veandco/go-sdl2/sdl"

	"zooo-feed/ui"
)

// QRSize is the edge length of the QR code in pixels.
const QRSize = 256

// Widget is an embedded frame. While its source is empty it holds no
// texture and draws a placeholder.
type Widget struct {
	title string
	src   string

	qrTexture *sdl.Texture
	qrFor     string
	qrWidth   int32
	qrHeight  int32

	titleRect sdl.Rect
}

// NewWidget creates a detached card for a page with the given title.
func NewWidget(title string) *Widget {
	return &Widget{title: title}
}

func (w *Widget) SetSource(url string) { w.src = url }

func (w *Widget) ClearSource() { w.src = "" }

func (w *Widget) Source() string { return w.src }

// EncodeQR returns the QR code of url as an image.
func EncodeQR(url string, size int) (image.Image, error) {
	data, err := qrcode.Encode(url, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR code: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode QR code PNG: %w", err)
	}
	return img, nil
}

func (w *Widget) ensureTexture(renderer *sdl.Renderer) error {
	if w.qrFor == w.src && w.qrTexture != nil {
		return nil
	}
	w.destroyTexture()

	img, err := EncodeQR(w.src, QRSize)
	if err != nil {
		return err
	}
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	surface, err := sdl.CreateRGBSurface(0, int32(width), int32(height), 32,
		0x000000ff, 0x0000ff00, 0x00ff0000, 0xff000000)
	if err != nil {
		return fmt.Errorf("failed to create SDL surface: %w", err)
	}
	defer surface.Free()

	surface.Lock()
	pixels := surface.Pixels()
	pitch := int(surface.Pitch)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			offset := y*pitch + x*4
			pixels[offset] = byte(r >> 8)
			pixels[offset+1] = byte(g >> 8)
			pixels[offset+2] = byte(b >> 8)
			pixels[offset+3] = byte(a >> 8)
		}
	}
	surface.Unlock()

	texture, err := renderer.CreateTextureFromSurface(surface)
	if err != nil {
		return fmt.Errorf("failed to create texture from surface: %w", err)
	}
	w.qrTexture = texture
	w.qrFor = w.src
	w.qrWidth = int32(width)
	w.qrHeight = int32(height)
	return nil
}

const (
	titleHeight = 60
	hintHeight  = 28
	pad         = 20
)

// Layout places the parts of a card.
type Layout struct {
	Title sdl.Rect
	QR    sdl.Rect // zero when there is no room
	Hint  sdl.Rect // zero when no hint is shown
}

// Arrange lays out a card drawn in frame inside the slide area. The hint
// goes in the margin above frame; when that margin is too small it sits at
// the bottom of the frame instead.
func Arrange(slide, frame sdl.Rect, qr int32, hint bool) Layout {
	l := Layout{Title: sdl.Rect{X: frame.X, Y: frame.Y, W: frame.W, H: titleHeight}}

	bottom := frame.Y + frame.H
	if hint {
		margin := frame.Y - slide.Y
		if margin >= hintHeight {
			l.Hint = sdl.Rect{X: frame.X, Y: slide.Y + (margin-hintHeight)/2, W: frame.W, H: hintHeight}
		} else {
			l.Hint = sdl.Rect{X: frame.X, Y: bottom - hintHeight, W: frame.W, H: hintHeight}
			bottom = l.Hint.Y
		}
	}

	top := frame.Y + titleHeight
	size := min(qr, frame.W-2*pad, bottom-top-pad)
	if size > 0 {
		l.QR = sdl.Rect{X: frame.X + (frame.W-size)/2, Y: top, W: size, H: size}
	}
	return l
}

// Render draws the card into frame within the slide area. hint adds the
// "tap the title" line. Without fonts only the QR code is drawn.
func (w *Widget) Render(renderer *sdl.Renderer, slide, frame sdl.Rect, fonts *ui.Fonts, hint bool) error {
	renderer.SetDrawColor(15, 23, 42, 255)
	renderer.FillRect(&frame)

	qr := int32(0)
	if w.src != "" {
		if err := w.ensureTexture(renderer); err != nil {
			return err
		}
		qr = w.qrWidth
	} else {
		w.destroyTexture()
	}

	l := Arrange(slide, frame, qr, hint && w.src != "")
	w.titleRect = l.Title

	if fonts != nil {
		if err := ui.RenderTextFit(renderer, w.title, l.Title.X+pad, l.Title.Y+pad, l.Title.W-2*pad, ui.White, fonts.Large); err != nil {
			return fmt.Errorf("failed to render title: %w", err)
		}
	}
	if l.QR.W > 0 {
		if err := renderer.Copy(w.qrTexture, nil, &l.QR); err != nil {
			return fmt.Errorf("failed to render QR code: %w", err)
		}
	}
	if l.Hint.H > 0 && fonts != nil {
		if err := ui.RenderTextFit(renderer, "Tap the title to open the page", l.Hint.X+pad, l.Hint.Y+4, l.Hint.W-2*pad, ui.Muted, fonts.Small); err != nil {
			return fmt.Errorf("failed to render hint: %w", err)
		}
	}
	return nil
}

// HitTitle reports whether (x, y) falls on the title drawn by the last
// Render.
func (w *Widget) HitTitle(x, y int32) bool {
	p := sdl.Point{X: x, Y: y}
	return p.InRect(&w.titleRect)
}

// Open shows the page in the system browser.
func (w *Widget) Open() error {
	if w.src == "" {
		return nil
	}
	return sdl.OpenURL(w.src)
}

func (w *Widget) destroyTexture() {
	if w.qrTexture != nil {
		w.qrTexture.Destroy()
		w.qrTexture = nil
	}
	w.qrFor = ""
}

// Destroy cleans up widget resources.
func (w *Widget) Destroy() {
	w.src = ""
	w.destroyTexture()
}
