// Package geometry sizes embedded pages and native videos inside a slide.
package geometry

import (
	"math"

	"zooo-feed/pkg/viewport"
)

// Params describes the embedded page being framed: its natural
// width:height ratio and the pixels its own header and controls take up
// outside the video rectangle.
type Params struct {
	AspectRatio    float64
	ChromeOverhead int
}

// DefaultParams matches the embedded source pages (3:2 video plus chrome).
var DefaultParams = Params{AspectRatio: 1.5, ChromeOverhead: 50}

// Frame computes the width and height of an embedded frame so the whole page
// fits the viewport without scrolling. On desktop the frame gets at most half
// the viewport height so it sits centred with margin.
func Frame(vp viewport.Snapshot, p Params) (width, height int) {
	if vp.Width <= 0 || vp.Height <= 0 || p.AspectRatio <= 0 {
		return 0, 0
	}

	avail := vp.Height
	if vp.Mode == viewport.Desktop {
		avail = vp.Height / 2
	}

	usable := avail - p.ChromeOverhead
	if usable < 0 {
		usable = 0
	}
	width = int(math.Floor(float64(usable) * p.AspectRatio))
	if width > vp.Width {
		width = vp.Width
	}

	if vp.Mode != viewport.Desktop {
		return width, vp.Height
	}

	height = int(math.Floor(float64(width)/p.AspectRatio)) + p.ChromeOverhead
	if height > avail {
		height = avail
	}
	return width, height
}

// Fit scales a source of srcW x srcH into a dstW x dstH box, keeping its
// aspect ratio, and returns the letterboxed size and offset.
func Fit(srcW, srcH, dstW, dstH int) (x, y, w, h int) {
	if srcW <= 0 || srcH <= 0 || dstW <= 0 || dstH <= 0 {
		return 0, 0, 0, 0
	}
	scale := math.Min(float64(dstW)/float64(srcW), float64(dstH)/float64(srcH))
	w = int(float64(srcW) * scale)
	h = int(float64(srcH) * scale)
	return (dstW - w) / 2, (dstH - h) / 2, w, h
}
