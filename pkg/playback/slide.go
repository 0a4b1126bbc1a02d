package playback

import (
	"net/url"
	"path/filepath"
	"time"

	"zooo-feed/pkg/media"
)

// SeekOffset is where a native slide starts playing when it becomes active.
const SeekOffset = 40 * time.Second

// Slide owns the activation lifecycle of one native player: the start
// offset seek and the first-tap unmute gesture.
type Slide struct {
	url         string
	seekable    bool
	pendingSeek bool
	tapped      bool
	active      bool
}

// NewSlide creates the controller for a slide showing rawURL.
func NewSlide(rawURL string) *Slide {
	return &Slide{url: rawURL, seekable: WellFormed(rawURL)}
}

// WellFormed reports whether rawURL is an absolute URL with a host, or an
// absolute local file path.
func WellFormed(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	if filepath.IsAbs(rawURL) {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.IsAbs() && u.Host != ""
}

// URL returns the slide's media URL.
func (s *Slide) URL() string { return s.url }

// Active reports whether the slide is the live one.
func (s *Slide) Active() bool { return s.active }

// Tapped reports whether the first-tap gesture already happened.
func (s *Slide) Tapped() bool { return s.tapped }

// Activate starts playback with looping and arranges the start offset seek,
// performed now when metadata is already available.
func (s *Slide) Activate(p media.NativePlayer, metadataReady bool) error {
	s.active = true
	s.pendingSeek = s.seekable
	if p == nil {
		return nil
	}
	p.SetLoop(true)
	if metadataReady {
		s.applySeek(p)
	}
	return p.Play()
}

// MetadataLoaded performs a pending start offset seek.
func (s *Slide) MetadataLoaded(p media.NativePlayer) {
	if p == nil || !s.active {
		return
	}
	s.applySeek(p)
}

// Deactivate drops any pending seek. Pausing and rewinding is done by
// Enforce.
func (s *Slide) Deactivate() {
	s.active = false
	s.pendingSeek = false
}

// Tap unmutes and starts playback the first time the user taps the slide.
// Later taps do nothing; the slide never goes back to muted.
func (s *Slide) Tap(p media.NativePlayer) error {
	if s.tapped || p == nil {
		return nil
	}
	s.tapped = true
	p.SetMuted(false)
	return p.Play()
}

func (s *Slide) applySeek(p media.NativePlayer) {
	if !s.pendingSeek {
		return
	}
	s.pendingSeek = false
	_ = p.Seek(SeekOffset)
}
