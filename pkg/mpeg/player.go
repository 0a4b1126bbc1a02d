// Package mpeg plays a video stream into an SDL texture through FFmpeg.
package mpeg

import (
	"fmt"
	"io"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"zooo-feed/pkg/geometry"
)

// Player decodes one clip. Open may run on any goroutine; every method that
// touches the renderer must run on the SDL thread.
type Player struct {
	dec *videoDecoder
	url string

	renderer *sdl.Renderer
	texture  *sdl.Texture

	playing  bool
	loop     bool
	muted    bool
	ended    bool
	position time.Duration

	// playback timing
	acc      float64
	lastTime time.Time

	m         sync.Mutex
	closeOnce sync.Once
}

// Open opens url (a file path or anything FFmpeg can stream) and reads its
// metadata. It blocks on the network.
func Open(url string) (*Player, error) {
	dec, err := newVideoDecoder(url)
	if err != nil {
		return nil, err
	}
	return &Player{dec: dec, url: url, muted: true}, nil
}

// URL returns the source the player was opened with.
func (p *Player) URL() string { return p.url }

// SetRenderer creates the streaming texture and shows the first frame.
func (p *Player) SetRenderer(renderer *sdl.Renderer) error {
	p.m.Lock()
	defer p.m.Unlock()

	p.renderer = renderer
	var err error
	p.texture, err = renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_STREAMING, int32(p.dec.width), int32(p.dec.height))
	if err != nil {
		return fmt.Errorf("failed to create texture: %v", err)
	}
	return p.showNextLocked()
}

func (p *Player) updateTexture(frameData []byte) error {
	if p.texture == nil {
		return nil
	}
	pixels, _, err := p.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("failed to lock texture: %v", err)
	}
	defer p.texture.Unlock()
	copy(pixels, frameData)
	return nil
}

func (p *Player) showNextLocked() error {
	data, err := p.dec.nextFrame()
	if err != nil {
		return err
	}
	return p.updateTexture(data)
}

// Play starts or resumes playback.
func (p *Player) Play() error {
	p.m.Lock()
	defer p.m.Unlock()

	if p.ended {
		if err := p.seekLocked(0); err != nil {
			return err
		}
	}
	p.playing = true
	p.lastTime = time.Now()
	p.acc = 0
	return nil
}

// Pause stops advancing frames.
func (p *Player) Pause() {
	p.m.Lock()
	p.playing = false
	p.m.Unlock()
}

// Seek jumps to offset. Offsets past the end of a clip of known length go
// back to the start. Seeking a paused player that is already at offset does
// nothing.
func (p *Player) Seek(offset time.Duration) error {
	p.m.Lock()
	defer p.m.Unlock()

	if offset < 0 {
		offset = 0
	}
	if p.dec.duration > 0 && offset >= p.dec.duration {
		offset = 0
	}
	if !p.playing && !p.ended && p.position == offset {
		return nil
	}
	return p.seekLocked(offset)
}

func (p *Player) seekLocked(offset time.Duration) error {
	if err := p.dec.seek(offset); err != nil {
		return err
	}
	p.position = offset
	p.ended = false
	p.acc = 0
	p.lastTime = time.Now()
	if p.texture != nil {
		if err := p.showNextLocked(); err != nil && err != io.EOF {
			return err
		}
	}
	return nil
}

// SetLoop makes the clip restart at EOF.
func (p *Player) SetLoop(loop bool) {
	p.m.Lock()
	p.loop = loop
	p.m.Unlock()
}

// SetMuted records the mute state. The decoder renders video only, so the
// flag drives the speaker indicator.
func (p *Player) SetMuted(muted bool) {
	p.m.Lock()
	p.muted = muted
	p.m.Unlock()
}

// Muted reports the mute state.
func (p *Player) Muted() bool {
	p.m.Lock()
	defer p.m.Unlock()
	return p.muted
}

// Playing reports whether frames are advancing.
func (p *Player) Playing() bool {
	p.m.Lock()
	defer p.m.Unlock()
	return p.playing
}

// Position is the approximate playback position.
func (p *Player) Position() time.Duration {
	p.m.Lock()
	defer p.m.Unlock()
	return p.position
}

// Duration is the clip length, zero when unknown (live streams).
func (p *Player) Duration() time.Duration { return p.dec.duration }

// Size is the decoded frame size.
func (p *Player) Size() (int, int) { return p.dec.width, p.dec.height }

// Update decodes as many frames as wall-clock time calls for.
func (p *Player) Update() error {
	p.m.Lock()
	defer p.m.Unlock()

	now := time.Now()
	if !p.playing {
		p.lastTime = now
		return nil
	}
	if p.lastTime.IsZero() {
		p.lastTime = now
	}
	dt := now.Sub(p.lastTime).Seconds()
	p.lastTime = now
	p.acc += dt * p.dec.fps

	steps := int(p.acc)
	if steps == 0 {
		return nil
	}
	p.acc -= float64(steps)

	var data []byte
	var err error
	for i := 0; i < steps; i++ {
		data, err = p.dec.nextFrame()
		if err != nil {
			break
		}
		p.position += time.Duration(float64(time.Second) / p.dec.fps)
	}

	if err == io.EOF {
		if p.loop {
			log.WithField("url", p.url).Debug("clip looped")
			return p.seekLocked(0)
		}
		p.playing = false
		p.ended = true
		return nil
	}
	if err != nil {
		return err
	}
	return p.updateTexture(data)
}

// Draw renders the current frame letterboxed inside dst.
func (p *Player) Draw(renderer *sdl.Renderer, dst sdl.Rect) error {
	p.m.Lock()
	texture := p.texture
	p.m.Unlock()

	if texture == nil {
		return nil
	}
	x, y, w, h := geometry.Fit(p.dec.width, p.dec.height, int(dst.W), int(dst.H))
	rect := sdl.Rect{X: dst.X + int32(x), Y: dst.Y + int32(y), W: int32(w), H: int32(h)}
	return renderer.Copy(texture, nil, &rect)
}

// Close releases the texture and the decoder.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		p.m.Lock()
		defer p.m.Unlock()
		if p.texture != nil {
			p.texture.Destroy()
			p.texture = nil
		}
		if p.dec != nil {
			p.dec.close()
		}
		p.playing = false
	})
	return nil
}
