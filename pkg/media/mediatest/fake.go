// Package mediatest provides in-memory media elements for tests.
package mediatest

import (
	"time"
)

// Player records the playback attributes a native element would have.
type Player struct {
	Playing  bool
	Looping  bool
	Muted    bool
	Position time.Duration
	Seeks    []time.Duration
	Plays    int
	PlayErr  error
}

// NewPlayer returns a muted, paused player.
func NewPlayer() *Player {
	return &Player{Muted: true}
}

func (p *Player) Play() error {
	p.Plays++
	if p.PlayErr != nil {
		return p.PlayErr
	}
	p.Playing = true
	return nil
}

func (p *Player) Pause() { p.Playing = false }

func (p *Player) Seek(offset time.Duration) error {
	p.Position = offset
	p.Seeks = append(p.Seeks, offset)
	return nil
}

func (p *Player) SetLoop(loop bool)   { p.Looping = loop }
func (p *Player) SetMuted(muted bool) { p.Muted = muted }

// Silenced reports whether the player is paused and rewound with looping off.
func (p *Player) Silenced() bool {
	return !p.Playing && p.Position == 0 && !p.Looping
}

// Frame is an embedded frame that only remembers its source.
type Frame struct {
	Src    string
	Clears int
}

func (f *Frame) SetSource(url string) { f.Src = url }

func (f *Frame) ClearSource() {
	f.Src = ""
	f.Clears++
}

func (f *Frame) Source() string { return f.Src }
