// Package keys turns polled SDL keyboard state into feed navigation.
package keys

import "github.com/veandco/go-sdl2/sdl"

// KeyPressTracker turns polled keyboard state into edge-triggered presses so
// a held key acts once.
type KeyPressTracker struct {
	pressed map[sdl.Scancode]bool
}

// NewKeyPressTracker creates a new KeyPressTracker
func NewKeyPressTracker() KeyPressTracker {
	return KeyPressTracker{
		pressed: make(map[sdl.Scancode]bool),
	}
}

// IsPressed reports a key that went down since the last poll.
func (kpt *KeyPressTracker) IsPressed(keyState []uint8, scancode sdl.Scancode) bool {
	if int(scancode) >= len(keyState) {
		return false
	}
	down := keyState[scancode] != 0
	was := kpt.pressed[scancode]
	kpt.pressed[scancode] = down
	return down && !was
}

var stepKeys = []struct {
	code  sdl.Scancode
	delta int
}{
	{sdl.SCANCODE_DOWN, 1},
	{sdl.SCANCODE_PAGEDOWN, 1},
	{sdl.SCANCODE_J, 1},
	{sdl.SCANCODE_UP, -1},
	{sdl.SCANCODE_PAGEUP, -1},
	{sdl.SCANCODE_K, -1},
}

// Step returns the feed navigation requested by freshly pressed keys: +1 for
// next, -1 for previous, 0 for none.
func (kpt *KeyPressTracker) Step(keyState []uint8) int {
	step := 0
	for _, k := range stepKeys {
		if kpt.IsPressed(keyState, k.code) && step == 0 {
			step = k.delta
		}
	}
	return step
}
