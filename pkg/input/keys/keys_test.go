package keys

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/veandco/go-sdl2/sdl"
)

func TestKeyPressIsEdgeTriggered(t *testing.T) {
	kpt := NewKeyPressTracker()
	state := make([]uint8, 512)

	state[sdl.SCANCODE_F11] = 1
	require.True(t, kpt.IsPressed(state, sdl.SCANCODE_F11))
	require.False(t, kpt.IsPressed(state, sdl.SCANCODE_F11), "held")

	state[sdl.SCANCODE_F11] = 0
	require.False(t, kpt.IsPressed(state, sdl.SCANCODE_F11))
	state[sdl.SCANCODE_F11] = 1
	require.True(t, kpt.IsPressed(state, sdl.SCANCODE_F11))

	require.False(t, kpt.IsPressed(state[:4], sdl.SCANCODE_F11))
}

func TestStepKeys(t *testing.T) {
	kpt := NewKeyPressTracker()
	state := make([]uint8, 512)

	require.Zero(t, kpt.Step(state))

	state[sdl.SCANCODE_DOWN] = 1
	require.Equal(t, 1, kpt.Step(state))
	require.Zero(t, kpt.Step(state))

	state[sdl.SCANCODE_DOWN] = 0
	state[sdl.SCANCODE_PAGEUP] = 1
	require.Equal(t, -1, kpt.Step(state))
}
