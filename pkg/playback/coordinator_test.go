package playback

import (
	"testing"

	"github.com/stretchr/testify/require"

	"zooo-feed/pkg/media"
	"zooo-feed/pkg/media/mediatest"
)

// registry with natives on even slides and frames on odd ones.
func mixedRegistry(n int) (*media.Registry, []*mediatest.Player, []*mediatest.Frame) {
	reg := media.NewRegistry()
	players := make([]*mediatest.Player, n)
	frames := make([]*mediatest.Frame, n)
	for i := 0; i < n; i++ {
		if i%2 == 0 {
			p := mediatest.NewPlayer()
			p.Playing = true
			p.Looping = true
			p.Position = SeekOffset
			players[i] = p
			reg.Set(i, media.NativeHandle(p))
		} else {
			f := &mediatest.Frame{Src: "https://example.com/embed"}
			frames[i] = f
			reg.Set(i, media.FrameHandle(f))
		}
	}
	return reg, players, frames
}

func TestEnforceLeavesOnlyActiveSlideLive(t *testing.T) {
	for from := 0; from < 5; from++ {
		for to := 0; to < 5; to++ {
			if from == to {
				continue
			}
			reg, players, frames := mixedRegistry(5)
			Enforce(reg, from)
			// activation re-attaches the active frame; Enforce never does
			if f := frames[to]; f != nil {
				f.SetSource("https://example.com/embed")
			}
			Enforce(reg, to)

			live := 0
			for i := 0; i < 5; i++ {
				if p := players[i]; p != nil {
					if i == to {
						require.True(t, p.Looping, "active player loops")
						live++
					} else {
						require.True(t, p.Silenced(), "player %d silenced", i)
					}
				}
				if f := frames[i]; f != nil {
					if i == to {
						require.Equal(t, "https://example.com/embed", f.Src, "active frame untouched")
						live++
					} else {
						require.Empty(t, f.Src, "frame %d detached", i)
					}
				}
			}
			require.Equal(t, 1, live, "%d -> %d", from, to)
		}
	}
}

func TestEnforceDoesNotRestoreSources(t *testing.T) {
	reg, _, frames := mixedRegistry(4)
	Enforce(reg, 0)
	require.Empty(t, frames[1].Src)

	Enforce(reg, 1)
	require.Empty(t, frames[1].Src, "sources come back only through activation")
}

func TestEnforceIsIdempotent(t *testing.T) {
	reg, players, frames := mixedRegistry(4)
	Enforce(reg, 2)
	clears := frames[1].Clears
	snapshot := *players[0]

	Enforce(reg, 2)
	Enforce(reg, 2)

	require.Equal(t, clears, frames[1].Clears)
	require.Equal(t, snapshot.Playing, players[0].Playing)
	require.Equal(t, snapshot.Position, players[0].Position)
	require.Equal(t, snapshot.Looping, players[0].Looping)
	require.True(t, players[2].Looping)
}

func TestEnforceSkipsMissingHandles(t *testing.T) {
	reg := media.NewRegistry()
	reg.Set(0, media.Handle{Kind: media.KindNative})
	reg.Set(1, media.Handle{Kind: media.KindEmbedded})
	reg.Set(2, media.Handle{})

	require.NotPanics(t, func() { Enforce(reg, 0) })
	require.NotPanics(t, func() { Enforce(nil, 0) })
}
