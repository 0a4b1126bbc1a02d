package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zooo-feed/pkg/media/mediatest"
)

func TestWellFormed(t *testing.T) {
	require.True(t, WellFormed("https://cdn.example.com/v.mp4"))
	require.True(t, WellFormed("s3://bucket/v.mp4"))
	require.True(t, WellFormed("/var/media/v.mp4"))
	require.False(t, WellFormed("v.mp4"))
	require.False(t, WellFormed("https:///nohost.mp4"))
	require.False(t, WellFormed("://broken"))
	require.False(t, WellFormed(""))
}

func TestActivateSeeksWhenMetadataReady(t *testing.T) {
	p := mediatest.NewPlayer()
	s := NewSlide("https://cdn.example.com/v.mp4")

	require.NoError(t, s.Activate(p, true))
	require.True(t, p.Playing)
	require.True(t, p.Looping)
	require.True(t, p.Muted)
	require.Equal(t, SeekOffset, p.Position)

	s.MetadataLoaded(p)
	require.Len(t, p.Seeks, 1, "seek happens once per activation")
}

func TestActivateDefersSeekUntilMetadata(t *testing.T) {
	p := mediatest.NewPlayer()
	s := NewSlide("https://cdn.example.com/v.mp4")

	require.NoError(t, s.Activate(p, false))
	require.Empty(t, p.Seeks)

	s.MetadataLoaded(p)
	require.Equal(t, []time.Duration{SeekOffset}, p.Seeks)
}

func TestDeactivateDropsPendingSeek(t *testing.T) {
	p := mediatest.NewPlayer()
	s := NewSlide("https://cdn.example.com/v.mp4")

	require.NoError(t, s.Activate(p, false))
	s.Deactivate()
	s.MetadataLoaded(p)
	require.Empty(t, p.Seeks)
}

func TestMalformedURLSkipsSeek(t *testing.T) {
	p := mediatest.NewPlayer()
	s := NewSlide("clip.mp4")

	require.NoError(t, s.Activate(p, true))
	s.MetadataLoaded(p)
	require.Empty(t, p.Seeks)
	require.True(t, p.Playing)
}

func TestFirstTapUnmutesOnce(t *testing.T) {
	p := mediatest.NewPlayer()
	s := NewSlide("https://cdn.example.com/v.mp4")

	require.NoError(t, s.Tap(p))
	require.False(t, p.Muted)
	require.True(t, p.Playing)
	require.True(t, s.Tapped())

	p.SetMuted(true)
	require.NoError(t, s.Tap(p))
	require.True(t, p.Muted, "second tap is not a gesture")
	require.Equal(t, 1, p.Plays)
}
