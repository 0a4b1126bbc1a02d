package sharedTypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsDirectMediaURL(t *testing.T) {
	cases := map[string]bool{
		"https://cdn.example.com/a/clip.mp4":       true,
		"https://cdn.example.com/a/clip.MP4?sig=1": true,
		"https://cdn.example.com/a/clip.mp4#t=40":  true,
		"s3://bucket/videos/b.webm":                true,
		"/var/media/local.mkv":                     true,
		"https://example.com/watch/abc":            false,
		"https://example.com/embed.php?id=mp4":     false,
		"":                                         false,
	}
	for raw, want := range cases {
		require.Equal(t, want, IsDirectMediaURL(raw), raw)
	}
}

func TestVideoRecordIsDirectMedia(t *testing.T) {
	require.True(t, VideoRecord{VideoURL: "https://x.test/v.mov"}.IsDirectMedia())
	require.False(t, VideoRecord{VideoURL: "https://x.test/embed/9"}.IsDirectMedia())
}
