package sharedTypes

import (
	"net/url"
	"path"
	"strings"
)

// VideoRecord is one feed item as supplied by the content table. The feed
// treats everything except VideoURL and Title as opaque metadata.
type VideoRecord struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	VideoURL     string `json:"video_url"`
	Actress      string `json:"actress,omitempty"`
	PosterURL    string `json:"poster_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	AffiliateURL string `json:"affiliate_url,omitempty"`
	HuntedAt     string `json:"hunted_at,omitempty"`
}

var directMediaExt = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
	".mkv":  true,
	".mpg":  true,
	".mpeg": true,
	".m3u8": true,
}

// IsDirectMedia reports whether VideoURL points at a media file the native
// player can open, as opposed to an embeddable page.
func (v VideoRecord) IsDirectMedia() bool {
	return IsDirectMediaURL(v.VideoURL)
}

// IsDirectMediaURL checks the extension of the URL path, ignoring query and
// fragment (so "clip.mp4#t=40" counts).
func IsDirectMediaURL(raw string) bool {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	return directMediaExt[strings.ToLower(path.Ext(p))]
}
