package playback

import "zooo-feed/pkg/media"

// Enforce makes active the only slide allowed to produce sound, picture or
// network traffic. Other native players are paused, rewound and stop looping;
// other embedded frames lose their source. The active native player loops.
// Autoplay and unmute belong to the slide itself (see Slide).
//
// Calling it again with the same index changes nothing. Missing or empty
// handles are skipped.
func Enforce(reg *media.Registry, active int) {
	if reg == nil {
		return
	}
	reg.Each(func(index int, h media.Handle) {
		if !h.Valid() {
			return
		}
		if index == active {
			if h.Kind == media.KindNative {
				h.Native.SetLoop(true)
			}
			return
		}
		switch h.Kind {
		case media.KindNative:
			h.Native.Pause()
			_ = h.Native.Seek(0)
			h.Native.SetLoop(false)
		case media.KindEmbedded:
			if h.Frame.Source() != "" {
				h.Frame.ClearSource()
			}
		}
	})
}
