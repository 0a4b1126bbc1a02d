package feed

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"zooo-feed/pkg/media"
	"zooo-feed/widgets/embed"
)

// syncMounts mounts the slides inside the live window and disposes of the
// ones that left it.
func (s *FeedScreen) syncMounts() {
	for i := range s.slides {
		if !s.ctrl.Live(i) {
			s.dispose(i)
		}
	}

	for i := 0; i < s.ctrl.Len(); i++ {
		if !s.ctrl.Live(i) || s.slides[i] != nil || s.opening[i] {
			continue
		}
		view, ok := s.ctrl.View(i)
		if !ok {
			continue
		}
		switch view.Kind {
		case media.KindNative:
			s.startOpen(i, view.Video.VideoURL)
		case media.KindEmbedded:
			card := embed.NewWidget(view.Video.Title)
			s.slides[i] = &slide{card: card}
			s.ctrl.Mount(i, media.FrameHandle(card))
		}
	}
}

// startOpen opens the player for slide i in the background.
func (s *FeedScreen) startOpen(i int, url string) {
	select {
	case <-s.done:
		return
	default:
	}
	if s.open == nil {
		s.slides[i] = &slide{failed: true}
		return
	}
	s.opening[i] = true
	gen := s.generation
	started := time.Now()

	s.opens.Add(1)
	go func(index int, url string, generation uint64) {
		defer s.opens.Done()
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		go func() {
			select {
			case <-s.done:
				cancel()
			case <-ctx.Done():
			}
		}()

		res := openResult{index: index, generation: generation}
		resolved, err := s.resolve(ctx, url)
		if err == nil {
			res.clip, err = s.open(resolved)
		}
		res.err = err
		res.took = time.Since(started)
		select {
		case s.openResultCh <- res:
		case <-s.done:
			if res.clip != nil {
				res.clip.Close()
			}
		}
	}(i, url, gen)
}

// handleOpenResults processes completed background player opens
func (s *FeedScreen) handleOpenResults() {
	for {
		select {
		case res := <-s.openResultCh:
			s.applyOpen(res)
		default:
			// No open results available
			return
		}
	}
}

func (s *FeedScreen) applyOpen(res openResult) {
	if res.generation != s.generation {
		if res.clip != nil {
			res.clip.Close()
		}
		return
	}
	delete(s.opening, res.index)

	if !s.ctrl.Live(res.index) {
		log.Printf("open: discarding player for slide %d, no longer live", res.index)
		if res.clip != nil {
			res.clip.Close()
		}
		return
	}
	if res.err != nil {
		log.Printf("open: slide %d failed: %v", res.index, res.err)
		s.slides[res.index] = &slide{failed: true}
		return
	}

	if s.renderer != nil {
		if err := res.clip.SetRenderer(s.renderer); err != nil {
			log.Printf("open: slide %d texture failed: %v", res.index, err)
			res.clip.Close()
			s.slides[res.index] = &slide{failed: true}
			return
		}
	}
	s.monitor.RecordOpen(res.took)
	s.slides[res.index] = &slide{clip: res.clip}
	s.ctrl.Mount(res.index, media.NativeHandle(res.clip))
	s.ctrl.MetadataLoaded(res.index)
}

// dispose unmounts slide i and frees its media.
func (s *FeedScreen) dispose(i int) {
	sl := s.slides[i]
	if sl == nil {
		return
	}
	s.ctrl.Unmount(i)
	if sl.clip != nil {
		sl.clip.Pause()
		if err := sl.clip.Close(); err != nil {
			log.Printf("dispose: slide %d: %v", i, err)
		}
	}
	if sl.card != nil {
		sl.card.Destroy()
	}
	delete(s.slides, i)
}
