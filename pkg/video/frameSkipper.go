// Package video holds playback policies shared by the feed's players.
package video

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"zooo-feed/pkg/performance"
)

// SkipMode represents the current frame skipping strategy
type SkipMode int

const (
	ModeNormal SkipMode = iota // Advance clips every frame
	ModeSkip2                  // Advance clips every 2nd frame
	ModeSkip3                  // Advance clips every 3rd frame
)

func (m SkipMode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeSkip2:
		return "skip2"
	case ModeSkip3:
		return "skip3"
	default:
		return "unknown"
	}
}

// FrameSkipper decides on which frames the active clip advances. Clips step
// by wall-clock time, so a skipped frame is caught up on the next one; the
// picture stays in sync while the texture upload rate drops.
type FrameSkipper struct {
	mode            SkipMode
	frameCounter    uint64
	consecutiveSlow int
	consecutiveGood int

	slowThreshold time.Duration
	goodThreshold time.Duration

	// hysteresis
	enterSkip2After   int
	enterSkip3After   int
	exitToNormalAfter int
	exitToSkip2After  int

	mu sync.Mutex
}

// NewFrameSkipper returns a skipper tuned for a 60 fps loop.
func NewFrameSkipper() *FrameSkipper {
	return &FrameSkipper{
		mode:              ModeNormal,
		slowThreshold:     30 * time.Millisecond,
		goodThreshold:     20 * time.Millisecond,
		enterSkip2After:   3,
		enterSkip3After:   5,
		exitToNormalAfter: 60,
		exitToSkip2After:  30,
	}
}

// ShouldAdvance reports whether clips should advance on this frame given
// the latest frame report.
func (f *FrameSkipper) ShouldAdvance(report performance.FrameReport) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.frameCounter++
	f.updateModeLocked(time.Duration(report.AvgFrameMs * float64(time.Millisecond)))

	switch f.mode {
	case ModeSkip2:
		return f.frameCounter%2 == 0
	case ModeSkip3:
		return f.frameCounter%3 == 0
	default:
		return true
	}
}

func (f *FrameSkipper) updateModeLocked(avg time.Duration) {
	switch {
	case avg > f.slowThreshold:
		f.consecutiveSlow++
		f.consecutiveGood = 0
	case avg < f.goodThreshold:
		f.consecutiveGood++
		f.consecutiveSlow = 0
	default:
		f.consecutiveSlow = 0
		f.consecutiveGood = 0
	}

	prev := f.mode
	switch f.mode {
	case ModeNormal:
		if f.consecutiveSlow >= f.enterSkip2After {
			f.mode = ModeSkip2
			f.consecutiveSlow = 0
		}
	case ModeSkip2:
		if f.consecutiveSlow >= f.enterSkip3After {
			f.mode = ModeSkip3
			f.consecutiveSlow = 0
		} else if f.consecutiveGood >= f.exitToNormalAfter {
			f.mode = ModeNormal
			f.consecutiveGood = 0
		}
	case ModeSkip3:
		if f.consecutiveGood >= f.exitToSkip2After {
			f.mode = ModeSkip2
			f.consecutiveGood = 0
		}
	}
	if f.mode != prev {
		log.WithFields(log.Fields{"from": prev, "to": f.mode, "avg_frame": avg}).Info("frame skip mode changed")
	}
}

// Reset returns to Normal mode. Called when the active slide changes.
func (f *FrameSkipper) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.mode = ModeNormal
	f.frameCounter = 0
	f.consecutiveSlow = 0
	f.consecutiveGood = 0
}

// Mode returns the current skip mode
func (f *FrameSkipper) Mode() SkipMode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// SetThresholds tunes the slow and good average frame times.
func (f *FrameSkipper) SetThresholds(slow, good time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slowThreshold = slow
	f.goodThreshold = good
}
