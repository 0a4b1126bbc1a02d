package performance

import (
	"sync"
	"time"
)

// RollingAverage maintains a rolling average of durations over a fixed window
type RollingAverage struct {
	samples    []time.Duration
	maxSamples int
	sum        time.Duration
	index      int
	filled     bool
	mu         sync.RWMutex
}

// NewRollingAverage creates a rolling average tracker with specified window size
func NewRollingAverage(windowSize int) *RollingAverage {
	if windowSize < 1 {
		windowSize = 1
	}
	return &RollingAverage{
		samples:    make([]time.Duration, windowSize),
		maxSamples: windowSize,
	}
}

// Add records a new sample and updates the rolling average
func (r *RollingAverage) Add(d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.filled {
		r.sum -= r.samples[r.index]
	}
	r.samples[r.index] = d
	r.sum += d

	r.index++
	if r.index >= r.maxSamples {
		r.index = 0
		r.filled = true
	}
}

// Average returns the current rolling average
func (r *RollingAverage) Average() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := r.index
	if r.filled {
		count = r.maxSamples
	}
	if count == 0 {
		return 0
	}
	return r.sum / time.Duration(count)
}

// Count returns the number of samples currently tracked
func (r *RollingAverage) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.filled {
		return r.maxSamples
	}
	return r.index
}

// FrameMonitor tracks how long the feed takes to draw a frame and how long
// slide players take to open.
type FrameMonitor struct {
	frames *RollingAverage
	opens  *RollingAverage
	budget time.Duration
	slow   int
	total  int
	mu     sync.Mutex
}

// FrameReport is a summary of the monitor's window.
type FrameReport struct {
	AvgFrameMs float64
	AvgOpenMs  float64
	SlowFrames int
	Frames     int
	Healthy    bool
}

// NewFrameMonitor averages over windowSize samples; frames longer than
// budget count as slow.
func NewFrameMonitor(windowSize int, budget time.Duration) *FrameMonitor {
	return &FrameMonitor{
		frames: NewRollingAverage(windowSize),
		opens:  NewRollingAverage(windowSize),
		budget: budget,
	}
}

// RecordFrame records one update+draw cycle.
func (m *FrameMonitor) RecordFrame(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.frames.Add(d)
	m.total++
	if m.budget > 0 && d > m.budget {
		m.slow++
	}
}

// RecordOpen records the time between requesting a slide's player and it
// becoming ready.
func (m *FrameMonitor) RecordOpen(d time.Duration) {
	m.opens.Add(d)
}

// Report returns the current summary.
func (m *FrameMonitor) Report() FrameReport {
	m.mu.Lock()
	defer m.mu.Unlock()

	avg := m.frames.Average()
	slowRate := 0.0
	if m.total > 0 {
		slowRate = float64(m.slow) / float64(m.total)
	}
	return FrameReport{
		AvgFrameMs: float64(avg.Microseconds()) / 1000.0,
		AvgOpenMs:  float64(m.opens.Average().Microseconds()) / 1000.0,
		SlowFrames: m.slow,
		Frames:     m.total,
		Healthy:    slowRate < 0.05 && (m.budget == 0 || avg <= m.budget),
	}
}

// Reset clears the counters; the averages keep their window.
func (m *FrameMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.slow = 0
	m.total = 0
}
