package performance

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// MemorySnapshot represents memory state at a point in time
type MemorySnapshot struct {
	Timestamp   time.Time
	TotalMB     uint64
	AvailableMB uint64
	UsedMB      uint64
	FreeMB      uint64
}

// GoMemoryStats are the Go runtime's own heap numbers.
type GoMemoryStats struct {
	AllocMB uint64
	SysMB   uint64
	NumGC   uint32
}

// GetGoMemory retrieves Go runtime memory statistics
func GetGoMemory() GoMemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return GoMemoryStats{
		AllocMB: m.Alloc / (1024 * 1024),
		SysMB:   m.Sys / (1024 * 1024),
		NumGC:   m.NumGC,
	}
}

// MemoryPressureLevel represents how much memory pressure the system is under
type MemoryPressureLevel int

const (
	MemoryPressureNone     MemoryPressureLevel = iota // >800MB available
	MemoryPressureLow                                 // 400-800MB available
	MemoryPressureMedium                              // 200-400MB available
	MemoryPressureHigh                                // 100-200MB available
	MemoryPressureCritical                            // <100MB available
)

// PressureFor maps available megabytes to a pressure level.
func PressureFor(availableMB uint64) MemoryPressureLevel {
	switch {
	case availableMB < 100:
		return MemoryPressureCritical
	case availableMB < 200:
		return MemoryPressureHigh
	case availableMB < 400:
		return MemoryPressureMedium
	case availableMB < 800:
		return MemoryPressureLow
	default:
		return MemoryPressureNone
	}
}

// GetMemoryPressure returns the current memory pressure level
func GetMemoryPressure() MemoryPressureLevel {
	return PressureFor(GetSystemMemory().AvailableMB)
}

// PressureProbe reports the current pressure level. Prefetching takes one so
// tests can simulate a starved machine.
type PressureProbe func() MemoryPressureLevel

// Starved reports whether speculative work should be skipped.
func (m MemoryPressureLevel) Starved() bool {
	return m >= MemoryPressureHigh
}

var pressureNames = [...]string{"none", "low", "medium", "high", "critical"}

func (m MemoryPressureLevel) String() string {
	if m < 0 || int(m) >= len(pressureNames) {
		return "unknown"
	}
	return pressureNames[m]
}

// LogMemorySnapshot logs a detailed memory snapshot
func LogMemorySnapshot(logger log.FieldLogger) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	sys := GetSystemMemory()
	goMem := GetGoMemory()

	logger.WithFields(log.Fields{
		"total_mb": sys.TotalMB,
		"avail_mb": sys.AvailableMB,
		"go_alloc": goMem.AllocMB,
		"go_sys":   goMem.SysMB,
		"gc":       goMem.NumGC,
		"pressure": PressureFor(sys.AvailableMB).String(),
	}).Info("memory snapshot")
}
