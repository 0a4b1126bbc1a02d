//go:build !linux && !darwin

package performance

import "time"

// GetSystemMemory has no system source here and reports ample memory.
func GetSystemMemory() MemorySnapshot {
	return MemorySnapshot{
		Timestamp:   time.Now(),
		TotalMB:     2048,
		AvailableMB: 1024,
		UsedMB:      1024,
		FreeMB:      1024,
	}
}
