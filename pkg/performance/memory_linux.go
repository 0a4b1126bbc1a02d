//go:build linux

package performance

import (
	"os"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

const meminfoPath = "/proc/meminfo"

// GetSystemMemory reads MemAvailable from /proc/meminfo, which accounts for
// reclaimable page cache, and falls back to sysinfo.
func GetSystemMemory() MemorySnapshot {
	if f, err := os.Open(meminfoPath); err == nil {
		snap, perr := parseMeminfo(f)
		f.Close()
		if perr == nil {
			return snap
		}
		log.WithError(perr).Debug("meminfo unusable, using sysinfo")
	}

	var info syscall.Sysinfo_t
	if err := syscall.Sysinfo(&info); err != nil {
		log.WithError(err).Warn("sysinfo failed")
		return MemorySnapshot{Timestamp: time.Now()}
	}
	unit := uint64(info.Unit)
	const mb = 1 << 20
	snap := MemorySnapshot{
		Timestamp:   time.Now(),
		TotalMB:     uint64(info.Totalram) * unit / mb,
		FreeMB:      uint64(info.Freeram) * unit / mb,
		AvailableMB: (uint64(info.Freeram) + uint64(info.Bufferram)) * unit / mb,
	}
	snap.UsedMB = snap.TotalMB - snap.AvailableMB
	return snap
}
