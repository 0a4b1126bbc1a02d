//go:build darwin

package performance

import (
	"encoding/binary"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
)

// GetSystemMemory takes the installed memory from sysctl hw.memsize and
// estimates availability from what the Go runtime holds. Darwin has no
// cheap system-wide "available" figure.
func GetSystemMemory() MemorySnapshot {
	const mb = 1 << 20
	totalMB := uint64(2048)
	if raw, err := syscall.Sysctl("hw.memsize"); err == nil {
		buf := []byte(raw)
		// Sysctl trims a trailing NUL byte
		for len(buf) < 8 {
			buf = append(buf, 0)
		}
		totalMB = binary.LittleEndian.Uint64(buf[:8]) / mb
	} else {
		log.WithError(err).Debug("sysctl hw.memsize failed, assuming 2GB")
	}

	goMem := GetGoMemory()
	used := goMem.SysMB
	if used > totalMB {
		used = totalMB
	}
	return MemorySnapshot{
		Timestamp:   time.Now(),
		TotalMB:     totalMB,
		AvailableMB: totalMB - used,
		UsedMB:      used,
		FreeMB:      totalMB - used,
	}
}
