package performance

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// parseMeminfo reads a /proc/meminfo style listing ("MemTotal:  8000 kB").
// MemAvailable is required; kernels older than 3.14 lack it and callers fall
// back to sysinfo.
func parseMeminfo(r io.Reader) (MemorySnapshot, error) {
	fields := map[string]uint64{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		name, rest, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		parts := strings.Fields(rest)
		if len(parts) == 0 {
			continue
		}
		kb, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			continue
		}
		fields[name] = kb
	}
	if err := sc.Err(); err != nil {
		return MemorySnapshot{}, err
	}

	total, okTotal := fields["MemTotal"]
	avail, okAvail := fields["MemAvailable"]
	if !okTotal || !okAvail {
		return MemorySnapshot{}, fmt.Errorf("meminfo: MemTotal or MemAvailable missing")
	}
	snap := MemorySnapshot{
		Timestamp:   time.Now(),
		TotalMB:     total / 1024,
		AvailableMB: avail / 1024,
		FreeMB:      fields["MemFree"] / 1024,
	}
	if snap.TotalMB > snap.AvailableMB {
		snap.UsedMB = snap.TotalMB - snap.AvailableMB
	}
	return snap, nil
}
