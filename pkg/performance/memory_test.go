package performance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMeminfo = `MemTotal:        8052340 kB
MemFree:          512000 kB
MemAvailable:    3145728 kB
Buffers:          102400 kB
Cached:          2048000 kB
HugePages_Total:       0
`

func TestParseMeminfo(t *testing.T) {
	snap, err := parseMeminfo(strings.NewReader(sampleMeminfo))
	require.NoError(t, err)
	require.EqualValues(t, 7863, snap.TotalMB)
	require.EqualValues(t, 3072, snap.AvailableMB)
	require.EqualValues(t, 500, snap.FreeMB)
	require.EqualValues(t, 7863-3072, snap.UsedMB)
}

func TestParseMeminfoWithoutAvailable(t *testing.T) {
	_, err := parseMeminfo(strings.NewReader("MemTotal: 1024 kB\nMemFree: 512 kB\n"))
	require.Error(t, err)
}

func TestPressureFor(t *testing.T) {
	cases := map[uint64]MemoryPressureLevel{
		50:   MemoryPressureCritical,
		150:  MemoryPressureHigh,
		300:  MemoryPressureMedium,
		600:  MemoryPressureLow,
		4096: MemoryPressureNone,
	}
	for mb, want := range cases {
		require.Equal(t, want, PressureFor(mb), "%d MB", mb)
	}
	require.True(t, MemoryPressureHigh.Starved())
	require.False(t, MemoryPressureMedium.Starved())
	require.Equal(t, "critical", MemoryPressureCritical.String())
}
