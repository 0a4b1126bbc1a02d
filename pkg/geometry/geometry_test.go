package geometry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"zooo-feed/pkg/viewport"
)

func TestFrameMobile(t *testing.T) {
	w, h := Frame(viewport.NewSnapshot(360, 640), Params{AspectRatio: 1.5, ChromeOverhead: 40})
	require.Equal(t, 360, w)
	require.Equal(t, 640, h)
}

func TestFrameMobileNarrowHeight(t *testing.T) {
	// (300-40)*1.5 = 390 fits inside 800.
	w, h := Frame(viewport.NewSnapshot(800, 300), Params{AspectRatio: 1.5, ChromeOverhead: 40})
	require.Equal(t, 390, w)
	require.Equal(t, 300, h)
}

func TestFrameDesktop(t *testing.T) {
	w, h := Frame(viewport.NewSnapshot(1920, 1080), Params{AspectRatio: 1.5, ChromeOverhead: 50})
	require.Equal(t, 735, w)
	require.Equal(t, 540, h)
}

func TestFrameDesktopWidthBound(t *testing.T) {
	// capped 1000, derived width (1000-50)*1.5 = 1425 capped to 1100,
	// height floor(1100/1.5)+50 = 783.
	w, h := Frame(viewport.NewSnapshot(1100, 2000), Params{AspectRatio: 1.5, ChromeOverhead: 50})
	require.Equal(t, 1100, w)
	require.Equal(t, 783, h)
}

func TestFrameGuards(t *testing.T) {
	for _, vp := range []viewport.Snapshot{
		viewport.NewSnapshot(0, 0),
		viewport.NewSnapshot(0, 640),
		viewport.NewSnapshot(360, 0),
		viewport.NewSnapshot(-1, 640),
	} {
		w, h := Frame(vp, DefaultParams)
		require.Zero(t, w)
		require.Zero(t, h)
	}

	w, h := Frame(viewport.NewSnapshot(360, 640), Params{AspectRatio: 0, ChromeOverhead: 40})
	require.Zero(t, w)
	require.Zero(t, h)

	// Overhead larger than the height collapses the width instead of going negative.
	w, h = Frame(viewport.NewSnapshot(360, 30), Params{AspectRatio: 1.5, ChromeOverhead: 40})
	require.Equal(t, 0, w)
	require.Equal(t, 30, h)
}

func TestFit(t *testing.T) {
	x, y, w, h := Fit(1920, 1080, 960, 960)
	require.Equal(t, 960, w)
	require.Equal(t, 540, h)
	require.Equal(t, 0, x)
	require.Equal(t, 210, y)

	x, y, w, h = Fit(0, 1080, 960, 960)
	require.Zero(t, x+y+w+h)
}
