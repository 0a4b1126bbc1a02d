package ui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

// tenPerRune pretends every rune is 10px wide.
func tenPerRune(s string) int { return utf8.RuneCountInString(s) * 10 }

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", Truncate("short", 100, tenPerRune))
	require.Equal(t, "abcd…", Truncate("abcdefghij", 50, tenPerRune))
	require.Equal(t, "素晴らし…", Truncate("素晴らしい動画です", 50, tenPerRune))
	require.Equal(t, "…", Truncate("abcdef", 5, tenPerRune))
	require.Equal(t, "anything", Truncate("anything", 0, tenPerRune))
}
