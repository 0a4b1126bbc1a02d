package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreRoundTripAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "local.db")

	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.Get("missing")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetMany(map[string]string{"a": "1", "b": "2"}))
	v, err := s.Get("a")
	require.NoError(t, err)
	require.Equal(t, "1", v)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	v, err = s.Get("b")
	require.NoError(t, err)
	require.Equal(t, "2", v)

	require.NoError(t, s.Delete("b", "never-written"))
	_, err = s.Get("b")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	_, err := m.Get("x")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, m.SetMany(map[string]string{"x": "y"}))
	v, err := m.Get("x")
	require.NoError(t, err)
	require.Equal(t, "y", v)
}
