package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Storage) {
	t.Helper()

	_, ok, err := s.Get("wishlist")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("wishlist", []byte(`["a"]`)))
	v, ok, err := s.Get("wishlist")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["a"]`, string(v))

	require.NoError(t, s.Set("wishlist", []byte(`["a","b"]`)))
	v, _, _ = s.Get("wishlist")
	assert.Equal(t, `["a","b"]`, string(v))

	require.NoError(t, s.Delete("wishlist"))
	require.NoError(t, s.Delete("wishlist"))
	_, ok, _ = s.Get("wishlist")
	assert.False(t, ok)
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestFile(t *testing.T) {
	s, err := NewFile(t.TempDir(), "device-1")
	require.NoError(t, err)
	exercise(t, s)
}

func TestFile_SurvivesReopen(t *testing.T) {
	root := t.TempDir()
	s, err := NewFile(root, "dev")
	require.NoError(t, err)
	require.NoError(t, s.Set("auth_session", []byte("x")))

	again, err := NewFile(root, "dev")
	require.NoError(t, err)
	v, ok, err := again.Get("auth_session")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x", string(v))
}

func TestFile_RejectsTraversal(t *testing.T) {
	_, err := NewFile(t.TempDir(), "../etc")
	assert.ErrorIs(t, err, ErrInvalidKey)

	s, err := NewFile(t.TempDir(), "dev")
	require.NoError(t, err)
	_, _, err = s.Get("../../passwd")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestFile_DirectoryCreatedOnFirstWriteAndPruned(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "device-2")

	s, err := NewFile(root, "device-2")
	require.NoError(t, err)
	_, ok, err := s.Get("wishlist")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, s.Delete("wishlist"))
	assert.NoDirExists(t, dir)
	require.NoError(t, s.Prune())

	require.NoError(t, s.Set("wishlist", []byte(`[]`)))
	assert.DirExists(t, dir)
	require.NoError(t, s.Prune())
	assert.DirExists(t, dir)

	require.NoError(t, s.Delete("wishlist"))
	require.NoError(t, s.Prune())
	assert.NoDirExists(t, dir)

	// a pruned storage keeps working
	require.NoError(t, s.Set("wishlist", []byte(`["a"]`)))
	v, ok, err := s.Get("wishlist")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `["a"]`, string(v))
}
