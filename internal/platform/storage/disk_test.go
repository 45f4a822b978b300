package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "img")
	store, err := NewDiskStorage(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("img-1-photo.jpg", []byte("data"), 0))

	got, err := store.Get("img-1-photo.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), got)

	_, err = os.Stat(filepath.Join(dir, "img-1-photo.jpg"))
	assert.NoError(t, err)

	missing, err := store.Get("nope.jpg")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, store.Delete("img-1-photo.jpg"))
	require.NoError(t, store.Delete("img-1-photo.jpg"), "deleting twice is not an error")

	got, err = store.Get("img-1-photo.jpg")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDiskStorageLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStorage(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("a.png", []byte("a"), 0))
	require.NoError(t, store.Set("a.png", []byte("b"), 0))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.png", entries[0].Name())
}

func TestDiskStorageReset(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStorage(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("a.png", []byte("a"), 0))
	require.NoError(t, store.Set("b.png", []byte("b"), 0))
	require.NoError(t, store.Reset())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIsValidKey(t *testing.T) {
	testCases := []struct {
		key      string
		expected bool
	}{
		{"img-abc-photo.jpg", true},
		{"photo", true},
		{"", false},
		{".", false},
		{"..", false},
		{"../etc/passwd", false},
		{"dir/photo.jpg", false},
		{`dir\photo.jpg`, false},
		{"a..b.jpg", false},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsValidKey(tc.key))
		})
	}
}

func TestDiskStorageRejectsTraversal(t *testing.T) {
	store, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	assert.ErrorIs(t, store.Set("../escape.jpg", []byte("x"), 0), ErrInvalidKey)
	_, err = store.Get("../escape.jpg")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
