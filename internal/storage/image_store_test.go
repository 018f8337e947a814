package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bistro/internal/testutil"
)

func newStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(filepath.Join(t.TempDir(), "uploads"), "/uploads/", DefaultMaxImageBytes)
	require.NoError(t, err)
	return store
}

func TestDiskStore_Validate(t *testing.T) {
	store := newStore(t)

	tests := []struct {
		name     string
		filename string
		content  []byte
		wantErr  error
	}{
		{"png", "dish.png", testutil.PNG(1 << 20), nil},
		{"jpeg upper ext", "dish.JPEG", testutil.JPEG(1024), nil},
		{"jpg", "dish.jpg", testutil.JPEG(1024), nil},
		{"gif", "dish.gif", testutil.GIF(512), nil},
		{"exactly at limit", "dish.png", testutil.PNG(DefaultMaxImageBytes), nil},
		{"too large", "dish.png", testutil.PNG(6 << 20), ErrImageTooLarge},
		{"wrong extension", "dish.txt", testutil.PNG(512), ErrUnsupportedImage},
		{"disguised content", "dish.png", []byte("#!/bin/sh\necho not an image\n"), ErrUnsupportedImage},
		{"no extension", "dish", testutil.PNG(512), ErrUnsupportedImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.Validate(testutil.FileHeader(t, tt.filename, tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDiskStore_SaveAndRemove(t *testing.T) {
	store := newStore(t)
	content := testutil.PNG(4096)

	first, err := store.Save(testutil.FileHeader(t, "Dish.PNG", content))
	require.NoError(t, err)
	second, err := store.Save(testutil.FileHeader(t, "dish.png", content))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "/uploads/"))
	assert.True(t, strings.HasSuffix(first, ".png"))
	assert.True(t, store.Exists(first))

	onDisk, err := os.ReadFile(filepath.Join(store.Dir(), filepath.Base(first)))
	require.NoError(t, err)
	assert.Equal(t, content, onDisk)

	files, err := store.Files()
	require.NoError(t, err)
	assert.Len(t, files, 2)

	require.NoError(t, store.Remove(first))
	assert.False(t, store.Exists(first))
	assert.True(t, store.Exists(second))

	// Removing twice is not an error.
	assert.NoError(t, store.Remove(first))
	assert.NoError(t, store.Remove(""))
}

func TestDiskStore_RemoveStaysInsideDirectory(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(root, "secret.png")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	store, err := NewDiskStore(filepath.Join(root, "uploads"), "/uploads", 0)
	require.NoError(t, err)

	require.NoError(t, store.Remove("/uploads/../secret.png"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
