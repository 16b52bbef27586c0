package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Put(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, "http://localhost:4000/media/")

	url, err := store.Put(context.Background(), "avatars/pic.png", strings.NewReader("png-bytes"), ContentTypePNG)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/media/avatars/pic.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "pic.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStorage_PutOverwrites(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, "http://cdn")

	_, err := store.Put(context.Background(), "a.jpg", strings.NewReader("first"), ContentTypeJPEG)
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "a.jpg", strings.NewReader("second"), ContentTypeJPEG)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestLocalStorage_InvalidKey(t *testing.T) {
	store := NewLocalStorage(t.TempDir(), "http://cdn")

	for _, key := range []string{"../escape.png", "/etc/passwd", "", "."} {
		t.Run(key, func(t *testing.T) {
			_, err := store.Put(context.Background(), key, strings.NewReader("x"), ContentTypePNG)
			assert.Error(t, err)
		})
	}
}

func TestLocalStorage_Delete(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, "http://cdn")

	_, err := store.Put(context.Background(), "gone.png", strings.NewReader("x"), ContentTypePNG)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), "gone.png"))
	_, err = os.Stat(filepath.Join(dir, "gone.png"))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, store.Delete(context.Background(), "gone.png"))
}

func TestGenerateFileName(t *testing.T) {
	name := GenerateFileName("png")
	assert.True(t, strings.HasSuffix(name, ".png"))
	assert.Len(t, name, 36+4)

	name = GenerateFileName(".jpg")
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, "..")

	assert.Len(t, GenerateFileName(""), 36)
	assert.NotEqual(t, GenerateFileName(".png"), GenerateFileName(".png"))
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
		ok          bool
	}{
		{contentType: "image/jpeg", expected: ".jpg", ok: true},
		{contentType: "image/png", expected: ".png", ok: true},
		{contentType: "image/gif", expected: "", ok: false},
		{contentType: "", expected: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			ext, ok := ExtensionFor(tt.contentType)
			assert.Equal(t, tt.expected, ext)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
