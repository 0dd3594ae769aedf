package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStorageUpload(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(filepath.Join(dir, "generated-images"), "/generated-images/")

	url, err := store.Upload(context.Background(), "hero-banner.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	require.Equal(t, "/generated-images/hero-banner.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "generated-images", "hero-banner.png"))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(data))
}

func TestLocalStorageStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStorage(dir, "/generated-images")

	url, err := store.Upload(context.Background(), "../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	require.Equal(t, "/generated-images/passwd", url)
	require.FileExists(t, filepath.Join(dir, "passwd"))
}
