package archive

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
)

func TestIsArchive(t *testing.T) {
	tests := []struct {
		name string
		file string
		want bool
	}{
		{name: "zip", file: "app.zip", want: true},
		{name: "tar.gz", file: "app.tar.gz", want: true},
		{name: "uppercase zip", file: "APP.ZIP", want: true},
		{name: "appimage is not an archive", file: "app.AppImage", want: false},
		{name: "plain binary", file: "app", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsArchive(tt.file))
		})
	}
}

// writeZip creates a zip at path containing the given name->content entries.
func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
}

func TestExtractBinary(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.zip")
	writeZip(t, archivePath, map[string]string{
		"MyApp-1.0.AppImage": "binary bytes",
		"README.md":          "docs",
	})

	extracted, err := ExtractBinary(context.Background(), archivePath, ".AppImage")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MyApp-1.0.AppImage"), extracted)

	content, err := os.ReadFile(extracted)
	require.NoError(t, err)
	assert.Equal(t, "binary bytes", string(content))

	info, err := os.Stat(extracted)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o111, "extracted binary must be executable")

	_, err = os.Stat(archivePath)
	assert.True(t, os.IsNotExist(err), "archive must be deleted after extraction")
}

func TestExtractBinaryNested(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.zip")
	writeZip(t, archivePath, map[string]string{
		"dist/MyApp.AppImage": "nested binary",
	})

	extracted, err := ExtractBinary(context.Background(), archivePath, ".AppImage")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "MyApp.AppImage"), extracted)
}

func TestExtractBinaryNoMatchListsContents(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.zip")
	writeZip(t, archivePath, map[string]string{
		"README.md": "docs",
		"LICENSE":   "license",
	})

	_, err := ExtractBinary(context.Background(), archivePath, ".AppImage")
	require.ErrorIs(t, err, errors.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "README.md")

	// The archive survives a failed extraction.
	_, statErr := os.Stat(archivePath)
	assert.NoError(t, statErr)
}

func TestExtractBinaryCaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "release.zip")
	writeZip(t, archivePath, map[string]string{
		"myapp.appimage": "lowercase binary",
	})

	extracted, err := ExtractBinary(context.Background(), archivePath, ".AppImage")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "myapp.appimage"), extracted)
}
