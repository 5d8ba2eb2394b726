package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		dst     string
		wantErr bool
	}{
		{name: "empty source", src: "", dst: "x", wantErr: true},
		{name: "empty destination", src: "x", dst: "", wantErr: true},
		{name: "missing source", src: "/nonexistent/file", dst: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Move(tt.src, tt.dst)
			assert.Error(t, err)
		})
	}

	t.Run("moves file within directory", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "app.AppImage")
		dst := filepath.Join(dir, "app.AppImage.current")
		require.NoError(t, os.WriteFile(src, []byte("payload"), FileModeDefault))

		require.NoError(t, Move(src, dst))

		assert.NoFileExists(t, src)
		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(data))
	})

	t.Run("creates destination directory", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "a")
		dst := filepath.Join(dir, "nested", "deep", "b")
		require.NoError(t, os.WriteFile(src, []byte("x"), FileModeDefault))

		require.NoError(t, Move(src, dst))
		assert.FileExists(t, dst)
	})
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")
	require.NoError(t, os.WriteFile(src, []byte("content"), FileModeDefault))

	require.NoError(t, Copy(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))

	// Source stays in place.
	assert.FileExists(t, src)
}

func TestMakeExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin.AppImage")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o644))

	require.NoError(t, MakeExecutable(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	assert.Error(t, MakeExecutable(filepath.Join(dir, "missing")))
}
