package rotation

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairBrokenSymlink(t *testing.T) {
	app, dir := testApp(t, 2)
	current := filepath.Join(dir, "MyApp-1.2.0.AppImage.current")
	writeBinary(t, current, "v1")

	// Symlink pointing at a binary that no longer exists.
	require.NoError(t, os.MkdirAll(filepath.Dir(app.SymlinkPath), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(dir, "gone.AppImage.current"), app.SymlinkPath))

	r := NewRotator(".AppImage")
	require.NoError(t, r.Repair(app))

	target, err := os.Readlink(app.SymlinkPath)
	require.NoError(t, err)
	assert.Equal(t, current, target)

	// The sidecar was regenerated with the version from the filename.
	assert.Equal(t, "1.2.0", ReadMetadata(current))
}

func TestRepairPicksNewestBinary(t *testing.T) {
	app, dir := testApp(t, 2)

	older := filepath.Join(dir, "MyApp-1.0.0.AppImage.current")
	newer := filepath.Join(dir, "MyApp-2.0.0.AppImage.current")
	writeBinary(t, older, "v1")
	writeBinary(t, newer, "v2")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	r := NewRotator(".AppImage")
	require.NoError(t, r.Repair(app))

	target, err := os.Readlink(app.SymlinkPath)
	require.NoError(t, err)
	assert.Equal(t, newer, target)
}

func TestRepairPrunesOrphanSidecars(t *testing.T) {
	app, dir := testApp(t, 2)
	current := filepath.Join(dir, "MyApp.AppImage.current")
	writeBinary(t, current, "v1")

	orphan := filepath.Join(dir, "Gone.AppImage.current.info")
	require.NoError(t, os.WriteFile(orphan, []byte("Version: 0.9\n"), 0o644))

	r := NewRotator(".AppImage")
	require.NoError(t, r.Repair(app))

	assert.NoFileExists(t, orphan)
	assert.FileExists(t, InfoPath(current))
}

func TestRepairKeepsLiveSymlinkTarget(t *testing.T) {
	app, dir := testApp(t, 2)
	older := filepath.Join(dir, "MyApp-1.0.0.AppImage.current")
	writeBinary(t, older, "v1")
	newer := filepath.Join(dir, "MyApp-2.0.0.AppImage.current")
	writeBinary(t, newer, "v2")

	// Live symlink explicitly pointing at the older binary stays put.
	require.NoError(t, os.MkdirAll(filepath.Dir(app.SymlinkPath), 0o755))
	require.NoError(t, os.Symlink(older, app.SymlinkPath))

	r := NewRotator(".AppImage")
	require.NoError(t, r.Repair(app))

	target, err := os.Readlink(app.SymlinkPath)
	require.NoError(t, err)
	assert.Equal(t, older, target)
}

func TestRepairIsIdempotent(t *testing.T) {
	app, dir := testApp(t, 2)
	current := filepath.Join(dir, "MyApp-1.2.0.AppImage.current")
	writeBinary(t, current, "v1")

	r := NewRotator(".AppImage")
	require.NoError(t, r.Repair(app))
	require.NoError(t, r.Repair(app))

	target, err := os.Readlink(app.SymlinkPath)
	require.NoError(t, err)
	assert.Equal(t, current, target)
	assert.Equal(t, "1.2.0", ReadMetadata(current))
}

func TestRepairFailsWithoutBinaries(t *testing.T) {
	app, _ := testApp(t, 2)
	r := NewRotator(".AppImage")
	require.Error(t, r.Repair(app))
}
