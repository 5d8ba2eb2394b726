package rotation

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/appimage-updater/appimage-updater/internal/logger"
	"github.com/appimage-updater/appimage-updater/pkg/config"
	"github.com/appimage-updater/appimage-updater/pkg/errors"
)

// filenameVersion extracts a version-looking substring from a binary name
// when regenerating a lost sidecar.
var filenameVersion = regexp.MustCompile(`(?i)v?(\d+(?:\.\d+){1,3})`)

// Repair reconciles a drifted symlink/directory pair: it removes a broken
// symlink, settles on the best current binary (the symlink target when
// alive, otherwise the most recently modified matching binary), regenerates
// its version sidecar, prunes orphaned .current.info files, and recreates
// the symlink. Safe to run repeatedly.
func (r *Rotator) Repair(app *config.ApplicationConfig) error {
	if app.SymlinkPath == "" {
		return errors.Wrapf(errors.ErrConfigInvalid, "repair needs symlink_path for %s", app.Name)
	}
	dir := app.DownloadDir
	lock := r.lockFor(dir, app.Name)
	lock.Lock()
	defer lock.Unlock()

	current := r.resolveSymlinkTarget(app.SymlinkPath)
	if current == "" {
		var err error
		current, err = r.newestBinary(dir)
		if err != nil {
			return err
		}
	}

	if ReadMetadata(current) == "" {
		version := "unknown"
		if m := filenameVersion.FindStringSubmatch(filepath.Base(current)); m != nil {
			version = m[1]
		}
		if err := WriteMetadata(current, version); err != nil {
			return err
		}
	}

	r.pruneOrphanSidecars(dir)
	return r.updateSymlink(app.SymlinkPath, current)
}

// resolveSymlinkTarget returns the symlink's target when it is a live
// symlink, removing it when broken. Empty means no usable target.
func (r *Rotator) resolveSymlinkTarget(symlinkPath string) string {
	info, err := os.Lstat(symlinkPath)
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return ""
	}
	target, err := os.Readlink(symlinkPath)
	if err != nil {
		return ""
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(symlinkPath), target)
	}
	if _, err := os.Stat(target); err != nil {
		logger.Debug("removing broken symlink", logger.Fields{"symlink": symlinkPath, "target": target})
		_ = os.Remove(symlinkPath)
		return ""
	}
	return target
}

// newestBinary picks the most recently modified binary in dir, preferring
// .current files over plain ones.
func (r *Rotator) newestBinary(dir string) (string, error) {
	patterns := []string{
		filepath.Join(dir, "*"+r.extension+currentSuffix),
		filepath.Join(dir, "*"+r.extension),
	}
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		if best := newestOf(matches); best != "" {
			return best, nil
		}
	}
	return "", errors.Wrapf(errors.ErrRotationFailed, "no %s binary found in %s", r.extension, dir)
}

func newestOf(paths []string) string {
	var best string
	var bestMod int64
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if mod := info.ModTime().UnixNano(); best == "" || mod > bestMod {
			best, bestMod = p, mod
		}
	}
	return best
}

// pruneOrphanSidecars deletes .current.info files whose .current binary no
// longer exists.
func (r *Rotator) pruneOrphanSidecars(dir string) {
	sidecars, err := filepath.Glob(filepath.Join(dir, "*"+currentSuffix+infoSuffix))
	if err != nil {
		return
	}
	for _, sidecar := range sidecars {
		binary := strings.TrimSuffix(sidecar, infoSuffix)
		if _, err := os.Stat(binary); os.IsNotExist(err) {
			logger.Debug("removing orphaned sidecar", logger.Fields{"sidecar": sidecar})
			_ = os.Remove(sidecar)
		}
	}
}
