package rotation

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/appimage-updater/appimage-updater/internal/logger"
	"github.com/appimage-updater/appimage-updater/pkg/config"
	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/fsutil"
)

const currentSuffix = ".current"

// Rotator performs the promotion of a downloaded binary into the rotation
// scheme. Rotations for the same (directory, basename) pair are serialized
// with a keyed mutex; different applications rotate concurrently.
type Rotator struct {
	extension string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRotator creates a Rotator for binaries with the given extension
// (".AppImage").
func NewRotator(extension string) *Rotator {
	return &Rotator{
		extension: extension,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (r *Rotator) lockFor(dir, base string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dir + "|" + base
	if _, ok := r.locks[key]; !ok {
		r.locks[key] = &sync.Mutex{}
	}
	return r.locks[key]
}

// Rotate promotes downloadedPath to the .current slot of its directory,
// shifting existing history down and trimming beyond retain_count, then
// recreates the symlink. It returns the path of the new .current file.
// app must have rotation enabled and a symlink configured.
func (r *Rotator) Rotate(app *config.ApplicationConfig, downloadedPath string) (string, error) {
	if !app.RotationEnabled || app.SymlinkPath == "" {
		return "", errors.Wrapf(errors.ErrConfigInvalid, "rotation needs rotation_enabled and symlink_path for %s", app.Name)
	}
	retain := app.RetainCount
	if retain < 1 {
		retain = config.DefaultRetainCount
	}

	dir := filepath.Dir(downloadedPath)
	base := filepath.Base(downloadedPath)
	lock := r.lockFor(dir, base)
	lock.Lock()
	defer lock.Unlock()

	// Shift every existing rotation family in the directory, not only the
	// one matching this download's name: filenames change release to
	// release and stale families must keep aging out.
	currents, err := filepath.Glob(filepath.Join(dir, "*"+r.extension+currentSuffix))
	if err != nil {
		return "", errors.Wrap(errors.ErrRotationFailed, err.Error())
	}
	for _, current := range currents {
		if err := r.shiftHistory(current, retain); err != nil {
			return "", err
		}
	}

	currentPath := filepath.Join(dir, base+currentSuffix)
	if err := fsutil.Move(downloadedPath, currentPath); err != nil {
		return "", errors.Wrap(errors.ErrRotationFailed, err.Error())
	}
	if err := moveSidecar(downloadedPath, currentPath); err != nil {
		return "", err
	}

	if err := r.updateSymlink(app.SymlinkPath, currentPath); err != nil {
		return "", err
	}
	logger.Debug("rotation complete", logger.Fields{
		"app":     app.Name,
		"current": currentPath,
		"symlink": app.SymlinkPath,
	})
	return currentPath, nil
}

// shiftHistory ages one rotation family: .oldN moves to .old(N+1) from the
// top down with the overflow slot deleted first, then .current becomes
// .old, then anything beyond retain slots is removed. Every move or delete
// is mirrored on the .info sidecar.
func (r *Rotator) shiftHistory(currentPath string, retain int) error {
	family := strings.TrimSuffix(currentPath, currentSuffix)

	for n := retain; n >= 1; n-- {
		slot := family + oldSuffix(n)
		if _, err := os.Lstat(slot); err != nil {
			continue
		}
		if n+1 > retain {
			removeWithSidecar(slot)
			continue
		}
		next := family + oldSuffix(n+1)
		if err := fsutil.Move(slot, next); err != nil {
			return errors.Wrap(errors.ErrRotationFailed, err.Error())
		}
		if err := moveSidecar(slot, next); err != nil {
			return err
		}
	}

	oldest := family + oldSuffix(1)
	if err := fsutil.Move(currentPath, oldest); err != nil {
		return errors.Wrap(errors.ErrRotationFailed, err.Error())
	}
	if err := moveSidecar(currentPath, oldest); err != nil {
		return err
	}

	r.trimExcess(family, retain)
	return nil
}

// trimExcess removes history slots beyond retain, covering a retain_count
// that shrank between runs.
func (r *Rotator) trimExcess(family string, retain int) {
	slots, err := filepath.Glob(family + ".old*")
	if err != nil {
		return
	}
	for _, slot := range slots {
		if strings.HasSuffix(slot, infoSuffix) {
			continue
		}
		n, ok := oldSlotIndex(slot)
		if ok && n > retain {
			removeWithSidecar(slot)
		}
	}
}

// updateSymlink points symlinkPath at currentPath, replacing an existing
// symlink. A regular file at the symlink path is refused, never deleted.
func (r *Rotator) updateSymlink(symlinkPath, currentPath string) error {
	if info, err := os.Lstat(symlinkPath); err == nil {
		if info.Mode()&os.ModeSymlink == 0 {
			return errors.Wrapf(errors.ErrSymlinkIsFile, "refusing to replace %s", symlinkPath)
		}
		if err := os.Remove(symlinkPath); err != nil {
			return errors.Wrap(errors.ErrRotationFailed, err.Error())
		}
	}
	if err := os.MkdirAll(filepath.Dir(symlinkPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(errors.ErrRotationFailed, err.Error())
	}
	if err := os.Symlink(currentPath, symlinkPath); err != nil {
		return errors.Wrap(errors.ErrRotationFailed, err.Error())
	}
	return nil
}

// oldSuffix names history slot n: ".old" for the newest, ".old2", ".old3"
// and so on for older entries.
func oldSuffix(n int) string {
	if n == 1 {
		return ".old"
	}
	return fmt.Sprintf(".old%d", n)
}

// oldSlotIndex parses the slot number out of a history file path.
func oldSlotIndex(path string) (int, bool) {
	idx := strings.LastIndex(path, ".old")
	if idx < 0 {
		return 0, false
	}
	rest := path[idx+len(".old"):]
	if rest == "" {
		return 1, true
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 2 {
		return 0, false
	}
	return n, true
}

// moveSidecar mirrors a binary move on its .info sidecar. A missing sidecar
// is not an error.
func moveSidecar(oldBinary, newBinary string) error {
	src := InfoPath(oldBinary)
	if _, err := os.Lstat(src); err != nil {
		return nil
	}
	if err := fsutil.Move(src, InfoPath(newBinary)); err != nil {
		return errors.Wrap(errors.ErrRotationFailed, err.Error())
	}
	return nil
}

// removeWithSidecar deletes a rotation file and its sidecar, logging
// failures rather than aborting the rotation.
func removeWithSidecar(path string) {
	for _, p := range []string{path, InfoPath(path)} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove rotation file", logger.Fields{"path": p, "error": err.Error()})
		}
	}
}
