// Package archive extracts installable binaries out of downloaded release
// archives.
package archive

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"

	"github.com/appimage-updater/appimage-updater/internal/logger"
	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/fsutil"
)

// archiveExtensions are the download formats release authors wrap binaries
// in. Longer suffixes are listed first so ".tar.gz" wins over ".gz".
var archiveExtensions = []string{
	".tar.gz", ".tar.xz", ".tar.bz2", ".tgz", ".txz",
	".zip", ".tar", ".gz", ".xz", ".bz2", ".7z",
}

// IsArchive reports whether the filename looks like a supported archive.
func IsArchive(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range archiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// ExtractBinary locates the single file with the given extension inside the
// archive at archivePath, extracts it next to the archive, marks it
// executable, deletes the archive, and returns the extracted file's path.
// When several entries match, the first is taken with a warning; when none
// match, the error lists the archive's top-level contents.
func ExtractBinary(ctx context.Context, archivePath, extension string) (string, error) {
	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		return "", errors.Wrap(errors.ErrExtractionFailed, err.Error())
	}
	defer func() {
		if closer, ok := fsys.(io.Closer); ok {
			_ = closer.Close()
		}
	}()

	matches, contents, err := findEntries(fsys, extension)
	if err != nil {
		return "", errors.Wrap(errors.ErrExtractionFailed, err.Error())
	}
	if len(matches) == 0 {
		return "", errors.Wrapf(errors.ErrExtractionFailed,
			"no %s file in %s (contents: %s)", extension, filepath.Base(archivePath), strings.Join(contents, ", "))
	}
	if len(matches) > 1 {
		logger.Warn("multiple binaries in archive, taking the first", logger.Fields{
			"archive": filepath.Base(archivePath),
			"chosen":  matches[0],
			"count":   len(matches),
		})
	}

	entry := matches[0]
	destPath := filepath.Join(filepath.Dir(archivePath), filepath.Base(entry))
	if err := extractEntry(fsys, entry, destPath); err != nil {
		return "", errors.Wrap(errors.ErrExtractionFailed, err.Error())
	}
	if err := fsutil.MakeExecutable(destPath); err != nil {
		return "", errors.Wrap(err, "mark extracted binary executable")
	}
	if err := os.Remove(archivePath); err != nil {
		logger.Warn("failed to remove extracted archive", logger.Fields{
			"archive": archivePath,
			"error":   err.Error(),
		})
	}
	return destPath, nil
}

// findEntries walks the archive filesystem collecting entries with the
// wanted extension, plus the top-level names for error reporting.
func findEntries(fsys fs.FS, extension string) (matches, topLevel []string, err error) {
	lowerExt := strings.ToLower(extension)
	err = fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == "." {
			return nil
		}
		if !strings.Contains(path, "/") {
			topLevel = append(topLevel, d.Name())
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), lowerExt) {
			matches = append(matches, path)
		}
		return nil
	})
	return matches, topLevel, err
}

func extractEntry(fsys fs.FS, entry, destPath string) error {
	src, err := fsys.Open(entry)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(destPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(destPath)
		return err
	}
	return dst.Close()
}
