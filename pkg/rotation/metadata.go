// Package rotation promotes freshly downloaded binaries into the
// .current/.old history scheme with a managed symlink, and repairs
// directories that have drifted from it.
package rotation

import (
	"os"
	"strings"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/fsutil"
)

const (
	infoSuffix    = ".info"
	versionPrefix = "Version: "
)

// InfoPath returns the metadata sidecar path for a binary.
func InfoPath(binaryPath string) string {
	return binaryPath + infoSuffix
}

// WriteMetadata writes the single-line version sidecar next to binaryPath.
func WriteMetadata(binaryPath, version string) error {
	content := versionPrefix + version + "\n"
	if err := os.WriteFile(InfoPath(binaryPath), []byte(content), fsutil.FileModeDefault); err != nil {
		return errors.Wrap(err, "write version metadata")
	}
	return nil
}

// ReadMetadata reads the version recorded in a binary's sidecar. A missing
// or malformed sidecar yields an empty version without error; the caller
// treats that as "unknown, update".
func ReadMetadata(binaryPath string) string {
	data, err := os.ReadFile(InfoPath(binaryPath))
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, versionPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(line, versionPrefix))
}
