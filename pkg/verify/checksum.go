// Package verify implements integrity checking for downloaded files: parsing
// the common checksum-file layouts, computing streaming digests, and optional
// minisign signature verification.
package verify

import (
	"crypto/md5"  //nolint:gosec // legacy checksum files
	"crypto/sha1" //nolint:gosec // legacy checksum files
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/model"
)

// digest block size for streaming file hashes.
const hashBlockSize = 64 * 1024

// AlgorithmFromFilename guesses the checksum algorithm from a checksum file's
// name: "sha1" and "md5" markers are honored, everything else is sha256.
func AlgorithmFromFilename(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "sha1"):
		return "sha1"
	case strings.Contains(lower, "md5"):
		return "md5"
	default:
		return "sha256"
	}
}

// digestLength returns the hex length of a digest for algo, or 0 when
// unconstrained.
func digestLength(algo string) int {
	switch strings.ToLower(algo) {
	case "md5":
		return 32
	case "sha1":
		return 40
	case "sha256":
		return 64
	default:
		return 0
	}
}

func newHasher(algo string) (hash.Hash, error) {
	switch strings.ToLower(algo) {
	case "md5":
		return md5.New(), nil //nolint:gosec
	case "sha1":
		return sha1.New(), nil //nolint:gosec
	case "sha256":
		return sha256.New(), nil
	default:
		return nil, fmt.Errorf("unsupported checksum algorithm %q", algo)
	}
}

// ParseExpectedChecksum extracts the digest for targetName from the contents
// of a checksum file. Supported layouts are a bare hex digest (32/40/64
// characters) and coreutils-style "hash  filename" lines, where the filename
// may carry a leading '*' (binary mode marker) and matches the target either
// exactly or by suffix. Matching is case-insensitive on the digest.
func ParseExpectedChecksum(data []byte, algo, targetName string) (string, error) {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("checksum file is empty")
	}

	wantLen := digestLength(algo)
	if isHexDigest(text, wantLen) {
		return strings.ToLower(text), nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			// A bare digest on its own line.
			if isHexDigest(line, wantLen) {
				return strings.ToLower(line), nil
			}
			continue
		}
		digest := fields[0]
		if !isHexDigest(digest, wantLen) {
			continue
		}
		candidate := strings.TrimPrefix(fields[len(fields)-1], "*")
		if matchesTarget(candidate, targetName) {
			return strings.ToLower(digest), nil
		}
	}

	return "", fmt.Errorf("checksum for %s not found", targetName)
}

func matchesTarget(candidate, target string) bool {
	candidate = filepath.Base(candidate)
	return candidate == target || strings.HasSuffix(target, candidate) || strings.HasSuffix(candidate, target)
}

// FileDigest computes the hex digest of the file at path, streaming it in
// fixed-size blocks.
func FileDigest(path, algo string) (string, error) {
	hasher, err := newHasher(algo)
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "open for checksum")
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, hashBlockSize)
	if _, err := io.CopyBuffer(hasher, f, buf); err != nil {
		return "", errors.Wrap(err, "hashing")
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifyFile compares the file at path against the expected digest and
// returns a ChecksumResult. The comparison is case-insensitive.
func VerifyFile(path, expected, algo string) *model.ChecksumResult {
	result := &model.ChecksumResult{
		Algorithm: strings.ToLower(algo),
		Expected:  strings.ToLower(strings.TrimSpace(expected)),
	}
	actual, err := FileDigest(path, algo)
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}
	result.Actual = actual
	result.Verified = result.Actual == result.Expected
	if !result.Verified && result.ErrorMessage == "" {
		result.ErrorMessage = fmt.Sprintf("expected %s, got %s", result.Expected, result.Actual)
	}
	return result
}

func isHexDigest(value string, expectedLen int) bool {
	if expectedLen > 0 && len(value) != expectedLen {
		return false
	}
	if expectedLen == 0 {
		switch len(value) {
		case 32, 40, 64:
		default:
			return false
		}
	}
	for _, ch := range value {
		if (ch < '0' || ch > '9') && (ch < 'a' || ch > 'f') && (ch < 'A' || ch > 'F') {
			return false
		}
	}
	return true
}
