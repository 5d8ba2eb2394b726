// Package errors defines the sentinel error values shared across the updater
// and small helpers for wrapping errors with context. Callers compare against
// the sentinels with errors.Is and add context with Wrap/Wrapf as errors
// propagate up the call stack.
package errors

import "fmt"

// Provider errors are returned by the release backends (GitHub, GitLab,
// SourceForge, direct download) and inspected by the registry to decide
// whether to forget a learned domain.
var (
	// ErrReleaseNotFound is returned when a repository exists but has no
	// releases, or when the repository itself cannot be found.
	ErrReleaseNotFound = fmt.Errorf("no release found")

	// ErrAuthFailed is returned on HTTP 401 from a release API.
	ErrAuthFailed = fmt.Errorf("authentication failed")

	// ErrForbidden is returned on HTTP 403, typically rate limiting.
	ErrForbidden = fmt.Errorf("access forbidden")

	// ErrProvider wraps any other transport or decoding failure from a
	// release backend.
	ErrProvider = fmt.Errorf("provider error")

	// ErrNoProviderFound is returned when no provider claims a URL and the
	// direct-download fallback is disabled.
	ErrNoProviderFound = fmt.Errorf("no provider found for URL")

	// ErrNoAssetMatch is returned when a release has no asset matching the
	// application's file pattern.
	ErrNoAssetMatch = fmt.Errorf("no asset matches pattern")

	// ErrInvalidURL is returned when a repository URL cannot be parsed.
	ErrInvalidURL = fmt.Errorf("invalid repository URL")
)

// Download and promotion errors.
var (
	// ErrDownloadFailed is returned after all retry attempts for a
	// candidate are exhausted.
	ErrDownloadFailed = fmt.Errorf("download failed")

	// ErrChecksumMismatch is returned when required checksum verification
	// fails for a downloaded file.
	ErrChecksumMismatch = fmt.Errorf("checksum mismatch")

	// ErrSignatureInvalid is returned when minisign verification of a
	// downloaded file fails.
	ErrSignatureInvalid = fmt.Errorf("signature verification failed")

	// ErrExtractionFailed is returned when an archive cannot be read or
	// contains no matching binary.
	ErrExtractionFailed = fmt.Errorf("archive extraction failed")

	// ErrRotationFailed is returned when promoting a downloaded file into
	// the rotation scheme fails. The download itself is still usable.
	ErrRotationFailed = fmt.Errorf("rotation failed")

	// ErrSymlinkIsFile is returned when the configured symlink path is an
	// existing regular file. It is never silently overwritten. It wraps
	// ErrRotationFailed so callers classifying promotion failures match it.
	ErrSymlinkIsFile = fmt.Errorf("%w: symlink path is a regular file", ErrRotationFailed)
)

// Config errors mirror the validation failures of the configuration layer.
var (
	ErrEmptyConfigPath  = fmt.Errorf("config file path cannot be empty")
	ErrConfigParse      = fmt.Errorf("failed to parse config")
	ErrConfigValidation = fmt.Errorf("invalid configuration")
	ErrConfigEncode     = fmt.Errorf("failed to encode config")
	ErrAppNotFound      = fmt.Errorf("application not found")
	ErrAppExists        = fmt.Errorf("application already exists")

	// ErrConfigInvalid is returned for semantically bad application
	// configuration, e.g. rotation enabled without a symlink path.
	ErrConfigInvalid = fmt.Errorf("invalid application configuration")
)

// Hook errors.
var (
	ErrHookExecution = fmt.Errorf("error executing hook")
	ErrHookScript    = fmt.Errorf("hook script error")
	ErrHookLoad      = fmt.Errorf("failed to load hook")
)

// Wrap wraps an error with additional context.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Wrapf wraps an error with additional formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
