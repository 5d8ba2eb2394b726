// Package download runs the per-candidate fetch pipeline: streaming download
// with retries and progress, archive post-processing, checksum and signature
// verification, version metadata, and rotation hand-off.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/appimage-updater/appimage-updater/internal/logger"
	"github.com/appimage-updater/appimage-updater/pkg/archive"
	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/fsutil"
	"github.com/appimage-updater/appimage-updater/pkg/httpclient"
	"github.com/appimage-updater/appimage-updater/pkg/model"
	"github.com/appimage-updater/appimage-updater/pkg/rotation"
	"github.com/appimage-updater/appimage-updater/pkg/verify"
)

const (
	maxAttempts      = 3
	chunkSize        = 32 * 1024
	progressInterval = 500 * time.Millisecond
)

// ProgressFunc receives fire-and-forget download progress events.
type ProgressFunc func(model.ProgressEvent)

// Engine downloads candidates with bounded concurrency and drives each one
// through the full verification and rotation pipeline.
type Engine struct {
	client      *httpclient.Client
	rotator     *rotation.Rotator
	concurrency int
	progress    ProgressFunc

	// test hook: retry back-off sleeper
	sleep func(time.Duration)
}

// Option customizes an Engine.
type Option func(*Engine)

// WithProgress installs a progress event sink.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) { e.progress = fn }
}

// NewEngine creates an Engine. concurrency bounds how many downloads are in
// flight at once.
func NewEngine(client *httpclient.Client, rotator *rotation.Rotator, concurrency int, opts ...Option) *Engine {
	if concurrency < 1 {
		concurrency = 1
	}
	e := &Engine{
		client:      client,
		rotator:     rotator,
		concurrency: concurrency,
		sleep:       time.Sleep,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// DownloadAll runs every candidate through the pipeline, at most
// e.concurrency at a time. Results are gathered after every candidate has
// reached a terminal state; one candidate's failure never cancels the
// others.
func (e *Engine) DownloadAll(ctx context.Context, candidates []model.Candidate) []model.DownloadResult {
	results := make([]model.DownloadResult, len(candidates))
	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i := range candidates {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[idx] = e.Download(ctx, &candidates[idx])
		}(i)
	}
	wg.Wait()
	return results
}

// Download runs one candidate through download, post-process, verify,
// metadata, and rotation.
func (e *Engine) Download(ctx context.Context, candidate *model.Candidate) model.DownloadResult {
	start := time.Now()
	result := model.DownloadResult{AppName: candidate.AppName}

	fail := func(err error) model.DownloadResult {
		result.Success = false
		result.ErrorMessage = err.Error()
		result.Duration = time.Since(start)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(candidate.DownloadPath), fsutil.DirModeDefault); err != nil {
		return fail(errors.Wrap(err, "create download directory"))
	}

	size, err := e.fetchWithRetry(ctx, candidate)
	if err != nil {
		return fail(err)
	}
	result.DownloadSize = size

	if err := e.postProcess(ctx, candidate); err != nil {
		return fail(err)
	}

	checksum, err := e.verifyChecksum(ctx, candidate)
	result.Checksum = checksum
	if err != nil {
		return fail(err)
	}

	if err := e.verifySignature(ctx, candidate); err != nil {
		return fail(err)
	}

	e.writeMetadata(candidate)

	result.FilePath = e.rotate(candidate)
	result.Success = true
	result.Duration = time.Since(start)
	return result
}

// fetchWithRetry streams the asset to the candidate's download path, up to
// maxAttempts times with exponential back-off. Partial files are deleted
// before each retry.
func (e *Engine) fetchWithRetry(ctx context.Context, candidate *model.Candidate) (int64, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		size, err := e.fetch(ctx, candidate)
		if err == nil {
			return size, nil
		}
		lastErr = err
		_ = os.Remove(candidate.DownloadPath)
		if attempt < maxAttempts {
			backoff := time.Duration(1<<attempt) * time.Second
			logger.Warn("download attempt failed, retrying", logger.Fields{
				"app":     candidate.AppName,
				"attempt": attempt,
				"backoff": backoff.String(),
				"error":   err.Error(),
			})
			e.sleep(backoff)
		}
	}
	return 0, errors.Wrapf(errors.ErrDownloadFailed, "%s after %d attempts: %s",
		candidate.Asset.URL, maxAttempts, lastErr)
}

// fetch performs a single streaming download attempt. The target is opened
// with O_TRUNC so a stale partial file from a previous run is clobbered.
func (e *Engine) fetch(ctx context.Context, candidate *model.Candidate) (int64, error) {
	resp, err := e.client.Get(ctx, candidate.Asset.URL)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = candidate.Asset.Size
	}

	out, err := os.OpenFile(candidate.DownloadPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return 0, err
	}

	tracker := newProgressTracker(candidate, total, e.progress)
	buf := make([]byte, chunkSize)
	var written int64
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			if _, writeErr := out.Write(buf[:n]); writeErr != nil {
				_ = out.Close()
				return 0, writeErr
			}
			written += int64(n)
			tracker.advance(int64(n))
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = out.Close()
			return 0, readErr
		}
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	tracker.finish()
	return written, nil
}

// postProcess extracts archives and makes the final binary executable, and
// updates the candidate's path to the payload file.
func (e *Engine) postProcess(ctx context.Context, candidate *model.Candidate) error {
	if archive.IsArchive(candidate.DownloadPath) {
		extracted, err := archive.ExtractBinary(ctx, candidate.DownloadPath, ".AppImage")
		if err != nil {
			return err
		}
		candidate.DownloadPath = extracted
		return nil
	}
	return fsutil.MakeExecutable(candidate.DownloadPath)
}

// verifyChecksum downloads the associated checksum file, parses the expected
// digest, and compares. Mismatches fail the candidate only when checksum
// verification is required; otherwise they are recorded on the result.
func (e *Engine) verifyChecksum(ctx context.Context, candidate *model.Candidate) (*model.ChecksumResult, error) {
	checksumAsset := candidate.Asset.ChecksumAsset
	if checksumAsset == nil || (candidate.Config != nil && !candidate.Config.Checksum.Enabled) {
		return nil, nil
	}

	tmp, err := os.CreateTemp(filepath.Dir(candidate.DownloadPath), ".checksum-*")
	if err != nil {
		return nil, errors.Wrap(err, "create checksum temp file")
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := e.fetchTo(ctx, checksumAsset.URL, tmpPath); err != nil {
		return nil, errors.Wrap(err, "download checksum file")
	}
	data, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, errors.Wrap(err, "read checksum file")
	}

	algo := verify.AlgorithmFromFilename(checksumAsset.Name)
	if cfg := candidate.Config; cfg != nil && cfg.Checksum.Algorithm != "" {
		algo = strings.ToLower(cfg.Checksum.Algorithm)
	}
	targetName := filepath.Base(candidate.DownloadPath)
	expected, err := verify.ParseExpectedChecksum(data, algo, targetName)
	if err != nil {
		if candidate.ChecksumRequired {
			return nil, errors.Wrap(errors.ErrChecksumMismatch, err.Error())
		}
		logger.Warn("checksum file unusable", logger.Fields{"app": candidate.AppName, "error": err.Error()})
		return &model.ChecksumResult{Algorithm: algo, ErrorMessage: err.Error()}, nil
	}

	result := verify.VerifyFile(candidate.DownloadPath, expected, algo)
	if !result.Verified {
		if candidate.ChecksumRequired {
			return result, errors.Wrapf(errors.ErrChecksumMismatch, "%s: %s", candidate.AppName, result.ErrorMessage)
		}
		logger.Warn("checksum mismatch (not required)", logger.Fields{
			"app":      candidate.AppName,
			"expected": result.Expected,
			"actual":   result.Actual,
		})
	}
	return result, nil
}

// verifySignature checks a configured minisign signature against the
// published .minisig sidecar of the asset.
func (e *Engine) verifySignature(ctx context.Context, candidate *model.Candidate) error {
	cfg := candidate.Config
	if cfg == nil || !cfg.Signature.Enabled || cfg.Signature.PublicKey == "" {
		return nil
	}

	sigPath := candidate.DownloadPath + ".minisig"
	if err := e.fetchTo(ctx, candidate.Asset.URL+".minisig", sigPath); err != nil {
		return errors.Wrap(errors.ErrSignatureInvalid, err.Error())
	}
	defer func() { _ = os.Remove(sigPath) }()

	if err := verify.VerifySignature(candidate.DownloadPath, sigPath, cfg.Signature.PublicKey); err != nil {
		return err
	}
	logger.Debug("signature verified", logger.Fields{"app": candidate.AppName})
	return nil
}

// fetchTo downloads url to path without retries or progress; used for the
// small checksum and signature sidecars.
func (e *Engine) fetchTo(ctx context.Context, url, path string) error {
	resp, err := e.client.Get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// writeMetadata records the installed version next to the binary. Nightly
// version strings are replaced by the asset's creation date. Failures are
// logged, never fatal.
func (e *Engine) writeMetadata(candidate *model.Candidate) {
	version := candidate.LatestVersion
	if model.IsNightlyVersion(version) && !candidate.Asset.CreatedAt.IsZero() {
		version = candidate.Asset.CreatedAt.Format("2006-01-02")
	}
	if err := rotation.WriteMetadata(candidate.DownloadPath, version); err != nil {
		logger.Warn("failed to write version metadata", logger.Fields{
			"app":   candidate.AppName,
			"error": err.Error(),
		})
	}
}

// rotate promotes the download when rotation is configured. A rotation
// failure degrades to the pre-rotation path: the artifact was fetched
// successfully, only promotion failed.
func (e *Engine) rotate(candidate *model.Candidate) string {
	cfg := candidate.Config
	if cfg == nil || !cfg.RotationEnabled || cfg.SymlinkPath == "" || e.rotator == nil {
		return candidate.DownloadPath
	}
	currentPath, err := e.rotator.Rotate(cfg, candidate.DownloadPath)
	if err != nil {
		logger.Error("rotation failed, keeping un-rotated file", logger.Fields{
			"app":   candidate.AppName,
			"path":  candidate.DownloadPath,
			"error": err.Error(),
		})
		return candidate.DownloadPath
	}
	return currentPath
}
