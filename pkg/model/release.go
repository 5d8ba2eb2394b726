// Package model provides the value types shared by the release providers and
// the download engine: releases and their assets, update candidates, and the
// per-candidate download results.
package model

import (
	"time"

	"github.com/appimage-updater/appimage-updater/pkg/config"
)

// Asset is a single downloadable file attached to a Release. Immutable once
// constructed, except for the ChecksumAsset back-reference attached by the
// provider after all assets are known.
type Asset struct {
	Name      string
	URL       string
	Size      int64
	CreatedAt time.Time

	// ChecksumAsset points at another asset of the same release believed to
	// hold this asset's checksum, associated by filename pattern. Nil when no
	// checksum file was found.
	ChecksumAsset *Asset
}

// Release is one published release of an application. Owned by the provider
// call that produced it; callers only read it.
type Release struct {
	Version     string
	TagName     string
	Name        string
	PublishedAt time.Time
	Assets      []Asset
	Prerelease  bool
	Draft       bool
}

// Candidate is a decided, not-yet-fetched update for one application. Created
// by the orchestrator and consumed exactly once by the download engine, which
// rewrites DownloadPath when the payload is extracted from an archive.
type Candidate struct {
	AppName        string
	CurrentVersion string
	LatestVersion  string
	Asset          Asset
	DownloadPath   string
	IsNewer        bool
	Config         *config.ApplicationConfig

	// ChecksumRequired mirrors the application's checksum.required setting;
	// when set, a verification failure fails the whole candidate.
	ChecksumRequired bool
}

// ChecksumResult records the outcome of one checksum verification.
type ChecksumResult struct {
	Verified     bool
	Expected     string
	Actual       string
	Algorithm    string
	ErrorMessage string
}

// DownloadResult is the terminal state of one Candidate.
type DownloadResult struct {
	AppName      string
	Success      bool
	FilePath     string
	DownloadSize int64
	Duration     time.Duration
	Checksum     *ChecksumResult
	ErrorMessage string
}

// ProgressEvent is published on the event bus while a download streams.
// Fire-and-forget; there is no backpressure contract with subscribers.
type ProgressEvent struct {
	AppName    string
	Filename   string
	Downloaded int64
	Total      int64
	Speed      float64 // bytes per second, instantaneous
}
