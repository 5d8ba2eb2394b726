// Package provider abstracts the release-hosting backends (GitHub, GitLab,
// SourceForge, direct downloads) behind one contract and selects the right
// backend for an arbitrary URL.
package provider

import (
	"context"
	"sort"
	"strings"

	"github.com/appimage-updater/appimage-updater/pkg/model"
)

const (
	// BinaryExtension is the installable binary extension for this domain.
	BinaryExtension = ".AppImage"

	// prereleaseWindow is how many recent releases are inspected when
	// deciding whether a repository only ever publishes prereleases.
	prereleaseWindow = 10

	// patternReleaseLimit bounds how many releases feed pattern generation.
	patternReleaseLimit = 20
)

//go:generate mockgen -destination=./mocks/provider.go . Provider

// Provider is the contract every release backend implements. Release fetches
// fail with ErrReleaseNotFound when the target has no releases, ErrAuthFailed
// or ErrForbidden on 401/403, and ErrProvider wrapping any other transport or
// decoding failure.
type Provider interface {
	// Name returns the provider's stable identifier ("github", "gitlab", ...).
	Name() string

	// DetectType is a cheap synchronous test of whether this provider's
	// domain or URL-pattern rules claim the URL.
	DetectType(url string) bool

	// ParseRepoURL extracts the repository owner and name from a URL the
	// provider claims. Owner may contain slashes for nested-group hosts.
	ParseRepoURL(url string) (owner, repo string, err error)

	// NormalizeURL turns a user-supplied URL (which may point at a release
	// asset, a releases page, or carry a .git suffix) into the canonical
	// repository URL, reporting whether the input was changed.
	NormalizeURL(url string) (normalized string, wasCorrected bool, err error)

	// GetLatestRelease returns the newest stable (non-prerelease, non-draft)
	// release.
	GetLatestRelease(ctx context.Context, url string) (*model.Release, error)

	// GetLatestReleaseIncludingPrerelease returns the newest non-draft
	// release, prerelease or not.
	GetLatestReleaseIncludingPrerelease(ctx context.Context, url string) (*model.Release, error)

	// GetReleases returns up to limit recent releases, newest first.
	GetReleases(ctx context.Context, url string, limit int) ([]model.Release, error)

	// ShouldEnablePrerelease reports whether the repository publishes only
	// prereleases (continuous-build repositories).
	ShouldEnablePrerelease(ctx context.Context, url string) bool

	// GeneratePatternFromReleases derives a file-matching regex from the
	// repository's real asset names, or returns an error when the assets
	// are unsuitable.
	GeneratePatternFromReleases(ctx context.Context, url string) (string, error)
}

// shouldEnablePrerelease implements ShouldEnablePrerelease on top of
// GetReleases: true only when every one of the most recent releases is a
// prerelease.
func shouldEnablePrerelease(ctx context.Context, p Provider, url string) bool {
	releases, err := p.GetReleases(ctx, url, prereleaseWindow)
	if err != nil || len(releases) == 0 {
		return false
	}
	for _, r := range releases {
		if r.Draft {
			continue
		}
		if !r.Prerelease {
			return false
		}
	}
	return true
}

// patternFromReleases implements GeneratePatternFromReleases on top of
// GetReleases.
func patternFromReleases(ctx context.Context, p Provider, url string) (string, error) {
	releases, err := p.GetReleases(ctx, url, patternReleaseLimit)
	if err != nil {
		return "", err
	}
	return GeneratePattern(releases)
}

// hasBinaryExtension reports whether name ends in the binary extension,
// case-insensitively.
func hasBinaryExtension(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), strings.ToLower(BinaryExtension))
}

// latestStable returns the newest non-draft, non-prerelease release.
func latestStable(releases []model.Release) *model.Release {
	for i := range releases {
		if releases[i].Draft || releases[i].Prerelease {
			continue
		}
		return &releases[i]
	}
	return nil
}

// latestAny returns the newest non-draft release.
func latestAny(releases []model.Release) *model.Release {
	for i := range releases {
		if releases[i].Draft {
			continue
		}
		return &releases[i]
	}
	return nil
}

// sortReleasesNewestFirst orders releases by publish time, newest first.
// Backends that already return sorted results keep their order for ties.
func sortReleasesNewestFirst(releases []model.Release) {
	sort.SliceStable(releases, func(i, j int) bool {
		return releases[i].PublishedAt.After(releases[j].PublishedAt)
	})
}
