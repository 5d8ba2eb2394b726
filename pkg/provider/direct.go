package provider

import (
	"context"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/httpclient"
	"github.com/appimage-updater/appimage-updater/pkg/model"
)

// Direct is the universal fallback provider: no discovery at all. The URL
// itself is probed (following redirects) and its terminal URL and headers
// become the one synthesized release.
type Direct struct {
	client *httpclient.Client
}

// NewDirect creates a direct-download provider backed by client.
func NewDirect(client *httpclient.Client) *Direct {
	return &Direct{client: client}
}

func (d *Direct) Name() string { return "direct" }

// DetectType claims any http(s) URL; the registry only consults it as the
// last-resort fallback.
func (d *Direct) DetectType(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Hostname() != ""
}

// ParseRepoURL has no repository notion for a direct URL; the host stands in
// for the owner and the filename for the repository.
func (d *Direct) ParseRepoURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", "", errors.Wrap(errors.ErrInvalidURL, rawURL)
	}
	return u.Hostname(), path.Base(u.Path), nil
}

// NormalizeURL is the identity for direct downloads: the URL is the asset.
func (d *Direct) NormalizeURL(rawURL string) (string, bool, error) {
	if _, _, err := d.ParseRepoURL(rawURL); err != nil {
		return "", false, err
	}
	return rawURL, false, nil
}

// GetReleases probes the URL and synthesizes a single release around its
// terminal redirect target.
func (d *Direct) GetReleases(ctx context.Context, rawURL string, _ int) ([]model.Release, error) {
	if _, _, err := d.NormalizeURL(rawURL); err != nil {
		return nil, err
	}
	resp, err := d.client.Head(ctx, rawURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrProvider, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.StatusError(resp.StatusCode)
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	var modified time.Time
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			modified = t
		}
	}

	name := terminalFileName(finalURL)
	asset := model.Asset{
		Name:      name,
		URL:       finalURL,
		Size:      resp.ContentLength,
		CreatedAt: modified,
	}
	release := model.Release{
		Version:     directVersion(name, modified),
		TagName:     directVersion(name, modified),
		PublishedAt: modified,
		Assets:      []model.Asset{asset},
	}
	return []model.Release{release}, nil
}

func terminalFileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return u.Hostname() + BinaryExtension
	}
	return name
}

// directVersion derives a version string for a URL that carries no release
// metadata: a version substring in the filename wins, then the server's
// Last-Modified date.
func directVersion(name string, modified time.Time) string {
	if m := versionInName.FindStringSubmatch(name); m != nil {
		return m[1]
	}
	if !modified.IsZero() {
		return modified.Format("2006-01-02")
	}
	return "latest"
}

func (d *Direct) GetLatestRelease(ctx context.Context, rawURL string) (*model.Release, error) {
	releases, err := d.GetReleases(ctx, rawURL, 1)
	if err != nil {
		return nil, err
	}
	return &releases[0], nil
}

func (d *Direct) GetLatestReleaseIncludingPrerelease(ctx context.Context, rawURL string) (*model.Release, error) {
	return d.GetLatestRelease(ctx, rawURL)
}

// ShouldEnablePrerelease is always false for opaque URLs.
func (d *Direct) ShouldEnablePrerelease(context.Context, string) bool { return false }

// GeneratePatternFromReleases anchors the pattern to the probed filename.
func (d *Direct) GeneratePatternFromReleases(ctx context.Context, rawURL string) (string, error) {
	return patternFromReleases(ctx, d, rawURL)
}

var _ Provider = (*Direct)(nil)
