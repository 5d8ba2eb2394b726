package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/httpclient"
	"github.com/appimage-updater/appimage-updater/pkg/model"
)

// GitLab fetches releases through the GitLab REST API (v4). Project paths
// may contain nested groups, so the "owner" side of a project is everything
// up to the final path element.
type GitLab struct {
	client  *httpclient.Client
	apiHost string
}

// GitLabOption customizes a GitLab provider.
type GitLabOption func(*GitLab)

// WithGitLabHost overrides the instance host, mainly for tests and
// self-hosted instances.
func WithGitLabHost(host string) GitLabOption {
	return func(g *GitLab) { g.apiHost = strings.TrimRight(host, "/") }
}

// NewGitLab creates a GitLab provider backed by client.
func NewGitLab(client *httpclient.Client, opts ...GitLabOption) *GitLab {
	g := &GitLab{client: client, apiHost: "https://gitlab.com"}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GitLab) Name() string { return "gitlab" }

// DetectType claims any host whose name contains "gitlab", which covers
// gitlab.com and the common self-hosted naming convention.
func (g *GitLab) DetectType(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(u.Hostname()), "gitlab")
}

// ParseRepoURL splits a GitLab project path into its group path and project
// name. For nested groups the owner keeps its internal slashes.
func (g *GitLab) ParseRepoURL(rawURL string) (string, string, error) {
	normalized, _, err := g.NormalizeURL(rawURL)
	if err != nil {
		return "", "", err
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrInvalidURL, rawURL)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 {
		return "", "", errors.Wrapf(errors.ErrInvalidURL, "no project path in %s", rawURL)
	}
	return strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1], nil
}

// NormalizeURL canonicalizes a GitLab URL to the bare project URL, trimming
// .git suffixes and anything from the "/-/" marker onward (releases pages,
// artifact links).
func (g *GitLab) NormalizeURL(rawURL string) (string, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", false, errors.Wrap(errors.ErrInvalidURL, rawURL)
	}
	path := strings.Trim(u.Path, "/")
	if idx := strings.Index(path, "/-/"); idx >= 0 {
		path = path[:idx]
	}
	path = strings.TrimSuffix(path, ".git")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" {
		return "", false, errors.Wrapf(errors.ErrInvalidURL, "no project path in %s", rawURL)
	}
	normalized := fmt.Sprintf("https://%s/%s", strings.ToLower(u.Hostname()), path)
	return normalized, normalized != rawURL, nil
}

// gitlabRelease mirrors the GitLab API release object. The assets structure
// carries explicit links (preferred) and auto-generated source archives
// (fallback).
type gitlabRelease struct {
	TagName         string    `json:"tag_name"`
	Name            string    `json:"name"`
	ReleasedAt      time.Time `json:"released_at"`
	UpcomingRelease bool      `json:"upcoming_release"`
	Assets          struct {
		Links []struct {
			Name           string `json:"name"`
			URL            string `json:"url"`
			DirectAssetURL string `json:"direct_asset_url"`
		} `json:"links"`
		Sources []struct {
			Format string `json:"format"`
			URL    string `json:"url"`
		} `json:"sources"`
	} `json:"assets"`
}

func (g *GitLab) GetReleases(ctx context.Context, rawURL string, limit int) ([]model.Release, error) {
	owner, repo, err := g.ParseRepoURL(rawURL)
	if err != nil {
		return nil, err
	}
	project := url.PathEscape(owner + "/" + repo)
	host := g.instanceHost(rawURL)
	endpoint := fmt.Sprintf("%s/api/v4/projects/%s/releases?per_page=%d", host, project, limit)
	resp, err := g.client.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrap(errors.ErrProvider, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != 200 {
		return nil, httpclient.StatusError(resp.StatusCode)
	}

	var apiReleases []gitlabRelease
	if err := json.NewDecoder(resp.Body).Decode(&apiReleases); err != nil {
		return nil, errors.Wrap(errors.ErrProvider, "decode gitlab releases")
	}
	if len(apiReleases) == 0 {
		return nil, errors.Wrapf(errors.ErrReleaseNotFound, "no releases for %s/%s", owner, repo)
	}

	releases := make([]model.Release, 0, len(apiReleases))
	for _, ar := range apiReleases {
		r := model.Release{
			Version:     strings.TrimPrefix(ar.TagName, "v"),
			TagName:     ar.TagName,
			Name:        ar.Name,
			PublishedAt: ar.ReleasedAt,
			Prerelease:  ar.UpcomingRelease,
			Assets:      gitlabAssets(ar),
		}
		r.Version = model.EffectiveVersion(&r)
		AssociateChecksums(&r)
		releases = append(releases, r)
	}
	sortReleasesNewestFirst(releases)
	return releases, nil
}

// gitlabAssets flattens a release's assets: explicit links first, with any
// link carrying the binary extension moved to the front, then the
// auto-generated source archives as a fallback.
func gitlabAssets(ar gitlabRelease) []model.Asset {
	var binaries, otherLinks []model.Asset
	for _, link := range ar.Assets.Links {
		u := link.DirectAssetURL
		if u == "" {
			u = link.URL
		}
		asset := model.Asset{Name: link.Name, URL: u, CreatedAt: ar.ReleasedAt}
		if hasBinaryExtension(link.Name) {
			binaries = append(binaries, asset)
		} else {
			otherLinks = append(otherLinks, asset)
		}
	}
	assets := append(binaries, otherLinks...)
	for _, src := range ar.Assets.Sources {
		assets = append(assets, model.Asset{
			Name:      fmt.Sprintf("%s-source.%s", ar.TagName, src.Format),
			URL:       src.URL,
			CreatedAt: ar.ReleasedAt,
		})
	}
	return assets
}

// instanceHost returns the scheme://host of the configured instance, falling
// back to the host in rawURL for self-hosted instances reached directly.
func (g *GitLab) instanceHost(rawURL string) string {
	if g.apiHost != "https://gitlab.com" {
		return g.apiHost
	}
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" && strings.ToLower(u.Hostname()) != "gitlab.com" {
		scheme := u.Scheme
		if scheme == "" {
			scheme = "https"
		}
		return scheme + "://" + u.Host
	}
	return g.apiHost
}

func (g *GitLab) GetLatestRelease(ctx context.Context, rawURL string) (*model.Release, error) {
	releases, err := g.GetReleases(ctx, rawURL, prereleaseWindow)
	if err != nil {
		return nil, err
	}
	if r := latestStable(releases); r != nil {
		return r, nil
	}
	return nil, errors.Wrapf(errors.ErrReleaseNotFound, "no stable release for %s", rawURL)
}

func (g *GitLab) GetLatestReleaseIncludingPrerelease(ctx context.Context, rawURL string) (*model.Release, error) {
	releases, err := g.GetReleases(ctx, rawURL, prereleaseWindow)
	if err != nil {
		return nil, err
	}
	if r := latestAny(releases); r != nil {
		return r, nil
	}
	return nil, errors.Wrapf(errors.ErrReleaseNotFound, "no release for %s", rawURL)
}

func (g *GitLab) ShouldEnablePrerelease(ctx context.Context, rawURL string) bool {
	return shouldEnablePrerelease(ctx, g, rawURL)
}

func (g *GitLab) GeneratePatternFromReleases(ctx context.Context, rawURL string) (string, error) {
	return patternFromReleases(ctx, g, rawURL)
}
