package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/httpclient"
	"github.com/appimage-updater/appimage-updater/pkg/model"
)

const defaultGitHubAPI = "https://api.github.com"

// githubRepoPath extracts "owner/repo" from a github.com URL path.
var githubRepoPath = regexp.MustCompile(`^/([^/]+)/([^/]+)`)

// GitHub fetches releases through the GitHub REST API.
type GitHub struct {
	client  *httpclient.Client
	apiBase string
}

// GitHubOption customizes a GitHub provider.
type GitHubOption func(*GitHub)

// WithGitHubAPIBase overrides the API endpoint, mainly for tests.
func WithGitHubAPIBase(base string) GitHubOption {
	return func(g *GitHub) { g.apiBase = strings.TrimRight(base, "/") }
}

// NewGitHub creates a GitHub provider backed by client.
func NewGitHub(client *httpclient.Client, opts ...GitHubOption) *GitHub {
	g := &GitHub{client: client, apiBase: defaultGitHubAPI}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GitHub) Name() string { return "github" }

// DetectType claims github.com URLs.
func (g *GitHub) DetectType(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return host == "github.com" || host == "www.github.com"
}

// ParseRepoURL extracts the owner and repository name from a github.com URL.
func (g *GitHub) ParseRepoURL(rawURL string) (string, string, error) {
	normalized, _, err := g.NormalizeURL(rawURL)
	if err != nil {
		return "", "", err
	}
	u, err := url.Parse(normalized)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrInvalidURL, rawURL)
	}
	m := githubRepoPath.FindStringSubmatch(u.Path)
	if m == nil {
		return "", "", errors.Wrapf(errors.ErrInvalidURL, "no owner/repo in %s", rawURL)
	}
	return m[1], m[2], nil
}

// NormalizeURL canonicalizes a github.com URL to https://github.com/owner/repo,
// stripping .git suffixes, releases pages, and release-asset download paths.
func (g *GitHub) NormalizeURL(rawURL string) (string, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", false, errors.Wrap(errors.ErrInvalidURL, rawURL)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", false, errors.Wrapf(errors.ErrInvalidURL, "no owner/repo in %s", rawURL)
	}
	owner := parts[0]
	repo := strings.TrimSuffix(parts[1], ".git")

	normalized := fmt.Sprintf("https://github.com/%s/%s", owner, repo)
	return normalized, normalized != rawURL, nil
}

func (g *GitHub) GetLatestRelease(ctx context.Context, rawURL string) (*model.Release, error) {
	releases, err := g.GetReleases(ctx, rawURL, prereleaseWindow)
	if err != nil {
		return nil, err
	}
	if r := latestStable(releases); r != nil {
		return r, nil
	}
	return nil, errors.Wrapf(errors.ErrReleaseNotFound, "no stable release for %s", rawURL)
}

func (g *GitHub) GetLatestReleaseIncludingPrerelease(ctx context.Context, rawURL string) (*model.Release, error) {
	releases, err := g.GetReleases(ctx, rawURL, prereleaseWindow)
	if err != nil {
		return nil, err
	}
	if r := latestAny(releases); r != nil {
		return r, nil
	}
	return nil, errors.Wrapf(errors.ErrReleaseNotFound, "no release for %s", rawURL)
}

// githubRelease mirrors the GitHub API release object.
type githubRelease struct {
	TagName     string        `json:"tag_name"`
	Name        string        `json:"name"`
	PublishedAt time.Time     `json:"published_at"`
	Prerelease  bool          `json:"prerelease"`
	Draft       bool          `json:"draft"`
	Assets      []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string    `json:"name"`
	BrowserDownloadURL string    `json:"browser_download_url"`
	Size               int64     `json:"size"`
	CreatedAt          time.Time `json:"created_at"`
}

func (g *GitHub) GetReleases(ctx context.Context, rawURL string, limit int) ([]model.Release, error) {
	owner, repo, err := g.ParseRepoURL(rawURL)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d", g.apiBase, owner, repo, limit)
	resp, err := g.client.Get(ctx, endpoint)
	if err != nil {
		return nil, errors.Wrap(errors.ErrProvider, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != 200 {
		return nil, httpclient.StatusError(resp.StatusCode)
	}

	var apiReleases []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&apiReleases); err != nil {
		return nil, errors.Wrap(errors.ErrProvider, "decode github releases")
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
			PublishedAt: ar.PublishedAt,
			Prerelease:  ar.Prerelease,
			Draft:       ar.Draft,
		}
		for _, aa := range ar.Assets {
			r.Assets = append(r.Assets, model.Asset{
				Name:      aa.Name,
				URL:       aa.BrowserDownloadURL,
				Size:      aa.Size,
				CreatedAt: aa.CreatedAt,
			})
		}
		r.Version = model.EffectiveVersion(&r)
		AssociateChecksums(&r)
		releases = append(releases, r)
	}
	sortReleasesNewestFirst(releases)
	return releases, nil
}

func (g *GitHub) ShouldEnablePrerelease(ctx context.Context, rawURL string) bool {
	return shouldEnablePrerelease(ctx, g, rawURL)
}

func (g *GitHub) GeneratePatternFromReleases(ctx context.Context, rawURL string) (string, error) {
	return patternFromReleases(ctx, g, rawURL)
}
