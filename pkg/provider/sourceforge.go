package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/httpclient"
	"github.com/appimage-updater/appimage-updater/pkg/model"
)

// versionInName extracts a version-looking substring from an asset filename.
var versionInName = regexp.MustCompile(`(?i)v?(\d+(?:\.\d+){1,3})`)

// SourceForge has no release API. The project files page is scraped for
// hrefs pointing at binary files, relative links are resolved against the
// page URL, and SourceForge's own file URLs are canonicalized to their
// /download redirect form. Sizes come from a separate HEAD probe because
// the page does not carry them.
type SourceForge struct {
	client *httpclient.Client
}

// NewSourceForge creates a SourceForge provider backed by client.
func NewSourceForge(client *httpclient.Client) *SourceForge {
	return &SourceForge{client: client}
}

func (s *SourceForge) Name() string { return "sourceforge" }

// DetectType claims sourceforge.net URLs and its download mirrors.
func (s *SourceForge) DetectType(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(u.Hostname()), "sourceforge")
}

// ParseRepoURL extracts the project name from a sourceforge.net URL. The
// owner is always "projects" since SourceForge has no user namespace.
func (s *SourceForge) ParseRepoURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrInvalidURL, rawURL)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] != "projects" || parts[1] == "" {
		return "", "", errors.Wrapf(errors.ErrInvalidURL, "no project name in %s", rawURL)
	}
	return "projects", parts[1], nil
}

// NormalizeURL canonicalizes a SourceForge URL to the project files page.
func (s *SourceForge) NormalizeURL(rawURL string) (string, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "", false, errors.Wrap(errors.ErrInvalidURL, rawURL)
	}
	_, project, err := s.ParseRepoURL(rawURL)
	if err != nil {
		return "", false, err
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = "https"
	}
	normalized := fmt.Sprintf("%s://%s/projects/%s/files/", scheme, strings.ToLower(u.Host), project)
	return normalized, normalized != rawURL, nil
}

// GetReleases scrapes the files page and synthesizes a single release from
// the binary links found there. limit is ignored beyond the single release.
func (s *SourceForge) GetReleases(ctx context.Context, rawURL string, limit int) ([]model.Release, error) {
	pageURL, _, err := s.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Get(ctx, pageURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrProvider, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.StatusError(resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrProvider, "parse sourceforge page")
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidURL, pageURL)
	}

	assets := s.scrapeAssets(ctx, doc, base)
	if len(assets) == 0 {
		return nil, errors.Wrapf(errors.ErrReleaseNotFound, "no %s files on %s", BinaryExtension, pageURL)
	}

	release := model.Release{
		Version:     versionFromAssets(assets),
		TagName:     versionFromAssets(assets),
		PublishedAt: newestAssetTime(assets),
		Assets:      assets,
	}
	AssociateChecksums(&release)
	return []model.Release{release}, nil
}

// scrapeAssets walks every anchor on the page and keeps hrefs that point at
// binary files, deduplicated by filename.
func (s *SourceForge) scrapeAssets(ctx context.Context, doc *goquery.Document, base *url.URL) []model.Asset {
	seen := make(map[string]struct{})
	var assets []model.Asset
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		name, ok := binaryFileName(href)
		if !ok {
			return
		}
		if _, dup := seen[strings.ToLower(name)]; dup {
			return
		}
		seen[strings.ToLower(name)] = struct{}{}

		resolved := resolveHref(base, href)
		assetURL := canonicalDownloadURL(resolved)
		size, modified := s.probeAsset(ctx, assetURL)
		assets = append(assets, model.Asset{
			Name:      name,
			URL:       assetURL,
			Size:      size,
			CreatedAt: modified,
		})
	})
	return assets
}

// binaryFileName extracts the filename when href points at a binary file,
// tolerating SourceForge's trailing /download path element.
func binaryFileName(href string) (string, bool) {
	cleaned := strings.TrimSuffix(strings.TrimSuffix(href, "/"), "/download")
	if u, err := url.Parse(cleaned); err == nil {
		cleaned = u.Path
	}
	name := path.Base(cleaned)
	if !hasBinaryExtension(name) {
		return "", false
	}
	return name, true
}

func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// canonicalDownloadURL rewrites a SourceForge file URL into its /download
// redirect form, which is the stable URL that serves the actual bytes.
func canonicalDownloadURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if !strings.Contains(strings.ToLower(u.Hostname()), "sourceforge") {
		return rawURL
	}
	if strings.HasSuffix(u.Path, "/download") {
		return rawURL
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/download"
	return u.String()
}

// probeAsset issues a HEAD request to learn the file's size and modification
// time. Failures leave both at their zero values; they are cosmetic.
func (s *SourceForge) probeAsset(ctx context.Context, assetURL string) (int64, time.Time) {
	resp, err := s.client.Head(ctx, assetURL)
	if err != nil {
		return 0, time.Time{}
	}
	defer func() { _ = resp.Body.Close() }()
	var modified time.Time
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			modified = t
		}
	}
	return resp.ContentLength, modified
}

// versionFromAssets pulls a version-looking substring out of the first asset
// name that has one, falling back to the newest asset's date.
func versionFromAssets(assets []model.Asset) string {
	for _, a := range assets {
		if m := versionInName.FindStringSubmatch(a.Name); m != nil {
			return m[1]
		}
	}
	if t := newestAssetTime(assets); !t.IsZero() {
		return t.Format("2006-01-02")
	}
	return "latest"
}

func newestAssetTime(assets []model.Asset) time.Time {
	var latest time.Time
	for _, a := range assets {
		if a.CreatedAt.After(latest) {
			latest = a.CreatedAt
		}
	}
	return latest
}

func (s *SourceForge) GetLatestRelease(ctx context.Context, rawURL string) (*model.Release, error) {
	releases, err := s.GetReleases(ctx, rawURL, 1)
	if err != nil {
		return nil, err
	}
	return &releases[0], nil
}

func (s *SourceForge) GetLatestReleaseIncludingPrerelease(ctx context.Context, rawURL string) (*model.Release, error) {
	return s.GetLatestRelease(ctx, rawURL)
}

// ShouldEnablePrerelease is always false: SourceForge has no prerelease
// concept.
func (s *SourceForge) ShouldEnablePrerelease(context.Context, string) bool { return false }

func (s *SourceForge) GeneratePatternFromReleases(ctx context.Context, rawURL string) (string, error) {
	return patternFromReleases(ctx, s, rawURL)
}
