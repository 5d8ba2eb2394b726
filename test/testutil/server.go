// Package testutil provides HTTP fixture servers emulating the release
// backends the updater talks to.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// GitHubRelease is the wire shape served by NewGitHubServer.
type GitHubRelease struct {
	TagName     string        `json:"tag_name"`
	Name        string        `json:"name"`
	PublishedAt string        `json:"published_at"`
	Prerelease  bool          `json:"prerelease"`
	Draft       bool          `json:"draft"`
	Assets      []GitHubAsset `json:"assets"`
}

// GitHubAsset is a single asset in a GitHubRelease.
type GitHubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
	Size               int64  `json:"size"`
	CreatedAt          string `json:"created_at"`
}

// NewGitHubServer serves the given releases on the GitHub releases API path
// for owner/repo and 404s everything else. The server is closed on test
// cleanup.
func NewGitHubServer(t *testing.T, owner, repo string, releases []GitHubRelease) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/repos/%s/%s/releases", owner, repo), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(releases); err != nil {
			t.Errorf("encode github fixture: %v", err)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// GitLabRelease is the wire shape served by NewGitLabServer.
type GitLabRelease struct {
	TagName         string       `json:"tag_name"`
	Name            string       `json:"name"`
	ReleasedAt      string       `json:"released_at"`
	UpcomingRelease bool         `json:"upcoming_release"`
	Assets          GitLabAssets `json:"assets"`
}

// GitLabAssets mirrors the links/sources split of the GitLab API.
type GitLabAssets struct {
	Links   []GitLabLink   `json:"links"`
	Sources []GitLabSource `json:"sources"`
}

type GitLabLink struct {
	Name           string `json:"name"`
	URL            string `json:"url"`
	DirectAssetURL string `json:"direct_asset_url"`
}

type GitLabSource struct {
	Format string `json:"format"`
	URL    string `json:"url"`
}

// NewGitLabServer serves releases on the GitLab v4 releases path for the
// URL-encoded project path ("owner%2Frepo" or deeper nesting).
func NewGitLabServer(t *testing.T, encodedProject string, releases []GitLabRelease) *httptest.Server {
	t.Helper()
	wantPath := "/api/v4/projects/" + encodedProject + "/releases"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Go keeps the raw (still-encoded) path available for exact matching.
		got := r.URL.EscapedPath()
		if got != wantPath {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(releases); err != nil {
			t.Errorf("encode gitlab fixture: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// NewSourceForgeServer serves an HTML files page for the project at
// /projects/<project>/files/ with one anchor per file name, plus HEAD
// support on the corresponding /download URLs reporting the given size.
func NewSourceForgeServer(t *testing.T, project string, files []string, size int64) *httptest.Server {
	t.Helper()
	headOrNotFound := func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.Header().Set("Content-Length", fmt.Sprint(size))
			w.Header().Set("Last-Modified", "Mon, 02 Jan 2023 15:04:05 GMT")
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}
	filesPath := fmt.Sprintf("/projects/%s/files/", project)
	mux := http.NewServeMux()
	mux.HandleFunc(filesPath, func(w http.ResponseWriter, r *http.Request) {
		// ServeMux subtree matching would otherwise swallow the HEAD
		// probes on the /download URLs below this path.
		if r.URL.Path != filesPath {
			headOrNotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, "<html><body><table>")
		for _, f := range files {
			fmt.Fprintf(w, `<tr><td><a href="/projects/%s/files/%s/download">%s</a></td></tr>`, project, f, f)
		}
		fmt.Fprint(w, "</table></body></html>")
	})
	mux.HandleFunc("/", headOrNotFound)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// NewStatusServer always responds with the given status code.
func NewStatusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}
