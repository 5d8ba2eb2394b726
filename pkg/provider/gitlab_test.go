package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appimage-updater/appimage-updater/test/testutil"
)

func TestGitLabDetectType(t *testing.T) {
	g := NewGitLab(newTestClient())
	assert.True(t, g.DetectType("https://gitlab.com/owner/repo"))
	assert.True(t, g.DetectType("https://gitlab.example.org/group/sub/project"))
	assert.False(t, g.DetectType("https://github.com/owner/repo"))
}

func TestGitLabNormalizeURL(t *testing.T) {
	g := NewGitLab(newTestClient())

	tests := []struct {
		name          string
		url           string
		want          string
		wantCorrected bool
		wantErr       bool
	}{
		{
			name: "canonical",
			url:  "https://gitlab.com/owner/repo",
			want: "https://gitlab.com/owner/repo",
		},
		{
			name:          "git suffix",
			url:           "https://gitlab.com/owner/repo.git",
			want:          "https://gitlab.com/owner/repo",
			wantCorrected: true,
		},
		{
			name:          "releases page",
			url:           "https://gitlab.com/owner/repo/-/releases",
			want:          "https://gitlab.com/owner/repo",
			wantCorrected: true,
		},
		{
			name: "nested groups",
			url:  "https://gitlab.com/group/subgroup/project",
			want: "https://gitlab.com/group/subgroup/project",
		},
		{
			name:    "missing project",
			url:     "https://gitlab.com/owner",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, corrected, err := g.NormalizeURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCorrected, corrected)
		})
	}
}

func TestGitLabParseRepoURLNestedGroups(t *testing.T) {
	g := NewGitLab(newTestClient())
	owner, repo, err := g.ParseRepoURL("https://gitlab.com/group/subgroup/project")
	require.NoError(t, err)
	assert.Equal(t, "group/subgroup", owner)
	assert.Equal(t, "project", repo)
}

func TestGitLabGetReleasesAssetOrdering(t *testing.T) {
	srv := testutil.NewGitLabServer(t, "owner%2Frepo", []testutil.GitLabRelease{
		{
			TagName:    "v1.2.0",
			ReleasedAt: "2024-02-01T00:00:00Z",
			Assets: testutil.GitLabAssets{
				Links: []testutil.GitLabLink{
					{Name: "checksums.txt", URL: "https://example.com/sums"},
					{Name: "MyApp-1.2.0.AppImage", DirectAssetURL: "https://example.com/app"},
				},
				Sources: []testutil.GitLabSource{
					{Format: "tar.gz", URL: "https://example.com/src.tar.gz"},
				},
			},
		},
	})

	g := NewGitLab(newTestClient(), WithGitLabHost(srv.URL))
	releases, err := g.GetReleases(context.Background(), "https://gitlab.com/owner/repo", 10)
	require.NoError(t, err)
	require.Len(t, releases, 1)

	assets := releases[0].Assets
	require.Len(t, assets, 3)
	// Binary links come first, other links after, sources last.
	assert.Equal(t, "MyApp-1.2.0.AppImage", assets[0].Name)
	assert.Equal(t, "https://example.com/app", assets[0].URL)
	assert.Equal(t, "checksums.txt", assets[1].Name)
	assert.Equal(t, "v1.2.0-source.tar.gz", assets[2].Name)
}

func TestGitLabUpcomingReleaseIsPrerelease(t *testing.T) {
	srv := testutil.NewGitLabServer(t, "owner%2Frepo", []testutil.GitLabRelease{
		{TagName: "v2.0.0", ReleasedAt: "2024-03-01T00:00:00Z", UpcomingRelease: true},
		{TagName: "v1.0.0", ReleasedAt: "2024-01-01T00:00:00Z"},
	})

	g := NewGitLab(newTestClient(), WithGitLabHost(srv.URL))
	release, err := g.GetLatestRelease(context.Background(), "https://gitlab.com/owner/repo")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", release.TagName)

	withPre, err := g.GetLatestReleaseIncludingPrerelease(context.Background(), "https://gitlab.com/owner/repo")
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0", withPre.TagName)
}

func TestGitLabNestedGroupProjectEncoding(t *testing.T) {
	srv := testutil.NewGitLabServer(t, "group%2Fsubgroup%2Fproject", []testutil.GitLabRelease{
		{TagName: "v1.0.0", ReleasedAt: "2024-01-01T00:00:00Z"},
	})

	g := NewGitLab(newTestClient(), WithGitLabHost(srv.URL))
	releases, err := g.GetReleases(context.Background(), "https://gitlab.com/group/subgroup/project", 5)
	require.NoError(t, err)
	require.Len(t, releases, 1)
}
