package provider

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appimage-updater/appimage-updater/pkg/model"
)

func releaseWithAssets(prerelease bool, names ...string) model.Release {
	r := model.Release{
		TagName:     "v1.0.0",
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Prerelease:  prerelease,
	}
	for _, n := range names {
		r.Assets = append(r.Assets, model.Asset{Name: n})
	}
	return r
}

func TestGeneratePattern(t *testing.T) {
	tests := []struct {
		name        string
		releases    []model.Release
		wantMatch   []string
		wantNoMatch []string
		wantErr     bool
	}{
		{
			name: "two versioned filenames",
			releases: []model.Release{
				releaseWithAssets(false, "MyApp-1.2.0-x86_64.AppImage"),
				releaseWithAssets(false, "MyApp-1.3.0-x86_64.AppImage"),
			},
			wantMatch:   []string{"MyApp-1.2.0-x86_64.AppImage", "MyApp-1.3.0-x86_64.AppImage", "MyApp-2.0.0-x86_64.AppImage"},
			wantNoMatch: []string{"OtherApp-1.0.0.AppImage"},
		},
		{
			name: "single filename",
			releases: []model.Release{
				releaseWithAssets(false, "QtTool-5.15.2-linux-x86_64.AppImage"),
			},
			wantMatch:   []string{"QtTool-6.0.0-linux-x86_64.AppImage", "qttool-5.15.2-linux-x86_64.appimage"},
			wantNoMatch: []string{"Helper-1.0.AppImage"},
		},
		{
			name: "case differences across releases",
			releases: []model.Release{
				releaseWithAssets(false, "myapp-1.0.AppImage"),
				releaseWithAssets(false, "MyApp-2.0.AppImage"),
			},
			wantMatch: []string{"myapp-3.0.AppImage", "MYAPP-4.0.AppImage"},
		},
		{
			name: "stable releases preferred over prereleases",
			releases: []model.Release{
				releaseWithAssets(true, "nightly-build-20240101.AppImage"),
				releaseWithAssets(false, "MyApp-1.0.0.AppImage"),
			},
			wantMatch:   []string{"MyApp-1.1.0.AppImage"},
			wantNoMatch: []string{"nightly-build-20240202.AppImage"},
		},
		{
			name: "build date and hash stripped",
			releases: []model.Release{
				releaseWithAssets(false, "Editor-20240101-abc1234f.AppImage"),
				releaseWithAssets(false, "Editor-20240215-99fe21aa.AppImage"),
			},
			wantMatch: []string{"Editor-20240301-deadbee1.AppImage"},
		},
		{
			name:     "no binary assets",
			releases: []model.Release{releaseWithAssets(false, "README.md", "source.tar.gz")},
			wantErr:  true,
		},
		{
			name: "prefix too short",
			releases: []model.Release{
				releaseWithAssets(false, "a-1.0.AppImage"),
				releaseWithAssets(false, "b-1.0.AppImage"),
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, err := GeneratePattern(tt.releases)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			re, err := regexp.Compile(pattern)
			require.NoError(t, err, "generated pattern must compile: %s", pattern)
			for _, name := range tt.wantMatch {
				assert.True(t, re.MatchString(name), "pattern %s should match %s", pattern, name)
			}
			for _, name := range tt.wantNoMatch {
				assert.False(t, re.MatchString(name), "pattern %s should not match %s", pattern, name)
			}
		})
	}
}
