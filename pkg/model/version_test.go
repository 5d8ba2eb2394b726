package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsNightlyVersion(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"continuous", true},
		{"Nightly-2024", true},
		{"v2.0-dev", true},
		{"snapshot", true},
		{"1.2.3", false},
		{"v1.0.0-rc1", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.want, IsNightlyVersion(tt.version))
		})
	}
}

func TestEffectiveVersion(t *testing.T) {
	older := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 3, 15, 8, 30, 0, 0, time.UTC)

	t.Run("nightly tag uses newest asset date", func(t *testing.T) {
		r := &Release{
			Version: "continuous",
			TagName: "continuous",
			Assets: []Asset{
				{Name: "a.AppImage", CreatedAt: older},
				{Name: "b.AppImage", CreatedAt: newer},
			},
		}
		assert.Equal(t, "2025-03-15", EffectiveVersion(r))
	})

	t.Run("nightly without assets falls back to publish date", func(t *testing.T) {
		r := &Release{Version: "nightly", TagName: "nightly", PublishedAt: older}
		assert.Equal(t, "2025-03-01", EffectiveVersion(r))
	})

	t.Run("stable tag keeps its version", func(t *testing.T) {
		r := &Release{Version: "1.2.3", TagName: "v1.2.3", Assets: []Asset{{CreatedAt: newer}}}
		assert.Equal(t, "1.2.3", EffectiveVersion(r))
	})
}

func TestIsVersionNewer(t *testing.T) {
	tests := []struct {
		name    string
		current string
		latest  string
		want    bool
	}{
		{"newer patch", "1.2.0", "1.2.1", true},
		{"same version", "1.2.0", "1.2.0", false},
		{"older", "2.0.0", "1.9.9", false},
		{"v prefix mix", "v1.0.0", "1.0.1", true},
		{"empty current always updates", "", "1.0.0", true},
		{"empty latest never updates", "1.0.0", "", false},
		{"unparsable falls back to inequality", "2025-03-01", "2025-03-15", true},
		{"unparsable equal strings", "continuous", "continuous", false},
		{"prerelease ordering", "1.0.0-rc1", "1.0.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVersionNewer(tt.current, tt.latest))
		})
	}
}
