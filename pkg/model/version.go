package model

import (
	"strings"
	"time"

	"github.com/hashicorp/go-version"
)

// nightlyMarkers are tag substrings that identify rolling builds whose tag is
// reused release after release, making the tag useless as a version.
var nightlyMarkers = []string{"continuous", "nightly", "dev", "snapshot"}

// IsNightlyVersion reports whether a tag or version string belongs to a
// rolling build.
func IsNightlyVersion(s string) bool {
	lower := strings.ToLower(s)
	for _, marker := range nightlyMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// NightlyDateVersion returns a date-based version string (YYYY-MM-DD) for a
// rolling-build release, derived from the creation time of its most recent
// asset. Falls back to the publish date, then the zero string.
func NightlyDateVersion(r *Release) string {
	var latest time.Time
	for _, a := range r.Assets {
		if a.CreatedAt.After(latest) {
			latest = a.CreatedAt
		}
	}
	if latest.IsZero() {
		latest = r.PublishedAt
	}
	if latest.IsZero() {
		return ""
	}
	return latest.Format("2006-01-02")
}

// EffectiveVersion returns the version string to use for a release: the
// asset-date substitution for nightly builds, the tag-derived version
// otherwise.
func EffectiveVersion(r *Release) string {
	if IsNightlyVersion(r.TagName) || IsNightlyVersion(r.Version) {
		if d := NightlyDateVersion(r); d != "" {
			return d
		}
	}
	return r.Version
}

// IsVersionNewer reports whether latest is strictly newer than current.
// Both are parsed leniently (a leading "v" is accepted); when either side
// does not parse as a version, a plain string inequality decides, so an
// unknown current version always triggers an update.
func IsVersionNewer(current, latest string) bool {
	if latest == "" {
		return false
	}
	if current == "" {
		return true
	}
	cv, errC := version.NewVersion(strings.TrimPrefix(current, "v"))
	lv, errL := version.NewVersion(strings.TrimPrefix(latest, "v"))
	if errC != nil || errL != nil {
		return current != latest
	}
	return lv.GreaterThan(cv)
}
