package provider

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/appimage-updater/appimage-updater/pkg/model"
)

const minPrefixLength = 3

var (
	// semverPattern matches trailing semantic-version-looking substrings,
	// with or without a leading "v".
	semverPattern = regexp.MustCompile(`(?i)v?\d+(\.\d+){1,3}(-[0-9a-z.]+)?$`)

	// partialVersionPattern matches a separator followed by any number
	// fragment, which is what a common-prefix computation leaves behind
	// when versions diverge mid-digit ("MyApp-1." from 1.2.0 vs 1.3.0).
	partialVersionPattern = regexp.MustCompile(`(?i)[-_.]v?\d+(\.\d+){0,3}\.?$`)

	// datePattern matches 8-digit build dates (20240131).
	datePattern = regexp.MustCompile(`\d{8}$`)

	// hashPattern matches 7+ hex-character build hashes.
	hashPattern = regexp.MustCompile(`(?i)[0-9a-f]{7,}$`)
)

// platformTokens are architecture/OS/build markers that carry no identity:
// they vary between releases of the same application and are stripped before
// a prefix is accepted.
var platformTokens = []string{
	"linux", "x86_64", "x86-64", "amd64", "aarch64", "arm64", "armhf",
	"i386", "i686", "conda", "portable", "static", "glibc", "musl",
}

// GeneratePattern derives a case-insensitive file-matching regex from the
// asset names observed across a repository's releases. It returns an error
// when the assets give no usable common stem.
func GeneratePattern(releases []model.Release) (string, error) {
	names := collectBinaryNames(releases)
	if len(names) == 0 {
		return "", fmt.Errorf("no %s assets found to derive a pattern from", BinaryExtension)
	}

	var prefix string
	if len(names) == 1 {
		prefix = stripVersionSuffix(trimBinaryExtension(names[0]))
	} else {
		prefix = commonPrefix(names)
		prefix = stripVersionSuffix(prefix)
	}
	prefix = strings.TrimRight(prefix, "-_. ")
	if len(prefix) < minPrefixLength {
		return "", fmt.Errorf("common prefix %q too short to be a useful pattern", prefix)
	}
	return fmt.Sprintf("(?i)^%s.*\\%s$", regexp.QuoteMeta(prefix), BinaryExtension), nil
}

// collectBinaryNames gathers binary asset names across releases, stable
// releases first so rolling prerelease names do not dominate the prefix.
func collectBinaryNames(releases []model.Release) []string {
	var stable, prerelease []string
	seen := make(map[string]struct{})
	add := func(dst *[]string, name string) {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		*dst = append(*dst, name)
	}
	for _, r := range releases {
		if r.Draft {
			continue
		}
		for _, a := range r.Assets {
			if !hasBinaryExtension(a.Name) {
				continue
			}
			if r.Prerelease {
				add(&prerelease, a.Name)
			} else {
				add(&stable, a.Name)
			}
		}
	}
	if len(stable) > 0 {
		return stable
	}
	return prerelease
}

func trimBinaryExtension(name string) string {
	if hasBinaryExtension(name) {
		return name[:len(name)-len(BinaryExtension)]
	}
	return name
}

// commonPrefix computes the longest case-insensitive common prefix of names,
// returned in the casing of the first name.
func commonPrefix(names []string) string {
	first := names[0]
	limit := len(first)
	for _, name := range names[1:] {
		lower := strings.ToLower(name)
		firstLower := strings.ToLower(first)
		i := 0
		for i < limit && i < len(lower) && firstLower[i] == lower[i] {
			i++
		}
		limit = i
	}
	return first[:limit]
}

// stripVersionSuffix repeatedly removes trailing version numbers, build
// dates, build hashes, and platform tokens, along with their separators.
func stripVersionSuffix(s string) string {
	// Platform tokens go first so "x86_64" is removed whole before the
	// number stripper can eat its "_64" tail.
	for {
		trimmed := strings.TrimRight(s, "-_. ")
		trimmed = stripPlatformToken(trimmed)
		trimmed = semverPattern.ReplaceAllString(trimmed, "")
		trimmed = datePattern.ReplaceAllString(trimmed, "")
		trimmed = hashPattern.ReplaceAllString(trimmed, "")
		trimmed = partialVersionPattern.ReplaceAllString(trimmed, "")
		trimmed = strings.TrimRight(trimmed, "-_. ")
		if trimmed == s {
			return s
		}
		s = trimmed
	}
}

func stripPlatformToken(s string) string {
	lower := strings.ToLower(s)
	for _, token := range platformTokens {
		if strings.HasSuffix(lower, token) {
			rest := s[:len(s)-len(token)]
			// Only strip when the token is a separated word, not part of
			// the application name itself.
			if rest == "" || strings.ContainsAny(rest[len(rest)-1:], "-_. ") {
				return rest
			}
		}
	}
	return s
}
