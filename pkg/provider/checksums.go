package provider

import (
	"strings"

	"github.com/appimage-updater/appimage-updater/pkg/model"
)

// checksumSuffixes are the filename suffixes, appended to a binary asset's
// full name, under which release authors publish checksum files.
var checksumSuffixes = []string{
	".sha256",
	".sha1",
	".md5",
	"-SHA256.txt",
	"-SHA1.txt",
	"-MD5.txt",
	"_SHA256.txt",
	"_SHA1.txt",
	"_MD5.txt",
}

// AssociateChecksums attaches checksum-file back-references to a release's
// binary assets by filename matching. The assets slice itself is not
// reordered or resized; only ChecksumAsset pointers are set.
func AssociateChecksums(release *model.Release) {
	byLowerName := make(map[string]*model.Asset, len(release.Assets))
	for i := range release.Assets {
		byLowerName[strings.ToLower(release.Assets[i].Name)] = &release.Assets[i]
	}
	for i := range release.Assets {
		asset := &release.Assets[i]
		if !hasBinaryExtension(asset.Name) {
			continue
		}
		for _, suffix := range checksumSuffixes {
			candidate := strings.ToLower(asset.Name + suffix)
			if match, ok := byLowerName[candidate]; ok {
				asset.ChecksumAsset = match
				break
			}
		}
	}
}
