package verify

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithmFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "sha256 suffix", filename: "app.AppImage.sha256", want: "sha256"},
		{name: "uppercase sha256 file", filename: "app-SHA256.txt", want: "sha256"},
		{name: "sha1 suffix", filename: "app.AppImage.sha1", want: "sha1"},
		{name: "md5 underscore", filename: "app_MD5.txt", want: "md5"},
		{name: "unknown defaults to sha256", filename: "checksums.txt", want: "sha256"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlgorithmFromFilename(tt.filename))
		})
	}
}

func TestParseExpectedChecksum(t *testing.T) {
	digest := "b5bb9d8014a0f9b1d61e21e796d78dccdf1352f23cd32812f4850b878ae4944c"

	tests := []struct {
		name    string
		data    string
		algo    string
		target  string
		want    string
		wantErr bool
	}{
		{
			name:   "bare digest",
			data:   digest,
			algo:   "sha256",
			target: "app.AppImage",
			want:   digest,
		},
		{
			name:   "bare digest uppercase",
			data:   "B5BB9D8014A0F9B1D61E21E796D78DCCDF1352F23CD32812F4850B878AE4944C",
			algo:   "sha256",
			target: "app.AppImage",
			want:   digest,
		},
		{
			name:   "coreutils line exact match",
			data:   digest + "  app.AppImage\n",
			algo:   "sha256",
			target: "app.AppImage",
			want:   digest,
		},
		{
			name:   "coreutils binary marker",
			data:   digest + " *app.AppImage\n",
			algo:   "sha256",
			target: "app.AppImage",
			want:   digest,
		},
		{
			name: "multi-line picks target",
			data: "1111111111111111111111111111111111111111111111111111111111111111  other.AppImage\n" +
				digest + "  app.AppImage\n",
			algo:   "sha256",
			target: "app.AppImage",
			want:   digest,
		},
		{
			name:   "suffix match on qualified path",
			data:   digest + "  ./dist/app.AppImage\n",
			algo:   "sha256",
			target: "app.AppImage",
			want:   digest,
		},
		{
			name:   "md5 length enforced",
			data:   "d41d8cd98f00b204e9800998ecf8427e",
			algo:   "md5",
			target: "app.AppImage",
			want:   "d41d8cd98f00b204e9800998ecf8427e",
		},
		{
			name:    "wrong length rejected",
			data:    "deadbeef",
			algo:    "sha256",
			target:  "app.AppImage",
			wantErr: true,
		},
		{
			name:    "target missing",
			data:    digest + "  other.AppImage\n",
			algo:    "sha256",
			target:  "app.AppImage",
			wantErr: true,
		},
		{
			name:    "empty file",
			data:    "   \n",
			algo:    "sha256",
			target:  "app.AppImage",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseExpectedChecksum([]byte(tt.data), tt.algo, tt.target)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileDigestAndVerify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.AppImage")
	content := []byte("hello\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	sum := sha256.Sum256(content)
	expected := hex.EncodeToString(sum[:])

	got, err := FileDigest(path, "sha256")
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	result := VerifyFile(path, expected, "sha256")
	assert.True(t, result.Verified)
	assert.Equal(t, expected, result.Actual)

	bad := VerifyFile(path, "0000000000000000000000000000000000000000000000000000000000000000", "sha256")
	assert.False(t, bad.Verified)
	assert.NotEmpty(t, bad.ErrorMessage)
}

func TestFileDigestUnsupportedAlgorithm(t *testing.T) {
	_, err := FileDigest("/nonexistent", "crc32")
	require.Error(t, err)
}
