package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectDetectType(t *testing.T) {
	d := NewDirect(newTestClient())
	assert.True(t, d.DetectType("https://example.com/app.AppImage"))
	assert.True(t, d.DetectType("http://example.com/downloads/latest"))
	assert.False(t, d.DetectType("ftp://example.com/app"))
	assert.False(t, d.DetectType("not a url"))
}

func TestDirectSynthesizesRelease(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/latest", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/files/MyApp-3.1.0.AppImage", http.StatusFound)
	})
	mux.HandleFunc("/files/MyApp-3.1.0.AppImage", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		w.Header().Set("Last-Modified", "Tue, 05 Mar 2024 12:00:00 GMT")
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	d := NewDirect(newTestClient())
	release, err := d.GetLatestRelease(context.Background(), srv.URL+"/latest")
	require.NoError(t, err)

	require.Len(t, release.Assets, 1)
	asset := release.Assets[0]
	// The terminal redirect target becomes the asset.
	assert.Equal(t, srv.URL+"/files/MyApp-3.1.0.AppImage", asset.URL)
	assert.Equal(t, "MyApp-3.1.0.AppImage", asset.Name)
	assert.Equal(t, int64(4096), asset.Size)
	assert.Equal(t, "3.1.0", release.Version)
}

func TestDirectVersionFallsBackToDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Tue, 05 Mar 2024 12:00:00 GMT")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	d := NewDirect(newTestClient())
	release, err := d.GetLatestRelease(context.Background(), srv.URL+"/app.AppImage")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", release.Version)
}

func TestDirectNormalizeURLIsIdentity(t *testing.T) {
	d := NewDirect(newTestClient())
	got, corrected, err := d.NormalizeURL("https://example.com/app.AppImage")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/app.AppImage", got)
	assert.False(t, corrected)
}
