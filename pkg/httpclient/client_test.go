package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens map[string][2]string

func (s staticTokens) TokenFor(host string) (string, string, bool) {
	hv, ok := s[host]
	return hv[0], hv[1], ok
}

func TestClient_SetsUserAgentAndToken(t *testing.T) {
	var gotUA, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// httptest binds to 127.0.0.1; Hostname() strips the port.
	c := New(5*time.Second, "test-agent/2.0", WithTokenSource(staticTokens{
		"127.0.0.1": {"Authorization", "Bearer sekrit"},
	}))
	resp, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, "test-agent/2.0", gotUA)
	assert.Equal(t, "Bearer sekrit", gotAuth)
}

func TestClient_DefaultUserAgent(t *testing.T) {
	c := New(time.Second, "")
	assert.Equal(t, "appimage-updater/1.0", c.userAgent)
}

func TestEnvTokenSource(t *testing.T) {
	tests := []struct {
		name       string
		host       string
		env        map[string]string
		wantHeader string
		wantValue  string
		wantOK     bool
	}{
		{
			name:       "github token",
			host:       "github.com",
			env:        map[string]string{"GITHUB_TOKEN": "gh-abc"},
			wantHeader: "Authorization",
			wantValue:  "Bearer gh-abc",
			wantOK:     true,
		},
		{
			name:       "updater-specific github token wins",
			host:       "api.github.com",
			env:        map[string]string{"GITHUB_TOKEN": "generic", "APPIMAGE_UPDATER_GITHUB_TOKEN": "specific"},
			wantHeader: "Authorization",
			wantValue:  "Bearer specific",
			wantOK:     true,
		},
		{
			name:       "gitlab private token header",
			host:       "gitlab.com",
			env:        map[string]string{"GITLAB_TOKEN": "gl-xyz"},
			wantHeader: "PRIVATE-TOKEN",
			wantValue:  "gl-xyz",
			wantOK:     true,
		},
		{
			name:       "self-hosted gitlab",
			host:       "gitlab.example.org",
			env:        map[string]string{"GITLAB_PRIVATE_TOKEN": "gl-self"},
			wantHeader: "PRIVATE-TOKEN",
			wantValue:  "gl-self",
			wantOK:     true,
		},
		{
			name:       "generic domain token",
			host:       "files.example-host.io",
			env:        map[string]string{"FILES_EXAMPLE_HOST_IO_TOKEN": "opaque"},
			wantHeader: "Authorization",
			wantValue:  "Bearer opaque",
			wantOK:     true,
		},
		{
			name:   "no token configured",
			host:   "github.com",
			env:    map[string]string{"GITHUB_TOKEN": "", "APPIMAGE_UPDATER_GITHUB_TOKEN": ""},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			header, value, ok := EnvTokenSource{}.TokenFor(tt.host)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantHeader, header)
				assert.Equal(t, tt.wantValue, value)
			}
		})
	}
}

func TestStatusError(t *testing.T) {
	assert.ErrorIs(t, StatusError(http.StatusUnauthorized), errors.ErrAuthFailed)
	assert.ErrorIs(t, StatusError(http.StatusForbidden), errors.ErrForbidden)
	assert.ErrorIs(t, StatusError(http.StatusNotFound), errors.ErrReleaseNotFound)
	assert.ErrorIs(t, StatusError(http.StatusBadGateway), errors.ErrProvider)
}
