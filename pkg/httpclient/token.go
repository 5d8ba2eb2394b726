package httpclient

import (
	"os"
	"strings"
)

// TokenSource resolves an authentication header for a hostname. Tokens are
// opaque secrets; presence of one raises the provider's rate-limit ceiling.
type TokenSource interface {
	// TokenFor returns the header name and value to attach for host, or
	// ok=false when no token is configured.
	TokenFor(host string) (header, value string, ok bool)
}

// EnvTokenSource reads tokens from the environment, following each backend's
// convention: GitHub uses an Authorization bearer token, GitLab its
// PRIVATE-TOKEN header, and any other host a generic <DOMAIN>_TOKEN variable.
type EnvTokenSource struct{}

// TokenFor implements TokenSource.
func (EnvTokenSource) TokenFor(host string) (string, string, bool) {
	host = strings.ToLower(host)
	switch {
	case host == "github.com" || host == "api.github.com" || strings.HasSuffix(host, ".github.com"):
		for _, name := range []string{"APPIMAGE_UPDATER_GITHUB_TOKEN", "GITHUB_TOKEN"} {
			if token := os.Getenv(name); token != "" {
				return "Authorization", "Bearer " + token, true
			}
		}
	case strings.Contains(host, "gitlab"):
		for _, name := range []string{"GITLAB_TOKEN", "GITLAB_PRIVATE_TOKEN"} {
			if token := os.Getenv(name); token != "" {
				return "PRIVATE-TOKEN", token, true
			}
		}
	default:
		if token := os.Getenv(hostEnvPrefix(host) + "_TOKEN"); token != "" {
			return "Authorization", "Bearer " + token, true
		}
	}
	return "", "", false
}

// hostEnvPrefix turns a hostname into the environment variable prefix used
// for generic token lookup: dots and dashes become underscores, upper-cased.
func hostEnvPrefix(host string) string {
	host = strings.ToUpper(host)
	host = strings.ReplaceAll(host, ".", "_")
	host = strings.ReplaceAll(host, "-", "_")
	return host
}
