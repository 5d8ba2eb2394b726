// Package config provides configuration management for the updater. It
// handles loading, validating, and saving the application list and global
// settings. JSON is the primary on-disk format; YAML files are accepted for
// hand-written configs. JSON documents are additionally validated against an
// embedded JSON schema before decoding.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/fsutil"
	"gopkg.in/yaml.v3"
)

// ChecksumConfig controls checksum verification for one application.
type ChecksumConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Pattern   string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Algorithm string `json:"algorithm,omitempty" yaml:"algorithm,omitempty"`
	Required  bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// SignatureConfig controls optional minisign verification of downloads.
type SignatureConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	PublicKey string `json:"public_key,omitempty" yaml:"public_key,omitempty"`
}

// HooksConfig names optional tengo scripts run around an update.
type HooksConfig struct {
	PreUpdate  string `json:"pre_update,omitempty" yaml:"pre_update,omitempty"`
	PostUpdate string `json:"post_update,omitempty" yaml:"post_update,omitempty"`
}

// ApplicationConfig describes one managed application. It is read-only input
// to provider selection and the download engine.
type ApplicationConfig struct {
	Name            string          `json:"name" yaml:"name"`
	URL             string          `json:"url" yaml:"url"`
	DownloadDir     string          `json:"download_dir" yaml:"download_dir"`
	Pattern         string          `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	SourceType      string          `json:"source_type,omitempty" yaml:"source_type,omitempty"`
	Enabled         bool            `json:"enabled" yaml:"enabled"`
	Prerelease      bool            `json:"prerelease,omitempty" yaml:"prerelease,omitempty"`
	Checksum        ChecksumConfig  `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	Signature       SignatureConfig `json:"signature,omitempty" yaml:"signature,omitempty"`
	Hooks           HooksConfig     `json:"hooks,omitempty" yaml:"hooks,omitempty"`
	RotationEnabled bool            `json:"rotation_enabled,omitempty" yaml:"rotation_enabled,omitempty"`
	SymlinkPath     string          `json:"symlink_path,omitempty" yaml:"symlink_path,omitempty"`
	RetainCount     int             `json:"retain_count,omitempty" yaml:"retain_count,omitempty"`
}

// Settings represents global defaults shared by every application.
type Settings struct {
	TimeoutSeconds      int    `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	ConcurrentDownloads int    `json:"concurrent_downloads,omitempty" yaml:"concurrent_downloads,omitempty"`
	UserAgent           string `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
	LogLevel            string `json:"log_level,omitempty" yaml:"log_level,omitempty"`
}

// Config is the root configuration document.
type Config struct {
	Applications []*ApplicationConfig `json:"applications" yaml:"applications"`
	Settings     Settings             `json:"settings,omitempty" yaml:"settings,omitempty"`

	// Knowledge maps a provider name to the domains it is known to serve.
	// It is mutated through the knowledge Store, never directly.
	Knowledge map[string][]string `json:"domain_knowledge,omitempty" yaml:"domain_knowledge,omitempty"`

	path string
}

// Default configuration values.
const (
	DefaultTimeoutSeconds      = 30
	DefaultConcurrentDownloads = 3
	DefaultRetainCount         = 3
	DefaultUserAgent           = "appimage-updater/1.0"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Applications: []*ApplicationConfig{},
		Settings: Settings{
			TimeoutSeconds:      DefaultTimeoutSeconds,
			ConcurrentDownloads: DefaultConcurrentDownloads,
			UserAgent:           DefaultUserAgent,
			LogLevel:            "info",
		},
		Knowledge: map[string][]string{},
	}
}

// Load loads configuration from a file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "invalid config file path")
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			cfg.path = absPath
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "failed to open config file %s", path)
	}
	defer func() { _ = file.Close() }()

	cfg, err := LoadFromReader(file, strings.ToLower(filepath.Ext(absPath)))
	if err != nil {
		return nil, err
	}
	cfg.path = absPath
	return cfg, nil
}

// LoadFromReader loads configuration from an io.Reader. ext selects the
// decoder: ".yaml"/".yml" use YAML, everything else is treated as JSON.
func LoadFromReader(reader io.Reader, ext string) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
		}
	default:
		if err := validateSchema(data); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
		}
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Save writes the configuration back to the path it was loaded from,
// atomically via a temp file.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.ErrEmptyConfigPath
	}
	return c.SaveTo(c.path)
}

// SaveTo writes the configuration as JSON to the given path.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(err, "invalid config file path")
	}
	if err := os.MkdirAll(filepath.Dir(absPath), fsutil.DirModeDefault); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	data = append(data, '\n')

	tempPath := absPath + ".tmp"
	if err := os.WriteFile(tempPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	if err := os.Rename(tempPath, absPath); err != nil {
		_ = os.Remove(tempPath)
		return errors.Wrap(err, "failed to replace config file")
	}
	c.path = absPath
	return nil
}

// Validate checks the whole configuration for semantic errors.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	names := make(map[string]bool)
	for i, app := range c.Applications {
		if app.Name == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "application %d has no name", i)
		}
		if names[app.Name] {
			return errors.Wrapf(errors.ErrAppExists, "application %q", app.Name)
		}
		names[app.Name] = true
		if err := app.Validate(); err != nil {
			return err
		}
	}
	if c.Settings.TimeoutSeconds < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "timeout_seconds cannot be negative")
	}
	if c.Settings.ConcurrentDownloads < 1 {
		return errors.Wrap(errors.ErrConfigValidation, "concurrent_downloads must be at least 1")
	}
	return nil
}

var algorithmRe = regexp.MustCompile(`^(sha256|sha1|md5)$`)

// Validate checks a single application configuration.
func (a *ApplicationConfig) Validate() error {
	if a.URL == "" {
		return errors.Wrapf(errors.ErrConfigInvalid, "%s: url is required", a.Name)
	}
	if a.DownloadDir == "" {
		return errors.Wrapf(errors.ErrConfigInvalid, "%s: download_dir is required", a.Name)
	}
	if a.RotationEnabled && a.SymlinkPath == "" {
		return errors.Wrapf(errors.ErrConfigInvalid, "%s: rotation requires a symlink_path", a.Name)
	}
	if a.RetainCount < 1 {
		return errors.Wrapf(errors.ErrConfigInvalid, "%s: retain_count must be at least 1", a.Name)
	}
	if a.Pattern != "" {
		if _, err := regexp.Compile(a.Pattern); err != nil {
			return errors.Wrapf(errors.ErrConfigInvalid, "%s: bad pattern: %v", a.Name, err)
		}
	}
	if a.Checksum.Algorithm != "" && !algorithmRe.MatchString(strings.ToLower(a.Checksum.Algorithm)) {
		return errors.Wrapf(errors.ErrConfigInvalid, "%s: unsupported checksum algorithm %q", a.Name, a.Checksum.Algorithm)
	}
	if a.Checksum.Pattern != "" {
		// {filename} is substituted with the selected asset name at check time.
		if _, err := regexp.Compile(strings.ReplaceAll(a.Checksum.Pattern, "{filename}", "x")); err != nil {
			return errors.Wrapf(errors.ErrConfigInvalid, "%s: bad checksum pattern: %v", a.Name, err)
		}
	}
	if a.Signature.Enabled && a.Signature.PublicKey == "" {
		return errors.Wrapf(errors.ErrConfigInvalid, "%s: signature verification requires a public_key", a.Name)
	}
	return nil
}

// EnabledApplications returns the applications with Enabled set.
func (c *Config) EnabledApplications() []*ApplicationConfig {
	apps := make([]*ApplicationConfig, 0, len(c.Applications))
	for _, app := range c.Applications {
		if app.Enabled {
			apps = append(apps, app)
		}
	}
	return apps
}

// GetApplication returns the application with the given name, or nil.
func (c *Config) GetApplication(name string) *ApplicationConfig {
	for _, app := range c.Applications {
		if app.Name == name {
			return app
		}
	}
	return nil
}

// Timeout returns the configured HTTP timeout as a duration.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "appimage-updater", "config.json"), nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.TimeoutSeconds == 0 {
		c.Settings.TimeoutSeconds = defaults.Settings.TimeoutSeconds
	}
	if c.Settings.ConcurrentDownloads == 0 {
		c.Settings.ConcurrentDownloads = defaults.Settings.ConcurrentDownloads
	}
	if c.Settings.UserAgent == "" {
		c.Settings.UserAgent = defaults.Settings.UserAgent
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
	if c.Knowledge == nil {
		c.Knowledge = map[string][]string{}
	}
	for _, app := range c.Applications {
		if app.RetainCount == 0 {
			app.RetainCount = DefaultRetainCount
		}
		if app.Checksum.Algorithm == "" {
			app.Checksum.Algorithm = "sha256"
		}
	}
}
