package cli

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/appimage-updater/appimage-updater/internal/logger"
	"github.com/appimage-updater/appimage-updater/pkg/config"
	"github.com/appimage-updater/appimage-updater/pkg/download"
	"github.com/appimage-updater/appimage-updater/pkg/hooks"
	"github.com/appimage-updater/appimage-updater/pkg/httpclient"
	"github.com/appimage-updater/appimage-updater/pkg/orchestrator"
	"github.com/appimage-updater/appimage-updater/pkg/provider"
	"github.com/appimage-updater/appimage-updater/pkg/rotation"
)

// These variables are set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
	NoColor    *bool
)

// loadConfig loads the configuration from the --config path or the default
// location, and applies CLI flag overrides.
func loadConfig() (*config.Config, error) {
	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}
	if configPath == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get default config path: %w", err)
		}
		configPath = defaultPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with CLI flags if provided
	logLevel := cfg.Settings.LogLevel
	if Verbose != nil && *Verbose {
		logLevel = "debug"
	}
	logger.InitLogger(logLevel)
	if NoColor != nil && *NoColor {
		color.NoColor = true
	}

	return cfg, nil
}

// toolkit bundles the wired-up core components behind the CLI commands.
type toolkit struct {
	cfg       *config.Config
	client    *httpclient.Client
	registry  *provider.Registry
	rotator   *rotation.Rotator
	engine    *download.Engine
	orch      *orchestrator.Orchestrator
	knowledge *config.KnowledgeStore
}

// newToolkit constructs the shared HTTP client, provider registry, download
// engine, and orchestrator from the loaded configuration.
func newToolkit(cfg *config.Config, progress download.ProgressFunc) *toolkit {
	client := httpclient.New(cfg.Settings.Timeout(), cfg.Settings.UserAgent, httpclient.WithTracing())
	knowledge := config.NewKnowledgeStore(cfg)
	registry := provider.NewRegistry(client, knowledge)
	rotator := rotation.NewRotator(provider.BinaryExtension)

	var opts []download.Option
	if progress != nil {
		opts = append(opts, download.WithProgress(progress))
	}
	engine := download.NewEngine(client, rotator, cfg.Settings.ConcurrentDownloads, opts...)

	return &toolkit{
		cfg:       cfg,
		client:    client,
		registry:  registry,
		rotator:   rotator,
		engine:    engine,
		orch:      orchestrator.New(registry, engine, rotator, hooks.NewManager()),
		knowledge: knowledge,
	}
}

// close releases pooled resources. Called once per command.
func (t *toolkit) close() {
	t.client.CloseIdleConnections()
}

// selectApplications filters the configured applications down to the names
// given on the command line; with no names, every enabled application is
// returned.
func selectApplications(cfg *config.Config, names []string) ([]*config.ApplicationConfig, error) {
	if len(names) == 0 {
		return cfg.EnabledApplications(), nil
	}
	apps := make([]*config.ApplicationConfig, 0, len(names))
	for _, name := range names {
		app := cfg.GetApplication(name)
		if app == nil {
			return nil, fmt.Errorf("application %q not found in configuration", name)
		}
		apps = append(apps, app)
	}
	return apps, nil
}
