package orchestrator

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/appimage-updater/appimage-updater/internal/logger"
	"github.com/appimage-updater/appimage-updater/pkg/config"
	"github.com/appimage-updater/appimage-updater/pkg/errors"
	"github.com/appimage-updater/appimage-updater/pkg/hooks"
	"github.com/appimage-updater/appimage-updater/pkg/model"
	"github.com/appimage-updater/appimage-updater/pkg/provider"
	"github.com/appimage-updater/appimage-updater/pkg/rotation"
)

// Orchestrator wires the provider registry, download engine, rotation repair,
// and hook manager into the user-facing check/update/repair operations.
type Orchestrator struct {
	resolver   Resolver
	downloader Downloader
	repairer   Repairer
	hooks      hooks.Manager
}

// New creates an Orchestrator. hookManager may be nil when hook support is
// not wanted.
func New(resolver Resolver, downloader Downloader, repairer Repairer, hookManager hooks.Manager) *Orchestrator {
	return &Orchestrator{
		resolver:   resolver,
		downloader: downloader,
		repairer:   repairer,
		hooks:      hookManager,
	}
}

// CheckForUpdate determines whether app has a newer release available. The
// returned result carries a Candidate only when an update is needed.
func (o *Orchestrator) CheckForUpdate(ctx context.Context, app *config.ApplicationConfig) CheckResult {
	result := CheckResult{AppName: app.Name}

	providers, err := o.resolver.ForApplication(app)
	if err != nil {
		result.Error = err
		return result
	}

	var lastErr error
	for _, p := range providers {
		release, err := o.fetchLatest(ctx, p, app)
		if err != nil {
			lastErr = err
			if stderrors.Is(err, errors.ErrAuthFailed) || stderrors.Is(err, errors.ErrForbidden) || stderrors.Is(err, errors.ErrReleaseNotFound) {
				o.resolver.Forget(app.URL, p)
			}
			logger.Debug("provider failed, trying next", logger.Fields{
				"app":      app.Name,
				"provider": p.Name(),
				"error":    err.Error(),
			})
			continue
		}
		o.resolver.Learn(app.URL, p)

		asset, err := selectAsset(release, app)
		if err != nil {
			result.Error = err
			return result
		}
		applyChecksumPattern(release, asset, app)

		current := o.currentVersion(app)
		result.CurrentVersion = current
		result.LatestVersion = release.Version
		result.UpdateAvailable = model.IsVersionNewer(current, release.Version)
		if result.UpdateAvailable {
			result.Candidate = &model.Candidate{
				AppName:          app.Name,
				CurrentVersion:   current,
				LatestVersion:    release.Version,
				Asset:            *asset,
				DownloadPath:     filepath.Join(app.DownloadDir, asset.Name),
				IsNewer:          true,
				Config:           app,
				ChecksumRequired: app.Checksum.Required,
			}
		}
		return result
	}

	if lastErr == nil {
		lastErr = errors.Wrapf(errors.ErrNoProviderFound, "no provider for %s", app.URL)
	}
	result.Error = lastErr
	return result
}

// fetchLatest picks the release lookup variant: configured prerelease
// tracking wins; otherwise repositories that only publish prereleases are
// auto-opted in.
func (o *Orchestrator) fetchLatest(ctx context.Context, p provider.Provider, app *config.ApplicationConfig) (*model.Release, error) {
	if app.Prerelease || p.ShouldEnablePrerelease(ctx, app.URL) {
		return p.GetLatestReleaseIncludingPrerelease(ctx, app.URL)
	}
	return p.GetLatestRelease(ctx, app.URL)
}

// selectAsset picks the release asset to download: the configured pattern
// when present, a pattern generated from the release's own asset names
// otherwise, and finally any asset with the binary extension.
func selectAsset(release *model.Release, app *config.ApplicationConfig) (*model.Asset, error) {
	pattern := app.Pattern
	if pattern == "" {
		if generated, err := provider.GeneratePattern([]model.Release{*release}); err == nil {
			pattern = generated
		}
	}
	if pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrConfigInvalid, "pattern %q: %v", pattern, err)
		}
		for i := range release.Assets {
			if re.MatchString(release.Assets[i].Name) {
				return &release.Assets[i], nil
			}
		}
	}
	for i := range release.Assets {
		if strings.EqualFold(filepath.Ext(release.Assets[i].Name), provider.BinaryExtension) {
			return &release.Assets[i], nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNoAssetMatch, "release %s of %s has no matching asset", release.Version, app.Name)
}

// applyChecksumPattern overrides the provider's suffix-based checksum
// association when the application configures an explicit checksum file
// pattern. The pattern is a regular expression matched against the release's
// asset names; a literal `{filename}` stands for the selected asset's name.
func applyChecksumPattern(release *model.Release, asset *model.Asset, app *config.ApplicationConfig) {
	pattern := app.Checksum.Pattern
	if pattern == "" {
		return
	}
	expanded := strings.ReplaceAll(pattern, "{filename}", regexp.QuoteMeta(asset.Name))
	re, err := regexp.Compile("(?i)^(?:" + expanded + ")$")
	if err != nil {
		logger.Warn("bad checksum pattern", logger.Fields{"app": app.Name, "pattern": pattern, "error": err.Error()})
		return
	}
	for i := range release.Assets {
		if release.Assets[i].Name == asset.Name {
			continue
		}
		if re.MatchString(release.Assets[i].Name) {
			asset.ChecksumAsset = &release.Assets[i]
			return
		}
	}
}

// currentVersion reads the installed version from the rotation sidecars:
// the symlink target's when rotation is configured, otherwise the newest
// .current or plain binary in the download directory.
func (o *Orchestrator) currentVersion(app *config.ApplicationConfig) string {
	if app.SymlinkPath != "" {
		if target, err := os.Readlink(app.SymlinkPath); err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(app.SymlinkPath), target)
			}
			if v := rotation.ReadMetadata(target); v != "" {
				return v
			}
		}
	}
	for _, pattern := range []string{
		filepath.Join(app.DownloadDir, "*"+provider.BinaryExtension+".current"),
		filepath.Join(app.DownloadDir, "*"+provider.BinaryExtension),
	} {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, m := range matches {
			if v := rotation.ReadMetadata(m); v != "" {
				return v
			}
		}
	}
	return ""
}

// CheckAll checks every enabled application, isolating failures so one
// application's error never aborts the rest.
func (o *Orchestrator) CheckAll(ctx context.Context, cfg *config.Config) []CheckResult {
	apps := cfg.EnabledApplications()
	results := make([]CheckResult, 0, len(apps))
	for _, app := range apps {
		results = append(results, o.CheckForUpdate(ctx, app))
	}
	return results
}

// Update runs candidates through their pre-update hooks, downloads them, and
// runs post-update hooks for the successful ones. A failing pre-update hook
// skips that candidate.
func (o *Orchestrator) Update(ctx context.Context, candidates []model.Candidate) []model.DownloadResult {
	var runnable []model.Candidate
	var skipped []model.DownloadResult
	for _, c := range candidates {
		if err := o.runHook(hooks.PreUpdate, &c, ""); err != nil {
			skipped = append(skipped, model.DownloadResult{
				AppName:      c.AppName,
				Success:      false,
				ErrorMessage: err.Error(),
			})
			continue
		}
		runnable = append(runnable, c)
	}

	results := o.downloader.DownloadAll(ctx, runnable)
	for i := range results {
		if !results[i].Success {
			continue
		}
		candidate := findCandidate(runnable, results[i].AppName)
		if candidate == nil {
			continue
		}
		if err := o.runHook(hooks.PostUpdate, candidate, results[i].FilePath); err != nil {
			logger.Warn("post-update hook failed", logger.Fields{
				"app":   results[i].AppName,
				"error": err.Error(),
			})
		}
	}
	return append(results, skipped...)
}

func findCandidate(candidates []model.Candidate, appName string) *model.Candidate {
	for i := range candidates {
		if candidates[i].AppName == appName {
			return &candidates[i]
		}
	}
	return nil
}

// runHook loads and executes one hook type for a candidate. Applications
// without hook configuration are a no-op.
func (o *Orchestrator) runHook(hookType hooks.HookType, candidate *model.Candidate, filePath string) error {
	if o.hooks == nil || candidate.Config == nil {
		return nil
	}
	hookCfg := candidate.Config.Hooks
	if hookCfg.PreUpdate == "" && hookCfg.PostUpdate == "" {
		return nil
	}
	if err := o.hooks.LoadFromConfig(hookCfg.PreUpdate, hookCfg.PostUpdate); err != nil {
		return err
	}
	if filePath == "" {
		filePath = candidate.DownloadPath
	}
	return o.hooks.Execute(hookType, hooks.HookContext{
		AppName:        candidate.AppName,
		CurrentVersion: candidate.CurrentVersion,
		NewVersion:     candidate.LatestVersion,
		FilePath:       filePath,
	})
}

// Repair delegates to the rotation repair operation.
func (o *Orchestrator) Repair(app *config.ApplicationConfig) error {
	return o.repairer.Repair(app)
}
