// Package orchestrator drives the update flow: provider resolution, version
// comparison, candidate assembly, download dispatch, and repair.
package orchestrator

import (
	"context"

	"github.com/appimage-updater/appimage-updater/pkg/config"
	"github.com/appimage-updater/appimage-updater/pkg/model"
	"github.com/appimage-updater/appimage-updater/pkg/provider"
)

//go:generate mockgen -destination=./mocks/orchestrator.go . Resolver,Downloader,Repairer

// Resolver maps an application to the providers willing to serve it and
// maintains the domain knowledge cache.
type Resolver interface {
	ForApplication(app *config.ApplicationConfig) ([]provider.Provider, error)
	Learn(url string, p provider.Provider)
	Forget(url string, p provider.Provider)
}

// Downloader executes assembled candidates.
type Downloader interface {
	DownloadAll(ctx context.Context, candidates []model.Candidate) []model.DownloadResult
}

// Repairer reconciles a drifted rotation directory.
type Repairer interface {
	Repair(app *config.ApplicationConfig) error
}

// CheckResult is the outcome of checking one application for updates.
type CheckResult struct {
	AppName         string
	CurrentVersion  string
	LatestVersion   string
	UpdateAvailable bool
	Candidate       *model.Candidate
	Error           error
}
