package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/appimage-updater/appimage-updater/pkg/model"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "update [APPLICATION...]",
		Short: "Download and install available updates",
		Long: `Check configured applications for updates and download any newer versions.

Downloaded files are verified, made executable, and rotated into place when
rotation is enabled for the application. Use --dry-run to see what would be
updated without downloading anything.

If no applications are specified, all enabled applications are updated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), args, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report available updates without downloading")

	return cmd
}

func runUpdate(ctx context.Context, names []string, dryRun bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tk := newToolkit(cfg, printProgress)
	defer tk.close()

	apps, err := selectApplications(cfg, names)
	if err != nil {
		return err
	}

	var candidates []model.Candidate
	checkFailed := 0
	for _, app := range apps {
		res := tk.orch.CheckForUpdate(ctx, app)
		if res.Error != nil {
			errorColor.Printf("✗ %s: %v\n", res.AppName, res.Error)
			checkFailed++
			continue
		}
		if !res.UpdateAvailable || res.Candidate == nil {
			fmt.Printf("%s is up to date (%s)\n", res.AppName, res.LatestVersion)
			continue
		}
		candidates = append(candidates, *res.Candidate)
	}

	if len(candidates) == 0 {
		if checkFailed > 0 {
			return fmt.Errorf("%d of %d checks failed", checkFailed, len(apps))
		}
		fmt.Println("All applications are up to date")
		return nil
	}

	if dryRun {
		for _, c := range candidates {
			fmt.Printf("would update %s: %s -> %s\n", c.AppName, orDash(c.CurrentVersion), c.LatestVersion)
		}
		return nil
	}

	results := tk.orch.Update(ctx, candidates)

	updateFailed := 0
	for _, res := range results {
		if res.Success {
			successColor.Printf("✓ %s updated (%s)\n", res.AppName, res.FilePath)
		} else {
			errorColor.Printf("✗ %s failed: %s\n", res.AppName, res.ErrorMessage)
			updateFailed++
		}
	}

	if failed := checkFailed + updateFailed; failed > 0 {
		return fmt.Errorf("%d of %d updates failed", failed, len(apps))
	}

	return nil
}

// printProgress renders in-place download progress on stdout.
func printProgress(event model.ProgressEvent) {
	if event.Total > 0 {
		percent := float64(event.Downloaded) / float64(event.Total) * 100
		fmt.Printf("\r%s: %3.0f%% (%.1f MB/s)", event.Filename, percent, event.Speed/1e6)
	} else {
		fmt.Printf("\r%s: %d bytes", event.Filename, event.Downloaded)
	}
	if event.Total > 0 && event.Downloaded >= event.Total {
		fmt.Println()
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
