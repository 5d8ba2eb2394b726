package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appimage-updater/appimage-updater/pkg/orchestrator"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "check [APPLICATION...]",
		Short: "Check applications for available updates",
		Long: `Check configured applications against their release sources and report
which ones have a newer version available.

If no applications are specified, all enabled applications are checked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd.Context(), args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	return cmd
}

func runCheck(ctx context.Context, names []string, asJSON bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tk := newToolkit(cfg, nil)
	defer tk.close()

	var results []orchestrator.CheckResult
	if len(names) == 0 {
		results = tk.orch.CheckAll(ctx, cfg)
	} else {
		apps, err := selectApplications(cfg, names)
		if err != nil {
			return err
		}
		results = make([]orchestrator.CheckResult, 0, len(apps))
		for _, app := range apps {
			results = append(results, tk.orch.CheckForUpdate(ctx, app))
		}
	}

	if len(results) == 0 && !asJSON {
		fmt.Println("No applications configured")
		return nil
	}

	if asJSON {
		if err := printCheckJSON(results); err != nil {
			return err
		}
	} else {
		printCheckResults(results)
	}

	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(results))
	}

	return nil
}

type checkReport struct {
	Application     string `json:"application"`
	CurrentVersion  string `json:"current_version,omitempty"`
	LatestVersion   string `json:"latest_version,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
	Error           string `json:"error,omitempty"`
}

func printCheckJSON(results []orchestrator.CheckResult) error {
	reports := make([]checkReport, 0, len(results))
	for _, res := range results {
		report := checkReport{
			Application:     res.AppName,
			CurrentVersion:  res.CurrentVersion,
			LatestVersion:   res.LatestVersion,
			UpdateAvailable: res.UpdateAvailable,
		}
		if res.Error != nil {
			report.Error = res.Error.Error()
		}
		reports = append(reports, report)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

func printCheckResults(results []orchestrator.CheckResult) {
	headerColor.Printf("%-25s %-15s %-15s %s\n", "APPLICATION", "CURRENT", "LATEST", "STATUS")
	fmt.Println(strings.Repeat("-", 72))

	for _, res := range results {
		current := res.CurrentVersion
		if current == "" {
			current = "-"
		}

		switch {
		case res.Error != nil:
			fmt.Printf("%-25s %-15s %-15s %s\n", res.AppName, current, "-",
				errorColor.Sprintf("error: %v", res.Error))
		case res.UpdateAvailable:
			fmt.Printf("%-25s %-15s %-15s %s\n", res.AppName, current, res.LatestVersion,
				warningColor.Sprint("update available"))
		default:
			fmt.Printf("%-25s %-15s %-15s %s\n", res.AppName, current, res.LatestVersion,
				successColor.Sprint("up to date"))
		}
	}
}
