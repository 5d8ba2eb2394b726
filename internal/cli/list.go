package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/appimage-updater/appimage-updater/pkg/config"
	"github.com/appimage-updater/appimage-updater/pkg/provider"
	"github.com/appimage-updater/appimage-updater/pkg/rotation"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	var nameFilter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured applications",
		Long: `List all configured applications with their installed version and status.

Use --name to filter applications by name.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runList(nameFilter)
		},
	}

	cmd.Flags().StringVar(&nameFilter, "name", "", "Filter applications by name (partial match)")

	return cmd
}

func runList(nameFilter string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	apps := make([]*config.ApplicationConfig, 0, len(cfg.Applications))
	for _, app := range cfg.Applications {
		if nameFilter != "" && !strings.Contains(strings.ToLower(app.Name), strings.ToLower(nameFilter)) {
			continue
		}
		apps = append(apps, app)
	}

	if len(apps) == 0 {
		fmt.Println("No applications configured")
		return nil
	}

	headerColor.Printf("%-25s %-15s %-10s %s\n", "APPLICATION", "VERSION", "STATUS", "SOURCE")
	fmt.Println(strings.Repeat("-", 80))

	for _, app := range apps {
		status := "enabled"
		if !app.Enabled {
			status = "disabled"
		}
		version := installedVersion(app)
		fmt.Printf("%-25s %-15s %-10s %s\n", app.Name, version, status, app.URL)
	}

	return nil
}

// installedVersion reads the version metadata of the currently installed
// binary, if any.
func installedVersion(app *config.ApplicationConfig) string {
	matches, err := filepath.Glob(filepath.Join(app.DownloadDir, "*"+provider.BinaryExtension+".current"))
	if err != nil || len(matches) == 0 {
		return "-"
	}
	if version := rotation.ReadMetadata(matches[0]); version != "" {
		return version
	}
	return "-"
}
