package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRepairCmd creates the repair command.
func NewRepairCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "repair [APPLICATION...]",
		Short: "Reconcile rotation state after manual changes",
		Long: `Repair the rotation state of applications that use file rotation.

The repair operation re-points broken symlinks at the newest binary on disk,
regenerates missing version metadata, and removes orphaned metadata files.
Only applications with rotation enabled are repaired.`,
		RunE: func(_ *cobra.Command, args []string) error {
			return runRepair(args)
		},
	}

	return cmd
}

func runRepair(names []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tk := newToolkit(cfg, nil)
	defer tk.close()

	apps, err := selectApplications(cfg, names)
	if err != nil {
		return err
	}

	failed := 0
	repaired := 0
	for _, app := range apps {
		if !app.RotationEnabled {
			continue
		}
		if err := tk.orch.Repair(app); err != nil {
			errorColor.Printf("✗ %s: %v\n", app.Name, err)
			failed++
			continue
		}
		successColor.Printf("✓ %s repaired\n", app.Name)
		repaired++
	}

	if repaired == 0 && failed == 0 {
		fmt.Println("No applications with rotation enabled")
		return nil
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d repairs failed", failed, repaired+failed)
	}

	return nil
}
