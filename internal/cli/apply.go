package cli

import (
	"fmt"

	"github.com/ksyq12/sitectl/internal/output"
	"github.com/spf13/cobra"
)

var applyNoReload bool

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Re-render all managed sites and reconcile the fragment directory",
	Long: `Parse every managed fragment, re-render it through the current
templates, and write the result back.

This normalizes hand-edited fragments to canonical form and
re-applies the mandatory performance and security baselines. Fragment
files whose sites are gone are backed up and removed; the root
configuration is only checked for its include line.`,
	Args: cobra.NoArgs,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyNoReload, "no-reload", false, "Don't reload nginx")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	sites := loadManagedSites(settings)

	m, err := newManager()
	if err != nil {
		return err
	}

	output.Info("Applying %d site(s)...", len(sites))
	if err := m.Update(sites, settings.FragmentDir(), settings.ConfigPath); err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	if err := testAndReload(settings, !applyNoReload); err != nil {
		return err
	}

	result := struct {
		Success bool `json:"success"`
		Sites   int  `json:"sites"`
	}{Success: true, Sites: len(sites)}
	if jsonOutput {
		return output.JSON(result)
	}
	output.Success("%d site(s) applied", len(sites))
	return nil
}
