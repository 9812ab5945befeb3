package cli

import (
	"fmt"

	"github.com/ksyq12/sitectl/internal/output"
	"github.com/spf13/cobra"
)

var removeNoReload bool

var removeCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a managed site",
	Long: `Remove a managed site's fragment file.

The fragment is backed up under the fragment directory's backups/
before deletion. The root configuration is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVar(&removeNoReload, "no-reload", false, "Don't reload nginx")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	output.Info("Removing site fragment...")
	if err := m.Delete(name, settings.FragmentDir()); err != nil {
		return fmt.Errorf("failed to remove site: %w", err)
	}

	if err := testAndReload(settings, !removeNoReload); err != nil {
		return err
	}

	return outputResult(newSuccessResult(name, "remove"), "Site %s removed", name)
}
