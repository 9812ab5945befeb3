package cli

import (
	"github.com/ksyq12/sitectl/internal/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed sites",
	Long: `List all sites managed in the installation's fragment directory.

Sites are parsed from the per-site fragment files; server blocks the
operator keeps directly in nginx.conf are not listed here.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	sites := loadManagedSites(settings)

	if jsonOutput {
		return output.JSON(sites)
	}

	if len(sites) == 0 {
		output.Info("No managed sites in %s", settings.FragmentDir())
		return nil
	}

	output.SiteTable(sites)
	return nil
}
