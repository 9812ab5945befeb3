package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render <name>",
	Short: "Print a managed site's rendered configuration",
	Long: `Render one managed site to stdout without touching any files.

Useful for previewing what a fragment would look like after the next
apply, including the injected performance and security baselines.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	name := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	s := findSite(loadManagedSites(settings), name)
	if s == nil {
		return fmt.Errorf("site %s not found", name)
	}

	m, err := newManager()
	if err != nil {
		return err
	}

	content, err := m.Render(s)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	fmt.Print(content)
	return nil
}
