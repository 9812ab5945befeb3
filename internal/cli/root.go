package cli

import (
	"os"

	"github.com/ksyq12/sitectl/internal/logger"
	"github.com/spf13/cobra"
)

var (
	jsonOutput bool
	verbose    bool
	version    = "dev"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sitectl",
	Short: "Nginx site configuration management CLI",
	Long: `sitectl keeps a hand-editable nginx installation consistent with a
managed set of sites (static, PHP via FastCGI, reverse proxy).

Each managed site is rendered into its own fragment file under a
per-installation conf.d directory; the root nginx.conf is never
rewritten beyond guaranteeing a single include line. Content the
operator added by hand stays untouched.`,
}

// Execute runs the root command
func Execute() {
	cobra.OnInitialize(func() {
		logger.Init(verbose)
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
}
