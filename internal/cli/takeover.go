package cli

import (
	"fmt"
	"time"

	"github.com/ksyq12/sitectl/internal/config"
	"github.com/ksyq12/sitectl/internal/manager"
	"github.com/ksyq12/sitectl/internal/nginx"
	"github.com/ksyq12/sitectl/internal/output"
	"github.com/spf13/cobra"
)

var (
	takeoverNginx  string
	takeoverConfig string
)

var takeoverCmd = &cobra.Command{
	Use:   "takeover",
	Short: "Point sitectl at an nginx installation",
	Long: `Record where nginx and its root configuration live, pick the
per-installation fragment directory identifier, and guarantee the root
configuration includes the fragment directory.

The root configuration is backed up first and is not otherwise
modified; existing server blocks stay exactly where they are. When no
root configuration exists yet, a minimal default is written.`,
	Args: cobra.NoArgs,
	RunE: runTakeover,
}

func init() {
	takeoverCmd.Flags().StringVar(&takeoverNginx, "nginx", "", "Path to the nginx binary (auto-detected when omitted)")
	takeoverCmd.Flags().StringVar(&takeoverConfig, "config", "", "Path to nginx.conf (auto-detected when omitted)")
	rootCmd.AddCommand(takeoverCmd)
}

func runTakeover(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	nginxPath := takeoverNginx
	if nginxPath == "" {
		nginxPath = config.DetectNginxPath()
	}
	if nginxPath == "" {
		return fmt.Errorf("nginx binary not found; pass --nginx")
	}

	configPath := takeoverConfig
	if configPath == "" {
		configPath = config.DetectConfigPath(nginxPath)
	}
	if configPath == "" {
		return fmt.Errorf("nginx.conf not found; pass --config")
	}

	settings.NginxPath = nginxPath
	settings.ConfigPath = configPath
	settings.ManagedAt = time.Now()

	includeLine := fmt.Sprintf("include %s/*.conf;", settings.FragmentDirName())

	if _, err := manager.BackupFile(configPath); err != nil {
		return fmt.Errorf("failed to back up root config: %w", err)
	}
	if err := manager.EnsureInclude(configPath, includeLine); err != nil {
		return fmt.Errorf("failed to ensure include directive: %w", err)
	}

	if err := settings.Save(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if jsonOutput {
		return output.JSON(settings)
	}
	output.Success("Managing %s", configPath)
	output.Info("Fragment directory: %s", settings.FragmentDir())

	// Server blocks already in the root config stay where they are; they
	// are reported so the operator knows what remains hand-managed.
	existing := nginx.NewParser().Parse(manager.ReadRootConfig(configPath, includeLine))
	if len(existing) > 0 {
		output.Info("%d existing server block(s) left in place in the root config", len(existing))
	}
	return nil
}
