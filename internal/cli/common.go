package cli

import (
	"fmt"

	"github.com/ksyq12/sitectl/internal/config"
	"github.com/ksyq12/sitectl/internal/manager"
	"github.com/ksyq12/sitectl/internal/nginx"
	"github.com/ksyq12/sitectl/internal/nginxctl"
	"github.com/ksyq12/sitectl/internal/output"
	"github.com/ksyq12/sitectl/internal/site"
)

// loadSettings loads the installation settings and verifies a root
// config path is known; most commands cannot work without one.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if settings.ConfigPath == "" {
		return nil, fmt.Errorf("nginx config path not set; run 'sitectl takeover' first")
	}
	return settings, nil
}

// newManager creates the merge/update engine.
func newManager() (*manager.Manager, error) {
	m, err := manager.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}
	return m, nil
}

// loadManagedSites parses every fragment in the installation's
// fragment directory.
func loadManagedSites(settings *config.Settings) []*site.Site {
	return nginx.NewParser().ParseFragmentDir(settings.FragmentDir())
}

// findSite returns the managed site with the given name.
func findSite(sites []*site.Site, name string) *site.Site {
	for _, s := range sites {
		if s.SiteName == name {
			return s
		}
	}
	return nil
}

// testAndReload runs the nginx syntax check and, when reload is true,
// signals the running server. The engine never does this itself; it is
// the caller's follow-up to a successful update.
func testAndReload(settings *config.Settings, reload bool) error {
	ctrl := nginxctl.New(settings.NginxPath, settings.ConfigPath)

	output.Info("Testing configuration...")
	if out, err := ctrl.Test(); err != nil {
		output.Print("%s", out)
		return fmt.Errorf("configuration test failed")
	}

	if reload {
		output.Info("Reloading nginx...")
		if err := ctrl.Reload(); err != nil {
			return fmt.Errorf("failed to reload nginx: %w", err)
		}
	}
	return nil
}

// outputResult handles JSON or human-readable output.
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// CommandResult represents a common result structure for CLI commands.
type CommandResult struct {
	Success bool   `json:"success"`
	Site    string `json:"site"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message,omitempty"`
}

// newSuccessResult creates a success result.
func newSuccessResult(name, action string) CommandResult {
	return CommandResult{
		Success: true,
		Site:    name,
		Action:  action,
	}
}
