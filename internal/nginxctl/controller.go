// Package nginxctl drives the external nginx binary: syntax check,
// reload, start, stop. The engine never interprets nginx's diagnostic
// output; it is passed through verbatim for the user to read.
package nginxctl

import (
	"fmt"
	"strings"

	"github.com/ksyq12/sitectl/internal/executor"
	"github.com/ksyq12/sitectl/internal/logger"
)

// Controller invokes nginx through a CommandExecutor so tests can
// substitute a mock.
type Controller struct {
	nginxPath  string
	configPath string
	exec       executor.CommandExecutor
}

// New creates a Controller for the given nginx binary and root config.
func New(nginxPath, configPath string) *Controller {
	return &Controller{
		nginxPath:  nginxPath,
		configPath: configPath,
		exec:       executor.NewSystemExecutor(),
	}
}

// NewWithExecutor creates a Controller with a custom executor (for
// testing).
func NewWithExecutor(nginxPath, configPath string, exec executor.CommandExecutor) *Controller {
	return &Controller{
		nginxPath:  nginxPath,
		configPath: configPath,
		exec:       exec,
	}
}

// NginxPath returns the configured nginx binary path.
func (c *Controller) NginxPath() string {
	return c.nginxPath
}

// Test runs the nginx syntax check against the root config. The
// diagnostic output is returned either way so callers can show it.
func (c *Controller) Test() (string, error) {
	out, err := c.run("-t")
	if err != nil {
		return out, fmt.Errorf("config test failed: %s", strings.TrimSpace(out))
	}
	return out, nil
}

// Start launches nginx.
func (c *Controller) Start() error {
	out, err := c.run()
	if err != nil {
		return fmt.Errorf("failed to start nginx: %s", strings.TrimSpace(out))
	}
	logger.Info("nginx started")
	return nil
}

// Stop asks nginx to quit gracefully.
func (c *Controller) Stop() error {
	out, err := c.run("-s", "quit")
	if err != nil {
		return fmt.Errorf("failed to stop nginx: %s", strings.TrimSpace(out))
	}
	logger.Info("nginx stopped")
	return nil
}

// Reload tests the configuration first and then signals a reload; a
// failing syntax check aborts before the running server is touched.
func (c *Controller) Reload() error {
	if out, err := c.Test(); err != nil {
		logger.Error("reload aborted: %s", strings.TrimSpace(out))
		return err
	}
	out, err := c.run("-s", "reload")
	if err != nil {
		return fmt.Errorf("failed to reload nginx: %s", strings.TrimSpace(out))
	}
	logger.Info("nginx reloaded")
	return nil
}

// IsRunning reports whether an nginx master process is alive. The check
// goes through pgrep so it works without root and without a pid file.
func (c *Controller) IsRunning() bool {
	_, err := c.exec.Execute("pgrep", "-x", "nginx")
	return err == nil
}

// Version returns the nginx version banner.
func (c *Controller) Version() (string, error) {
	out, err := c.exec.Execute(c.nginxPath, "-v")
	if err != nil {
		return "", fmt.Errorf("failed to query nginx version: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *Controller) run(args ...string) (string, error) {
	full := args
	if c.configPath != "" {
		full = append([]string{"-c", c.configPath}, args...)
	}
	logger.Debug("exec: %s %s", c.nginxPath, strings.Join(full, " "))
	out, err := c.exec.Execute(c.nginxPath, full...)
	return string(out), err
}
