package cli

import (
	"os"
	"strings"

	"github.com/ksyq12/sitectl/internal/config"
	"github.com/ksyq12/sitectl/internal/nginxctl"
	"github.com/ksyq12/sitectl/internal/output"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the sitectl environment",
	Long: `Run a series of environment checks: settings, nginx binary, root
configuration, fragment directory, include line, and the nginx syntax
check itself.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck is one environment check result.
type doctorCheck struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	settings, err := config.Load()
	if err != nil {
		return err
	}

	checks := []doctorCheck{
		checkSettings(settings),
		checkNginxBinary(settings),
		checkRootConfig(settings),
		checkFragmentDir(settings),
		checkInclude(settings),
		checkSyntax(settings),
		checkRunning(settings),
	}

	if jsonOutput {
		return output.JSON(checks)
	}

	failed := 0
	for _, c := range checks {
		if c.OK {
			output.Success("%s: %s", c.Name, c.Message)
		} else {
			failed++
			output.Error("%s: %s", c.Name, c.Message)
		}
	}
	if failed > 0 {
		output.Warn("%d check(s) failed", failed)
	} else {
		output.Success("All checks passed")
	}
	return nil
}

func checkSettings(settings *config.Settings) doctorCheck {
	if settings.ConfigPath == "" {
		return doctorCheck{Name: "settings", OK: false, Message: "config path not set; run 'sitectl takeover'"}
	}
	return doctorCheck{Name: "settings", OK: true, Message: "fragment directory id " + settings.ConfDirID}
}

func checkNginxBinary(settings *config.Settings) doctorCheck {
	path := settings.NginxPath
	if _, err := os.Stat(path); err != nil {
		// The path may be a bare command name resolved through PATH.
		detected := config.DetectNginxPath()
		if detected == "" {
			return doctorCheck{Name: "nginx binary", OK: false, Message: path + " not found"}
		}
		path = detected
	}
	return doctorCheck{Name: "nginx binary", OK: true, Message: path}
}

func checkRootConfig(settings *config.Settings) doctorCheck {
	if settings.ConfigPath == "" {
		return doctorCheck{Name: "root config", OK: false, Message: "not configured"}
	}
	if _, err := os.Stat(settings.ConfigPath); err != nil {
		return doctorCheck{Name: "root config", OK: false, Message: settings.ConfigPath + " not found"}
	}
	return doctorCheck{Name: "root config", OK: true, Message: settings.ConfigPath}
}

func checkFragmentDir(settings *config.Settings) doctorCheck {
	if settings.ConfigPath == "" {
		return doctorCheck{Name: "fragment directory", OK: false, Message: "not configured"}
	}
	dir := settings.FragmentDir()
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		// Created lazily on the first update; absence is informational.
		return doctorCheck{Name: "fragment directory", OK: true, Message: dir + " (not created yet)"}
	}
	return doctorCheck{Name: "fragment directory", OK: true, Message: dir}
}

func checkInclude(settings *config.Settings) doctorCheck {
	if settings.ConfigPath == "" {
		return doctorCheck{Name: "include line", OK: false, Message: "not configured"}
	}
	data, err := os.ReadFile(settings.ConfigPath)
	if err != nil {
		return doctorCheck{Name: "include line", OK: false, Message: "cannot read root config"}
	}
	line := "include " + settings.FragmentDirName() + "/*.conf;"
	if !strings.Contains(string(data), line) {
		return doctorCheck{Name: "include line", OK: false, Message: line + " missing; run 'sitectl takeover' or 'sitectl apply'"}
	}
	return doctorCheck{Name: "include line", OK: true, Message: line}
}

func checkSyntax(settings *config.Settings) doctorCheck {
	if settings.ConfigPath == "" {
		return doctorCheck{Name: "syntax check", OK: false, Message: "not configured"}
	}
	ctrl := nginxctl.New(settings.NginxPath, settings.ConfigPath)
	out, err := ctrl.Test()
	if err != nil {
		return doctorCheck{Name: "syntax check", OK: false, Message: strings.TrimSpace(out)}
	}
	return doctorCheck{Name: "syntax check", OK: true, Message: "nginx -t passed"}
}

func checkRunning(settings *config.Settings) doctorCheck {
	ctrl := nginxctl.New(settings.NginxPath, settings.ConfigPath)
	if !ctrl.IsRunning() {
		// A stopped server is a valid state; reloads will just fail.
		return doctorCheck{Name: "nginx process", OK: true, Message: "not running"}
	}
	return doctorCheck{Name: "nginx process", OK: true, Message: "running"}
}
