package cli

import (
	"fmt"

	"github.com/ksyq12/sitectl/internal/output"
	"github.com/ksyq12/sitectl/internal/site"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one managed site's configuration",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	name := args[0]

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	s := findSite(loadManagedSites(settings), name)
	if s == nil {
		return fmt.Errorf("site %s not found", name)
	}

	if jsonOutput {
		return output.JSON(s)
	}

	output.Print("Name:         %s", s.SiteName)
	output.Print("Kind:         %s", s.Kind)
	output.Print("Listen port:  %d", s.ListenPort)
	output.Print("Server name:  %s", s.ServerName)
	output.Print("HTTPS:        %t", s.EnableHTTPS)
	if s.EnableHTTPS {
		output.Print("HTTP redirect: %t", s.EnableHTTPRedirect)
		output.Print("Certificate:  %s", s.SSLCertPath)
		output.Print("Private key:  %s", s.SSLKeyPath)
	}

	switch s.Kind {
	case site.KindStatic:
		output.Print("Root:         %s", s.RootPath)
		output.Print("Index:        %s", s.IndexFile)
	case site.KindPHP:
		output.Print("Root:         %s", s.RootPath)
		output.Print("FPM mode:     %s", s.PHPFPMMode)
		if s.PHPFPMMode == site.FPMUnix {
			output.Print("FPM socket:   %s", s.PHPFPMSocket)
		} else {
			output.Print("FPM address:  %s:%d", s.PHPFPMHost, s.PHPFPMPort)
		}
	case site.KindProxy:
		output.Print("Upstream:     %s", s.ProxyPassURL)
		output.Print("Location:     %s", s.LocationPath)
		output.Print("WebSocket:    %t", s.EnableWebsocket)
	}
	return nil
}
