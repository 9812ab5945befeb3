package cli

import (
	"fmt"
	"strings"

	"github.com/ksyq12/sitectl/internal/output"
	"github.com/ksyq12/sitectl/internal/site"
	"github.com/spf13/cobra"
)

var (
	addKind      string
	addPort      int
	addServer    string
	addRoot      string
	addIndex     string
	addProxy     string
	addLocation  string
	addWebsocket bool
	addFPMMode   string
	addFPMSocket string
	addFPMHost   string
	addFPMPort   int
	addHTTPS     bool
	addRedirect  bool
	addCert      string
	addKey       string
	addNoReload  bool
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new managed site",
	Long: `Add a new managed site and write its fragment file.

Examples:
  sitectl add docs --kind static --root /var/www/docs
  sitectl add blog --kind php --root /var/www/blog --fpm-mode tcp --fpm-port 9000
  sitectl add api --kind proxy --proxy http://localhost:3000 --location /api
  sitectl add shop --kind static --root /var/www/shop --https --cert /etc/ssl/shop.pem --key /etc/ssl/shop.key --redirect`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVarP(&addKind, "kind", "k", "static", "Site kind (static, php, proxy)")
	addCmd.Flags().IntVarP(&addPort, "port", "p", site.DefaultListenPort, "Listen port")
	addCmd.Flags().StringVarP(&addServer, "server-name", "s", site.DefaultServerName, "Server name")
	addCmd.Flags().StringVarP(&addRoot, "root", "r", "", "Document root (static, php)")
	addCmd.Flags().StringVar(&addIndex, "index", "", "Index file (static)")
	addCmd.Flags().StringVar(&addProxy, "proxy", "", "Upstream URL (proxy)")
	addCmd.Flags().StringVar(&addLocation, "location", "/", "Location path prefix (proxy)")
	addCmd.Flags().BoolVar(&addWebsocket, "websocket", false, "Enable WebSocket upgrade headers (proxy)")
	addCmd.Flags().StringVar(&addFPMMode, "fpm-mode", site.FPMUnix, "PHP-FPM connection mode (unix, tcp)")
	addCmd.Flags().StringVar(&addFPMSocket, "fpm-socket", "", "PHP-FPM unix socket path")
	addCmd.Flags().StringVar(&addFPMHost, "fpm-host", "", "PHP-FPM TCP host")
	addCmd.Flags().IntVar(&addFPMPort, "fpm-port", 0, "PHP-FPM TCP port")
	addCmd.Flags().BoolVar(&addHTTPS, "https", false, "Enable HTTPS")
	addCmd.Flags().BoolVar(&addRedirect, "redirect", false, "Emit HTTP to HTTPS redirect companion (with --https)")
	addCmd.Flags().StringVar(&addCert, "cert", "", "SSL certificate path")
	addCmd.Flags().StringVar(&addKey, "key", "", "SSL private key path")
	addCmd.Flags().BoolVar(&addNoReload, "no-reload", false, "Don't reload nginx")

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := args[0]

	kind := site.Kind(addKind)
	if !site.IsValidKind(kind) {
		kinds := make([]string, 0, 3)
		for _, k := range site.ValidKinds() {
			kinds = append(kinds, string(k))
		}
		return fmt.Errorf("invalid kind: %s. Valid kinds: %s", addKind, strings.Join(kinds, ", "))
	}

	s := buildSiteFromFlags(kind, name)

	// Form-sourced sites are validated strictly; the first bad field is
	// reported back to the user.
	if err := s.Validate(true); err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	sites := loadManagedSites(settings)
	if findSite(sites, name) != nil {
		return fmt.Errorf("site %s already exists", name)
	}
	sites = append(sites, s)

	m, err := newManager()
	if err != nil {
		return err
	}

	output.Info("Writing site fragment...")
	if err := m.Update(sites, settings.FragmentDir(), settings.ConfigPath); err != nil {
		return fmt.Errorf("failed to update configuration: %w", err)
	}

	if err := testAndReload(settings, !addNoReload); err != nil {
		return err
	}

	return outputResult(newSuccessResult(name, "add"), "Site %s added", name)
}

func buildSiteFromFlags(kind site.Kind, name string) *site.Site {
	s := site.New(kind, name)
	s.ListenPort = addPort
	s.ServerName = addServer
	s.EnableHTTPS = addHTTPS
	s.EnableHTTPRedirect = addRedirect
	s.SSLCertPath = addCert
	s.SSLKeyPath = addKey

	switch kind {
	case site.KindStatic:
		s.RootPath = addRoot
		s.IndexFile = addIndex
	case site.KindPHP:
		s.RootPath = addRoot
		s.PHPFPMMode = addFPMMode
		s.PHPFPMSocket = addFPMSocket
		s.PHPFPMHost = addFPMHost
		s.PHPFPMPort = addFPMPort
	case site.KindProxy:
		s.ProxyPassURL = addProxy
		s.LocationPath = addLocation
		s.EnableWebsocket = addWebsocket
	}
	return s
}
