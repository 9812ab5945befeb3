package site

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/ksyq12/sitectl/internal/logger"
)

// Kind discriminates the three site variants.
type Kind string

// Site kinds.
const (
	KindStatic Kind = "static"
	KindPHP    Kind = "php"
	KindProxy  Kind = "proxy"
)

// ValidKinds returns all valid site kinds.
func ValidKinds() []Kind {
	return []Kind{KindStatic, KindPHP, KindProxy}
}

// IsValidKind checks if the given kind is valid.
func IsValidKind(k Kind) bool {
	for _, valid := range ValidKinds() {
		if k == valid {
			return true
		}
	}
	return false
}

// PHP-FPM connection modes.
const (
	FPMUnix = "unix"
	FPMTCP  = "tcp"
)

// Defaults applied when a field is missing or, in lenient mode, invalid.
const (
	DefaultServerName = "localhost"
	DefaultListenPort = 80
	DefaultIndexFile  = "index.html"
	DefaultFPMSocket  = "/run/php/php-fpm.sock"
	DefaultFPMHost    = "127.0.0.1"
	DefaultFPMPort    = 9000
	DefaultProxyURL   = "http://localhost:8080"
)

// MaxSiteNameLen is the longest accepted site name. The name doubles as
// the fragment file's base name, so it is kept short.
const MaxSiteNameLen = 100

// Site is one managed server entry. Kind selects which of the
// kind-specific field groups is meaningful.
type Site struct {
	Kind Kind `yaml:"kind" json:"kind"`

	// Common fields
	SiteName           string `yaml:"site_name" json:"site_name"`
	ListenPort         int    `yaml:"listen_port" json:"listen_port"`
	ServerName         string `yaml:"server_name" json:"server_name"`
	EnableHTTPS        bool   `yaml:"enable_https" json:"enable_https"`
	EnableHTTPRedirect bool   `yaml:"enable_http_redirect" json:"enable_http_redirect"`
	SSLCertPath        string `yaml:"ssl_cert_path,omitempty" json:"ssl_cert_path,omitempty"`
	SSLKeyPath         string `yaml:"ssl_key_path,omitempty" json:"ssl_key_path,omitempty"`

	// Static and PHP
	RootPath  string `yaml:"root_path,omitempty" json:"root_path,omitempty"`
	IndexFile string `yaml:"index_file,omitempty" json:"index_file,omitempty"`

	// PHP
	PHPFPMMode   string `yaml:"php_fpm_mode,omitempty" json:"php_fpm_mode,omitempty"`
	PHPFPMSocket string `yaml:"php_fpm_socket,omitempty" json:"php_fpm_socket,omitempty"`
	PHPFPMHost   string `yaml:"php_fpm_host,omitempty" json:"php_fpm_host,omitempty"`
	PHPFPMPort   int    `yaml:"php_fpm_port,omitempty" json:"php_fpm_port,omitempty"`

	// Proxy
	ProxyPassURL    string `yaml:"proxy_pass_url,omitempty" json:"proxy_pass_url,omitempty"`
	LocationPath    string `yaml:"location_path,omitempty" json:"location_path,omitempty"`
	EnableWebsocket bool   `yaml:"enable_websocket,omitempty" json:"enable_websocket,omitempty"`

	// Mandatory baselines, never left empty.
	Performance Performance `yaml:"performance_settings" json:"performance_settings"`
	Security    Security    `yaml:"security_settings" json:"security_settings"`
}

// ValidationError reports a rejected field during strict validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// serverNameRe accepts plausible hostnames; "localhost" and dotted IPv4
// addresses are checked separately.
var (
	serverNameRe = regexp.MustCompile(`^(?:[a-zA-Z0-9_](?:[a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9])?\.)*[a-zA-Z0-9_](?:[a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9])?$`)
	ipv4Re       = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+$`)
)

// New returns a Site of the given kind with default common fields and
// populated baselines.
func New(kind Kind, name string) *Site {
	return &Site{
		Kind:        kind,
		SiteName:    name,
		ListenPort:  DefaultListenPort,
		ServerName:  DefaultServerName,
		Performance: PerformanceDefaults(),
		Security:    SecurityDefaults(),
	}
}

// ApplyDefaults fills zero-valued fields with their defaults, including
// the mandatory baselines. It never overwrites explicit values.
func (s *Site) ApplyDefaults() {
	if s.ListenPort == 0 {
		s.ListenPort = DefaultListenPort
	}
	if s.ServerName == "" {
		s.ServerName = DefaultServerName
	}
	switch s.Kind {
	case KindStatic:
		if s.IndexFile == "" {
			s.IndexFile = DefaultIndexFile
		}
	case KindPHP:
		if s.PHPFPMMode == "" {
			s.PHPFPMMode = FPMUnix
		}
		if s.PHPFPMMode == FPMUnix && s.PHPFPMSocket == "" {
			s.PHPFPMSocket = DefaultFPMSocket
		}
		if s.PHPFPMMode == FPMTCP {
			if s.PHPFPMHost == "" {
				s.PHPFPMHost = DefaultFPMHost
			}
			if s.PHPFPMPort == 0 {
				s.PHPFPMPort = DefaultFPMPort
			}
		}
	case KindProxy:
		if s.ProxyPassURL == "" {
			s.ProxyPassURL = DefaultProxyURL
		}
		s.LocationPath = NormalizeLocationPath(s.LocationPath)
		s.ProxyPassURL = strings.TrimRight(s.ProxyPassURL, "/")
	}
	if s.Performance.IsZero() {
		s.Performance = PerformanceDefaults()
	}
	if s.Security.IsZero() {
		s.Security = SecurityDefaults()
	}
}

// Validate checks the site. In strict mode (CLI-sourced input) the first
// offending field is returned as a *ValidationError. In lenient mode
// (parser-sourced input) problems are logged and degraded to defaults,
// so the call never fails.
func (s *Site) Validate(strict bool) error {
	s.ApplyDefaults()

	if err := s.validateCommon(strict); err != nil {
		return err
	}

	switch s.Kind {
	case KindStatic:
		return s.validateStatic(strict)
	case KindPHP:
		return s.validatePHP(strict)
	case KindProxy:
		return s.validateProxy(strict)
	default:
		if strict {
			return invalid("kind", "unknown site kind %q", s.Kind)
		}
		logger.Warn("unknown site kind %q for %s, treating as static", s.Kind, s.SiteName)
		s.Kind = KindStatic
		return s.validateStatic(strict)
	}
}

func (s *Site) validateCommon(strict bool) error {
	if s.SiteName == "" {
		return invalid("site_name", "must not be empty")
	}
	if len(s.SiteName) > MaxSiteNameLen {
		return invalid("site_name", "longer than %d characters", MaxSiteNameLen)
	}

	if s.ListenPort < 1 || s.ListenPort > 65535 {
		if strict {
			return invalid("listen_port", "%d out of range 1-65535", s.ListenPort)
		}
		logger.Warn("site %s: listen port %d out of range, using %d", s.SiteName, s.ListenPort, DefaultListenPort)
		s.ListenPort = DefaultListenPort
	}

	if !validServerName(s.ServerName) {
		if strict {
			return invalid("server_name", "%q is not a hostname or IPv4 address", s.ServerName)
		}
		logger.Warn("site %s: server name %q not recognized, using %s", s.SiteName, s.ServerName, DefaultServerName)
		s.ServerName = DefaultServerName
	}

	// Missing cert files never block loading; nginx will complain on its own.
	if s.EnableHTTPS {
		warnMissing(s.SiteName, "ssl_certificate", s.SSLCertPath)
		warnMissing(s.SiteName, "ssl_certificate_key", s.SSLKeyPath)
	}
	return nil
}

func (s *Site) validateStatic(strict bool) error {
	if s.RootPath == "" {
		if strict {
			return invalid("root_path", "must not be empty")
		}
		s.RootPath = "."
	}
	if badIndexFile(s.IndexFile) {
		if strict {
			return invalid("index_file", "%q must not contain path separators or ..", s.IndexFile)
		}
		logger.Warn("site %s: index file %q rejected, using %s", s.SiteName, s.IndexFile, DefaultIndexFile)
		s.IndexFile = DefaultIndexFile
	}
	return nil
}

func (s *Site) validatePHP(strict bool) error {
	if s.RootPath == "" {
		if strict {
			return invalid("root_path", "must not be empty")
		}
		s.RootPath = "."
	}
	switch s.PHPFPMMode {
	case FPMUnix:
		if s.PHPFPMSocket == "" {
			if strict {
				return invalid("php_fpm_socket", "required in unix mode")
			}
			s.PHPFPMSocket = DefaultFPMSocket
		}
		// Socket existence matters only for form-sourced sites; a parsed
		// config may reference a socket on another machine.
		if strict {
			if _, err := os.Stat(s.PHPFPMSocket); err != nil {
				return invalid("php_fpm_socket", "%s not found", s.PHPFPMSocket)
			}
		}
	case FPMTCP:
		if s.PHPFPMHost == "" {
			if strict {
				return invalid("php_fpm_host", "required in tcp mode")
			}
			s.PHPFPMHost = DefaultFPMHost
		}
		if s.PHPFPMPort < 1 || s.PHPFPMPort > 65535 {
			if strict {
				return invalid("php_fpm_port", "%d out of range 1-65535", s.PHPFPMPort)
			}
			s.PHPFPMPort = DefaultFPMPort
		}
	default:
		if strict {
			return invalid("php_fpm_mode", "%q must be unix or tcp", s.PHPFPMMode)
		}
		s.PHPFPMMode = FPMUnix
		s.PHPFPMSocket = DefaultFPMSocket
	}
	return nil
}

func (s *Site) validateProxy(strict bool) error {
	if !strings.HasPrefix(s.ProxyPassURL, "http://") && !strings.HasPrefix(s.ProxyPassURL, "https://") {
		if strict {
			return invalid("proxy_pass_url", "%q must start with http:// or https://", s.ProxyPassURL)
		}
		logger.Warn("site %s: proxy URL %q rejected, using %s", s.SiteName, s.ProxyPassURL, DefaultProxyURL)
		s.ProxyPassURL = DefaultProxyURL
	}
	if strict {
		if _, err := url.Parse(s.ProxyPassURL); err != nil {
			return invalid("proxy_pass_url", "%v", err)
		}
	}
	s.ProxyPassURL = strings.TrimRight(s.ProxyPassURL, "/")
	s.LocationPath = NormalizeLocationPath(s.LocationPath)
	return nil
}

// NormalizeLocationPath forces a leading slash and strips the trailing
// one; an empty path collapses to "/".
func NormalizeLocationPath(p string) string {
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// PrimaryField returns the kind-specific field that identifies the site's
// target: document root, FastCGI endpoint, or upstream URL.
func (s *Site) PrimaryField() string {
	switch s.Kind {
	case KindPHP:
		if s.PHPFPMMode == FPMTCP {
			return fmt.Sprintf("%s:%d", s.PHPFPMHost, s.PHPFPMPort)
		}
		return s.PHPFPMSocket
	case KindProxy:
		return s.ProxyPassURL
	default:
		return s.RootPath
	}
}

func validServerName(name string) bool {
	if name == DefaultServerName {
		return true
	}
	return serverNameRe.MatchString(name) || ipv4Re.MatchString(name)
}

func badIndexFile(index string) bool {
	return strings.Contains(index, "..") ||
		strings.Contains(index, "/") ||
		strings.Contains(index, "\\")
}

func warnMissing(siteName, what, path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		logger.Warn("site %s: %s %s does not exist", siteName, what, path)
	}
}
