package nginx

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ksyq12/sitectl/internal/logger"
	"github.com/ksyq12/sitectl/internal/site"
)

// Parser turns nginx configuration text into typed sites.
type Parser struct{}

// NewParser returns a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads and parses one configuration file. A missing or
// unreadable file yields an empty result, not an error; the caller
// decides whether that matters.
func (p *Parser) ParseFile(path string) []*site.Site {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("cannot read %s: %v", path, err)
		return nil
	}
	sites := p.Parse(string(data))
	logger.Info("parsed %d site(s) from %s", len(sites), filepath.Base(path))
	return sites
}

// ParseFragmentFile parses one fragment file, taking the site name from
// the file's base name rather than synthesizing it.
func (p *Parser) ParseFragmentFile(path string) []*site.Site {
	sites := p.ParseFile(path)
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, s := range sites {
		s.SiteName = name
	}
	return sites
}

// ParseFragmentDir parses every *.conf file in the fragment directory.
// A missing directory is an empty site list, not an error.
func (p *Parser) ParseFragmentDir(dir string) []*site.Site {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("cannot read fragment directory %s: %v", dir, err)
		}
		return nil
	}

	var sites []*site.Site
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".conf" {
			continue
		}
		sites = append(sites, p.ParseFragmentFile(filepath.Join(dir, entry.Name()))...)
	}
	return sites
}

// Parse extracts every server block from text and classifies each into
// a site. Malformed blocks and redirect stubs are skipped; the call
// always succeeds with whatever parsed cleanly.
func (p *Parser) Parse(text string) []*site.Site {
	blocks := ExtractBlocks(text, "server")

	var sites []*site.Site
	markerTargets := make(map[string]bool)
	stubServers := make(map[string]bool)

	for i, b := range blocks {
		locations := ExtractLocations(b.Body)
		directives := ReadDirectives(StripBlocks(b.Body, locations))

		kind, ok := Classify(directives, locations)
		if !ok {
			// A redirect stub is not a site of its own, but it tells us
			// the paired HTTPS site wants the redirect re-emitted.
			if name, found := RedirectTarget(b.Body); found {
				markerTargets[name] = true
			}
			stubServers[parseServerName(directives.GetDefault("server_name", site.DefaultServerName))] = true
			logger.Debug("server block %d excluded as redirect stub", i)
			continue
		}

		s := p.buildSite(kind, directives, locations)
		if s == nil {
			logger.Debug("server block %d skipped", i)
			continue
		}
		sites = append(sites, s)
	}

	for _, s := range sites {
		if markerTargets[s.SiteName] || (s.EnableHTTPS && stubServers[s.ServerName]) {
			s.EnableHTTPRedirect = true
		}
	}
	return sites
}

// buildSite maps one classified server block onto a Site. Parser-sourced
// sites degrade to defaults instead of failing validation.
func (p *Parser) buildSite(kind site.Kind, directives *DirectiveMap, locations []Block) *site.Site {
	listen := directives.GetDefault("listen", "80")

	s := site.New(kind, "")
	s.ListenPort = parseListenPort(listen)
	s.ServerName = parseServerName(directives.GetDefault("server_name", site.DefaultServerName))
	s.SiteName = fmt.Sprintf("%s_%d", s.ServerName, s.ListenPort)
	s.EnableHTTPS = strings.Contains(listen, "ssl")
	if cert, ok := directives.Get("ssl_certificate"); ok {
		s.SSLCertPath = trimQuotes(cert)
	}
	if key, ok := directives.Get("ssl_certificate_key"); ok {
		s.SSLKeyPath = trimQuotes(key)
	}

	switch kind {
	case site.KindStatic:
		p.fillStatic(s, directives)
	case site.KindPHP:
		p.fillPHP(s, directives, locations)
	case site.KindProxy:
		p.fillProxy(s, locations)
	}

	if err := s.Validate(false); err != nil {
		logger.Warn("site %s dropped: %v", s.SiteName, err)
		return nil
	}
	return s
}

func (p *Parser) fillStatic(s *site.Site, directives *DirectiveMap) {
	if root, ok := directives.Get("root"); ok {
		s.RootPath = trimQuotes(root)
	}
	s.IndexFile = firstField(directives.GetDefault("index", site.DefaultIndexFile))
}

// fillPHP resolves the FastCGI target. A leading slash means a Unix
// socket; host:port means TCP. When the target is a variable reference
// the companion `set $php_fpm "..."` directive carries the real value.
func (p *Parser) fillPHP(s *site.Site, directives *DirectiveMap, locations []Block) {
	if root, ok := directives.Get("root"); ok {
		s.RootPath = trimQuotes(root)
	}

	target := ""
	for _, loc := range locations {
		if v, ok := ExtractDirective(loc.Body, "fastcgi_pass"); ok {
			target = trimQuotes(v)
			break
		}
	}
	if strings.HasPrefix(target, "$") {
		if v, ok := directives.Get("set"); ok {
			fields := strings.Fields(v)
			if len(fields) == 2 && strings.HasPrefix(fields[0], "$") {
				target = trimQuotes(fields[1])
			}
		}
	}

	switch {
	case target == "":
		s.PHPFPMMode = site.FPMUnix
		s.PHPFPMSocket = site.DefaultFPMSocket
	case strings.HasPrefix(target, "/"):
		s.PHPFPMMode = site.FPMUnix
		s.PHPFPMSocket = target
	case strings.HasPrefix(target, "unix:"):
		s.PHPFPMMode = site.FPMUnix
		s.PHPFPMSocket = strings.TrimPrefix(target, "unix:")
	default:
		host, portStr, found := strings.Cut(target, ":")
		port, err := strconv.Atoi(portStr)
		if !found || err != nil {
			logger.Warn("site %s: cannot parse FastCGI target %q, using default socket", s.SiteName, target)
			s.PHPFPMMode = site.FPMUnix
			s.PHPFPMSocket = site.DefaultFPMSocket
			return
		}
		s.PHPFPMMode = site.FPMTCP
		s.PHPFPMHost = trimQuotes(host)
		s.PHPFPMPort = port
	}
}

func (p *Parser) fillProxy(s *site.Site, locations []Block) {
	for _, loc := range locations {
		v, ok := ExtractDirective(loc.Body, "proxy_pass")
		if !ok {
			continue
		}
		s.ProxyPassURL = strings.TrimRight(trimQuotes(v), "/")
		s.LocationPath = site.NormalizeLocationPath(trimQuotes(loc.Selector))
		s.EnableWebsocket = strings.Contains(loc.Body, "Upgrade") ||
			strings.Contains(loc.Body, "upgrade")
		return
	}
	s.ProxyPassURL = site.DefaultProxyURL
	s.LocationPath = "/"
}

// parseListenPort pulls the port number out of a listen value such as
// "443 ssl http2" or "127.0.0.1:8080". Anything unparseable means 80.
func parseListenPort(listen string) int {
	for _, field := range strings.Fields(listen) {
		field = strings.TrimSuffix(field, ";")
		if n, err := strconv.Atoi(field); err == nil {
			return n
		}
		if idx := strings.LastIndexByte(field, ':'); idx >= 0 {
			if n, err := strconv.Atoi(field[idx+1:]); err == nil {
				return n
			}
		}
	}
	return site.DefaultListenPort
}

// parseServerName keeps the first of possibly several names.
func parseServerName(value string) string {
	name := firstField(value)
	if name == "" {
		return site.DefaultServerName
	}
	return trimQuotes(name)
}

func firstField(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
