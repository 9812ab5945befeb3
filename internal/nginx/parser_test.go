package nginx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ksyq12/sitectl/internal/site"
)

func TestParseStatic(t *testing.T) {
	text := "server {\n" +
		"    listen 81;\n" +
		"    server_name localhost;\n" +
		"    root \"C:\\Users\\x\\1\";\n" +
		"    index index.html;\n" +
		"}\n"

	sites := NewParser().Parse(text)
	if len(sites) != 1 {
		t.Fatalf("Parse() returned %d sites, want 1", len(sites))
	}

	s := sites[0]
	if s.Kind != site.KindStatic {
		t.Errorf("Kind = %q, want static", s.Kind)
	}
	if s.ListenPort != 81 {
		t.Errorf("ListenPort = %d, want 81", s.ListenPort)
	}
	if s.ServerName != "localhost" {
		t.Errorf("ServerName = %q, want localhost", s.ServerName)
	}
	if s.SiteName != "localhost_81" {
		t.Errorf("SiteName = %q, want localhost_81", s.SiteName)
	}
	if s.RootPath != `C:\Users\x\1` {
		t.Errorf("RootPath = %q, quotes must be stripped", s.RootPath)
	}
	if s.IndexFile != "index.html" {
		t.Errorf("IndexFile = %q, want index.html", s.IndexFile)
	}
	if s.EnableHTTPS {
		t.Error("EnableHTTPS = true, want false")
	}
	if s.Performance.IsZero() || s.Security.IsZero() {
		t.Error("parsed site must carry populated baselines")
	}
}

func TestParseListen(t *testing.T) {
	tests := []struct {
		name     string
		listen   string
		wantPort int
		wantSSL  bool
	}{
		{"bare port", "8080", 8080, false},
		{"ssl with http2", "443 ssl http2", 443, true},
		{"address and port", "127.0.0.1:9090", 9090, false},
		{"garbage falls back to 80", "nonsense", 80, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "server {\n    listen " + tt.listen + ";\n    root /var/www;\n}\n"
			sites := NewParser().Parse(text)
			if len(sites) != 1 {
				t.Fatalf("Parse() returned %d sites, want 1", len(sites))
			}
			if sites[0].ListenPort != tt.wantPort {
				t.Errorf("ListenPort = %d, want %d", sites[0].ListenPort, tt.wantPort)
			}
			if sites[0].EnableHTTPS != tt.wantSSL {
				t.Errorf("EnableHTTPS = %v, want %v", sites[0].EnableHTTPS, tt.wantSSL)
			}
		})
	}
}

func TestParsePHPTargets(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantMode   string
		wantSocket string
		wantHost   string
		wantPort   int
	}{
		{
			name:       "unix socket path",
			body:       "root /var/www;\nlocation ~ \\.php$ {\n    fastcgi_pass unix:/run/php/php8.2-fpm.sock;\n}\n",
			wantMode:   site.FPMUnix,
			wantSocket: "/run/php/php8.2-fpm.sock",
		},
		{
			name:     "tcp host and port",
			body:     "root /var/www;\nlocation ~ \\.php$ {\n    fastcgi_pass 127.0.0.1:9000;\n}\n",
			wantMode: site.FPMTCP,
			wantHost: "127.0.0.1",
			wantPort: 9000,
		},
		{
			name:       "variable resolved through set",
			body:       "root /var/www;\nset $php_fpm \"/run/php/php-fpm.sock\";\nlocation ~ \\.php$ {\n    fastcgi_pass $php_fpm;\n}\n",
			wantMode:   site.FPMUnix,
			wantSocket: "/run/php/php-fpm.sock",
		},
		{
			name:     "variable resolved through set to tcp",
			body:     "root /var/www;\nset $php_fpm \"10.0.0.5:9001\";\nlocation ~ \\.php$ {\n    fastcgi_pass $php_fpm;\n}\n",
			wantMode: site.FPMTCP,
			wantHost: "10.0.0.5",
			wantPort: 9001,
		},
		{
			name:       "unresolvable target degrades to default socket",
			body:       "root /var/www;\nlocation ~ \\.php$ {\n    fastcgi_pass garbage;\n}\n",
			wantMode:   site.FPMUnix,
			wantSocket: site.DefaultFPMSocket,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "server {\n    listen 80;\n" + tt.body + "}\n"
			sites := NewParser().Parse(text)
			if len(sites) != 1 {
				t.Fatalf("Parse() returned %d sites, want 1", len(sites))
			}
			s := sites[0]
			if s.Kind != site.KindPHP {
				t.Fatalf("Kind = %q, want php", s.Kind)
			}
			if s.PHPFPMMode != tt.wantMode {
				t.Errorf("PHPFPMMode = %q, want %q", s.PHPFPMMode, tt.wantMode)
			}
			if tt.wantSocket != "" && s.PHPFPMSocket != tt.wantSocket {
				t.Errorf("PHPFPMSocket = %q, want %q", s.PHPFPMSocket, tt.wantSocket)
			}
			if tt.wantHost != "" && s.PHPFPMHost != tt.wantHost {
				t.Errorf("PHPFPMHost = %q, want %q", s.PHPFPMHost, tt.wantHost)
			}
			if tt.wantPort != 0 && s.PHPFPMPort != tt.wantPort {
				t.Errorf("PHPFPMPort = %d, want %d", s.PHPFPMPort, tt.wantPort)
			}
		})
	}
}

func TestParseProxy(t *testing.T) {
	text := "server {\n" +
		"    listen 80;\n" +
		"    server_name api.example.com;\n" +
		"    location /api/ {\n" +
		"        proxy_pass http://localhost:3000/;\n" +
		"        proxy_http_version 1.1;\n" +
		"        proxy_set_header Upgrade $http_upgrade;\n" +
		"    }\n" +
		"}\n"

	sites := NewParser().Parse(text)
	if len(sites) != 1 {
		t.Fatalf("Parse() returned %d sites, want 1", len(sites))
	}

	s := sites[0]
	if s.Kind != site.KindProxy {
		t.Fatalf("Kind = %q, want proxy", s.Kind)
	}
	if s.ProxyPassURL != "http://localhost:3000" {
		t.Errorf("ProxyPassURL = %q, trailing slash must be stripped", s.ProxyPassURL)
	}
	if s.LocationPath != "/api" {
		t.Errorf("LocationPath = %q, want normalized /api", s.LocationPath)
	}
	if !s.EnableWebsocket {
		t.Error("EnableWebsocket = false, Upgrade header should flag it")
	}
}

func TestParseRedirectPair(t *testing.T) {
	text := "server {\n" +
		"    listen 443 ssl http2;\n" +
		"    server_name shop.example.com;\n" +
		"    ssl_certificate /etc/ssl/shop.crt;\n" +
		"    ssl_certificate_key /etc/ssl/shop.key;\n" +
		"    root /var/www/shop;\n" +
		"    index index.html;\n" +
		"}\n" +
		"server {\n" +
		"    # managed-redirect-for: shop.example.com_443\n" +
		"    listen 80;\n" +
		"    server_name shop.example.com;\n" +
		"    return 301 https://$host$request_uri;\n" +
		"}\n"

	sites := NewParser().Parse(text)
	if len(sites) != 1 {
		t.Fatalf("Parse() returned %d sites, want 1 (stub excluded)", len(sites))
	}

	s := sites[0]
	if !s.EnableHTTPS {
		t.Error("EnableHTTPS = false, want true")
	}
	if !s.EnableHTTPRedirect {
		t.Error("EnableHTTPRedirect = false, the marker stub should have set it")
	}
	if s.SSLCertPath != "/etc/ssl/shop.crt" {
		t.Errorf("SSLCertPath = %q, want /etc/ssl/shop.crt", s.SSLCertPath)
	}
}

func TestParseRedirectPairWithoutMarker(t *testing.T) {
	// Hand-written configs carry no marker; the stub is matched to the
	// HTTPS twin by server_name instead.
	text := "server {\n" +
		"    listen 443 ssl;\n" +
		"    server_name example.com;\n" +
		"    root /var/www;\n" +
		"}\n" +
		"server {\n" +
		"    listen 80;\n" +
		"    server_name example.com;\n" +
		"    return 301 https://example.com$request_uri;\n" +
		"}\n"

	sites := NewParser().Parse(text)
	if len(sites) != 1 {
		t.Fatalf("Parse() returned %d sites, want 1", len(sites))
	}
	if !sites[0].EnableHTTPRedirect {
		t.Error("EnableHTTPRedirect = false, want true via server_name match")
	}
}

func TestParseMalformedBlockSkipped(t *testing.T) {
	text := "server {\n    listen 80;\n    root /var/www;\n" + // never closed
		"server {\n    listen 8080;\n    root /srv;\n}\n"

	sites := NewParser().Parse(text)
	if len(sites) != 1 {
		t.Fatalf("Parse() returned %d sites, want 1", len(sites))
	}
	if sites[0].ListenPort != 8080 {
		t.Errorf("ListenPort = %d, want 8080", sites[0].ListenPort)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nginx.conf")
	content := "events {}\nhttp {\n    server {\n        listen 80;\n        root /var/www;\n    }\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sites := NewParser().ParseFile(path)
	if len(sites) != 1 {
		t.Fatalf("ParseFile() returned %d sites, want 1", len(sites))
	}

	if got := NewParser().ParseFile(filepath.Join(dir, "missing.conf")); got != nil {
		t.Errorf("ParseFile(missing) = %v, want nil", got)
	}
}

func TestParseFragmentFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blog.conf")
	content := "server {\n    listen 80;\n    server_name blog.example.com;\n    root /var/www/blog;\n}\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	sites := NewParser().ParseFragmentFile(path)
	if len(sites) != 1 {
		t.Fatalf("ParseFragmentFile() returned %d sites, want 1", len(sites))
	}
	if sites[0].SiteName != "blog" {
		t.Errorf("SiteName = %q, want the file base name blog", sites[0].SiteName)
	}
}

func TestParseFragmentDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.conf":  "server {\n    listen 80;\n    root /var/www/a;\n}\n",
		"b.conf":  "server {\n    listen 81;\n    root /var/www/b;\n}\n",
		"c.notes": "not a fragment",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	sites := NewParser().ParseFragmentDir(dir)
	if len(sites) != 2 {
		t.Fatalf("ParseFragmentDir() returned %d sites, want 2", len(sites))
	}

	if got := NewParser().ParseFragmentDir(filepath.Join(dir, "nope")); got != nil {
		t.Errorf("ParseFragmentDir(missing) = %v, want nil", got)
	}
}
