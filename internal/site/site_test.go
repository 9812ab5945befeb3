package site

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	s := New(KindStatic, "mysite")
	if s.Kind != KindStatic {
		t.Errorf("Kind = %q, want static", s.Kind)
	}
	if s.SiteName != "mysite" {
		t.Errorf("SiteName = %q, want mysite", s.SiteName)
	}
	if s.ListenPort != DefaultListenPort {
		t.Errorf("ListenPort = %d, want %d", s.ListenPort, DefaultListenPort)
	}
	if s.ServerName != DefaultServerName {
		t.Errorf("ServerName = %q, want %q", s.ServerName, DefaultServerName)
	}
	if s.Performance.IsZero() {
		t.Error("Performance baseline not populated")
	}
	if s.Security.IsZero() {
		t.Error("Security baseline not populated")
	}
}

func TestIsValidKind(t *testing.T) {
	for _, k := range ValidKinds() {
		if !IsValidKind(k) {
			t.Errorf("IsValidKind(%q) = false, want true", k)
		}
	}
	if IsValidKind("cgi") {
		t.Error("IsValidKind(cgi) = true, want false")
	}
}

func TestValidateStrict(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Site)
		wantField string
	}{
		{
			name:      "empty site name",
			modify:    func(s *Site) { s.SiteName = "" },
			wantField: "site_name",
		},
		{
			name:      "oversized site name",
			modify:    func(s *Site) { s.SiteName = string(make([]byte, MaxSiteNameLen+1)) },
			wantField: "site_name",
		},
		{
			name:      "port out of range",
			modify:    func(s *Site) { s.ListenPort = 70000 },
			wantField: "listen_port",
		},
		{
			name:      "bad server name",
			modify:    func(s *Site) { s.ServerName = "not a hostname!" },
			wantField: "server_name",
		},
		{
			name:      "index with path separator",
			modify:    func(s *Site) { s.IndexFile = "../evil.html" },
			wantField: "index_file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(KindStatic, "mysite")
			s.RootPath = t.TempDir()
			tt.modify(s)

			err := s.Validate(true)
			if err == nil {
				t.Fatal("Validate(strict) = nil, want error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate(strict) error type = %T, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestValidateLenientDegrades(t *testing.T) {
	s := New(KindStatic, "mysite")
	s.ListenPort = -5
	s.ServerName = "not a hostname!"
	s.IndexFile = "../evil.html"
	s.RootPath = ""

	if err := s.Validate(false); err != nil {
		t.Fatalf("Validate(lenient) = %v, want nil", err)
	}
	if s.ListenPort != DefaultListenPort {
		t.Errorf("ListenPort = %d, want degraded to %d", s.ListenPort, DefaultListenPort)
	}
	if s.ServerName != DefaultServerName {
		t.Errorf("ServerName = %q, want degraded to %q", s.ServerName, DefaultServerName)
	}
	if s.IndexFile != DefaultIndexFile {
		t.Errorf("IndexFile = %q, want degraded to %q", s.IndexFile, DefaultIndexFile)
	}
	if s.RootPath == "" {
		t.Error("RootPath still empty after lenient validation")
	}
}

func TestValidatePHP(t *testing.T) {
	t.Run("strict requires existing socket", func(t *testing.T) {
		s := New(KindPHP, "app")
		s.RootPath = t.TempDir()
		s.PHPFPMMode = FPMUnix
		s.PHPFPMSocket = "/nonexistent/php.sock"

		err := s.Validate(true)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "php_fpm_socket" {
			t.Errorf("Validate(strict) = %v, want php_fpm_socket error", err)
		}
	})

	t.Run("strict accepts existing socket", func(t *testing.T) {
		dir := t.TempDir()
		sock := filepath.Join(dir, "php.sock")
		if err := os.WriteFile(sock, nil, 0o644); err != nil {
			t.Fatal(err)
		}

		s := New(KindPHP, "app")
		s.RootPath = dir
		s.PHPFPMMode = FPMUnix
		s.PHPFPMSocket = sock
		if err := s.Validate(true); err != nil {
			t.Errorf("Validate(strict) = %v, want nil", err)
		}
	})

	t.Run("lenient tolerates missing socket", func(t *testing.T) {
		s := New(KindPHP, "app")
		s.RootPath = "/var/www"
		s.PHPFPMMode = FPMUnix
		s.PHPFPMSocket = "/nonexistent/php.sock"
		if err := s.Validate(false); err != nil {
			t.Errorf("Validate(lenient) = %v, want nil", err)
		}
	})

	t.Run("tcp mode fills host and port", func(t *testing.T) {
		s := New(KindPHP, "app")
		s.RootPath = "/var/www"
		s.PHPFPMMode = FPMTCP
		if err := s.Validate(false); err != nil {
			t.Fatalf("Validate(lenient) = %v, want nil", err)
		}
		if s.PHPFPMHost != DefaultFPMHost || s.PHPFPMPort != DefaultFPMPort {
			t.Errorf("tcp defaults = %s:%d, want %s:%d", s.PHPFPMHost, s.PHPFPMPort, DefaultFPMHost, DefaultFPMPort)
		}
	})

	t.Run("unknown mode degrades to unix", func(t *testing.T) {
		s := New(KindPHP, "app")
		s.RootPath = "/var/www"
		s.PHPFPMMode = "pipe"
		if err := s.Validate(false); err != nil {
			t.Fatalf("Validate(lenient) = %v, want nil", err)
		}
		if s.PHPFPMMode != FPMUnix || s.PHPFPMSocket != DefaultFPMSocket {
			t.Errorf("mode = %q socket = %q, want unix default", s.PHPFPMMode, s.PHPFPMSocket)
		}
	})
}

func TestValidateProxy(t *testing.T) {
	t.Run("strict rejects non-http scheme", func(t *testing.T) {
		s := New(KindProxy, "api")
		s.ProxyPassURL = "ftp://files.example.com"

		err := s.Validate(true)
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Field != "proxy_pass_url" {
			t.Errorf("Validate(strict) = %v, want proxy_pass_url error", err)
		}
	})

	t.Run("trailing slash is stripped", func(t *testing.T) {
		s := New(KindProxy, "api")
		s.ProxyPassURL = "http://localhost:3000/"
		if err := s.Validate(false); err != nil {
			t.Fatalf("Validate(lenient) = %v, want nil", err)
		}
		if s.ProxyPassURL != "http://localhost:3000" {
			t.Errorf("ProxyPassURL = %q, want trailing slash stripped", s.ProxyPassURL)
		}
	})

	t.Run("lenient degrades bad url to default", func(t *testing.T) {
		s := New(KindProxy, "api")
		s.ProxyPassURL = "garbage"
		if err := s.Validate(false); err != nil {
			t.Fatalf("Validate(lenient) = %v, want nil", err)
		}
		if s.ProxyPassURL != DefaultProxyURL {
			t.Errorf("ProxyPassURL = %q, want %q", s.ProxyPassURL, DefaultProxyURL)
		}
	})
}

func TestNormalizeLocationPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/", "/"},
		{"api", "/api"},
		{"/api", "/api"},
		{"/api/", "/api"},
		{"api/v2/", "/api/v2"},
		{"///", "/"},
	}
	for _, tt := range tests {
		if got := NormalizeLocationPath(tt.in); got != tt.want {
			t.Errorf("NormalizeLocationPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrimaryField(t *testing.T) {
	static := New(KindStatic, "s")
	static.RootPath = "/var/www"
	if got := static.PrimaryField(); got != "/var/www" {
		t.Errorf("static PrimaryField() = %q, want /var/www", got)
	}

	php := New(KindPHP, "p")
	php.PHPFPMMode = FPMTCP
	php.PHPFPMHost = "127.0.0.1"
	php.PHPFPMPort = 9000
	if got := php.PrimaryField(); got != "127.0.0.1:9000" {
		t.Errorf("php tcp PrimaryField() = %q, want 127.0.0.1:9000", got)
	}

	proxy := New(KindProxy, "x")
	proxy.ProxyPassURL = "http://localhost:3000"
	if got := proxy.PrimaryField(); got != "http://localhost:3000" {
		t.Errorf("proxy PrimaryField() = %q, want the upstream URL", got)
	}
}

func TestServerNames(t *testing.T) {
	valid := []string{"localhost", "example.com", "sub.example.com", "my-site.example.co.uk", "192.168.1.10", "internal_host"}
	for _, name := range valid {
		if !validServerName(name) {
			t.Errorf("validServerName(%q) = false, want true", name)
		}
	}

	invalid := []string{"", "has space", "semi;colon", "back\\slash"}
	for _, name := range invalid {
		if validServerName(name) {
			t.Errorf("validServerName(%q) = true, want false", name)
		}
	}
}
