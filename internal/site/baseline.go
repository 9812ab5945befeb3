package site

// Performance is the mandatory performance baseline rendered into every
// generated server block. Values follow the F5 tuning guide and CIS
// benchmark recommendations.
type Performance struct {
	WorkerConnections int      `yaml:"worker_connections" json:"worker_connections"`
	KeepaliveTimeout  string   `yaml:"keepalive_timeout" json:"keepalive_timeout"`
	KeepaliveRequests int      `yaml:"keepalive_requests" json:"keepalive_requests"`
	GzipEnabled       bool     `yaml:"gzip_enabled" json:"gzip_enabled"`
	GzipCompLevel     int      `yaml:"gzip_comp_level" json:"gzip_comp_level"`
	GzipMinLength     string   `yaml:"gzip_min_length" json:"gzip_min_length"`
	GzipTypes         []string `yaml:"gzip_types" json:"gzip_types"`
	GzipVary          bool     `yaml:"gzip_vary" json:"gzip_vary"`
	GzipProxied       string   `yaml:"gzip_proxied" json:"gzip_proxied"`
	Sendfile          bool     `yaml:"sendfile" json:"sendfile"`
	TCPNopush         bool     `yaml:"tcp_nopush" json:"tcp_nopush"`
	TCPNodelay        bool     `yaml:"tcp_nodelay" json:"tcp_nodelay"`
	ClientMaxBodySize string   `yaml:"client_max_body_size" json:"client_max_body_size"`
	ClientBodyTimeout string   `yaml:"client_body_timeout" json:"client_body_timeout"`
	SendTimeout       string   `yaml:"send_timeout" json:"send_timeout"`
	AccessLog         string   `yaml:"access_log" json:"access_log"`
	ErrorLogLevel     string   `yaml:"error_log_level" json:"error_log_level"`
}

// IsZero reports whether the baseline was never populated.
func (p Performance) IsZero() bool {
	return p.WorkerConnections == 0 && p.KeepaliveTimeout == "" && len(p.GzipTypes) == 0
}

// Security is the mandatory common security baseline: hidden server
// identity, dot-file denial, request and connection limits, and the
// default security response headers.
type Security struct {
	ServerTokens           string            `yaml:"server_tokens" json:"server_tokens"`
	HideDotFiles           bool              `yaml:"hide_dot_files" json:"hide_dot_files"`
	LimitReqZone           string            `yaml:"limit_req_zone" json:"limit_req_zone"`
	LimitConnZone          string            `yaml:"limit_conn_zone" json:"limit_conn_zone"`
	LimitReq               string            `yaml:"limit_req" json:"limit_req"`
	LimitConn              string            `yaml:"limit_conn" json:"limit_conn"`
	ClientBodyBufferSize   string            `yaml:"client_body_buffer_size" json:"client_body_buffer_size"`
	ClientHeaderBufferSize string            `yaml:"client_header_buffer_size" json:"client_header_buffer_size"`
	SecurityHeaders        map[string]string `yaml:"security_headers" json:"security_headers"`
}

// IsZero reports whether the baseline was never populated.
func (s Security) IsZero() bool {
	return s.ServerTokens == "" && s.LimitReqZone == "" && len(s.SecurityHeaders) == 0
}

// HTTPSHardening is the opt-in HTTPS fragment, emitted only for sites
// with EnableHTTPS set. It is not stored on the Site; the generator
// injects it at render time so the policy stays uniform.
type HTTPSHardening struct {
	SSLProtocols           []string
	SSLCiphers             string
	SSLPreferServerCiphers string
	SSLSessionCache        string
	SSLSessionTimeout      string
	SSLSessionTickets      string
	SSLStapling            string
	SSLStaplingVerify      string
	HSTSEnabled            bool
	HSTSMaxAge             string
	HSTSIncludeSubdomains  bool
	HSTSPreload            bool
	HTTP2Enabled           bool
}

// PerformanceDefaults returns the fixed performance baseline.
func PerformanceDefaults() Performance {
	return Performance{
		WorkerConnections: 1024,
		KeepaliveTimeout:  "65s",
		KeepaliveRequests: 1000,
		GzipEnabled:       true,
		GzipCompLevel:     6,
		GzipMinLength:     "1024",
		GzipTypes: []string{
			"text/plain",
			"text/css",
			"text/xml",
			"text/javascript",
			"application/javascript",
			"application/xml+rss",
			"application/json",
			"image/svg+xml",
		},
		GzipVary:          true,
		GzipProxied:       "any",
		Sendfile:          true,
		TCPNopush:         true,
		TCPNodelay:        true,
		ClientMaxBodySize: "10m",
		ClientBodyTimeout: "12s",
		SendTimeout:       "10s",
		AccessLog:         "off",
		ErrorLogLevel:     "warn",
	}
}

// SecurityDefaults returns the fixed common security baseline.
func SecurityDefaults() Security {
	return Security{
		ServerTokens:           "off",
		HideDotFiles:           true,
		LimitReqZone:           "$binary_remote_addr zone=one:10m rate=10r/s",
		LimitConnZone:          "$binary_remote_addr zone=addr:10m",
		LimitReq:               "zone=one burst=20 nodelay",
		LimitConn:              "addr 20",
		ClientBodyBufferSize:   "8k",
		ClientHeaderBufferSize: "1k",
		SecurityHeaders: map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "SAMEORIGIN",
			"X-XSS-Protection":       "1; mode=block",
			"Referrer-Policy":        "strict-origin-when-cross-origin",
		},
	}
}

// HTTPSHardeningDefaults returns the opt-in TLS hardening fragment.
func HTTPSHardeningDefaults() HTTPSHardening {
	return HTTPSHardening{
		SSLProtocols: []string{"TLSv1.2", "TLSv1.3"},
		SSLCiphers: "ECDHE-ECDSA-AES128-GCM-SHA256:" +
			"ECDHE-RSA-AES128-GCM-SHA256:" +
			"ECDHE-ECDSA-AES256-GCM-SHA384:" +
			"ECDHE-RSA-AES256-GCM-SHA384:" +
			"ECDHE-ECDSA-CHACHA20-POLY1305:" +
			"ECDHE-RSA-CHACHA20-POLY1305:" +
			"DHE-RSA-AES128-GCM-SHA256:" +
			"DHE-RSA-AES256-GCM-SHA384",
		SSLPreferServerCiphers: "on",
		SSLSessionCache:        "shared:SSL:10m",
		SSLSessionTimeout:      "10m",
		SSLSessionTickets:      "off",
		SSLStapling:            "on",
		SSLStaplingVerify:      "on",
		HSTSEnabled:            true,
		HSTSMaxAge:             "31536000",
		HSTSIncludeSubdomains:  true,
		HSTSPreload:            true,
		HTTP2Enabled:           true,
	}
}
