package config

import (
	"os"
	"path/filepath"
)

// nginxCandidates are common nginx binary locations checked in order
// when the settings carry no explicit path.
var nginxCandidates = []string{
	"/usr/sbin/nginx",
	"/usr/local/sbin/nginx",
	"/usr/local/bin/nginx",
	"/opt/homebrew/bin/nginx",
}

// configCandidates are common root configuration locations.
var configCandidates = []string{
	"/etc/nginx/nginx.conf",
	"/usr/local/etc/nginx/nginx.conf",
	"/opt/homebrew/etc/nginx/nginx.conf",
}

// DetectNginxPath returns the first nginx binary found in the common
// locations, or empty when none exists.
func DetectNginxPath() string {
	for _, path := range nginxCandidates {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// DetectConfigPath returns the first root configuration found in the
// common locations, or empty when none exists. When the nginx binary
// path is known, a conf/nginx.conf sibling is checked first, matching
// unpacked nginx distributions.
func DetectConfigPath(nginxPath string) string {
	if nginxPath != "" {
		sibling := filepath.Join(filepath.Dir(nginxPath), "conf", "nginx.conf")
		if fileExists(sibling) {
			return sibling
		}
	}
	for _, path := range configCandidates {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
