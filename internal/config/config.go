// Package config manages the sitectl installation settings stored in
// YAML format.
//
// Settings live at ~/.config/sitectl/config.yaml and record where the
// nginx binary and root configuration are, plus the per-installation
// fragment directory identifier. The identifier is a 5-character
// alphanumeric string chosen once when the settings are first saved;
// the configuration engine receives it from here and never generates
// one itself.
package config

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents the persisted installation settings.
type Settings struct {
	NginxPath  string    `yaml:"nginx_path"`
	ConfigPath string    `yaml:"config_path"`
	ConfDirID  string    `yaml:"conf_dir_id"`
	ManagedAt  time.Time `yaml:"managed_at,omitempty"`
}

const (
	settingsDir  = ".config/sitectl"
	settingsFile = "config.yaml"

	idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength   = 5
)

// New creates Settings with default values and a fresh directory ID.
func New() *Settings {
	return &Settings{
		NginxPath: "nginx",
		ConfDirID: newConfDirID(),
	}
}

// Dir returns the settings directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, settingsDir), nil
}

// Path returns the settings file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsFile), nil
}

// Load reads the settings from disk, returning defaults when the file
// does not exist yet.
func Load() (*Settings, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	if s.ConfDirID == "" {
		s.ConfDirID = newConfDirID()
	}
	if s.NginxPath == "" {
		s.NginxPath = "nginx"
	}
	return s, nil
}

// Save writes the settings to disk, creating the directory if needed.
func (s *Settings) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// FragmentDirName returns the per-installation fragment directory name,
// such as "aB3x9_conf.d".
func (s *Settings) FragmentDirName() string {
	return s.ConfDirID + "_conf.d"
}

// FragmentDir returns the full fragment directory path, which lives
// next to the root configuration file.
func (s *Settings) FragmentDir() string {
	return filepath.Join(filepath.Dir(s.ConfigPath), s.FragmentDirName())
}

// newConfDirID picks the random 5-character alphanumeric identifier.
func newConfDirID() string {
	id := make([]byte, idLength)
	max := big.NewInt(int64(len(idAlphabet)))
	for i := range id {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; fall
			// back to a fixed identifier rather than crash.
			return "EN000"
		}
		id[i] = idAlphabet[n.Int64()]
	}
	return string(id)
}
