// Package manager reconciles a working set of sites against the
// on-disk fragment directory.
//
// Each site is written as one file, <fragment_dir>/<site_name>.conf,
// and the root configuration is only ever touched to guarantee a single
// include line pointing at the fragment directory. Writing one file per
// site is what keeps the engine from ever having to rewrite brace
// structure inside the root file; the block extractor is needed on the
// read path only.
//
// Update is not safe against concurrent calls on the same fragment
// directory and root config pair: the list-then-delete reconciliation
// in step four is not atomic across writers. Callers serialize.
package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/sitectl/internal/errors"
	"github.com/ksyq12/sitectl/internal/logger"
	"github.com/ksyq12/sitectl/internal/nginx"
	"github.com/ksyq12/sitectl/internal/render"
	"github.com/ksyq12/sitectl/internal/site"
)

// Manager owns the write path for managed site fragments.
type Manager struct {
	gen *render.Generator
}

// New creates a Manager with a freshly parsed generator.
func New() (*Manager, error) {
	gen, err := render.NewGenerator()
	if err != nil {
		return nil, err
	}
	return &Manager{gen: gen}, nil
}

// Update writes one fragment per site into fragmentDir, removes
// fragments for sites no longer in the list, and guarantees rootConfig
// includes the fragment directory. Steps that would leave disk state
// inconsistent (failed backup, failed write) abort with a hard error;
// the caller must then skip the reload.
func (m *Manager) Update(sites []*site.Site, fragmentDir, rootConfig string) error {
	if err := checkUniqueNames(sites); err != nil {
		return err
	}

	// A root backup failure aborts before any destructive write.
	if _, err := BackupFile(rootConfig); err != nil {
		return errors.Wrap(errors.CodeBackup, "root config backup failed", err)
	}

	if err := os.MkdirAll(fragmentDir, 0755); err != nil {
		return errors.Wrap(errors.CodeIO, "failed to create fragment directory", err)
	}

	current := make(map[string]bool, len(sites))
	for _, s := range sites {
		content, err := m.gen.Render(s)
		if err != nil {
			return errors.Wrap(errors.CodeInternal, fmt.Sprintf("failed to render %s", s.SiteName), err)
		}

		path := filepath.Join(fragmentDir, s.SiteName+".conf")
		if _, err := os.Stat(path); err == nil {
			if _, err := BackupFile(path); err != nil {
				return errors.Wrap(errors.CodeBackup, fmt.Sprintf("backup of %s failed", s.SiteName), err)
			}
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return errors.Wrap(errors.CodeIO, fmt.Sprintf("failed to write %s", s.SiteName), err)
		}
		current[s.SiteName+".conf"] = true
		logger.Info("fragment written: %s", path)
	}

	// Reconciliation: a fragment whose site left the working set is
	// backed up, then removed. This is the sole deletion path.
	if err := m.removeObsolete(fragmentDir, current); err != nil {
		return err
	}

	includeLine := fmt.Sprintf("include %s/*.conf;", filepath.Base(fragmentDir))
	if err := EnsureInclude(rootConfig, includeLine); err != nil {
		return err
	}

	logger.Info("update complete: %d site(s) in %s", len(sites), fragmentDir)
	return nil
}

// Delete removes a single site's fragment file, backing it up first.
func (m *Manager) Delete(siteName, fragmentDir string) error {
	path := filepath.Join(fragmentDir, siteName+".conf")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound(siteName)
		}
		return errors.Wrap(errors.CodeIO, "failed to stat fragment", err)
	}

	if _, err := BackupFile(path); err != nil {
		return errors.Wrap(errors.CodeBackup, fmt.Sprintf("backup of %s failed", siteName), err)
	}
	if err := os.Remove(path); err != nil {
		return errors.Wrap(errors.CodeIO, fmt.Sprintf("failed to remove %s", siteName), err)
	}
	logger.Info("fragment removed: %s", path)
	return nil
}

// Render exposes the generator for previews.
func (m *Manager) Render(s *site.Site) (string, error) {
	return m.gen.Render(s)
}

func (m *Manager) removeObsolete(fragmentDir string, current map[string]bool) error {
	entries, err := os.ReadDir(fragmentDir)
	if err != nil {
		return errors.Wrap(errors.CodeIO, "failed to list fragment directory", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".conf" || current[name] {
			continue
		}
		path := filepath.Join(fragmentDir, name)
		if _, err := BackupFile(path); err != nil {
			return errors.Wrap(errors.CodeBackup, fmt.Sprintf("backup of %s failed", name), err)
		}
		if err := os.Remove(path); err != nil {
			return errors.Wrap(errors.CodeIO, fmt.Sprintf("failed to remove %s", name), err)
		}
		logger.Info("obsolete fragment removed: %s", path)
	}
	return nil
}

func checkUniqueNames(sites []*site.Site) error {
	seen := make(map[string]bool, len(sites))
	for _, s := range sites {
		if seen[s.SiteName] {
			return errors.AlreadyExists(s.SiteName)
		}
		seen[s.SiteName] = true
	}
	return nil
}

// DefaultRootConfig is the configuration written when no root config
// exists yet. The include line is filled in per installation.
func DefaultRootConfig(includeLine string) string {
	var b strings.Builder
	b.WriteString("# nginx default configuration\n")
	b.WriteString("# Generated by sitectl\n\n")
	b.WriteString("events {\n")
	b.WriteString("    worker_connections 1024;\n")
	b.WriteString("}\n\n")
	b.WriteString("http {\n")
	b.WriteString("    include mime.types;\n")
	b.WriteString("    default_type application/octet-stream;\n\n")
	b.WriteString("    " + includeLine + "\n")
	b.WriteString("}\n")
	return b.String()
}

// ReadRootConfig loads the root configuration, substituting a fresh
// default when the file does not exist.
func ReadRootConfig(rootConfig, includeLine string) string {
	data, err := os.ReadFile(rootConfig)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("root config %s not found, using default", rootConfig)
			return DefaultRootConfig(includeLine)
		}
		logger.Error("cannot read root config %s: %v", rootConfig, err)
		return DefaultRootConfig(includeLine)
	}
	return string(data)
}

// EnsureInclude guarantees the root config contains the include line
// inside its top-level http block, inserting one just before the
// block's closing brace when absent. Nothing else in the file is
// touched. A missing root config is created from the default.
func EnsureInclude(rootConfig, includeLine string) error {
	data, err := os.ReadFile(rootConfig)
	if err != nil {
		if !os.IsNotExist(err) {
			return errors.Wrap(errors.CodeIO, "failed to read root config", err)
		}
		if err := os.WriteFile(rootConfig, []byte(DefaultRootConfig(includeLine)), 0644); err != nil {
			return errors.Wrap(errors.CodeIO, "failed to write root config", err)
		}
		logger.Info("root config created: %s", rootConfig)
		return nil
	}

	content := string(data)
	if strings.Contains(content, includeLine) {
		return nil
	}

	httpBlocks := nginx.ExtractBlocks(content, "http")
	if len(httpBlocks) == 0 {
		// No http block at all; append one carrying the include.
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += "\nhttp {\n    include mime.types;\n    default_type application/octet-stream;\n\n    " + includeLine + "\n}\n"
	} else {
		// Insert before the closing brace of the first http block.
		closing := httpBlocks[0].End - 1
		content = content[:closing] + "\n    " + includeLine + "\n" + content[closing:]
	}

	if err := os.WriteFile(rootConfig, []byte(content), 0644); err != nil {
		return errors.Wrap(errors.CodeIO, "failed to update root config", err)
	}
	logger.Info("include directive added to %s", rootConfig)
	return nil
}
