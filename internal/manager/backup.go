package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ksyq12/sitectl/internal/logger"
)

// backupStamp is the timestamp layout used in backup file names.
const backupStamp = "20060102_150405"

// BackupFile copies path into a backups/ directory next to it, named
// <stem>_<YYYYMMDD_HHMMSS>.conf.bak. A missing source is not an error:
// there is nothing to protect yet, so the returned path is empty.
func BackupFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	backupDir := filepath.Join(filepath.Dir(path), "backups")
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	stem := filepath.Base(path)
	if ext := filepath.Ext(stem); ext != "" {
		stem = stem[:len(stem)-len(ext)]
	}
	name := fmt.Sprintf("%s_%s.conf.bak", stem, time.Now().Format(backupStamp))
	backupPath := filepath.Join(backupDir, name)

	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	logger.Debug("backup created: %s", backupPath)
	return backupPath, nil
}
