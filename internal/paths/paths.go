// Package paths resolves the on-disk layout under the application data root.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppName is the directory name used under the user config dir.
	AppName = "tasktory"

	dataSubdir = "data"
	logsSubdir = "logs"
	dirMode    = 0o750
)

// Dirs holds the resolved data and logs directories.
type Dirs struct {
	Root string
	Data string
	Logs string
}

// Resolve computes root/data and root/logs without touching the filesystem.
func Resolve(root string) Dirs {
	return Dirs{
		Root: root,
		Data: filepath.Join(root, dataSubdir),
		Logs: filepath.Join(root, logsSubdir),
	}
}

// EnsureDataDirs computes root/data and root/logs and creates both if missing.
// Safe to call before every write.
func EnsureDataDirs(root string) (Dirs, error) {
	d := Resolve(root)
	if err := os.MkdirAll(d.Data, dirMode); err != nil {
		return d, fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.MkdirAll(d.Logs, dirMode); err != nil {
		return d, fmt.Errorf("creating logs directory: %w", err)
	}
	return d, nil
}

// DefaultRoot returns <user config dir>/tasktory, the host's application
// data directory.
func DefaultRoot() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}
