package logging

import (
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.checkignore/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".checkignore", "logs")
	}
	return filepath.Join(home, ".checkignore", "logs")
}

// DefaultLogPath returns the debug log path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "checkignore.log")
}
