package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDBPath resolves the database file path in priority order:
// 1. LEARNQUEST_DB environment variable
// 2. $XDG_DATA_HOME/learnquest/learnquest.db
// 3. ~/.local/share/learnquest/learnquest.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LEARNQUEST_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "learnquest", "learnquest.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
