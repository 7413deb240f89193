package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDataDir makes sure dir exists and returns its absolute path.
// A relative dir is resolved against the working directory. The directory
// holds the local credential database, so it is created owner-only.
func EnsureDataDir(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dir)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}
