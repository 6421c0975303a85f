package app

import (
	"os"
	"path/filepath"
)

// CacheDir returns the per-user directory for the WSDL cache, creating it
// when missing.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()

	if err != nil {
		return "", err
	}

	dir := filepath.Join(base, "wingman-soap")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	return dir, nil
}
