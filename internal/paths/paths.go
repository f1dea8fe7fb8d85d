package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	dotConfig = ".config"
	appName   = "cheevo"
	dbName    = "cheevo.db"
	cacheName = "cache"
)

func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dotConfig, appName), nil
}

func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s directory: %w", appName, err)
	}
	return dir, nil
}

// DB returns the sqlite settings database path.
func DB() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, dbName), nil
}

// Cache returns the directory badge and avatar images are cached under, creating it if needed.
func Cache() (string, error) {
	dir, err := EnsureDir()
	if err != nil {
		return "", err
	}
	cache := filepath.Join(dir, cacheName)
	if err := os.MkdirAll(cache, 0o700); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}
	return cache, nil
}
