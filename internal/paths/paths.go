package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

// File names inside the sheettodo directories.
const (
	ConfigFileName = "config.toml"
	LogFileName    = "sheettodo.log"
)

// ConfigDir returns the sheettodo config directory under home.
func ConfigDir(home string) string {
	return filepath.Join(home, ".config", "sheettodo")
}

// StateDir returns the sheettodo state directory under home.
func StateDir(home string) string {
	return filepath.Join(home, ".local", "state", "sheettodo")
}

// DefaultConfigPath returns the default sheettodo config file.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(ConfigDir(home), ConfigFileName), nil
}

// DefaultStateDir returns the default sheettodo state directory.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return StateDir(home), nil
}

// DefaultLogPath returns the log file inside the default state directory.
func DefaultLogPath() (string, error) {
	dir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}

// ResolveWithDefault returns override when it is set, otherwise the result
// of fallback.
func ResolveWithDefault(override string, fallback func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return fallback()
}
