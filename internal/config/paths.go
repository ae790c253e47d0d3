package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// configLocations are searched in order when no explicit file is given
var configLocations = []string{
	"config.yaml",
	"configs/config.yaml",
	"../configs/config.yaml",
	"../../configs/config.yaml",
}

// FindConfigFile returns the config file to load, or "" when none exists.
// STOCKDASH_CONFIG_FILE wins over the search locations.
func FindConfigFile() string {
	if explicit := os.Getenv(ConfigFileEnv); explicit != "" {
		return explicit
	}
	for _, location := range configLocations {
		if FileExists(location) {
			return location
		}
	}
	// Fall back to a config.yaml next to the executable
	if exe, err := os.Executable(); err == nil {
		if exe, err = filepath.EvalSymlinks(exe); err == nil {
			candidate := filepath.Join(filepath.Dir(exe), "config.yaml")
			if FileExists(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// FileExists reports whether path names an existing regular file
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// EnsureParentDir creates the directory that will hold path
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
