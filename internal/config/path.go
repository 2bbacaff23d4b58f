// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultDir returns the directory holding subtrackr's config, settings, and
// data files, honoring the user's home directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".subtrackr"
	}
	return filepath.Join(home, ".config", "subtrackr")
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}
