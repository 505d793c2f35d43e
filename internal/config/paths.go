package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for an explicit config path
	EnvConfigPath = "ZONELABEL_CONFIG"
	// ConfigFileName is the working-directory config file name
	ConfigFileName = "zonelabel.yaml"
	// ConfigDirName is the config directory name under XDG
	ConfigDirName = "zonelabel"
)

// FindConfigPath returns the first existing config file in priority
// order, or "" when there is none.
func FindConfigPath() string {
	var candidates []string
	if path := os.Getenv(EnvConfigPath); path != "" {
		candidates = append(candidates, path)
	}
	candidates = append(candidates, ConfigFileName)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}

	for _, path := range candidates {
		if fileExists(path) {
			if abs, err := filepath.Abs(path); err == nil {
				return abs
			}
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
