package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the configuration file name looked up in the
	// current and home directories.
	DefaultConfigFile = ".valaw"

	// XDGConfigFile is the configuration file name inside XDGConfigDir.
	XDGConfigFile = "config.yaml"
)

// LoadConfigFile loads a configuration file from YAML.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidConfigFile, path, err)
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .valaw in the current directory
// 3. Look for .valaw in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Load applies the configuration file found by FindConfigFile(cfg.ConfigFilePath)
// to cfg and returns its path, or "" when no file was found.
// An explicitly requested file that does not exist is an error.
func Load(cfg *Config) (string, error) {
	path := FindConfigFile(cfg.ConfigFilePath)
	if path == "" {
		if cfg.ConfigFilePath != "" {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return "", nil
	}

	cf, err := LoadConfigFile(path)
	if err != nil {
		return "", err
	}
	if err := cf.Apply(cfg); err != nil {
		return "", err
	}
	return path, nil
}
