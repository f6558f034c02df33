package config

import (
	"fmt"
	"maps"
	"time"
)

// File represents the structure of the .valaw configuration file.
// Every key is optional; keys left out keep the value already in Config.
// Pointer fields distinguish "false" or "0" from "not set".
type File struct {
	// BaseURL overrides the API root.
	BaseURL string `yaml:"baseURL,omitempty"`

	// OutputDir overrides the document directory.
	OutputDir string `yaml:"outputDir,omitempty"`

	// Timestamp enables timestamped file names.
	Timestamp *bool `yaml:"timestamp,omitempty"`

	// Timeout is a Go duration such as "90s" or "5m". "0" disables it.
	Timeout string `yaml:"timeout,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy is a proxy URL such as "socks5://127.0.0.1:1080".
	Proxy string `yaml:"proxy,omitempty"`

	// InsecureSkipVerify toggles TLS certificate verification.
	InsecureSkipVerify *bool `yaml:"insecureSkipVerify,omitempty"`

	// Domains restricts runs to the listed domains.
	Domains []string `yaml:"domains,omitempty"`

	// Headers are extra HTTP headers added to every request.
	Headers map[string]string `yaml:"headers,omitempty"`

	// Parallel is the number of domains harvested at the same time.
	Parallel int `yaml:"parallel,omitempty"`

	// Summary writes summary.md after each run.
	Summary *bool `yaml:"summary,omitempty"`

	// History toggles the run history database.
	History *bool `yaml:"history,omitempty"`

	// DBDir overrides the run history directory.
	DBDir string `yaml:"dbDir,omitempty"`
}

// Apply copies every key set in the file onto cfg.
// Headers are merged, with file values replacing existing ones.
func (f *File) Apply(cfg *Config) error {
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.Timestamp != nil {
		cfg.Timestamp = *f.Timestamp
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("%w: timeout %q: %w", ErrInvalidConfigFile, f.Timeout, err)
		}
		cfg.Timeout = d
	}
	if f.UserAgent != "" {
		cfg.UserAgent = f.UserAgent
	}
	if f.Proxy != "" {
		cfg.ProxyURL = f.Proxy
	}
	if f.InsecureSkipVerify != nil {
		cfg.InsecureSkipVerify = *f.InsecureSkipVerify
	}
	if len(f.Domains) > 0 {
		cfg.Domains = append([]string(nil), f.Domains...)
	}
	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.Headers))
		}
		maps.Copy(cfg.Headers, f.Headers)
	}
	if f.Parallel != 0 {
		cfg.Parallel = f.Parallel
	}
	if f.Summary != nil {
		cfg.Summary = *f.Summary
	}
	if f.History != nil {
		cfg.SaveToDB = *f.History
	}
	if f.DBDir != "" {
		cfg.DBDir = f.DBDir
	}
	return nil
}
