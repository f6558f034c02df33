package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/nao1215/valaw/internal/model"
	"github.com/nao1215/valaw/internal/transport"
)

// Default configuration values.
const (
	// DefaultBaseURL is the root of the Virginia LIS JSON API.
	// Every endpoint name is appended to it verbatim.
	DefaultBaseURL = "https://law.lis.virginia.gov/api/"

	// DefaultOutputDir is where domain documents are written, relative to
	// the working directory.
	DefaultOutputDir = "output"

	// DefaultTimeout bounds a single request. Section listings for large
	// titles are slow to render upstream, so this is generous.
	// Zero disables the timeout.
	DefaultTimeout = 2 * time.Minute

	// DefaultParallel of 1 harvests one domain at a time, which keeps the
	// load on the upstream API equal to a single sequential client.
	DefaultParallel = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "valaw"

	// DefaultUserAgent identifies valaw in HTTP requests so the LIS
	// operators can tell harvester traffic apart in their logs.
	DefaultUserAgent = "valaw/1.0 (+https://github.com/nao1215/valaw)"
)

// Config holds all configuration options for valaw.
// This struct is populated from the config file and CLI flags and passed
// through the application rather than kept in global state.
//
// Design decision: We use a single flat struct, as the number of options
// is manageable and nesting would add complexity without benefit.
type Config struct {
	// BaseURL is the API root. Endpoint paths are appended to it.
	BaseURL string

	// OutputDir is the directory domain documents are written to.
	// It is created on demand.
	OutputDir string

	// Timestamp appends the run's _YYYYMMDD_HHMMSS capture time to every
	// document file name, so successive runs don't overwrite each other.
	Timestamp bool

	// Timeout bounds each HTTP request including the body. Zero means none.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// ProxyURL routes requests through a SOCKS5 or HTTP proxy.
	// Empty means direct connections.
	ProxyURL string

	// InsecureSkipVerify disables TLS certificate verification.
	// The LIS API serves an incomplete certificate chain, so this defaults
	// to true; a warning is logged whenever it is in effect.
	InsecureSkipVerify bool

	// Headers are extra HTTP headers added to every request.
	Headers map[string]string

	// Domains restricts the run to the named domains.
	// Empty means every domain.
	Domains []string

	// Parallel is the number of domains harvested at the same time.
	// Each domain's walk is itself always sequential.
	Parallel int

	// Summary writes summary.md into OutputDir after the run.
	Summary bool

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// JSONReport prints the run summary to stdout as JSON.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the run summary to stdout as Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the run summary to this file instead of stdout.
	ReportFile string

	// DBDir is the directory holding the run history database.
	// Defaults to the XDG data directory (~/.local/share/valaw on Linux).
	DBDir string

	// SaveToDB records each run in the history database and compares
	// checksums against the previous run.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero (base URL, TLS bypass,
// history enabled). This also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		BaseURL:            DefaultBaseURL,
		OutputDir:          DefaultOutputDir,
		Timeout:            DefaultTimeout,
		UserAgent:          DefaultUserAgent,
		InsecureSkipVerify: true,
		Parallel:           DefaultParallel,
		DBDir:              XDGDataDir(),
		SaveToDB:           true,
	}
}

// XDGDataDir returns the XDG data directory for valaw.
// On Linux: ~/.local/share/valaw
// On macOS: ~/Library/Application Support/valaw
// On Windows: %LOCALAPPDATA%\valaw
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for valaw.
// On Linux: ~/.config/valaw
// On macOS: ~/Library/Application Support/valaw
// On Windows: %APPDATA%\valaw
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// SelectedDomains returns the domains this run covers, in run order.
func (c *Config) SelectedDomains() ([]model.Domain, error) {
	return model.ParseDomains(c.Domains)
}

// TransportOptions returns the outbound connection settings.
func (c *Config) TransportOptions() transport.Options {
	return transport.Options{
		Timeout:            c.Timeout,
		InsecureSkipVerify: c.InsecureSkipVerify,
		ProxyURL:           c.ProxyURL,
		Headers:            c.Headers,
	}
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate once after flags and file are merged,
// before any request is made, so a typo fails fast instead of after an
// hour of harvesting. The first error found is returned.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.BaseURL)
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	// Zero is allowed and means no timeout
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.Parallel <= 0 {
		return ErrInvalidParallel
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.ProxyURL != "" {
		if _, err := transport.ParseProxyURL(c.ProxyURL); err != nil {
			return err
		}
	}

	if _, err := c.SelectedDomains(); err != nil {
		return err
	}

	if c.SaveToDB && c.DBDir == "" {
		return ErrNoDBDir
	}

	return nil
}
