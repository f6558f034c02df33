package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/nao1215/valaw/internal/model"
	"github.com/nao1215/valaw/internal/transport"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional; these tests fail otherwise.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default BaseURL is the LIS API root", func(t *testing.T) {
		t.Parallel()
		if cfg.BaseURL != "https://law.lis.virginia.gov/api/" {
			t.Errorf("unexpected BaseURL %q", cfg.BaseURL)
		}
	})

	t.Run("default OutputDir is output", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != "output" {
			t.Errorf("expected OutputDir to be 'output', got '%s'", cfg.OutputDir)
		}
	})

	t.Run("default Timeout is 2 minutes", func(t *testing.T) {
		t.Parallel()
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("expected Timeout to be 2m, got %v", cfg.Timeout)
		}
	})

	t.Run("TLS verification is skipped by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.InsecureSkipVerify {
			t.Error("expected InsecureSkipVerify to be true")
		}
	})

	t.Run("default Parallel is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Parallel != 1 {
			t.Errorf("expected Parallel to be 1, got %d", cfg.Parallel)
		}
	})

	t.Run("history is enabled by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB || cfg.DBDir != XDGDataDir() {
			t.Errorf("expected history in %s, got SaveToDB=%v DBDir=%s", XDGDataDir(), cfg.SaveToDB, cfg.DBDir)
		}
	})

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected defaults to validate, got %v", err)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case breaks exactly one validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "zero timeout is valid",
			modify: func(c *Config) { c.Timeout = 0 },
		},
		{
			name:   "domain subset is valid",
			modify: func(c *Config) { c.Domains = []string{"compacts", "Code-Of-Virginia"} },
		},
		{
			name:   "socks proxy is valid",
			modify: func(c *Config) { c.ProxyURL = "socks5://127.0.0.1:1080" },
		},
		{
			name:   "history off without dir is valid",
			modify: func(c *Config) { c.SaveToDB, c.DBDir = false, "" },
		},
		{
			name:    "relative base URL",
			modify:  func(c *Config) { c.BaseURL = "/api/" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "ftp base URL",
			modify:  func(c *Config) { c.BaseURL = "ftp://law.lis.virginia.gov/api/" },
			wantErr: ErrInvalidBaseURL,
		},
		{
			name:    "empty output dir",
			modify:  func(c *Config) { c.OutputDir = "" },
			wantErr: ErrNoOutputDir,
		},
		{
			name:    "negative timeout",
			modify:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "zero parallel",
			modify:  func(c *Config) { c.Parallel = 0 },
			wantErr: ErrInvalidParallel,
		},
		{
			name:    "json and markdown together",
			modify:  func(c *Config) { c.JSONReport, c.MarkdownReport = true, true },
			wantErr: ErrConflictingReportFormats,
		},
		{
			name:    "unsupported proxy scheme",
			modify:  func(c *Config) { c.ProxyURL = "ftp://127.0.0.1:21" },
			wantErr: transport.ErrUnsupportedProxyScheme,
		},
		{
			name:    "unknown domain",
			modify:  func(c *Config) { c.Domains = []string{"statutes"} },
			wantErr: model.ErrUnknownDomain,
		},
		{
			name:    "history without dir",
			modify:  func(c *Config) { c.DBDir = "" },
			wantErr: ErrNoDBDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.DBDir = "/tmp/valaw"
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestSelectedDomains tests domain selection.
func TestSelectedDomains(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	all, err := cfg.SelectedDomains()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(model.AllDomains(), all); diff != "" {
		t.Errorf("expected every domain (-want +got):\n%s", diff)
	}

	cfg.Domains = []string{"uncodified_acts", "authorities"}
	got, err := cfg.SelectedDomains()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []model.Domain{model.DomainAuthorities, model.DomainUncodifiedActs}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

// TestTransportOptions tests that HTTP settings are passed through.
func TestTransportOptions(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Timeout = 30 * time.Second
	cfg.ProxyURL = "http://127.0.0.1:8080"
	cfg.Headers = map[string]string{"X-Trace": "1"}

	want := transport.Options{
		Timeout:            30 * time.Second,
		InsecureSkipVerify: true,
		ProxyURL:           "http://127.0.0.1:8080",
		Headers:            map[string]string{"X-Trace": "1"},
	}
	if diff := cmp.Diff(want, cfg.TransportOptions()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

// TestFileApply tests merging config file values onto defaults.
func TestFileApply(t *testing.T) {
	t.Parallel()

	yes, no := true, false

	t.Run("empty file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := (&File{}).Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(NewConfig(), cfg); diff != "" {
			t.Errorf("config changed (-want +got):\n%s", diff)
		}
	})

	t.Run("every key applied", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.Headers = map[string]string{"X-Keep": "a", "X-Replace": "old"}

		f := &File{
			BaseURL:            "http://localhost:8080/api/",
			OutputDir:          "/data/valaw",
			Timestamp:          &yes,
			Timeout:            "90s",
			UserAgent:          "test-agent",
			Proxy:              "socks5://127.0.0.1:1080",
			InsecureSkipVerify: &no,
			Domains:            []string{"compacts"},
			Headers:            map[string]string{"X-Replace": "new"},
			Parallel:           3,
			Summary:            &yes,
			History:            &no,
			DBDir:              "/data/history",
		}
		if err := f.Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := NewConfig()
		want.BaseURL = "http://localhost:8080/api/"
		want.OutputDir = "/data/valaw"
		want.Timestamp = true
		want.Timeout = 90 * time.Second
		want.UserAgent = "test-agent"
		want.ProxyURL = "socks5://127.0.0.1:1080"
		want.InsecureSkipVerify = false
		want.Domains = []string{"compacts"}
		want.Headers = map[string]string{"X-Keep": "a", "X-Replace": "new"}
		want.Parallel = 3
		want.Summary = true
		want.SaveToDB = false
		want.DBDir = "/data/history"

		if diff := cmp.Diff(want, cfg); diff != "" {
			t.Errorf("config mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		t.Parallel()

		err := (&File{Timeout: "soon"}).Apply(NewConfig())
		if !errors.Is(err, ErrInvalidConfigFile) {
			t.Errorf("expected ErrInvalidConfigFile, got %v", err)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.valaw")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".valaw")
		content := `baseURL: "https://law.lis.virginia.gov/api/"
outputDir: ./laws
timestamp: true
timeout: 45s
insecureSkipVerify: false
domains:
  - constitution
  - compacts
headers:
  X-Contact: ops@example.com
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cf.OutputDir != "./laws" {
			t.Errorf("expected outputDir ./laws, got %q", cf.OutputDir)
		}
		if cf.Timestamp == nil || !*cf.Timestamp {
			t.Error("expected timestamp true")
		}
		if cf.InsecureSkipVerify == nil || *cf.InsecureSkipVerify {
			t.Error("expected insecureSkipVerify false")
		}
		if cf.Summary != nil {
			t.Error("expected summary to be unset")
		}
		if diff := cmp.Diff([]string{"constitution", "compacts"}, cf.Domains); diff != "" {
			t.Errorf("domains mismatch (-want +got):\n%s", diff)
		}
		if cf.Headers["X-Contact"] != "ops@example.com" {
			t.Error("expected X-Contact header")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".valaw")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); !errors.Is(err, ErrInvalidConfigFile) {
			t.Errorf("expected ErrInvalidConfigFile, got %v", err)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("parallel: 2\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestLoad tests finding and applying a config file in one call.
func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("explicit file applied", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "valaw.yaml")
		if err := os.WriteFile(configPath, []byte("parallel: 4\nsummary: true\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg := NewConfig()
		cfg.ConfigFilePath = configPath
		path, err := Load(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if path != configPath {
			t.Errorf("expected %q, got %q", configPath, path)
		}
		if cfg.Parallel != 4 || !cfg.Summary {
			t.Errorf("file not applied: parallel=%d summary=%v", cfg.Parallel, cfg.Summary)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.ConfigFilePath = filepath.Join(t.TempDir(), "missing.yaml")
		if _, err := Load(cfg); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("bad value in file", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "valaw.yaml")
		if err := os.WriteFile(configPath, []byte("timeout: forever\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg := NewConfig()
		cfg.ConfigFilePath = configPath
		if _, err := Load(cfg); !errors.Is(err, ErrInvalidConfigFile) {
			t.Errorf("expected ErrInvalidConfigFile, got %v", err)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	t.Run("XDGDataDir ends with app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGDataDir()) != AppName {
			t.Errorf("unexpected XDG data dir %s", XDGDataDir())
		}
	})

	t.Run("XDGConfigDir ends with app name", func(t *testing.T) {
		t.Parallel()
		if filepath.Base(XDGConfigDir()) != AppName {
			t.Errorf("unexpected XDG config dir %s", XDGConfigDir())
		}
	})
}
