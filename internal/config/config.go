// Package config loads the client configuration from the XDG config dir,
// seeding it with the embedded default on first run.
package config

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Config describes runtime options for the aionex client.
type Config struct {
	// API is the base URL of the AIONEX backend.
	API string `yaml:"api"`
	// DefaultLanguage is the language article text arrives in.
	DefaultLanguage string `yaml:"default_language"`
	// RequestTimeout bounds each backend call, e.g. "15s".
	RequestTimeout string `yaml:"request_timeout"`
	// DataDir overrides the XDG data directory when set.
	DataDir string `yaml:"data_dir,omitempty"`
}

// RequestTimeoutDuration parses RequestTimeout, defaulting to 15 seconds.
func (c *Config) RequestTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// DataDirPath resolves the directory holding the local database.
func (c *Config) DataDirPath() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(xdg.DataHome, "aionex")
}

// Path returns the resolved config file location.
func Path() (string, error) {
	return xdg.ConfigFile("aionex/config.yaml")
}

// Load reads the config file, writing the embedded default first if no
// file exists yet. The AIONEX_API environment variable overrides the
// backend URL in either case.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		data, err = writeDefault(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(&cfg)
	if api := os.Getenv("AIONEX_API"); api != "" {
		cfg.API = api
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.API == "" {
		cfg.API = "http://127.0.0.1:5000"
	}
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en"
	}
	if cfg.RequestTimeout == "" {
		cfg.RequestTimeout = "15s"
	}
}

func writeDefault(path string) ([]byte, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	return data, nil
}
