package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromSeedsDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API == "" || cfg.DefaultLanguage != "en" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
}

func TestLoadFromParsesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "api: http://backend.example:8080\nrequest_timeout: 30s\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API != "http://backend.example:8080" {
		t.Fatalf("api not honored: %q", cfg.API)
	}
	if got := cfg.RequestTimeoutDuration(); got != 30*time.Second {
		t.Fatalf("timeout = %s, want 30s", got)
	}
	if cfg.DefaultLanguage != "en" {
		t.Fatalf("missing fields should take defaults, got %q", cfg.DefaultLanguage)
	}
}

func TestEnvironmentOverridesAPI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("AIONEX_API", "http://override.example")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.API != "http://override.example" {
		t.Fatalf("env override ignored: %q", cfg.API)
	}
}

func TestRequestTimeoutFallsBack(t *testing.T) {
	t.Parallel()

	cfg := &Config{RequestTimeout: "bogus"}
	if got := cfg.RequestTimeoutDuration(); got != 15*time.Second {
		t.Fatalf("fallback timeout = %s, want 15s", got)
	}
}
