package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name: "empty base url",
			mutate: func(cfg *Config) {
				cfg.BaseURL = ""
			},
			wantErr: "base URL",
		},
		{
			name: "invalid url format",
			mutate: func(cfg *Config) {
				cfg.BaseURL = "http://"
			},
			wantErr: "base URL",
		},
		{
			name: "negative timeout",
			mutate: func(cfg *Config) {
				cfg.Timeout = -1 * time.Second
			},
			wantErr: "timeout",
		},
		{
			name: "negative delay",
			mutate: func(cfg *Config) {
				cfg.Delay = -1 * time.Second
			},
			wantErr: "delay",
		},
		{
			name: "empty output file",
			mutate: func(cfg *Config) {
				cfg.OutputFile = ""
			},
			wantErr: "output file",
		},
		{
			name: "bad output format",
			mutate: func(cfg *Config) {
				cfg.OutputFormat = "xml"
			},
			wantErr: "output format",
		},
		{
			name: "empty container selector",
			mutate: func(cfg *Config) {
				cfg.Selectors.Container = ""
			},
			wantErr: "container",
		},
		{
			name: "empty helpful selector",
			mutate: func(cfg *Config) {
				cfg.Selectors.Helpful = ""
			},
			wantErr: "helpful",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigValidateZeroDelayAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delay = 0
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero delay should validate, got %v", err)
	}
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scraper.yaml")

	content := `
base_url: https://reviews.example.test
headers:
  Accept-Language: en-US
delay: 2s
timeout: 5s
output_format: json
selectors:
  container: article.review
  title: h2.heading
  author: span.by
  rating: span.stars
  date: time.when
  text: div.body
  helpful: span.votes
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.BaseURL != "https://reviews.example.test" {
		t.Fatalf("base url = %q", cfg.BaseURL)
	}
	if cfg.Headers["Accept-Language"] != "en-US" {
		t.Fatalf("headers = %v", cfg.Headers)
	}
	if cfg.Delay != 2*time.Second {
		t.Fatalf("delay = %v, want 2s", cfg.Delay)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("timeout = %v, want 5s", cfg.Timeout)
	}
	if cfg.OutputFormat != "json" {
		t.Fatalf("output format = %q", cfg.OutputFormat)
	}
	if cfg.Selectors.Container != "article.review" || cfg.Selectors.Helpful != "span.votes" {
		t.Fatalf("selectors = %+v", cfg.Selectors)
	}
	// Fields absent from the file keep their defaults.
	if cfg.OutputFile != DefaultConfig().OutputFile {
		t.Fatalf("output file = %q, want default", cfg.OutputFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate, got %v", err)
	}
}

func TestLoadFileBadDuration(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scraper.yaml")
	if err := os.WriteFile(path, []byte("delay: soon\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "delay") {
		t.Fatalf("expected delay parse error, got %v", err)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SCRAPER_TEST_INT", "42")
	value, ok, err := EnvInt("SCRAPER_TEST_INT")
	if err != nil || !ok || value != 42 {
		t.Fatalf("EnvInt = (%d, %v, %v), want (42, true, nil)", value, ok, err)
	}

	t.Setenv("SCRAPER_TEST_INT", "forty-two")
	if _, _, err := EnvInt("SCRAPER_TEST_INT"); err == nil {
		t.Fatalf("expected error for non-integer value")
	}

	if _, ok, err := EnvInt("SCRAPER_TEST_UNSET"); ok || err != nil {
		t.Fatalf("unset variable should report not set")
	}

	t.Setenv("SCRAPER_TEST_STR", "output.csv")
	if value, ok := EnvString("SCRAPER_TEST_STR"); !ok || value != "output.csv" {
		t.Fatalf("EnvString = (%q, %v)", value, ok)
	}
}
