// Package config holds scraper configuration and the markup schema.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Selectors describes the markup shape of one review page: a container
// selector plus one selector per sub-field, resolved relative to the
// container. Supporting a different markup shape means changing this
// structure, not the traversal code.
type Selectors struct {
	Container string `yaml:"container"`
	Title     string `yaml:"title"`
	Author    string `yaml:"author"`
	Rating    string `yaml:"rating"`
	Date      string `yaml:"date"`
	Text      string `yaml:"text"`
	Helpful   string `yaml:"helpful"`
}

// DefaultSelectors returns the schema of the reference review markup.
func DefaultSelectors() Selectors {
	return Selectors{
		Container: "div.review-item",
		Title:     "h3.review-title",
		Author:    "span.reviewer-name",
		Rating:    "span.rating",
		Date:      "span.review-date",
		Text:      "p.review-text",
		Helpful:   "span.helpful-count",
	}
}

// Config holds scraper configuration.
type Config struct {
	BaseURL      string
	Headers      map[string]string
	UserAgent    string
	Timeout      time.Duration
	Delay        time.Duration
	Selectors    Selectors
	OutputFile   string
	OutputFormat string // csv, json, or dual
	MetricsAddr  string
	Verbose      bool
}

// DefaultConfig returns conservative defaults for the reference target.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      "https://example.com",
		Headers:      map[string]string{},
		UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
		Timeout:      10 * time.Second,
		Delay:        1 * time.Second,
		Selectors:    DefaultSelectors(),
		OutputFile:   "output/reviews.csv",
		OutputFormat: "csv",
		MetricsAddr:  "",
		Verbose:      false,
	}
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	sel := c.Selectors
	for name, value := range map[string]string{
		"container": sel.Container,
		"title":     sel.Title,
		"author":    sel.Author,
		"rating":    sel.Rating,
		"date":      sel.Date,
		"text":      sel.Text,
		"helpful":   sel.Helpful,
	} {
		if value == "" {
			return fmt.Errorf("selector %q cannot be empty", name)
		}
	}

	return nil
}

// fileConfig mirrors Config for YAML decoding. Durations are Go duration
// strings ("10s", "1500ms") since yaml.v3 has no native time.Duration support.
type fileConfig struct {
	BaseURL      *string           `yaml:"base_url"`
	Headers      map[string]string `yaml:"headers"`
	UserAgent    *string           `yaml:"user_agent"`
	Timeout      string            `yaml:"timeout"`
	Delay        string            `yaml:"delay"`
	Selectors    *Selectors        `yaml:"selectors"`
	OutputFile   *string           `yaml:"output_file"`
	OutputFormat *string           `yaml:"output_format"`
	MetricsAddr  *string           `yaml:"metrics_addr"`
	Verbose      *bool             `yaml:"verbose"`
}

// LoadFile reads a YAML configuration file over the defaults. Fields absent
// from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	cfg := DefaultConfig()
	if fc.BaseURL != nil {
		cfg.BaseURL = *fc.BaseURL
	}
	if fc.Headers != nil {
		cfg.Headers = fc.Headers
	}
	if fc.UserAgent != nil {
		cfg.UserAgent = *fc.UserAgent
	}
	if fc.Timeout != "" {
		timeout, err := time.ParseDuration(fc.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if fc.Delay != "" {
		delay, err := time.ParseDuration(fc.Delay)
		if err != nil {
			return nil, fmt.Errorf("parse delay: %w", err)
		}
		cfg.Delay = delay
	}
	if fc.Selectors != nil {
		cfg.Selectors = *fc.Selectors
	}
	if fc.OutputFile != nil {
		cfg.OutputFile = *fc.OutputFile
	}
	if fc.OutputFormat != nil {
		cfg.OutputFormat = *fc.OutputFormat
	}
	if fc.MetricsAddr != nil {
		cfg.MetricsAddr = *fc.MetricsAddr
	}
	if fc.Verbose != nil {
		cfg.Verbose = *fc.Verbose
	}
	return cfg, nil
}

// EnvInt reads an integer environment variable. The second return reports
// whether the variable was set.
func EnvInt(key string) (int, bool, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, true, nil
}

// EnvString reads a string environment variable, reporting whether it was set.
func EnvString(key string) (string, bool) {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return "", false
	}
	return raw, true
}
