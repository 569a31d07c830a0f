// Package config defines audit configuration and the heuristic lexicon.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// RenderMode defines how pages are fetched.
type RenderMode string

const (
	RenderHTML RenderMode = "html" // HTML only (no JavaScript)
	RenderJS   RenderMode = "js"   // JavaScript rendering (Chromium)
)

// Config holds all configuration for an audit session.
type Config struct {
	// === Basic Settings ===

	// Seed URL of the site to audit
	BaseURL string `json:"base_url"`

	// Brand name; empty means "take the first entry of the keyword list"
	BrandName string `json:"brand_name"`

	// Target keywords: index 0 brand, 1 primary, 2+ secondary
	Keywords []string `json:"keywords"`

	// User-Agent string
	UserAgent string `json:"user_agent"`

	// === Limits ===

	// Maximum number of pages the crawler may visit
	MaxPages int `json:"max_pages"`

	// Number of top-priority pages to run the analyzer suite on
	PagesToAnalyze int `json:"pages_to_analyze"`

	// Maximum response size in bytes
	MaxResponseSize int64 `json:"max_response_size"`

	// === Speed & Concurrency ===

	// Number of concurrent fetch workers
	Concurrency int `json:"concurrency"`

	// Maximum requests per second (0 = unlimited)
	RequestsPerSecond float64 `json:"requests_per_second"`

	// Request timeout
	Timeout time.Duration `json:"timeout"`

	// === Rendering ===

	// Render mode: html or js
	RenderMode RenderMode `json:"render_mode"`

	// Render timeout (for JS rendering)
	RenderTimeout time.Duration `json:"render_timeout"`

	// Chromium executable path (empty = system default)
	ChromiumPath string `json:"chromium_path"`

	// === Insights ===

	// Fetch performance insights for the homepage
	IncludeInsights bool `json:"include_insights"`

	// API key for the performance insights service (env only)
	InsightsAPIKey string `json:"-"`

	// === Export ===

	// Report export path; extension picks the format (.xlsx, .csv, .json)
	ExportPath string `json:"export_path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:         "seoscope/1.0 (+https://github.com/seoscope/seoscope)",
		MaxPages:          25,
		PagesToAnalyze:    5,
		MaxResponseSize:   10 * 1024 * 1024, // 10MB
		Concurrency:       2,
		RequestsPerSecond: 5,
		Timeout:           15 * time.Second,
		RenderMode:        RenderHTML,
		RenderTimeout:     30 * time.Second,
	}
}

// LoadEnv reads a .env file if present and applies supported environment
// overrides. A missing .env file is not an error.
func (c *Config) LoadEnv() {
	_ = godotenv.Load()
	if key := os.Getenv("PAGESPEED_API_KEY"); key != "" {
		c.InsightsAPIKey = key
	}
	if ua := os.Getenv("SEOSCOPE_USER_AGENT"); ua != "" {
		c.UserAgent = ua
	}
}

// Validate checks if the configuration is valid, clamping soft fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	if c.MaxPages < 1 {
		c.MaxPages = 1
	}
	if c.PagesToAnalyze < 1 {
		c.PagesToAnalyze = 1
	}
	if c.PagesToAnalyze > c.MaxPages {
		c.PagesToAnalyze = c.MaxPages
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	if c.Timeout < time.Second {
		c.Timeout = time.Second
	}
	if c.RenderTimeout < time.Second {
		c.RenderTimeout = time.Second
	}
	if c.RenderMode != RenderHTML && c.RenderMode != RenderJS {
		return fmt.Errorf("invalid render_mode: %q", c.RenderMode)
	}
	return nil
}

// Save saves the configuration to a JSON file.
func (c *Config) Save(filePath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load loads configuration from a JSON file on top of defaults.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}
