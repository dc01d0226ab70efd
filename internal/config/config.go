// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/nextgensoft/ragdesk/internal/util"
)

// Environment variable overrides. Each one beats the config file.
const (
	EnvServerURL = "RAGDESK_SERVER_URL"
	EnvUserID    = "RAGDESK_USER_ID"
	EnvLogLevel  = "RAGDESK_LOG_LEVEL"
	EnvTheme     = "RAGDESK_THEME"
	EnvCache     = "RAGDESK_CACHE"
)

// Config is the full ragdesk configuration.
type Config struct {
	Server  ServerConfig  `toml:"server" json:"server"`
	UI      UIConfig      `toml:"ui" json:"ui"`
	Logging LoggingConfig `toml:"logging" json:"logging"`
	Cache   CacheConfig   `toml:"cache" json:"cache"`
}

// ServerConfig points the client at the backend.
type ServerConfig struct {
	// BaseURL is the backend root, e.g. "https://api.example.com".
	BaseURL string `toml:"base_url" json:"base_url"`
	// UserID is the identity-provider user ID sent with streaming sends.
	UserID string `toml:"user_id" json:"user_id"`
	// TimeoutSeconds bounds non-streaming requests.
	TimeoutSeconds int `toml:"timeout_seconds" json:"timeout_seconds"`
	// MaxRetries applies to idempotent requests that fail with 5xx or 429.
	MaxRetries int `toml:"max_retries" json:"max_retries"`
	// RateLimit is the client-side request budget per second; RateBurst is
	// the bucket size.
	RateLimit float64 `toml:"rate_limit" json:"rate_limit"`
	RateBurst int     `toml:"rate_burst" json:"rate_burst"`
}

// UIConfig tunes rendering.
type UIConfig struct {
	// Theme is "auto", "dark", or "light".
	Theme string `toml:"theme" json:"theme"`
	// Markdown renders assistant replies with glamour when true.
	Markdown bool `toml:"markdown" json:"markdown"`
	// CodeStyle is the chroma style for fenced code blocks.
	CodeStyle string `toml:"code_style" json:"code_style"`
	// ShowTimestamps adds message times to the transcript.
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// LoggingConfig controls the slog setup.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `toml:"level" json:"level"`
	// File is the log destination; empty means <config dir>/logs/ragdesk.log.
	File string `toml:"file" json:"file"`
	// Verbose mirrors logs to stderr as text. Never enabled while the TUI
	// owns the terminal.
	Verbose bool `toml:"verbose" json:"verbose"`
}

// CacheConfig controls the offline conversation cache.
type CacheConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the sqlite file; empty means <config dir>/cache.db.
	Path string `toml:"path" json:"path"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:        "http://localhost:8000",
			TimeoutSeconds: 30,
			MaxRetries:     3,
			RateLimit:      10,
			RateBurst:      20,
		},
		UI: UIConfig{
			Theme:          "auto",
			Markdown:       true,
			CodeStyle:      "monokai",
			ShowTimestamps: false,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// Dir returns the ragdesk state directory, ~/.ragdesk.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".ragdesk"), nil
}

// Path returns the config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path on top of the defaults and applies
// environment overrides. A missing file is not an error: defaults plus
// environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads from the standard location.
func LoadDefault() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes the config to path atomically with private permissions.
func (c *Config) Save(path string) error {
	var sb strings.Builder
	sb.WriteString("# ragdesk configuration\n")
	sb.WriteString("# Values here are overridden by RAGDESK_* environment variables.\n\n")

	enc := toml.NewEncoder(&sb)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := util.AtomicWriteFileWithDir(path, []byte(sb.String()), 0o600, 0o700); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyEnvOverrides applies RAGDESK_* variables over the loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvServerURL); v != "" {
		c.Server.BaseURL = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		c.Server.UserID = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv(EnvTheme); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if v := os.Getenv(EnvCache); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Cache.Enabled = enabled
		}
	}
}

// ValidationError names the offending field so the message is actionable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return &ValidationError{Field: "server.base_url", Message: "must not be empty"}
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return &ValidationError{Field: "server.base_url", Message: "must start with http:// or https://"}
	}
	if c.Server.TimeoutSeconds <= 0 {
		return &ValidationError{Field: "server.timeout_seconds", Message: "must be positive"}
	}
	if c.Server.MaxRetries < 0 || c.Server.MaxRetries > 10 {
		return &ValidationError{Field: "server.max_retries", Message: "must be between 0 and 10"}
	}
	if c.Server.RateLimit <= 0 {
		return &ValidationError{Field: "server.rate_limit", Message: "must be positive"}
	}
	if c.Server.RateBurst < 1 {
		return &ValidationError{Field: "server.rate_burst", Message: "must be at least 1"}
	}
	switch c.UI.Theme {
	case "auto", "dark", "light":
	default:
		return &ValidationError{Field: "ui.theme", Message: `must be "auto", "dark", or "light"`}
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Field: "logging.level", Message: `must be "debug", "info", "warn", or "error"`}
	}
	return nil
}

// LogFilePath resolves the log destination, falling back to the state dir.
func (c *Config) LogFilePath() (string, error) {
	if c.Logging.File != "" {
		return c.Logging.File, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "logs", "ragdesk.log"), nil
}

// CachePath resolves the sqlite cache location.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache.db"), nil
}

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide config, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := LoadDefault()
		if err != nil {
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide config, used by the hot-reload
// watcher and by tests.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ResetGlobalForTesting clears the global so the next Global() reloads.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}
