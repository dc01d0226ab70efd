// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvServerURL, EnvUserID, EnvLogLevel, EnvTheme, EnvCache} {
		t.Setenv(key, "")
	}
}

func TestDefaultValidates(t *testing.T) {
	clearEnv(t)
	require.NoError(t, Default().Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.BaseURL, cfg.Server.BaseURL)
	assert.True(t, cfg.UI.Markdown)
}

func TestLoadOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[server]
base_url = "https://rag.example.com"
user_id = "user_29x"

[ui]
theme = "dark"
markdown = false

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://rag.example.com", cfg.Server.BaseURL)
	assert.Equal(t, "user_29x", cfg.Server.UserID)
	assert.Equal(t, "dark", cfg.UI.Theme)
	assert.False(t, cfg.UI.Markdown)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep defaults.
	assert.Equal(t, 30, cfg.Server.TimeoutSeconds)
	assert.True(t, cfg.Cache.Enabled)
}

func TestEnvOverridesBeatFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nbase_url = \"https://from-file\"\n"), 0o600))

	t.Setenv(EnvServerURL, "https://from-env")
	t.Setenv(EnvTheme, "light")
	t.Setenv(EnvCache, "false")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env", cfg.Server.BaseURL)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.False(t, cfg.Cache.Enabled)
}

func TestLoadRejectsInvalid(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"solarized\"\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "ui.theme", verr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty base url", func(c *Config) { c.Server.BaseURL = "" }, "server.base_url"},
		{"bad scheme", func(c *Config) { c.Server.BaseURL = "ftp://x" }, "server.base_url"},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSeconds = 0 }, "server.timeout_seconds"},
		{"negative retries", func(c *Config) { c.Server.MaxRetries = -1 }, "server.max_retries"},
		{"zero rate", func(c *Config) { c.Server.RateLimit = 0 }, "server.rate_limit"},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Server.BaseURL = "https://saved.example.com"
	cfg.UI.Theme = "dark"
	require.NoError(t, cfg.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://saved.example.com", loaded.Server.BaseURL)
	assert.Equal(t, "dark", loaded.UI.Theme)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestGlobalSetAndReset(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	cfg := Default()
	cfg.Server.UserID = "global-user"
	SetGlobal(cfg)
	assert.Equal(t, "global-user", Global().Server.UserID)
}

func TestWatchReloadsOnChange(t *testing.T) {
	clearEnv(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nbase_url = \"https://v1\"\n"), 0o600))

	applied := make(chan *Config, 1)
	w, err := Watch(path, func(c *Config) { applied <- c })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[server]\nbase_url = \"https://v2\"\n"), 0o600))

	select {
	case cfg := <-applied:
		assert.Equal(t, "https://v2", cfg.Server.BaseURL)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload never fired")
	}
}

func TestWatchKeepsOldConfigOnBadReload(t *testing.T) {
	clearEnv(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[server]\nbase_url = \"https://good\"\n"), 0o600))

	good, err := Load(path)
	require.NoError(t, err)
	SetGlobal(good)

	applied := make(chan *Config, 1)
	w, err := Watch(path, func(c *Config) { applied <- c })
	require.NoError(t, err)
	defer w.Close()

	// Invalid edit: theme is rejected by Validate.
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"nope\"\n"), 0o600))

	select {
	case <-applied:
		t.Fatal("invalid config must not be applied")
	case <-time.After(1 * time.Second):
	}
	assert.Equal(t, "https://good", Global().Server.BaseURL)
}
