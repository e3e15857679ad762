// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for the
// bitum client.
//
// Configuration lives in TOML with sensible defaults, environment
// variable overrides, and validation.
//
// Locations (in order of precedence):
//   - BITUM_* environment variables
//   - ~/.bitum/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete bitum client configuration.
type Config struct {
	Version string `toml:"version"`

	Server  ServerConfig  `toml:"server"`
	Refresh RefreshConfig `toml:"refresh"`
	UI      UIConfig      `toml:"ui"`
}

// ServerConfig locates the bitum server.
type ServerConfig struct {
	// URL is the API base, including the /api prefix.
	URL string `toml:"url"`
	// TimeoutSecs is the per-request timeout.
	TimeoutSecs int `toml:"timeout_secs"`
}

// RefreshConfig tunes the polling sessions.
type RefreshConfig struct {
	// IntervalMillis is the poll interval for every live list.
	IntervalMillis int `toml:"interval_millis"`
	// PageSize is the messages-per-fetch window.
	PageSize int `toml:"page_size"`
}

// UIConfig contains presentation preferences.
type UIConfig struct {
	// Theme is "dark", "light", or "auto".
	Theme string `toml:"theme"`
	// ShowTimestamps renders a timestamp next to each message.
	ShowTimestamps bool `toml:"show_timestamps"`
	// CompactMode collapses message spacing.
	CompactMode bool `toml:"compact_mode"`
}

// Interval returns the poll interval as a duration.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Refresh.IntervalMillis) * time.Millisecond
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSecs) * time.Second
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Server: ServerConfig{
			URL:         "http://127.0.0.1:8000/api",
			TimeoutSecs: 15,
		},
		Refresh: RefreshConfig{
			IntervalMillis: 5000,
			PageSize:       40,
		},
		UI: UIConfig{
			Theme:          "auto",
			ShowTimestamps: true,
			CompactMode:    false,
		},
	}
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the bitum configuration directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".bitum"), nil
}

// Path returns the path to the TOML config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureDir ensures the config directory exists.
func EnsureDir() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}

// =============================================================================
// LOADING & SAVING
// =============================================================================

// Load reads the config file, falling back to defaults when it does not
// exist. Environment overrides are applied last, then validation.
func Load() (*Config, error) {
	cfg := Default()

	path, err := Path()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, err
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file over cfg's current values.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// Save writes the configuration to the default path.
func Save(cfg *Config) error {
	if err := EnsureDir(); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// ApplyEnvOverrides applies BITUM_* environment variables over the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("BITUM_SERVER_URL"); u != "" {
		c.Server.URL = u
	}
	if ms := os.Getenv("BITUM_REFRESH_MS"); ms != "" {
		if parsed, err := strconv.Atoi(ms); err == nil {
			c.Refresh.IntervalMillis = parsed
		}
	}
	if theme := os.Getenv("BITUM_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	parsed, err := url.Parse(c.Server.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("server.url %q is not a valid http(s) URL", c.Server.URL)
	}
	if c.Server.TimeoutSecs <= 0 {
		return fmt.Errorf("server.timeout_secs must be positive, got %d", c.Server.TimeoutSecs)
	}
	// Sub-second polling hammers the server for no visual gain.
	if c.Refresh.IntervalMillis < 1000 {
		return fmt.Errorf("refresh.interval_millis must be at least 1000, got %d", c.Refresh.IntervalMillis)
	}
	if c.Refresh.PageSize <= 0 || c.Refresh.PageSize > 200 {
		return fmt.Errorf("refresh.page_size must be in 1..200, got %d", c.Refresh.PageSize)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme must be dark, light, or auto, got %q", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide configuration, loading it on first use.
// A load failure falls back to defaults rather than crashing the UI.
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
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ReloadGlobal re-reads the config file into the global configuration.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// ResetGlobalForTesting clears the global configuration.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}
