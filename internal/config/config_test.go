// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad scheme", func(c *Config) { c.Server.URL = "ftp://x/api" }},
		{"zero timeout", func(c *Config) { c.Server.TimeoutSecs = 0 }},
		{"sub-second interval", func(c *Config) { c.Refresh.IntervalMillis = 100 }},
		{"zero page size", func(c *Config) { c.Refresh.PageSize = 0 }},
		{"oversized page", func(c *Config) { c.Refresh.PageSize = 500 }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "solarized" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadTOML_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Server.URL = "https://chat.example.org/api"
	cfg.Refresh.IntervalMillis = 2000

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, toml.NewEncoder(f).Encode(cfg))
	require.NoError(t, f.Close())

	loaded := Default()
	require.NoError(t, LoadTOML(loaded, path))
	assert.Equal(t, "https://chat.example.org/api", loaded.Server.URL)
	assert.Equal(t, 2000, loaded.Refresh.IntervalMillis)
	// Untouched sections keep their defaults.
	assert.Equal(t, 40, loaded.Refresh.PageSize)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("BITUM_SERVER_URL", "https://env.example.org/api")
	t.Setenv("BITUM_REFRESH_MS", "3000")
	t.Setenv("BITUM_THEME", "light")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	assert.Equal(t, "https://env.example.org/api", cfg.Server.URL)
	assert.Equal(t, 3000, cfg.Refresh.IntervalMillis)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestApplyEnvOverrides_IgnoresGarbageInterval(t *testing.T) {
	t.Setenv("BITUM_REFRESH_MS", "soon")

	cfg := Default()
	cfg.ApplyEnvOverrides()
	assert.Equal(t, 5000, cfg.Refresh.IntervalMillis)
}

func TestGlobal_ConcurrentAccess(t *testing.T) {
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			assert.NotNil(t, Global())
		}()
	}
	wg.Wait()
}

func TestIntervalAndTimeoutHelpers(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "5s", cfg.Interval().String())
	assert.Equal(t, "15s", cfg.Timeout().String())
}
