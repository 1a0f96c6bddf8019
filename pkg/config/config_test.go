// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()

	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultAuthURL, cfg.AuthURL)
	assert.Equal(t, DefaultHeartbeatInterval, cfg.HeartbeatInterval.Std())
	assert.Zero(t, cfg.SessionTTL)
	require.NoError(t, cfg.Validate())
}

func TestFromViper(t *testing.T) {
	t.Parallel()

	v := viper.New()
	SetDefaults(v)
	v.Set("host", "0.0.0.0")
	v.Set("port", 9000)
	v.Set("public-url", "https://mcp.example.com")
	v.Set("session-ttl", "30m")
	v.Set("metrics", true)

	cfg := FromViper(v)

	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "https://mcp.example.com", cfg.PublicURL)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL.Std())
	assert.True(t, cfg.MetricsEnabled)
	// Untouched keys fall back to defaults.
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, DefaultHeartbeatInterval, cfg.HeartbeatInterval.Std())
}

func TestFromViperEnv(t *testing.T) { //nolint:paralleltest // mutates env
	t.Setenv("UPSUN_MCP_PORT", "8443")
	t.Setenv("UPSUN_MCP_AUTH_URL", "https://auth.example.com")

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("UPSUN_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cfg := FromViper(v)

	assert.Equal(t, 8443, cfg.Port)
	assert.Equal(t, "https://auth.example.com", cfg.AuthURL)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("host: 10.0.0.1\nport: 7000\nheartbeatInterval: 10s\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1", cfg.Host)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval.Std())
	// File overlays defaults rather than replacing them.
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
}

func TestLoadFileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing file", missing: true},
		{name: "invalid yaml", content: "host: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.yaml")
			if !tt.missing {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))
			}

			_, err := LoadFile(path)
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Port = 0 },
			wantErr: "port",
		},
		{
			name:    "heartbeat too small",
			mutate:  func(c *Config) { c.HeartbeatInterval = Duration(100 * time.Millisecond) },
			wantErr: "heartbeat-interval",
		},
		{
			name:    "negative ttl",
			mutate:  func(c *Config) { c.SessionTTL = Duration(-time.Minute) },
			wantErr: "session-ttl",
		},
		{
			name:    "bad api url",
			mutate:  func(c *Config) { c.APIURL = "not a url" },
			wantErr: "api-url",
		},
		{
			name:    "empty auth url",
			mutate:  func(c *Config) { c.AuthURL = "" },
			wantErr: "auth-url",
		},
		{
			name:   "empty public url is allowed",
			mutate: func(c *Config) { c.PublicURL = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestResolvedPublicURL(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, "http://127.0.0.1:8080", cfg.ResolvedPublicURL())

	cfg.PublicURL = "https://mcp.example.com/"
	assert.Equal(t, "https://mcp.example.com", cfg.ResolvedPublicURL())
}

func TestDurationJSON(t *testing.T) {
	t.Parallel()

	var d Duration
	require.NoError(t, d.UnmarshalJSON([]byte(`"90s"`)))
	assert.Equal(t, 90*time.Second, d.Std())

	out, err := Duration(2 * time.Minute).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"2m0s"`, string(out))

	assert.Error(t, d.UnmarshalJSON([]byte(`"not-a-duration"`)))
}
