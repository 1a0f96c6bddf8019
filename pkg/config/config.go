// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

// Package config provides the configuration model for the upsun-mcp gateway.
//
// Configuration is resolved in the usual precedence order: command-line
// flags, UPSUN_MCP_* environment variables, an optional YAML file, then the
// built-in defaults below.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Duration is a wrapper around time.Duration that marshals/unmarshals as a
// duration string ("30s", "2h") instead of a nanosecond integer.
type Duration time.Duration

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String returns the duration in time.Duration notation.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	*d = Duration(dur)
	return nil
}

// Stock endpoints for the hosted Upsun platform.
const (
	// DefaultAPIURL is the Upsun management API.
	DefaultAPIURL = "https://api.upsun.com"
	// DefaultAuthURL is the OAuth2 authorization server.
	DefaultAuthURL = "https://auth.upsun.com"
	// DefaultHost is the listen address for the HTTP gateway.
	DefaultHost = "127.0.0.1"
	// DefaultPort is the listen port for the HTTP gateway.
	DefaultPort = 8080
	// DefaultHeartbeatInterval is the SSE keep-alive cadence.
	DefaultHeartbeatInterval = 25 * time.Second
)

// APITokenEnv is the environment variable carrying the platform API token
// used by the stdio transport.
const APITokenEnv = "UPSUN_API_TOKEN"

// Config is the runtime configuration for the gateway and its transports.
type Config struct {
	// Host and Port form the HTTP listen address.
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`

	// PublicURL is the externally reachable base URL, used in the OAuth2
	// protected-resource metadata. Defaults to http://<host>:<port>.
	PublicURL string `json:"publicUrl,omitempty" yaml:"publicUrl,omitempty"`

	// APIURL is the Upsun management API base URL.
	APIURL string `json:"apiUrl" yaml:"apiUrl"`

	// AuthURL is the OAuth2 authorization server base URL, used both for
	// API token exchange and for the discovery documents.
	AuthURL string `json:"authUrl" yaml:"authUrl"`

	// Scopes are advertised in the discovery documents.
	Scopes []string `json:"scopes,omitempty" yaml:"scopes,omitempty"`

	// SessionTTL evicts sessions idle for longer than this. Zero disables
	// eviction; sessions then live until closed by the client or shutdown.
	SessionTTL Duration `json:"sessionTtl,omitempty" yaml:"sessionTtl,omitempty"`

	// HeartbeatInterval is the cadence of SSE keep-alive comment frames.
	HeartbeatInterval Duration `json:"heartbeatInterval,omitempty" yaml:"heartbeatInterval,omitempty"`

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	// Debug lowers the log level to debug.
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
}

// Default returns a Config populated with the documented defaults.
func Default() *Config {
	return &Config{
		Host:              DefaultHost,
		Port:              DefaultPort,
		APIURL:            DefaultAPIURL,
		AuthURL:           DefaultAuthURL,
		Scopes:            []string{"offline_access"},
		HeartbeatInterval: Duration(DefaultHeartbeatInterval),
	}
}

// SetDefaults registers the default values on the given viper instance so
// flag/env/file lookups fall back to them.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("api-url", DefaultAPIURL)
	v.SetDefault("auth-url", DefaultAuthURL)
	v.SetDefault("scopes", []string{"offline_access"})
	v.SetDefault("session-ttl", time.Duration(0))
	v.SetDefault("heartbeat-interval", DefaultHeartbeatInterval)
	v.SetDefault("metrics", false)
}

// FromViper builds a Config from the resolved viper state.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Host:              v.GetString("host"),
		Port:              v.GetInt("port"),
		PublicURL:         v.GetString("public-url"),
		APIURL:            v.GetString("api-url"),
		AuthURL:           v.GetString("auth-url"),
		Scopes:            v.GetStringSlice("scopes"),
		SessionTTL:        Duration(v.GetDuration("session-ttl")),
		HeartbeatInterval: Duration(v.GetDuration("heartbeat-interval")),
		MetricsEnabled:    v.GetBool("metrics"),
		Debug:             v.GetBool("debug"),
	}
}

// LoadFile reads a YAML config file and overlays it on the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator supplied
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Address returns the host:port listen address.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ResolvedPublicURL returns PublicURL, or the listen address as an http URL
// when no public URL was configured.
func (c *Config) ResolvedPublicURL() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	return fmt.Sprintf("http://%s", c.Address())
}

// Validate checks the configuration for values the gateway cannot start with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.HeartbeatInterval.Std() < time.Second {
		return fmt.Errorf("heartbeat-interval must be at least 1s, got %s", c.HeartbeatInterval)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session-ttl cannot be negative, got %s", c.SessionTTL)
	}
	for name, raw := range map[string]string{
		"api-url":    c.APIURL,
		"auth-url":   c.AuthURL,
		"public-url": c.PublicURL,
	} {
		if raw == "" {
			if name == "public-url" {
				continue
			}
			return fmt.Errorf("%s must not be empty", name)
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s is not a valid URL: %q", name, raw)
		}
	}
	return nil
}
