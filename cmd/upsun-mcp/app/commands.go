// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

// Package app provides the entry point for the upsun-mcp command-line
// application.
package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/config"
	"github.com/upsun/upsun-mcp/pkg/gateway"
	"github.com/upsun/upsun-mcp/pkg/logger"
	"github.com/upsun/upsun-mcp/pkg/transport/stdio"
	"github.com/upsun/upsun-mcp/pkg/versions"
)

// Supported values for the serve --transport flag.
const (
	transportHTTP  = "http"
	transportStdio = "stdio"
)

var rootCmd = &cobra.Command{
	Use:               "upsun-mcp",
	DisableAutoGenTag: true,
	Short:             "MCP server for the Upsun cloud platform",
	Long: `upsun-mcp exposes the Upsun management API as an MCP (Model Context
Protocol) server, so AI assistants can inspect and operate projects,
environments, domains, certificates, backups and the rest of the platform
on behalf of an authenticated user.

It serves three transports:

- Streamable HTTP on /mcp for current MCP clients
- HTTP+SSE on /sse and /messages for legacy clients
- Standard I/O for local single-user use

HTTP sessions authenticate per request with a bearer token or an Upsun API
token header; the stdio transport reads UPSUN_API_TOKEN from the
environment.`,
	Run: func(cmd *cobra.Command, _ []string) {
		// If no subcommand is provided, print help
		if err := cmd.Help(); err != nil {
			logger.Errorf("Error displaying help: %v", err)
		}
	},
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Initialize()
	},
}

// NewRootCmd creates the root command for the upsun-mcp CLI.
func NewRootCmd() *cobra.Command {
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	if err := viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		logger.Errorf("Error binding debug flag: %v", err)
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML configuration file")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		logger.Errorf("Error binding config flag: %v", err)
	}

	// UPSUN_MCP_API_URL and friends map onto the kebab-case keys.
	viper.SetEnvPrefix("UPSUN_MCP")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	rootCmd.SilenceUsage = true
	return rootCmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Upsun MCP server",
		Long: `Start the Upsun MCP server.

With --transport http (the default) the server listens on host:port and
serves the streamable /mcp endpoint, the legacy /sse + /messages pair,
OAuth2 discovery metadata, a health probe and optional Prometheus metrics.

With --transport stdio the server speaks MCP over standard input and
output for a single local session, authenticated by UPSUN_API_TOKEN.`,
		RunE: runServe,
	}

	cmd.Flags().String("transport", transportHTTP, "Transport to serve on (http or stdio)")
	cmd.Flags().String("host", config.DefaultHost, "Host to listen on")
	cmd.Flags().Int("port", config.DefaultPort, "Port to listen on")
	cmd.Flags().String("public-url", "", "Externally reachable base URL, used in discovery metadata")
	cmd.Flags().String("api-url", config.DefaultAPIURL, "Upsun management API base URL")
	cmd.Flags().String("auth-url", config.DefaultAuthURL, "Upsun OAuth2 authorization server base URL")
	cmd.Flags().Duration("session-ttl", 0, "Evict sessions idle for longer than this (0 disables eviction)")
	cmd.Flags().Duration("heartbeat-interval", config.DefaultHeartbeatInterval, "Cadence of SSE keep-alive frames")
	cmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")

	for _, name := range []string{
		"transport", "host", "port", "public-url", "api-url", "auth-url",
		"session-ttl", "heartbeat-interval", "metrics",
	} {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			logger.Errorf("Error binding %s flag: %v", name, err)
		}
	}

	return cmd
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display version information for upsun-mcp",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versions.GetVersionInfo()

			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			if asJSON {
				out, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to render version info: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "upsun-mcp %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:     %s\n", info.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:      %s\n", info.BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "  go version: %s\n", info.GoVersion)
			fmt.Fprintf(cmd.OutOrStdout(), "  platform:   %s\n", info.Platform)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Output version information as JSON")
	return cmd
}

// resolveConfig builds the runtime configuration with flag > env >
// file > default precedence. File values are installed as viper
// defaults, so explicitly set flags and environment variables still
// win over them.
func resolveConfig(v *viper.Viper) (*config.Config, error) {
	config.SetDefaults(v)

	if path := v.GetString("config"); path != "" {
		fileCfg, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		overlayFileDefaults(v, fileCfg)
		logger.Infof("Loaded configuration from: %s", path)
	}

	return config.FromViper(v), nil
}

func overlayFileDefaults(v *viper.Viper, cfg *config.Config) {
	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("public-url", cfg.PublicURL)
	v.SetDefault("api-url", cfg.APIURL)
	v.SetDefault("auth-url", cfg.AuthURL)
	v.SetDefault("scopes", cfg.Scopes)
	v.SetDefault("session-ttl", cfg.SessionTTL.Std())
	v.SetDefault("heartbeat-interval", cfg.HeartbeatInterval.Std())
	v.SetDefault("metrics", cfg.MetricsEnabled)
	v.SetDefault("debug", cfg.Debug)
}

// runServe implements the serve command logic.
func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := resolveConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("configuration loading failed: %w", err)
	}

	switch transport := viper.GetString("transport"); transport {
	case transportHTTP:
		gw, err := gateway.New(cfg)
		if err != nil {
			return err
		}
		logger.Infof("Starting Upsun MCP server (%s) at %s",
			versions.GetVersionInfo().Version, cfg.Address())
		return gw.Start(ctx)

	case transportStdio:
		// Logs go to stderr, so stdout stays clean for the protocol.
		adapter := stdio.New(func(creds *auth.Store) (*server.MCPServer, error) {
			return gateway.NewSessionServer(cfg, creds)
		})
		return adapter.Serve(ctx)

	default:
		return fmt.Errorf("unknown transport %q (supported: %s, %s)",
			transport, transportHTTP, transportStdio)
	}
}
