// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

// Package gateway assembles the HTTP surface of the upsun-mcp server.
//
// One Gateway hosts both remote transports: the streamable endpoint on
// /mcp and the legacy SSE pair on /sse + /messages. Each transport owns
// a session registry; a shared factory builds a per-session MCP server
// bound to that session's credential store. The gateway also serves the
// OAuth2 discovery documents, a health probe and optional Prometheus
// metrics, all unauthenticated.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/config"
	"github.com/upsun/upsun-mcp/pkg/logger"
	"github.com/upsun/upsun-mcp/pkg/mcp"
	"github.com/upsun/upsun-mcp/pkg/tools"
	"github.com/upsun/upsun-mcp/pkg/transport/session"
	"github.com/upsun/upsun-mcp/pkg/transport/sse"
	"github.com/upsun/upsun-mcp/pkg/transport/streamable"
	"github.com/upsun/upsun-mcp/pkg/upsun"
	"github.com/upsun/upsun-mcp/pkg/versions"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 30 * time.Second

	// maxConcurrentCloses bounds the shutdown sweep.
	maxConcurrentCloses = 16

	serverName = "upsun-mcp"
)

// Gateway is the HTTP front of the MCP server. Create one with New,
// run it with Start, stop it by cancelling the context or calling
// Stop directly.
type Gateway struct {
	cfg     *config.Config
	router  http.Handler
	metrics *metrics

	streamableSessions *session.Registry
	sseSessions        *session.Registry

	httpServer *http.Server
}

// New builds a Gateway from the given configuration.
func New(cfg *config.Config) (*Gateway, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	g := &Gateway{cfg: cfg}

	// Idle sessions evicted by the registry still need their transport
	// closed, otherwise SSE streams and MCP servers outlive the entry.
	evict := func(s *session.Session) {
		if err := s.Close(); err != nil {
			logger.Warnw("error closing evicted session",
				"session_id", s.ID(),
				"error", err.Error(),
			)
		}
	}
	g.streamableSessions = session.NewRegistry(cfg.SessionTTL.Std(), evict)
	g.sseSessions = session.NewRegistry(cfg.SessionTTL.Std(), evict)

	m, err := newMetrics(
		func() float64 { return float64(g.streamableSessions.Len()) },
		func() float64 { return float64(g.sseSessions.Len()) },
	)
	if err != nil {
		return nil, fmt.Errorf("registering metrics: %w", err)
	}
	g.metrics = m

	streamableOpened, streamableClosed := m.sessionHooks(transportStreamable)
	streamableAdapter := streamable.New(streamable.Config{
		Registry:        g.streamableSessions,
		Factory:         g.newSessionServer,
		OnSessionOpened: streamableOpened,
		OnSessionClosed: streamableClosed,
	})

	sseOpened, sseClosed := m.sessionHooks(transportSSE)
	sseAdapter := sse.New(sse.Config{
		Registry:          g.sseSessions,
		Factory:           g.newSessionServer,
		HeartbeatInterval: cfg.HeartbeatInterval.Std(),
		OnSessionOpened:   sseOpened,
		OnSessionClosed:   sseClosed,
	})

	g.router = g.buildRouter(streamableAdapter, sseAdapter)
	return g, nil
}

// NewSessionServer builds the MCP server for one session: an API
// client bound to the session's credential store, with the full tool
// and prompt catalog registered. The stdio transport uses this
// directly; the HTTP transports go through the gateway's factory.
func NewSessionServer(cfg *config.Config, creds *auth.Store) (*server.MCPServer, error) {
	client, err := upsun.NewClient(cfg.APIURL, cfg.AuthURL, creds)
	if err != nil {
		return nil, fmt.Errorf("building API client: %w", err)
	}

	srv := server.NewMCPServer(
		serverName,
		versions.GetVersionInfo().Version,
		server.WithToolCapabilities(true),
		server.WithPromptCapabilities(true),
		server.WithLogging(),
	)
	tools.RegisterAll(srv, tools.NewHandler(client))
	return srv, nil
}

// newSessionServer is the per-session factory shared by both HTTP
// transports. Every session gets its own MCP server and API client so
// tool calls always see that session's current credential.
func (g *Gateway) newSessionServer(creds *auth.Store) (*server.MCPServer, error) {
	return NewSessionServer(g.cfg, creds)
}

func (g *Gateway) buildRouter(streamableAdapter *streamable.Adapter, sseAdapter *sse.Adapter) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		g.observeRequests,
	)

	// Browser-based MCP clients read the session ID from a response
	// header, which CORS hides unless exposed explicitly.
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{streamable.HeaderSessionID},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Handle(streamable.DefaultEndpointPath, mcp.ParsingMiddleware(streamableAdapter))
	r.Get(sse.DefaultSSEEndpoint, sseAdapter.HandleSSE)
	r.Post(sse.DefaultMessagesEndpoint, sseAdapter.HandleMessages)

	r.Get("/health", handleHealth)
	r.Mount("/.well-known", auth.NewWellKnownHandler(
		g.cfg.ResolvedPublicURL(),
		g.cfg.AuthURL,
		g.cfg.Scopes,
	))

	if g.cfg.MetricsEnabled {
		r.Handle("/metrics", g.metrics.handler())
	}

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// Handler returns the gateway's HTTP handler, mainly for tests that
// serve it through httptest instead of a real listener.
func (g *Gateway) Handler() http.Handler {
	return g.router
}

// Start listens on the configured address and blocks until the context
// is cancelled or the server fails. Either way it runs a graceful Stop
// with a bounded timeout before returning.
func (g *Gateway) Start(ctx context.Context) error {
	addr := g.cfg.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	g.httpServer = &http.Server{
		BaseContext:       func(net.Listener) context.Context { return ctx },
		Addr:              addr,
		Handler:           g.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	logger.Infow("gateway listening",
		"address", addr,
		"public_url", g.cfg.ResolvedPublicURL(),
		"session_ttl", g.cfg.SessionTTL.String(),
		"metrics", g.cfg.MetricsEnabled,
	)

	errCh := make(chan error, 1)
	go func() { errCh <- g.httpServer.Serve(listener) }()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	// A crashed server still gets the session sweep so open SSE
	// streams and MCP servers are torn down.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if stopErr := g.Stop(shutdownCtx); stopErr != nil {
		return errors.Join(serveErr, stopErr)
	}
	return serveErr
}

// Stop drains both session registries, closing every live session,
// then shuts the HTTP server down. Sessions close concurrently; one
// session that fails or hangs does not stop the sweep, and all close
// errors are collected and returned together. Closing sessions first
// ends the open SSE streams, which lets the HTTP server's graceful
// shutdown complete instead of waiting on them. Stop is safe to call
// more than once.
func (g *Gateway) Stop(ctx context.Context) error {
	logger.Infow("draining sessions",
		"streamable", g.streamableSessions.Len(),
		"sse", g.sseSessions.Len(),
	)

	var (
		mu   sync.Mutex
		errs []error
	)
	var sweep errgroup.Group
	sweep.SetLimit(maxConcurrentCloses)
	for _, reg := range []*session.Registry{g.streamableSessions, g.sseSessions} {
		for _, sess := range reg.Drain() {
			sweep.Go(func() error {
				if err := sess.Close(); err != nil {
					mu.Lock()
					errs = append(errs, fmt.Errorf("closing session %s: %w", sess.ID(), err))
					mu.Unlock()
				}
				return nil
			})
		}
		reg.Stop()
	}
	// Close errors are collected per session above.
	_ = sweep.Wait()

	if g.httpServer != nil {
		if err := g.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("gateway shutdown: %w", err)
	}
	logger.Infow("gateway stopped")
	return nil
}
