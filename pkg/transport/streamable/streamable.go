// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

// Package streamable serves the streamable HTTP transport: POST, GET and
// DELETE on a single endpoint, correlated by the Mcp-Session-Id header.
//
// Every session owns a dedicated MCP server instance wrapped in its own
// SDK transport. The adapter authenticates each request, routes it to
// the owning session's transport, and drives the session lifecycle
// around the SDK's Generate/Validate/Terminate callbacks.
package streamable

import (
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/logger"
	"github.com/upsun/upsun-mcp/pkg/mcp"
	"github.com/upsun/upsun-mcp/pkg/transport/session"
)

const (
	// DefaultEndpointPath is where the adapter is mounted unless the
	// gateway says otherwise.
	DefaultEndpointPath = "/mcp"

	// HeaderSessionID carries the session correlation ID.
	HeaderSessionID = "Mcp-Session-Id"
)

// ServerFactory builds the MCP server for one session, with every tool
// bound to the session's credential store. Factories must return a
// fresh instance per call; server instances are never shared.
type ServerFactory func(creds *auth.Store) (*server.MCPServer, error)

// Config wires the adapter's collaborators.
type Config struct {
	// Registry is the streamable session namespace. The gateway owns it
	// and drains it on shutdown.
	Registry *session.Registry

	// Factory builds the per-session MCP server.
	Factory ServerFactory

	// EndpointPath is the public path the adapter is mounted on.
	// Defaults to DefaultEndpointPath.
	EndpointPath string

	// OnSessionOpened and OnSessionClosed observe the session
	// lifecycle, typically for metrics. Either may be nil.
	OnSessionOpened func()
	OnSessionClosed func()
}

// Adapter multiplexes streamable HTTP requests across per-session MCP
// server instances. It expects mcp.ParsingMiddleware upstream so it can
// tell handshake requests from in-session traffic.
type Adapter struct {
	registry *session.Registry
	factory  ServerFactory
	endpoint string
	onOpened func()
	onClosed func()
}

// New creates the streamable HTTP adapter.
func New(cfg Config) *Adapter {
	if cfg.EndpointPath == "" {
		cfg.EndpointPath = DefaultEndpointPath
	}
	return &Adapter{
		registry: cfg.Registry,
		factory:  cfg.Factory,
		endpoint: cfg.EndpointPath,
		onOpened: cfg.OnSessionOpened,
		onClosed: cfg.OnSessionClosed,
	}
}

// ServeHTTP implements http.Handler.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.handlePost(w, r)
	case http.MethodGet, http.MethodDelete:
		a.handleSessionScoped(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handlePost dispatches a JSON-RPC POST. Three cases: a handshake that
// creates a session, traffic for a live session, and everything else.
func (a *Adapter) handlePost(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)

	if sessionID == "" {
		if mcp.IsInitialize(r.Context()) {
			a.handleInitialize(w, r)
			return
		}
		a.writeInvalidSession(w, r)
		return
	}

	sess, ok := a.registry.Get(sessionID)
	if !ok {
		logger.Debugw("rejecting request for unknown session",
			"session_id", sessionID,
		)
		a.writeInvalidSession(w, r)
		return
	}

	cred := auth.FromRequest(r)
	if cred.IsZero() {
		mcp.WriteMissingToken(w)
		return
	}
	a.refreshCredential(sess, cred)

	sess.Handler().ServeHTTP(w, r)
}

// handleInitialize builds the full per-session stack and hands the
// handshake to the new session's transport. The session enters the
// registry only when the transport mints its ID via Generate.
func (a *Adapter) handleInitialize(w http.ResponseWriter, r *http.Request) {
	cred := auth.FromRequest(r)
	if cred.IsZero() {
		logger.Debugw("rejecting initialize without credential",
			"remote_addr", r.RemoteAddr,
		)
		mcp.WriteMissingToken(w)
		return
	}

	sess, err := a.createSession(cred)
	if err != nil {
		logger.Errorw("failed to create session",
			"error", err.Error(),
		)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}

	sess.Handler().ServeHTTP(w, r)

	logger.Infow("streamable session established",
		"session_id", sess.ID(),
		"credential", cred.Redacted(),
	)
}

// handleSessionScoped serves GET (server push stream) and DELETE
// (termination). Both only make sense against a live session.
func (a *Adapter) handleSessionScoped(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(HeaderSessionID)
	if sessionID == "" {
		http.Error(w, "Invalid or missing session ID", http.StatusBadRequest)
		return
	}

	sess, ok := a.registry.Get(sessionID)
	if !ok {
		http.Error(w, "Invalid or missing session ID", http.StatusBadRequest)
		return
	}

	sess.Handler().ServeHTTP(w, r)
}

// createSession assembles a pending session: credential store, MCP
// server, and the SDK transport wired to this registry's lifecycle.
func (a *Adapter) createSession(cred auth.Credential) (*session.Session, error) {
	creds := auth.NewStore(cred)

	mcpServer, err := a.factory(creds)
	if err != nil {
		return nil, fmt.Errorf("building MCP server: %w", err)
	}

	sess := session.New(session.KindStreamable, creds, mcpServer)
	sess.SetHandler(server.NewStreamableHTTPServer(
		mcpServer,
		server.WithEndpointPath(a.endpoint),
		server.WithSessionIdManager(newSessionIDManager(a.registry, sess, a.onOpened)),
	))
	sess.OnClose(func() error {
		logger.Debugw("streamable session closed",
			"session_id", sess.ID(),
		)
		if a.onClosed != nil {
			a.onClosed()
		}
		return nil
	})

	return sess, nil
}

// refreshCredential applies the request credential to a bearer session.
// The last request to arrive wins. API-key sessions keep the key they
// were created with; a bearer arriving on one is dropped.
func (a *Adapter) refreshCredential(sess *session.Session, cred auth.Credential) {
	if cred.Kind() != auth.KindBearer {
		return
	}
	if err := sess.Credentials().Refresh(cred.Secret()); err != nil {
		logger.Debugw("credential refresh skipped",
			"session_id", sess.ID(),
			"error", err.Error(),
		)
	}
}

func (a *Adapter) writeInvalidSession(w http.ResponseWriter, r *http.Request) {
	var msgID any
	if parsed := mcp.GetParsedRequest(r.Context()); parsed != nil {
		msgID = parsed.ID
	}
	mcp.WriteError(w, http.StatusBadRequest, msgID, mcp.CodeInvalidSession, mcp.MsgInvalidSession)
}
