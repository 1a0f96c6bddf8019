// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

// Package sse serves the legacy HTTP+SSE transport: GET /sse opens the
// event stream and mints the session, POST /messages?sessionId= feeds
// it requests. Responses travel back over the stream as message events;
// a comment frame keeps idle streams alive through proxies.
package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/logger"
	"github.com/upsun/upsun-mcp/pkg/mcp"
	"github.com/upsun/upsun-mcp/pkg/transport/session"
)

const (
	// DefaultSSEEndpoint is where the stream handler is mounted.
	DefaultSSEEndpoint = "/sse"

	// DefaultMessagesEndpoint is where the message handler is mounted,
	// and the path advertised in the endpoint event.
	DefaultMessagesEndpoint = "/messages"

	// DefaultHeartbeatInterval is how often an idle stream emits its
	// keepalive comment frame.
	DefaultHeartbeatInterval = 25 * time.Second

	// QueryParamSessionID carries the session ID on /messages.
	QueryParamSessionID = "sessionId"
)

// ServerFactory builds the MCP server for one session, with every tool
// bound to the session's credential store.
type ServerFactory func(creds *auth.Store) (*server.MCPServer, error)

// Config wires the adapter's collaborators.
type Config struct {
	// Registry is the SSE session namespace, distinct from the
	// streamable one. The gateway owns it.
	Registry *session.Registry

	// Factory builds the per-session MCP server.
	Factory ServerFactory

	// MessagesEndpoint is the public path advertised in the endpoint
	// event. Defaults to DefaultMessagesEndpoint.
	MessagesEndpoint string

	// HeartbeatInterval overrides the keepalive cadence. Defaults to
	// DefaultHeartbeatInterval.
	HeartbeatInterval time.Duration

	// OnSessionOpened and OnSessionClosed observe the session
	// lifecycle, typically for metrics. Either may be nil.
	OnSessionOpened func()
	OnSessionClosed func()
}

// Adapter serves the two halves of the legacy transport. Sessions are
// created on stream open and die with the stream; the registry entry
// and the stream table are torn down together through Session.Close.
type Adapter struct {
	registry  *session.Registry
	factory   ServerFactory
	endpoint  string
	heartbeat time.Duration
	onOpened  func()
	onClosed  func()

	mu      sync.RWMutex
	streams map[string]*stream
}

// New creates the SSE adapter.
func New(cfg Config) *Adapter {
	if cfg.MessagesEndpoint == "" {
		cfg.MessagesEndpoint = DefaultMessagesEndpoint
	}
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	return &Adapter{
		registry:  cfg.Registry,
		factory:   cfg.Factory,
		endpoint:  cfg.MessagesEndpoint,
		heartbeat: cfg.HeartbeatInterval,
		onOpened:  cfg.OnSessionOpened,
		onClosed:  cfg.OnSessionClosed,
		streams:   make(map[string]*stream),
	}
}

// HandleSSE serves GET /sse: authenticates, builds the session, then
// holds the connection open writing events until either side ends it.
func (a *Adapter) HandleSSE(w http.ResponseWriter, r *http.Request) {
	cred := auth.FromRequest(r)
	if cred.IsZero() {
		http.Error(w, "Missing authentication token", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	sess, st, err := a.createSession(r.Context(), cred)
	if err != nil {
		logger.Errorw("failed to create session",
			"error", err.Error(),
		)
		http.Error(w, "failed to create session", http.StatusInternalServerError)
		return
	}
	defer a.teardown(sess)

	logger.Infow("sse session established",
		"session_id", sess.ID(),
		"credential", cred.Redacted(),
	)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	endpointURL := fmt.Sprintf("%s?%s=%s", a.endpoint, QueryParamSessionID, sess.ID())
	if err := writeEvent(w, flusher, "endpoint", endpointURL); err != nil {
		return
	}

	a.serveStream(w, r, flusher, st)
}

// serveStream is the single writer for one connection. It owns the
// flusher; everything else enqueues.
func (a *Adapter) serveStream(w http.ResponseWriter, r *http.Request, flusher http.Flusher, st *stream) {
	ticker := time.NewTicker(a.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-st.ctx.Done():
			return
		case ev := <-st.events:
			if err := writeEvent(w, flusher, ev.name, ev.data); err != nil {
				logger.Debugw("stream write failed",
					"session_id", st.id,
					"error", err.Error(),
				)
				return
			}
		case notif := <-st.notifications:
			data, err := json.Marshal(notif)
			if err != nil {
				logger.Errorw("failed to encode notification",
					"session_id", st.id,
					"error", err.Error(),
				)
				continue
			}
			if err := writeEvent(w, flusher, "message", string(data)); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

// HandleMessages serves POST /messages?sessionId=. The response to a
// request travels back over the session's event stream; the POST itself
// only acknowledges receipt.
func (a *Adapter) HandleMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get(QueryParamSessionID)
	if sessionID == "" {
		http.Error(w, "No transport found for sessionId", http.StatusBadRequest)
		return
	}

	sess, ok := a.registry.Get(sessionID)
	if !ok {
		http.Error(w, "No transport found for sessionId", http.StatusBadRequest)
		return
	}

	cred := auth.FromRequest(r)
	if cred.IsZero() {
		mcp.WriteMissingToken(w)
		return
	}
	if cred.Kind() == auth.KindBearer {
		if err := sess.Credentials().Refresh(cred.Secret()); err != nil {
			logger.Debugw("credential refresh skipped",
				"session_id", sessionID,
				"error", err.Error(),
			)
		}
	}

	st := a.stream(sessionID)
	if st == nil {
		http.Error(w, "No transport found for sessionId", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	if err := st.enqueueRequest(body); err != nil {
		logger.Warnw("failed to queue message",
			"session_id", sessionID,
			"error", err.Error(),
		)
		http.Error(w, "Failed to queue message", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	if _, err := w.Write([]byte("Accepted")); err != nil {
		logger.Debugw("failed to write acknowledgement",
			"session_id", sessionID,
			"error", err.Error(),
		)
	}
}

// createSession assembles the session, registers the stream as the MCP
// server's client session, and publishes it in the registry.
func (a *Adapter) createSession(ctx context.Context, cred auth.Credential) (*session.Session, *stream, error) {
	creds := auth.NewStore(cred)

	mcpServer, err := a.factory(creds)
	if err != nil {
		return nil, nil, fmt.Errorf("building MCP server: %w", err)
	}

	sessionID := uuid.New().String()
	st := newStream(sessionID)

	if err := mcpServer.RegisterSession(ctx, st); err != nil {
		st.close()
		return nil, nil, fmt.Errorf("registering client session: %w", err)
	}

	sess := session.New(session.KindSSE, creds, mcpServer)
	sess.OnClose(func() error {
		st.close()
		mcpServer.UnregisterSession(context.Background(), sessionID)
		a.removeStream(sessionID)
		logger.Debugw("sse session closed",
			"session_id", sessionID,
		)
		if a.onClosed != nil {
			a.onClosed()
		}
		return nil
	})

	a.addStream(st)
	if err := a.registry.Finalize(sess, sessionID); err != nil {
		a.removeStream(sessionID)
		st.close()
		mcpServer.UnregisterSession(context.Background(), sessionID)
		return nil, nil, fmt.Errorf("registering session: %w", err)
	}

	if a.onOpened != nil {
		a.onOpened()
	}

	go a.dispatchLoop(sess, st)

	return sess, st, nil
}

// dispatchLoop serializes one session's inbound requests, preserving
// their arrival order regardless of how many POSTs race each other.
func (a *Adapter) dispatchLoop(sess *session.Session, st *stream) {
	for {
		select {
		case <-st.ctx.Done():
			return
		case raw := <-st.requests:
			response := sess.MCPServer().HandleMessage(st.ctx, raw)
			if response == nil {
				// Notifications produce no response.
				continue
			}

			data, err := json.Marshal(response)
			if err != nil {
				logger.Errorw("failed to encode response",
					"session_id", st.id,
					"error", err.Error(),
				)
				continue
			}
			if err := st.send("message", string(data)); err != nil {
				logger.Debugw("dropping response",
					"session_id", st.id,
					"error", err.Error(),
				)
			}
		}
	}
}

// teardown removes the session from the registry and closes it. Either
// half may already be done; both steps tolerate that.
func (a *Adapter) teardown(sess *session.Session) {
	a.registry.Delete(sess.ID())
	if err := sess.Close(); err != nil {
		logger.Warnw("session teardown reported an error",
			"session_id", sess.ID(),
			"error", err.Error(),
		)
	}
}

func (a *Adapter) addStream(st *stream) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.streams[st.id] = st
}

func (a *Adapter) removeStream(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.streams, id)
}

func (a *Adapter) stream(id string) *stream {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.streams[id]
}
