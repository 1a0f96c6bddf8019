// Package session holds the credentialed binding between one client
// connection and one MCP server instance, and the registry that
// multiplexes those bindings by session ID.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/auth"
)

// Kind labels the transport a session arrived on.
type Kind string

const (
	// KindStreamable is the modern streamable HTTP transport.
	KindStreamable Kind = "streamable"
	// KindSSE is the legacy HTTP+SSE transport.
	KindSSE Kind = "sse"
	// KindStdio is the single-session standard-I/O transport.
	KindStdio Kind = "stdio"
)

// Session binds one client connection to one MCP server instance and
// one credential store. The server instance is exclusively owned by its
// session and is never handed to another session.
//
// A session starts pending (no ID); the transport assigns the ID when
// the handshake completes and the registry inserts it at that moment.
type Session struct {
	id      string
	kind    Kind
	created time.Time

	mu      sync.RWMutex
	updated time.Time

	creds   *auth.Store
	mcp     *server.MCPServer
	handler http.Handler

	closeOnce sync.Once
	closeFn   func() error
}

// New creates a pending session. The ID stays empty until the registry
// finalizes it.
func New(kind Kind, creds *auth.Store, mcpServer *server.MCPServer) *Session {
	now := time.Now()
	return &Session{
		kind:    kind,
		created: now,
		updated: now,
		creds:   creds,
		mcp:     mcpServer,
	}
}

// ID returns the session ID, or "" while the session is still pending.
func (s *Session) ID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Kind returns the transport the session belongs to.
func (s *Session) Kind() Kind { return s.kind }

// CreatedAt returns the creation time of the session.
func (s *Session) CreatedAt() time.Time { return s.created }

// UpdatedAt returns the last time the session saw traffic.
func (s *Session) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updated
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updated = time.Now()
}

// Credentials returns the session's credential store.
func (s *Session) Credentials() *auth.Store { return s.creds }

// MCPServer returns the server instance bound to this session.
func (s *Session) MCPServer() *server.MCPServer { return s.mcp }

// SetHandler installs the per-session HTTP handler requests are
// delegated through. Call it once, before the session is reachable by
// other goroutines.
func (s *Session) SetHandler(h http.Handler) {
	s.handler = h
}

// Handler returns the per-session HTTP handler, nil for transports that
// do not delegate through one.
func (s *Session) Handler() http.Handler { return s.handler }

// OnClose installs the teardown hook run by Close. Call it once, before
// the session is reachable by other goroutines.
func (s *Session) OnClose(fn func() error) {
	s.closeFn = fn
}

// Close tears the session down. It is idempotent: the hook runs at most
// once, and later calls return nil. Close never touches the registry;
// removing the entry is the caller's job, so the delete path and the
// close path cannot deadlock on each other.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		if s.closeFn != nil {
			err = s.closeFn()
		}
	})
	return err
}

func (s *Session) setID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
}
