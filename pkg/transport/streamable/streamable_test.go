package streamable

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/mcp"
	"github.com/upsun/upsun-mcp/pkg/transport/session"
)

const initializeBody = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":` +
	`{"protocolVersion":"2025-03-26","clientInfo":{"name":"adapter-test","version":"0.0.0"},"capabilities":{}}}`

// testEnv is one adapter behind its parsing middleware, with a factory
// that exposes a whoami tool reporting the session's current secret.
type testEnv struct {
	server       *httptest.Server
	registry     *session.Registry
	factoryCalls atomic.Int64
	opened       atomic.Int64
	closed       atomic.Int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{}
	env.registry = session.NewRegistry(0, nil)
	t.Cleanup(env.registry.Stop)

	adapter := New(Config{
		Registry: env.registry,
		Factory: func(creds *auth.Store) (*server.MCPServer, error) {
			env.factoryCalls.Add(1)
			s := server.NewMCPServer("adapter-test", "0.0.0")
			s.AddTool(
				mcpmcp.NewTool("whoami", mcpmcp.WithDescription("reports the live credential")),
				func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
					return mcpmcp.NewToolResultText(creds.Current().Secret()), nil
				},
			)
			return s, nil
		},
		OnSessionOpened: func() { env.opened.Add(1) },
		OnSessionClosed: func() { env.closed.Add(1) },
	})

	env.server = httptest.NewServer(mcp.ParsingMiddleware(adapter))
	t.Cleanup(env.server.Close)
	return env
}

func (e *testEnv) post(t *testing.T, body string, headers map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/mcp", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(raw)
}

func (e *testEnv) request(t *testing.T, method string, headers map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+"/mcp", nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(raw)
}

// initialize performs the handshake and returns the minted session ID.
func (e *testEnv) initialize(t *testing.T, token string) string {
	t.Helper()
	resp, body := e.post(t, initializeBody, map[string]string{
		"Authorization": "Bearer " + token,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "handshake should succeed: %s", body)

	sessionID := resp.Header.Get(HeaderSessionID)
	require.NotEmpty(t, sessionID, "handshake response should carry "+HeaderSessionID)
	return sessionID
}

func TestInitializeCreatesSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	sessionID := env.initialize(t, "token-a")

	assert.Equal(t, 1, env.registry.Len())
	sess, ok := env.registry.Get(sessionID)
	require.True(t, ok)
	assert.Equal(t, session.KindStreamable, sess.Kind())
	assert.Equal(t, auth.KindBearer, sess.Credentials().Kind())
	assert.Equal(t, "token-a", sess.Credentials().Current().Secret())
	assert.EqualValues(t, 1, env.opened.Load())
}

func TestInitializeWithAPIKey(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, _ := env.post(t, initializeBody, map[string]string{
		"upsun-api-token": "key-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sess, ok := env.registry.Get(resp.Header.Get(HeaderSessionID))
	require.True(t, ok)
	assert.Equal(t, auth.KindAPIKey, sess.Credentials().Kind())
}

func TestInitializeWithoutCredential(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, body := env.post(t, initializeBody, nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing_token", gjson.Get(body, "error").String())
	assert.NotEmpty(t, gjson.Get(body, "hint").String())
	assert.EqualValues(t, 0, env.factoryCalls.Load(), "no server may be built without a credential")
	assert.Equal(t, 0, env.registry.Len())
}

func TestUnknownSessionRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	listBody := `{"jsonrpc":"2.0","id":7,"method":"tools/list","params":{}}`
	resp, body := env.post(t, listBody, map[string]string{
		"Authorization": "Bearer token-a",
		HeaderSessionID: "no-such-session",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, mcp.CodeInvalidSession, gjson.Get(body, "error.code").Int())
	assert.Equal(t, mcp.MsgInvalidSession, gjson.Get(body, "error.message").String())
	assert.EqualValues(t, 7, gjson.Get(body, "id").Int(), "error envelope should echo the request ID")
	assert.Equal(t, 0, env.registry.Len(), "a rejected request must not create state")
}

func TestNonInitializeWithoutSessionRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	listBody := `{"jsonrpc":"2.0","id":9,"method":"tools/list","params":{}}`
	resp, body := env.post(t, listBody, map[string]string{
		"Authorization": "Bearer token-a",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.EqualValues(t, mcp.CodeInvalidSession, gjson.Get(body, "error.code").Int())
	assert.Equal(t, mcp.MsgInvalidSession, gjson.Get(body, "error.message").String())
	assert.EqualValues(t, 0, env.factoryCalls.Load())
}

func TestPostWithoutCredentialOnLiveSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	sessionID := env.initialize(t, "token-a")

	listBody := `{"jsonrpc":"2.0","id":2,"method":"tools/list","params":{}}`
	resp, body := env.post(t, listBody, map[string]string{
		HeaderSessionID: sessionID,
	})

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "missing_token", gjson.Get(body, "error").String())

	// The session survives a rejected request.
	assert.Equal(t, 1, env.registry.Len())
}

func TestBearerRefreshLastWins(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	sessionID := env.initialize(t, "token-a")

	whoami := func(id int, token string) string {
		callBody := `{"jsonrpc":"2.0","id":` + strconv.Itoa(id) + `,"method":"tools/call","params":{"name":"whoami","arguments":{}}}`
		resp, body := env.post(t, callBody, map[string]string{
			"Authorization": "Bearer " + token,
			HeaderSessionID: sessionID,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode, "tools/call should succeed: %s", body)
		return gjson.Get(body, "result.content.0.text").String()
	}

	assert.Equal(t, "token-b", whoami(2, "token-b"), "the handler must see the refreshed bearer")
	assert.Equal(t, "token-c", whoami(3, "token-c"))

	sess, ok := env.registry.Get(sessionID)
	require.True(t, ok)
	assert.Equal(t, "token-c", sess.Credentials().Current().Secret())
}

func TestAPIKeySessionIgnoresBearer(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, _ := env.post(t, initializeBody, map[string]string{
		"upsun-api-token": "key-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionID := resp.Header.Get(HeaderSessionID)
	require.NotEmpty(t, sessionID)

	callBody := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"whoami","arguments":{}}}`
	resp, body := env.post(t, callBody, map[string]string{
		"Authorization": "Bearer intruder-token",
		HeaderSessionID: sessionID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "key-1", gjson.Get(body, "result.content.0.text").String(),
		"an API-key session keeps the key it was created with")
}

func TestDeleteTerminatesSessionOnce(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	sessionID := env.initialize(t, "token-a")
	require.Equal(t, 1, env.registry.Len())

	resp, _ := env.request(t, http.MethodDelete, map[string]string{
		HeaderSessionID: sessionID,
	})
	assert.Less(t, resp.StatusCode, 300)
	assert.Equal(t, 0, env.registry.Len())
	assert.EqualValues(t, 1, env.closed.Load())

	// A second DELETE finds nothing and is rejected without side effects.
	resp, body := env.request(t, http.MethodDelete, map[string]string{
		HeaderSessionID: sessionID,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid or missing session ID", strings.TrimSpace(body))
	assert.EqualValues(t, 1, env.closed.Load(), "teardown must not run twice")
}

func TestGetWithoutSessionRejected(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	for _, headers := range []map[string]string{
		nil,
		{HeaderSessionID: "ghost"},
	} {
		resp, body := env.request(t, http.MethodGet, headers)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid or missing session ID", strings.TrimSpace(body))
	}
}

func TestUnsupportedMethod(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodPut, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConcurrentSessionsAreIsolated(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	first := env.initialize(t, "token-first")
	second := env.initialize(t, "token-second")
	require.NotEqual(t, first, second)
	require.Equal(t, 2, env.registry.Len())

	callBody := `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"whoami","arguments":{}}}`
	resp, body := env.post(t, callBody, map[string]string{
		"Authorization": "Bearer token-first",
		HeaderSessionID: first,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "token-first", gjson.Get(body, "result.content.0.text").String())

	// Tearing one down leaves the other untouched.
	resp, _ = env.request(t, http.MethodDelete, map[string]string{HeaderSessionID: first})
	require.Less(t, resp.StatusCode, 300)
	assert.Equal(t, 1, env.registry.Len())

	_, ok := env.registry.Get(second)
	assert.True(t, ok)
}
