package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/upsun"
)

// newRegisteredServer builds an MCP server with the full tool set wired
// against a fake management API that answers every request with an
// empty JSON array.
func newRegisteredServer(t *testing.T) *server.MCPServer {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	client, err := upsun.NewClient(srv.URL, srv.URL,
		auth.NewStore(auth.NewBearerCredential("test-token")),
		upsun.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	mcpServer := server.NewMCPServer("upsun-tools-test", "0.0.0")
	RegisterAll(mcpServer, NewHandler(client))
	return mcpServer
}

// dispatch runs one JSON-RPC message through the server and returns the
// marshaled response.
func dispatch(t *testing.T, s *server.MCPServer, message string) []byte {
	t.Helper()

	response := s.HandleMessage(context.Background(), json.RawMessage(message))
	require.NotNil(t, response)

	body, err := json.Marshal(response)
	require.NoError(t, err)
	return body
}

func TestRegisterAllExposesTools(t *testing.T) {
	t.Parallel()

	s := newRegisteredServer(t)
	body := dispatch(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	names := make(map[string]bool)
	gjson.GetBytes(body, "result.tools.#.name").ForEach(func(_, v gjson.Result) bool {
		names[v.String()] = true
		return true
	})

	expected := []string{
		"project-list", "project-get", "project-create", "project-delete",
		"environment-list", "environment-get", "environment-pause", "environment-resume",
		"environment-redeploy", "environment-delete", "environment-merge",
		"environment-branch", "environment-urls",
		"organization-list", "organization-get", "organization-create",
		"domain-list", "domain-get", "domain-add", "domain-delete",
		"certificate-list", "certificate-get", "certificate-add", "certificate-delete",
		"backup-list", "backup-get", "backup-create", "backup-restore",
		"ssh-key-list", "ssh-key-add", "ssh-key-delete",
		"route-list", "route-get",
		"variable-list", "variable-get", "variable-create", "variable-update", "variable-delete",
		"activity-list", "activity-get", "activity-log", "activity-cancel",
		"deployment-current",
		"access-list", "access-add", "access-remove",
		"subscription-list", "subscription-get",
		"integration-list", "integration-get", "integration-create", "integration-delete",
	}
	for _, want := range expected {
		assert.True(t, names[want], "tool %q not registered", want)
	}
	assert.Len(t, names, len(expected), "unexpected extra tools registered")
}

func TestRegisterAllExposesPrompts(t *testing.T) {
	t.Parallel()

	s := newRegisteredServer(t)
	body := dispatch(t, s, `{"jsonrpc":"2.0","id":2,"method":"prompts/list"}`)

	var names []string
	gjson.GetBytes(body, "result.prompts.#.name").ForEach(func(_, v gjson.Result) bool {
		names = append(names, v.String())
		return true
	})

	assert.ElementsMatch(t, []string{
		"project-overview",
		"environment-troubleshoot",
		"deployment-review",
	}, names)
}

func TestToolCallHonorsSchema(t *testing.T) {
	t.Parallel()

	s := newRegisteredServer(t)

	// Missing the required project_id: the schema gate rejects the call
	// before any HTTP request is made.
	body := dispatch(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"project-get","arguments":{}}}`)
	assert.True(t, gjson.GetBytes(body, "result.isError").Bool())
	assert.Contains(t, gjson.GetBytes(body, "result.content.0.text").String(), "invalid arguments")

	// A valid call flows through to the fake API.
	body = dispatch(t, s, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"project-list","arguments":{}}}`)
	assert.False(t, gjson.GetBytes(body, "result.isError").Bool())
	require.True(t, gjson.GetBytes(body, "result.structuredContent").Exists())
	assert.True(t, gjson.GetBytes(body, "result.structuredContent.projects").IsArray())
}

func TestPromptExpansion(t *testing.T) {
	t.Parallel()

	s := newRegisteredServer(t)

	body := dispatch(t, s, `{"jsonrpc":"2.0","id":5,"method":"prompts/get","params":{"name":"project-overview","arguments":{"project_id":"p1"}}}`)
	text := gjson.GetBytes(body, "result.messages.0.content.text").String()
	assert.Contains(t, text, "p1")
	assert.Contains(t, text, "project-get")
	assert.Contains(t, text, "environment-list")

	// A missing required argument surfaces as a protocol error.
	body = dispatch(t, s, `{"jsonrpc":"2.0","id":6,"method":"prompts/get","params":{"name":"project-overview","arguments":{}}}`)
	assert.Contains(t, gjson.GetBytes(body, "error.message").String(), "project_id")
}
