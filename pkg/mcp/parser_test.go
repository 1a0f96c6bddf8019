package mcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runParsingMiddleware(t *testing.T, method, contentType, body string) (*ParsedRequest, string) {
	t.Helper()

	var parsed *ParsedRequest
	var downstreamBody string

	handler := ParsingMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		parsed = GetParsedRequest(r.Context())
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		downstreamBody = string(b)
	}))

	req := httptest.NewRequest(method, "/mcp", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)

	return parsed, downstreamBody
}

func TestParsingMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		method         string
		contentType    string
		body           string
		expectParsed   bool
		expectedMethod string
		expectedID     string
		expectRequest  bool
	}{
		{
			name:           "initialize request",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"clientInfo":{"name":"test"}}}`,
			expectParsed:   true,
			expectedMethod: "initialize",
			expectedID:     "1",
			expectRequest:  true,
		},
		{
			name:           "tools call with string id",
			method:         http.MethodPost,
			contentType:    "application/json; charset=utf-8",
			body:           `{"jsonrpc":"2.0","id":"req-7","method":"tools/call","params":{"name":"project-list"}}`,
			expectParsed:   true,
			expectedMethod: "tools/call",
			expectedID:     "req-7",
			expectRequest:  true,
		},
		{
			name:           "notification has no id",
			method:         http.MethodPost,
			contentType:    "application/json",
			body:           `{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			expectParsed:   true,
			expectedMethod: "notifications/initialized",
			expectRequest:  false,
		},
		{
			name:         "invalid json passes through unparsed",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `{not json`,
			expectParsed: false,
		},
		{
			name:         "batch payloads are not parsed",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         `[{"jsonrpc":"2.0","id":1,"method":"ping"}]`,
			expectParsed: false,
		},
		{
			name:         "non-json content type skipped",
			method:       http.MethodPost,
			contentType:  "text/plain",
			body:         `{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
			expectParsed: false,
		},
		{
			name:         "get requests skipped",
			method:       http.MethodGet,
			contentType:  "application/json",
			body:         "",
			expectParsed: false,
		},
		{
			name:         "empty body",
			method:       http.MethodPost,
			contentType:  "application/json",
			body:         "",
			expectParsed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			parsed, downstreamBody := runParsingMiddleware(t, tt.method, tt.contentType, tt.body)

			// The body must always reach the downstream handler intact.
			assert.Equal(t, tt.body, downstreamBody)

			if !tt.expectParsed {
				assert.Nil(t, parsed)
				return
			}

			require.NotNil(t, parsed)
			assert.Equal(t, tt.expectedMethod, parsed.Method)
			assert.Equal(t, tt.expectRequest, parsed.IsRequest)
			if tt.expectedID != "" {
				assert.Equal(t, tt.expectedID, fmt.Sprint(parsed.ID))
			}
		})
	}
}

func TestIsInitialize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected bool
	}{
		{
			name:     "initialize request",
			body:     `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
			expected: true,
		},
		{
			name:     "other method",
			body:     `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`,
			expected: false,
		},
		{
			name:     "initialized notification is not a handshake request",
			body:     `{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got bool
			handler := ParsingMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = IsInitialize(r.Context())
			}))

			req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGetParsedRequestEmptyContext(t *testing.T) {
	t.Parallel()

	assert.Nil(t, GetParsedRequest(context.Background()))
	assert.False(t, IsInitialize(context.Background()))
}
