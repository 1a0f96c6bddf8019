// Package mcp provides JSON-RPC parsing utilities and middleware for the
// MCP HTTP endpoints.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"golang.org/x/exp/jsonrpc2"
)

// contextKey is a type for context keys to avoid collisions.
type contextKey string

const parsedRequestContextKey contextKey = "mcp_parsed_request"

// MethodInitialize is the MCP handshake method name.
const MethodInitialize = "initialize"

// ParsedRequest is the routing-relevant slice of a JSON-RPC message.
// The transport adapters use it to distinguish handshake requests from
// in-session traffic and to echo the request ID in error envelopes.
type ParsedRequest struct {
	// Method is the MCP method name (e.g. "initialize", "tools/call").
	Method string
	// ID is the JSON-RPC request ID in its wire form, nil for
	// notifications.
	ID any
	// Params holds the raw JSON parameters.
	Params json.RawMessage
	// IsRequest is true for requests, false for responses and
	// notifications.
	IsRequest bool
}

// ParsingMiddleware parses JSON-RPC POST bodies and stores the result in
// the request context for the downstream adapter. The body is restored so
// the adapter can still delegate the raw bytes. Unparseable or non-JSON
// traffic passes through untouched; rejecting it is the adapter's call.
func ParsingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !shouldParse(r) {
			next.ServeHTTP(w, r)
			return
		}

		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		if parsed := parseMessage(bodyBytes); parsed != nil {
			ctx := context.WithValue(r.Context(), parsedRequestContextKey, parsed)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// GetParsedRequest retrieves the parsed request from the context, nil
// when parsing did not run or did not produce a message.
func GetParsedRequest(ctx context.Context) *ParsedRequest {
	if parsed, ok := ctx.Value(parsedRequestContextKey).(*ParsedRequest); ok {
		return parsed
	}
	return nil
}

// IsInitialize reports whether the context carries a parsed initialize
// request.
func IsInitialize(ctx context.Context) bool {
	parsed := GetParsedRequest(ctx)
	return parsed != nil && parsed.IsRequest && parsed.Method == MethodInitialize
}

func shouldParse(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	contentType := r.Header.Get("Content-Type")
	return strings.HasPrefix(contentType, "application/json")
}

// parseMessage decodes a single JSON-RPC message. Batch payloads and
// responses yield nil; the adapters treat those like any other
// non-request traffic.
func parseMessage(bodyBytes []byte) *ParsedRequest {
	if len(bodyBytes) == 0 {
		return nil
	}

	msg, err := jsonrpc2.DecodeMessage(bodyBytes)
	if err != nil {
		return nil
	}

	req, ok := msg.(*jsonrpc2.Request)
	if !ok {
		return nil
	}

	return &ParsedRequest{
		Method:    req.Method,
		ID:        req.ID.Raw(),
		Params:    req.Params,
		IsRequest: req.ID.Raw() != nil,
	}
}
