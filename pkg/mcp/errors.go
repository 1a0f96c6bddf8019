package mcp

import (
	"encoding/json"
	"net/http"

	"github.com/upsun/upsun-mcp/pkg/logger"
)

// CodeInvalidSession is the JSON-RPC error code used when a request
// cannot be attributed to a live session.
const CodeInvalidSession = -32000

// MsgInvalidSession is the message paired with CodeInvalidSession on the
// streamable endpoint.
const MsgInvalidSession = "Bad Request: No valid session ID provided"

// WriteError writes a JSON-RPC error envelope with the given HTTP
// status. msgID echoes the request ID when the caller managed to parse
// one; nil serializes as null per JSON-RPC 2.0.
func WriteError(w http.ResponseWriter, status int, msgID any, code int, message string) {
	resp := map[string]any{
		"jsonrpc": "2.0",
		"id":      msgID,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Errorw("failed to encode JSON-RPC error response",
			"error", err.Error(),
		)
	}
}

// WriteMissingToken writes the 401 envelope shared by the credentialed
// endpoints. The hint points clients at the accepted headers.
func WriteMissingToken(w http.ResponseWriter) {
	resp := map[string]any{
		"error": "missing_token",
		"hint":  "provide Authorization: Bearer <token> or the upsun-api-token header",
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Errorw("failed to encode missing-token response",
			"error", err.Error(),
		)
	}
}
