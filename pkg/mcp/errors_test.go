package mcp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		msgID      any
		expectedID any
	}{
		{
			name:       "string id echoed",
			msgID:      "req-1",
			expectedID: "req-1",
		},
		{
			name:       "numeric id echoed",
			msgID:      int64(42),
			expectedID: float64(42),
		},
		{
			name:       "nil id serializes as null",
			msgID:      nil,
			expectedID: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			WriteError(rec, http.StatusBadRequest, tt.msgID, CodeInvalidSession, MsgInvalidSession)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "2.0", resp["jsonrpc"])
			assert.Equal(t, tt.expectedID, resp["id"])

			errObj, ok := resp["error"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, float64(-32000), errObj["code"])
			assert.Equal(t, "Bad Request: No valid session ID provided", errObj["message"])
		})
	}
}

func TestWriteMissingToken(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteMissingToken(rec)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "missing_token", resp["error"])
	assert.NotEmpty(t, resp["hint"])
}
