package upsun

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExchangeServer(t *testing.T, calls *atomic.Int64, token string, expiresIn int) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/oauth2/token", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "api_token", payload["grant_type"])
		assert.Equal(t, exchangeClientID, payload["client_id"])
		assert.NotEmpty(t, payload["api_token"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": token,
			"token_type":   "Bearer",
			"expires_in":   expiresIn,
		})
	}))
}

func TestTokenSourceExchangeAndCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newExchangeServer(t, &calls, "access-1", 900)
	defer srv.Close()

	ts := newTokenSource(srv.URL, srv.Client())

	token, err := ts.accessToken(context.Background(), "api-key")
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, int64(1), calls.Load())

	// Second call inside the validity window hits the cache.
	token, err = ts.accessToken(context.Background(), "api-key")
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
	assert.Equal(t, int64(1), calls.Load())
}

func TestTokenSourceExpiry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newExchangeServer(t, &calls, "access-1", 900)
	defer srv.Close()

	ts := newTokenSource(srv.URL, srv.Client())

	current := time.Now()
	ts.now = func() time.Time { return current }

	_, err := ts.accessToken(context.Background(), "api-key")
	require.NoError(t, err)
	require.Equal(t, int64(1), calls.Load())

	// Within the margin-adjusted lifetime: cached.
	current = current.Add(10 * time.Minute)
	_, err = ts.accessToken(context.Background(), "api-key")
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())

	// Past expiry: a fresh exchange happens.
	current = current.Add(10 * time.Minute)
	_, err = ts.accessToken(context.Background(), "api-key")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestTokenSourceInvalidate(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	srv := newExchangeServer(t, &calls, "access-1", 900)
	defer srv.Close()

	ts := newTokenSource(srv.URL, srv.Client())

	_, err := ts.accessToken(context.Background(), "api-key")
	require.NoError(t, err)

	ts.invalidate()

	_, err = ts.accessToken(context.Background(), "api-key")
	require.NoError(t, err)
	assert.Equal(t, int64(2), calls.Load())
}

func TestTokenSourceExchangeFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid API token"}`))
	}))
	defer srv.Close()

	ts := newTokenSource(srv.URL, srv.Client())

	_, err := ts.accessToken(context.Background(), "bad-key")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "invalid_grant", apiErr.Code)
}

func TestTokenSourceMissingAccessToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	ts := newTokenSource(srv.URL, srv.Client())

	_, err := ts.accessToken(context.Background(), "api-key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access_token")
}
