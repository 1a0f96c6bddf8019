package upsun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"github.com/upsun/upsun-mcp/pkg/logger"
)

const (
	// exchangeClientID is the public OAuth client used for API-token
	// exchange on the Upsun auth server.
	exchangeClientID = "platform-api-user"

	// expiryMargin is subtracted from the advertised token lifetime so a
	// token is never used within its final seconds.
	expiryMargin = 60 * time.Second
)

// tokenSource exchanges a long-lived API token for short-lived access
// tokens and caches the result until shortly before expiry. One source
// serves one session, so a single cached token suffices.
type tokenSource struct {
	authURL    string
	httpClient *http.Client

	mu      sync.Mutex
	cached  string
	expires time.Time
	now     func() time.Time
}

func newTokenSource(authURL string, httpClient *http.Client) *tokenSource {
	return &tokenSource{
		authURL:    authURL,
		httpClient: httpClient,
		now:        time.Now,
	}
}

// accessToken returns a live access token for the given API token,
// exchanging when the cache is empty or stale. The mutex spans the
// exchange so concurrent tool calls trigger at most one request.
func (t *tokenSource) accessToken(ctx context.Context, apiToken string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cached != "" && t.now().Before(t.expires) {
		return t.cached, nil
	}

	token, expiresIn, err := t.exchange(ctx, apiToken)
	if err != nil {
		return "", err
	}

	t.cached = token
	t.expires = t.now().Add(expiresIn - expiryMargin)
	logger.Debugw("exchanged api token for access token",
		"expires_in", expiresIn.String(),
	)
	return token, nil
}

// invalidate drops the cached token so the next call exchanges again.
// Called after a 401 from the management API.
func (t *tokenSource) invalidate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cached = ""
	t.expires = time.Time{}
}

func (t *tokenSource) exchange(ctx context.Context, apiToken string) (string, time.Duration, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":  exchangeClientID,
		"grant_type": "api_token",
		"api_token":  apiToken,
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.authURL+"/oauth2/token", bytes.NewReader(payload))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token exchange failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, newAPIError(resp.StatusCode, body)
	}

	token := gjson.GetBytes(body, "access_token").String()
	if token == "" {
		return "", 0, fmt.Errorf("token response carried no access_token")
	}

	expiresIn := time.Duration(gjson.GetBytes(body, "expires_in").Int()) * time.Second
	if expiresIn <= expiryMargin {
		// Tokens shorter than the margin are still usable once.
		expiresIn = expiryMargin + time.Second
	}

	return token, expiresIn, nil
}
