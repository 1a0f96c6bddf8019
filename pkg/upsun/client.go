// Package upsun is a thin REST client for the Upsun management API.
//
// Resource methods return the API's JSON payloads unmodified so tool
// handlers can forward them as structured content without re-modelling
// every platform resource. Credentials are resolved per request from the
// session's credential source; API tokens are exchanged for short-lived
// access tokens transparently.
package upsun

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/logger"
)

const (
	defaultTimeout = 30 * time.Second

	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 8 * time.Second
	retryMaxTries        = 4
)

// CredentialSource yields the credential to authorize the next request
// with. The session's auth.Store satisfies this.
type CredentialSource interface {
	Current() auth.Credential
}

// Client talks to the Upsun management API on behalf of one session.
type Client struct {
	apiURL     string
	creds      CredentialSource
	httpClient *http.Client
	tokens     *tokenSource
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.tokens.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a management-API client. apiURL and authURL must be
// absolute http(s) URLs; creds must be non-nil.
func NewClient(apiURL, authURL string, creds CredentialSource, opts ...Option) (*Client, error) {
	if creds == nil {
		return nil, fmt.Errorf("credential source is required")
	}
	for _, raw := range []string{apiURL, authURL} {
		parsed, err := url.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid URL %q: %w", raw, err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return nil, fmt.Errorf("URL scheme must be http or https, got: %s", parsed.Scheme)
		}
	}

	httpClient := &http.Client{Timeout: defaultTimeout}
	c := &Client{
		apiURL:     apiURL,
		creds:      creds,
		httpClient: httpClient,
		tokens:     newTokenSource(authURL, httpClient),
		userAgent:  "upsun-mcp",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) get(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *Client) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

func (c *Client) patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

func (c *Client) delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

type httpResult struct {
	status int
	body   []byte
}

// do performs one API call. Idempotent methods are retried with
// exponential backoff on transient upstream failures; every attempt
// re-resolves the credential so a refreshed bearer token takes effect
// immediately.
func (c *Client) do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	target, err := url.JoinPath(c.apiURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to build request URL: %w", err)
	}

	// A session without a credential cannot become authorized by
	// retrying; fail before entering the retry loop.
	if c.creds.Current().IsZero() {
		return nil, ErrNoCredential
	}

	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	attempt := func() (*httpResult, error) {
		return c.attempt(ctx, method, target, payload)
	}

	var result *httpResult
	if isIdempotent(method) {
		expBackoff := backoff.NewExponentialBackOff()
		expBackoff.InitialInterval = retryInitialInterval
		expBackoff.MaxInterval = retryMaxInterval
		expBackoff.Reset()

		result, err = backoff.Retry(ctx, attempt,
			backoff.WithBackOff(expBackoff),
			backoff.WithMaxTries(retryMaxTries),
			backoff.WithNotify(func(_ error, delay time.Duration) {
				logger.Debugw("retrying api request",
					"method", method,
					"path", path,
					"delay", delay.String(),
				)
			}),
		)
	} else {
		result, err = attempt()
	}
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if result.status < 200 || result.status >= 300 {
		if result.status == http.StatusUnauthorized && c.creds.Current().Kind() == auth.KindAPIKey {
			// A cached access token the API no longer accepts is
			// useless; drop it so the next call exchanges again.
			c.tokens.invalidate()
		}
		return nil, newAPIError(result.status, result.body)
	}

	return result.body, nil
}

// attempt performs a single HTTP round trip. Transient upstream statuses
// come back as errors so the retry loop sees them; every other status is
// a result for the caller to interpret.
func (c *Client) attempt(ctx context.Context, method, target string, payload []byte) (*httpResult, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if isRetryableStatus(resp.StatusCode) {
		return nil, newAPIError(resp.StatusCode, respBody)
	}

	return &httpResult{status: resp.StatusCode, body: respBody}, nil
}

// authorize sets the Authorization header from the current credential.
func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	cred := c.creds.Current()
	if cred.IsZero() {
		return ErrNoCredential
	}

	switch cred.Kind() {
	case auth.KindBearer:
		req.Header.Set("Authorization", "Bearer "+cred.Secret())
	case auth.KindAPIKey:
		token, err := c.tokens.accessToken(ctx, cred.Secret())
		if err != nil {
			return fmt.Errorf("api token exchange: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func isIdempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
