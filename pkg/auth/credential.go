// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

// Package auth provides credential extraction, per-session credential
// storage, and OAuth discovery metadata for the gateway.
package auth

import (
	"errors"
	"sync"
)

// Kind discriminates the two credential forms accepted by the gateway.
type Kind string

const (
	// KindBearer is an OAuth2 access token presented via the
	// Authorization header. Bearer credentials may be refreshed on
	// subsequent requests.
	KindBearer Kind = "bearer"

	// KindAPIKey is a long-lived Upsun API token presented via the
	// upsun-api-token header. API-key credentials are immutable for the
	// lifetime of the session that carries them.
	KindAPIKey Kind = "api_key"
)

var (
	// ErrAPIKeyImmutable is returned when Refresh is called on a store
	// bound to an API-key credential.
	ErrAPIKeyImmutable = errors.New("api key credentials cannot be refreshed")

	// ErrEmptyToken is returned when Refresh is called with an empty token.
	ErrEmptyToken = errors.New("cannot refresh with an empty token")
)

// Credential is a tagged value holding exactly one secret of one kind.
// The zero value carries no secret and reports IsZero() == true.
type Credential struct {
	kind   Kind
	secret string
}

// NewBearerCredential wraps an OAuth2 access token.
func NewBearerCredential(token string) Credential {
	return Credential{kind: KindBearer, secret: token}
}

// NewAPIKeyCredential wraps a long-lived Upsun API token.
func NewAPIKeyCredential(key string) Credential {
	return Credential{kind: KindAPIKey, secret: key}
}

// Kind reports which form the credential takes.
func (c Credential) Kind() Kind { return c.kind }

// Secret returns the raw secret. Callers must not log this value.
func (c Credential) Secret() string { return c.secret }

// IsZero reports whether the credential carries no secret.
func (c Credential) IsZero() bool { return c.secret == "" }

// Redacted returns a log-safe rendering of the credential. Only the kind
// and a short prefix of the secret are visible.
func (c Credential) Redacted() string {
	if c.IsZero() {
		return "none"
	}
	prefix := c.secret
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return string(c.kind) + ":" + prefix + "..."
}

// Store binds one credential to one session. Reads are safe under
// concurrency; Refresh replaces the secret for bearer stores only.
type Store struct {
	mu   sync.RWMutex
	cred Credential
}

// NewStore creates a store seeded with the given credential.
func NewStore(c Credential) *Store {
	return &Store{cred: c}
}

// Current returns the credential as of this instant. Concurrent Refresh
// calls may change the value between reads; each read is consistent.
func (s *Store) Current() Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

// Kind reports the kind the store was created with. The kind never
// changes over the store's lifetime.
func (s *Store) Kind() Kind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred.kind
}

// Refresh replaces the stored bearer token. The last writer wins.
// Stores created from an API-key credential return ErrAPIKeyImmutable.
func (s *Store) Refresh(token string) error {
	if token == "" {
		return ErrEmptyToken
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cred.kind != KindBearer {
		return ErrAPIKeyImmutable
	}
	s.cred.secret = token
	return nil
}
