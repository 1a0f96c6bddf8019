// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

package streamable

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/upsun/upsun-mcp/pkg/logger"
	"github.com/upsun/upsun-mcp/pkg/transport/session"
)

// sessionIDManager implements the SDK's SessionIdManager interface for
// exactly one session. The SDK calls it during protocol flows:
//
//  1. Generate() while answering an initialize request without a
//     session ID. This is the moment the pending session is finalized
//     into the registry; nothing else inserts it.
//  2. Validate() on every subsequent request. Liveness is whatever the
//     registry says; the SDK keeps no session state of its own here.
//  3. Terminate() on HTTP DELETE. Removes the registry entry and closes
//     the session. Terminating twice, or terminating an ID the cleanup
//     loop already evicted, succeeds quietly.
type sessionIDManager struct {
	registry   *session.Registry
	sess       *session.Session
	onFinalize func()
	terminated atomic.Bool
}

func newSessionIDManager(registry *session.Registry, sess *session.Session, onFinalize func()) *sessionIDManager {
	return &sessionIDManager{
		registry:   registry,
		sess:       sess,
		onFinalize: onFinalize,
	}
}

// Generate mints the session ID and makes the session reachable. The
// SDK sends the returned value back as the Mcp-Session-Id header; an
// empty return suppresses the header and fails the handshake softly.
func (m *sessionIDManager) Generate() string {
	sessionID := uuid.New().String()

	if err := m.registry.Finalize(m.sess, sessionID); err != nil {
		logger.Errorw("failed to register session",
			"session_id", sessionID,
			"error", err.Error(),
		)
		return ""
	}

	if m.onFinalize != nil {
		m.onFinalize()
	}

	logger.Debugw("generated session ID",
		"session_id", sessionID,
	)
	return sessionID
}

// Validate reports whether the session may keep talking.
//
// Returns:
//   - isTerminated=false, err=nil: session is live.
//   - isTerminated=true, err=nil: session existed and was explicitly
//     terminated; the SDK answers 404.
//   - err != nil: the ID is empty or was never (or is no longer) known.
func (m *sessionIDManager) Validate(sessionID string) (isTerminated bool, err error) {
	if sessionID == "" {
		return false, session.ErrEmptySessionID
	}

	if _, ok := m.registry.Get(sessionID); !ok {
		if m.terminated.Load() {
			return true, nil
		}
		return false, fmt.Errorf("%w: %q", session.ErrSessionNotFound, sessionID)
	}

	return false, nil
}

// Terminate ends the session. Client-initiated termination is always
// allowed, so isNotAllowed is always false.
func (m *sessionIDManager) Terminate(sessionID string) (isNotAllowed bool, err error) {
	if sessionID == "" {
		return false, session.ErrEmptySessionID
	}

	m.terminated.Store(true)

	sess := m.registry.Delete(sessionID)
	if sess == nil {
		// Already gone; a concurrent eviction or repeat DELETE won.
		return false, nil
	}

	if err := sess.Close(); err != nil {
		logger.Warnw("session teardown reported an error",
			"session_id", sessionID,
			"error", err.Error(),
		)
	}

	logger.Infow("session terminated",
		"session_id", sessionID,
	)
	return false, nil
}
