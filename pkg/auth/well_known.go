// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/upsun/upsun-mcp/pkg/logger"
)

const (
	// WellKnownAuthorizationServerPath serves the RFC 8414 document.
	WellKnownAuthorizationServerPath = "/.well-known/oauth-authorization-server"

	// WellKnownProtectedResourcePath serves the RFC 9728 document.
	WellKnownProtectedResourcePath = "/.well-known/oauth-protected-resource"
)

// NewWellKnownHandler creates the handler for the /.well-known/ path
// space. Both discovery documents are built once from configuration and
// served verbatim on every request; unknown .well-known paths return 404.
//
// Per RFC 9728 the discovery endpoints must be reachable without
// authentication, so the gateway mounts this handler outside the
// credentialed routes. Path-suffixed variants such as
// /.well-known/oauth-protected-resource/mcp resolve to the same document.
func NewWellKnownHandler(resourceURL, authURL string, scopes []string) http.Handler {
	return &wellKnownHandler{
		authServer:        AuthorizationServerMetadataFor(authURL, scopes),
		protectedResource: ProtectedResourceMetadataFor(resourceURL, authURL, scopes),
	}
}

type wellKnownHandler struct {
	authServer        AuthorizationServerMetadata
	protectedResource ProtectedResourceMetadata
}

func (h *wellKnownHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var doc any
	switch {
	case strings.HasPrefix(r.URL.Path, WellKnownAuthorizationServerPath):
		doc = h.authServer
	case strings.HasPrefix(r.URL.Path, WellKnownProtectedResourcePath):
		doc = h.protectedResource
	default:
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.Method == http.MethodHead {
		return
	}

	if err := json.NewEncoder(w).Encode(doc); err != nil {
		logger.Errorw("failed to encode discovery document",
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
}
