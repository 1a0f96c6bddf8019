// SPDX-FileCopyrightText: Copyright 2025 Platform.sh
// SPDX-License-Identifier: Apache-2.0

// Package stdio runs the single-session standard I/O transport. The
// credential comes from the process environment and keeps API-key
// semantics: it is bound once and never refreshed.
package stdio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/auth"
	"github.com/upsun/upsun-mcp/pkg/logger"
)

// EnvAPIToken names the environment variable carrying the Upsun API
// token for stdio sessions.
const EnvAPIToken = "UPSUN_API_TOKEN"

// ErrMissingToken is returned when the environment carries no token.
// The CLI treats it as fatal at startup.
var ErrMissingToken = errors.New(EnvAPIToken + " is not set")

// ServerFactory builds the MCP server for the session, with every tool
// bound to the session's credential store.
type ServerFactory func(creds *auth.Store) (*server.MCPServer, error)

// Adapter serves exactly one session over stdin/stdout.
type Adapter struct {
	factory ServerFactory
}

// New creates the stdio adapter.
func New(factory ServerFactory) *Adapter {
	return &Adapter{factory: factory}
}

// CredentialFromEnv reads the process credential.
func CredentialFromEnv() (auth.Credential, error) {
	token := strings.TrimSpace(os.Getenv(EnvAPIToken))
	if token == "" {
		return auth.Credential{}, ErrMissingToken
	}
	return auth.NewAPIKeyCredential(token), nil
}

// Serve blocks until the client closes the stream or ctx is canceled.
func (a *Adapter) Serve(ctx context.Context) error {
	cred, err := CredentialFromEnv()
	if err != nil {
		return err
	}

	mcpServer, err := a.factory(auth.NewStore(cred))
	if err != nil {
		return fmt.Errorf("building MCP server: %w", err)
	}

	logger.Infow("serving on standard I/O",
		"credential", cred.Redacted(),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(mcpServer)
	}()

	select {
	case <-ctx.Done():
		// Signal-driven shutdown is a clean exit, not an error.
		logger.Infow("standard I/O transport stopped")
		return nil
	case err := <-errCh:
		return err
	}
}
