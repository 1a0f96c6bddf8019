// Package tools registers the Upsun management tools and prompts against
// a session's MCP server.
package tools

import (
	"github.com/upsun/upsun-mcp/pkg/upsun"
)

// Handler carries the per-session dependencies shared by every tool.
type Handler struct {
	client *upsun.Client
}

// NewHandler creates a tool handler bound to one session's API client.
func NewHandler(client *upsun.Client) *Handler {
	return &Handler{client: client}
}
