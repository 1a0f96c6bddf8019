package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerSSHKeyTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("ssh-key-list",
		mcp.WithDescription("List the SSH keys registered on the current user account."),
		mcp.WithTitleAnnotation("List SSH keys"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListSSHKeys)

	addTool(s, mcp.NewTool("ssh-key-add",
		mcp.WithDescription("Register a public SSH key on the current user account."),
		mcp.WithString("value", mcp.Required(), mcp.Description("Public key in OpenSSH format")),
		mcp.WithString("title", mcp.Description("Label for the key")),
		mcp.WithTitleAnnotation("Add SSH key"),
	), h.AddSSHKey)

	addTool(s, mcp.NewTool("ssh-key-delete",
		mcp.WithDescription("Remove an SSH key from the current user account."),
		mcp.WithString("key_id", mcp.Required(), mcp.Description("SSH key ID")),
		mcp.WithTitleAnnotation("Delete SSH key"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.DeleteSSHKey)
}

// ListSSHKeys lists the account's SSH keys.
func (h *Handler) ListSSHKeys(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListSSHKeys(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list ssh keys", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"ssh_keys": raw}), nil
}

// AddSSHKey registers a public key.
func (h *Handler) AddSSHKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Value string `json:"value"`
		Title string `json:"title"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.AddSSHKey(ctx, args.Title, args.Value)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to add ssh key", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"ssh_key": raw}), nil
}

// DeleteSSHKey removes a key.
func (h *Handler) DeleteSSHKey(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		KeyID string `json:"key_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	if _, err := h.client.DeleteSSHKey(ctx, args.KeyID); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to delete ssh key", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"status": "deleted",
		"key":    args.KeyID,
	}), nil
}
