package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerAccessTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("access-list",
		mcp.WithDescription("List the users with access to a project and their roles."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithTitleAnnotation("List project access"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListProjectAccess)

	addTool(s, mcp.NewTool("access-add",
		mcp.WithDescription("Invite a user to a project by email."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Email address of the user to invite")),
		mcp.WithString("role", mcp.Description("Project role: admin or viewer (default viewer)")),
		mcp.WithTitleAnnotation("Add project access"),
	), h.AddProjectAccess)

	addTool(s, mcp.NewTool("access-remove",
		mcp.WithDescription("Revoke a user's access to a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("user_id", mcp.Required(), mcp.Description("User ID to remove")),
		mcp.WithTitleAnnotation("Remove project access"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.RemoveProjectAccess)
}

// ListProjectAccess lists a project's user grants.
func (h *Handler) ListProjectAccess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListProjectAccess(ctx, args.ProjectID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list project access", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"access": raw}), nil
}

// AddProjectAccess invites a user.
func (h *Handler) AddProjectAccess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
		Email     string `json:"email"`
		Role      string `json:"role"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.AddProjectAccess(ctx, args.ProjectID, args.Email, args.Role)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to add project access", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// RemoveProjectAccess revokes a user's grant.
func (h *Handler) RemoveProjectAccess(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
		UserID    string `json:"user_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	if _, err := h.client.RemoveProjectAccess(ctx, args.ProjectID, args.UserID); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to remove project access", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"status": "removed",
		"user":   args.UserID,
	}), nil
}
