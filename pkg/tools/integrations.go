package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/upsun"
)

func registerIntegrationTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("integration-list",
		mcp.WithDescription("List the integrations of a project, such as source repositories and webhooks."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithTitleAnnotation("List integrations"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListIntegrations)

	addTool(s, mcp.NewTool("integration-get",
		mcp.WithDescription("Get one integration of a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("integration_id", mcp.Required(), mcp.Description("Integration ID")),
		mcp.WithTitleAnnotation("Get integration"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetIntegration)

	addTool(s, mcp.NewTool("integration-create",
		mcp.WithDescription("Add an integration to a project. Settings depend on the type; for example a github integration takes repository and token."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("type", mcp.Required(), mcp.Description("Integration type, e.g. github, gitlab, webhook, health.email")),
		mcp.WithObject("settings", mcp.Description("Type-specific settings object")),
		mcp.WithTitleAnnotation("Create integration"),
	), h.CreateIntegration)

	addTool(s, mcp.NewTool("integration-delete",
		mcp.WithDescription("Remove an integration from a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("integration_id", mcp.Required(), mcp.Description("Integration ID")),
		mcp.WithTitleAnnotation("Delete integration"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.DeleteIntegration)
}

// ListIntegrations lists a project's integrations.
func (h *Handler) ListIntegrations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListIntegrations(ctx, args.ProjectID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list integrations", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"integrations": raw}), nil
}

// GetIntegration fetches one integration.
func (h *Handler) GetIntegration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID     string `json:"project_id"`
		IntegrationID string `json:"integration_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetIntegration(ctx, args.ProjectID, args.IntegrationID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get integration", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"integration": raw}), nil
}

// CreateIntegration adds an integration.
func (h *Handler) CreateIntegration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string         `json:"project_id"`
		Type      string         `json:"type"`
		Settings  map[string]any `json:"settings"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.CreateIntegration(ctx, args.ProjectID, upsun.CreateIntegrationRequest{
		Type:     args.Type,
		Settings: args.Settings,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to create integration", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"integration": raw}), nil
}

// DeleteIntegration removes an integration.
func (h *Handler) DeleteIntegration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID     string `json:"project_id"`
		IntegrationID string `json:"integration_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	if _, err := h.client.DeleteIntegration(ctx, args.ProjectID, args.IntegrationID); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to delete integration", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"status":      "deleted",
		"integration": args.IntegrationID,
	}), nil
}
