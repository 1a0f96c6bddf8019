package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerRouteTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("route-list",
		mcp.WithDescription("List the configured routes of an environment."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("List routes"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListRoutes)

	addTool(s, mcp.NewTool("route-get",
		mcp.WithDescription("Get one configured route of an environment."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithString("route_id", mcp.Required(), mcp.Description("Route ID")),
		mcp.WithTitleAnnotation("Get route"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetRoute)
}

// ListRoutes lists an environment's routes.
func (h *Handler) ListRoutes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListRoutes(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list routes", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"routes": raw}), nil
}

// GetRoute fetches one route.
func (h *Handler) GetRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID     string `json:"project_id"`
		EnvironmentID string `json:"environment_id"`
		RouteID       string `json:"route_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetRoute(ctx, args.ProjectID, args.EnvironmentID, args.RouteID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get route", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"route": raw}), nil
}
