package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerDeploymentTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("deployment-current",
		mcp.WithDescription("Get the current deployment of an environment: services, applications, workers and routes as deployed."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("Current deployment"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.CurrentDeployment)
}

// CurrentDeployment fetches the live deployment of an environment.
func (h *Handler) CurrentDeployment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.CurrentDeployment(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get current deployment", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"deployment": raw}), nil
}
