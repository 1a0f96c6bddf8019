package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerEnvironmentTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("environment-list",
		mcp.WithDescription("List the environments of an Upsun project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithTitleAnnotation("List environments"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListEnvironments)

	addTool(s, mcp.NewTool("environment-get",
		mcp.WithDescription("Get one environment with its status, type and deployment target."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID, usually the branch name")),
		mcp.WithTitleAnnotation("Get environment"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetEnvironment)

	addTool(s, mcp.NewTool("environment-pause",
		mcp.WithDescription("Pause an environment to stop consuming resources. Paused environments keep their data."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("Pause environment"),
		mcp.WithIdempotentHintAnnotation(true),
	), h.PauseEnvironment)

	addTool(s, mcp.NewTool("environment-resume",
		mcp.WithDescription("Resume a paused environment."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("Resume environment"),
		mcp.WithIdempotentHintAnnotation(true),
	), h.ResumeEnvironment)

	addTool(s, mcp.NewTool("environment-redeploy",
		mcp.WithDescription("Redeploy an environment without pushing new code."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("Redeploy environment"),
	), h.RedeployEnvironment)

	addTool(s, mcp.NewTool("environment-delete",
		mcp.WithDescription("Delete an environment. The git branch survives; the running services are torn down."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("Delete environment"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.DeleteEnvironment)

	addTool(s, mcp.NewTool("environment-merge",
		mcp.WithDescription("Merge an environment into its parent."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID to merge")),
		mcp.WithTitleAnnotation("Merge environment"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.MergeEnvironment)

	addTool(s, mcp.NewTool("environment-branch",
		mcp.WithDescription("Branch a new child environment from an existing one."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Parent environment ID")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the new environment")),
		mcp.WithString("title", mcp.Description("Title of the new environment (defaults to the name)")),
		mcp.WithTitleAnnotation("Branch environment"),
	), h.BranchEnvironment)

	addTool(s, mcp.NewTool("environment-urls",
		mcp.WithDescription("List the public URLs of an environment, primary route first."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("Environment URLs"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.EnvironmentURLs)
}

type environmentArgs struct {
	ProjectID     string `json:"project_id"`
	EnvironmentID string `json:"environment_id"`
}

// ListEnvironments lists a project's environments.
func (h *Handler) ListEnvironments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListEnvironments(ctx, args.ProjectID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list environments", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"environments": raw}), nil
}

// GetEnvironment fetches one environment.
func (h *Handler) GetEnvironment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetEnvironment(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get environment", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"environment": raw}), nil
}

// PauseEnvironment pauses an environment.
func (h *Handler) PauseEnvironment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.PauseEnvironment(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to pause environment", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// ResumeEnvironment resumes a paused environment.
func (h *Handler) ResumeEnvironment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ResumeEnvironment(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to resume environment", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// RedeployEnvironment triggers a redeploy.
func (h *Handler) RedeployEnvironment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.RedeployEnvironment(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to redeploy environment", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// DeleteEnvironment deactivates an environment.
func (h *Handler) DeleteEnvironment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	if _, err := h.client.DeleteEnvironment(ctx, args.ProjectID, args.EnvironmentID); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to delete environment", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"status":      "deleted",
		"project":     args.ProjectID,
		"environment": args.EnvironmentID,
	}), nil
}

// MergeEnvironment merges an environment into its parent.
func (h *Handler) MergeEnvironment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.MergeEnvironment(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to merge environment", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// BranchEnvironment creates a child environment.
func (h *Handler) BranchEnvironment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID     string `json:"project_id"`
		EnvironmentID string `json:"environment_id"`
		Name          string `json:"name"`
		Title         string `json:"title"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.BranchEnvironment(ctx, args.ProjectID, args.EnvironmentID, args.Name, args.Title)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to branch environment", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// EnvironmentURLs lists an environment's public URLs.
func (h *Handler) EnvironmentURLs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args environmentArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	urls, err := h.client.EnvironmentURLs(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to resolve environment urls", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"urls": urls}), nil
}
