package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/upsun"
)

func registerProjectTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("project-list",
		mcp.WithDescription("List every Upsun project the current credential can access."),
		mcp.WithTitleAnnotation("List projects"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListProjects)

	addTool(s, mcp.NewTool("project-get",
		mcp.WithDescription("Get one Upsun project with its settings and repository URL."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID, e.g. abcdefgh1234567")),
		mcp.WithTitleAnnotation("Get project"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetProject)

	addTool(s, mcp.NewTool("project-create",
		mcp.WithDescription("Provision a new Upsun project. Provisioning is asynchronous; the result carries the tracking activity."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Human-readable project title")),
		mcp.WithString("region", mcp.Required(), mcp.Description("Deployment region, e.g. eu-5.platform.sh")),
		mcp.WithString("default_branch", mcp.Description("Default git branch (default: main)")),
		mcp.WithString("organization_id", mcp.Description("Organization to bill the project to")),
		mcp.WithTitleAnnotation("Create project"),
	), h.CreateProject)

	addTool(s, mcp.NewTool("project-delete",
		mcp.WithDescription("Delete an Upsun project and its subscription. This cannot be undone."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithTitleAnnotation("Delete project"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.DeleteProject)
}

// ListProjects lists the credential's projects.
func (h *Handler) ListProjects(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListProjects(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list projects", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"projects": raw}), nil
}

// GetProject fetches one project.
func (h *Handler) GetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetProject(ctx, args.ProjectID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get project", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"project": raw}), nil
}

// CreateProject provisions a project.
func (h *Handler) CreateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Title          string `json:"title"`
		Region         string `json:"region"`
		DefaultBranch  string `json:"default_branch"`
		OrganizationID string `json:"organization_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.CreateProject(ctx, upsun.CreateProjectRequest{
		Title:         args.Title,
		Region:        args.Region,
		DefaultBranch: args.DefaultBranch,
		Organization:  args.OrganizationID,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to create project", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// DeleteProject deletes a project.
func (h *Handler) DeleteProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	if _, err := h.client.DeleteProject(ctx, args.ProjectID); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to delete project", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"status":  "deleted",
		"project": args.ProjectID,
	}), nil
}
