package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerDomainTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("domain-list",
		mcp.WithDescription("List the custom domains attached to a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithTitleAnnotation("List domains"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListDomains)

	addTool(s, mcp.NewTool("domain-get",
		mcp.WithDescription("Get one custom domain of a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Domain name, e.g. www.example.com")),
		mcp.WithTitleAnnotation("Get domain"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetDomain)

	addTool(s, mcp.NewTool("domain-add",
		mcp.WithDescription("Attach a custom domain to a project's production environment."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Domain name to attach")),
		mcp.WithTitleAnnotation("Add domain"),
	), h.AddDomain)

	addTool(s, mcp.NewTool("domain-delete",
		mcp.WithDescription("Detach a custom domain from a project."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("domain", mcp.Required(), mcp.Description("Domain name to detach")),
		mcp.WithTitleAnnotation("Delete domain"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.DeleteDomain)
}

type domainArgs struct {
	ProjectID string `json:"project_id"`
	Domain    string `json:"domain"`
}

// ListDomains lists a project's domains.
func (h *Handler) ListDomains(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string `json:"project_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListDomains(ctx, args.ProjectID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list domains", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"domains": raw}), nil
}

// GetDomain fetches one domain.
func (h *Handler) GetDomain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args domainArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetDomain(ctx, args.ProjectID, args.Domain)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get domain", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"domain": raw}), nil
}

// AddDomain attaches a domain.
func (h *Handler) AddDomain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args domainArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.AddDomain(ctx, args.ProjectID, args.Domain)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to add domain", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// DeleteDomain detaches a domain.
func (h *Handler) DeleteDomain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args domainArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	if _, err := h.client.DeleteDomain(ctx, args.ProjectID, args.Domain); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to delete domain", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"status": "deleted",
		"domain": args.Domain,
	}), nil
}
