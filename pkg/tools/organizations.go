package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/upsun"
)

func registerOrganizationTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("organization-list",
		mcp.WithDescription("List the organizations the current user belongs to."),
		mcp.WithTitleAnnotation("List organizations"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListOrganizations)

	addTool(s, mcp.NewTool("organization-get",
		mcp.WithDescription("Get one organization by ID."),
		mcp.WithString("organization_id", mcp.Required(), mcp.Description("Organization ID, e.g. 01HXYZ...")),
		mcp.WithTitleAnnotation("Get organization"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetOrganization)

	addTool(s, mcp.NewTool("organization-create",
		mcp.WithDescription("Create a new organization owned by the current user."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Machine name, lowercase alphanumeric and dashes")),
		mcp.WithString("label", mcp.Description("Display label (defaults to the name)")),
		mcp.WithString("country", mcp.Description("Two-letter billing country code")),
		mcp.WithTitleAnnotation("Create organization"),
	), h.CreateOrganization)
}

// ListOrganizations lists the user's organizations.
func (h *Handler) ListOrganizations(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListOrganizations(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list organizations", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"organizations": raw}), nil
}

// GetOrganization fetches one organization.
func (h *Handler) GetOrganization(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		OrganizationID string `json:"organization_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetOrganization(ctx, args.OrganizationID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get organization", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"organization": raw}), nil
}

// CreateOrganization creates an organization.
func (h *Handler) CreateOrganization(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		Name    string `json:"name"`
		Label   string `json:"label"`
		Country string `json:"country"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.CreateOrganization(ctx, upsun.CreateOrganizationRequest{
		Name:    args.Name,
		Label:   args.Label,
		Country: args.Country,
	})
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to create organization", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"organization": raw}), nil
}
