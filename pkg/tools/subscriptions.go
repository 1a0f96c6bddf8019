package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerSubscriptionTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("subscription-list",
		mcp.WithDescription("List the subscriptions the current credential can see, one per project."),
		mcp.WithTitleAnnotation("List subscriptions"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListSubscriptions)

	addTool(s, mcp.NewTool("subscription-get",
		mcp.WithDescription("Get one subscription with its plan and resource limits."),
		mcp.WithString("subscription_id", mcp.Required(), mcp.Description("Subscription ID")),
		mcp.WithTitleAnnotation("Get subscription"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetSubscription)
}

// ListSubscriptions lists the credential's subscriptions.
func (h *Handler) ListSubscriptions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := h.client.ListSubscriptions(ctx)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list subscriptions", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"subscriptions": raw}), nil
}

// GetSubscription fetches one subscription.
func (h *Handler) GetSubscription(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		SubscriptionID string `json:"subscription_id"`
	}{}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetSubscription(ctx, args.SubscriptionID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get subscription", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"subscription": raw}), nil
}
