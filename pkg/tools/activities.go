package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerActivityTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("activity-list",
		mcp.WithDescription("List recent activities of a project, newest first."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithNumber("count", mcp.Description("Maximum number of activities to return (default 10)")),
		mcp.WithTitleAnnotation("List activities"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListActivities)

	addTool(s, mcp.NewTool("activity-get",
		mcp.WithDescription("Get one activity with its state, result and timings."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("activity_id", mcp.Required(), mcp.Description("Activity ID")),
		mcp.WithTitleAnnotation("Get activity"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetActivity)

	addTool(s, mcp.NewTool("activity-log",
		mcp.WithDescription("Fetch the build and deploy log of an activity as plain text."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("activity_id", mcp.Required(), mcp.Description("Activity ID")),
		mcp.WithTitleAnnotation("Activity log"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ActivityLog)

	addTool(s, mcp.NewTool("activity-cancel",
		mcp.WithDescription("Cancel a running activity."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("activity_id", mcp.Required(), mcp.Description("Activity ID")),
		mcp.WithTitleAnnotation("Cancel activity"),
	), h.CancelActivity)
}

type activityArgs struct {
	ProjectID  string `json:"project_id"`
	ActivityID string `json:"activity_id"`
}

// ListActivities lists a project's recent activities.
func (h *Handler) ListActivities(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := struct {
		ProjectID string  `json:"project_id"`
		Count     float64 `json:"count"`
	}{Count: 10}
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListActivities(ctx, args.ProjectID, int(args.Count))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list activities", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"activities": raw}), nil
}

// GetActivity fetches one activity.
func (h *Handler) GetActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args activityArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetActivity(ctx, args.ProjectID, args.ActivityID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get activity", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"activity": raw}), nil
}

// ActivityLog fetches an activity's log text.
func (h *Handler) ActivityLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args activityArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	log, err := h.client.ActivityLog(ctx, args.ProjectID, args.ActivityID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to fetch activity log", err), nil
	}
	return mcp.NewToolResultText(log), nil
}

// CancelActivity cancels a running activity.
func (h *Handler) CancelActivity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args activityArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.CancelActivity(ctx, args.ProjectID, args.ActivityID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to cancel activity", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}
