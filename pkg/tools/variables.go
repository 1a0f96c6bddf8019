package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/upsun/upsun-mcp/pkg/upsun"
)

func registerVariableTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("variable-list",
		mcp.WithDescription("List variables. Project-level by default, environment-level when environment_id is given."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Description("Environment ID for environment-level variables")),
		mcp.WithTitleAnnotation("List variables"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListVariables)

	addTool(s, mcp.NewTool("variable-get",
		mcp.WithDescription("Get one variable by name."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Description("Environment ID for environment-level variables")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name, e.g. env:DATABASE_URL")),
		mcp.WithTitleAnnotation("Get variable"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetVariable)

	addTool(s, mcp.NewTool("variable-create",
		mcp.WithDescription("Create a variable. Prefix the name with env: to expose it to the application environment."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Description("Environment ID for environment-level variables")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Variable value")),
		mcp.WithBoolean("is_json", mcp.Description("Treat the value as JSON")),
		mcp.WithBoolean("is_sensitive", mcp.Description("Hide the value from API reads")),
		mcp.WithBoolean("is_enabled", mcp.Description("Enable the variable (default true)")),
		mcp.WithBoolean("visible_build", mcp.Description("Expose the variable at build time")),
		mcp.WithBoolean("visible_runtime", mcp.Description("Expose the variable at runtime")),
		mcp.WithTitleAnnotation("Create variable"),
	), h.CreateVariable)

	addTool(s, mcp.NewTool("variable-update",
		mcp.WithDescription("Update an existing variable's value or flags."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Description("Environment ID for environment-level variables")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
		mcp.WithBoolean("is_json", mcp.Description("Treat the value as JSON")),
		mcp.WithBoolean("is_sensitive", mcp.Description("Hide the value from API reads")),
		mcp.WithBoolean("is_enabled", mcp.Description("Enable or disable the variable")),
		mcp.WithBoolean("visible_build", mcp.Description("Expose the variable at build time")),
		mcp.WithBoolean("visible_runtime", mcp.Description("Expose the variable at runtime")),
		mcp.WithTitleAnnotation("Update variable"),
	), h.UpdateVariable)

	addTool(s, mcp.NewTool("variable-delete",
		mcp.WithDescription("Delete a variable."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Description("Environment ID for environment-level variables")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Variable name")),
		mcp.WithTitleAnnotation("Delete variable"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.DeleteVariable)
}

type variableArgs struct {
	ProjectID      string `json:"project_id"`
	EnvironmentID  string `json:"environment_id"`
	Name           string `json:"name"`
	Value          string `json:"value"`
	IsJSON         bool   `json:"is_json"`
	IsSensitive    bool   `json:"is_sensitive"`
	IsEnabled      bool   `json:"is_enabled"`
	VisibleBuild   bool   `json:"visible_build"`
	VisibleRuntime bool   `json:"visible_runtime"`
}

func (a variableArgs) request() upsun.VariableRequest {
	return upsun.VariableRequest{
		Name:           a.Name,
		Value:          a.Value,
		IsJSON:         a.IsJSON,
		IsSensitive:    a.IsSensitive,
		IsEnabled:      a.IsEnabled,
		VisibleBuild:   a.VisibleBuild,
		VisibleRuntime: a.VisibleRuntime,
	}
}

// ListVariables lists project- or environment-level variables.
func (h *Handler) ListVariables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args variableArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListVariables(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list variables", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"variables": raw}), nil
}

// GetVariable fetches one variable.
func (h *Handler) GetVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args variableArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetVariable(ctx, args.ProjectID, args.EnvironmentID, args.Name)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get variable", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"variable": raw}), nil
}

// CreateVariable creates a variable.
func (h *Handler) CreateVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args variableArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.CreateVariable(ctx, args.ProjectID, args.EnvironmentID, args.request())
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to create variable", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"variable": raw}), nil
}

// UpdateVariable updates a variable.
func (h *Handler) UpdateVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args variableArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.UpdateVariable(ctx, args.ProjectID, args.EnvironmentID, args.Name, args.request())
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to update variable", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"variable": raw}), nil
}

// DeleteVariable removes a variable.
func (h *Handler) DeleteVariable(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args variableArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	if _, err := h.client.DeleteVariable(ctx, args.ProjectID, args.EnvironmentID, args.Name); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to delete variable", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{
		"status":   "deleted",
		"variable": args.Name,
	}), nil
}
