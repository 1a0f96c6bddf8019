package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerBackupTools(s *server.MCPServer, h *Handler) {
	addTool(s, mcp.NewTool("backup-list",
		mcp.WithDescription("List the backups of an environment."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("List backups"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.ListBackups)

	addTool(s, mcp.NewTool("backup-get",
		mcp.WithDescription("Get one backup of an environment."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithString("backup_id", mcp.Required(), mcp.Description("Backup ID")),
		mcp.WithTitleAnnotation("Get backup"),
		mcp.WithReadOnlyHintAnnotation(true),
	), h.GetBackup)

	addTool(s, mcp.NewTool("backup-create",
		mcp.WithDescription("Start a backup of an environment. The backup runs as an asynchronous activity."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithTitleAnnotation("Create backup"),
	), h.CreateBackup)

	addTool(s, mcp.NewTool("backup-restore",
		mcp.WithDescription("Restore a backup onto its environment. Data written since the backup is lost."),
		mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID")),
		mcp.WithString("environment_id", mcp.Required(), mcp.Description("Environment ID")),
		mcp.WithString("backup_id", mcp.Required(), mcp.Description("Backup ID to restore")),
		mcp.WithTitleAnnotation("Restore backup"),
		mcp.WithDestructiveHintAnnotation(true),
	), h.RestoreBackup)
}

type backupArgs struct {
	ProjectID     string `json:"project_id"`
	EnvironmentID string `json:"environment_id"`
	BackupID      string `json:"backup_id"`
}

// ListBackups lists an environment's backups.
func (h *Handler) ListBackups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args backupArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.ListBackups(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to list backups", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"backups": raw}), nil
}

// GetBackup fetches one backup.
func (h *Handler) GetBackup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args backupArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.GetBackup(ctx, args.ProjectID, args.EnvironmentID, args.BackupID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to get backup", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"backup": raw}), nil
}

// CreateBackup starts a backup.
func (h *Handler) CreateBackup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args backupArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.CreateBackup(ctx, args.ProjectID, args.EnvironmentID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to create backup", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}

// RestoreBackup restores a backup in place.
func (h *Handler) RestoreBackup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args backupArgs
	if err := request.BindArguments(&args); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to parse arguments", err), nil
	}

	raw, err := h.client.RestoreBackup(ctx, args.ProjectID, args.EnvironmentID, args.BackupID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to restore backup", err), nil
	}
	return mcp.NewToolResultStructuredOnly(map[string]any{"result": raw}), nil
}
