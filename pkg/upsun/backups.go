package upsun

import (
	"context"
	"encoding/json"
	"net/url"
)

// ListBackups returns the backups of an environment.
func (c *Client) ListBackups(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.get(ctx, environmentPath(projectID, environmentID)+"/backups")
}

// GetBackup returns one backup by ID.
func (c *Client) GetBackup(ctx context.Context, projectID, environmentID, backupID string) (json.RawMessage, error) {
	return c.get(ctx, environmentPath(projectID, environmentID)+"/backups/"+url.PathEscape(backupID))
}

// CreateBackup starts a backup of the environment. The returned payload
// carries the tracking activity.
func (c *Client) CreateBackup(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.post(ctx, environmentPath(projectID, environmentID)+"/backup", nil)
}

// RestoreBackup restores a backup into its environment.
func (c *Client) RestoreBackup(ctx context.Context, projectID, environmentID, backupID string) (json.RawMessage, error) {
	return c.post(ctx, environmentPath(projectID, environmentID)+"/backups/"+url.PathEscape(backupID)+"/restore", nil)
}
