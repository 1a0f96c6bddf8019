package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListProjectAccess returns the users with access to a project.
func (c *Client) ListProjectAccess(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/access")
}

// AddProjectAccess grants a user access to a project. role is one of
// "admin" or "viewer".
func (c *Client) AddProjectAccess(ctx context.Context, projectID, email, role string) (json.RawMessage, error) {
	if email == "" {
		return nil, fmt.Errorf("user email is required")
	}
	if role == "" {
		role = "viewer"
	}
	body := map[string]string{"email": email, "role": role}
	return c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/access", body)
}

// RemoveProjectAccess revokes a user's access to a project.
func (c *Client) RemoveProjectAccess(ctx context.Context, projectID, userID string) (json.RawMessage, error) {
	return c.delete(ctx, "/projects/"+url.PathEscape(projectID)+"/access/"+url.PathEscape(userID))
}
