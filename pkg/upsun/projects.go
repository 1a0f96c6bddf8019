package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// CreateProjectRequest is the payload for project provisioning.
type CreateProjectRequest struct {
	Title         string `json:"title"`
	Region        string `json:"region"`
	DefaultBranch string `json:"default_branch,omitempty"`
	Organization  string `json:"organization_id,omitempty"`
}

// ListProjects returns every project the credential can see.
func (c *Client) ListProjects(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/projects")
}

// GetProject returns one project by ID.
func (c *Client) GetProject(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID))
}

// CreateProject provisions a new project. Provisioning is asynchronous;
// the returned payload carries the tracking activity.
func (c *Client) CreateProject(ctx context.Context, req CreateProjectRequest) (json.RawMessage, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("project title is required")
	}
	if req.Region == "" {
		return nil, fmt.Errorf("project region is required")
	}
	return c.post(ctx, "/projects", req)
}

// DeleteProject deletes a project and its subscription.
func (c *Client) DeleteProject(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.delete(ctx, "/projects/"+url.PathEscape(projectID))
}
