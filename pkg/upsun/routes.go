package upsun

import (
	"context"
	"encoding/json"
	"net/url"
)

// ListRoutes returns the configured routes of an environment.
func (c *Client) ListRoutes(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.get(ctx, environmentPath(projectID, environmentID)+"/routes")
}

// GetRoute returns one route by ID.
func (c *Client) GetRoute(ctx context.Context, projectID, environmentID, routeID string) (json.RawMessage, error) {
	return c.get(ctx, environmentPath(projectID, environmentID)+"/routes/"+url.PathEscape(routeID))
}
