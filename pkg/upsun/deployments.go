package upsun

import (
	"context"
	"encoding/json"
)

// CurrentDeployment returns the environment's current deployment,
// including resolved routes, services, and webapps.
func (c *Client) CurrentDeployment(ctx context.Context, projectID, environmentID string) (json.RawMessage, error) {
	return c.get(ctx, environmentPath(projectID, environmentID)+"/deployments/current")
}
