package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// CreateIntegrationRequest configures a third-party integration such as
// a git mirror or a health-notification target. Settings carries the
// type-specific fields verbatim.
type CreateIntegrationRequest struct {
	Type     string         `json:"type"`
	Settings map[string]any `json:"-"`
}

// MarshalJSON flattens Settings next to the type field, matching the
// API's integration payload shape.
func (r CreateIntegrationRequest) MarshalJSON() ([]byte, error) {
	merged := make(map[string]any, len(r.Settings)+1)
	for k, v := range r.Settings {
		merged[k] = v
	}
	merged["type"] = r.Type
	return json.Marshal(merged)
}

// ListIntegrations returns the integrations configured on a project.
func (c *Client) ListIntegrations(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/integrations")
}

// GetIntegration returns one integration.
func (c *Client) GetIntegration(ctx context.Context, projectID, integrationID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/integrations/"+url.PathEscape(integrationID))
}

// CreateIntegration adds an integration to a project.
func (c *Client) CreateIntegration(ctx context.Context, projectID string, req CreateIntegrationRequest) (json.RawMessage, error) {
	if req.Type == "" {
		return nil, fmt.Errorf("integration type is required")
	}
	return c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/integrations", req)
}

// DeleteIntegration removes an integration from a project.
func (c *Client) DeleteIntegration(ctx context.Context, projectID, integrationID string) (json.RawMessage, error) {
	return c.delete(ctx, "/projects/"+url.PathEscape(projectID)+"/integrations/"+url.PathEscape(integrationID))
}
