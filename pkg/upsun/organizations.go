package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// CreateOrganizationRequest is the payload for organization creation.
type CreateOrganizationRequest struct {
	Name    string `json:"name"`
	Label   string `json:"label,omitempty"`
	Country string `json:"country,omitempty"`
}

// ListOrganizations returns the organizations the credential belongs to.
func (c *Client) ListOrganizations(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/organizations")
}

// GetOrganization returns one organization.
func (c *Client) GetOrganization(ctx context.Context, organizationID string) (json.RawMessage, error) {
	return c.get(ctx, "/organizations/"+url.PathEscape(organizationID))
}

// CreateOrganization creates a new organization owned by the caller.
func (c *Client) CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (json.RawMessage, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("organization name is required")
	}
	return c.post(ctx, "/organizations", req)
}
