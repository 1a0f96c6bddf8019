package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListDomains returns the custom domains attached to a project.
func (c *Client) ListDomains(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/domains")
}

// GetDomain returns one domain by name.
func (c *Client) GetDomain(ctx context.Context, projectID, domain string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/domains/"+url.PathEscape(domain))
}

// AddDomain attaches a custom domain to the project.
func (c *Client) AddDomain(ctx context.Context, projectID, domain string) (json.RawMessage, error) {
	if domain == "" {
		return nil, fmt.Errorf("domain name is required")
	}
	body := map[string]string{"name": domain}
	return c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/domains", body)
}

// DeleteDomain detaches a custom domain from the project.
func (c *Client) DeleteDomain(ctx context.Context, projectID, domain string) (json.RawMessage, error) {
	return c.delete(ctx, "/projects/"+url.PathEscape(projectID)+"/domains/"+url.PathEscape(domain))
}
