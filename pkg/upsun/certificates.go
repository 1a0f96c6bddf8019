package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// AddCertificateRequest carries a PEM certificate, its key, and an
// optional intermediate chain.
type AddCertificateRequest struct {
	Certificate string   `json:"certificate"`
	Key         string   `json:"key"`
	Chain       []string `json:"chain,omitempty"`
}

// ListCertificates returns the TLS certificates of a project.
func (c *Client) ListCertificates(ctx context.Context, projectID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/certificates")
}

// GetCertificate returns one certificate by ID.
func (c *Client) GetCertificate(ctx context.Context, projectID, certificateID string) (json.RawMessage, error) {
	return c.get(ctx, "/projects/"+url.PathEscape(projectID)+"/certificates/"+url.PathEscape(certificateID))
}

// AddCertificate uploads a custom TLS certificate.
func (c *Client) AddCertificate(ctx context.Context, projectID string, req AddCertificateRequest) (json.RawMessage, error) {
	if req.Certificate == "" || req.Key == "" {
		return nil, fmt.Errorf("certificate and key are required")
	}
	return c.post(ctx, "/projects/"+url.PathEscape(projectID)+"/certificates", req)
}

// DeleteCertificate removes a custom TLS certificate.
func (c *Client) DeleteCertificate(ctx context.Context, projectID, certificateID string) (json.RawMessage, error) {
	return c.delete(ctx, "/projects/"+url.PathEscape(projectID)+"/certificates/"+url.PathEscape(certificateID))
}
