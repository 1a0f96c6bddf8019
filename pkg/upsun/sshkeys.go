package upsun

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListSSHKeys returns the SSH keys attached to the account.
func (c *Client) ListSSHKeys(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/ssh_keys")
}

// AddSSHKey attaches a public SSH key to the account.
func (c *Client) AddSSHKey(ctx context.Context, title, value string) (json.RawMessage, error) {
	if value == "" {
		return nil, fmt.Errorf("ssh key value is required")
	}
	body := map[string]string{"value": value}
	if title != "" {
		body["title"] = title
	}
	return c.post(ctx, "/ssh_keys", body)
}

// DeleteSSHKey removes an SSH key from the account.
func (c *Client) DeleteSSHKey(ctx context.Context, keyID string) (json.RawMessage, error) {
	return c.delete(ctx, "/ssh_keys/"+url.PathEscape(keyID))
}
