package upsun

import (
	"context"
	"encoding/json"
	"net/url"
)

// ListSubscriptions returns the subscriptions the credential can see.
func (c *Client) ListSubscriptions(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/subscriptions")
}

// GetSubscription returns one subscription.
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (json.RawMessage, error) {
	return c.get(ctx, "/subscriptions/"+url.PathEscape(subscriptionID))
}
