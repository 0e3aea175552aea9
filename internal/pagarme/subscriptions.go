package pagarme

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// CreateSubscription creates a recurring subscription
func (c *Client) CreateSubscription(ctx context.Context, body json.RawMessage) (*Resource, error) {
	var sub Resource
	if err := c.do(ctx, "subscriptions.create", http.MethodPost, "/subscriptions", nil, body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// GetSubscription retrieves one subscription
func (c *Client) GetSubscription(ctx context.Context, subscriptionID string) (*Resource, error) {
	var sub Resource
	if err := c.do(ctx, "subscriptions.get", http.MethodGet, resourcePath("subscriptions", subscriptionID), nil, nil, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubscriptions lists subscriptions, forwarding the gateway's filter parameters
func (c *Client) ListSubscriptions(ctx context.Context, query url.Values) (*List, error) {
	var list List
	if err := c.do(ctx, "subscriptions.list", http.MethodGet, "/subscriptions", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CancelSubscription cancels a subscription, optionally cancelling its pending invoices
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string, cancelPendingInvoices bool) (*Resource, error) {
	body := map[string]bool{"cancel_pending_invoices": cancelPendingInvoices}

	var sub Resource
	if err := c.do(ctx, "subscriptions.cancel", http.MethodDelete, resourcePath("subscriptions", subscriptionID), nil, body, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}
