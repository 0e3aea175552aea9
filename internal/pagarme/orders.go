package pagarme

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// CreateOrder creates an order with its items, customer and payments
func (c *Client) CreateOrder(ctx context.Context, body json.RawMessage) (*Resource, error) {
	var order Resource
	if err := c.do(ctx, "orders.create", http.MethodPost, "/orders", nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder retrieves one order
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Resource, error) {
	var order Resource
	if err := c.do(ctx, "orders.get", http.MethodGet, resourcePath("orders", orderID), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders lists orders, forwarding the gateway's filter parameters
func (c *Client) ListOrders(ctx context.Context, query url.Values) (*List, error) {
	var list List
	if err := c.do(ctx, "orders.list", http.MethodGet, "/orders", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CloseOrder closes an open order with the given final status (paid, canceled or failed)
func (c *Client) CloseOrder(ctx context.Context, orderID, status string) (*Resource, error) {
	body := map[string]string{"status": status}

	var order Resource
	if err := c.do(ctx, "orders.close", http.MethodPatch, resourcePath("orders", orderID, "closed"), nil, body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}
