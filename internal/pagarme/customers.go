package pagarme

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// CreateCustomer registers a customer
func (c *Client) CreateCustomer(ctx context.Context, body json.RawMessage) (*Resource, error) {
	var customer Resource
	if err := c.do(ctx, "customers.create", http.MethodPost, "/customers", nil, body, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomer retrieves one customer
func (c *Client) GetCustomer(ctx context.Context, customerID string) (*Resource, error) {
	var customer Resource
	if err := c.do(ctx, "customers.get", http.MethodGet, resourcePath("customers", customerID), nil, nil, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListCustomers lists customers, forwarding the gateway's filter parameters
func (c *Client) ListCustomers(ctx context.Context, query url.Values) (*List, error) {
	var list List
	if err := c.do(ctx, "customers.list", http.MethodGet, "/customers", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// UpdateCustomer replaces the editable fields of a customer
func (c *Client) UpdateCustomer(ctx context.Context, customerID string, body json.RawMessage) (*Resource, error) {
	var customer Resource
	if err := c.do(ctx, "customers.update", http.MethodPut, resourcePath("customers", customerID), nil, body, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}
