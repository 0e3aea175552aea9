package pagarme

import (
	"context"
	"net/http"
	"net/url"
)

type amountRequest struct {
	Amount *int64 `json:"amount,omitempty"`
}

// GetCharge retrieves one charge
func (c *Client) GetCharge(ctx context.Context, chargeID string) (*Resource, error) {
	var charge Resource
	if err := c.do(ctx, "charges.get", http.MethodGet, resourcePath("charges", chargeID), nil, nil, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

// ListCharges lists charges, forwarding the gateway's filter parameters
func (c *Client) ListCharges(ctx context.Context, query url.Values) (*List, error) {
	var list List
	if err := c.do(ctx, "charges.list", http.MethodGet, "/charges", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CaptureCharge captures a pre-authorized charge, fully when amount is nil
func (c *Client) CaptureCharge(ctx context.Context, chargeID string, amount *int64) (*Resource, error) {
	var charge Resource
	if err := c.do(ctx, "charges.capture", http.MethodPost, resourcePath("charges", chargeID, "capture"), nil, amountRequest{Amount: amount}, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}

// CancelCharge cancels or refunds a charge, fully when amount is nil
func (c *Client) CancelCharge(ctx context.Context, chargeID string, amount *int64) (*Resource, error) {
	var charge Resource
	if err := c.do(ctx, "charges.cancel", http.MethodDelete, resourcePath("charges", chargeID), nil, amountRequest{Amount: amount}, &charge); err != nil {
		return nil, err
	}
	return &charge, nil
}
