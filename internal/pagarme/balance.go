package pagarme

import (
	"context"
	"encoding/json"
	"net/http"
)

// GetRecipientBalance returns the balance of a split recipient as sent by the gateway
func (c *Client) GetRecipientBalance(ctx context.Context, recipientID string) (json.RawMessage, error) {
	var balance json.RawMessage
	if err := c.do(ctx, "recipients.balance", http.MethodGet, resourcePath("recipients", recipientID, "balance"), nil, nil, &balance); err != nil {
		return nil, err
	}
	return balance, nil
}
