package pagarme

import (
	"encoding/json"
	"fmt"
)

// Resource is a gateway object kept as the raw JSON the gateway sent,
// plus the handful of fields the local mirror indexes.
type Resource struct {
	ID         string
	Status     string
	Amount     *int64
	CustomerID string
	Metadata   map[string]interface{}
	Raw        json.RawMessage
}

type resourceHead struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   *int64 `json:"amount"`
	Customer *struct {
		ID string `json:"id"`
	} `json:"customer"`
	CustomerID string                 `json:"customer_id"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// UnmarshalJSON keeps the full payload and extracts the indexed fields
func (r *Resource) UnmarshalJSON(data []byte) error {
	var head resourceHead
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("invalid gateway object: %w", err)
	}

	r.ID = head.ID
	r.Status = head.Status
	r.Amount = head.Amount
	r.CustomerID = head.CustomerID
	if head.Customer != nil && head.Customer.ID != "" {
		r.CustomerID = head.Customer.ID
	}
	r.Metadata = head.Metadata
	r.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON writes the payload exactly as received
func (r Resource) MarshalJSON() ([]byte, error) {
	if r.Raw == nil {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

// MetadataString returns a metadata value when it is a non-empty string
func (r *Resource) MetadataString(key string) string {
	if r.Metadata == nil {
		return ""
	}
	if v, ok := r.Metadata[key].(string); ok {
		return v
	}
	return ""
}

// List is a paginated gateway listing
type List struct {
	Data   []Resource      `json:"data"`
	Paging json.RawMessage `json:"paging,omitempty"`
}
