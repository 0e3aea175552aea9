package models

import "github.com/shopspring/decimal"

// PaymentObjectType names the gateway resource a mirror row holds
type PaymentObjectType string

const (
	ObjectOrder        PaymentObjectType = "order"
	ObjectCharge       PaymentObjectType = "charge"
	ObjectSubscription PaymentObjectType = "subscription"
	ObjectCustomer     PaymentObjectType = "customer"
)

// IsValid reports whether t is a mirrored object type
func (t PaymentObjectType) IsValid() bool {
	switch t {
	case ObjectOrder, ObjectCharge, ObjectSubscription, ObjectCustomer:
		return true
	}
	return false
}

// PaymentObject represents the PAGARME_OBJECT table, a local mirror of
// gateway objects keyed by (object type, gateway id)
type PaymentObject struct {
	ObjectType  PaymentObjectType `db:"OBJECT_TYPE" json:"objectType"`
	GatewayID   string            `db:"GATEWAY_ID" json:"gatewayId"`
	Status      *string           `db:"STATUS" json:"status,omitempty"`
	AmountCents *int64            `db:"AMOUNT_CENTS" json:"amountCents,omitempty"`
	CustomerID  *string           `db:"CUSTOMER_ID" json:"customerId,omitempty"`
	Payload     JSON              `db:"PAYLOAD" json:"payload"`
	SyncedAt    int64             `db:"SYNCED_AT" json:"syncedAt"`
}

// SyncSource tells whether a mirror write came from a webhook or an API call
type SyncSource string

const (
	SyncSourceWebhook SyncSource = "webhook"
	SyncSourceAPI     SyncSource = "api"
)

// SyncStatus is the outcome recorded for one sync attempt
type SyncStatus string

const (
	SyncProcessed SyncStatus = "processed"
	SyncIgnored   SyncStatus = "ignored"
	SyncDuplicate SyncStatus = "duplicate"
	SyncFailed    SyncStatus = "failed"
	SyncRejected  SyncStatus = "rejected"
)

// SyncLog represents the PAGARME_SYNC_LOG table
type SyncLog struct {
	ID         string             `db:"SYNC_ID" json:"id"`
	Source     SyncSource         `db:"SOURCE" json:"source"`
	EventID    *string            `db:"EVENT_ID" json:"eventId,omitempty"`
	EventType  string             `db:"EVENT_TYPE" json:"eventType"`
	ObjectType *PaymentObjectType `db:"OBJECT_TYPE" json:"objectType,omitempty"`
	ObjectID   *string            `db:"OBJECT_ID" json:"objectId,omitempty"`
	Status     SyncStatus         `db:"STATUS" json:"status"`
	Error      *string            `db:"ERROR_MESSAGE" json:"error,omitempty"`
	Payload    JSON               `db:"PAYLOAD" json:"payload,omitempty"`
	CreatedAt  int64              `db:"CREATED_TIME" json:"createdAt"`
}

// ProviderWallet represents the PROVIDER_WALLET table
type ProviderWallet struct {
	ProviderID string          `db:"PROVIDER_ID" json:"providerId"`
	Balance    decimal.Decimal `db:"BALANCE" json:"balance"`
	UpdatedAt  int64           `db:"UPDATED_TIME" json:"updatedAt"`
}

// Wallet movement directions
const (
	WalletCredit = "credit"
	WalletDebit  = "debit"
)

// WalletMovement represents the PROVIDER_WALLET_MOVEMENT table, one row per
// webhook event that changed a wallet
type WalletMovement struct {
	EventID    string          `db:"EVENT_ID" json:"eventId"`
	ProviderID string          `db:"PROVIDER_ID" json:"providerId"`
	ChargeID   *string         `db:"CHARGE_ID" json:"chargeId,omitempty"`
	Direction  string          `db:"DIRECTION" json:"direction"`
	Amount     decimal.Decimal `db:"AMOUNT" json:"amount"`
	CreatedAt  int64           `db:"CREATED_TIME" json:"createdAt"`
}

// OrderStatusSummary is one bucket of the payment analytics aggregation
type OrderStatusSummary struct {
	Status string          `json:"status"`
	Count  int             `json:"count"`
	Total  decimal.Decimal `json:"total"`
}

// PaymentAnalytics summarizes mirrored gateway orders
type PaymentAnalytics struct {
	TotalOrders   int                  `json:"totalOrders"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	PaidAmount    decimal.Decimal      `json:"paidAmount"`
	AverageTicket decimal.Decimal      `json:"averageTicket"`
	ByStatus      []OrderStatusSummary `json:"byStatus"`
}
