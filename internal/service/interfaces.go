package service

import (
	"context"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/shopspring/decimal"
)

// TxRunner runs a function inside a database transaction. *database.DB implements it.
type TxRunner interface {
	WithTransaction(ctx context.Context, operation string, fn func(*database.Transaction) error) error
}

// ConsentStore is the persistence contract of the consent ledger
type ConsentStore interface {
	Create(ctx context.Context, consent *models.Consent) error
	GetByID(ctx context.Context, consentID string) (*models.Consent, error)
	ListByUser(ctx context.Context, userID string) ([]models.Consent, error)
	HasActive(ctx context.Context, userID string, consentType models.ConsentType) (bool, error)
	GetCurrent(ctx context.Context, userID string, consentType models.ConsentType) (*models.Consent, error)
	Revoke(ctx context.Context, consentID, userID string, revokedAt int64) (bool, error)
	RevokeAllActiveWithTx(ctx context.Context, tx *database.Transaction, userID string, revokedAt int64) (int64, error)
}

// ProcessingLogStore is the persistence contract of the processing activity log
type ProcessingLogStore interface {
	Create(ctx context.Context, entry *models.DataProcessingLog) error
	ListByUser(ctx context.Context, userID string) ([]models.DataProcessingLog, error)
}

// DataRequestStore is the persistence contract of the data-subject request tracker
type DataRequestStore interface {
	Create(ctx context.Context, req *models.DataSubjectRequest) error
	GetByID(ctx context.Context, requestID string) (*models.DataSubjectRequest, error)
	GetByIDWithTx(ctx context.Context, tx *database.Transaction, requestID string) (*models.DataSubjectRequest, error)
	ListByUser(ctx context.Context, userID string) ([]models.DataSubjectRequest, error)
	List(ctx context.Context, status models.RequestStatus, limit, offset int) ([]models.DataSubjectRequest, int, error)
	UpdateStatus(ctx context.Context, req *models.DataSubjectRequest, from models.RequestStatus) (bool, error)
	UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, req *models.DataSubjectRequest, from models.RequestStatus) (bool, error)
}

// RetentionPolicyStore reads the retention policy table
type RetentionPolicyStore interface {
	List(ctx context.Context) ([]models.DataRetentionPolicy, error)
	GetByDataType(ctx context.Context, dataType string) (*models.DataRetentionPolicy, error)
}

// UserStore is the subset of user persistence the LGPD workflows need
type UserStore interface {
	GetByID(ctx context.Context, userID string) (*models.User, error)
	AnonymizeWithTx(ctx context.Context, tx *database.Transaction, userID, placeholderEmail string, anonymizedAt int64) error
}

// OrderStore is the subset of order persistence the LGPD workflows need
type OrderStore interface {
	ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error)
	AnonymizeByCustomerWithTx(ctx context.Context, tx *database.Transaction, customerID string, anonymizedAt int64) (int64, error)
}

// PaymentObjectStore keeps mirrored gateway objects
type PaymentObjectStore interface {
	Upsert(ctx context.Context, obj *models.PaymentObject) error
	Get(ctx context.Context, objectType models.PaymentObjectType, gatewayID string) (*models.PaymentObject, error)
	ListByType(ctx context.Context, objectType models.PaymentObjectType) ([]models.PaymentObject, error)
}

// SyncLogStore records gateway sync outcomes
type SyncLogStore interface {
	Create(ctx context.Context, entry *models.SyncLog) error
	List(ctx context.Context, limit, offset int) ([]models.SyncLog, int, error)
}

// WalletStore changes provider wallet balances. A movement and the balance
// change it causes are written in the same transaction.
type WalletStore interface {
	Get(ctx context.Context, providerID string) (*models.ProviderWallet, error)
	RecordMovementWithTx(ctx context.Context, tx *database.Transaction, movement *models.WalletMovement) error
	CreditWithTx(ctx context.Context, tx *database.Transaction, providerID string, amount decimal.Decimal, updatedAt int64) error
	DebitWithTx(ctx context.Context, tx *database.Transaction, providerID string, amount decimal.Decimal, updatedAt int64) error
}
