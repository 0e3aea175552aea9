package mocks

import (
	"context"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPaymentObjectDAO is a mock implementation of PaymentObjectStore
type MockPaymentObjectDAO struct {
	mock.Mock
}

func (m *MockPaymentObjectDAO) Upsert(ctx context.Context, obj *models.PaymentObject) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *MockPaymentObjectDAO) Get(ctx context.Context, objectType models.PaymentObjectType, gatewayID string) (*models.PaymentObject, error) {
	args := m.Called(ctx, objectType, gatewayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentObject), args.Error(1)
}

func (m *MockPaymentObjectDAO) ListByType(ctx context.Context, objectType models.PaymentObjectType) ([]models.PaymentObject, error) {
	args := m.Called(ctx, objectType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentObject), args.Error(1)
}

// MockSyncLogDAO is a mock implementation of SyncLogStore
type MockSyncLogDAO struct {
	mock.Mock
}

func (m *MockSyncLogDAO) Create(ctx context.Context, entry *models.SyncLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockSyncLogDAO) List(ctx context.Context, limit, offset int) ([]models.SyncLog, int, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.SyncLog), args.Int(1), args.Error(2)
}

// MockWalletDAO is a mock implementation of WalletStore
type MockWalletDAO struct {
	mock.Mock
}

func (m *MockWalletDAO) Get(ctx context.Context, providerID string) (*models.ProviderWallet, error) {
	args := m.Called(ctx, providerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProviderWallet), args.Error(1)
}

func (m *MockWalletDAO) RecordMovementWithTx(ctx context.Context, tx *database.Transaction, movement *models.WalletMovement) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

func (m *MockWalletDAO) CreditWithTx(ctx context.Context, tx *database.Transaction, providerID string, amount decimal.Decimal, updatedAt int64) error {
	args := m.Called(ctx, tx, providerID, amount, updatedAt)
	return args.Error(0)
}

func (m *MockWalletDAO) DebitWithTx(ctx context.Context, tx *database.Transaction, providerID string, amount decimal.Decimal, updatedAt int64) error {
	args := m.Called(ctx, tx, providerID, amount, updatedAt)
	return args.Error(0)
}

// MockEventDeduper is a mock implementation of EventDeduper
type MockEventDeduper struct {
	mock.Mock
}

func (m *MockEventDeduper) MarkSeen(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventDeduper) Forget(ctx context.Context, eventID string) error {
	args := m.Called(ctx, eventID)
	return args.Error(0)
}
