package mocks

import (
	"context"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockConsentDAO is a mock implementation of ConsentStore
type MockConsentDAO struct {
	mock.Mock
}

func (m *MockConsentDAO) Create(ctx context.Context, consent *models.Consent) error {
	args := m.Called(ctx, consent)
	return args.Error(0)
}

func (m *MockConsentDAO) GetByID(ctx context.Context, consentID string) (*models.Consent, error) {
	args := m.Called(ctx, consentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consent), args.Error(1)
}

func (m *MockConsentDAO) ListByUser(ctx context.Context, userID string) ([]models.Consent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Consent), args.Error(1)
}

func (m *MockConsentDAO) HasActive(ctx context.Context, userID string, consentType models.ConsentType) (bool, error) {
	args := m.Called(ctx, userID, consentType)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsentDAO) GetCurrent(ctx context.Context, userID string, consentType models.ConsentType) (*models.Consent, error) {
	args := m.Called(ctx, userID, consentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Consent), args.Error(1)
}

func (m *MockConsentDAO) Revoke(ctx context.Context, consentID, userID string, revokedAt int64) (bool, error) {
	args := m.Called(ctx, consentID, userID, revokedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockConsentDAO) RevokeAllActiveWithTx(ctx context.Context, tx *database.Transaction, userID string, revokedAt int64) (int64, error) {
	args := m.Called(ctx, tx, userID, revokedAt)
	return args.Get(0).(int64), args.Error(1)
}
