package mocks

import (
	"context"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockProcessingLogDAO is a mock implementation of ProcessingLogStore
type MockProcessingLogDAO struct {
	mock.Mock
}

func (m *MockProcessingLogDAO) Create(ctx context.Context, entry *models.DataProcessingLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockProcessingLogDAO) ListByUser(ctx context.Context, userID string) ([]models.DataProcessingLog, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DataProcessingLog), args.Error(1)
}

// MockDataRequestDAO is a mock implementation of DataRequestStore
type MockDataRequestDAO struct {
	mock.Mock
}

func (m *MockDataRequestDAO) Create(ctx context.Context, req *models.DataSubjectRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockDataRequestDAO) GetByID(ctx context.Context, requestID string) (*models.DataSubjectRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DataSubjectRequest), args.Error(1)
}

func (m *MockDataRequestDAO) GetByIDWithTx(ctx context.Context, tx *database.Transaction, requestID string) (*models.DataSubjectRequest, error) {
	args := m.Called(ctx, tx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DataSubjectRequest), args.Error(1)
}

func (m *MockDataRequestDAO) ListByUser(ctx context.Context, userID string) ([]models.DataSubjectRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DataSubjectRequest), args.Error(1)
}

func (m *MockDataRequestDAO) List(ctx context.Context, status models.RequestStatus, limit, offset int) ([]models.DataSubjectRequest, int, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.DataSubjectRequest), args.Int(1), args.Error(2)
}

func (m *MockDataRequestDAO) UpdateStatus(ctx context.Context, req *models.DataSubjectRequest, from models.RequestStatus) (bool, error) {
	args := m.Called(ctx, req, from)
	return args.Bool(0), args.Error(1)
}

func (m *MockDataRequestDAO) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, req *models.DataSubjectRequest, from models.RequestStatus) (bool, error) {
	args := m.Called(ctx, tx, req, from)
	return args.Bool(0), args.Error(1)
}

// MockRetentionPolicyDAO is a mock implementation of RetentionPolicyStore
type MockRetentionPolicyDAO struct {
	mock.Mock
}

func (m *MockRetentionPolicyDAO) List(ctx context.Context) ([]models.DataRetentionPolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DataRetentionPolicy), args.Error(1)
}

func (m *MockRetentionPolicyDAO) GetByDataType(ctx context.Context, dataType string) (*models.DataRetentionPolicy, error) {
	args := m.Called(ctx, dataType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DataRetentionPolicy), args.Error(1)
}

// MockUserDAO is a mock implementation of UserStore
type MockUserDAO struct {
	mock.Mock
}

func (m *MockUserDAO) GetByID(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserDAO) AnonymizeWithTx(ctx context.Context, tx *database.Transaction, userID, placeholderEmail string, anonymizedAt int64) error {
	args := m.Called(ctx, tx, userID, placeholderEmail, anonymizedAt)
	return args.Error(0)
}

// MockOrderDAO is a mock implementation of OrderStore
type MockOrderDAO struct {
	mock.Mock
}

func (m *MockOrderDAO) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *MockOrderDAO) AnonymizeByCustomerWithTx(ctx context.Context, tx *database.Transaction, customerID string, anonymizedAt int64) (int64, error) {
	args := m.Called(ctx, tx, customerID, anonymizedAt)
	return args.Get(0).(int64), args.Error(1)
}

// MockTxRunner runs the callback with a nil transaction and returns what it returns
type MockTxRunner struct {
	Calls      int
	Operations []string
}

func (m *MockTxRunner) WithTransaction(ctx context.Context, operation string, fn func(*database.Transaction) error) error {
	m.Calls++
	m.Operations = append(m.Operations, operation)
	return fn(nil)
}
