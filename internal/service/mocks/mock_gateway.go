package mocks

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/aquiresolve/admin-api/internal/pagarme"
	"github.com/stretchr/testify/mock"
)

// MockGateway is a mock implementation of Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) resource(args mock.Arguments) (*pagarme.Resource, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagarme.Resource), args.Error(1)
}

func (m *MockGateway) list(args mock.Arguments) (*pagarme.List, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pagarme.List), args.Error(1)
}

func (m *MockGateway) CreateOrder(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, body))
}

func (m *MockGateway) GetOrder(ctx context.Context, orderID string) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, orderID))
}

func (m *MockGateway) ListOrders(ctx context.Context, query url.Values) (*pagarme.List, error) {
	return m.list(m.Called(ctx, query))
}

func (m *MockGateway) CloseOrder(ctx context.Context, orderID, status string) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, orderID, status))
}

func (m *MockGateway) GetCharge(ctx context.Context, chargeID string) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, chargeID))
}

func (m *MockGateway) ListCharges(ctx context.Context, query url.Values) (*pagarme.List, error) {
	return m.list(m.Called(ctx, query))
}

func (m *MockGateway) CaptureCharge(ctx context.Context, chargeID string, amount *int64) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, chargeID, amount))
}

func (m *MockGateway) CancelCharge(ctx context.Context, chargeID string, amount *int64) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, chargeID, amount))
}

func (m *MockGateway) CreateSubscription(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, body))
}

func (m *MockGateway) GetSubscription(ctx context.Context, subscriptionID string) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, subscriptionID))
}

func (m *MockGateway) ListSubscriptions(ctx context.Context, query url.Values) (*pagarme.List, error) {
	return m.list(m.Called(ctx, query))
}

func (m *MockGateway) CancelSubscription(ctx context.Context, subscriptionID string, cancelPendingInvoices bool) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, subscriptionID, cancelPendingInvoices))
}

func (m *MockGateway) CreateCustomer(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, body))
}

func (m *MockGateway) GetCustomer(ctx context.Context, customerID string) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, customerID))
}

func (m *MockGateway) ListCustomers(ctx context.Context, query url.Values) (*pagarme.List, error) {
	return m.list(m.Called(ctx, query))
}

func (m *MockGateway) UpdateCustomer(ctx context.Context, customerID string, body json.RawMessage) (*pagarme.Resource, error) {
	return m.resource(m.Called(ctx, customerID, body))
}

func (m *MockGateway) GetRecipientBalance(ctx context.Context, recipientID string) (json.RawMessage, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
