package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/internal/pagarme"
	"github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Gateway is the payment gateway API the proxy forwards to. *pagarme.Client implements it.
type Gateway interface {
	CreateOrder(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error)
	GetOrder(ctx context.Context, orderID string) (*pagarme.Resource, error)
	ListOrders(ctx context.Context, query url.Values) (*pagarme.List, error)
	CloseOrder(ctx context.Context, orderID, status string) (*pagarme.Resource, error)

	GetCharge(ctx context.Context, chargeID string) (*pagarme.Resource, error)
	ListCharges(ctx context.Context, query url.Values) (*pagarme.List, error)
	CaptureCharge(ctx context.Context, chargeID string, amount *int64) (*pagarme.Resource, error)
	CancelCharge(ctx context.Context, chargeID string, amount *int64) (*pagarme.Resource, error)

	CreateSubscription(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error)
	GetSubscription(ctx context.Context, subscriptionID string) (*pagarme.Resource, error)
	ListSubscriptions(ctx context.Context, query url.Values) (*pagarme.List, error)
	CancelSubscription(ctx context.Context, subscriptionID string, cancelPendingInvoices bool) (*pagarme.Resource, error)

	CreateCustomer(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error)
	GetCustomer(ctx context.Context, customerID string) (*pagarme.Resource, error)
	ListCustomers(ctx context.Context, query url.Values) (*pagarme.List, error)
	UpdateCustomer(ctx context.Context, customerID string, body json.RawMessage) (*pagarme.Resource, error)

	GetRecipientBalance(ctx context.Context, recipientID string) (json.RawMessage, error)
}

// Order close statuses accepted by the gateway
var closeOrderStatuses = map[string]bool{"paid": true, "canceled": true, "failed": true}

// PaymentService forwards gateway operations and mirrors what comes back
type PaymentService struct {
	gateway  Gateway
	mirror   PaymentObjectStore
	syncLogs SyncLogStore
	logger   *logrus.Logger
}

// NewPaymentService creates a new payment service instance
func NewPaymentService(gateway Gateway, mirror PaymentObjectStore, syncLogs SyncLogStore, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		gateway:  gateway,
		mirror:   mirror,
		syncLogs: syncLogs,
		logger:   logger,
	}
}

// CreateOrder creates an order on the gateway
func (s *PaymentService) CreateOrder(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error) {
	if err := requireJSONObject(body, "items"); err != nil {
		return nil, err
	}
	order, err := s.gateway.CreateOrder(ctx, body)
	if err != nil {
		return nil, err
	}
	s.mirrorMutation(ctx, models.ObjectOrder, "order.created", order)
	return order, nil
}

// GetOrder fetches an order from the gateway
func (s *PaymentService) GetOrder(ctx context.Context, orderID string) (*pagarme.Resource, error) {
	if err := utils.ValidateID("orderId", orderID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	order, err := s.gateway.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.mirrorObject(ctx, models.ObjectOrder, order)
	return order, nil
}

// ListOrders lists gateway orders
func (s *PaymentService) ListOrders(ctx context.Context, query url.Values) (*pagarme.List, error) {
	list, err := s.gateway.ListOrders(ctx, query)
	if err != nil {
		return nil, err
	}
	s.mirrorList(ctx, models.ObjectOrder, list)
	return list, nil
}

// CloseOrder closes an order as paid, canceled or failed
func (s *PaymentService) CloseOrder(ctx context.Context, orderID, status string) (*pagarme.Resource, error) {
	if err := utils.ValidateID("orderId", orderID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	if !closeOrderStatuses[status] {
		return nil, validationErrorf("invalid close status: %s", status)
	}
	order, err := s.gateway.CloseOrder(ctx, orderID, status)
	if err != nil {
		return nil, err
	}
	s.mirrorMutation(ctx, models.ObjectOrder, "order.closed", order)
	return order, nil
}

// GetCharge fetches a charge from the gateway
func (s *PaymentService) GetCharge(ctx context.Context, chargeID string) (*pagarme.Resource, error) {
	if err := utils.ValidateID("chargeId", chargeID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	charge, err := s.gateway.GetCharge(ctx, chargeID)
	if err != nil {
		return nil, err
	}
	s.mirrorObject(ctx, models.ObjectCharge, charge)
	return charge, nil
}

// ListCharges lists gateway charges
func (s *PaymentService) ListCharges(ctx context.Context, query url.Values) (*pagarme.List, error) {
	list, err := s.gateway.ListCharges(ctx, query)
	if err != nil {
		return nil, err
	}
	s.mirrorList(ctx, models.ObjectCharge, list)
	return list, nil
}

// CaptureCharge captures a pre-authorized charge
func (s *PaymentService) CaptureCharge(ctx context.Context, chargeID string, amount *int64) (*pagarme.Resource, error) {
	if err := validateChargeAmount(chargeID, amount); err != nil {
		return nil, err
	}
	charge, err := s.gateway.CaptureCharge(ctx, chargeID, amount)
	if err != nil {
		return nil, err
	}
	s.mirrorMutation(ctx, models.ObjectCharge, "charge.captured", charge)
	return charge, nil
}

// CancelCharge cancels or refunds a charge
func (s *PaymentService) CancelCharge(ctx context.Context, chargeID string, amount *int64) (*pagarme.Resource, error) {
	if err := validateChargeAmount(chargeID, amount); err != nil {
		return nil, err
	}
	charge, err := s.gateway.CancelCharge(ctx, chargeID, amount)
	if err != nil {
		return nil, err
	}
	s.mirrorMutation(ctx, models.ObjectCharge, "charge.canceled", charge)
	return charge, nil
}

// CreateSubscription creates a subscription on the gateway
func (s *PaymentService) CreateSubscription(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error) {
	if err := requireJSONObject(body); err != nil {
		return nil, err
	}
	sub, err := s.gateway.CreateSubscription(ctx, body)
	if err != nil {
		return nil, err
	}
	s.mirrorMutation(ctx, models.ObjectSubscription, "subscription.created", sub)
	return sub, nil
}

// GetSubscription fetches a subscription from the gateway
func (s *PaymentService) GetSubscription(ctx context.Context, subscriptionID string) (*pagarme.Resource, error) {
	if err := utils.ValidateID("subscriptionId", subscriptionID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	sub, err := s.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	s.mirrorObject(ctx, models.ObjectSubscription, sub)
	return sub, nil
}

// ListSubscriptions lists gateway subscriptions
func (s *PaymentService) ListSubscriptions(ctx context.Context, query url.Values) (*pagarme.List, error) {
	list, err := s.gateway.ListSubscriptions(ctx, query)
	if err != nil {
		return nil, err
	}
	s.mirrorList(ctx, models.ObjectSubscription, list)
	return list, nil
}

// CancelSubscription cancels a subscription
func (s *PaymentService) CancelSubscription(ctx context.Context, subscriptionID string, cancelPendingInvoices bool) (*pagarme.Resource, error) {
	if err := utils.ValidateID("subscriptionId", subscriptionID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	sub, err := s.gateway.CancelSubscription(ctx, subscriptionID, cancelPendingInvoices)
	if err != nil {
		return nil, err
	}
	s.mirrorMutation(ctx, models.ObjectSubscription, "subscription.canceled", sub)
	return sub, nil
}

// CreateCustomer registers a customer on the gateway
func (s *PaymentService) CreateCustomer(ctx context.Context, body json.RawMessage) (*pagarme.Resource, error) {
	if err := requireJSONObject(body, "name"); err != nil {
		return nil, err
	}
	customer, err := s.gateway.CreateCustomer(ctx, body)
	if err != nil {
		return nil, err
	}
	s.mirrorMutation(ctx, models.ObjectCustomer, "customer.created", customer)
	return customer, nil
}

// GetCustomer fetches a customer from the gateway
func (s *PaymentService) GetCustomer(ctx context.Context, customerID string) (*pagarme.Resource, error) {
	if err := utils.ValidateID("customerId", customerID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	customer, err := s.gateway.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	s.mirrorObject(ctx, models.ObjectCustomer, customer)
	return customer, nil
}

// ListCustomers lists gateway customers
func (s *PaymentService) ListCustomers(ctx context.Context, query url.Values) (*pagarme.List, error) {
	list, err := s.gateway.ListCustomers(ctx, query)
	if err != nil {
		return nil, err
	}
	s.mirrorList(ctx, models.ObjectCustomer, list)
	return list, nil
}

// UpdateCustomer updates a customer on the gateway
func (s *PaymentService) UpdateCustomer(ctx context.Context, customerID string, body json.RawMessage) (*pagarme.Resource, error) {
	if err := utils.ValidateID("customerId", customerID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	if err := requireJSONObject(body); err != nil {
		return nil, err
	}
	customer, err := s.gateway.UpdateCustomer(ctx, customerID, body)
	if err != nil {
		return nil, err
	}
	s.mirrorMutation(ctx, models.ObjectCustomer, "customer.updated", customer)
	return customer, nil
}

// GetRecipientBalance returns a recipient balance straight from the gateway
func (s *PaymentService) GetRecipientBalance(ctx context.Context, recipientID string) (json.RawMessage, error) {
	if err := utils.ValidateID("recipientId", recipientID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	return s.gateway.GetRecipientBalance(ctx, recipientID)
}

// GetAnalytics aggregates the mirrored orders by status
func (s *PaymentService) GetAnalytics(ctx context.Context) (*models.PaymentAnalytics, error) {
	orders, err := s.mirror.ListByType(ctx, models.ObjectOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to load mirrored orders: %w", err)
	}
	return summarizeOrders(orders), nil
}

// ListSyncLogs returns a page of the gateway sync log
func (s *PaymentService) ListSyncLogs(ctx context.Context, limit, offset int) ([]models.SyncLog, int, error) {
	entries, total, err := s.syncLogs.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sync logs: %w", err)
	}
	return entries, total, nil
}

func summarizeOrders(orders []models.PaymentObject) *models.PaymentAnalytics {
	analytics := &models.PaymentAnalytics{
		TotalAmount:   decimal.Zero,
		PaidAmount:    decimal.Zero,
		AverageTicket: decimal.Zero,
		ByStatus:      []models.OrderStatusSummary{},
	}

	buckets := map[string]*models.OrderStatusSummary{}
	for _, order := range orders {
		status := "unknown"
		if order.Status != nil && *order.Status != "" {
			status = *order.Status
		}
		amount := decimal.Zero
		if order.AmountCents != nil {
			amount = centsToBRL(*order.AmountCents)
		}

		bucket, ok := buckets[status]
		if !ok {
			bucket = &models.OrderStatusSummary{Status: status, Total: decimal.Zero}
			buckets[status] = bucket
		}
		bucket.Count++
		bucket.Total = bucket.Total.Add(amount)

		analytics.TotalOrders++
		analytics.TotalAmount = analytics.TotalAmount.Add(amount)
		if status == "paid" {
			analytics.PaidAmount = analytics.PaidAmount.Add(amount)
		}
	}

	if analytics.TotalOrders > 0 {
		analytics.AverageTicket = analytics.TotalAmount.
			Div(decimal.NewFromInt(int64(analytics.TotalOrders))).
			Round(2)
	}

	for _, bucket := range buckets {
		analytics.ByStatus = append(analytics.ByStatus, *bucket)
	}
	sort.Slice(analytics.ByStatus, func(i, j int) bool {
		return analytics.ByStatus[i].Status < analytics.ByStatus[j].Status
	})

	return analytics
}

func centsToBRL(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// mirrorObject upserts a gateway object locally. Failures are logged only.
func (s *PaymentService) mirrorObject(ctx context.Context, objectType models.PaymentObjectType, res *pagarme.Resource) error {
	obj := toPaymentObject(objectType, res)
	if obj == nil {
		return nil
	}
	if err := s.mirror.Upsert(ctx, obj); err != nil {
		s.logger.WithFields(logrus.Fields{
			"object_type": objectType,
			"gateway_id":  res.ID,
		}).WithError(err).Warn("Failed to mirror payment object")
		return err
	}
	return nil
}

func (s *PaymentService) mirrorList(ctx context.Context, objectType models.PaymentObjectType, list *pagarme.List) {
	for i := range list.Data {
		_ = s.mirrorObject(ctx, objectType, &list.Data[i])
	}
}

// mirrorMutation mirrors the result of a write and records it in the sync log
func (s *PaymentService) mirrorMutation(ctx context.Context, objectType models.PaymentObjectType, eventType string, res *pagarme.Resource) {
	status := models.SyncProcessed
	var errMsg *string
	if err := s.mirrorObject(ctx, objectType, res); err != nil {
		status = models.SyncFailed
		msg := err.Error()
		errMsg = &msg
	}

	objectID := res.ID
	entry := &models.SyncLog{
		ID:         utils.GenerateSyncLogID(),
		Source:     models.SyncSourceAPI,
		EventType:  eventType,
		ObjectType: &objectType,
		ObjectID:   &objectID,
		Status:     status,
		Error:      errMsg,
		CreatedAt:  utils.GetCurrentTimeMillis(),
	}
	if err := s.syncLogs.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("event_type", eventType).Warn("Failed to record sync log")
	}
}

func toPaymentObject(objectType models.PaymentObjectType, res *pagarme.Resource) *models.PaymentObject {
	if res == nil || res.ID == "" || res.Raw == nil {
		return nil
	}

	obj := &models.PaymentObject{
		ObjectType:  objectType,
		GatewayID:   res.ID,
		AmountCents: res.Amount,
		Payload:     models.JSON(res.Raw),
		SyncedAt:    utils.GetCurrentTimeMillis(),
	}
	if res.Status != "" {
		status := res.Status
		obj.Status = &status
	}
	if res.CustomerID != "" {
		customerID := res.CustomerID
		obj.CustomerID = &customerID
	}
	return obj
}

// requireJSONObject checks the body is a JSON object carrying the given keys
func requireJSONObject(body json.RawMessage, keys ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return validationErrorf("request body must be a JSON object")
	}
	for _, key := range keys {
		if v, ok := fields[key]; !ok || string(v) == "null" {
			return validationErrorf("%s is required", key)
		}
	}
	return nil
}

func validateChargeAmount(chargeID string, amount *int64) error {
	if err := utils.ValidateID("chargeId", chargeID); err != nil {
		return validationErrorf("%v", err)
	}
	if amount != nil && *amount <= 0 {
		return validationErrorf("amount must be a positive number of cents")
	}
	return nil
}
