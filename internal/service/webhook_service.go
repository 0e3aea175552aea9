package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/dao"
	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/internal/pagarme"
	"github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// EventDeduper remembers webhook event ids. *cache.EventDeduper implements it.
type EventDeduper interface {
	MarkSeen(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// Wallet-affecting event types
const (
	EventChargePaid     = "charge.paid"
	EventChargeRefunded = "charge.refunded"

	providerIDMetadataKey = "provider_id"
	unknownEventType      = "unknown"
)

// WebhookResult reports how one delivery was handled
type WebhookResult struct {
	Status    models.SyncStatus `json:"status"`
	EventID   string            `json:"eventId,omitempty"`
	EventType string            `json:"eventType"`
}

// WebhookService applies gateway webhook deliveries to the local mirror
type WebhookService struct {
	mirror   PaymentObjectStore
	syncLogs SyncLogStore
	wallets  WalletStore
	tx       TxRunner
	deduper  EventDeduper
	secret   string
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

// NewWebhookService creates a new webhook service instance. A nil deduper
// only skips the fast redis check: wallet movements stay unique per event in
// the database. An empty secret disables signature checks.
func NewWebhookService(
	mirror PaymentObjectStore,
	syncLogs SyncLogStore,
	wallets WalletStore,
	tx TxRunner,
	deduper EventDeduper,
	secret string,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *WebhookService {
	return &WebhookService{
		mirror:   mirror,
		syncLogs: syncLogs,
		wallets:  wallets,
		tx:       tx,
		deduper:  deduper,
		secret:   secret,
		metrics:  m,
		logger:   logger,
	}
}

// HandleWebhook processes one delivery and writes exactly one sync log
// entry for it. It never returns an error: the outcome is in the result.
func (s *WebhookService) HandleWebhook(ctx context.Context, body []byte, signature string) *WebhookResult {
	entry := &models.SyncLog{
		ID:        utils.GenerateSyncLogID(),
		Source:    models.SyncSourceWebhook,
		EventType: unknownEventType,
		CreatedAt: utils.GetCurrentTimeMillis(),
	}
	if json.Valid(body) {
		entry.Payload = models.JSON(append([]byte(nil), body...))
	}

	event, parseErr := pagarme.ParseEvent(body)
	if event != nil {
		entry.EventType = event.Type
		if event.ID != "" {
			id := event.ID
			entry.EventID = &id
		}
	}

	status, err := s.process(ctx, event, parseErr, body, signature, entry)
	entry.Status = status
	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	}

	s.record(ctx, entry)

	result := &WebhookResult{Status: status, EventType: entry.EventType}
	if event != nil {
		result.EventID = event.ID
	}
	return result
}

func (s *WebhookService) process(ctx context.Context, event *pagarme.Event, parseErr error, body []byte, signature string, entry *models.SyncLog) (models.SyncStatus, error) {
	if parseErr != nil {
		return models.SyncFailed, parseErr
	}
	if s.secret != "" && !pagarme.VerifySignature(body, signature, s.secret) {
		return models.SyncRejected, errors.New("invalid webhook signature")
	}

	objectType := models.PaymentObjectType(event.ObjectType())
	if objectType.IsValid() {
		entry.ObjectType = &objectType
		if event.Data.ID != "" {
			objectID := event.Data.ID
			entry.ObjectID = &objectID
		}
	}

	if s.deduper != nil && event.ID != "" {
		first, err := s.deduper.MarkSeen(ctx, event.ID)
		if err != nil {
			// Redis being down must not stop deliveries. Mirror writes are upserts and
			// wallet movements are unique per event id.
			s.logger.WithError(err).WithField("event_id", event.ID).Warn("Webhook dedupe unavailable")
		} else if !first {
			return models.SyncDuplicate, nil
		}
	}

	if !objectType.IsValid() {
		return models.SyncIgnored, nil
	}

	if err := s.apply(ctx, objectType, event); err != nil {
		if errors.Is(err, dao.ErrDuplicateMovement) {
			return models.SyncDuplicate, nil
		}
		s.forget(ctx, event.ID)
		return models.SyncFailed, err
	}
	return models.SyncProcessed, nil
}

func (s *WebhookService) apply(ctx context.Context, objectType models.PaymentObjectType, event *pagarme.Event) error {
	if obj := toPaymentObject(objectType, &event.Data); obj != nil {
		if err := s.mirror.Upsert(ctx, obj); err != nil {
			return fmt.Errorf("mirror %s %s: %w", objectType, event.Data.ID, err)
		}
	}

	switch event.Type {
	case EventChargePaid:
		return s.moveWallet(ctx, event, models.WalletCredit)
	case EventChargeRefunded:
		return s.moveWallet(ctx, event, models.WalletDebit)
	}
	return nil
}

func (s *WebhookService) moveWallet(ctx context.Context, event *pagarme.Event, direction string) error {
	providerID := event.Data.MetadataString(providerIDMetadataKey)
	if providerID == "" || event.Data.Amount == nil || *event.Data.Amount <= 0 {
		return nil
	}

	movement := &models.WalletMovement{
		EventID:    movementKey(event),
		ProviderID: providerID,
		Direction:  direction,
		Amount:     centsToBRL(*event.Data.Amount),
		CreatedAt:  utils.GetCurrentTimeMillis(),
	}
	if event.Data.ID != "" {
		chargeID := event.Data.ID
		movement.ChargeID = &chargeID
	}

	err := s.tx.WithTransaction(ctx, "wallet_"+direction, func(tx *database.Transaction) error {
		if err := s.wallets.RecordMovementWithTx(ctx, tx, movement); err != nil {
			return err
		}
		if direction == models.WalletCredit {
			return s.wallets.CreditWithTx(ctx, tx, providerID, movement.Amount, movement.CreatedAt)
		}
		return s.wallets.DebitWithTx(ctx, tx, providerID, movement.Amount, movement.CreatedAt)
	})

	outcome := "ok"
	switch {
	case errors.Is(err, dao.ErrDuplicateMovement):
		outcome = "duplicate"
	case errors.Is(err, dao.ErrInsufficientBalance):
		outcome = "insufficient_balance"
	case err != nil:
		outcome = "error"
	}
	s.metrics.IncrementWalletMovements(direction, outcome)

	fields := logrus.Fields{
		"provider_id": providerID,
		"amount":      movement.Amount.StringFixed(2),
		"direction":   direction,
		"event_id":    movement.EventID,
	}
	if errors.Is(err, dao.ErrDuplicateMovement) {
		s.logger.WithFields(fields).Info("Wallet movement already applied, skipping")
		return err
	}
	if err != nil {
		s.logger.WithFields(fields).WithError(err).Error("Provider wallet update failed")
		return fmt.Errorf("%s wallet %s: %w", direction, providerID, err)
	}
	s.logger.WithFields(fields).Info("Provider wallet updated")
	return nil
}

// movementKey identifies the wallet movement of an event. Deliveries without
// an event id fall back to the event type and charge.
func movementKey(event *pagarme.Event) string {
	if event.ID != "" {
		return event.ID
	}
	return event.Type + ":" + event.Data.ID
}

// WalletBalance returns the current balance of a provider, zero when the wallet does not exist yet
func (s *WebhookService) WalletBalance(ctx context.Context, providerID string) (*models.ProviderWallet, error) {
	if err := utils.ValidateID("providerId", providerID); err != nil {
		return nil, validationErrorf("%v", err)
	}

	wallet, err := s.wallets.Get(ctx, providerID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &models.ProviderWallet{ProviderID: providerID, Balance: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("failed to get provider wallet: %w", err)
	}
	return wallet, nil
}

func (s *WebhookService) forget(ctx context.Context, eventID string) {
	if s.deduper == nil || eventID == "" {
		return
	}
	if err := s.deduper.Forget(ctx, eventID); err != nil {
		s.logger.WithError(err).WithField("event_id", eventID).Warn("Failed to release webhook dedupe key")
	}
}

func (s *WebhookService) record(ctx context.Context, entry *models.SyncLog) {
	s.metrics.IncrementWebhookEvents(string(entry.Status))

	logger := s.logger.WithFields(logrus.Fields{
		"sync_id":    entry.ID,
		"event_type": entry.EventType,
		"status":     entry.Status,
	})
	if entry.Error != nil {
		logger = logger.WithField("error", *entry.Error)
	}
	logger.Info("Webhook delivery handled")

	if err := s.syncLogs.Create(ctx, entry); err != nil {
		s.logger.WithError(err).WithField("sync_id", entry.ID).Error("Failed to record webhook sync log")
	}
}
