package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// DeletionRequest asks for a user's personal data to be erased
type DeletionRequest struct {
	UserID    string
	UserEmail string
	RequestID *string
	HandledBy string
	IPAddress *string
	UserAgent *string
}

// DeletionResult summarizes a completed erasure
type DeletionResult struct {
	UserID           string  `json:"userId"`
	RequestID        *string `json:"requestId,omitempty"`
	OrdersAnonymized int64   `json:"ordersAnonymized"`
	ConsentsRevoked  int64   `json:"consentsRevoked"`
	AnonymizedAt     int64   `json:"anonymizedAt"`
}

// DeletionService runs the right-to-erasure workflow
type DeletionService struct {
	users               UserStore
	orders              OrderStore
	consents            ConsentStore
	requests            DataRequestStore
	processingLogs      *ProcessingLogService
	tx                  TxRunner
	anonymizationDomain string
	metrics             *metrics.Metrics
	logger              *logrus.Logger
}

// NewDeletionService creates a new deletion service instance
func NewDeletionService(
	users UserStore,
	orders OrderStore,
	consents ConsentStore,
	requests DataRequestStore,
	processingLogs *ProcessingLogService,
	tx TxRunner,
	anonymizationDomain string,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *DeletionService {
	return &DeletionService{
		users:               users,
		orders:              orders,
		consents:            consents,
		requests:            requests,
		processingLogs:      processingLogs,
		tx:                  tx,
		anonymizationDomain: anonymizationDomain,
		metrics:             m,
		logger:              logger,
	}
}

// DeleteUserData anonymizes the user profile and orders, revokes every active
// consent and completes the originating request in one transaction. The
// processing log entry is written after commit and never fails the call.
func (s *DeletionService) DeleteUserData(ctx context.Context, req *DeletionRequest) (*DeletionResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErrorf("user %s", req.UserID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if req.RequestID != nil {
		dsr, err := s.requests.GetByID(ctx, *req.RequestID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, notFoundErrorf("data request %s", *req.RequestID)
			}
			return nil, fmt.Errorf("failed to load data request: %w", err)
		}
		if dsr.UserID != req.UserID {
			return nil, notFoundErrorf("data request %s", *req.RequestID)
		}
		if dsr.Status.IsTerminal() {
			return nil, conflictErrorf("request %s is already %s", dsr.ID, dsr.Status)
		}
	}

	start := time.Now()
	now := utils.GetCurrentTimeMillis()
	placeholderEmail := fmt.Sprintf("anonimizado_%d@%s", now, s.anonymizationDomain)
	result := &DeletionResult{
		UserID:       req.UserID,
		RequestID:    req.RequestID,
		AnonymizedAt: now,
	}

	err := s.tx.WithTransaction(ctx, "user_erasure", func(tx *database.Transaction) error {
		if err := s.users.AnonymizeWithTx(ctx, tx, req.UserID, placeholderEmail, now); err != nil {
			return fmt.Errorf("anonymize user: %w", err)
		}

		orders, err := s.orders.AnonymizeByCustomerWithTx(ctx, tx, req.UserID, now)
		if err != nil {
			return fmt.Errorf("anonymize orders: %w", err)
		}
		result.OrdersAnonymized = orders

		consents, err := s.consents.RevokeAllActiveWithTx(ctx, tx, req.UserID, now)
		if err != nil {
			return fmt.Errorf("revoke consents: %w", err)
		}
		result.ConsentsRevoked = consents

		if req.RequestID == nil {
			return nil
		}
		return s.completeRequest(ctx, tx, *req.RequestID, req.HandledBy, now)
	})
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": req.UserID,
		}).WithError(err).Error("User data erasure rolled back")
		return nil, fmt.Errorf("failed to erase user data: %w", err)
	}

	s.metrics.ObserveErasure(time.Since(start).Seconds())
	s.logger.WithFields(logrus.Fields{
		"user_id":           req.UserID,
		"user_email":        utils.MaskEmail(req.UserEmail),
		"orders_anonymized": result.OrdersAnonymized,
		"consents_revoked":  result.ConsentsRevoked,
	}).Info("User data erased")

	metadata := map[string]interface{}{
		"ordersAnonymized": result.OrdersAnonymized,
		"consentsRevoked":  result.ConsentsRevoked,
	}
	if req.RequestID != nil {
		metadata["requestId"] = *req.RequestID
	}
	s.processingLogs.LogSafe(ctx, &ProcessingLogRequest{
		UserID:     req.UserID,
		UserEmail:  req.UserEmail,
		Activity:   models.ActivityExclusaoUsuario,
		DataTypes:  []string{"dados_cadastrais", "dados_pedidos", "consentimentos"},
		LegalBasis: models.BasisExercicioDireitos,
		Purpose:    "Exclusão de dados pessoais a pedido do titular (LGPD art. 18, VI)",
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		Metadata:   metadata,
	})

	return result, nil
}

func (s *DeletionService) completeRequest(ctx context.Context, tx *database.Transaction, requestID, handledBy string, now int64) error {
	dsr, err := s.requests.GetByIDWithTx(ctx, tx, requestID)
	if err != nil {
		return fmt.Errorf("load data request: %w", err)
	}

	from := dsr.Status
	notes := "Dados pessoais anonimizados"
	if err := applyStatusChange(dsr, &StatusUpdate{
		Status:    models.StatusConcluido,
		HandledBy: handledBy,
		Notes:     &notes,
	}, now); err != nil {
		return err
	}

	updated, err := s.requests.UpdateStatusWithTx(ctx, tx, dsr, from)
	if err != nil {
		return fmt.Errorf("complete data request: %w", err)
	}
	if !updated {
		return conflictErrorf("request %s changed status concurrently", requestID)
	}

	s.metrics.IncrementDataRequestTransitions(string(dsr.Status))
	return nil
}

func (s *DeletionService) validate(req *DeletionRequest) error {
	if req == nil {
		return validationErrorf("request body is required")
	}
	if err := utils.ValidateID("userId", req.UserID); err != nil {
		return validationErrorf("%v", err)
	}
	if err := utils.ValidateEmail(req.UserEmail); err != nil {
		return validationErrorf("%v", err)
	}
	if req.RequestID != nil {
		if err := utils.ValidateID("requestId", *req.RequestID); err != nil {
			return validationErrorf("%v", err)
		}
	}
	if req.HandledBy == "" {
		req.HandledBy = "sistema"
	}
	return nil
}
