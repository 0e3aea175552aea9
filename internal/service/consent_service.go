package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// GrantConsentRequest carries the data needed to record a consent grant
type GrantConsentRequest struct {
	UserID      string
	UserEmail   string
	ConsentType models.ConsentType
	Version     string
	IPAddress   *string
	UserAgent   *string
}

// ConsentService handles business logic for the consent ledger
type ConsentService struct {
	consentDAO     ConsentStore
	processingLogs *ProcessingLogService
	policyVersion  string
	metrics        *metrics.Metrics
	logger         *logrus.Logger
}

// NewConsentService creates a new consent service instance
func NewConsentService(
	consentDAO ConsentStore,
	processingLogs *ProcessingLogService,
	policyVersion string,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *ConsentService {
	return &ConsentService{
		consentDAO:     consentDAO,
		processingLogs: processingLogs,
		policyVersion:  policyVersion,
		metrics:        m,
		logger:         logger,
	}
}

// GrantConsent records a new grant. Earlier grants of the same type are left
// untouched, so a user may hold several active records for one type.
func (s *ConsentService) GrantConsent(ctx context.Context, req *GrantConsentRequest) (*models.Consent, error) {
	if err := s.validateGrantRequest(req); err != nil {
		return nil, err
	}

	version := req.Version
	if version == "" {
		version = s.policyVersion
	}

	now := utils.GetCurrentTimeMillis()
	consent := &models.Consent{
		ID:          utils.GenerateConsentID(),
		UserID:      req.UserID,
		UserEmail:   req.UserEmail,
		ConsentType: req.ConsentType,
		Granted:     true,
		GrantedAt:   now,
		IPAddress:   req.IPAddress,
		UserAgent:   req.UserAgent,
		Version:     version,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.consentDAO.Create(ctx, consent); err != nil {
		return nil, fmt.Errorf("failed to grant consent: %w", err)
	}

	s.metrics.IncrementConsentsGranted(string(consent.ConsentType))
	s.logger.WithFields(logrus.Fields{
		"consent_id":   consent.ID,
		"user_id":      consent.UserID,
		"user_email":   utils.MaskEmail(consent.UserEmail),
		"consent_type": consent.ConsentType,
	}).Info("Consent granted")

	s.processingLogs.LogSafe(ctx, &ProcessingLogRequest{
		UserID:     consent.UserID,
		UserEmail:  consent.UserEmail,
		Activity:   models.ActivityConsentimentoConcedido,
		DataTypes:  []string{"consentimentos"},
		LegalBasis: models.BasisConsentimento,
		Purpose:    fmt.Sprintf("Registro de consentimento %s (versão %s)", consent.ConsentType, consent.Version),
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
		Metadata:   map[string]interface{}{"consentId": consent.ID, "consentType": consent.ConsentType},
	})

	return consent, nil
}

// RevokeConsent stamps revokedAt on a consent owned by userID.
// A consent that is missing or belongs to someone else is reported as not
// found. A consent that is already revoked is a conflict and stays unchanged.
func (s *ConsentService) RevokeConsent(ctx context.Context, consentID, userID string, ipAddress, userAgent *string) (*models.Consent, error) {
	if err := utils.ValidateID("consentId", consentID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	if err := utils.ValidateID("userId", userID); err != nil {
		return nil, validationErrorf("%v", err)
	}

	consent, err := s.consentDAO.GetByID(ctx, consentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErrorf("consent %s", consentID)
		}
		return nil, fmt.Errorf("failed to load consent: %w", err)
	}
	if consent.UserID != userID {
		s.logger.WithFields(logrus.Fields{
			"consent_id": consentID,
			"user_id":    userID,
		}).Warn("Revoke attempted on consent owned by another user")
		return nil, notFoundErrorf("consent %s", consentID)
	}
	if consent.RevokedAt != nil {
		return nil, conflictErrorf("consent %s is already revoked", consentID)
	}

	now := utils.GetCurrentTimeMillis()
	revoked, err := s.consentDAO.Revoke(ctx, consentID, userID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to revoke consent: %w", err)
	}
	if !revoked {
		// lost a race with a concurrent revoke
		return nil, conflictErrorf("consent %s is already revoked", consentID)
	}

	consent.RevokedAt = &now
	consent.UpdatedAt = now

	s.metrics.IncrementConsentsRevoked(string(consent.ConsentType))
	s.logger.WithFields(logrus.Fields{
		"consent_id":   consent.ID,
		"user_id":      consent.UserID,
		"consent_type": consent.ConsentType,
	}).Info("Consent revoked")

	s.processingLogs.LogSafe(ctx, &ProcessingLogRequest{
		UserID:     consent.UserID,
		UserEmail:  consent.UserEmail,
		Activity:   models.ActivityConsentimentoRevogado,
		DataTypes:  []string{"consentimentos"},
		LegalBasis: models.BasisExercicioDireitos,
		Purpose:    fmt.Sprintf("Revogação de consentimento %s", consent.ConsentType),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Metadata:   map[string]interface{}{"consentId": consent.ID, "consentType": consent.ConsentType},
	})

	return consent, nil
}

// HasConsent reports whether the user currently holds an active consent of the given type
func (s *ConsentService) HasConsent(ctx context.Context, userID string, consentType models.ConsentType) (bool, error) {
	if err := utils.ValidateID("userId", userID); err != nil {
		return false, validationErrorf("%v", err)
	}
	if !consentType.IsValid() {
		return false, validationErrorf("invalid consent type: %s", consentType)
	}

	ok, err := s.consentDAO.HasActive(ctx, userID, consentType)
	if err != nil {
		return false, fmt.Errorf("failed to check consent: %w", err)
	}
	return ok, nil
}

// GetCurrentConsent returns the most recently granted active record of a type
func (s *ConsentService) GetCurrentConsent(ctx context.Context, userID string, consentType models.ConsentType) (*models.Consent, error) {
	if !consentType.IsValid() {
		return nil, validationErrorf("invalid consent type: %s", consentType)
	}

	consent, err := s.consentDAO.GetCurrent(ctx, userID, consentType)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErrorf("no active %s consent for user %s", consentType, userID)
		}
		return nil, fmt.Errorf("failed to get current consent: %w", err)
	}
	return consent, nil
}

// GetUserConsents returns every consent record of the user, newest first
func (s *ConsentService) GetUserConsents(ctx context.Context, userID string) ([]models.Consent, error) {
	if err := utils.ValidateID("userId", userID); err != nil {
		return nil, validationErrorf("%v", err)
	}

	consents, err := s.consentDAO.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consents: %w", err)
	}
	return consents, nil
}

func (s *ConsentService) validateGrantRequest(req *GrantConsentRequest) error {
	if req == nil {
		return validationErrorf("request body is required")
	}
	if err := utils.ValidateID("userId", req.UserID); err != nil {
		return validationErrorf("%v", err)
	}
	if err := utils.ValidateEmail(req.UserEmail); err != nil {
		return validationErrorf("%v", err)
	}
	if !req.ConsentType.IsValid() {
		return validationErrorf("invalid consent type: %s", req.ConsentType)
	}
	if err := utils.ValidateMaxLength("version", req.Version, 32); err != nil {
		return validationErrorf("%v", err)
	}
	return nil
}
