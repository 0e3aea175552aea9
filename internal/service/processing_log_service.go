package service

import (
	"context"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ProcessingLogRequest describes one personal-data processing activity.
// The binding tags are checked when the request arrives over HTTP; internal
// callers go through validateProcessingLogRequest only.
type ProcessingLogRequest struct {
	UserID          string                    `json:"userId" binding:"required,max=64"`
	UserEmail       string                    `json:"userEmail" binding:"required"`
	Activity        models.ProcessingActivity `json:"activity" binding:"required,processing_activity"`
	DataTypes       []string                  `json:"dataType" binding:"required,min=1"`
	LegalBasis      models.LegalBasis         `json:"legalBasis" binding:"required,legal_basis"`
	Purpose         string                    `json:"purpose" binding:"required,max=512"`
	RetentionPeriod *string                   `json:"retentionPeriod,omitempty"`
	SharedWith      []string                  `json:"sharedWith,omitempty"`
	IPAddress       *string                   `json:"ipAddress,omitempty"`
	UserAgent       *string                   `json:"userAgent,omitempty"`
	Metadata        map[string]interface{}    `json:"metadata,omitempty"`
}

// ProcessingLogService appends to and reads the processing activity log
type ProcessingLogService struct {
	logDAO  ProcessingLogStore
	metrics *metrics.Metrics
	logger  *logrus.Logger
}

// NewProcessingLogService creates a new processing log service instance
func NewProcessingLogService(logDAO ProcessingLogStore, m *metrics.Metrics, logger *logrus.Logger) *ProcessingLogService {
	return &ProcessingLogService{
		logDAO:  logDAO,
		metrics: m,
		logger:  logger,
	}
}

// LogProcessingActivity validates and appends one entry, returning any error
func (s *ProcessingLogService) LogProcessingActivity(ctx context.Context, req *ProcessingLogRequest) (*models.DataProcessingLog, error) {
	if err := validateProcessingLogRequest(req); err != nil {
		return nil, err
	}

	metadata, err := models.NewJSON(req.Metadata)
	if err != nil {
		return nil, validationErrorf("metadata: %v", err)
	}
	if len(req.Metadata) == 0 {
		metadata = nil
	}

	var sharedWith models.StringList
	if len(req.SharedWith) > 0 {
		sharedWith = models.StringList(req.SharedWith)
	}

	entry := &models.DataProcessingLog{
		ID:              utils.GenerateProcessingLogID(),
		UserID:          req.UserID,
		UserEmail:       req.UserEmail,
		Activity:        req.Activity,
		DataTypes:       models.StringSet(req.DataTypes),
		LegalBasis:      req.LegalBasis,
		Purpose:         req.Purpose,
		RetentionPeriod: req.RetentionPeriod,
		SharedWith:      sharedWith,
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
		Timestamp:       utils.GetCurrentTimeMillis(),
		Metadata:        metadata,
	}

	if err := s.logDAO.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to append processing log: %w", err)
	}

	return entry, nil
}

// LogSafe appends an entry and never fails the caller. Audit-log failures
// are logged and counted, and the primary operation carries on.
func (s *ProcessingLogService) LogSafe(ctx context.Context, req *ProcessingLogRequest) {
	if _, err := s.LogProcessingActivity(ctx, req); err != nil {
		s.metrics.IncrementProcessingLogFailures(string(req.Activity))
		s.logger.WithFields(logrus.Fields{
			"user_id":  req.UserID,
			"activity": req.Activity,
		}).WithError(err).Warn("Failed to append processing log entry")
	}
}

// GetUserProcessingLogs returns the full processing history of a user, newest first
func (s *ProcessingLogService) GetUserProcessingLogs(ctx context.Context, userID string) ([]models.DataProcessingLog, error) {
	if err := utils.ValidateID("userId", userID); err != nil {
		return nil, validationErrorf("%v", err)
	}

	logs, err := s.logDAO.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing logs: %w", err)
	}
	return logs, nil
}

func validateProcessingLogRequest(req *ProcessingLogRequest) error {
	if req == nil {
		return validationErrorf("request body is required")
	}
	if err := utils.ValidateID("userId", req.UserID); err != nil {
		return validationErrorf("%v", err)
	}
	if err := utils.ValidateRequired("userEmail", req.UserEmail); err != nil {
		return validationErrorf("%v", err)
	}
	if !req.Activity.IsValid() {
		return validationErrorf("invalid activity: %s", req.Activity)
	}
	if !req.LegalBasis.IsValid() {
		return validationErrorf("invalid legal basis: %s", req.LegalBasis)
	}
	if len(models.StringSet(req.DataTypes)) == 0 {
		return validationErrorf("at least one data type is required")
	}
	if err := utils.ValidateRequired("purpose", req.Purpose); err != nil {
		return validationErrorf("%v", err)
	}
	if err := utils.ValidateMaxLength("purpose", req.Purpose, 512); err != nil {
		return validationErrorf("%v", err)
	}
	return nil
}
