package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// CreateDataRequest carries a new data-subject request
type CreateDataRequest struct {
	UserID      string             `json:"userId"`
	UserEmail   string             `json:"userEmail"`
	RequestType models.RequestType `json:"requestType"`
	Description *string            `json:"description,omitempty"`
}

// StatusUpdate moves a request to another status
type StatusUpdate struct {
	Status          models.RequestStatus   `json:"status"`
	HandledBy       string                 `json:"handledBy"`
	Notes           *string                `json:"notes,omitempty"`
	RejectionReason *string                `json:"rejectionReason,omitempty"`
	ResponseData    map[string]interface{} `json:"responseData,omitempty"`
}

// DataRequestService tracks data-subject requests through their lifecycle
type DataRequestService struct {
	requestDAO DataRequestStore
	metrics    *metrics.Metrics
	logger     *logrus.Logger
}

// NewDataRequestService creates a new data request service instance
func NewDataRequestService(requestDAO DataRequestStore, m *metrics.Metrics, logger *logrus.Logger) *DataRequestService {
	return &DataRequestService{
		requestDAO: requestDAO,
		metrics:    m,
		logger:     logger,
	}
}

// CreateDataSubjectRequest opens a new request in the pendente state
func (s *DataRequestService) CreateDataSubjectRequest(ctx context.Context, req *CreateDataRequest) (*models.DataSubjectRequest, error) {
	if req == nil {
		return nil, validationErrorf("request body is required")
	}
	if err := utils.ValidateID("userId", req.UserID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	if err := utils.ValidateEmail(req.UserEmail); err != nil {
		return nil, validationErrorf("%v", err)
	}
	if !req.RequestType.IsValid() {
		return nil, validationErrorf("invalid request type: %s", req.RequestType)
	}

	dsr := &models.DataSubjectRequest{
		ID:          utils.GenerateRequestID(),
		UserID:      req.UserID,
		UserEmail:   req.UserEmail,
		RequestType: req.RequestType,
		Status:      models.StatusPendente,
		Description: sanitized(req.Description),
		RequestedAt: utils.GetCurrentTimeMillis(),
	}

	if err := s.requestDAO.Create(ctx, dsr); err != nil {
		return nil, fmt.Errorf("failed to create data request: %w", err)
	}

	s.metrics.IncrementDataRequestTransitions(string(dsr.Status))
	s.logger.WithFields(logrus.Fields{
		"request_id":   dsr.ID,
		"user_id":      dsr.UserID,
		"request_type": dsr.RequestType,
	}).Info("Data subject request created")

	return dsr, nil
}

// ProcessDeletionRequest marks a request as concluido and stamps who handled it
func (s *DataRequestService) ProcessDeletionRequest(ctx context.Context, requestID, handledBy string) (*models.DataSubjectRequest, error) {
	return s.UpdateRequestStatus(ctx, requestID, &StatusUpdate{
		Status:    models.StatusConcluido,
		HandledBy: handledBy,
	})
}

// UpdateRequestStatus applies a forward-only status change
func (s *DataRequestService) UpdateRequestStatus(ctx context.Context, requestID string, upd *StatusUpdate) (*models.DataSubjectRequest, error) {
	if err := utils.ValidateID("requestId", requestID); err != nil {
		return nil, validationErrorf("%v", err)
	}
	if upd == nil {
		return nil, validationErrorf("request body is required")
	}

	dsr, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	from := dsr.Status
	if err := applyStatusChange(dsr, upd, utils.GetCurrentTimeMillis()); err != nil {
		return nil, err
	}

	updated, err := s.requestDAO.UpdateStatus(ctx, dsr, from)
	if err != nil {
		return nil, fmt.Errorf("failed to update data request: %w", err)
	}
	if !updated {
		return nil, conflictErrorf("request %s changed status concurrently", requestID)
	}

	s.metrics.IncrementDataRequestTransitions(string(dsr.Status))
	s.logger.WithFields(logrus.Fields{
		"request_id": dsr.ID,
		"from":       from,
		"to":         dsr.Status,
		"handled_by": upd.HandledBy,
	}).Info("Data subject request status updated")

	return dsr, nil
}

// GetRequest returns one request
func (s *DataRequestService) GetRequest(ctx context.Context, requestID string) (*models.DataSubjectRequest, error) {
	dsr, err := s.requestDAO.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErrorf("data request %s", requestID)
		}
		return nil, fmt.Errorf("failed to get data request: %w", err)
	}
	return dsr, nil
}

// GetUserRequests returns every request opened by a user
func (s *DataRequestService) GetUserRequests(ctx context.Context, userID string) ([]models.DataSubjectRequest, error) {
	if err := utils.ValidateID("userId", userID); err != nil {
		return nil, validationErrorf("%v", err)
	}

	requests, err := s.requestDAO.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list data requests: %w", err)
	}
	return requests, nil
}

// ListRequests returns a page of requests for the admin queue
func (s *DataRequestService) ListRequests(ctx context.Context, status models.RequestStatus, limit, offset int) ([]models.DataSubjectRequest, int, error) {
	if status != "" && !status.IsValid() {
		return nil, 0, validationErrorf("invalid status: %s", status)
	}

	requests, total, err := s.requestDAO.List(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list data requests: %w", err)
	}
	return requests, total, nil
}

// applyStatusChange validates the transition and mutates dsr in place
func applyStatusChange(dsr *models.DataSubjectRequest, upd *StatusUpdate, now int64) error {
	if !upd.Status.IsValid() {
		return validationErrorf("invalid status: %s", upd.Status)
	}
	if err := utils.ValidateRequired("handledBy", upd.HandledBy); err != nil {
		return validationErrorf("%v", err)
	}
	if dsr.Status.IsTerminal() {
		return conflictErrorf("request %s is already %s", dsr.ID, dsr.Status)
	}
	if !dsr.Status.CanTransitionTo(upd.Status) {
		return conflictErrorf("cannot move request %s from %s to %s", dsr.ID, dsr.Status, upd.Status)
	}
	if upd.Status == models.StatusRejeitado && (upd.RejectionReason == nil || strings.TrimSpace(*upd.RejectionReason) == "") {
		return validationErrorf("rejectionReason is required when rejecting a request")
	}

	if len(upd.ResponseData) > 0 {
		data, err := models.NewJSON(upd.ResponseData)
		if err != nil {
			return validationErrorf("responseData: %v", err)
		}
		dsr.ResponseData = data
	}

	handledBy := upd.HandledBy
	dsr.Status = upd.Status
	dsr.HandledBy = &handledBy
	if upd.Notes != nil {
		dsr.Notes = sanitized(upd.Notes)
	}
	if upd.RejectionReason != nil {
		dsr.RejectionReason = sanitized(upd.RejectionReason)
	}
	if dsr.Status.IsTerminal() {
		dsr.CompletedAt = &now
	}

	return nil
}

func sanitized(s *string) *string {
	if s == nil {
		return nil
	}
	clean := utils.SanitizeString(*s)
	return &clean
}
