package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

const dataRequestColumns = `REQUEST_ID, USER_ID, USER_EMAIL, REQUEST_TYPE, STATUS, DESCRIPTION,
		       REQUESTED_AT, COMPLETED_AT, RESPONSE_DATA, REJECTION_REASON, HANDLED_BY, NOTES`

// DataRequestDAO handles database operations for data-subject requests
type DataRequestDAO struct {
	db *database.DB
}

// NewDataRequestDAO creates a new DataRequestDAO instance
func NewDataRequestDAO(db *database.DB) *DataRequestDAO {
	return &DataRequestDAO{db: db}
}

// Create inserts a new data-subject request
func (dao *DataRequestDAO) Create(ctx context.Context, req *models.DataSubjectRequest) error {
	query := `
		INSERT INTO LGPD_DATA_REQUEST (
			REQUEST_ID, USER_ID, USER_EMAIL, REQUEST_TYPE, STATUS, DESCRIPTION,
			REQUESTED_AT, COMPLETED_AT, RESPONSE_DATA, REJECTION_REASON, HANDLED_BY, NOTES
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		req.ID,
		req.UserID,
		req.UserEmail,
		req.RequestType,
		req.Status,
		req.Description,
		req.RequestedAt,
		req.CompletedAt,
		req.ResponseData,
		req.RejectionReason,
		req.HandledBy,
		req.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create data request: %w", err)
	}

	return nil
}

// GetByID retrieves a data-subject request by ID
func (dao *DataRequestDAO) GetByID(ctx context.Context, requestID string) (*models.DataSubjectRequest, error) {
	query := `SELECT ` + dataRequestColumns + ` FROM LGPD_DATA_REQUEST WHERE REQUEST_ID = ?`

	var req models.DataSubjectRequest
	if err := dao.db.GetContext(ctx, &req, query, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("data request", requestID)
		}
		return nil, fmt.Errorf("failed to get data request: %w", err)
	}

	return &req, nil
}

// GetByIDWithTx retrieves a data-subject request with a row lock inside a transaction
func (dao *DataRequestDAO) GetByIDWithTx(ctx context.Context, tx *database.Transaction, requestID string) (*models.DataSubjectRequest, error) {
	query := `SELECT ` + dataRequestColumns + ` FROM LGPD_DATA_REQUEST WHERE REQUEST_ID = ? FOR UPDATE`

	var req models.DataSubjectRequest
	if err := tx.GetContext(ctx, &req, query, requestID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("data request", requestID)
		}
		return nil, fmt.Errorf("failed to get data request: %w", err)
	}

	return &req, nil
}

// ListByUser returns every request of a user, newest first
func (dao *DataRequestDAO) ListByUser(ctx context.Context, userID string) ([]models.DataSubjectRequest, error) {
	query := `SELECT ` + dataRequestColumns + ` FROM LGPD_DATA_REQUEST WHERE USER_ID = ? ORDER BY REQUESTED_AT DESC`

	requests := []models.DataSubjectRequest{}
	if err := dao.db.SelectContext(ctx, &requests, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list data requests: %w", err)
	}

	return requests, nil
}

// List returns a page of requests, optionally filtered by status, and the total count
func (dao *DataRequestDAO) List(ctx context.Context, status models.RequestStatus, limit, offset int) ([]models.DataSubjectRequest, int, error) {
	where := ""
	args := []interface{}{}
	if status != "" {
		where = " WHERE STATUS = ?"
		args = append(args, status)
	}

	var total int
	if err := dao.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM LGPD_DATA_REQUEST`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count data requests: %w", err)
	}

	query := `SELECT ` + dataRequestColumns + ` FROM LGPD_DATA_REQUEST` + where + ` ORDER BY REQUESTED_AT DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	requests := []models.DataSubjectRequest{}
	if err := dao.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list data requests: %w", err)
	}

	return requests, total, nil
}

// UpdateStatus writes a status change, guarded on the status the caller read.
// Returns false when the request moved on in the meantime.
func (dao *DataRequestDAO) UpdateStatus(ctx context.Context, req *models.DataSubjectRequest, from models.RequestStatus) (bool, error) {
	result, err := dao.db.ExecContext(ctx, updateRequestStatusQuery, updateRequestStatusArgs(req, from)...)
	if err != nil {
		return false, fmt.Errorf("failed to update data request status: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateStatusWithTx writes a status change inside a transaction
func (dao *DataRequestDAO) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, req *models.DataSubjectRequest, from models.RequestStatus) (bool, error) {
	result, err := tx.ExecContext(ctx, updateRequestStatusQuery, updateRequestStatusArgs(req, from)...)
	if err != nil {
		return false, fmt.Errorf("failed to update data request status with transaction: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

const updateRequestStatusQuery = `
	UPDATE LGPD_DATA_REQUEST
	SET STATUS = ?, COMPLETED_AT = ?, RESPONSE_DATA = ?, REJECTION_REASON = ?, HANDLED_BY = ?, NOTES = ?
	WHERE REQUEST_ID = ? AND STATUS = ?
`

func updateRequestStatusArgs(req *models.DataSubjectRequest, from models.RequestStatus) []interface{} {
	return []interface{}{
		req.Status,
		req.CompletedAt,
		req.ResponseData,
		req.RejectionReason,
		req.HandledBy,
		req.Notes,
		req.ID,
		from,
	}
}
