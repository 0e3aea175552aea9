package dao

import (
	"context"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

// ProcessingLogDAO handles the append-only processing activity log
type ProcessingLogDAO struct {
	db *database.DB
}

// NewProcessingLogDAO creates a new ProcessingLogDAO instance
func NewProcessingLogDAO(db *database.DB) *ProcessingLogDAO {
	return &ProcessingLogDAO{db: db}
}

// Create appends a processing log record. There is no update or delete.
func (dao *ProcessingLogDAO) Create(ctx context.Context, entry *models.DataProcessingLog) error {
	query := `
		INSERT INTO LGPD_PROCESSING_LOG (
			LOG_ID, USER_ID, USER_EMAIL, ACTIVITY, DATA_TYPES, LEGAL_BASIS, PURPOSE,
			RETENTION_PERIOD, SHARED_WITH, IP_ADDRESS, USER_AGENT, LOG_TIME, METADATA
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.UserID,
		entry.UserEmail,
		entry.Activity,
		entry.DataTypes,
		entry.LegalBasis,
		entry.Purpose,
		entry.RetentionPeriod,
		entry.SharedWith,
		entry.IPAddress,
		entry.UserAgent,
		entry.Timestamp,
		entry.Metadata,
	)
	if err != nil {
		return fmt.Errorf("failed to create processing log: %w", err)
	}

	return nil
}

// ListByUser retrieves the full processing history of a user, newest first
func (dao *ProcessingLogDAO) ListByUser(ctx context.Context, userID string) ([]models.DataProcessingLog, error) {
	query := `
		SELECT LOG_ID, USER_ID, USER_EMAIL, ACTIVITY, DATA_TYPES, LEGAL_BASIS, PURPOSE,
		       RETENTION_PERIOD, SHARED_WITH, IP_ADDRESS, USER_AGENT, LOG_TIME, METADATA
		FROM LGPD_PROCESSING_LOG
		WHERE USER_ID = ?
		ORDER BY LOG_TIME DESC
	`

	logs := []models.DataProcessingLog{}
	if err := dao.db.SelectContext(ctx, &logs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list processing logs: %w", err)
	}

	return logs, nil
}
