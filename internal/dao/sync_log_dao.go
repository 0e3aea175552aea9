package dao

import (
	"context"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

// SyncLogDAO records the outcome of every gateway sync attempt
type SyncLogDAO struct {
	db *database.DB
}

// NewSyncLogDAO creates a new SyncLogDAO instance
func NewSyncLogDAO(db *database.DB) *SyncLogDAO {
	return &SyncLogDAO{db: db}
}

// Create inserts a sync log entry
func (dao *SyncLogDAO) Create(ctx context.Context, entry *models.SyncLog) error {
	query := `
		INSERT INTO PAGARME_SYNC_LOG (
			SYNC_ID, SOURCE, EVENT_ID, EVENT_TYPE, OBJECT_TYPE, OBJECT_ID, STATUS,
			ERROR_MESSAGE, PAYLOAD, CREATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.Source,
		entry.EventID,
		entry.EventType,
		entry.ObjectType,
		entry.ObjectID,
		entry.Status,
		entry.Error,
		entry.Payload,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sync log: %w", err)
	}

	return nil
}

// List returns a page of sync log entries, newest first, and the total count
func (dao *SyncLogDAO) List(ctx context.Context, limit, offset int) ([]models.SyncLog, int, error) {
	var total int
	if err := dao.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM PAGARME_SYNC_LOG`); err != nil {
		return nil, 0, fmt.Errorf("failed to count sync logs: %w", err)
	}

	query := `
		SELECT SYNC_ID, SOURCE, EVENT_ID, EVENT_TYPE, OBJECT_TYPE, OBJECT_ID, STATUS,
		       ERROR_MESSAGE, PAYLOAD, CREATED_TIME
		FROM PAGARME_SYNC_LOG
		ORDER BY CREATED_TIME DESC
		LIMIT ? OFFSET ?
	`

	entries := []models.SyncLog{}
	if err := dao.db.SelectContext(ctx, &entries, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list sync logs: %w", err)
	}

	return entries, total, nil
}
