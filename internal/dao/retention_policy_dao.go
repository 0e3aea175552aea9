package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

// RetentionPolicyDAO reads the seeded retention policy table
type RetentionPolicyDAO struct {
	db *database.DB
}

// NewRetentionPolicyDAO creates a new RetentionPolicyDAO instance
func NewRetentionPolicyDAO(db *database.DB) *RetentionPolicyDAO {
	return &RetentionPolicyDAO{db: db}
}

// List returns every retention policy ordered by data type
func (dao *RetentionPolicyDAO) List(ctx context.Context) ([]models.DataRetentionPolicy, error) {
	query := `
		SELECT DATA_TYPE, RETENTION_PERIOD, ANONYMIZE_AFTER, DELETE_AFTER, LEGAL_BASIS, DESCRIPTION
		FROM LGPD_RETENTION_POLICY
		ORDER BY DATA_TYPE
	`

	policies := []models.DataRetentionPolicy{}
	if err := dao.db.SelectContext(ctx, &policies, query); err != nil {
		return nil, fmt.Errorf("failed to list retention policies: %w", err)
	}

	return policies, nil
}

// GetByDataType retrieves the policy for one data type
func (dao *RetentionPolicyDAO) GetByDataType(ctx context.Context, dataType string) (*models.DataRetentionPolicy, error) {
	query := `
		SELECT DATA_TYPE, RETENTION_PERIOD, ANONYMIZE_AFTER, DELETE_AFTER, LEGAL_BASIS, DESCRIPTION
		FROM LGPD_RETENTION_POLICY
		WHERE DATA_TYPE = ?
	`

	var policy models.DataRetentionPolicy
	if err := dao.db.GetContext(ctx, &policy, query, dataType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("retention policy", dataType)
		}
		return nil, fmt.Errorf("failed to get retention policy: %w", err)
	}

	return &policy, nil
}
