package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

const consentColumns = `CONSENT_ID, USER_ID, USER_EMAIL, CONSENT_TYPE, GRANTED, GRANTED_AT,
		       REVOKED_AT, IP_ADDRESS, USER_AGENT, VERSION, CREATED_TIME, UPDATED_TIME`

// ConsentDAO handles database operations for the consent ledger
type ConsentDAO struct {
	db *database.DB
}

// NewConsentDAO creates a new ConsentDAO instance
func NewConsentDAO(db *database.DB) *ConsentDAO {
	return &ConsentDAO{db: db}
}

// Create inserts a new consent record
func (dao *ConsentDAO) Create(ctx context.Context, consent *models.Consent) error {
	query := `
		INSERT INTO LGPD_CONSENT (
			CONSENT_ID, USER_ID, USER_EMAIL, CONSENT_TYPE, GRANTED, GRANTED_AT,
			REVOKED_AT, IP_ADDRESS, USER_AGENT, VERSION, CREATED_TIME, UPDATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		consent.ID,
		consent.UserID,
		consent.UserEmail,
		consent.ConsentType,
		consent.Granted,
		consent.GrantedAt,
		consent.RevokedAt,
		consent.IPAddress,
		consent.UserAgent,
		consent.Version,
		consent.CreatedAt,
		consent.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create consent: %w", err)
	}

	return nil
}

// GetByID retrieves a consent by ID
func (dao *ConsentDAO) GetByID(ctx context.Context, consentID string) (*models.Consent, error) {
	query := `SELECT ` + consentColumns + ` FROM LGPD_CONSENT WHERE CONSENT_ID = ?`

	var consent models.Consent
	if err := dao.db.GetContext(ctx, &consent, query, consentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("consent", consentID)
		}
		return nil, fmt.Errorf("failed to get consent: %w", err)
	}

	return &consent, nil
}

// ListByUser returns every consent record of a user, newest grant first
func (dao *ConsentDAO) ListByUser(ctx context.Context, userID string) ([]models.Consent, error) {
	query := `SELECT ` + consentColumns + ` FROM LGPD_CONSENT WHERE USER_ID = ? ORDER BY GRANTED_AT DESC`

	consents := []models.Consent{}
	if err := dao.db.SelectContext(ctx, &consents, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list consents: %w", err)
	}

	return consents, nil
}

// HasActive reports whether the user holds a granted, unrevoked consent of the given type
func (dao *ConsentDAO) HasActive(ctx context.Context, userID string, consentType models.ConsentType) (bool, error) {
	query := `
		SELECT COUNT(*) FROM LGPD_CONSENT
		WHERE USER_ID = ? AND CONSENT_TYPE = ? AND GRANTED = TRUE AND REVOKED_AT IS NULL
	`

	var count int
	if err := dao.db.GetContext(ctx, &count, query, userID, consentType); err != nil {
		return false, fmt.Errorf("failed to check consent: %w", err)
	}

	return count > 0, nil
}

// GetCurrent returns the active consent of the given type with the latest grant
func (dao *ConsentDAO) GetCurrent(ctx context.Context, userID string, consentType models.ConsentType) (*models.Consent, error) {
	query := `SELECT ` + consentColumns + ` FROM LGPD_CONSENT
		WHERE USER_ID = ? AND CONSENT_TYPE = ? AND GRANTED = TRUE AND REVOKED_AT IS NULL
		ORDER BY GRANTED_AT DESC LIMIT 1`

	var consent models.Consent
	if err := dao.db.GetContext(ctx, &consent, query, userID, consentType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("active consent", string(consentType))
		}
		return nil, fmt.Errorf("failed to get current consent: %w", err)
	}

	return &consent, nil
}

// Revoke stamps REVOKED_AT on an active consent owned by userID.
// It returns false when no row matched, leaving the caller to tell
// "missing" from "already revoked".
func (dao *ConsentDAO) Revoke(ctx context.Context, consentID, userID string, revokedAt int64) (bool, error) {
	query := `
		UPDATE LGPD_CONSENT
		SET REVOKED_AT = ?, UPDATED_TIME = ?
		WHERE CONSENT_ID = ? AND USER_ID = ? AND REVOKED_AT IS NULL
	`

	result, err := dao.db.ExecContext(ctx, query, revokedAt, revokedAt, consentID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to revoke consent: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// RevokeAllActiveWithTx revokes every active consent of a user inside a transaction
func (dao *ConsentDAO) RevokeAllActiveWithTx(ctx context.Context, tx *database.Transaction, userID string, revokedAt int64) (int64, error) {
	query := `
		UPDATE LGPD_CONSENT
		SET REVOKED_AT = ?, UPDATED_TIME = ?
		WHERE USER_ID = ? AND GRANTED = TRUE AND REVOKED_AT IS NULL
	`

	result, err := tx.ExecContext(ctx, query, revokedAt, revokedAt, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke consents with transaction: %w", err)
	}

	return rowsAffected(result)
}
