package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

// UserDAO handles database operations for marketplace user profiles
type UserDAO struct {
	db *database.DB
}

// NewUserDAO creates a new UserDAO instance
func NewUserDAO(db *database.DB) *UserDAO {
	return &UserDAO{db: db}
}

// GetByID retrieves a user profile by ID
func (dao *UserDAO) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `
		SELECT USER_ID, EMAIL, NAME, PHONE, CPF, ADDRESS, USER_TYPE, STATUS, PASSWORD_HASH,
		       ANONYMIZED, ANONYMIZED_AT, CREATED_TIME, UPDATED_TIME
		FROM AR_USER
		WHERE USER_ID = ?
	`

	var user models.User
	if err := dao.db.GetContext(ctx, &user, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("user", userID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// AnonymizeWithTx replaces the identifying fields of a user inside a transaction.
// The credential hash is dropped as well.
func (dao *UserDAO) AnonymizeWithTx(ctx context.Context, tx *database.Transaction, userID, placeholderEmail string, anonymizedAt int64) error {
	query := `
		UPDATE AR_USER
		SET EMAIL = ?, NAME = ?, PHONE = NULL, CPF = NULL, ADDRESS = NULL, PASSWORD_HASH = NULL,
		    STATUS = ?, ANONYMIZED = TRUE, ANONYMIZED_AT = ?, UPDATED_TIME = ?
		WHERE USER_ID = ?
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		placeholderEmail,
		models.AnonymizedUserName,
		models.UserStatusAnonymized,
		anonymizedAt,
		anonymizedAt,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to anonymize user with transaction: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound("user", userID)
	}

	return nil
}
