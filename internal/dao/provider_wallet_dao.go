package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

var (
	// ErrInsufficientBalance is returned when a debit would take a wallet below zero
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	// ErrDuplicateMovement is returned when an event already moved a wallet
	ErrDuplicateMovement = errors.New("wallet movement already applied")
)

const mysqlDuplicateEntry = 1062

// ProviderWalletDAO handles provider wallet balances. Every balance change
// is a single SQL statement so concurrent webhooks cannot lose updates, and
// runs in the transaction that records its movement.
type ProviderWalletDAO struct {
	db *database.DB
}

// NewProviderWalletDAO creates a new ProviderWalletDAO instance
func NewProviderWalletDAO(db *database.DB) *ProviderWalletDAO {
	return &ProviderWalletDAO{db: db}
}

// Get retrieves a provider wallet
func (dao *ProviderWalletDAO) Get(ctx context.Context, providerID string) (*models.ProviderWallet, error) {
	query := `SELECT PROVIDER_ID, BALANCE, UPDATED_TIME FROM PROVIDER_WALLET WHERE PROVIDER_ID = ?`

	var wallet models.ProviderWallet
	if err := dao.db.GetContext(ctx, &wallet, query, providerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("provider wallet", providerID)
		}
		return nil, fmt.Errorf("failed to get provider wallet: %w", err)
	}

	return &wallet, nil
}

// RecordMovementWithTx stores the movement a webhook event causes. The event
// id is unique, so a redelivered event fails with ErrDuplicateMovement.
func (dao *ProviderWalletDAO) RecordMovementWithTx(ctx context.Context, tx *database.Transaction, movement *models.WalletMovement) error {
	query := `
		INSERT INTO PROVIDER_WALLET_MOVEMENT (
			EVENT_ID, PROVIDER_ID, CHARGE_ID, DIRECTION, AMOUNT, CREATED_TIME
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := tx.ExecContext(
		ctx,
		query,
		movement.EventID,
		movement.ProviderID,
		movement.ChargeID,
		movement.Direction,
		movement.Amount,
		movement.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return fmt.Errorf("event %s: %w", movement.EventID, ErrDuplicateMovement)
		}
		return fmt.Errorf("failed to record wallet movement: %w", err)
	}

	return nil
}

// CreditWithTx adds amount to the wallet, creating it on first credit
func (dao *ProviderWalletDAO) CreditWithTx(ctx context.Context, tx *database.Transaction, providerID string, amount decimal.Decimal, updatedAt int64) error {
	query := `
		INSERT INTO PROVIDER_WALLET (PROVIDER_ID, BALANCE, UPDATED_TIME)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE BALANCE = BALANCE + VALUES(BALANCE), UPDATED_TIME = VALUES(UPDATED_TIME)
	`

	if _, err := tx.ExecContext(ctx, query, providerID, amount, updatedAt); err != nil {
		return fmt.Errorf("failed to credit provider wallet: %w", err)
	}

	return nil
}

// DebitWithTx subtracts amount only when the balance covers it
func (dao *ProviderWalletDAO) DebitWithTx(ctx context.Context, tx *database.Transaction, providerID string, amount decimal.Decimal, updatedAt int64) error {
	query := `
		UPDATE PROVIDER_WALLET
		SET BALANCE = BALANCE - ?, UPDATED_TIME = ?
		WHERE PROVIDER_ID = ? AND BALANCE >= ?
	`

	result, err := tx.ExecContext(ctx, query, amount, updatedAt, providerID, amount)
	if err != nil {
		return fmt.Errorf("failed to debit provider wallet: %w", err)
	}

	n, err := rowsAffected(result)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("provider %s: %w", providerID, ErrInsufficientBalance)
	}

	return nil
}
