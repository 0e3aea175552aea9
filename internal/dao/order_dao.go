package dao

import (
	"context"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

// OrderDAO handles database operations for marketplace service orders
type OrderDAO struct {
	db *database.DB
}

// NewOrderDAO creates a new OrderDAO instance
func NewOrderDAO(db *database.DB) *OrderDAO {
	return &OrderDAO{db: db}
}

// ListByCustomer returns every order placed by a user, newest first
func (dao *OrderDAO) ListByCustomer(ctx context.Context, customerID string) ([]models.Order, error) {
	query := `
		SELECT ORDER_ID, CUSTOMER_ID, PROVIDER_ID, CUSTOMER_NAME, CUSTOMER_EMAIL, CUSTOMER_PHONE,
		       CUSTOMER_CPF, SERVICE_ADDRESS, DESCRIPTION, AMOUNT, STATUS, ANONYMIZED,
		       ANONYMIZED_AT, CREATED_TIME, UPDATED_TIME
		FROM AR_ORDER
		WHERE CUSTOMER_ID = ?
		ORDER BY CREATED_TIME DESC
	`

	orders := []models.Order{}
	if err := dao.db.SelectContext(ctx, &orders, query, customerID); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}

// AnonymizeByCustomerWithTx strips customer-identifying fields from every order
// of a user in one statement and returns how many orders were touched
func (dao *OrderDAO) AnonymizeByCustomerWithTx(ctx context.Context, tx *database.Transaction, customerID string, anonymizedAt int64) (int64, error) {
	query := `
		UPDATE AR_ORDER
		SET CUSTOMER_NAME = ?, CUSTOMER_EMAIL = NULL, CUSTOMER_PHONE = NULL, CUSTOMER_CPF = NULL,
		    SERVICE_ADDRESS = NULL, ANONYMIZED = TRUE, ANONYMIZED_AT = ?, UPDATED_TIME = ?
		WHERE CUSTOMER_ID = ?
	`

	result, err := tx.ExecContext(ctx, query, models.AnonymizedCustomerName, anonymizedAt, anonymizedAt, customerID)
	if err != nil {
		return 0, fmt.Errorf("failed to anonymize orders with transaction: %w", err)
	}

	return rowsAffected(result)
}
