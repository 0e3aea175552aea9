package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/models"
)

// PaymentObjectDAO keeps the local mirror of gateway objects
type PaymentObjectDAO struct {
	db *database.DB
}

// NewPaymentObjectDAO creates a new PaymentObjectDAO instance
func NewPaymentObjectDAO(db *database.DB) *PaymentObjectDAO {
	return &PaymentObjectDAO{db: db}
}

// Upsert inserts the object or overwrites the mirrored copy with the same key
func (dao *PaymentObjectDAO) Upsert(ctx context.Context, obj *models.PaymentObject) error {
	query := `
		INSERT INTO PAGARME_OBJECT (
			OBJECT_TYPE, GATEWAY_ID, STATUS, AMOUNT_CENTS, CUSTOMER_ID, PAYLOAD, SYNCED_AT
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			STATUS = VALUES(STATUS),
			AMOUNT_CENTS = VALUES(AMOUNT_CENTS),
			CUSTOMER_ID = VALUES(CUSTOMER_ID),
			PAYLOAD = VALUES(PAYLOAD),
			SYNCED_AT = VALUES(SYNCED_AT)
	`

	_, err := dao.db.ExecContext(
		ctx,
		query,
		obj.ObjectType,
		obj.GatewayID,
		obj.Status,
		obj.AmountCents,
		obj.CustomerID,
		obj.Payload,
		obj.SyncedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert payment object: %w", err)
	}

	return nil
}

// Get retrieves one mirrored object
func (dao *PaymentObjectDAO) Get(ctx context.Context, objectType models.PaymentObjectType, gatewayID string) (*models.PaymentObject, error) {
	query := `
		SELECT OBJECT_TYPE, GATEWAY_ID, STATUS, AMOUNT_CENTS, CUSTOMER_ID, PAYLOAD, SYNCED_AT
		FROM PAGARME_OBJECT
		WHERE OBJECT_TYPE = ? AND GATEWAY_ID = ?
	`

	var obj models.PaymentObject
	if err := dao.db.GetContext(ctx, &obj, query, objectType, gatewayID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(string(objectType), gatewayID)
		}
		return nil, fmt.Errorf("failed to get payment object: %w", err)
	}

	return &obj, nil
}

// ListByType returns every mirrored object of one type
func (dao *PaymentObjectDAO) ListByType(ctx context.Context, objectType models.PaymentObjectType) ([]models.PaymentObject, error) {
	query := `
		SELECT OBJECT_TYPE, GATEWAY_ID, STATUS, AMOUNT_CENTS, CUSTOMER_ID, PAYLOAD, SYNCED_AT
		FROM PAGARME_OBJECT
		WHERE OBJECT_TYPE = ?
		ORDER BY SYNCED_AT DESC
	`

	objects := []models.PaymentObject{}
	if err := dao.db.SelectContext(ctx, &objects, query, objectType); err != nil {
		return nil, fmt.Errorf("failed to list payment objects: %w", err)
	}

	return objects, nil
}
