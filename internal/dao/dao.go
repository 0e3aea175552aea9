package dao

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every lookup that matched no row
var ErrNotFound = errors.New("record not found")

func notFound(entity, id string) error {
	return fmt.Errorf("%s not found: %s: %w", entity, id, ErrNotFound)
}

// rowsAffected returns the affected row count of an exec result
func rowsAffected(result sql.Result) (int64, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
