package service

import (
	"errors"
	"fmt"

	"github.com/aquiresolve/admin-api/internal/dao"
)

// Error kinds returned by the services. Handlers map them to HTTP statuses with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = dao.ErrNotFound
	ErrConflict          = errors.New("conflict with current state")
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

func validationErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFoundErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func conflictErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
