package models

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the failure envelope returned by every route
type ErrorResponse struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
	Errors  json.RawMessage `json:"errors,omitempty"`
	Details string          `json:"details,omitempty"`
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message, details string) *ErrorResponse {
	return &ErrorResponse{
		Success: false,
		Code:    code,
		Error:   message,
		Details: details,
	}
}

// Common error codes
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInternalError     = "INTERNAL_ERROR"
	ErrCodeDatabaseError     = "DATABASE_ERROR"
	ErrCodeValidationError   = "VALIDATION_ERROR"
	ErrCodeGatewayError      = "GATEWAY_ERROR"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeConsentNotFound   = "CONSENT_NOT_FOUND"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeRequestNotFound   = "REQUEST_NOT_FOUND"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
)

// HTTPStatusForErrorCode returns the appropriate HTTP status code for an error code
func HTTPStatusForErrorCode(code string) int {
	switch code {
	case ErrCodeBadRequest, ErrCodeValidationError, ErrCodeGatewayError, ErrCodeUnsupportedFormat:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeNotFound, ErrCodeConsentNotFound, ErrCodeUserNotFound, ErrCodeRequestNotFound:
		return http.StatusNotFound
	case ErrCodeConflict, ErrCodeInvalidStatus:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
