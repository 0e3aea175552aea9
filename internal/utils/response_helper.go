package utils

import (
	"encoding/json"
	"net/http"

	"github.com/aquiresolve/admin-api/internal/models"
	pkgutils "github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// CorrelationIDKey is the gin context key holding the request correlation ID
const CorrelationIDKey = "correlationID"

// SendSuccessResponse sends a success envelope with the given top-level fields
func SendSuccessResponse(c *gin.Context, statusCode int, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(statusCode, body)
}

// SendOKResponse sends a 200 OK success envelope
func SendOKResponse(c *gin.Context, fields gin.H) {
	SendSuccessResponse(c, http.StatusOK, fields)
}

// SendCreatedResponse sends a 201 Created success envelope
func SendCreatedResponse(c *gin.Context, fields gin.H) {
	SendSuccessResponse(c, http.StatusCreated, fields)
}

// SendErrorResponse sends a failure envelope
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.NewErrorResponse(errCode, message, details))
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeBadRequest, message, details)
}

// SendValidationError sends a validation error response
func SendValidationError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeValidationError, "Validation failed", details)
}

// SendUnsupportedFormatError sends a 400 for an export format that is not implemented
func SendUnsupportedFormatError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeUnsupportedFormat, message, "")
}

// SendGatewayError sends a 400 carrying the payment gateway's own error list
func SendGatewayError(c *gin.Context, message string, gatewayErrors json.RawMessage) {
	resp := models.NewErrorResponse(models.ErrCodeGatewayError, message, "")
	resp.Errors = gatewayErrors
	c.JSON(http.StatusBadRequest, resp)
}

// SendNotFoundError sends a 404 Not Found error
func SendNotFoundError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusNotFound, models.ErrCodeNotFound, message, "")
}

// SendConflictError sends a 409 Conflict error
func SendConflictError(c *gin.Context, message string) {
	SendErrorResponse(c, http.StatusConflict, models.ErrCodeConflict, message, "")
}

// SendInternalServerError sends a 500 Internal Server Error
func SendInternalServerError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusInternalServerError, models.ErrCodeInternalError, message, details)
}

// GetCorrelationIDFromContext extracts correlation ID from context
func GetCorrelationIDFromContext(c *gin.Context) string {
	correlationID, exists := c.Get(CorrelationIDKey)
	if !exists {
		return pkgutils.GenerateID()
	}
	return correlationID.(string)
}
