package handlers

import (
	"errors"

	"github.com/aquiresolve/admin-api/internal/pagarme"
	"github.com/aquiresolve/admin-api/internal/service"
	"github.com/aquiresolve/admin-api/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// errorResponder turns service errors into failure envelopes
type errorResponder struct {
	debugErrors bool
	logger      *logrus.Logger
}

func (r errorResponder) respond(c *gin.Context, err error, fallback string) {
	var apiErr *pagarme.APIError

	switch {
	case errors.Is(err, service.ErrValidation):
		utils.SendValidationError(c, err.Error())
	case errors.Is(err, service.ErrUnsupportedFormat):
		utils.SendUnsupportedFormatError(c, err.Error())
	case errors.Is(err, service.ErrNotFound):
		utils.SendNotFoundError(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		utils.SendConflictError(c, err.Error())
	case errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		utils.SendGatewayError(c, apiErr.Message, apiErr.Errors)
	default:
		r.logger.WithFields(logrus.Fields{
			"path":           c.FullPath(),
			"correlation_id": utils.GetCorrelationIDFromContext(c),
		}).WithError(err).Error(fallback)

		details := ""
		if r.debugErrors {
			details = err.Error()
		}
		if errors.Is(err, pagarme.ErrCircuitOpen) {
			fallback = "Payment gateway temporarily unavailable"
		}
		utils.SendInternalServerError(c, fallback, details)
	}
}
