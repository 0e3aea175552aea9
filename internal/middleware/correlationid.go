package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aquiresolve/admin-api/internal/pagarme"
	"github.com/aquiresolve/admin-api/internal/utils"
)

// CorrelationIDHeader is echoed on every response
const CorrelationIDHeader = "X-Correlation-ID"

var correlationHeaders = []string{CorrelationIDHeader, "X-Request-ID", "X-Trace-ID"}

// CorrelationID reuses an incoming correlation header or generates one, and
// exposes it to handlers and to outbound gateway calls
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := extractCorrelationID(c)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Set(utils.CorrelationIDKey, correlationID)
		c.Header(CorrelationIDHeader, correlationID)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), pagarme.CorrelationIDContextKey, correlationID))
		c.Next()
	}
}

func extractCorrelationID(c *gin.Context) string {
	for _, header := range correlationHeaders {
		if id := c.GetHeader(header); id != "" && len(id) <= 128 {
			return id
		}
	}
	return ""
}
