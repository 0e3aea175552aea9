package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aquiresolve/admin-api/internal/pagarme"
)

// maxWebhookBody caps how much of a delivery is read
const maxWebhookBody = 1 << 20

// ReceiveWebhook handles POST /webhooks. The gateway always gets 200 so it
// does not retry; the outcome is kept in the sync log.
func (h *PagarmeHandler) ReceiveWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	body, err := c.GetRawData()
	if err != nil {
		// recorded as a malformed delivery
		h.logger.WithError(err).Warn("Failed to read webhook body")
		body = nil
	}

	result := h.webhooks.HandleWebhook(c.Request.Context(), body, c.GetHeader(pagarme.SignatureHeader))

	c.JSON(http.StatusOK, gin.H{"success": true, "status": result.Status})
}
