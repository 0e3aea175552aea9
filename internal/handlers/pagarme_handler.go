package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/sirupsen/logrus"

	"github.com/aquiresolve/admin-api/internal/pagarme"
	"github.com/aquiresolve/admin-api/internal/service"
	"github.com/aquiresolve/admin-api/internal/utils"
)

type closeOrderBody struct {
	Status string `json:"status" binding:"required,oneof=paid canceled failed"`
}

type amountBody struct {
	Amount *int64 `json:"amount" binding:"omitempty,gt=0"`
}

// PagarmeHandler handles the payment gateway proxy and webhook routes
type PagarmeHandler struct {
	payments *service.PaymentService
	webhooks *service.WebhookService
	logger   *logrus.Logger
	errorResponder
}

// NewPagarmeHandler creates a new payment gateway handler instance
func NewPagarmeHandler(payments *service.PaymentService, webhooks *service.WebhookService, debugErrors bool, logger *logrus.Logger) *PagarmeHandler {
	return &PagarmeHandler{
		payments:       payments,
		webhooks:       webhooks,
		logger:         logger,
		errorResponder: errorResponder{debugErrors: debugErrors, logger: logger},
	}
}

// CreateOrder handles POST /orders
func (h *PagarmeHandler) CreateOrder(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	order, err := h.payments.CreateOrder(c.Request.Context(), body)
	h.sendResource(c, order, err, "Failed to create order", true)
}

// GetOrder handles GET /orders/:id
func (h *PagarmeHandler) GetOrder(c *gin.Context) {
	order, err := h.payments.GetOrder(c.Request.Context(), c.Param("id"))
	h.sendResource(c, order, err, "Failed to get order", false)
}

// ListOrders handles GET /orders
func (h *PagarmeHandler) ListOrders(c *gin.Context) {
	list, err := h.payments.ListOrders(c.Request.Context(), c.Request.URL.Query())
	h.sendList(c, list, err, "Failed to list orders")
}

// CloseOrder handles PATCH /orders/:id/close
func (h *PagarmeHandler) CloseOrder(c *gin.Context) {
	var req closeOrderBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	order, err := h.payments.CloseOrder(c.Request.Context(), c.Param("id"), req.Status)
	h.sendResource(c, order, err, "Failed to close order", false)
}

// GetCharge handles GET /charges/:id
func (h *PagarmeHandler) GetCharge(c *gin.Context) {
	charge, err := h.payments.GetCharge(c.Request.Context(), c.Param("id"))
	h.sendResource(c, charge, err, "Failed to get charge", false)
}

// ListCharges handles GET /charges
func (h *PagarmeHandler) ListCharges(c *gin.Context) {
	list, err := h.payments.ListCharges(c.Request.Context(), c.Request.URL.Query())
	h.sendList(c, list, err, "Failed to list charges")
}

// CaptureCharge handles POST /charges/:id/capture
func (h *PagarmeHandler) CaptureCharge(c *gin.Context) {
	var req amountBody
	if !bindOptionalJSON(c, &req) {
		return
	}
	charge, err := h.payments.CaptureCharge(c.Request.Context(), c.Param("id"), req.Amount)
	h.sendResource(c, charge, err, "Failed to capture charge", false)
}

// CancelCharge handles DELETE /charges/:id. An amount refunds partially.
func (h *PagarmeHandler) CancelCharge(c *gin.Context) {
	var req amountBody
	if !bindOptionalJSON(c, &req) {
		return
	}
	charge, err := h.payments.CancelCharge(c.Request.Context(), c.Param("id"), req.Amount)
	h.sendResource(c, charge, err, "Failed to cancel charge", false)
}

// CreateSubscription handles POST /subscriptions
func (h *PagarmeHandler) CreateSubscription(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	sub, err := h.payments.CreateSubscription(c.Request.Context(), body)
	h.sendResource(c, sub, err, "Failed to create subscription", true)
}

// GetSubscription handles GET /subscriptions/:id
func (h *PagarmeHandler) GetSubscription(c *gin.Context) {
	sub, err := h.payments.GetSubscription(c.Request.Context(), c.Param("id"))
	h.sendResource(c, sub, err, "Failed to get subscription", false)
}

// ListSubscriptions handles GET /subscriptions
func (h *PagarmeHandler) ListSubscriptions(c *gin.Context) {
	list, err := h.payments.ListSubscriptions(c.Request.Context(), c.Request.URL.Query())
	h.sendList(c, list, err, "Failed to list subscriptions")
}

// CancelSubscription handles DELETE /subscriptions/:id
func (h *PagarmeHandler) CancelSubscription(c *gin.Context) {
	cancelPending, _ := strconv.ParseBool(c.DefaultQuery("cancel_pending_invoices", "true"))
	sub, err := h.payments.CancelSubscription(c.Request.Context(), c.Param("id"), cancelPending)
	h.sendResource(c, sub, err, "Failed to cancel subscription", false)
}

// CreateCustomer handles POST /customers
func (h *PagarmeHandler) CreateCustomer(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	customer, err := h.payments.CreateCustomer(c.Request.Context(), body)
	h.sendResource(c, customer, err, "Failed to create customer", true)
}

// GetCustomer handles GET /customers/:id
func (h *PagarmeHandler) GetCustomer(c *gin.Context) {
	customer, err := h.payments.GetCustomer(c.Request.Context(), c.Param("id"))
	h.sendResource(c, customer, err, "Failed to get customer", false)
}

// ListCustomers handles GET /customers
func (h *PagarmeHandler) ListCustomers(c *gin.Context) {
	list, err := h.payments.ListCustomers(c.Request.Context(), c.Request.URL.Query())
	h.sendList(c, list, err, "Failed to list customers")
}

// UpdateCustomer handles PUT /customers/:id
func (h *PagarmeHandler) UpdateCustomer(c *gin.Context) {
	body, ok := rawBody(c)
	if !ok {
		return
	}
	customer, err := h.payments.UpdateCustomer(c.Request.Context(), c.Param("id"), body)
	h.sendResource(c, customer, err, "Failed to update customer", false)
}

// GetRecipientBalance handles GET /balance/:recipientId
func (h *PagarmeHandler) GetRecipientBalance(c *gin.Context) {
	balance, err := h.payments.GetRecipientBalance(c.Request.Context(), c.Param("recipientId"))
	if err != nil {
		h.respond(c, err, "Failed to get recipient balance")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": balance})
}

// GetAnalytics handles GET /analytics
func (h *PagarmeHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.payments.GetAnalytics(c.Request.Context())
	if err != nil {
		h.respond(c, err, "Failed to build payment analytics")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": analytics})
}

// ListSyncLogs handles GET /sync-logs
func (h *PagarmeHandler) ListSyncLogs(c *gin.Context) {
	page := utils.PaginationFromQuery(c)
	entries, total, err := h.payments.ListSyncLogs(c.Request.Context(), page.Limit, page.Offset)
	if err != nil {
		h.respond(c, err, "Failed to list sync logs")
		return
	}
	utils.SendOKResponse(c, gin.H{
		"data":       entries,
		"pagination": utils.CalculatePaginationMetadata(total, page.Limit, page.Offset),
	})
}

// GetProviderWallet handles GET /wallets/:providerId
func (h *PagarmeHandler) GetProviderWallet(c *gin.Context) {
	wallet, err := h.webhooks.WalletBalance(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		h.respond(c, err, "Failed to get provider wallet")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": wallet})
}

func (h *PagarmeHandler) sendResource(c *gin.Context, res *pagarme.Resource, err error, failure string, created bool) {
	if err != nil {
		h.respond(c, err, failure)
		return
	}
	if created {
		utils.SendCreatedResponse(c, gin.H{"data": res})
		return
	}
	utils.SendOKResponse(c, gin.H{"data": res})
}

func (h *PagarmeHandler) sendList(c *gin.Context, list *pagarme.List, err error, failure string) {
	if err != nil {
		h.respond(c, err, failure)
		return
	}
	utils.SendOKResponse(c, gin.H{"data": list.Data, "paging": list.Paging})
}

// rawBody reads a JSON body to forward untouched
func rawBody(c *gin.Context) (json.RawMessage, bool) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 || !json.Valid(body) {
		utils.SendBadRequestError(c, "Request body must be valid JSON", "")
		return nil, false
	}
	return body, true
}

// bindOptionalJSON binds and validates a body that may be absent
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	body, err := c.GetRawData()
	if err != nil {
		utils.SendBadRequestError(c, "Failed to read request body", err.Error())
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := binding.JSON.BindBody(body, obj); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return false
	}
	return true
}
