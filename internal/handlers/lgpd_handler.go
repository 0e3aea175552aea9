package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	handlerutils "github.com/aquiresolve/admin-api/internal/handlers/utils"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/internal/service"
	"github.com/aquiresolve/admin-api/internal/utils"
)

// Consent actions accepted by POST /consent
const (
	consentActionGrant  = "grant"
	consentActionRevoke = "revoke"
)

type consentRequest struct {
	UserID      string             `json:"userId" binding:"required,max=64"`
	UserEmail   string             `json:"userEmail" binding:"omitempty,email"`
	ConsentType models.ConsentType `json:"consentType" binding:"omitempty,consent_type"`
	Action      string             `json:"action" binding:"required,oneof=grant revoke"`
	Version     string             `json:"version" binding:"max=32"`
	ConsentID   string             `json:"consentId" binding:"max=64"`
}

type deletionRequest struct {
	UserID    string  `json:"userId" binding:"required,max=64"`
	UserEmail string  `json:"userEmail" binding:"required,email"`
	RequestID *string `json:"requestId"`
	HandledBy string  `json:"handledBy"`
	Confirm   *bool   `json:"confirm"`
}

type createDataRequestBody struct {
	UserID      string             `json:"userId" binding:"required,max=64"`
	UserEmail   string             `json:"userEmail" binding:"required,email"`
	RequestType models.RequestType `json:"requestType" binding:"required,request_type"`
	Description *string            `json:"description" binding:"omitempty,max=2000"`
}

type statusUpdateBody struct {
	Status          models.RequestStatus   `json:"status" binding:"required,request_status"`
	HandledBy       string                 `json:"handledBy" binding:"required"`
	Notes           *string                `json:"notes"`
	RejectionReason *string                `json:"rejectionReason"`
	ResponseData    map[string]interface{} `json:"responseData"`
}

// LGPDHandler handles consent, data-subject rights and audit HTTP requests
type LGPDHandler struct {
	consents       *service.ConsentService
	processingLogs *service.ProcessingLogService
	requests       *service.DataRequestService
	deletion       *service.DeletionService
	portability    *service.PortabilityService
	retention      *service.RetentionPolicyService
	errorResponder
}

// NewLGPDHandler creates a new LGPD handler instance
func NewLGPDHandler(
	consents *service.ConsentService,
	processingLogs *service.ProcessingLogService,
	requests *service.DataRequestService,
	deletion *service.DeletionService,
	portability *service.PortabilityService,
	retention *service.RetentionPolicyService,
	debugErrors bool,
	logger *logrus.Logger,
) *LGPDHandler {
	return &LGPDHandler{
		consents:       consents,
		processingLogs: processingLogs,
		requests:       requests,
		deletion:       deletion,
		portability:    portability,
		retention:      retention,
		errorResponder: errorResponder{debugErrors: debugErrors, logger: logger},
	}
}

// ManageConsent handles POST /consent
func (h *LGPDHandler) ManageConsent(c *gin.Context) {
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	switch req.Action {
	case consentActionGrant:
		if req.UserEmail == "" || req.ConsentType == "" {
			utils.SendValidationError(c, "userEmail and consentType are required to grant a consent")
			return
		}

		consent, err := h.consents.GrantConsent(c.Request.Context(), &service.GrantConsentRequest{
			UserID:      req.UserID,
			UserEmail:   req.UserEmail,
			ConsentType: req.ConsentType,
			Version:     req.Version,
			IPAddress:   handlerutils.ClientIP(c),
			UserAgent:   handlerutils.UserAgent(c),
		})
		if err != nil {
			h.respond(c, err, "Failed to grant consent")
			return
		}
		utils.SendCreatedResponse(c, gin.H{"consentId": consent.ID, "data": consent})

	case consentActionRevoke:
		if req.ConsentID == "" {
			utils.SendValidationError(c, "consentId is required to revoke a consent")
			return
		}

		consent, err := h.consents.RevokeConsent(c.Request.Context(), req.ConsentID, req.UserID,
			handlerutils.ClientIP(c), handlerutils.UserAgent(c))
		if err != nil {
			h.respond(c, err, "Failed to revoke consent")
			return
		}
		utils.SendOKResponse(c, gin.H{"consentId": consent.ID, "message": "Consent revoked", "data": consent})
	}
}

// GetConsent handles GET /consent
func (h *LGPDHandler) GetConsent(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.SendValidationError(c, "userId query parameter is required")
		return
	}

	if consentType := c.Query("consentType"); consentType != "" {
		ok, err := h.consents.HasConsent(c.Request.Context(), userID, models.ConsentType(consentType))
		if err != nil {
			h.respond(c, err, "Failed to check consent")
			return
		}
		utils.SendOKResponse(c, gin.H{"hasConsent": ok})
		return
	}

	consents, err := h.consents.GetUserConsents(c.Request.Context(), userID)
	if err != nil {
		h.respond(c, err, "Failed to list consents")
		return
	}
	utils.SendOKResponse(c, gin.H{"consents": consents})
}

// DeleteUserData handles POST /rights/delete
func (h *LGPDHandler) DeleteUserData(c *gin.Context) {
	var req deletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	if req.Confirm == nil || !*req.Confirm {
		utils.SendValidationError(c, "confirm must be true to erase personal data")
		return
	}

	result, err := h.deletion.DeleteUserData(c.Request.Context(), &service.DeletionRequest{
		UserID:    req.UserID,
		UserEmail: req.UserEmail,
		RequestID: req.RequestID,
		HandledBy: req.HandledBy,
		IPAddress: handlerutils.ClientIP(c),
		UserAgent: handlerutils.UserAgent(c),
	})
	if err != nil {
		h.respond(c, err, "Failed to erase user data")
		return
	}
	utils.SendOKResponse(c, gin.H{"message": "Personal data anonymized", "data": result})
}

// ExportUserData handles GET /rights/portability
func (h *LGPDHandler) ExportUserData(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.SendValidationError(c, "userId query parameter is required")
		return
	}

	export, err := h.portability.Export(c.Request.Context(), userID, c.DefaultQuery("format", service.ExportFormatJSON),
		handlerutils.ClientIP(c), handlerutils.UserAgent(c))
	if err != nil {
		h.respond(c, err, "Failed to export user data")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": export})
}

// CreateDataRequest handles POST /requests
func (h *LGPDHandler) CreateDataRequest(c *gin.Context) {
	var req createDataRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	dsr, err := h.requests.CreateDataSubjectRequest(c.Request.Context(), &service.CreateDataRequest{
		UserID:      req.UserID,
		UserEmail:   req.UserEmail,
		RequestType: req.RequestType,
		Description: req.Description,
	})
	if err != nil {
		h.respond(c, err, "Failed to create data request")
		return
	}
	utils.SendCreatedResponse(c, gin.H{"data": dsr})
}

// ListDataRequests handles GET /requests. With userId it returns that user's
// requests, otherwise a page of the admin queue filtered by status.
func (h *LGPDHandler) ListDataRequests(c *gin.Context) {
	if userID := c.Query("userId"); userID != "" {
		requests, err := h.requests.GetUserRequests(c.Request.Context(), userID)
		if err != nil {
			h.respond(c, err, "Failed to list data requests")
			return
		}
		utils.SendOKResponse(c, gin.H{"data": requests})
		return
	}

	page := utils.PaginationFromQuery(c)
	requests, total, err := h.requests.ListRequests(c.Request.Context(),
		models.RequestStatus(c.Query("status")), page.Limit, page.Offset)
	if err != nil {
		h.respond(c, err, "Failed to list data requests")
		return
	}
	utils.SendOKResponse(c, gin.H{
		"data":       requests,
		"pagination": utils.CalculatePaginationMetadata(total, page.Limit, page.Offset),
	})
}

// GetDataRequest handles GET /requests/:requestId
func (h *LGPDHandler) GetDataRequest(c *gin.Context) {
	dsr, err := h.requests.GetRequest(c.Request.Context(), c.Param("requestId"))
	if err != nil {
		h.respond(c, err, "Failed to get data request")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": dsr})
}

// UpdateDataRequestStatus handles PATCH /requests/:requestId/status
func (h *LGPDHandler) UpdateDataRequestStatus(c *gin.Context) {
	var req statusUpdateBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}

	dsr, err := h.requests.UpdateRequestStatus(c.Request.Context(), c.Param("requestId"), &service.StatusUpdate{
		Status:          req.Status,
		HandledBy:       req.HandledBy,
		Notes:           req.Notes,
		RejectionReason: req.RejectionReason,
		ResponseData:    req.ResponseData,
	})
	if err != nil {
		h.respond(c, err, "Failed to update data request")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": dsr})
}

// LogProcessingActivity handles POST /processing-logs
func (h *LGPDHandler) LogProcessingActivity(c *gin.Context) {
	var req service.ProcessingLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBadRequestError(c, "Invalid request body", err.Error())
		return
	}
	if req.IPAddress == nil {
		req.IPAddress = handlerutils.ClientIP(c)
	}
	if req.UserAgent == nil {
		req.UserAgent = handlerutils.UserAgent(c)
	}

	entry, err := h.processingLogs.LogProcessingActivity(c.Request.Context(), &req)
	if err != nil {
		h.respond(c, err, "Failed to log processing activity")
		return
	}
	utils.SendCreatedResponse(c, gin.H{"data": entry})
}

// ListProcessingLogs handles GET /processing-logs
func (h *LGPDHandler) ListProcessingLogs(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		utils.SendValidationError(c, "userId query parameter is required")
		return
	}

	logs, err := h.processingLogs.GetUserProcessingLogs(c.Request.Context(), userID)
	if err != nil {
		h.respond(c, err, "Failed to list processing logs")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": logs})
}

// ListRetentionPolicies handles GET /retention-policies
func (h *LGPDHandler) ListRetentionPolicies(c *gin.Context) {
	policies, err := h.retention.ListPolicies(c.Request.Context())
	if err != nil {
		h.respond(c, err, "Failed to list retention policies")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": policies})
}

// GetRetentionPolicy handles GET /retention-policies/:dataType
func (h *LGPDHandler) GetRetentionPolicy(c *gin.Context) {
	policy, err := h.retention.GetPolicy(c.Request.Context(), c.Param("dataType"))
	if err != nil {
		h.respond(c, err, "Failed to get retention policy")
		return
	}
	utils.SendOKResponse(c, gin.H{"data": policy})
}
