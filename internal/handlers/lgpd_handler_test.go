package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/internal/service"
	"github.com/aquiresolve/admin-api/internal/service/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

type lgpdFixture struct {
	consentDAO *mocks.MockConsentDAO
	logDAO     *mocks.MockProcessingLogDAO
	requestDAO *mocks.MockDataRequestDAO
	userDAO    *mocks.MockUserDAO
	orderDAO   *mocks.MockOrderDAO
	policyDAO  *mocks.MockRetentionPolicyDAO
	tx         *mocks.MockTxRunner
	router     *gin.Engine
}

func newLGPDFixture(debugErrors bool) *lgpdFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	m := metrics.New(prometheus.NewRegistry())

	f := &lgpdFixture{
		consentDAO: &mocks.MockConsentDAO{},
		logDAO:     &mocks.MockProcessingLogDAO{},
		requestDAO: &mocks.MockDataRequestDAO{},
		userDAO:    &mocks.MockUserDAO{},
		orderDAO:   &mocks.MockOrderDAO{},
		policyDAO:  &mocks.MockRetentionPolicyDAO{},
		tx:         &mocks.MockTxRunner{},
	}

	logs := service.NewProcessingLogService(f.logDAO, m, logger)
	h := NewLGPDHandler(
		service.NewConsentService(f.consentDAO, logs, "1.0", m, logger),
		logs,
		service.NewDataRequestService(f.requestDAO, m, logger),
		service.NewDeletionService(f.userDAO, f.orderDAO, f.consentDAO, f.requestDAO, logs, f.tx, "anonimizado.test", m, logger),
		service.NewPortabilityService(f.userDAO, f.orderDAO, f.consentDAO, f.requestDAO, logs, logger),
		service.NewRetentionPolicyService(f.policyDAO),
		debugErrors,
		logger,
	)

	r := gin.New()
	r.POST("/consent", h.ManageConsent)
	r.GET("/consent", h.GetConsent)
	r.POST("/rights/delete", h.DeleteUserData)
	r.GET("/rights/portability", h.ExportUserData)
	r.POST("/requests", h.CreateDataRequest)
	r.GET("/requests", h.ListDataRequests)
	r.PATCH("/requests/:requestId/status", h.UpdateDataRequestStatus)
	r.POST("/processing-logs", h.LogProcessingActivity)
	r.GET("/retention-policies", h.ListRetentionPolicies)
	f.router = r
	return f
}

func (f *lgpdFixture) do(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestDeleteUserData_RequiresConfirm(t *testing.T) {
	for _, body := range []gin.H{
		{"userId": "user-1", "userEmail": "user-1@example.com"},
		{"userId": "user-1", "userEmail": "user-1@example.com", "confirm": false},
	} {
		f := newLGPDFixture(false)

		w, resp := f.do(http.MethodPost, "/rights/delete", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, resp["success"])
		assert.Equal(t, 0, f.tx.Calls)
		f.userDAO.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	}
}

func TestDeleteUserData_Confirmed(t *testing.T) {
	f := newLGPDFixture(false)

	f.userDAO.On("GetByID", mock.Anything, "user-1").Return(&models.User{ID: "user-1"}, nil)
	f.userDAO.On("AnonymizeWithTx", mock.Anything, mock.Anything, "user-1", mock.Anything, mock.Anything).Return(nil)
	f.orderDAO.On("AnonymizeByCustomerWithTx", mock.Anything, mock.Anything, "user-1", mock.Anything).Return(int64(1), nil)
	f.consentDAO.On("RevokeAllActiveWithTx", mock.Anything, mock.Anything, "user-1", mock.Anything).Return(int64(4), nil)
	f.logDAO.On("Create", mock.Anything, mock.Anything).Return(nil)

	w, resp := f.do(http.MethodPost, "/rights/delete", gin.H{
		"userId": "user-1", "userEmail": "user-1@example.com", "confirm": true,
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["success"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["consentsRevoked"])
	assert.Equal(t, 1, f.tx.Calls)
}

func TestManageConsent_GrantReturnsConsentID(t *testing.T) {
	f := newLGPDFixture(false)

	f.consentDAO.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.logDAO.On("Create", mock.Anything, mock.Anything).Return(nil)

	w, resp := f.do(http.MethodPost, "/consent", gin.H{
		"userId": "user-1", "userEmail": "user-1@example.com",
		"consentType": "marketing_email", "action": "grant",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, resp["success"])
	assert.Contains(t, resp["consentId"], "CONSENT-")
}

func TestManageConsent_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body gin.H
	}{
		{"missing action", gin.H{"userId": "user-1", "userEmail": "a@b.com", "consentType": "termos_uso"}},
		{"unknown action", gin.H{"userId": "user-1", "action": "toggle"}},
		{"unknown consent type", gin.H{"userId": "user-1", "userEmail": "a@b.com", "consentType": "newsletter", "action": "grant"}},
		{"grant without email", gin.H{"userId": "user-1", "consentType": "termos_uso", "action": "grant"}},
		{"revoke without consent id", gin.H{"userId": "user-1", "action": "revoke"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLGPDFixture(false)

			w, resp := f.do(http.MethodPost, "/consent", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, resp["success"])
			f.consentDAO.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestManageConsent_RevokeForeignConsentIs404(t *testing.T) {
	f := newLGPDFixture(false)

	f.consentDAO.On("GetByID", mock.Anything, "CONSENT-1").Return(&models.Consent{
		ID: "CONSENT-1", UserID: "owner", Granted: true, ConsentType: models.ConsentTermosUso,
	}, nil)

	w, resp := f.do(http.MethodPost, "/consent", gin.H{
		"userId": "intruder", "action": "revoke", "consentId": "CONSENT-1",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, models.ErrCodeNotFound, resp["code"])
}

func TestGetConsent_HasConsent(t *testing.T) {
	f := newLGPDFixture(false)

	f.consentDAO.On("HasActive", mock.Anything, "user-1", models.ConsentCookiesAnaliticos).Return(true, nil)

	w, resp := f.do(http.MethodGet, "/consent?userId=user-1&consentType=cookies_analiticos", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, resp["hasConsent"])
}

func TestGetConsent_ListsWithoutType(t *testing.T) {
	f := newLGPDFixture(false)

	f.consentDAO.On("ListByUser", mock.Anything, "user-1").Return([]models.Consent{{ID: "CONSENT-1"}}, nil)

	w, resp := f.do(http.MethodGet, "/consent?userId=user-1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, resp["consents"], 1)
}

func TestExportUserData_CSVIsUnsupported(t *testing.T) {
	f := newLGPDFixture(false)

	w, resp := f.do(http.MethodGet, "/rights/portability?userId=user-1&format=csv", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, models.ErrCodeUnsupportedFormat, resp["code"])
}

func TestUpdateDataRequestStatus_RejectsUnknownStatus(t *testing.T) {
	f := newLGPDFixture(false)

	w, _ := f.do(http.MethodPatch, "/requests/DSR-1/status", gin.H{"status": "arquivado", "handledBy": "dpo"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.requestDAO.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateDataRequestStatus_TerminalIsConflict(t *testing.T) {
	f := newLGPDFixture(false)

	f.requestDAO.On("GetByID", mock.Anything, "DSR-1").Return(&models.DataSubjectRequest{
		ID: "DSR-1", Status: models.StatusConcluido,
	}, nil)

	w, resp := f.do(http.MethodPatch, "/requests/DSR-1/status", gin.H{"status": "em_andamento", "handledBy": "dpo"})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, models.ErrCodeConflict, resp["code"])
}

func TestListDataRequests_Paginates(t *testing.T) {
	f := newLGPDFixture(false)

	f.requestDAO.On("List", mock.Anything, models.StatusPendente, 10, 0).
		Return([]models.DataSubjectRequest{{ID: "DSR-1"}}, 25, nil)

	w, resp := f.do(http.MethodGet, "/requests?status=pendente&limit=10", nil)

	require.Equal(t, http.StatusOK, w.Code)
	pagination := resp["pagination"].(map[string]interface{})
	assert.Equal(t, float64(25), pagination["total"])
	assert.Equal(t, true, pagination["hasMore"])
}

func TestInternalErrorsHideDetailsUnlessDebug(t *testing.T) {
	for _, debug := range []bool{false, true} {
		f := newLGPDFixture(debug)
		f.policyDAO.On("List", mock.Anything).Return(nil, errors.New("dial tcp 10.0.0.5:3306: i/o timeout"))

		w, resp := f.do(http.MethodGet, "/retention-policies", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		if debug {
			assert.Contains(t, resp["details"], "i/o timeout")
		} else {
			assert.Nil(t, resp["details"])
		}
	}
}

func TestLogProcessingActivity_Created(t *testing.T) {
	f := newLGPDFixture(false)

	f.logDAO.On("Create", mock.Anything, mock.MatchedBy(func(e *models.DataProcessingLog) bool {
		return e.Activity == models.ActivityAcessoDados && len(e.DataTypes) == 1
	})).Return(nil)

	w, resp := f.do(http.MethodPost, "/processing-logs", gin.H{
		"userId":     "user-1",
		"userEmail":  "user-1@example.com",
		"activity":   "acesso_dados",
		"dataType":   []string{"dados_cadastrais", "dados_cadastrais"},
		"legalBasis": "execucao_contrato",
		"purpose":    "Atendimento ao cliente",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, resp["success"])
}

func TestLogProcessingActivity_RejectsUnknownEnums(t *testing.T) {
	valid := func() gin.H {
		return gin.H{
			"userId":     "user-1",
			"userEmail":  "user-1@example.com",
			"activity":   "acesso_dados",
			"dataType":   []string{"dados_cadastrais"},
			"legalBasis": "execucao_contrato",
			"purpose":    "Atendimento ao cliente",
		}
	}
	tests := []struct {
		name   string
		mutate func(gin.H)
	}{
		{"unknown activity", func(b gin.H) { b["activity"] = "venda_dados" }},
		{"unknown legal basis", func(b gin.H) { b["legalBasis"] = "interesse_comercial" }},
		{"empty data types", func(b gin.H) { b["dataType"] = []string{} }},
		{"missing purpose", func(b gin.H) { delete(b, "purpose") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLGPDFixture(false)
			body := valid()
			tt.mutate(body)

			w, resp := f.do(http.MethodPost, "/processing-logs", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, resp["success"])
			f.logDAO.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}
