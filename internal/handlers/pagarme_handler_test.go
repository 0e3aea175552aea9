package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	"github.com/aquiresolve/admin-api/internal/pagarme"
	"github.com/aquiresolve/admin-api/internal/service"
	"github.com/aquiresolve/admin-api/internal/service/mocks"
)

type pagarmeFixture struct {
	gateway  *mocks.MockGateway
	mirror   *mocks.MockPaymentObjectDAO
	syncLogs *mocks.MockSyncLogDAO
	wallets  *mocks.MockWalletDAO
	router   *gin.Engine
}

func newPagarmeFixture(secret string) *pagarmeFixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	m := metrics.New(prometheus.NewRegistry())

	f := &pagarmeFixture{
		gateway:  &mocks.MockGateway{},
		mirror:   &mocks.MockPaymentObjectDAO{},
		syncLogs: &mocks.MockSyncLogDAO{},
		wallets:  &mocks.MockWalletDAO{},
	}

	h := NewPagarmeHandler(
		service.NewPaymentService(f.gateway, f.mirror, f.syncLogs, logger),
		service.NewWebhookService(f.mirror, f.syncLogs, f.wallets, &mocks.MockTxRunner{}, nil, secret, m, logger),
		false,
		logger,
	)

	r := gin.New()
	r.POST("/webhooks", h.ReceiveWebhook)
	r.GET("/orders/:id", h.GetOrder)
	r.DELETE("/charges/:id", h.CancelCharge)
	r.POST("/customers", h.CreateCustomer)
	f.router = r
	return f
}

func (f *pagarmeFixture) send(method, path string, body []byte, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &decoded)
	return w, decoded
}

func TestReceiveWebhook_AlwaysAcknowledges(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status models.SyncStatus
	}{
		{"malformed", `{"type":`, models.SyncFailed},
		{"missing type", `{"id":"hook_1"}`, models.SyncFailed},
		{"unknown type", `{"id":"hook_2","type":"transfer.created","data":{"id":"tr_1"}}`, models.SyncIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPagarmeFixture("")
			f.syncLogs.On("Create", mock.Anything, mock.MatchedBy(func(e *models.SyncLog) bool {
				return e.Status == tt.status
			})).Return(nil).Once()

			w, resp := f.send(http.MethodPost, "/webhooks", []byte(tt.body), nil)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, true, resp["success"])
			assert.Equal(t, string(tt.status), resp["status"])
			f.syncLogs.AssertExpectations(t)
		})
	}
}

func TestReceiveWebhook_InternalFailureStillAcknowledges(t *testing.T) {
	f := newPagarmeFixture("")
	f.mirror.On("Upsert", mock.Anything, mock.Anything).Return(fmt.Errorf("table locked"))
	f.syncLogs.On("Create", mock.Anything, mock.Anything).Return(fmt.Errorf("table locked"))

	w, resp := f.send(http.MethodPost, "/webhooks",
		[]byte(`{"id":"hook_3","type":"order.paid","data":{"id":"or_1","status":"paid"}}`), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(models.SyncFailed), resp["status"])
}

func TestReceiveWebhook_VerifiesSignature(t *testing.T) {
	body := []byte(`{"id":"hook_4","type":"order.paid","data":{"id":"or_1","status":"paid"}}`)

	f := newPagarmeFixture("secret")
	f.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.syncLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, resp := f.send(http.MethodPost, "/webhooks", body, map[string]string{
		pagarme.SignatureHeader: pagarme.Sign(body, "secret"),
	})
	assert.Equal(t, string(models.SyncProcessed), resp["status"])

	_, resp = f.send(http.MethodPost, "/webhooks", body, map[string]string{
		pagarme.SignatureHeader: pagarme.Sign(body, "other"),
	})
	assert.Equal(t, string(models.SyncRejected), resp["status"])
}

func TestGatewayErrorsAreForwardedAs400(t *testing.T) {
	f := newPagarmeFixture("")
	f.gateway.On("GetOrder", mock.Anything, "or_1").Return(nil, &pagarme.APIError{
		StatusCode: 422,
		Message:    "The request is invalid.",
		Errors:     json.RawMessage(`{"customer.document":["The document field is invalid."]}`),
	})

	w, resp := f.send(http.MethodGet, "/orders/or_1", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ErrCodeGatewayError, resp["code"])
	assert.Equal(t, "The request is invalid.", resp["error"])
	errs := resp["errors"].(map[string]interface{})
	assert.Contains(t, errs, "customer.document")
}

func TestCircuitOpenIs500(t *testing.T) {
	f := newPagarmeFixture("")
	f.gateway.On("GetOrder", mock.Anything, "or_1").
		Return(nil, fmt.Errorf("orders.get: %w", pagarme.ErrCircuitOpen))

	w, resp := f.send(http.MethodGet, "/orders/or_1", nil, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Payment gateway temporarily unavailable", resp["error"])
}

func TestCancelCharge_OptionalAmount(t *testing.T) {
	f := newPagarmeFixture("")
	charge := &pagarme.Resource{ID: "ch_1", Status: "canceled", Raw: json.RawMessage(`{"id":"ch_1","status":"canceled"}`)}
	f.gateway.On("CancelCharge", mock.Anything, "ch_1", (*int64)(nil)).Return(charge, nil).Once()
	f.gateway.On("CancelCharge", mock.Anything, "ch_1", mock.MatchedBy(func(a *int64) bool {
		return a != nil && *a == 500
	})).Return(charge, nil).Once()
	f.mirror.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.syncLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	w, resp := f.send(http.MethodDelete, "/charges/ch_1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ch_1", resp["data"].(map[string]interface{})["id"])

	w, _ = f.send(http.MethodDelete, "/charges/ch_1", []byte(`{"amount":500}`), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = f.send(http.MethodDelete, "/charges/ch_1", []byte(`{"amount":-1}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.gateway.AssertExpectations(t)
}

func TestCreateCustomer_RejectsInvalidJSON(t *testing.T) {
	f := newPagarmeFixture("")

	w, _ := f.send(http.MethodPost, "/customers", []byte(`name=Maria`), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.gateway.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
}
