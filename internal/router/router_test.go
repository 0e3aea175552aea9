package router

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/aquiresolve/admin-api/internal/config"
	"github.com/aquiresolve/admin-api/internal/handlers"
	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/internal/service"
	"github.com/aquiresolve/admin-api/internal/service/mocks"
)

type fakeHealth struct{ err error }

func (f fakeHealth) HealthCheck(context.Context) error { return f.err }

type routerFixture struct {
	policies *mocks.MockRetentionPolicyDAO
	syncLogs *mocks.MockSyncLogDAO
	engine   *gin.Engine
}

func newRouterFixture(healthErr error) *routerFixture {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	f := &routerFixture{
		policies: &mocks.MockRetentionPolicyDAO{},
		syncLogs: &mocks.MockSyncLogDAO{},
	}

	cfg := &config.Config{
		Security: config.SecurityConfig{
			BasicAuth: config.BasicAuthConfig{
				Enabled: true,
				Users:   []config.BasicAuthUser{{Username: "admin", Password: "s3cret"}},
			},
		},
	}

	lgpd := handlers.NewLGPDHandler(nil, nil, nil, nil, nil, service.NewRetentionPolicyService(f.policies), false, logger)
	webhooks := service.NewWebhookService(&mocks.MockPaymentObjectDAO{}, f.syncLogs, &mocks.MockWalletDAO{}, &mocks.MockTxRunner{}, nil, "", m, logger)
	pagarme := handlers.NewPagarmeHandler(nil, webhooks, false, logger)

	f.engine = SetupRouter(cfg, fakeHealth{err: healthErr}, lgpd, pagarme, registry, logger)
	return f
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := newRouterFixture(nil).do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")

	w = newRouterFixture(errors.New("db down")).do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminRoutesRequireBasicAuth(t *testing.T) {
	f := newRouterFixture(nil)
	f.policies.On("List", mock.Anything).Return([]models.DataRetentionPolicy{}, nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/api/lgpd/retention-policies", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/lgpd/retention-policies", nil)
	req.SetBasicAuth("admin", "s3cret")
	w = f.do(req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/api/pagarme/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebhookRouteSkipsBasicAuth(t *testing.T) {
	f := newRouterFixture(nil)
	f.syncLogs.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/pagarme/webhooks", strings.NewReader(`{"id":"hook_1","type":"transfer.created","data":{"id":"tr_1"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ignored"`)
}

func TestResponsesCarryCorrelationID(t *testing.T) {
	f := newRouterFixture(nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := f.do(req)

	assert.Equal(t, "req-123", w.Header().Get("X-Correlation-ID"))
}
