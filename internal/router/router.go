package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/aquiresolve/admin-api/internal/config"
	"github.com/aquiresolve/admin-api/internal/handlers"
	"github.com/aquiresolve/admin-api/internal/middleware"
)

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// SetupRouter configures all API routes
func SetupRouter(
	cfg *config.Config,
	health HealthChecker,
	lgpdHandler *handlers.LGPDHandler,
	pagarmeHandler *handlers.PagarmeHandler,
	gatherer prometheus.Gatherer,
	logger *logrus.Logger,
) *gin.Engine {
	handlers.RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(logger))
	if cfg.CORS.Enabled {
		router.Use(middleware.CORS(cfg.CORS))
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := health.HealthCheck(ctx); err != nil {
			logger.WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	var auth []gin.HandlerFunc
	if cfg.Security.BasicAuth.Enabled {
		auth = append(auth, gin.BasicAuth(cfg.Security.Accounts()))
	}

	lgpd := router.Group("/api/lgpd", auth...)
	{
		lgpd.POST("/consent", lgpdHandler.ManageConsent)
		lgpd.GET("/consent", lgpdHandler.GetConsent)

		lgpd.POST("/rights/delete", lgpdHandler.DeleteUserData)
		lgpd.GET("/rights/portability", lgpdHandler.ExportUserData)

		lgpd.POST("/requests", lgpdHandler.CreateDataRequest)
		lgpd.GET("/requests", lgpdHandler.ListDataRequests)
		lgpd.GET("/requests/:requestId", lgpdHandler.GetDataRequest)
		lgpd.PATCH("/requests/:requestId/status", lgpdHandler.UpdateDataRequestStatus)

		lgpd.POST("/processing-logs", lgpdHandler.LogProcessingActivity)
		lgpd.GET("/processing-logs", lgpdHandler.ListProcessingLogs)

		lgpd.GET("/retention-policies", lgpdHandler.ListRetentionPolicies)
		lgpd.GET("/retention-policies/:dataType", lgpdHandler.GetRetentionPolicy)
	}

	// The gateway signs webhook deliveries itself, so they stay outside basic auth
	router.POST("/api/pagarme/webhooks", pagarmeHandler.ReceiveWebhook)

	pagarme := router.Group("/api/pagarme", auth...)
	{
		pagarme.POST("/orders", pagarmeHandler.CreateOrder)
		pagarme.GET("/orders", pagarmeHandler.ListOrders)
		pagarme.GET("/orders/:id", pagarmeHandler.GetOrder)
		pagarme.PATCH("/orders/:id/close", pagarmeHandler.CloseOrder)

		pagarme.GET("/charges", pagarmeHandler.ListCharges)
		pagarme.GET("/charges/:id", pagarmeHandler.GetCharge)
		pagarme.POST("/charges/:id/capture", pagarmeHandler.CaptureCharge)
		pagarme.DELETE("/charges/:id", pagarmeHandler.CancelCharge)

		pagarme.POST("/subscriptions", pagarmeHandler.CreateSubscription)
		pagarme.GET("/subscriptions", pagarmeHandler.ListSubscriptions)
		pagarme.GET("/subscriptions/:id", pagarmeHandler.GetSubscription)
		pagarme.DELETE("/subscriptions/:id", pagarmeHandler.CancelSubscription)

		pagarme.POST("/customers", pagarmeHandler.CreateCustomer)
		pagarme.GET("/customers", pagarmeHandler.ListCustomers)
		pagarme.GET("/customers/:id", pagarmeHandler.GetCustomer)
		pagarme.PUT("/customers/:id", pagarmeHandler.UpdateCustomer)

		pagarme.GET("/balance/:recipientId", pagarmeHandler.GetRecipientBalance)
		pagarme.GET("/analytics", pagarmeHandler.GetAnalytics)
		pagarme.GET("/sync-logs", pagarmeHandler.ListSyncLogs)
		pagarme.GET("/wallets/:providerId", pagarmeHandler.GetProviderWallet)
	}

	return router
}
