package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aquiresolve/admin-api/internal/cache"
	"github.com/aquiresolve/admin-api/internal/config"
	"github.com/aquiresolve/admin-api/internal/dao"
	"github.com/aquiresolve/admin-api/internal/database"
	"github.com/aquiresolve/admin-api/internal/handlers"
	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/pagarme"
	"github.com/aquiresolve/admin-api/internal/router"
	"github.com/aquiresolve/admin-api/internal/service"
)

// Version information (set by build script)
var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	// Set Gin to release mode by default (can be overridden by GIN_MODE env var)
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.InfoLevel)

	logger.WithFields(logrus.Fields{
		"version":    version,
		"build_date": buildDate,
	}).Info("Starting AquiResolve admin API...")

	// CONFIG_PATH overrides the ./configs search paths
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.WithFields(logrus.Fields{
		"config_path": configPath,
		"log_level":   logger.GetLevel().String(),
	}).Info("Configuration loaded successfully")

	db, err := database.Initialize(&cfg.Database, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.HealthCheck(ctx); err != nil {
		logger.WithError(err).Fatal("Database health check failed")
	}

	if cfg.Database.RunMigrations {
		if err := db.RunMigrations(); err != nil {
			logger.WithError(err).Fatal("Failed to apply database migrations")
		}
	}

	logger.Info("Database connection established successfully")

	m := metrics.New(prometheus.DefaultRegisterer)

	// Webhook dedupe is optional; without redis every delivery is processed
	var deduper service.EventDeduper
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, &cfg.Redis, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to redis")
		}
		defer redisClient.Close()
		deduper = cache.NewEventDeduper(redisClient, cfg.Redis.DedupTTL)
	}

	// Initialize DAOs
	consentDAO := dao.NewConsentDAO(db)
	processingLogDAO := dao.NewProcessingLogDAO(db)
	dataRequestDAO := dao.NewDataRequestDAO(db)
	retentionPolicyDAO := dao.NewRetentionPolicyDAO(db)
	userDAO := dao.NewUserDAO(db)
	orderDAO := dao.NewOrderDAO(db)
	paymentObjectDAO := dao.NewPaymentObjectDAO(db)
	syncLogDAO := dao.NewSyncLogDAO(db)
	walletDAO := dao.NewProviderWalletDAO(db)

	// Initialize services
	processingLogService := service.NewProcessingLogService(processingLogDAO, m, logger)
	consentService := service.NewConsentService(consentDAO, processingLogService, cfg.LGPD.PolicyVersion, m, logger)
	dataRequestService := service.NewDataRequestService(dataRequestDAO, m, logger)
	deletionService := service.NewDeletionService(
		userDAO,
		orderDAO,
		consentDAO,
		dataRequestDAO,
		processingLogService,
		db,
		cfg.LGPD.AnonymizationDomain,
		m,
		logger,
	)
	portabilityService := service.NewPortabilityService(userDAO, orderDAO, consentDAO, dataRequestDAO, processingLogService, logger)
	retentionPolicyService := service.NewRetentionPolicyService(retentionPolicyDAO)

	gatewayClient := pagarme.NewClient(&cfg.Pagarme, m, logger)
	paymentService := service.NewPaymentService(gatewayClient, paymentObjectDAO, syncLogDAO, logger)
	webhookService := service.NewWebhookService(paymentObjectDAO, syncLogDAO, walletDAO, db, deduper, cfg.Pagarme.WebhookSecret, m, logger)

	logger.Info("Services initialized successfully")

	lgpdHandler := handlers.NewLGPDHandler(
		consentService,
		processingLogService,
		dataRequestService,
		deletionService,
		portabilityService,
		retentionPolicyService,
		cfg.Server.DebugErrors,
		logger,
	)
	pagarmeHandler := handlers.NewPagarmeHandler(paymentService, webhookService, cfg.Server.DebugErrors, logger)

	ginRouter := router.SetupRouter(cfg, db, lgpdHandler, pagarmeHandler, prometheus.DefaultGatherer, logger)

	serverAddr := cfg.Server.GetServerAddress()
	server := &http.Server{
		Addr:           serverAddr,
		Handler:        ginRouter,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"hostname": cfg.Server.Hostname,
			"port":     cfg.Server.Port,
			"addr":     serverAddr,
		}).Info("Starting HTTP server...")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	db.LogStats()
	logger.Info("Server exited gracefully")
}
