package service

import (
	"io"

	"github.com/aquiresolve/admin-api/internal/metrics"
	"github.com/aquiresolve/admin-api/internal/service/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// TestSetup contains common test dependencies
type TestSetup struct {
	ConsentDAO       *mocks.MockConsentDAO
	ProcessingLogDAO *mocks.MockProcessingLogDAO
	RequestDAO       *mocks.MockDataRequestDAO
	UserDAO          *mocks.MockUserDAO
	OrderDAO         *mocks.MockOrderDAO
	TxRunner         *mocks.MockTxRunner
	Metrics          *metrics.Metrics
	Logger           *logrus.Logger

	ProcessingLogs *ProcessingLogService
	Consents       *ConsentService
	Requests       *DataRequestService
	Deletion       *DeletionService
	Portability    *PortabilityService
}

// NewTestSetup wires every LGPD service against fresh mocks
func NewTestSetup() *TestSetup {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s := &TestSetup{
		ConsentDAO:       &mocks.MockConsentDAO{},
		ProcessingLogDAO: &mocks.MockProcessingLogDAO{},
		RequestDAO:       &mocks.MockDataRequestDAO{},
		UserDAO:          &mocks.MockUserDAO{},
		OrderDAO:         &mocks.MockOrderDAO{},
		TxRunner:         &mocks.MockTxRunner{},
		Metrics:          metrics.New(prometheus.NewRegistry()),
		Logger:           logger,
	}

	s.ProcessingLogs = NewProcessingLogService(s.ProcessingLogDAO, s.Metrics, logger)
	s.Consents = NewConsentService(s.ConsentDAO, s.ProcessingLogs, "1.0", s.Metrics, logger)
	s.Requests = NewDataRequestService(s.RequestDAO, s.Metrics, logger)
	s.Deletion = NewDeletionService(s.UserDAO, s.OrderDAO, s.ConsentDAO, s.RequestDAO,
		s.ProcessingLogs, s.TxRunner, "anonimizado.aquiresolve.com.br", s.Metrics, logger)
	s.Portability = NewPortabilityService(s.UserDAO, s.OrderDAO, s.ConsentDAO, s.RequestDAO,
		s.ProcessingLogs, logger)
	return s
}

// Helper to create a pointer to a string
func strPtr(s string) *string {
	return &s
}

func int64Ptr(v int64) *int64 {
	return &v
}
