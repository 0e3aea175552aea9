package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aquiresolve/admin-api/internal/models"
	"github.com/aquiresolve/admin-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Export formats
const (
	ExportFormatJSON = "json"
	ExportFormatCSV  = "csv"
)

// PortabilityExport is the machine-readable copy of a user's data
type PortabilityExport struct {
	User           *models.UserExport          `json:"user"`
	Consents       []models.Consent            `json:"consents"`
	ProcessingLogs []models.DataProcessingLog  `json:"processingLogs"`
	Orders         []models.Order              `json:"orders"`
	Requests       []models.DataSubjectRequest `json:"requests"`
	ExportedAt     int64                       `json:"exportedAt"`
	Format         string                      `json:"format"`
}

// PortabilityService builds data portability exports
type PortabilityService struct {
	users          UserStore
	orders         OrderStore
	consents       ConsentStore
	requests       DataRequestStore
	processingLogs *ProcessingLogService
	logger         *logrus.Logger
}

// NewPortabilityService creates a new portability service instance
func NewPortabilityService(
	users UserStore,
	orders OrderStore,
	consents ConsentStore,
	requests DataRequestStore,
	processingLogs *ProcessingLogService,
	logger *logrus.Logger,
) *PortabilityService {
	return &PortabilityService{
		users:          users,
		orders:         orders,
		consents:       consents,
		requests:       requests,
		processingLogs: processingLogs,
		logger:         logger,
	}
}

// Export collects everything held about a user. Only json is produced; csv
// is recognised but rejected with ErrUnsupportedFormat.
func (s *PortabilityService) Export(ctx context.Context, userID, format string, ipAddress, userAgent *string) (*PortabilityExport, error) {
	if err := utils.ValidateID("userId", userID); err != nil {
		return nil, validationErrorf("%v", err)
	}

	format = strings.ToLower(strings.TrimSpace(format))
	switch format {
	case "", ExportFormatJSON:
		format = ExportFormatJSON
	case ExportFormatCSV:
		return nil, fmt.Errorf("%w: csv export is not available, use json", ErrUnsupportedFormat)
	default:
		return nil, validationErrorf("invalid export format: %s", format)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundErrorf("user %s", userID)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	consents, err := s.consents.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load consents: %w", err)
	}

	logs, err := s.processingLogs.GetUserProcessingLogs(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByCustomer(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	requests, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load data requests: %w", err)
	}

	export := &PortabilityExport{
		User:           user.ToExport(),
		Consents:       consents,
		ProcessingLogs: logs,
		Orders:         orders,
		Requests:       requests,
		ExportedAt:     utils.GetCurrentTimeMillis(),
		Format:         format,
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":         userID,
		"consents":        len(consents),
		"processing_logs": len(logs),
		"orders":          len(orders),
	}).Info("Portability export generated")

	s.processingLogs.LogSafe(ctx, &ProcessingLogRequest{
		UserID:     userID,
		UserEmail:  user.Email,
		Activity:   models.ActivityExportacaoDados,
		DataTypes:  []string{"dados_cadastrais", "dados_pedidos", "consentimentos", "registros_tratamento"},
		LegalBasis: models.BasisExercicioDireitos,
		Purpose:    "Portabilidade de dados a pedido do titular (LGPD art. 18, V)",
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Metadata:   map[string]interface{}{"format": format},
	})

	return export, nil
}
