package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/ingest"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
)

type incidentService struct {
	publisher    ingest.ReportPublisher
	heatmap      HeatmapStore
	logger       *logrus.Logger
	heatmapLimit int
}

// NewIncidentService создает сервис отчетов пользователей и тепловой карты
func NewIncidentService(publisher ingest.ReportPublisher, heatmap HeatmapStore, logger *logrus.Logger, cfg *config.Config) IncidentService {
	return &incidentService{
		publisher:    publisher,
		heatmap:      heatmap,
		logger:       logger,
		heatmapLimit: cfg.HeatmapLimit,
	}
}

// SubmitReport проверяет отчет, считает severity и ставит его в очередь загрузки.
// Инциденты только добавляются, существующие записи не изменяются.
func (s *incidentService) SubmitReport(ctx context.Context, report models.Report) (*models.Incident, error) {
	report.ID = uuid.New()
	report.SubmittedAt = time.Now().UTC()

	incident, err := ingest.FromReport(report)
	if err != nil {
		return nil, fmt.Errorf("service: %w: %w", ErrInvalidQuery, err)
	}

	if err := s.publisher.Publish(ctx, report); err != nil {
		s.logger.WithError(err).WithField("report_id", report.ID).Error("Failed to enqueue report")
		return nil, fmt.Errorf("service: %w: %w", ErrStoreUnavailable, err)
	}

	s.logger.WithFields(logrus.Fields{
		"report_id": report.ID,
		"severity":  incident.Severity,
	}).Info("Report accepted")
	return &incident, nil
}

// Heatmap возвращает координаты инцидентов для тепловой карты
func (s *incidentService) Heatmap(ctx context.Context) ([]models.Point, error) {
	points, err := s.heatmap.HeatmapPoints(ctx, s.heatmapLimit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load heatmap points")
		return nil, fmt.Errorf("service: %w: %w", ErrStoreUnavailable, err)
	}
	return points, nil
}
