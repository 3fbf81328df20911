package repository

import (
	"context"
	"errors"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service"
	"github.com/sirupsen/logrus"
)

// GeoStore - хранилище с пространственным поиском и сканированием прямоугольника
type GeoStore interface {
	FindNear(ctx context.Context, center models.Point, radiusMeters float64, limit int) ([]models.Incident, error)
	FindInBox(ctx context.Context, bounds geo.Bounds, limit int) ([]models.Incident, error)
}

type geoPolicyStore struct {
	primary  GeoStore
	policy   string
	boxLimit int
	logger   *logrus.Logger
}

// NewGeoPolicyStore оборачивает хранилище политикой отказа геоиндекса.
// При политике strict ошибка геозапроса возвращается как есть; при fallback выполняется
// сканирование прямоугольника с фильтрацией по haversine.
func NewGeoPolicyStore(primary GeoStore, policy string, boxLimit int, logger *logrus.Logger) service.IncidentStore {
	return &geoPolicyStore{
		primary:  primary,
		policy:   policy,
		boxLimit: boxLimit,
		logger:   logger,
	}
}

func (s *geoPolicyStore) FindNear(ctx context.Context, center models.Point, radiusMeters float64, limit int) ([]models.Incident, error) {
	incidents, err := s.primary.FindNear(ctx, center, radiusMeters, limit)
	if err == nil || s.policy != config.FallbackBox {
		return incidents, err
	}
	// Отмена и истечение дедлайна не являются отказом индекса
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}

	s.logger.WithError(err).WithFields(logrus.Fields{
		"lat": center.Lat,
		"lng": center.Lng,
	}).Warn("Geo query failed, falling back to bounding box scan")

	candidates, boxErr := s.primary.FindInBox(ctx, geo.BoundsAround(center, radiusMeters), s.boxLimit)
	if boxErr != nil {
		return nil, errors.Join(err, boxErr)
	}

	result := make([]models.Incident, 0, len(candidates))
	for _, incident := range candidates {
		if len(result) >= limit {
			break
		}
		if geo.WithinRadius(center, radiusMeters, incident.Location) {
			result = append(result, incident)
		}
	}
	return result, nil
}
