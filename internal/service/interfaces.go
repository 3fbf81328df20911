package service

import (
	"context"

	"github.com/shenikar/safe_route_system/internal/models"
)

// IncidentStore определяет контракт пространственного поиска инцидентов.
// FindNear возвращает инциденты не дальше radiusMeters от center (haversine), не более limit штук.
type IncidentStore interface {
	FindNear(ctx context.Context, center models.Point, radiusMeters float64, limit int) ([]models.Incident, error)
}

// HeatmapStore отдает координаты инцидентов для тепловой карты
type HeatmapStore interface {
	HeatmapPoints(ctx context.Context, limit int) ([]models.Point, error)
}

// ScoreCache - кеш результатов оценки. Промах возвращает nil, nil.
type ScoreCache interface {
	Get(ctx context.Context, key string) (*models.SafetyResult, error)
	Set(ctx context.Context, key string, result *models.SafetyResult) error
}

// DirectionsProvider - внешний провайдер маршрутов
type DirectionsProvider interface {
	Routes(ctx context.Context, origin, destination string) ([]models.DirectionsRoute, error)
}

// SafetyScorer определяет контракт оценки безопасности точки
type SafetyScorer interface {
	Score(ctx context.Context, query models.SafetyQuery) (*models.SafetyResult, error)
}

// RouteService определяет контракт выбора самого быстрого и самого безопасного маршрутов
type RouteService interface {
	Plan(ctx context.Context, origin, destination string) (*models.RoutePlan, error)
	Evaluate(ctx context.Context, routes []models.EncodedRoute) (*models.RoutePlan, error)
}

// IncidentService определяет контракт для отчетов пользователей и тепловой карты
type IncidentService interface {
	SubmitReport(ctx context.Context, report models.Report) (*models.Incident, error)
	Heatmap(ctx context.Context) ([]models.Point, error)
}
