package v1

import (
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/models"
)

// ScoreRequest DTO для оценки безопасности точки
// @Description DTO для оценки безопасности точки
type ScoreRequest struct {
	Lat      *float64 `json:"lat" validate:"required,latitude"`
	Lng      *float64 `json:"lng" validate:"required,longitude"`
	RadiusKm float64  `json:"radius_km,omitempty" validate:"omitempty,gt=0"`
}

// ScoreResponse DTO с оценкой безопасности
// @Description DTO с оценкой безопасности
type ScoreResponse struct {
	Score               float64 `json:"score"`
	Level               string  `json:"level"`
	IncidentCount       int     `json:"incident_count"`
	RecentIncidentCount int     `json:"recent_incident_count"`
	SeveritySum         float64 `json:"severity_sum"`
}

// RoutePlanRequest DTO для построения маршрутов между адресами
// @Description DTO для построения маршрутов между адресами
type RoutePlanRequest struct {
	Origin      string `json:"origin" validate:"required,min=2,max=200"`
	Destination string `json:"destination" validate:"required,min=2,max=200"`
}

// EncodedRouteRequest - маршрут-кандидат в виде закодированной полилинии
type EncodedRouteRequest struct {
	Polyline string `json:"polyline" validate:"required"`
	ETA      string `json:"eta,omitempty"`
	Distance string `json:"distance,omitempty"`
}

// RouteEvaluateRequest DTO для оценки готовых маршрутов
// @Description DTO для оценки готовых маршрутов
type RouteEvaluateRequest struct {
	Routes []EncodedRouteRequest `json:"routes" validate:"required,min=1,max=10,dive"`
}

// RouteMeta - подписи и риск маршрута
type RouteMeta struct {
	ETA      string  `json:"eta,omitempty"`
	Distance string  `json:"distance,omitempty"`
	RawRisk  float64 `json:"raw_risk"`
	Risk     float64 `json:"risk"`
}

// RouteResponse DTO маршрута с риском
// @Description DTO маршрута с риском
type RouteResponse struct {
	Path []models.Point `json:"path"`
	Meta RouteMeta      `json:"meta"`
}

// RoutePlanResponse DTO с самым быстрым и самым безопасным маршрутами
// @Description DTO с самым быстрым и самым безопасным маршрутами
type RoutePlanResponse struct {
	Origin        string          `json:"origin,omitempty"`
	Destination   string          `json:"destination,omitempty"`
	Fastest       RouteResponse   `json:"fastest"`
	Safest        RouteResponse   `json:"safest"`
	FastestIndex  int             `json:"fastest_index"`
	SafestIndex   int             `json:"safest_index"`
	Routes        []RouteResponse `json:"routes"`
	StartLocation *models.Point   `json:"start_location,omitempty"`
	EndLocation   *models.Point   `json:"end_location,omitempty"`
	StartAddress  string          `json:"start_address,omitempty"`
	EndAddress    string          `json:"end_address,omitempty"`
}

// ReportRequest DTO отчета пользователя об инциденте
// @Description DTO отчета пользователя об инциденте
type ReportRequest struct {
	Lat         *float64           `json:"lat" validate:"required,latitude"`
	Lng         *float64           `json:"lng" validate:"required,longitude"`
	Categories  map[string]float64 `json:"categories" validate:"required,min=1,dive,keys,required,endkeys,gte=0"`
	Description string             `json:"description,omitempty" validate:"max=1000"`
	OccurredAt  *time.Time         `json:"occurred_at,omitempty"`
}

// ReportResponse DTO принятого отчета
// @Description DTO принятого отчета
type ReportResponse struct {
	ID       uuid.UUID `json:"id"`
	Severity float64   `json:"severity"`
}
