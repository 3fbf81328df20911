package v1

import (
	"math"

	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service"
)

func roundTo(v float64, digits int) float64 {
	scale := math.Pow10(digits)
	return math.Round(v*scale) / scale
}

// ScoreDTOToQuery преобразует DTO запроса оценки в доменный запрос
func ScoreDTOToQuery(dto ScoreRequest) models.SafetyQuery {
	return models.SafetyQuery{
		Center:       models.Point{Lat: *dto.Lat, Lng: *dto.Lng},
		RadiusMeters: dto.RadiusKm * 1000,
	}
}

// ModelToScoreResponse преобразует результат оценки в DTO, округляя оценку до десятых.
// Уровень считается по округленной оценке, чтобы совпадать с порогами в ответе.
func ModelToScoreResponse(result *models.SafetyResult) *ScoreResponse {
	score := roundTo(result.Score, 1)
	return &ScoreResponse{
		Score:               score,
		Level:               service.LevelFor(score),
		IncidentCount:       result.IncidentCount,
		RecentIncidentCount: result.RecentIncidentCount,
		SeveritySum:         roundTo(result.SeveritySum, 2),
	}
}

// EncodedRoutesDTOToModels преобразует DTO маршрутов в доменные модели
func EncodedRoutesDTOToModels(dto RouteEvaluateRequest) []models.EncodedRoute {
	routes := make([]models.EncodedRoute, len(dto.Routes))
	for i, r := range dto.Routes {
		routes[i] = models.EncodedRoute{
			Polyline:      r.Polyline,
			ETALabel:      r.ETA,
			DistanceLabel: r.Distance,
		}
	}
	return routes
}

// ModelToRouteResponse преобразует маршрут-кандидат в DTO
func ModelToRouteResponse(route models.RouteCandidate) RouteResponse {
	path := route.Path
	if path == nil {
		path = []models.Point{}
	}
	return RouteResponse{
		Path: path,
		Meta: RouteMeta{
			ETA:      route.ETALabel,
			Distance: route.DistanceLabel,
			RawRisk:  roundTo(route.RawRisk, 2),
			Risk:     roundTo(route.RiskScore, 1),
		},
	}
}

// ModelToRoutePlanResponse преобразует план маршрутов в DTO
func ModelToRoutePlanResponse(plan *models.RoutePlan) *RoutePlanResponse {
	routes := make([]RouteResponse, len(plan.Routes))
	for i, route := range plan.Routes {
		routes[i] = ModelToRouteResponse(route)
	}

	resp := &RoutePlanResponse{
		Origin:       plan.Origin,
		Destination:  plan.Destination,
		Fastest:      routes[plan.FastestIndex],
		Safest:       routes[plan.SafestIndex],
		FastestIndex: plan.FastestIndex,
		SafestIndex:  plan.SafestIndex,
		Routes:       routes,
		StartAddress: plan.StartAddress,
		EndAddress:   plan.EndAddress,
	}
	if plan.StartLocation != (models.Point{}) || plan.EndLocation != (models.Point{}) {
		start, end := plan.StartLocation, plan.EndLocation
		resp.StartLocation = &start
		resp.EndLocation = &end
	}
	return resp
}

// ReportDTOToModel преобразует DTO отчета в доменную модель
func ReportDTOToModel(dto ReportRequest) models.Report {
	return models.Report{
		Location:    models.Point{Lat: *dto.Lat, Lng: *dto.Lng},
		Categories:  dto.Categories,
		Description: dto.Description,
		OccurredAt:  dto.OccurredAt,
	}
}

// ModelToReportResponse преобразует принятый инцидент в DTO
func ModelToReportResponse(incident *models.Incident) *ReportResponse {
	return &ReportResponse{
		ID:       incident.ID,
		Severity: incident.Severity,
	}
}
