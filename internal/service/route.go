package service

import (
	"context"
	"fmt"

	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
)

type routeService struct {
	directions DirectionsProvider
	evaluator  *RouteRiskEvaluator
	logger     *logrus.Logger
}

// NewRouteService создает сервис выбора маршрутов
func NewRouteService(directions DirectionsProvider, evaluator *RouteRiskEvaluator, logger *logrus.Logger) RouteService {
	return &routeService{
		directions: directions,
		evaluator:  evaluator,
		logger:     logger,
	}
}

// Plan запрашивает альтернативные маршруты у провайдера, оценивает их риск и выбирает
// самый быстрый и самый безопасный
func (s *routeService) Plan(ctx context.Context, origin, destination string) (*models.RoutePlan, error) {
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("%w: origin and destination are required", ErrInvalidQuery)
	}

	routes, err := s.directions.Routes(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("service: %w: %w", ErrNoRoutesFound, err)
	}
	if len(routes) == 0 {
		return nil, ErrNoRoutesFound
	}

	candidates := make([]models.RouteCandidate, 0, len(routes))
	for i, route := range routes {
		path, err := geo.DecodePolyline(route.EncodedPolyline)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		candidates = append(candidates, models.RouteCandidate{
			Path:          path,
			ETALabel:      route.ETALabel,
			DistanceLabel: route.DistanceLabel,
		})
	}

	plan, err := s.evaluate(ctx, candidates)
	if err != nil {
		return nil, err
	}
	plan.Origin = origin
	plan.Destination = destination
	plan.StartLocation = routes[0].StartLocation
	plan.EndLocation = routes[0].EndLocation
	plan.StartAddress = routes[0].StartAddress
	plan.EndAddress = routes[0].EndAddress

	s.logger.WithFields(logrus.Fields{
		"origin":      origin,
		"destination": destination,
		"routes":      len(plan.Routes),
		"safest":      plan.SafestIndex,
	}).Info("Route plan built")
	return plan, nil
}

// Evaluate оценивает маршруты, переданные клиентом в виде закодированных полилиний
func (s *routeService) Evaluate(ctx context.Context, routes []models.EncodedRoute) (*models.RoutePlan, error) {
	if len(routes) == 0 {
		return nil, ErrNoRoutesFound
	}

	candidates := make([]models.RouteCandidate, 0, len(routes))
	for i, route := range routes {
		path, err := geo.DecodePolyline(route.Polyline)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}
		candidates = append(candidates, models.RouteCandidate{
			Path:          path,
			ETALabel:      route.ETALabel,
			DistanceLabel: route.DistanceLabel,
		})
	}

	plan, err := s.evaluate(ctx, candidates)
	if err != nil {
		return nil, err
	}
	if len(plan.Routes[0].Path) > 0 {
		first := plan.Routes[0].Path
		plan.StartLocation = first[0]
		plan.EndLocation = first[len(first)-1]
	}
	return plan, nil
}

func (s *routeService) evaluate(ctx context.Context, candidates []models.RouteCandidate) (*models.RoutePlan, error) {
	if err := s.evaluator.EvaluateCandidates(ctx, candidates); err != nil {
		s.logger.WithError(err).Warn("Failed to evaluate route risk")
		return nil, err
	}

	fastest, safest := SelectRoutes(candidates)
	return &models.RoutePlan{
		Routes:       candidates,
		FastestIndex: fastest,
		SafestIndex:  safest,
	}, nil
}
