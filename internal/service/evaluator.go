package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Нормализованный риск маршрута: 1 - самый безопасный, 10 - самый опасный
const (
	MinRouteRisk     = 1.0
	MaxRouteRisk     = 10.0
	NeutralRouteRisk = 5.0
)

// RoutePolicy - параметры выборки точек маршрута
type RoutePolicy struct {
	SampleStride       int
	SampleRadiusMeters float64
	QueryLimit         int
	Concurrency        int
	PointTimeout       time.Duration
	Deadline           time.Duration
}

// RoutePolicyFromConfig собирает политику из конфигурации
func RoutePolicyFromConfig(cfg *config.Config) RoutePolicy {
	return RoutePolicy{
		SampleStride:       cfg.RouteSampleStride,
		SampleRadiusMeters: cfg.RouteSampleRadiusMeters,
		QueryLimit:         cfg.RouteQueryLimit,
		Concurrency:        cfg.RouteSamplingConcurrency,
		PointTimeout:       cfg.RoutePointTimeout,
		Deadline:           cfg.RouteEvaluationDeadline,
	}
}

// RouteRiskEvaluator оценивает сырой риск маршрутов как сумму severity инцидентов
// вокруг каждой stride-й точки и нормализует его по набору маршрутов.
type RouteRiskEvaluator struct {
	store  IncidentStore
	policy RoutePolicy
	logger *logrus.Logger
}

// NewRouteRiskEvaluator создает новый RouteRiskEvaluator
func NewRouteRiskEvaluator(store IncidentStore, logger *logrus.Logger, policy RoutePolicy) *RouteRiskEvaluator {
	if policy.SampleStride < 1 {
		policy.SampleStride = 1
	}
	if policy.Concurrency < 1 {
		policy.Concurrency = 1
	}
	return &RouteRiskEvaluator{
		store:  store,
		policy: policy,
		logger: logger,
	}
}

// SamplePath возвращает каждую stride-ю точку пути, начиная с первой
func SamplePath(path []models.Point, stride int) []models.Point {
	if stride < 1 {
		stride = 1
	}
	samples := make([]models.Point, 0, (len(path)+stride-1)/stride)
	for i := 0; i < len(path); i += stride {
		samples = append(samples, path[i])
	}
	return samples
}

// EvaluateRoute возвращает сырой риск маршрута. Запросы по точкам выполняются параллельно
// (не более Concurrency одновременно), результат не зависит от порядка их завершения.
func (e *RouteRiskEvaluator) EvaluateRoute(ctx context.Context, path []models.Point, stride int) (float64, error) {
	samples := SamplePath(path, stride)
	risks := make([]float64, len(samples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.policy.Concurrency)

	for i, point := range samples {
		g.Go(func() error {
			risk, err := e.pointRisk(gctx, point)
			if err != nil {
				return err
			}
			risks[i] = risk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var total float64
	for _, risk := range risks {
		total += risk
	}
	return total, nil
}

func (e *RouteRiskEvaluator) pointRisk(ctx context.Context, point models.Point) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, classifyQueryError(ctx, ctx, err)
	}

	qctx := ctx
	if e.policy.PointTimeout > 0 {
		var cancel context.CancelFunc
		qctx, cancel = context.WithTimeout(ctx, e.policy.PointTimeout)
		defer cancel()
	}

	incidents, err := e.store.FindNear(qctx, point, e.policy.SampleRadiusMeters, e.policy.QueryLimit)
	if err != nil {
		return 0, classifyQueryError(ctx, qctx, err)
	}

	var severity float64
	for _, incident := range incidents {
		if incident.Severity > 0 {
			severity += incident.Severity
		}
	}
	return severity, nil
}

// classifyQueryError различает истечение дедлайна, отмену запроса и отказ хранилища
func classifyQueryError(parent, query context.Context, err error) error {
	switch {
	case errors.Is(query.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrScoringTimeout, err)
	case parent.Err() != nil:
		return fmt.Errorf("route evaluation cancelled: %w", parent.Err())
	default:
		return fmt.Errorf("%w: %w", ErrScoringUnavailable, err)
	}
}

// EvaluateCandidates считает сырой риск каждого маршрута в пределах общего дедлайна
// и нормализует риск по всему набору.
func (e *RouteRiskEvaluator) EvaluateCandidates(ctx context.Context, routes []models.RouteCandidate) error {
	if e.policy.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.policy.Deadline)
		defer cancel()
	}

	for i := range routes {
		raw, err := e.EvaluateRoute(ctx, routes[i].Path, e.policy.SampleStride)
		if err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}
		routes[i].RawRisk = raw
		e.logger.WithFields(logrus.Fields{
			"route":    i,
			"points":   len(routes[i].Path),
			"raw_risk": raw,
		}).Debug("Route evaluated")
	}

	NormalizeRiskAcrossRoutes(routes)
	return nil
}

// NormalizeRiskAcrossRoutes линейно переводит сырой риск в шкалу [1, 10].
// Все маршруты с одинаковым ненулевым риском получают 5, с нулевым - 1.
func NormalizeRiskAcrossRoutes(routes []models.RouteCandidate) {
	if len(routes) == 0 {
		return
	}

	raw := make([]float64, len(routes))
	for i, route := range routes {
		raw[i] = route.RawRisk
	}
	minRisk := floats.Min(raw)
	maxRisk := floats.Max(raw)
	riskRange := maxRisk - minRisk

	for i := range routes {
		switch {
		case riskRange > 0:
			routes[i].RiskScore = MinRouteRisk + (MaxRouteRisk-MinRouteRisk)*(routes[i].RawRisk-minRisk)/riskRange
		case maxRisk > 0:
			routes[i].RiskScore = NeutralRouteRisk
		default:
			routes[i].RiskScore = MinRouteRisk
		}
	}
}

// SelectRoutes возвращает индексы самого быстрого (первый у провайдера) и самого безопасного маршрутов.
// При равном риске побеждает маршрут, стоящий раньше у провайдера.
func SelectRoutes(routes []models.RouteCandidate) (fastest, safest int) {
	for i := range routes {
		if routes[i].RiskScore < routes[safest].RiskScore {
			safest = i
		}
	}
	return 0, safest
}
