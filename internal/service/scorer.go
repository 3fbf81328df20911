package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/sirupsen/logrus"
)

// Границы шкалы безопасности
const (
	MinScore = 1.0
	MaxScore = 10.0
)

// ScoringPolicy - настраиваемые параметры линейной штрафной формулы
//
//	score = clamp(10 - SeverityWeight*severitySum - IncidentWeight*incidentCount - RecentWeight*recentIncidentCount, 1, 10)
//
// где severity отчетов пользователей умножается на UserReportWeight.
type ScoringPolicy struct {
	DefaultRadiusMeters float64
	MaxRadiusMeters     float64
	QueryLimit          int
	SeverityWeight      float64
	IncidentWeight      float64
	RecentWeight        float64
	UserReportWeight    float64
}

// ScoringPolicyFromConfig собирает политику из конфигурации
func ScoringPolicyFromConfig(cfg *config.Config) ScoringPolicy {
	return ScoringPolicy{
		DefaultRadiusMeters: cfg.ScoreDefaultRadiusMeters,
		MaxRadiusMeters:     cfg.ScoreMaxRadiusMeters,
		QueryLimit:          cfg.ScoreQueryLimit,
		SeverityWeight:      cfg.ScoreSeverityWeight,
		IncidentWeight:      cfg.ScoreIncidentWeight,
		RecentWeight:        cfg.ScoreRecentWeight,
		UserReportWeight:    cfg.ScoreUserReportWeight,
	}
}

// ClampRadius подставляет радиус по умолчанию для нулевого значения и ограничивает максимум
func (p ScoringPolicy) ClampRadius(radiusMeters float64) (float64, error) {
	switch {
	case math.IsNaN(radiusMeters) || radiusMeters < 0:
		return 0, fmt.Errorf("%w: radius must be positive", ErrInvalidQuery)
	case radiusMeters == 0:
		radiusMeters = p.DefaultRadiusMeters
	}
	return math.Min(math.Max(radiusMeters, 1), p.MaxRadiusMeters), nil
}

// Evaluate считает оценку по найденным инцидентам
func (p ScoringPolicy) Evaluate(incidents []models.Incident) *models.SafetyResult {
	result := &models.SafetyResult{IncidentCount: len(incidents)}

	for _, incident := range incidents {
		severity := math.Max(incident.Severity, 0)
		if incident.Source == models.SourceUserReport {
			result.RecentIncidentCount++
			severity *= p.UserReportWeight
		}
		result.SeveritySum += severity
	}

	score := MaxScore -
		p.SeverityWeight*result.SeveritySum -
		p.IncidentWeight*float64(result.IncidentCount) -
		p.RecentWeight*float64(result.RecentIncidentCount)

	result.Score = clampScore(score)
	result.Level = LevelFor(result.Score)
	return result
}

// LevelFor выводит уровень риска из оценки
func LevelFor(score float64) string {
	switch {
	case score < 4:
		return models.LevelHighRisk
	case score < 7:
		return models.LevelMediumRisk
	default:
		return models.LevelLowRisk
	}
}

func clampScore(score float64) float64 {
	if math.IsNaN(score) || score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

type safetyScorer struct {
	store  IncidentStore
	cache  ScoreCache
	policy ScoringPolicy
	logger *logrus.Logger
}

// NewSafetyScorer создает сервис оценки; cache может быть nil
func NewSafetyScorer(store IncidentStore, cache ScoreCache, logger *logrus.Logger, cfg *config.Config) SafetyScorer {
	return &safetyScorer{
		store:  store,
		cache:  cache,
		policy: ScoringPolicyFromConfig(cfg),
		logger: logger,
	}
}

// Score оценивает безопасность точки по инцидентам в радиусе
func (s *safetyScorer) Score(ctx context.Context, query models.SafetyQuery) (*models.SafetyResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "scorer",
		"method":  "Score",
		"lat":     query.Center.Lat,
		"lng":     query.Center.Lng,
	})

	if !geo.ValidPoint(query.Center) {
		return nil, fmt.Errorf("service: %w: invalid center %v,%v", ErrInvalidQuery, query.Center.Lat, query.Center.Lng)
	}
	radius, err := s.policy.ClampRadius(query.RadiusMeters)
	if err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}

	key := scoreCacheKey(query.Center, radius)
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, key)
		if err != nil {
			log.WithError(err).Warn("Failed to read score cache")
		} else if cached != nil {
			log.Debug("Score served from cache")
			return cached, nil
		}
	}

	incidents, err := s.store.FindNear(ctx, query.Center, radius, s.policy.QueryLimit)
	if err != nil {
		log.WithError(err).Error("Failed to find incidents near point")
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("service: %w: %w", ErrScoringTimeout, err)
		}
		return nil, fmt.Errorf("service: %w: %w", ErrScoringUnavailable, err)
	}

	result := s.policy.Evaluate(incidents)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result); err != nil {
			log.WithError(err).Warn("Failed to write score cache")
		}
	}

	log.WithFields(logrus.Fields{
		"radius_meters":  radius,
		"incident_count": result.IncidentCount,
		"score":          result.Score,
	}).Info("Safety score computed")
	return result, nil
}

func scoreCacheKey(center models.Point, radiusMeters float64) string {
	return fmt.Sprintf("score:%.5f:%.5f:%.0f", center.Lat, center.Lng, radiusMeters)
}
