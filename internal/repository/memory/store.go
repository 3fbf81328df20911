// Package memory содержит хранилище инцидентов в памяти процесса.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
)

// Store хранит инциденты в срезе и ищет их полным перебором с haversine
type Store struct {
	mu        sync.RWMutex
	incidents []models.Incident
	ids       map[string]struct{}
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{ids: make(map[string]struct{})}
}

// Add добавляет инциденты; повторный id игнорируется
func (s *Store) Add(incidents ...models.Incident) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, incident := range incidents {
		key := incident.ID.String()
		if _, ok := s.ids[key]; ok {
			continue
		}
		s.ids[key] = struct{}{}
		s.incidents = append(s.incidents, incident)
	}
}

// Append реализует ingest.IncidentWriter
func (s *Store) Append(ctx context.Context, incidents ...models.Incident) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Add(incidents...)
	return nil
}

// FindNear возвращает инциденты не дальше radiusMeters от center
func (s *Store) FindNear(ctx context.Context, center models.Point, radiusMeters float64, limit int) ([]models.Incident, error) {
	return s.scan(ctx, limit, func(p models.Point) bool {
		return geo.WithinRadius(center, radiusMeters, p)
	})
}

// FindInBox возвращает инциденты внутри прямоугольника
func (s *Store) FindInBox(ctx context.Context, bounds geo.Bounds, limit int) ([]models.Incident, error) {
	return s.scan(ctx, limit, bounds.Contains)
}

// HeatmapPoints возвращает координаты последних инцидентов
func (s *Store) HeatmapPoints(ctx context.Context, limit int) ([]models.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	sorted := make([]models.Incident, len(s.incidents))
	copy(sorted, s.incidents)
	s.mu.RUnlock()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	points := make([]models.Point, 0, min(limit, len(sorted)))
	for _, incident := range sorted {
		if len(points) >= limit {
			break
		}
		points = append(points, incident.Location)
	}
	return points, nil
}

// Ping всегда успешен
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Len возвращает число инцидентов
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.incidents)
}

func (s *Store) scan(ctx context.Context, limit int, match func(models.Point) bool) ([]models.Incident, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.Incident
	for _, incident := range s.incidents {
		if limit > 0 && len(result) >= limit {
			break
		}
		if match(incident.Location) {
			result = append(result, incident)
		}
	}
	return result, nil
}
