package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service"
)

const incidentColumns = `
			id,
			ST_Y(location::geometry) AS latitude,
			ST_X(location::geometry) AS longitude,
			severity,
			source,
			categories,
			description,
			external_ref,
			occurred_at,
			created_at,
			mapping_version`

// IncidentRepository - хранилище инцидентов в PostgreSQL/PostGIS
type IncidentRepository struct {
	db *pgxpool.Pool
}

// NewIncidentRepository создает новый IncidentRepository
func NewIncidentRepository(db *pgxpool.Pool) *IncidentRepository {
	return &IncidentRepository{
		db: db,
	}
}

// FindNear возвращает инциденты в радиусе от точки, используя сферический ST_DWithin по GIST-индексу
func (r *IncidentRepository) FindNear(ctx context.Context, center models.Point, radiusMeters float64, limit int) ([]models.Incident, error) {
	query := `
		SELECT` + incidentColumns + `
		FROM incidents
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3, false)
		LIMIT $4;
	`
	rows, err := r.db.Query(ctx, query, center.Lng, center.Lat, queryRadius(radiusMeters, postgisEarthRadiusMeters), limit)
	if err != nil {
		return nil, fmt.Errorf("repository: %w: failed to query incidents near point: %w", service.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	incidents, err := scanIncidents(rows)
	if err != nil {
		return nil, err
	}

	return withinRadius(center, radiusMeters, incidents), nil
}

// FindInBox возвращает инциденты внутри прямоугольника без использования сферических функций
func (r *IncidentRepository) FindInBox(ctx context.Context, bounds geo.Bounds, limit int) ([]models.Incident, error) {
	query := `
		SELECT` + incidentColumns + `
		FROM incidents
		WHERE location::geometry && ST_MakeEnvelope($1, $2, $3, $4, 4326)
		LIMIT $5;
	`
	rows, err := r.db.Query(ctx, query, bounds.MinLng, bounds.MinLat, bounds.MaxLng, bounds.MaxLat, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: %w: failed to query incidents in box: %w", service.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	return scanIncidents(rows)
}

// Append добавляет инциденты одним батчем. Повторная вставка того же id игнорируется.
func (r *IncidentRepository) Append(ctx context.Context, incidents ...models.Incident) error {
	if len(incidents) == 0 {
		return nil
	}

	query := `
		INSERT INTO incidents (id, location, severity, source, categories, description, external_ref, occurred_at, created_at, mapping_version)
		VALUES ($1, ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4, $5, $6::jsonb, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, incident := range incidents {
		categories := incident.Categories
		if categories == nil {
			categories = map[string]float64{}
		}
		batch.Queue(query,
			incident.ID,
			incident.Location.Lng,
			incident.Location.Lat,
			incident.Severity,
			string(incident.Source),
			categories,
			incident.Description,
			incident.ExternalRef,
			incident.OccurredAt,
			incident.CreatedAt,
			incident.MappingVersion,
		)
	}

	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repository: %w: failed to append incidents: %w", service.ErrStoreUnavailable, err)
	}
	return nil
}

// HeatmapPoints возвращает координаты последних инцидентов
func (r *IncidentRepository) HeatmapPoints(ctx context.Context, limit int) ([]models.Point, error) {
	query := `
		SELECT
			ST_Y(location::geometry) AS latitude,
			ST_X(location::geometry) AS longitude
		FROM incidents
		ORDER BY created_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("repository: %w: failed to query heatmap points: %w", service.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	points := make([]models.Point, 0, limit)
	for rows.Next() {
		var p models.Point
		if err := rows.Scan(&p.Lat, &p.Lng); err != nil {
			return nil, fmt.Errorf("failed to scan heatmap point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: %w: error during heatmap iteration: %w", service.ErrStoreUnavailable, err)
	}
	return points, nil
}

// Ping проверяет доступность базы данных
func (r *IncidentRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func scanIncidents(rows pgx.Rows) ([]models.Incident, error) {
	var incidents []models.Incident
	for rows.Next() {
		var (
			incident models.Incident
			source   string
		)
		err := rows.Scan(
			&incident.ID,
			&incident.Location.Lat,
			&incident.Location.Lng,
			&incident.Severity,
			&source,
			&incident.Categories,
			&incident.Description,
			&incident.ExternalRef,
			&incident.OccurredAt,
			&incident.CreatedAt,
			&incident.MappingVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incident.Source = models.Source(source)
		incidents = append(incidents, incident)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: %w: error during rows iteration: %w", service.ErrStoreUnavailable, err)
	}
	return incidents, nil
}
