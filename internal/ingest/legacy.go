package ingest

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
)

// Версии схемы, из которых получен инцидент
const (
	// MappingVersionLocationCoords - документы с location_coords {latitude|lat, longitude|lng}
	MappingVersionLocationCoords = 0
	// MappingVersionGeoJSON - документы с loc: {type: Point, coordinates: [lng, lat]}
	MappingVersionGeoJSON = 1
	// MappingVersionCanonical - записи, созданные этим сервисом
	MappingVersionCanonical = 2
)

// ErrQuarantined - запись не прошла нормализацию и не должна попасть в расчет
var ErrQuarantined = errors.New("record quarantined")

// LegacyRecord - слабо типизированная запись об инциденте из любой исторической схемы
type LegacyRecord struct {
	ID             string
	Coordinates    []float64
	LocationCoords map[string]float64
	SeverityScore  *float64
	Counts         map[string]float64
	Source         string
	DataSource     string
	Date           *time.Time
	CreatedAt      *time.Time
	Description    string
	ExternalRef    string
}

var legacyCountKeys = map[string]string{
	"murder":            CategoryMurder,
	"rape":              CategoryRape,
	"gangrape":          CategoryGangrape,
	"robbery":           CategoryRobbery,
	"theft":             CategoryTheft,
	"assaultMurders":    CategoryAssaultMurders,
	"assault_murders":   CategoryAssaultMurders,
	"sexualHarassment":  CategorySexualHarassment,
	"sexual_harassment": CategorySexualHarassment,
}

// Normalize приводит запись старой схемы к каноническому инциденту.
// Записи без валидных координат, с неизвестным источником или отрицательной severity
// возвращают ошибку, обернутую в ErrQuarantined.
func Normalize(rec LegacyRecord) (models.Incident, error) {
	location, version, err := legacyLocation(rec)
	if err != nil {
		return models.Incident{}, quarantine(rec.ID, err)
	}

	source, err := normalizeSource(rec.Source, rec.DataSource)
	if err != nil {
		return models.Incident{}, quarantine(rec.ID, err)
	}

	counts := make(map[string]float64, len(rec.Counts))
	for key, value := range rec.Counts {
		if category, ok := legacyCountKeys[key]; ok && value > 0 {
			counts[category] = value
		}
	}

	severity := Severity(counts)
	if rec.SeverityScore != nil {
		severity = *rec.SeverityScore
	}
	if severity < 0 || math.IsNaN(severity) || math.IsInf(severity, 0) {
		return models.Incident{}, quarantine(rec.ID, fmt.Errorf("invalid severity %v", severity))
	}

	incident := models.Incident{
		ID:             legacyID(rec.ID),
		Location:       location,
		Severity:       severity,
		Source:         source,
		Description:    strings.TrimSpace(rec.Description),
		ExternalRef:    strings.TrimSpace(rec.ExternalRef),
		OccurredAt:     rec.Date,
		MappingVersion: version,
	}
	if len(counts) > 0 {
		incident.Categories = counts
	}
	if rec.CreatedAt != nil {
		incident.CreatedAt = *rec.CreatedAt
	}
	return incident, nil
}

func legacyLocation(rec LegacyRecord) (models.Point, int, error) {
	if len(rec.Coordinates) == 2 {
		p := models.Point{Lat: rec.Coordinates[1], Lng: rec.Coordinates[0]}
		if err := checkPoint(p); err != nil {
			return models.Point{}, 0, err
		}
		return p, MappingVersionGeoJSON, nil
	}

	if len(rec.LocationCoords) > 0 {
		lat, okLat := firstOf(rec.LocationCoords, "latitude", "lat")
		lng, okLng := firstOf(rec.LocationCoords, "longitude", "lng")
		if !okLat || !okLng {
			return models.Point{}, 0, errors.New("incomplete location_coords")
		}
		p := models.Point{Lat: lat, Lng: lng}
		if err := checkPoint(p); err != nil {
			return models.Point{}, 0, err
		}
		return p, MappingVersionLocationCoords, nil
	}

	return models.Point{}, 0, errors.New("no coordinates")
}

func checkPoint(p models.Point) error {
	if !geo.ValidPoint(p) {
		return fmt.Errorf("invalid coordinates %v,%v", p.Lat, p.Lng)
	}
	// CSV-импорт подставлял 0 вместо пустых координат
	if p.Lat == 0 && p.Lng == 0 {
		return errors.New("zero coordinates")
	}
	return nil
}

func firstOf(m map[string]float64, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return 0, false
}

func normalizeSource(source, dataSource string) (models.Source, error) {
	raw := strings.TrimSpace(source)
	if raw == "" {
		raw = strings.TrimSpace(dataSource)
	}

	switch strings.ToLower(raw) {
	case "", "csv", "delhi_csv", "historical":
		return models.SourceHistorical, nil
	case "user_report", "user reported", "delhi police scraper":
		return models.SourceUserReport, nil
	default:
		return "", fmt.Errorf("unknown source %q", raw)
	}
}

// legacyID сохраняет UUID как есть, а прочие идентификаторы (ObjectID) детерминированно отображает в UUID
func legacyID(raw string) uuid.UUID {
	if raw == "" {
		return uuid.New()
	}
	if id, err := uuid.Parse(raw); err == nil {
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(raw))
}

func quarantine(id string, err error) error {
	return fmt.Errorf("%w: record %q: %w", ErrQuarantined, id, err)
}
