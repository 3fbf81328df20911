package ingest

import (
	"errors"
	"fmt"

	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
)

// FromReport превращает отчет пользователя в инцидент с источником user_report
func FromReport(report models.Report) (models.Incident, error) {
	if !geo.ValidPoint(report.Location) {
		return models.Incident{}, fmt.Errorf("invalid report location %v,%v", report.Location.Lat, report.Location.Lng)
	}
	if len(report.Categories) == 0 {
		return models.Incident{}, errors.New("report has no categories")
	}
	if err := ValidateCounts(report.Categories); err != nil {
		return models.Incident{}, fmt.Errorf("invalid report categories: %w", err)
	}

	return models.Incident{
		ID:             report.ID,
		Location:       report.Location,
		Severity:       Severity(report.Categories),
		Source:         models.SourceUserReport,
		Categories:     report.Categories,
		Description:    report.Description,
		OccurredAt:     report.OccurredAt,
		CreatedAt:      report.SubmittedAt,
		MappingVersion: MappingVersionCanonical,
	}, nil
}
