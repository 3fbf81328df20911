package models

import (
	"time"

	"github.com/google/uuid"
)

// Source - происхождение инцидента
type Source string

const (
	// SourceHistorical - массово импортированные исторические данные (CSV)
	SourceHistorical Source = "historical"
	// SourceUserReport - живой отчет пользователя, считается "свежим" сигналом
	SourceUserReport Source = "user_report"
)

// Valid сообщает, является ли значение известным источником
func (s Source) Valid() bool {
	return s == SourceHistorical || s == SourceUserReport
}

// Point - географическая точка (WGS 84)
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Incident - каноническая запись об инциденте. После создания не изменяется.
type Incident struct {
	ID             uuid.UUID          `json:"id"`
	Location       Point              `json:"location"`
	Severity       float64            `json:"severity"`
	Source         Source             `json:"source"`
	Categories     map[string]float64 `json:"categories,omitempty"`
	Description    string             `json:"description,omitempty"`
	ExternalRef    string             `json:"external_ref,omitempty"`
	OccurredAt     *time.Time         `json:"occurred_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	MappingVersion int                `json:"mapping_version"`
}
