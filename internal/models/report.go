package models

import (
	"time"

	"github.com/google/uuid"
)

// Report - отчет пользователя об инциденте, поступающий в очередь загрузки
type Report struct {
	ID          uuid.UUID          `json:"id"`
	Location    Point              `json:"location"`
	Categories  map[string]float64 `json:"categories"`
	Description string             `json:"description,omitempty"`
	OccurredAt  *time.Time         `json:"occurred_at,omitempty"`
	SubmittedAt time.Time          `json:"submitted_at"`
}
