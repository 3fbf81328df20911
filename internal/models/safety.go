package models

// Уровни риска, выводимые из итоговой оценки
const (
	LevelHighRisk   = "High Risk"
	LevelMediumRisk = "Medium Risk"
	LevelLowRisk    = "Low Risk"
)

// SafetyQuery - запрос оценки безопасности точки
type SafetyQuery struct {
	Center       Point
	RadiusMeters float64
}

// SafetyResult - результат оценки безопасности (шкала 1-10, 10 = безопаснее всего)
type SafetyResult struct {
	Score               float64 `json:"score"`
	Level               string  `json:"level"`
	IncidentCount       int     `json:"incident_count"`
	RecentIncidentCount int     `json:"recent_incident_count"`
	SeveritySum         float64 `json:"severity_sum"`
}
