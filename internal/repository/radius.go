package repository

import (
	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
)

const (
	// Радиусы сфер, на которых хранилища считают расстояние
	mongoEarthRadiusMeters   = 6378100.0
	postgisEarthRadiusMeters = 6371008.7714

	radiusSlackMeters = 0.5
)

// queryRadius переводит радиус haversine в радиус сферы хранилища с запасом.
// Индекс возвращает надмножество, точный отбор делает geo.WithinRadius.
func queryRadius(radiusMeters, storeEarthRadius float64) float64 {
	return radiusMeters*storeEarthRadius/geo.EarthRadiusMeters + radiusSlackMeters
}

// withinRadius оставляет только инциденты в радиусе haversine
func withinRadius(center models.Point, radiusMeters float64, incidents []models.Incident) []models.Incident {
	filtered := incidents[:0]
	for _, incident := range incidents {
		if geo.WithinRadius(center, radiusMeters, incident.Location) {
			filtered = append(filtered, incident)
		}
	}
	return filtered
}
