package repository

import (
	"testing"

	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestQueryRadius_CoversHaversineBoundary(t *testing.T) {
	tests := []struct {
		name        string
		earthRadius float64
	}{
		{name: "mongo sphere", earthRadius: mongoEarthRadiusMeters},
		{name: "postgis sphere", earthRadius: postgisEarthRadiusMeters},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, r := range []float64{1, 750, 1000, 2000} {
				// Инцидент на границе haversine в метрике хранилища
				storeDistance := r * tt.earthRadius / geo.EarthRadiusMeters
				assert.GreaterOrEqual(t, queryRadius(r, tt.earthRadius), storeDistance)
			}
		})
	}
}

func TestNearFilter_InflatesMaxDistance(t *testing.T) {
	center := models.Point{Lat: 28.6, Lng: 77.2}
	filter := nearFilter(center, 1000)

	near, ok := filter["loc"].(bson.M)["$nearSphere"].(bson.M)
	require.True(t, ok)

	maxDistance, ok := near["$maxDistance"].(float64)
	require.True(t, ok)
	assert.Greater(t, maxDistance, 1000.0)

	// 999.5 м по haversine - около 1000.6 м на сфере MongoDB
	assert.GreaterOrEqual(t, maxDistance, 999.5*mongoEarthRadiusMeters/geo.EarthRadiusMeters)
	assert.Equal(t, []float64{77.2, 28.6}, near["$geometry"].(bson.M)["coordinates"])
}

func TestWithinRadius_ExactCut(t *testing.T) {
	center := models.Point{Lat: 28.6, Lng: 77.2}
	inside := models.Incident{Location: models.Point{Lat: 28.6089, Lng: 77.2}}  // ~990 м
	outside := models.Incident{Location: models.Point{Lat: 28.6091, Lng: 77.2}} // ~1012 м

	got := withinRadius(center, 1000, []models.Incident{inside, outside})
	require.Len(t, got, 1)
	assert.Equal(t, inside.Location, got[0].Location)
}
