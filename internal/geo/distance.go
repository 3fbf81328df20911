// Package geo содержит чистые геометрические функции: расстояние по сфере,
// ограничивающие прямоугольники и кодек полилиний Google.
package geo

import (
	"math"

	"github.com/shenikar/safe_route_system/internal/models"
)

// EarthRadiusMeters - радиус сферической модели Земли
const EarthRadiusMeters = 6371000.0

const degToRad = math.Pi / 180

// Distance возвращает расстояние по большому кругу (haversine) в метрах
func Distance(a, b models.Point) float64 {
	lat1 := a.Lat * degToRad
	lat2 := b.Lat * degToRad
	dLat := (b.Lat - a.Lat) * degToRad
	dLng := (b.Lng - a.Lng) * degToRad

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	return 2 * EarthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// ValidPoint проверяет, что координаты конечны и лежат в допустимых диапазонах
func ValidPoint(p models.Point) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Bounds - ограничивающий прямоугольник в градусах
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// BoundsAround возвращает прямоугольник, целиком содержащий круг радиуса radiusMeters.
// Переход через антимеридиан не поддерживается: долгота обрезается до [-180, 180].
func BoundsAround(center models.Point, radiusMeters float64) Bounds {
	angular := radiusMeters / EarthRadiusMeters
	latDelta := angular / degToRad

	lngDelta := 180.0
	cosLat := math.Cos(center.Lat * degToRad)
	if ratio := math.Sin(angular) / cosLat; cosLat > 0 && ratio < 1 {
		lngDelta = math.Asin(ratio) / degToRad
	}

	return Bounds{
		MinLat: math.Max(center.Lat-latDelta, -90),
		MinLng: math.Max(center.Lng-lngDelta, -180),
		MaxLat: math.Min(center.Lat+latDelta, 90),
		MaxLng: math.Min(center.Lng+lngDelta, 180),
	}
}

// Contains сообщает, попадает ли точка в прямоугольник (границы включительно)
func (b Bounds) Contains(p models.Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat && p.Lng >= b.MinLng && p.Lng <= b.MaxLng
}

// WithinRadius отбирает точки на расстоянии не больше radiusMeters от center
func WithinRadius(center models.Point, radiusMeters float64, p models.Point) bool {
	return ValidPoint(p) && Distance(center, p) <= radiusMeters
}
