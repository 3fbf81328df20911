package geo

import (
	"fmt"
	"math"
	"strings"

	"github.com/shenikar/safe_route_system/internal/models"
)

const (
	polylinePrecision = 1e5
	// 7 групп по 5 бит покрывают любое 32-битное значение
	maxChunkShift = 30
)

// PolylineDecodeError - ошибка разбора закодированной полилинии
type PolylineDecodeError struct {
	Offset int
	Reason string
}

func (e *PolylineDecodeError) Error() string {
	return fmt.Sprintf("polyline decode error at offset %d: %s", e.Offset, e.Reason)
}

// DecodePolyline декодирует строку в формате Google Encoded Polyline.
// Некорректный или обрезанный ввод возвращает *PolylineDecodeError, а не частичный результат.
func DecodePolyline(encoded string) ([]models.Point, error) {
	points := make([]models.Point, 0, len(encoded)/4)

	var lat, lng int64
	for i := 0; i < len(encoded); {
		dLat, next, err := decodeValue(encoded, i)
		if err != nil {
			return nil, err
		}
		if next >= len(encoded) {
			return nil, &PolylineDecodeError{Offset: next, Reason: "missing longitude"}
		}
		dLng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}

		lat += dLat
		lng += dLng
		points = append(points, models.Point{
			Lat: float64(lat) / polylinePrecision,
			Lng: float64(lng) / polylinePrecision,
		})
		i = next
	}
	return points, nil
}

func decodeValue(encoded string, start int) (int64, int, error) {
	var result int64
	var shift uint

	i := start
	for {
		if i >= len(encoded) {
			return 0, i, &PolylineDecodeError{Offset: start, Reason: "truncated value"}
		}
		b := int64(encoded[i]) - 63
		if b < 0 || b > 63 {
			return 0, i, &PolylineDecodeError{Offset: i, Reason: fmt.Sprintf("invalid character %q", encoded[i])}
		}
		if shift > maxChunkShift {
			return 0, i, &PolylineDecodeError{Offset: start, Reason: "value overflow"}
		}
		i++

		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

// EncodePolyline кодирует точки, округляя координаты до 1e-5
func EncodePolyline(points []models.Point) string {
	var sb strings.Builder

	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * polylinePrecision))
		lng := int64(math.Round(p.Lng * polylinePrecision))
		encodeValue(&sb, lat-prevLat)
		encodeValue(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return sb.String()
}

func encodeValue(sb *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		sb.WriteByte(byte((0x20 | (u & 0x1f)) + 63))
		u >>= 5
	}
	sb.WriteByte(byte(u + 63))
}
