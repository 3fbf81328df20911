package models

// DirectionsRoute - маршрут в том виде, в каком его вернул провайдер направлений
type DirectionsRoute struct {
	EncodedPolyline string
	ETALabel        string
	DistanceLabel   string
	StartLocation   Point
	EndLocation     Point
	StartAddress    string
	EndAddress      string
}

// EncodedRoute - маршрут-кандидат, переданный клиентом в закодированном виде
type EncodedRoute struct {
	Polyline      string
	ETALabel      string
	DistanceLabel string
}

// RouteCandidate - маршрут-кандидат с рассчитанным риском
type RouteCandidate struct {
	Path          []Point
	ETALabel      string
	DistanceLabel string
	RawRisk       float64
	RiskScore     float64
}

// RoutePlan - результат планирования маршрута: самый быстрый и самый безопасный варианты
type RoutePlan struct {
	Origin        string
	Destination   string
	Routes        []RouteCandidate
	FastestIndex  int
	SafestIndex   int
	StartLocation Point
	EndLocation   Point
	StartAddress  string
	EndAddress    string
}

// Fastest возвращает первый маршрут провайдера
func (p *RoutePlan) Fastest() RouteCandidate {
	return p.Routes[p.FastestIndex]
}

// Safest возвращает маршрут с минимальным риском
func (p *RoutePlan) Safest() RouteCandidate {
	return p.Routes[p.SafestIndex]
}
