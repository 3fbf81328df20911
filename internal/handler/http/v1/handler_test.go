package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shenikar/safe_route_system/internal/config"
	"github.com/shenikar/safe_route_system/internal/directions"
	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service"
	"github.com/shenikar/safe_route_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testMocks struct {
	scorer    *mocks.MockSafetyScorer
	routes    *mocks.MockRouteService
	incidents *mocks.MockIncidentService
}

type stubHealth struct {
	err error
}

func (s stubHealth) Ping(context.Context) error { return s.err }

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T, health HealthChecker) (*testMocks, *gin.Engine) {
	ctrl := gomock.NewController(t)
	m := &testMocks{
		scorer:    mocks.NewMockSafetyScorer(ctrl),
		routes:    mocks.NewMockRouteService(ctrl),
		incidents: mocks.NewMockIncidentService(ctrl),
	}

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		APIKeys: []string{"test-api-key"},
	}

	handler := NewHandler(m.scorer, m.routes, m.incidents, health, logger, cfg)

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return m, router
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScore_Success(t *testing.T) {
	m, router := newTestHandler(t, nil)
	expectedQuery := models.SafetyQuery{
		Center:       models.Point{Lat: 28.6315, Lng: 77.2167},
		RadiusMeters: 1500,
	}

	m.scorer.EXPECT().
		Score(gomock.Any(), expectedQuery).
		Return(&models.SafetyResult{
			Score:         9.89,
			Level:         models.LevelLowRisk,
			IncidentCount: 1,
			SeveritySum:   5,
		}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/score", strings.NewReader(`{"lat": 28.6315, "lng": 77.2167, "radius_km": 1.5}`))

	require.Equal(t, http.StatusOK, w.Code)
	var resp ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 9.9, resp.Score)
	assert.Equal(t, models.LevelLowRisk, resp.Level)
	assert.Equal(t, 1, resp.IncidentCount)
}

func TestModelToScoreResponse_LevelFollowsRoundedScore(t *testing.T) {
	tests := []struct {
		raw       float64
		wantScore float64
		wantLevel string
	}{
		{raw: 6.96, wantScore: 7, wantLevel: models.LevelLowRisk},
		{raw: 6.94, wantScore: 6.9, wantLevel: models.LevelMediumRisk},
		{raw: 3.97, wantScore: 4, wantLevel: models.LevelMediumRisk},
		{raw: 3.94, wantScore: 3.9, wantLevel: models.LevelHighRisk},
	}

	for _, tt := range tests {
		resp := ModelToScoreResponse(&models.SafetyResult{Score: tt.raw, Level: service.LevelFor(tt.raw)})
		assert.Equal(t, tt.wantScore, resp.Score, "raw %v", tt.raw)
		assert.Equal(t, tt.wantLevel, resp.Level, "raw %v", tt.raw)
	}
}

func TestScore_ZeroCoordinatesAreValid(t *testing.T) {
	m, router := newTestHandler(t, nil)

	m.scorer.EXPECT().
		Score(gomock.Any(), models.SafetyQuery{}).
		Return(&models.SafetyResult{Score: 10, Level: models.LevelLowRisk}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/score", strings.NewReader(`{"lat": 0, "lng": 0}`))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScore_ValidationError(t *testing.T) {
	_, router := newTestHandler(t, nil)

	testCases := []struct {
		name string
		body string
	}{
		{name: "missing lng", body: `{"lat": 28.6}`},
		{name: "latitude out of range", body: `{"lat": 128.6, "lng": 77.2}`},
		{name: "negative radius", body: `{"lat": 28.6, "lng": 77.2, "radius_km": -1}`},
		{name: "malformed json", body: `{"lat": `},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := makeRequest(router, http.MethodPost, "/api/v1/score", strings.NewReader(tc.body))
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestScore_StoreUnavailable(t *testing.T) {
	m, router := newTestHandler(t, nil)

	m.scorer.EXPECT().
		Score(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: %w: %w", service.ErrScoringUnavailable, service.ErrStoreUnavailable))

	w := makeRequest(router, http.MethodPost, "/api/v1/score", strings.NewReader(`{"lat": 28.6, "lng": 77.2}`))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func newTestPlan() *models.RoutePlan {
	return &models.RoutePlan{
		Origin:      "Connaught Place",
		Destination: "India Gate",
		Routes: []models.RouteCandidate{
			{
				Path:          []models.Point{{Lat: 28.63, Lng: 77.21}, {Lat: 28.62, Lng: 77.22}},
				ETALabel:      "12 mins",
				DistanceLabel: "3.1 km",
				RawRisk:       24,
				RiskScore:     10,
			},
			{
				Path:          []models.Point{{Lat: 28.63, Lng: 77.21}, {Lat: 28.61, Lng: 77.23}},
				ETALabel:      "15 mins",
				DistanceLabel: "3.8 km",
				RiskScore:     1,
			},
		},
		FastestIndex:  0,
		SafestIndex:   1,
		StartLocation: models.Point{Lat: 28.63, Lng: 77.21},
		EndLocation:   models.Point{Lat: 28.61, Lng: 77.23},
		StartAddress:  "Connaught Place, New Delhi",
		EndAddress:    "India Gate, New Delhi",
	}
}

func TestPlanRoute_Success(t *testing.T) {
	m, router := newTestHandler(t, nil)

	m.routes.EXPECT().Plan(gomock.Any(), "Connaught Place", "India Gate").Return(newTestPlan(), nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/route/plan", strings.NewReader(`{"origin": "Connaught Place", "destination": "India Gate"}`))

	require.Equal(t, http.StatusOK, w.Code)
	var resp RoutePlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "12 mins", resp.Fastest.Meta.ETA)
	assert.Equal(t, "15 mins", resp.Safest.Meta.ETA)
	assert.Equal(t, 1.0, resp.Safest.Meta.Risk)
	assert.Equal(t, 10.0, resp.Fastest.Meta.Risk)
	assert.Len(t, resp.Routes, 2)
	assert.Equal(t, 1, resp.SafestIndex)
	require.NotNil(t, resp.StartLocation)
	assert.Equal(t, 28.63, resp.StartLocation.Lat)
	assert.Equal(t, "India Gate, New Delhi", resp.EndAddress)
}

func TestPlanRoute_ErrorMapping(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "no routes",
			err:      service.ErrNoRoutesFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "directions upstream failure",
			err:      fmt.Errorf("service: %w: %w", service.ErrNoRoutesFound, directions.ErrUnavailable),
			expected: http.StatusBadGateway,
		},
		{
			name:     "malformed polyline",
			err:      fmt.Errorf("route 1: %w", &geo.PolylineDecodeError{Offset: 7, Reason: "truncated value"}),
			expected: http.StatusUnprocessableEntity,
		},
		{
			name:     "sampling timeout",
			err:      fmt.Errorf("route 0: %w: %w", service.ErrScoringTimeout, context.DeadlineExceeded),
			expected: http.StatusGatewayTimeout,
		},
		{
			name:     "store unavailable",
			err:      fmt.Errorf("route 0: %w", service.ErrScoringUnavailable),
			expected: http.StatusServiceUnavailable,
		},
		{
			name:     "unexpected",
			err:      errors.New("boom"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, router := newTestHandler(t, nil)
			m.routes.EXPECT().Plan(gomock.Any(), "a place", "b place").Return(nil, tc.err)

			w := makeRequest(router, http.MethodPost, "/api/v1/route/plan", strings.NewReader(`{"origin": "a place", "destination": "b place"}`))

			assert.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestEvaluateRoutes_Success(t *testing.T) {
	m, router := newTestHandler(t, nil)
	plan := newTestPlan()
	plan.Origin, plan.Destination = "", ""

	m.routes.EXPECT().
		Evaluate(gomock.Any(), []models.EncodedRoute{
			{Polyline: "_p~iF~ps|U", ETALabel: "12 mins"},
			{Polyline: "_ulLnnqC"},
		}).
		Return(plan, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/route/evaluate",
		strings.NewReader(`{"routes": [{"polyline": "_p~iF~ps|U", "eta": "12 mins"}, {"polyline": "_ulLnnqC"}]}`))

	require.Equal(t, http.StatusOK, w.Code)
	var resp RoutePlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.FastestIndex)
	assert.Equal(t, 1, resp.SafestIndex)
}

func TestEvaluateRoutes_EmptyList(t *testing.T) {
	_, router := newTestHandler(t, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/route/evaluate", strings.NewReader(`{"routes": []}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHeatmap_Success(t *testing.T) {
	m, router := newTestHandler(t, nil)
	points := []models.Point{{Lat: 28.6, Lng: 77.2}}

	m.incidents.EXPECT().Heatmap(gomock.Any()).Return(points, nil)

	w := makeRequest(router, http.MethodGet, "/api/v1/heatmap", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"lat": 28.6, "lng": 77.2}]`, w.Body.String())
}

func TestSubmitReport_Success(t *testing.T) {
	m, router := newTestHandler(t, nil)
	id := uuid.New()

	m.incidents.EXPECT().
		SubmitReport(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, report models.Report) (*models.Incident, error) {
			assert.Equal(t, models.Point{Lat: 28.6, Lng: 77.2}, report.Location)
			assert.Equal(t, map[string]float64{"theft": 1}, report.Categories)
			return &models.Incident{ID: id, Severity: 1}, nil
		})

	w := makeRequest(router, http.MethodPost, "/api/v1/reports",
		strings.NewReader(`{"lat": 28.6, "lng": 77.2, "categories": {"theft": 1}}`),
		map[string]string{"X-API-Key": "test-api-key"})

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp ReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.ID)
}

func TestSubmitReport_BearerToken(t *testing.T) {
	m, router := newTestHandler(t, nil)

	m.incidents.EXPECT().SubmitReport(gomock.Any(), gomock.Any()).Return(&models.Incident{ID: uuid.New()}, nil)

	w := makeRequest(router, http.MethodPost, "/api/v1/reports",
		strings.NewReader(`{"lat": 28.6, "lng": 77.2, "categories": {"robbery": 1}}`),
		map[string]string{"Authorization": "Bearer test-api-key"})

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestSubmitReport_Unauthorized(t *testing.T) {
	_, router := newTestHandler(t, nil)
	body := `{"lat": 28.6, "lng": 77.2, "categories": {"theft": 1}}`

	w := makeRequest(router, http.MethodPost, "/api/v1/reports", strings.NewReader(body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = makeRequest(router, http.MethodPost, "/api/v1/reports", strings.NewReader(body), map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReporterAuthMiddleware(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		keys     []string
		headers  map[string]string
		wantCode int
	}{
		{name: "reports disabled", keys: nil, headers: map[string]string{"X-API-Key": "k1"}, wantCode: http.StatusServiceUnavailable},
		{name: "missing key", keys: []string{"k1"}, wantCode: http.StatusUnauthorized},
		{name: "unknown key", keys: []string{"k1"}, headers: map[string]string{"X-API-Key": "k2"}, wantCode: http.StatusUnauthorized},
		{name: "second key", keys: []string{"k1", "k2"}, headers: map[string]string{"X-API-Key": "k2"}, wantCode: http.StatusNoContent},
		{name: "bearer", keys: []string{"k1"}, headers: map[string]string{"Authorization": "Bearer k1"}, wantCode: http.StatusNoContent},
		{name: "basic scheme", keys: []string{"k1"}, headers: map[string]string{"Authorization": "Basic k1"}, wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/reports", ReporterAuthMiddleware(tt.keys, logger), func(c *gin.Context) {
				c.Status(http.StatusNoContent)
			})

			w := makeRequest(router, http.MethodPost, "/reports", nil, tt.headers)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestSubmitReport_InvalidCategory(t *testing.T) {
	m, router := newTestHandler(t, nil)

	m.incidents.EXPECT().
		SubmitReport(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("service: %w: unknown category \"jaywalking\"", service.ErrInvalidQuery))

	w := makeRequest(router, http.MethodPost, "/api/v1/reports",
		strings.NewReader(`{"lat": 28.6, "lng": 77.2, "categories": {"jaywalking": 1}}`),
		map[string]string{"X-API-Key": "test-api-key"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	_, router := newTestHandler(t, stubHealth{})
	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	_, router = newTestHandler(t, stubHealth{err: errors.New("connection refused")})
	w = makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
