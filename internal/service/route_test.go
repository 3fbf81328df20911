package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shenikar/safe_route_system/internal/geo"
	"github.com/shenikar/safe_route_system/internal/models"
	"github.com/shenikar/safe_route_system/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestRouteService — сервис маршрутов с моками провайдера направлений и хранилища
func newTestRouteService(t *testing.T) (*routeService, *mocks.MockDirectionsProvider, *mocks.MockIncidentStore) {
	ctrl := gomock.NewController(t)
	directionsMock := mocks.NewMockDirectionsProvider(ctrl)
	storeMock := mocks.NewMockIncidentStore(ctrl)

	evaluator := NewRouteRiskEvaluator(storeMock, newTestLogger(), RoutePolicyFromConfig(newTestConfig()))
	service := NewRouteService(directionsMock, evaluator, newTestLogger())
	return service.(*routeService), directionsMock, storeMock
}

// riskyNorth — хранилище, в котором опасны только точки севернее 28.7
func riskyNorth(_ context.Context, center models.Point, _ float64, _ int) ([]models.Incident, error) {
	if center.Lat > 28.7 {
		return []models.Incident{incidentAt(center, 12, models.SourceHistorical)}, nil
	}
	return nil, nil
}

func TestPlan_SelectsFastestAndSafest(t *testing.T) {
	service, directionsMock, storeMock := newTestRouteService(t)
	ctx := context.Background()

	northern := straightPath(models.Point{Lat: 28.71, Lng: 77.2}, 12)
	southern := straightPath(models.Point{Lat: 28.51, Lng: 77.2}, 12)

	directionsMock.EXPECT().
		Routes(ctx, "Connaught Place", "India Gate").
		Return([]models.DirectionsRoute{
			{
				EncodedPolyline: geo.EncodePolyline(northern),
				ETALabel:        "12 mins",
				DistanceLabel:   "3.1 km",
				StartLocation:   northern[0],
				EndLocation:     northern[11],
				StartAddress:    "Connaught Place, New Delhi",
				EndAddress:      "India Gate, New Delhi",
			},
			{
				EncodedPolyline: geo.EncodePolyline(southern),
				ETALabel:        "15 mins",
				DistanceLabel:   "3.8 km",
			},
		}, nil)
	storeMock.EXPECT().
		FindNear(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(riskyNorth).
		Times(4)

	plan, err := service.Plan(ctx, "Connaught Place", "India Gate")

	require.NoError(t, err)
	require.Len(t, plan.Routes, 2)
	assert.Equal(t, 0, plan.FastestIndex)
	assert.Equal(t, 1, plan.SafestIndex)
	assert.InDelta(t, 10.0, plan.Fastest().RiskScore, 1e-9)
	assert.InDelta(t, 1.0, plan.Safest().RiskScore, 1e-9)
	assert.InDelta(t, 24.0, plan.Fastest().RawRisk, 1e-9)
	assert.Equal(t, "15 mins", plan.Safest().ETALabel)
	assert.Equal(t, "Connaught Place, New Delhi", plan.StartAddress)
	assert.Equal(t, "India Gate, New Delhi", plan.EndAddress)
	assert.Equal(t, "Connaught Place", plan.Origin)
}

func TestPlan_DirectionsFailure(t *testing.T) {
	service, directionsMock, _ := newTestRouteService(t)
	upstream := errors.New("OVER_QUERY_LIMIT")

	directionsMock.EXPECT().Routes(gomock.Any(), "a", "b").Return(nil, upstream)

	plan, err := service.Plan(context.Background(), "a", "b")

	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrNoRoutesFound)
	assert.ErrorIs(t, err, upstream)
}

func TestPlan_NoRoutes(t *testing.T) {
	service, directionsMock, _ := newTestRouteService(t)

	directionsMock.EXPECT().Routes(gomock.Any(), "a", "b").Return([]models.DirectionsRoute{}, nil)

	_, err := service.Plan(context.Background(), "a", "b")

	assert.ErrorIs(t, err, ErrNoRoutesFound)
}

func TestPlan_MissingEndpoints(t *testing.T) {
	service, _, _ := newTestRouteService(t)

	_, err := service.Plan(context.Background(), "", "India Gate")

	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestPlan_MalformedPolyline(t *testing.T) {
	service, directionsMock, _ := newTestRouteService(t)

	directionsMock.EXPECT().
		Routes(gomock.Any(), "a", "b").
		Return([]models.DirectionsRoute{{EncodedPolyline: "_p~iF~ps|U_"}}, nil)

	_, err := service.Plan(context.Background(), "a", "b")

	var decodeErr *geo.PolylineDecodeError
	require.ErrorAs(t, err, &decodeErr)
}

func TestPlan_StoreFailureIsNotZeroRisk(t *testing.T) {
	service, directionsMock, storeMock := newTestRouteService(t)
	path := straightPath(connaughtPlace, 3)

	directionsMock.EXPECT().
		Routes(gomock.Any(), "a", "b").
		Return([]models.DirectionsRoute{{EncodedPolyline: geo.EncodePolyline(path)}}, nil)
	storeMock.EXPECT().
		FindNear(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, ErrStoreUnavailable)

	plan, err := service.Plan(context.Background(), "a", "b")

	assert.Nil(t, plan)
	assert.ErrorIs(t, err, ErrScoringUnavailable)
}

func TestEvaluate_EncodedRoutes(t *testing.T) {
	service, _, storeMock := newTestRouteService(t)
	first := straightPath(models.Point{Lat: 28.51, Lng: 77.2}, 3)
	second := straightPath(models.Point{Lat: 28.51, Lng: 77.3}, 3)

	storeMock.EXPECT().
		FindNear(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(riskyNorth).
		Times(2)

	plan, err := service.Evaluate(context.Background(), []models.EncodedRoute{
		{Polyline: geo.EncodePolyline(first), ETALabel: "9 mins"},
		{Polyline: geo.EncodePolyline(second)},
	})

	require.NoError(t, err)
	// Оба маршрута без инцидентов: риск 1, выбирается первый
	assert.Equal(t, 0, plan.SafestIndex)
	assert.InDelta(t, 1.0, plan.Routes[1].RiskScore, 1e-9)
	assert.Equal(t, first[0], plan.StartLocation)
	assert.Equal(t, "9 mins", plan.Fastest().ETALabel)
}

func TestEvaluate_NoRoutes(t *testing.T) {
	service, _, _ := newTestRouteService(t)

	_, err := service.Evaluate(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNoRoutesFound)
}
