package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourtrip/intermodal/internal/geo"
	"github.com/yourtrip/intermodal/internal/models"
)

func newTestStore() *fixtureStore {
	return &fixtureStore{
		stations: []models.Station{
			{ID: "NS24", Name: "Dhoby Ghaut", Latitude: testCenter.Lat, Longitude: testCenter.Lon},
			{ID: "CC1", Name: "Remote", Latitude: 1.45, Longitude: 103.95},
		},
		stops: []models.Stop{
			northOf(testCenter, "08057", 499),
			northOf(testCenter, "08031", 100),
			northOf(testCenter, "08069", 501),
		},
		memberships: []models.ServiceMembership{
			{StopCode: "08031", ServiceNo: "2A"},
			{StopCode: "08031", ServiceNo: "2"},
			{StopCode: "08057", ServiceNo: "10"},
			{StopCode: "08057", ServiceNo: "2A"},
			{StopCode: "08069", ServiceNo: "190"},
		},
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	store := newTestStore()
	analyzer := NewAnalyzer(store)

	got, err := analyzer.Analyze(context.Background(), "NS24", 500)
	require.NoError(t, err)

	assert.Equal(t, "NS24", got.Station.ID)
	assert.Equal(t, 500, got.Radius)
	require.Len(t, got.BusStops, 2)
	assert.Equal(t, 2, got.TotalBusStops)
	assert.Equal(t, 3, got.UniqueBusServices)

	assert.Equal(t, "08031", got.BusStops[0].StopCode)
	assert.Equal(t, int64(100), got.BusStops[0].Distance)
	assert.Equal(t, []models.ServiceRef{{ServiceNo: "2"}, {ServiceNo: "2A"}}, got.BusStops[0].Services)

	assert.Equal(t, "08057", got.BusStops[1].StopCode)
	assert.Equal(t, int64(499), got.BusStops[1].Distance)
	assert.Equal(t, []models.ServiceRef{{ServiceNo: "2A"}, {ServiceNo: "10"}}, got.BusStops[1].Services)

	assert.Equal(t, 1, store.stationCalls)
	assert.Equal(t, 1, store.stopCalls)
	assert.Equal(t, 1, store.serviceCalls)
}

func TestAnalyzer_Deterministic(t *testing.T) {
	analyzer := NewAnalyzer(newTestStore())

	first, err := analyzer.Analyze(context.Background(), "NS24", 1000)
	require.NoError(t, err)
	second, err := analyzer.Analyze(context.Background(), "NS24", 1000)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestAnalyzer_NoCoverage(t *testing.T) {
	store := newTestStore()
	analyzer := NewAnalyzer(store)

	got, err := analyzer.Analyze(context.Background(), "CC1", 500)
	require.NoError(t, err)

	assert.Equal(t, 0, got.TotalBusStops)
	assert.Equal(t, 0, got.UniqueBusServices)
	assert.NotNil(t, got.BusStops)
	assert.Empty(t, got.BusStops)
	assert.Equal(t, 0, store.serviceCalls)

	body, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"bus_stops":[]`)
}

func TestAnalyzer_StopWithoutServices(t *testing.T) {
	store := newTestStore()
	store.memberships = nil

	got, err := NewAnalyzer(store).Analyze(context.Background(), "NS24", 500)
	require.NoError(t, err)
	require.Len(t, got.BusStops, 2)
	assert.NotNil(t, got.BusStops[0].Services)
	assert.Empty(t, got.BusStops[0].Services)
	assert.Equal(t, 0, got.UniqueBusServices)
}

func TestAnalyzer_NotFound(t *testing.T) {
	store := newTestStore()

	got, err := NewAnalyzer(store).Analyze(context.Background(), "XX99", 500)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, 0, store.stopCalls)
}

func TestAnalyzer_InvalidRadius(t *testing.T) {
	for _, radius := range []int{0, -1} {
		store := newTestStore()

		got, err := NewAnalyzer(store).Analyze(context.Background(), "NS24", radius)
		require.Error(t, err)
		assert.Nil(t, got)
		assert.IsType(t, &InvalidRadiusError{}, err)
		assert.Equal(t, 0, store.stationCalls)
	}
}

func TestAnalyzer_DownstreamStages(t *testing.T) {
	station := &models.Station{ID: "NS24", Latitude: testCenter.Lat, Longitude: testCenter.Lon}
	storeErr := errors.New("i/o timeout")

	tests := []struct {
		name  string
		store *mockStore
		stage Stage
	}{
		{
			name: "resolve",
			store: &mockStore{
				stationByIDFn: func(ctx context.Context, id string) (*models.Station, error) {
					return nil, storeErr
				},
			},
			stage: StageResolve,
		},
		{
			name: "proximity",
			store: &mockStore{
				stationByIDFn: func(ctx context.Context, id string) (*models.Station, error) {
					return station, nil
				},
				stopsInBoundsFn: func(ctx context.Context, bounds geo.Bounds) ([]models.Stop, error) {
					return nil, storeErr
				},
			},
			stage: StageProximity,
		},
		{
			name: "service lookup",
			store: &mockStore{
				stationByIDFn: func(ctx context.Context, id string) (*models.Station, error) {
					return station, nil
				},
				stopsInBoundsFn: func(ctx context.Context, bounds geo.Bounds) ([]models.Stop, error) {
					return []models.Stop{northOf(testCenter, "A", 50)}, nil
				},
				servicesForStopsFn: func(ctx context.Context, codes []string) ([]models.ServiceMembership, error) {
					return nil, storeErr
				},
			},
			stage: StageServiceLookup,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewAnalyzer(tt.store).Analyze(context.Background(), "NS24", 500)
			require.Error(t, err)
			assert.Nil(t, got)

			var downstream *DownstreamError
			require.True(t, errors.As(err, &downstream))
			assert.Equal(t, tt.stage, downstream.Stage)
			assert.False(t, IsNotFound(err))
			assert.False(t, IsInvalidInput(err))
		})
	}
}

func TestAnalyzer_CancelledBetweenStages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var stopCalls int
	store := &mockStore{
		stationByIDFn: func(_ context.Context, id string) (*models.Station, error) {
			cancel()
			return &models.Station{ID: id, Latitude: testCenter.Lat, Longitude: testCenter.Lon}, nil
		},
		stopsInBoundsFn: func(_ context.Context, bounds geo.Bounds) ([]models.Stop, error) {
			stopCalls++
			return nil, nil
		},
	}

	got, err := NewAnalyzer(store).Analyze(ctx, "NS24", 500)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stopCalls)
}
