package main

import (
	"context"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourtrip/intermodal/internal/api"
	"github.com/yourtrip/intermodal/internal/handler"
	"github.com/yourtrip/intermodal/internal/models"
	"github.com/yourtrip/intermodal/internal/transfer"
)

type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, stationID string, radiusMeters int) (*models.AnalysisResponse, error)
}

func (m *mockAnalyzer) Analyze(ctx context.Context, stationID string, radiusMeters int) (*models.AnalysisResponse, error) {
	return m.analyzeFn(ctx, stationID, radiusMeters)
}

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		name           string
		params         map[string]string
		analyzeFn      func(ctx context.Context, stationID string, radiusMeters int) (*models.AnalysisResponse, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "station with no nearby stops",
			params: map[string]string{"station_id": "CC29"},
			analyzeFn: func(_ context.Context, stationID string, radiusMeters int) (*models.AnalysisResponse, error) {
				return &models.AnalysisResponse{
					Station:  models.Station{ID: stationID, Name: "HarbourFront", Latitude: 1.2653, Longitude: 103.8220},
					Radius:   radiusMeters,
					BusStops: []models.BusStop{},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{
				"station": {"stop_id": "CC29", "stop_name": "HarbourFront", "lat": 1.2653, "lng": 103.822},
				"radius": 500,
				"bus_stops": [],
				"total_bus_stops": 0,
				"unique_bus_services": 0
			}`,
		},
		{
			name:   "unknown station",
			params: map[string]string{"station_id": "ZZ1"},
			analyzeFn: func(_ context.Context, stationID string, _ int) (*models.AnalysisResponse, error) {
				return nil, &transfer.NotFoundError{StationID: stationID}
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"station not found"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intermodalHandler = handler.NewIntermodalHandler(
				&mockAnalyzer{analyzeFn: tt.analyzeFn},
				api.RadiusLimits{Default: 500, Min: 200, Max: 1000},
				nil,
			)

			resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
				QueryStringParameters: tt.params,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			assert.JSONEq(t, tt.expectedBody, resp.Body)
		})
	}
}
