package handler

import (
	"context"

	"github.com/yourtrip/intermodal/internal/models"
)

type mockAnalyzer struct {
	analyzeFn func(ctx context.Context, stationID string, radiusMeters int) (*models.AnalysisResponse, error)
}

func (m *mockAnalyzer) Analyze(ctx context.Context, stationID string, radiusMeters int) (*models.AnalysisResponse, error) {
	if m.analyzeFn != nil {
		return m.analyzeFn(ctx, stationID, radiusMeters)
	}
	return nil, nil
}

type mockCatalog struct {
	listFn func(ctx context.Context, query string) ([]models.Station, error)
}

func (m *mockCatalog) List(ctx context.Context, query string) ([]models.Station, error) {
	if m.listFn != nil {
		return m.listFn(ctx, query)
	}
	return nil, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error {
	return m.err
}

func createTestStation(id, name string) models.Station {
	return models.Station{
		ID:        id,
		Name:      name,
		Latitude:  1.2993,
		Longitude: 103.8455,
	}
}
