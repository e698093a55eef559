package models

import "context"

type TransferAnalyzer interface {
	Analyze(ctx context.Context, stationID string, radiusMeters int) (*AnalysisResponse, error)
}

type StationCatalog interface {
	List(ctx context.Context, query string) ([]Station, error)
}

type HealthChecker interface {
	Ping(ctx context.Context) error
}
