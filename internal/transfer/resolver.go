package transfer

import (
	"context"

	"github.com/yourtrip/intermodal/internal/models"
)

// StationResolver turns a station id into the station record.
type StationResolver struct {
	stations StationStore
}

func NewStationResolver(stations StationStore) *StationResolver {
	return &StationResolver{stations: stations}
}

// Resolve performs a single exact-match lookup. An unknown id yields a
// *NotFoundError, a store failure a *DownstreamError.
func (r *StationResolver) Resolve(ctx context.Context, stationID string) (*models.Station, error) {
	if stationID == "" {
		return nil, &NotFoundError{StationID: stationID}
	}

	station, err := r.stations.StationByID(ctx, stationID)
	if err != nil {
		return nil, newDownstreamError(StageResolve, err)
	}
	if station == nil {
		return nil, &NotFoundError{StationID: stationID}
	}
	return station, nil
}
