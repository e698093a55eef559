// Package transfer computes intermodal transfer analyses: which bus stops
// and services are reachable around a rail station.
package transfer

import (
	"context"

	"github.com/yourtrip/intermodal/internal/geo"
	"github.com/yourtrip/intermodal/internal/models"
)

// StationStore looks stations up by id. A missing station is (nil, nil).
type StationStore interface {
	StationByID(ctx context.Context, stationID string) (*models.Station, error)
}

// StopStore returns every eligible stop inside a bounding box.
type StopStore interface {
	StopsInBounds(ctx context.Context, bounds geo.Bounds) ([]models.Stop, error)
}

// ServiceStore returns the memberships for a set of stop codes in one call.
type ServiceStore interface {
	ServicesForStops(ctx context.Context, stopCodes []string) ([]models.ServiceMembership, error)
}

// Store is the full read surface the analyzer needs.
type Store interface {
	StationStore
	StopStore
	ServiceStore
}
