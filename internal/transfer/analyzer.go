package transfer

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/geo"
	"github.com/yourtrip/intermodal/internal/models"
)

// Analyzer runs the resolve -> proximity -> service lookup chain for one
// station. It keeps no state between calls.
type Analyzer struct {
	resolver   *StationResolver
	index      *ProximityIndex
	aggregator *ServiceAggregator
}

func NewAnalyzer(store Store, opts ...Option) *Analyzer {
	return &Analyzer{
		resolver:   NewStationResolver(store),
		index:      NewProximityIndex(store, opts...),
		aggregator: NewServiceAggregator(store),
	}
}

// Analyze builds the transfer analysis for stationID within radiusMeters.
// It fails with *InvalidRadiusError before touching the store, with
// *NotFoundError for an unknown station and *DownstreamError when a store
// call fails. A cancelled context returns ctx.Err() and no result.
func (a *Analyzer) Analyze(ctx context.Context, stationID string, radiusMeters int) (*models.AnalysisResponse, error) {
	if radiusMeters <= 0 {
		return nil, &InvalidRadiusError{Radius: float64(radiusMeters)}
	}
	start := time.Now()

	station, err := a.resolver.Resolve(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	center := geo.Point{Lat: station.Latitude, Lon: station.Longitude}
	nearby, err := a.index.FindWithinRadius(ctx, center, float64(radiusMeters))
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stops := make([]models.Stop, len(nearby))
	for i, r := range nearby {
		stops[i] = r.Stop
	}
	grouped, err := a.aggregator.AttachServices(ctx, stops)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	response := assemble(*station, radiusMeters, nearby, grouped)

	log.Debug().
		Str("station_id", station.ID).
		Int("radius", radiusMeters).
		Int("bus_stops", response.TotalBusStops).
		Int("unique_services", response.UniqueBusServices).
		Dur("elapsed", time.Since(start)).
		Msg("Intermodal analysis complete")

	return response, nil
}

func assemble(station models.Station, radius int, nearby []ProximityResult, grouped map[string][]string) *models.AnalysisResponse {
	busStops := make([]models.BusStop, 0, len(nearby))
	for _, r := range nearby {
		services := grouped[r.Stop.Code]
		refs := make([]models.ServiceRef, len(services))
		for i, s := range services {
			refs[i] = models.ServiceRef{ServiceNo: s}
		}

		busStops = append(busStops, models.BusStop{
			StopCode: r.Stop.Code,
			StopName: r.Stop.Name,
			Lat:      r.Stop.Latitude,
			Lng:      r.Stop.Longitude,
			Distance: int64(math.Round(r.DistanceMeters)),
			Services: refs,
		})
	}

	return &models.AnalysisResponse{
		Station:           station,
		Radius:            radius,
		BusStops:          busStops,
		TotalBusStops:     len(busStops),
		UniqueBusServices: UniqueServiceCount(grouped),
	}
}
