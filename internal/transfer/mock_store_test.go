package transfer

import (
	"context"
	"math"
	"sync"

	"github.com/yourtrip/intermodal/internal/geo"
	"github.com/yourtrip/intermodal/internal/models"
)

// mockStore implements Store with overridable functions.
type mockStore struct {
	stationByIDFn      func(ctx context.Context, stationID string) (*models.Station, error)
	stopsInBoundsFn    func(ctx context.Context, bounds geo.Bounds) ([]models.Stop, error)
	servicesForStopsFn func(ctx context.Context, stopCodes []string) ([]models.ServiceMembership, error)
}

func (m *mockStore) StationByID(ctx context.Context, stationID string) (*models.Station, error) {
	if m.stationByIDFn != nil {
		return m.stationByIDFn(ctx, stationID)
	}
	return nil, nil
}

func (m *mockStore) StopsInBounds(ctx context.Context, bounds geo.Bounds) ([]models.Stop, error) {
	if m.stopsInBoundsFn != nil {
		return m.stopsInBoundsFn(ctx, bounds)
	}
	return nil, nil
}

func (m *mockStore) ServicesForStops(ctx context.Context, stopCodes []string) ([]models.ServiceMembership, error) {
	if m.servicesForStopsFn != nil {
		return m.servicesForStopsFn(ctx, stopCodes)
	}
	return nil, nil
}

// fixtureStore answers queries from in-memory rows the way a database would,
// including the bounding box filter, and counts calls per method.
type fixtureStore struct {
	stations    []models.Station
	stops       []models.Stop
	memberships []models.ServiceMembership

	mu           sync.Mutex
	stationCalls int
	stopCalls    int
	serviceCalls int
	lastBounds   geo.Bounds
}

func (f *fixtureStore) StationByID(_ context.Context, stationID string) (*models.Station, error) {
	f.mu.Lock()
	f.stationCalls++
	f.mu.Unlock()
	for _, s := range f.stations {
		if s.ID == stationID {
			station := s
			return &station, nil
		}
	}
	return nil, nil
}

func (f *fixtureStore) StopsInBounds(_ context.Context, bounds geo.Bounds) ([]models.Stop, error) {
	f.mu.Lock()
	f.stopCalls++
	f.lastBounds = bounds
	f.mu.Unlock()
	var out []models.Stop
	for _, s := range f.stops {
		if bounds.Contains(geo.Point{Lat: s.Latitude, Lon: s.Longitude}) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fixtureStore) ServicesForStops(_ context.Context, stopCodes []string) ([]models.ServiceMembership, error) {
	f.mu.Lock()
	f.serviceCalls++
	f.mu.Unlock()
	wanted := make(map[string]bool, len(stopCodes))
	for _, c := range stopCodes {
		wanted[c] = true
	}
	var out []models.ServiceMembership
	for _, m := range f.memberships {
		if wanted[m.StopCode] {
			out = append(out, m)
		}
	}
	return out, nil
}

var testCenter = geo.Point{Lat: 1.3521, Lon: 103.8198}

// northOf returns a stop exactly meters north of center.
func northOf(center geo.Point, code string, meters float64) models.Stop {
	return models.Stop{
		Code:      code,
		Name:      "Stop " + code,
		Latitude:  center.Lat + meters/geo.EarthRadiusMeters*180/math.Pi,
		Longitude: center.Lon,
	}
}

// stopAt places a stop meters away from center in a cardinal direction so the
// haversine distance equals meters.
func stopAt(center geo.Point, code string, meters float64, direction string) models.Stop {
	angular := meters / geo.EarthRadiusMeters
	lat, lon := center.Lat, center.Lon
	switch direction {
	case "north":
		lat += angular * 180 / math.Pi
	case "south":
		lat -= angular * 180 / math.Pi
	case "east", "west":
		dLon := 2 * math.Asin(math.Sin(angular/2)/math.Cos(center.Lat*math.Pi/180)) * 180 / math.Pi
		if direction == "west" {
			dLon = -dLon
		}
		lon += dLon
	}
	return models.Stop{Code: code, Name: "Stop " + code, Latitude: lat, Longitude: lon}
}
