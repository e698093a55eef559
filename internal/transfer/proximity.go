package transfer

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/yourtrip/intermodal/internal/geo"
	"github.com/yourtrip/intermodal/internal/models"
)

// boundaryToleranceMeters absorbs floating point noise for stops sitting
// exactly on the radius.
const boundaryToleranceMeters = 1e-6

// ProximityResult is a stop together with its distance from the centre.
type ProximityResult struct {
	Stop           models.Stop
	DistanceMeters float64
}

// ProximityIndex finds stops within a radius of a point. The store applies
// the bounding box, the index applies the exact great-circle cut.
type ProximityIndex struct {
	stops       StopStore
	kmPerDegree float64
}

type Option func(*options)

type options struct {
	kmPerDegree float64
}

// WithKmPerDegree overrides the degree to kilometre factor used to build the
// bounding box.
func WithKmPerDegree(kmPerDegree float64) Option {
	return func(o *options) {
		o.kmPerDegree = kmPerDegree
	}
}

func buildOptions(opts []Option) options {
	o := options{kmPerDegree: geo.DefaultKmPerDegree}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func NewProximityIndex(stops StopStore, opts ...Option) *ProximityIndex {
	o := buildOptions(opts)
	return &ProximityIndex{
		stops:       stops,
		kmPerDegree: o.kmPerDegree,
	}
}

// FindWithinRadius returns every stop whose distance from center is at most
// radiusMeters, nearest first, ties ordered by stop code. An empty result is
// not an error.
func (p *ProximityIndex) FindWithinRadius(ctx context.Context, center geo.Point, radiusMeters float64) ([]ProximityResult, error) {
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) || radiusMeters <= 0 {
		return nil, &InvalidRadiusError{Radius: radiusMeters}
	}
	if err := center.Validate(); err != nil {
		return nil, &InvalidCenterError{Latitude: center.Lat, Longitude: center.Lon}
	}

	bounds := geo.BoundingBox(center, radiusMeters, p.kmPerDegree)
	candidates, err := p.stops.StopsInBounds(ctx, bounds)
	if err != nil {
		return nil, newDownstreamError(StageProximity, err)
	}

	results := make([]ProximityResult, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, stop := range candidates {
		if _, dup := seen[stop.Code]; dup {
			continue
		}
		seen[stop.Code] = struct{}{}
		distance := geo.Distance(center, geo.Point{Lat: stop.Latitude, Lon: stop.Longitude})
		if distance > radiusMeters {
			if distance-radiusMeters > boundaryToleranceMeters {
				continue
			}
			distance = radiusMeters
		}
		results = append(results, ProximityResult{Stop: stop, DistanceMeters: distance})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].DistanceMeters != results[j].DistanceMeters {
			return results[i].DistanceMeters < results[j].DistanceMeters
		}
		return results[i].Stop.Code < results[j].Stop.Code
	})

	log.Debug().
		Int("candidates", len(candidates)).
		Int("within_radius", len(results)).
		Float64("radius", radiusMeters).
		Msg("Proximity search complete")

	return results, nil
}
