// Package geo holds the spherical geometry used by proximity searches.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for every distance.
const EarthRadiusMeters = 6371000.0

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// Validate reports whether the point lies in the valid coordinate domain.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("invalid latitude: %f", p.Lat)
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("invalid longitude: %f", p.Lon)
	}
	return nil
}

// Distance returns the great-circle distance in meters between a and b using
// the haversine formula.
func Distance(a, b Point) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLon := toRadians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	// rounding can push h a hair above 1 for antipodal points
	h = clamp(h, 0, 1)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// CosineDistance is the spherical law of cosines form, the same expression
// the SQL store evaluates. The arccosine argument is clamped to [-1, 1].
func CosineDistance(a, b Point) float64 {
	lat1, lat2 := toRadians(a.Lat), toRadians(b.Lat)
	x := math.Cos(lat1)*math.Cos(lat2)*math.Cos(toRadians(b.Lon)-toRadians(a.Lon)) +
		math.Sin(lat1)*math.Sin(lat2)
	return EarthRadiusMeters * math.Acos(clamp(x, -1, 1))
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
