package geo

import "math"

// DefaultKmPerDegree is the flat 1 degree ~ 111 km conversion. It is only
// close at low latitudes; deployments elsewhere should pass their own factor.
const DefaultKmPerDegree = 111.0

// Bounds is a latitude/longitude rectangle.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether p falls inside the rectangle, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.Lat >= b.MinLat && p.Lat <= b.MaxLat &&
		p.Lon >= b.MinLon && p.Lon <= b.MaxLon
}

// BoundingBox returns a rectangle around center that contains every point
// within radiusMeters. kmPerDegree <= 0 selects DefaultKmPerDegree.
//
// Near the poles, or when the box would wrap the antimeridian, the longitude
// range opens to [-180, 180].
func BoundingBox(center Point, radiusMeters, kmPerDegree float64) Bounds {
	if kmPerDegree <= 0 {
		kmPerDegree = DefaultKmPerDegree
	}
	radiusKm := radiusMeters / 1000

	latDelta := radiusKm / kmPerDegree
	b := Bounds{
		MinLat: math.Max(center.Lat-latDelta, -90),
		MaxLat: math.Min(center.Lat+latDelta, 90),
		MinLon: -180,
		MaxLon: 180,
	}

	cosLat := math.Cos(toRadians(center.Lat))
	if cosLat < 1e-9 || b.MinLat == -90 || b.MaxLat == 90 {
		return b
	}

	lonDelta := radiusKm / (kmPerDegree * cosLat)
	if center.Lon-lonDelta < -180 || center.Lon+lonDelta > 180 {
		return b
	}
	b.MinLon = center.Lon - lonDelta
	b.MaxLon = center.Lon + lonDelta
	return b
}
