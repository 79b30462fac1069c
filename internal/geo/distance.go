package geo

import (
	"math"

	"github.com/golang/geo/s2"

	"safeTrip/internal/domain"
)

const (
	EarthRadiusMeters = 6371000.0

	// MetersPerDegreeLat is the arc length of one degree of latitude on the model sphere.
	// Any two points whose latitudes differ by d degrees are at least d*MetersPerDegreeLat apart.
	MetersPerDegreeLat = EarthRadiusMeters * math.Pi / 180
)

// DistanceMeters returns the great-circle distance between a and b.
// s2.LatLng.Distance is the haversine formula; inputs are not range-checked.
// Points are put in a fixed order first so that the result is exactly symmetric.
func DistanceMeters(a, b domain.Coordinate) float64 {
	if b.Latitude < a.Latitude || (b.Latitude == a.Latitude && b.Longitude < a.Longitude) {
		a, b = b, a
	}
	p1 := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	p2 := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// LatitudeBand returns the latitude interval that can contain points within
// radiusMeters of center. Used by stores as a cheap index prefilter.
func LatitudeBand(center domain.Coordinate, radiusMeters float64) (minLat, maxLat float64) {
	d := radiusMeters / MetersPerDegreeLat
	return math.Max(-90, center.Latitude-d), math.Min(90, center.Latitude+d)
}
