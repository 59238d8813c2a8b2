package geospatial

import (
	"math"

	"github.com/swopnil/Guardify/internal/core/domain"
)

const earthRadiusKm = 6371.0

// Distance calculates the great-circle distance in meters between two points.
func Distance(a, b domain.GeoPoint) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLon := toRad(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns the corners of a box extending radiusMeters from center
// in each direction. Callers prefilter with it before exact distance checks.
func BoundingBox(center domain.GeoPoint, radiusMeters float64) (min, max domain.GeoPoint) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(center.Lat)))

	min = domain.GeoPoint{Lat: center.Lat - latDelta, Lon: center.Lon - lonDelta}
	max = domain.GeoPoint{Lat: center.Lat + latDelta, Lon: center.Lon + lonDelta}
	return min, max
}

// PathMeters returns the cumulative length of a polyline in meters.
func PathMeters(points []domain.GeoPoint) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Distance(points[i-1], points[i])
	}
	return total
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
