package domain

import (
	"fmt"
	"math"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoSpan is the full width and height of a region in degrees.
type GeoSpan struct {
	LatDelta float64 `json:"lat_delta"`
	LonDelta float64 `json:"lon_delta"`
}

// GeoRegion is an axis-aligned rectangle of coordinate space, described by its
// center and full span. Regions are campus-sized, so containment is plain
// degree arithmetic with no meridian or pole wrapping.
type GeoRegion struct {
	Center GeoPoint `json:"center"`
	Span   GeoSpan  `json:"span"`
}

// RegionTolerance is the default tolerance, in degrees, for treating two
// regions as equal when deduplicating fence updates.
const RegionTolerance = 1e-6

// ValidatePoint rejects NaN and out-of-range coordinates. Adapters call this
// at system boundaries; interior math assumes points already passed.
func ValidatePoint(p GeoPoint) error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) {
		return fmt.Errorf("%w: coordinate is NaN", ErrMalformedCoordinate)
	}
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrMalformedCoordinate, p.Lat)
	}
	if p.Lon < -180 || p.Lon > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrMalformedCoordinate, p.Lon)
	}
	return nil
}

// Validate checks the region's center and span. Spans must be non-negative;
// a zero span is legal and contains exactly the center point.
func (r GeoRegion) Validate() error {
	if err := ValidatePoint(r.Center); err != nil {
		return err
	}
	if math.IsNaN(r.Span.LatDelta) || math.IsNaN(r.Span.LonDelta) {
		return fmt.Errorf("%w: span is NaN", ErrMalformedCoordinate)
	}
	if r.Span.LatDelta < 0 || r.Span.LonDelta < 0 {
		return fmt.Errorf("%w: span must be non-negative", ErrMalformedCoordinate)
	}
	return nil
}

// Contains reports whether p lies inside the region. Both interval ends are
// closed, so points exactly on the boundary are inside.
func (r GeoRegion) Contains(p GeoPoint) bool {
	halfLat := r.Span.LatDelta / 2
	halfLon := r.Span.LonDelta / 2
	return p.Lat >= r.Center.Lat-halfLat && p.Lat <= r.Center.Lat+halfLat &&
		p.Lon >= r.Center.Lon-halfLon && p.Lon <= r.Center.Lon+halfLon
}

// ApproxEqual reports whether two regions differ by at most tol degrees in
// every field. Used to skip fence updates that would not change anything.
func (r GeoRegion) ApproxEqual(other GeoRegion, tol float64) bool {
	return math.Abs(r.Center.Lat-other.Center.Lat) <= tol &&
		math.Abs(r.Center.Lon-other.Center.Lon) <= tol &&
		math.Abs(r.Span.LatDelta-other.Span.LatDelta) <= tol &&
		math.Abs(r.Span.LonDelta-other.Span.LonDelta) <= tol
}
