package geospatial_test

import (
	"math"
	"testing"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/pkg/geospatial"
)

func TestDistance_KnownSeparation(t *testing.T) {
	// 0.0045 degrees of latitude is almost exactly 500 m.
	a := domain.GeoPoint{Lat: 40.0367, Lon: -75.3496}
	b := domain.GeoPoint{Lat: 40.0412, Lon: -75.3496}

	got := geospatial.Distance(a, b)
	if math.Abs(got-500) > 5 {
		t.Errorf("Distance = %.1f m, want ~500 m", got)
	}
}

func TestDistance_SamePointIsZero(t *testing.T) {
	p := domain.GeoPoint{Lat: 40.0367, Lon: -75.3496}
	if d := geospatial.Distance(p, p); d != 0 {
		t.Errorf("Distance(p, p) = %v, want 0", d)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := domain.GeoPoint{Lat: 40.0367, Lon: -75.3496}
	b := domain.GeoPoint{Lat: 40.0301, Lon: -75.3550}

	d1 := geospatial.Distance(a, b)
	d2 := geospatial.Distance(b, a)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("Distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestBoundingBox_SurroundsCenter(t *testing.T) {
	center := domain.GeoPoint{Lat: 40.0367, Lon: -75.3496}
	min, max := geospatial.BoundingBox(center, 200)

	if min.Lat >= center.Lat || max.Lat <= center.Lat {
		t.Errorf("lat bounds [%v, %v] do not surround center %v", min.Lat, max.Lat, center.Lat)
	}
	if min.Lon >= center.Lon || max.Lon <= center.Lon {
		t.Errorf("lon bounds [%v, %v] do not surround center %v", min.Lon, max.Lon, center.Lon)
	}

	// A point just inside the radius must fall inside the box.
	north := domain.GeoPoint{Lat: center.Lat + 150/111320.0, Lon: center.Lon}
	if north.Lat > max.Lat {
		t.Errorf("point 150 m north (lat %v) outside box max lat %v", north.Lat, max.Lat)
	}
}

func TestPathMeters(t *testing.T) {
	points := []domain.GeoPoint{
		{Lat: 40.0367, Lon: -75.3496},
		{Lat: 40.0412, Lon: -75.3496},
		{Lat: 40.0457, Lon: -75.3496},
	}

	total := geospatial.PathMeters(points)
	sum := geospatial.Distance(points[0], points[1]) + geospatial.Distance(points[1], points[2])
	if math.Abs(total-sum) > 1e-9 {
		t.Errorf("PathMeters = %v, want %v", total, sum)
	}

	if geospatial.PathMeters(nil) != 0 {
		t.Error("PathMeters(nil) should be 0")
	}
	if geospatial.PathMeters(points[:1]) != 0 {
		t.Error("PathMeters of a single point should be 0")
	}
}
