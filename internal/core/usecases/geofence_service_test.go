package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/usecases"
)

func campusFence() domain.GeoRegion {
	return domain.GeoRegion{
		Center: domain.GeoPoint{Lat: 40.0367, Lon: -75.3496},
		Span:   domain.GeoSpan{LatDelta: 0.02, LonDelta: 0.02},
	}
}

func TestGeofenceService_Status(t *testing.T) {
	svc := usecases.NewGeofenceService(campusFence(), nil)

	if !svc.Status(domain.GeoPoint{Lat: 40.03, Lon: -75.35}) {
		t.Error("expected point inside the fence")
	}
	if svc.Status(domain.GeoPoint{Lat: 40.10, Lon: -75.35}) {
		t.Error("expected point outside the fence")
	}
}

func TestGeofenceService_UpdateRegion_Dedup(t *testing.T) {
	svc := usecases.NewGeofenceService(campusFence(), nil)

	// Resubmitting the same fence (within tolerance) changes nothing.
	same := campusFence()
	same.Center.Lat += 5e-7
	changed, err := svc.UpdateRegion(same)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if changed {
		t.Error("expected in-tolerance update to be dropped")
	}

	moved := campusFence()
	moved.Center.Lat += 0.01
	changed, err = svc.UpdateRegion(moved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Error("expected real update to apply")
	}
	if got := svc.Region().Center.Lat; got != moved.Center.Lat {
		t.Errorf("region center lat = %v, want %v", got, moved.Center.Lat)
	}
}

func TestGeofenceService_UpdateRegion_Invalid(t *testing.T) {
	svc := usecases.NewGeofenceService(campusFence(), nil)

	bad := campusFence()
	bad.Span.LatDelta = -1
	if _, err := svc.UpdateRegion(bad); !errors.Is(err, domain.ErrMalformedCoordinate) {
		t.Fatalf("expected ErrMalformedCoordinate, got %v", err)
	}
}

func TestGeofenceService_ObserveTransitions(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewGeofenceService(campusFence(), pub)
	ctx := context.Background()

	inside := domain.GeoPoint{Lat: 40.0367, Lon: -75.3496}
	outside := domain.GeoPoint{Lat: 40.10, Lon: -75.3496}

	// First observation establishes the side silently.
	if in := svc.Observe(ctx, "walker-1", inside); !in {
		t.Error("expected first observation inside")
	}
	if len(pub.transitions) != 0 {
		t.Fatalf("expected no event on first observation, got %d", len(pub.transitions))
	}

	// Crossing out publishes an exit.
	if in := svc.Observe(ctx, "walker-1", outside); in {
		t.Error("expected observation outside")
	}
	if len(pub.transitions) != 1 {
		t.Fatalf("expected 1 transition, got %d", len(pub.transitions))
	}
	if pub.transitions[0].Direction != domain.TransitionExit {
		t.Errorf("direction = %s, want exit", pub.transitions[0].Direction)
	}
	if pub.transitions[0].SubjectID != "walker-1" {
		t.Errorf("subject = %s, want walker-1", pub.transitions[0].SubjectID)
	}

	// Staying outside is quiet; coming back publishes an enter.
	svc.Observe(ctx, "walker-1", outside)
	if len(pub.transitions) != 1 {
		t.Fatalf("expected no event without a crossing, got %d", len(pub.transitions))
	}

	svc.Observe(ctx, "walker-1", inside)
	if len(pub.transitions) != 2 {
		t.Fatalf("expected enter event, got %d transitions", len(pub.transitions))
	}
	if pub.transitions[1].Direction != domain.TransitionEnter {
		t.Errorf("direction = %s, want enter", pub.transitions[1].Direction)
	}
}

func TestGeofenceService_ForgetResetsSubject(t *testing.T) {
	pub := &mockPublisher{}
	svc := usecases.NewGeofenceService(campusFence(), pub)
	ctx := context.Background()

	inside := domain.GeoPoint{Lat: 40.0367, Lon: -75.3496}
	outside := domain.GeoPoint{Lat: 40.10, Lon: -75.3496}

	svc.Observe(ctx, "walker-1", inside)
	svc.Forget("walker-1")

	// After Forget the next observation is a first observation again.
	svc.Observe(ctx, "walker-1", outside)
	if len(pub.transitions) != 0 {
		t.Fatalf("expected no transition after Forget, got %d", len(pub.transitions))
	}
}
