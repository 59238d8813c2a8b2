package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/usecases"
)

func libraryRoute() domain.RouteCandidate {
	return domain.RouteCandidate{
		Points: []domain.GeoPoint{
			{Lat: 40.0300, Lon: -75.3500},
			{Lat: 40.0350, Lon: -75.3500},
			{Lat: 40.0400, Lon: -75.3500},
		},
		Steps: []domain.Step{
			{Instruction: "Head north", Anchor: domain.GeoPoint{Lat: 40.0300, Lon: -75.3500}},
			{Instruction: "Turn right at the chapel", Anchor: domain.GeoPoint{Lat: 40.0350, Lon: -75.3500}},
			{Instruction: "Arrive at the library", Anchor: domain.GeoPoint{Lat: 40.0400, Lon: -75.3500}},
		},
	}
}

func TestNavigationService_Lifecycle(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	st, err := svc.StartSession(libraryRoute())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if st.SessionID == "" {
		t.Fatal("expected a session ID")
	}
	if st.State != "navigating" {
		t.Fatalf("state = %s, want navigating", st.State)
	}
	if st.Instruction != "" {
		t.Errorf("instruction = %q before any position", st.Instruction)
	}

	st, err = svc.UpdateLocation(context.Background(), st.SessionID, domain.GeoPoint{Lat: 40.0349, Lon: -75.3500})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if st.Instruction != "Turn right at the chapel" {
		t.Errorf("instruction = %q, want the middle step", st.Instruction)
	}
	if st.Position == nil || st.Position.Lat != 40.0349 {
		t.Errorf("position = %v, want the update recorded", st.Position)
	}

	got, err := svc.Get(st.SessionID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Instruction != st.Instruction {
		t.Errorf("Get instruction = %q, want %q", got.Instruction, st.Instruction)
	}

	if err := svc.Stop(st.SessionID); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := svc.Get(st.SessionID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after stop, got %v", err)
	}
	if svc.ActiveSessions() != 0 {
		t.Errorf("active sessions = %d, want 0", svc.ActiveSessions())
	}
}

func TestNavigationService_StartRejectsEmptyRoute(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	_, err := svc.StartSession(domain.RouteCandidate{})
	if !errors.Is(err, domain.ErrEmptyRoute) {
		t.Fatalf("expected ErrEmptyRoute, got %v", err)
	}
}

func TestNavigationService_StartRejectsMalformedPoints(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	route := libraryRoute()
	route.Steps[1].Anchor.Lat = math.NaN()

	_, err := svc.StartSession(route)
	if !errors.Is(err, domain.ErrMalformedCoordinate) {
		t.Fatalf("expected ErrMalformedCoordinate, got %v", err)
	}
}

func TestNavigationService_UpdateUnknownSession(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	_, err := svc.UpdateLocation(context.Background(), "nope", domain.GeoPoint{Lat: 40, Lon: -75})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNavigationService_UpdateRejectsMalformedPosition(t *testing.T) {
	svc := usecases.NewNavigationService(nil)
	st, err := svc.StartSession(libraryRoute())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err = svc.UpdateLocation(context.Background(), st.SessionID, domain.GeoPoint{Lat: 91, Lon: 0})
	if !errors.Is(err, domain.ErrMalformedCoordinate) {
		t.Fatalf("expected ErrMalformedCoordinate, got %v", err)
	}
}

func TestNavigationService_FenceTransitionsDuringNavigation(t *testing.T) {
	pub := &mockPublisher{}
	fence := usecases.NewGeofenceService(campusFence(), pub)
	svc := usecases.NewNavigationService(fence)

	st, err := svc.StartSession(libraryRoute())
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	st, err = svc.UpdateLocation(context.Background(), st.SessionID, domain.GeoPoint{Lat: 40.0367, Lon: -75.3496})
	if err != nil {
		t.Fatalf("update inside: %v", err)
	}
	if st.InsideFence == nil || !*st.InsideFence {
		t.Fatalf("InsideFence = %v, want true", st.InsideFence)
	}

	st, err = svc.UpdateLocation(context.Background(), st.SessionID, domain.GeoPoint{Lat: 40.10, Lon: -75.3496})
	if err != nil {
		t.Fatalf("update outside: %v", err)
	}
	if st.InsideFence == nil || *st.InsideFence {
		t.Fatalf("InsideFence = %v, want false", st.InsideFence)
	}

	if len(pub.transitions) != 1 {
		t.Fatalf("expected 1 fence transition, got %d", len(pub.transitions))
	}
	if pub.transitions[0].SubjectID != st.SessionID {
		t.Errorf("transition subject = %s, want session ID", pub.transitions[0].SubjectID)
	}
}

func TestNavigationService_PruneDropsIdleSessions(t *testing.T) {
	svc := usecases.NewNavigationService(nil)

	if _, err := svc.StartSession(libraryRoute()); err != nil {
		t.Fatalf("start: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	if n := svc.Prune(time.Millisecond); n != 1 {
		t.Fatalf("pruned %d sessions, want 1", n)
	}
	if svc.ActiveSessions() != 0 {
		t.Errorf("active sessions = %d, want 0", svc.ActiveSessions())
	}

	// Fresh sessions survive a generous idle window.
	if _, err := svc.StartSession(libraryRoute()); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if n := svc.Prune(time.Hour); n != 0 {
		t.Errorf("pruned %d sessions, want 0", n)
	}
}
