package tracking_test

import (
	"errors"
	"testing"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/tracking"
)

func threeStepRoute() domain.RouteCandidate {
	return domain.RouteCandidate{
		Points: []domain.GeoPoint{
			{Lat: 40.0300, Lon: -75.3500},
			{Lat: 40.0350, Lon: -75.3500},
			{Lat: 40.0400, Lon: -75.3500},
		},
		Steps: []domain.Step{
			{Instruction: "Head north on Ithan Ave", Anchor: domain.GeoPoint{Lat: 40.0300, Lon: -75.3500}},
			{Instruction: "Turn right at the chapel", Anchor: domain.GeoPoint{Lat: 40.0350, Lon: -75.3500}},
			{Instruction: "Arrive at Falvey Library", Anchor: domain.GeoPoint{Lat: 40.0400, Lon: -75.3500}},
		},
	}
}

func TestTracker_StartRejectsEmptyRoute(t *testing.T) {
	tr := tracking.New()

	err := tr.Start(domain.RouteCandidate{})
	if !errors.Is(err, domain.ErrEmptyRoute) {
		t.Fatalf("Start(empty) = %v, want ErrEmptyRoute", err)
	}
	if tr.State() != tracking.StateIdle {
		t.Errorf("state = %v, want idle after rejected start", tr.State())
	}
}

func TestTracker_IdleRecordsPositionWithoutInstruction(t *testing.T) {
	tr := tracking.New()

	tr.Update(domain.GeoPoint{Lat: 40.0345, Lon: -75.3500})

	if pos, ok := tr.Position(); !ok || pos.Lat != 40.0345 {
		t.Errorf("Position() = %v, %v; want recorded position", pos, ok)
	}
	if tr.Instruction() != "" {
		t.Errorf("Instruction() = %q, want empty while idle", tr.Instruction())
	}
}

func TestTracker_StartUsesKnownPosition(t *testing.T) {
	tr := tracking.New()
	tr.Update(domain.GeoPoint{Lat: 40.0398, Lon: -75.3500})

	if err := tr.Start(threeStepRoute()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if tr.State() != tracking.StateNavigating {
		t.Fatalf("state = %v, want navigating", tr.State())
	}
	if got := tr.Instruction(); got != "Arrive at Falvey Library" {
		t.Errorf("Instruction() = %q, want the step nearest the known position", got)
	}
}

func TestTracker_UpdatePicksNearestStep(t *testing.T) {
	tr := tracking.New()
	if err := tr.Start(threeStepRoute()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// No position yet, so starting alone computes nothing.
	if tr.Instruction() != "" {
		t.Fatalf("Instruction() = %q before any update", tr.Instruction())
	}

	tr.Update(domain.GeoPoint{Lat: 40.0348, Lon: -75.3500})
	if got := tr.Instruction(); got != "Turn right at the chapel" {
		t.Errorf("Instruction() = %q, want middle step", got)
	}

	tr.Update(domain.GeoPoint{Lat: 40.0302, Lon: -75.3500})
	if got := tr.Instruction(); got != "Head north on Ithan Ave" {
		t.Errorf("Instruction() = %q, want first step", got)
	}
}

func TestTracker_TieGoesToEarlierStep(t *testing.T) {
	route := domain.RouteCandidate{
		Points: []domain.GeoPoint{{Lat: 0, Lon: 0}},
		Steps: []domain.Step{
			{Instruction: "west", Anchor: domain.GeoPoint{Lat: 0, Lon: -0.001}},
			{Instruction: "east", Anchor: domain.GeoPoint{Lat: 0, Lon: 0.001}},
		},
	}

	tr := tracking.New()
	if err := tr.Start(route); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Equidistant anchors: the earlier step must win.
	tr.Update(domain.GeoPoint{Lat: 0, Lon: 0})
	if got := tr.Instruction(); got != "west" {
		t.Errorf("Instruction() = %q, want earlier step on tie", got)
	}
}

func TestTracker_ZeroStepRoute(t *testing.T) {
	route := domain.RouteCandidate{
		Points: []domain.GeoPoint{{Lat: 40.0300, Lon: -75.3500}, {Lat: 40.0400, Lon: -75.3500}},
	}

	tr := tracking.New()
	if err := tr.Start(route); err != nil {
		t.Fatalf("Start: %v", err)
	}

	tr.Update(domain.GeoPoint{Lat: 40.0350, Lon: -75.3500})
	if tr.State() != tracking.StateNavigating {
		t.Errorf("state = %v, want navigating", tr.State())
	}
	if tr.Instruction() != "" {
		t.Errorf("Instruction() = %q, want empty for a route without steps", tr.Instruction())
	}
}

func TestTracker_StopClearsRouteAndInstruction(t *testing.T) {
	tr := tracking.New()
	if err := tr.Start(threeStepRoute()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tr.Update(domain.GeoPoint{Lat: 40.0350, Lon: -75.3500})
	if tr.Instruction() == "" {
		t.Fatal("expected an instruction before Stop")
	}

	tr.Stop()

	if tr.State() != tracking.StateIdle {
		t.Errorf("state = %v, want idle", tr.State())
	}
	if tr.Instruction() != "" {
		t.Errorf("Instruction() = %q, want cleared", tr.Instruction())
	}
	if _, ok := tr.Route(); ok {
		t.Error("Route() should report no active route after Stop")
	}

	// Updates after Stop keep recording position but never resurrect
	// an instruction.
	tr.Update(domain.GeoPoint{Lat: 40.0351, Lon: -75.3500})
	if tr.Instruction() != "" {
		t.Errorf("Instruction() = %q after post-stop update, want empty", tr.Instruction())
	}
	if pos, ok := tr.Position(); !ok || pos.Lat != 40.0351 {
		t.Errorf("Position() = %v, %v; want post-stop update recorded", pos, ok)
	}
}

func TestTracker_StopWhileIdleIsNoOp(t *testing.T) {
	tr := tracking.New()
	tr.Stop()
	if tr.State() != tracking.StateIdle {
		t.Errorf("state = %v, want idle", tr.State())
	}
}

func TestTracker_RestartReplacesRoute(t *testing.T) {
	tr := tracking.New()
	if err := tr.Start(threeStepRoute()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	tr.Update(domain.GeoPoint{Lat: 40.0300, Lon: -75.3500})

	replacement := domain.RouteCandidate{
		Points: []domain.GeoPoint{{Lat: 40.0300, Lon: -75.3500}},
		Steps: []domain.Step{
			{Instruction: "Cut across the quad", Anchor: domain.GeoPoint{Lat: 40.0300, Lon: -75.3500}},
		},
	}
	if err := tr.Start(replacement); err != nil {
		t.Fatalf("restart: %v", err)
	}

	if got := tr.Instruction(); got != "Cut across the quad" {
		t.Errorf("Instruction() = %q, want recomputed for the replacement route", got)
	}
}
