// Package tracking holds the turn-by-turn navigation state machine. A Tracker
// is deliberately lock-free: it is owned by exactly one session, and the
// session layer serializes access to it.
package tracking

import (
	"math"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/pkg/geospatial"
)

// State is the tracker's navigation mode.
type State int

const (
	// StateIdle means no route is active. Location updates are still
	// recorded, but no instruction is computed.
	StateIdle State = iota
	// StateNavigating means a route is active and every location update
	// recomputes the current instruction.
	StateNavigating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateNavigating:
		return "navigating"
	default:
		return "unknown"
	}
}

// Tracker follows a walker along an active route, keeping the instruction of
// the nearest step current as positions arrive.
type Tracker struct {
	state       State
	route       domain.RouteCandidate
	hasRoute    bool
	position    domain.GeoPoint
	hasPosition bool
	instruction string
}

// New returns an idle tracker with no route or position.
func New() *Tracker {
	return &Tracker{state: StateIdle}
}

// Start activates a route and switches to navigating. Any previous
// instruction is cleared first; if a position is already known, the
// instruction for the new route is computed immediately. Starting while
// already navigating replaces the active route.
func (t *Tracker) Start(route domain.RouteCandidate) error {
	if err := route.Validate(); err != nil {
		return err
	}

	t.route = route
	t.hasRoute = true
	t.instruction = ""
	t.state = StateNavigating

	if t.hasPosition {
		t.recompute()
	}
	return nil
}

// Stop clears the active route and the current instruction together and
// returns to idle. Stopping an idle tracker is a no-op.
func (t *Tracker) Stop() {
	t.route = domain.RouteCandidate{}
	t.hasRoute = false
	t.instruction = ""
	t.state = StateIdle
}

// Update records the latest position. The position is kept in every state;
// the instruction is only recomputed while navigating.
func (t *Tracker) Update(position domain.GeoPoint) {
	t.position = position
	t.hasPosition = true

	if t.state == StateNavigating {
		t.recompute()
	}
}

// recompute picks the step whose anchor is nearest the current position.
// Ties go to the earliest step. A route without steps leaves the
// instruction empty.
func (t *Tracker) recompute() {
	if len(t.route.Steps) == 0 {
		t.instruction = ""
		return
	}

	best := 0
	bestDist := math.Inf(1)
	for i, step := range t.route.Steps {
		d := geospatial.Distance(t.position, step.Anchor)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	t.instruction = t.route.Steps[best].Instruction
}

// State returns the current navigation mode.
func (t *Tracker) State() State {
	return t.state
}

// Instruction returns the current step text, or "" when there is none.
func (t *Tracker) Instruction() string {
	return t.instruction
}

// Position returns the last known position, if any update has arrived.
func (t *Tracker) Position() (domain.GeoPoint, bool) {
	return t.position, t.hasPosition
}

// Route returns the active route while navigating.
func (t *Tracker) Route() (domain.RouteCandidate, bool) {
	return t.route, t.hasRoute
}
