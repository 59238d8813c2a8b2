package domain

import "time"

// Geofence transition directions.
const (
	TransitionEnter = "enter"
	TransitionExit  = "exit"
)

// PeopleSnapshot is the payload published after each people-feed refresh.
// Each snapshot fully replaces the previous one.
type PeopleSnapshot struct {
	Time   time.Time `json:"time"`
	People []Person  `json:"people"`
}

// GeofenceTransition records a tracked subject crossing the campus fence.
type GeofenceTransition struct {
	SubjectID string    `json:"subject_id"`
	Direction string    `json:"direction"`
	Position  GeoPoint  `json:"position"`
	Time      time.Time `json:"time"`
}

// EscalationRequest asks the escalation worker to follow up on an alert.
type EscalationRequest struct {
	AlertID string    `json:"alert_id"`
	Kind    AlertKind `json:"kind"`
	Time    time.Time `json:"time"`
}
