package domain

import "time"

// AlertKind classifies how a safety alert was raised.
type AlertKind string

const (
	AlertVoiceTrigger   AlertKind = "voice_trigger"
	AlertChatEscalation AlertKind = "chat_escalation"
	AlertGeofenceExit   AlertKind = "geofence_exit"
	AlertManual         AlertKind = "manual"
)

// Valid reports whether k is one of the known kinds.
func (k AlertKind) Valid() bool {
	switch k {
	case AlertVoiceTrigger, AlertChatEscalation, AlertGeofenceExit, AlertManual:
		return true
	}
	return false
}

// SafetyAlert is an append-only emergency record. Records are keyed by
// CreatedAt and never updated except for acknowledgement.
type SafetyAlert struct {
	ID           string     `json:"id"`
	Kind         AlertKind  `json:"kind"`
	Message      string     `json:"message"`
	Location     *GeoPoint  `json:"location,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	Acknowledged bool       `json:"acknowledged"`
	AckedAt      *time.Time `json:"acked_at,omitempty"`
}

// IsEmergency reports whether the alert kind warrants the escalation flow.
func (a *SafetyAlert) IsEmergency() bool {
	return a.Kind == AlertVoiceTrigger || a.Kind == AlertChatEscalation || a.Kind == AlertManual
}

// EscalationDispatch records one notification sent to campus security for an
// alert. A delivery that fails outright removes its row again, so the table
// only holds dispatches that reached someone.
type EscalationDispatch struct {
	ID           string    `json:"id"`
	AlertID      string    `json:"alert_id"`
	Recipient    string    `json:"recipient"`
	FollowUp     bool      `json:"follow_up"`
	DispatchedAt time.Time `json:"dispatched_at"`
}
