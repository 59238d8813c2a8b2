package domain

// Step is a single turn instruction anchored to the point where it applies.
type Step struct {
	Instruction string   `json:"instruction"`
	Anchor      GeoPoint `json:"anchor"`
}

// RouteCandidate is a walking route proposed for scoring: an ordered polyline
// plus the provider's turn instructions. Steps may be empty (a straight
// segment with nothing to announce); the polyline may not.
type RouteCandidate struct {
	Points []GeoPoint `json:"points"`
	Steps  []Step     `json:"steps,omitempty"`
}

// Validate rejects candidates with an empty polyline.
func (r RouteCandidate) Validate() error {
	if len(r.Points) == 0 {
		return ErrEmptyRoute
	}
	return nil
}

// ScoredRoute pairs a candidate with its crowd-presence score. Index is the
// candidate's position in the submitted set so callers can correlate results.
type ScoredRoute struct {
	Route RouteCandidate `json:"route"`
	Score float64        `json:"score"`
	Index int            `json:"index"`
}
