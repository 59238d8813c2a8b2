package domain

import "github.com/google/uuid"

// Person is one anonymous live position from the campus people feed.
type Person struct {
	ID       string   `json:"id"`
	Position GeoPoint `json:"position"`
}

// NewPerson mints a Person for a feed position. The upstream feed carries no
// identity, so IDs are assigned at ingest and do not survive a refresh.
func NewPerson(pos GeoPoint) Person {
	return Person{ID: uuid.NewString(), Position: pos}
}
