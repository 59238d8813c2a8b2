package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/ports"
	"github.com/swopnil/Guardify/internal/pkg/geospatial"
)

// PeopleService holds the latest people snapshot in a keyed map. The feed is
// anonymous, so every refresh mints fresh IDs and the merge sweep drops the
// whole previous generation; a feed with stable IDs would merge in place with
// no code change here.
type PeopleService struct {
	publisher ports.EventPublisher

	mu     sync.RWMutex
	people map[string]personEntry
	gen    uint64
	asOf   time.Time
}

type personEntry struct {
	person domain.Person
	gen    uint64
}

// NewPeopleService creates a new PeopleService. The publisher may be nil when
// snapshots arrive from the broker instead of being produced here.
func NewPeopleService(publisher ports.EventPublisher) *PeopleService {
	return &PeopleService{
		publisher: publisher,
		people:    make(map[string]personEntry),
	}
}

// Replace ingests a full feed refresh: positions become Persons with fresh
// IDs, the store is swept, and the snapshot is published for relays.
// Positions must already be validated at the feed boundary.
func (s *PeopleService) Replace(ctx context.Context, positions []domain.GeoPoint) *domain.PeopleSnapshot {
	people := make([]domain.Person, 0, len(positions))
	for _, pos := range positions {
		people = append(people, domain.NewPerson(pos))
	}

	snap := &domain.PeopleSnapshot{Time: time.Now().UTC(), People: people}
	s.Apply(snap)

	if s.publisher != nil {
		_ = s.publisher.PublishPeopleSnapshot(ctx, snap)
	}
	return snap
}

// Apply merges a snapshot into the keyed store and sweeps entries that were
// not part of it. Used directly when snapshots arrive over the broker.
func (s *PeopleService) Apply(snap *domain.PeopleSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	for _, p := range snap.People {
		s.people[p.ID] = personEntry{person: p, gen: s.gen}
	}
	for id, e := range s.people {
		if e.gen != s.gen {
			delete(s.people, id)
		}
	}
	s.asOf = snap.Time
}

// Snapshot returns the current people set, ordered by ID for determinism.
func (s *PeopleService) Snapshot() []domain.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Person, 0, len(s.people))
	for _, e := range s.people {
		out = append(out, e.person)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Near returns people within radiusMeters of center. A bounding box cuts the
// candidate set before exact distances are measured.
func (s *PeopleService) Near(center domain.GeoPoint, radiusMeters float64) []domain.Person {
	min, max := geospatial.BoundingBox(center, radiusMeters)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Person
	for _, e := range s.people {
		p := e.person.Position
		if p.Lat < min.Lat || p.Lat > max.Lat || p.Lon < min.Lon || p.Lon > max.Lon {
			continue
		}
		if geospatial.Distance(center, p) <= radiusMeters {
			out = append(out, e.person)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the size of the current snapshot.
func (s *PeopleService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.people)
}

// AsOf returns the capture time of the current snapshot.
func (s *PeopleService) AsOf() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.asOf
}
