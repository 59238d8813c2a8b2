package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/ports"
	"github.com/swopnil/Guardify/internal/pkg/metrics"
)

// GeofenceService owns the campus fence and tracks which subjects are inside
// it, publishing a transition event whenever one crosses the boundary.
type GeofenceService struct {
	publisher ports.EventPublisher

	mu     sync.RWMutex
	region domain.GeoRegion
	inside map[string]bool
}

// NewGeofenceService creates a new GeofenceService around the given region.
func NewGeofenceService(region domain.GeoRegion, publisher ports.EventPublisher) *GeofenceService {
	return &GeofenceService{
		publisher: publisher,
		region:    region,
		inside:    make(map[string]bool),
	}
}

// Region returns the current fence.
func (s *GeofenceService) Region() domain.GeoRegion {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.region
}

// UpdateRegion swaps the fence. Updates within RegionTolerance of the current
// fence are dropped so repeated submissions of the same fence do nothing;
// the bool reports whether the fence actually changed.
func (s *GeofenceService) UpdateRegion(region domain.GeoRegion) (bool, error) {
	if err := region.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.region.ApproxEqual(region, domain.RegionTolerance) {
		return false, nil
	}
	s.region = region
	return true, nil
}

// Status reports whether a point is inside the fence.
func (s *GeofenceService) Status(p domain.GeoPoint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.region.Contains(p)
}

// Observe records a subject's position against the fence. The first
// observation establishes the subject's side without an event; later
// crossings publish an enter or exit transition.
func (s *GeofenceService) Observe(ctx context.Context, subjectID string, p domain.GeoPoint) (inside bool) {
	s.mu.Lock()
	nowInside := s.region.Contains(p)
	prev, seen := s.inside[subjectID]
	s.inside[subjectID] = nowInside
	s.mu.Unlock()

	if seen && prev != nowInside {
		direction := domain.TransitionEnter
		if !nowInside {
			direction = domain.TransitionExit
		}
		metrics.FenceTransitions.WithLabelValues(direction).Inc()
		if s.publisher != nil {
			_ = s.publisher.PublishGeofenceTransition(ctx, &domain.GeofenceTransition{
				SubjectID: subjectID,
				Direction: direction,
				Position:  p,
				Time:      time.Now().UTC(),
			})
		}
	}
	return nowInside
}

// Forget drops a subject's containment state, e.g. when its session ends.
func (s *GeofenceService) Forget(subjectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inside, subjectID)
}
