package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/tracking"
)

// NavigationService manages per-client navigation sessions. Each session owns
// one tracker; the session mutex provides the serialization the tracker
// itself deliberately omits.
type NavigationService struct {
	geofence *GeofenceService

	mu       sync.RWMutex
	sessions map[string]*navSession
}

type navSession struct {
	mu       sync.Mutex
	tracker  *tracking.Tracker
	lastSeen time.Time
}

// NavigationStatus is the API-facing view of a session.
type NavigationStatus struct {
	SessionID   string           `json:"session_id"`
	State       string           `json:"state"`
	Instruction string           `json:"instruction,omitempty"`
	Position    *domain.GeoPoint `json:"position,omitempty"`
	InsideFence *bool            `json:"inside_fence,omitempty"`
}

// NewNavigationService creates a new NavigationService. The geofence may be
// nil when no campus fence is configured.
func NewNavigationService(geofence *GeofenceService) *NavigationService {
	return &NavigationService{
		geofence: geofence,
		sessions: make(map[string]*navSession),
	}
}

// StartSession validates the route and begins navigating it in a fresh
// session.
func (s *NavigationService) StartSession(route domain.RouteCandidate) (*NavigationStatus, error) {
	for i, p := range route.Points {
		if err := domain.ValidatePoint(p); err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
	}
	for i, step := range route.Steps {
		if err := domain.ValidatePoint(step.Anchor); err != nil {
			return nil, fmt.Errorf("step %d anchor: %w", i, err)
		}
	}

	sess := &navSession{tracker: tracking.New(), lastSeen: time.Now()}
	if err := sess.tracker.Start(route); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	st := statusOf(id, sess, nil)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return st, nil
}

// UpdateLocation records a position for the session, recomputes the current
// instruction, and checks the position against the campus fence.
func (s *NavigationService) UpdateLocation(ctx context.Context, sessionID string, position domain.GeoPoint) (*NavigationStatus, error) {
	if err := domain.ValidatePoint(position); err != nil {
		return nil, err
	}

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.tracker.Update(position)
	sess.lastSeen = time.Now()

	var inside *bool
	if s.geofence != nil {
		in := s.geofence.Observe(ctx, sessionID, position)
		inside = &in
	}
	return statusOf(sessionID, sess, inside), nil
}

// Get returns the session's current status without mutating it.
func (s *NavigationService) Get(sessionID string) (*NavigationStatus, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	var inside *bool
	if pos, ok := sess.tracker.Position(); ok && s.geofence != nil {
		in := s.geofence.Status(pos)
		inside = &in
	}
	return statusOf(sessionID, sess, inside), nil
}

// Stop ends navigation and discards the session.
func (s *NavigationService) Stop(sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}

	sess.mu.Lock()
	sess.tracker.Stop()
	sess.mu.Unlock()

	if s.geofence != nil {
		s.geofence.Forget(sessionID)
	}
	return nil
}

// Prune drops sessions that have not seen an update within maxIdle and
// returns how many were removed. Mobile clients do not always manage to send
// an explicit stop.
func (s *NavigationService) Prune(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	s.mu.Lock()
	var stale []string
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastSeen.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			stale = append(stale, id)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, id := range stale {
		if s.geofence != nil {
			s.geofence.Forget(id)
		}
	}
	return len(stale)
}

// ActiveSessions returns the number of live sessions.
func (s *NavigationService) ActiveSessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *NavigationService) lookup(sessionID string) (*navSession, error) {
	s.mu.RLock()
	sess, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return sess, nil
}

// statusOf snapshots a session. Callers hold the session mutex.
func statusOf(id string, sess *navSession, inside *bool) *NavigationStatus {
	st := &NavigationStatus{
		SessionID:   id,
		State:       sess.tracker.State().String(),
		Instruction: sess.tracker.Instruction(),
		InsideFence: inside,
	}
	if pos, ok := sess.tracker.Position(); ok {
		p := pos
		st.Position = &p
	}
	return st
}
