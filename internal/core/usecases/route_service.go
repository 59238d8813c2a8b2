package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/ports"
	"github.com/swopnil/Guardify/internal/pkg/geospatial"
	"github.com/swopnil/Guardify/internal/pkg/metrics"
	"github.com/swopnil/Guardify/internal/pkg/telemetry"
)

// Proximity credit thresholds, in meters. A person within fullCreditDistance
// of a polyline point contributes 1.0; credit fades linearly to zero at
// zeroCreditDistance and is zero beyond it.
const (
	fullCreditDistance = 50.0
	zeroCreditDistance = 200.0
)

// RouteService scores and selects walking routes by live co-presence.
type RouteService struct {
	directions ports.DirectionsProvider
	people     ports.PeopleSource
	cache      ports.CacheService
}

// NewRouteService creates a new RouteService.
func NewRouteService(directions ports.DirectionsProvider, people ports.PeopleSource, cache ports.CacheService) *RouteService {
	return &RouteService{directions: directions, people: people, cache: cache}
}

// proximityCredit maps a pair distance to its score contribution.
func proximityCredit(meters float64) float64 {
	switch {
	case meters <= fullCreditDistance:
		return 1.0
	case meters <= zeroCreditDistance:
		return 1.0 - (meters-fullCreditDistance)/(zeroCreditDistance-fullCreditDistance)
	default:
		return 0.0
	}
}

// Score rates a route against the given people snapshot. Every polyline
// point is compared with every person; the summed credit is divided by the
// number of polyline points so routes of different lengths stay comparable.
// An empty snapshot scores 0.0, which is a valid result, not an error.
//
// Complexity is O(points x people), fine at campus scale. If either
// collection grows past a few thousand, bucket people into a coarse grid
// first and only measure nearby cells.
func (s *RouteService) Score(route domain.RouteCandidate, people []domain.Person) (float64, error) {
	if err := route.Validate(); err != nil {
		return 0, err
	}
	if len(people) == 0 {
		return 0, nil
	}

	var sum float64
	for _, pt := range route.Points {
		for _, person := range people {
			sum += proximityCredit(geospatial.Distance(pt, person.Position))
		}
	}
	return sum / float64(len(route.Points)), nil
}

// ScoreAll scores every candidate, preserving submission order.
func (s *RouteService) ScoreAll(candidates []domain.RouteCandidate, people []domain.Person) ([]domain.ScoredRoute, error) {
	scored := make([]domain.ScoredRoute, 0, len(candidates))
	for i, c := range candidates {
		score, err := s.Score(c, people)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		scored = append(scored, domain.ScoredRoute{Route: c, Score: score, Index: i})
	}
	return scored, nil
}

// SelectBest returns the highest-scoring candidate. Ties keep the earliest
// candidate, so selection is deterministic for identical input.
func (s *RouteService) SelectBest(candidates []domain.RouteCandidate, people []domain.Person) (*domain.ScoredRoute, error) {
	if len(candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}

	best := domain.ScoredRoute{Index: -1}
	for i, c := range candidates {
		score, err := s.Score(c, people)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		if best.Index == -1 || score > best.Score {
			best = domain.ScoredRoute{Route: c, Score: score, Index: i}
		}
	}
	return &best, nil
}

// PlanRoutes fetches walking candidates from the directions provider and
// ranks them against the current people snapshot, safest first. Ranking is
// stable, so equally scored candidates keep the provider's order.
func (s *RouteService) PlanRoutes(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.ScoredRoute, error) {
	ctx, span := otel.Tracer("guardify/usecases").Start(ctx, "RouteService.PlanRoutes")
	defer span.End()

	if err := domain.ValidatePoint(origin); err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}
	if err := domain.ValidatePoint(destination); err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	candidates, err := s.fetchCandidates(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, domain.ErrNoCandidates
	}

	people := s.people.Snapshot()
	span.SetAttributes(
		attribute.Int(telemetry.AttrRouteCandidates, len(candidates)),
		attribute.Int(telemetry.AttrPeopleTracked, len(people)),
		attribute.Float64(telemetry.AttrSnapshotAge, time.Since(s.people.AsOf()).Seconds()),
	)

	scored, err := s.ScoreAll(candidates, people)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}

// fetchCandidates asks the provider for routes, with a short cache in front.
func (s *RouteService) fetchCandidates(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.RouteCandidate, error) {
	cacheKey := fmt.Sprintf("routes:walk:%.5f:%.5f:%.5f:%.5f",
		origin.Lat, origin.Lon, destination.Lat, destination.Lon)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []domain.RouteCandidate
			if err := json.Unmarshal(data, &cached); err == nil {
				metrics.CacheHits.WithLabelValues("routes").Inc()
				return cached, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("routes").Inc()
	}

	candidates, err := s.directions.WalkingRoutes(ctx, origin, destination)
	if err != nil {
		return nil, fmt.Errorf("walking routes: %w", err)
	}

	// Cache for 60 seconds (paths change rarely; scores are always fresh).
	if s.cache != nil {
		if data, err := json.Marshal(candidates); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 60)
		}
	}

	return candidates, nil
}
