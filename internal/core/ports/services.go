package ports

import (
	"context"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishPeopleSnapshot(ctx context.Context, snap *domain.PeopleSnapshot) error
	PublishAlert(ctx context.Context, alert *domain.SafetyAlert) error
	PublishGeofenceTransition(ctx context.Context, tr *domain.GeofenceTransition) error
	PublishEscalationRequest(ctx context.Context, req *domain.EscalationRequest) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribePeopleSnapshots(ctx context.Context, handler func(ctx context.Context, snap *domain.PeopleSnapshot) error) error
	SubscribeAlerts(ctx context.Context, handler func(ctx context.Context, alert *domain.SafetyAlert) error) error
	SubscribeEscalationRequests(ctx context.Context, handler func(ctx context.Context, req *domain.EscalationRequest) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// DirectionsProvider returns candidate walking routes between two points.
type DirectionsProvider interface {
	WalkingRoutes(ctx context.Context, origin, destination domain.GeoPoint) ([]domain.RouteCandidate, error)
}

// AssistantClient talks to the companion chat backend. The reply carries the
// backend's verdict on whether the user message signals danger.
type AssistantClient interface {
	Send(ctx context.Context, message string) (reply string, malicious bool, err error)
}

// DetectionClient forwards voice transcriptions for danger-phrase analysis.
type DetectionClient interface {
	Report(ctx context.Context, transcription string) error
}

// NotificationService sends notifications (push, email, etc.).
type NotificationService interface {
	SendPush(ctx context.Context, recipient, title, body string) error
}

// PeopleSource exposes the latest people snapshot to consumers. AsOf reports
// when that snapshot was taken; the zero time means nothing was ingested yet.
type PeopleSource interface {
	Snapshot() []domain.Person
	AsOf() time.Time
}
