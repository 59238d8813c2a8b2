package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/ports"
)

// AlertService records and reads safety alerts.
type AlertService struct {
	alerts    ports.AlertRepository
	publisher ports.EventPublisher
}

// NewAlertService creates a new AlertService.
func NewAlertService(alerts ports.AlertRepository, publisher ports.EventPublisher) *AlertService {
	return &AlertService{alerts: alerts, publisher: publisher}
}

// Record appends an alert, fans it out to live listeners, and asks the
// escalation worker to follow up on emergency kinds.
func (s *AlertService) Record(ctx context.Context, kind domain.AlertKind, message string, location *domain.GeoPoint) (*domain.SafetyAlert, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown alert kind %q", kind)
	}
	if location != nil {
		if err := domain.ValidatePoint(*location); err != nil {
			return nil, err
		}
	}

	alert := &domain.SafetyAlert{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		Location:  location,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.alerts.Insert(ctx, alert); err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}

	// Fan-out is best effort; the record is already durable.
	if s.publisher != nil {
		_ = s.publisher.PublishAlert(ctx, alert)
		if alert.IsEmergency() {
			_ = s.publisher.PublishEscalationRequest(ctx, &domain.EscalationRequest{
				AlertID: alert.ID,
				Kind:    alert.Kind,
				Time:    alert.CreatedAt,
			})
		}
	}

	return alert, nil
}

// List returns a page of alerts, newest first, with the total count.
func (s *AlertService) List(ctx context.Context, limit, offset int) ([]domain.SafetyAlert, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.alerts.List(ctx, limit, offset)
}

// GetByID returns a single alert.
func (s *AlertService) GetByID(ctx context.Context, id string) (*domain.SafetyAlert, error) {
	return s.alerts.GetByID(ctx, id)
}

// Acknowledge marks an alert as handled.
func (s *AlertService) Acknowledge(ctx context.Context, id string) error {
	if err := s.alerts.Acknowledge(ctx, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("acknowledge alert %s: %w", id, err)
	}
	return nil
}

// RecentCount returns how many alerts were recorded in the trailing window.
func (s *AlertService) RecentCount(ctx context.Context, window time.Duration) (int, error) {
	return s.alerts.CountSince(ctx, time.Now().UTC().Add(-window))
}
