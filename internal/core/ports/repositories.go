package ports

import (
	"context"
	"time"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// AlertRepository persists safety alerts. The store is append-only: rows are
// keyed by creation time and only the acknowledgement flag ever changes.
type AlertRepository interface {
	Insert(ctx context.Context, alert *domain.SafetyAlert) error
	GetByID(ctx context.Context, id string) (*domain.SafetyAlert, error)
	List(ctx context.Context, limit, offset int) ([]domain.SafetyAlert, int, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	Acknowledge(ctx context.Context, id string, at time.Time) error
}

// ChatRepository persists assistant conversations.
type ChatRepository interface {
	Insert(ctx context.Context, ex *domain.ChatExchange) error
	History(ctx context.Context, limit, offset int) ([]domain.ChatExchange, int, error)
}

// EscalationRepository persists dispatch records written by the escalation
// worker. DispatchesForAlert lets the worker cap notifications when the same
// escalation request is redelivered.
type EscalationRepository interface {
	RecordDispatch(ctx context.Context, d *domain.EscalationDispatch) error
	DeleteDispatch(ctx context.Context, id string) error
	DispatchesForAlert(ctx context.Context, alertID string) ([]domain.EscalationDispatch, error)
}
