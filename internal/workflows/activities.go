package workflows

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/ports"
)

// EscalationActivities holds the activity implementations for the escalation
// workflow.
type EscalationActivities struct {
	Alerts     ports.AlertRepository
	Dispatches ports.EscalationRepository
	Notifier   ports.NotificationService
}

// LookupAlert fetches the alert and reduces it to what the workflow needs.
func (a *EscalationActivities) LookupAlert(ctx context.Context, alertID string) (AlertBrief, error) {
	alert, err := a.Alerts.GetByID(ctx, alertID)
	if err != nil {
		return AlertBrief{}, fmt.Errorf("get alert %s: %w", alertID, err)
	}

	brief := AlertBrief{
		Message:      alert.Message,
		Kind:         string(alert.Kind),
		Acknowledged: alert.Acknowledged,
	}
	if alert.Location != nil {
		brief.Lat = alert.Location.Lat
		brief.Lon = alert.Location.Lon
		brief.HasLocation = true
	}
	return brief, nil
}

// CountDispatches returns how many notifications already went out for an alert.
func (a *EscalationActivities) CountDispatches(ctx context.Context, alertID string) (int, error) {
	dispatches, err := a.Dispatches.DispatchesForAlert(ctx, alertID)
	if err != nil {
		return 0, fmt.Errorf("list dispatches for %s: %w", alertID, err)
	}
	return len(dispatches), nil
}

// RecordDispatch persists a dispatch record and returns its ID.
func (a *EscalationActivities) RecordDispatch(ctx context.Context, alertID, recipient string, followUp bool) (string, error) {
	d := &domain.EscalationDispatch{
		ID:           uuid.NewString(),
		AlertID:      alertID,
		Recipient:    recipient,
		FollowUp:     followUp,
		DispatchedAt: time.Now().UTC(),
	}
	if err := a.Dispatches.RecordDispatch(ctx, d); err != nil {
		return "", fmt.Errorf("record dispatch: %w", err)
	}
	return d.ID, nil
}

// NotifySecurity pushes the alert to the security recipient.
func (a *EscalationActivities) NotifySecurity(ctx context.Context, recipient string, alert AlertBrief, followUp bool) error {
	title := fmt.Sprintf("Emergency: %s alert", strings.ReplaceAll(alert.Kind, "_", " "))
	if followUp {
		title = "REMINDER " + title
	}

	body := alert.Message
	if alert.HasLocation {
		body = fmt.Sprintf("%s (at %.5f, %.5f)", body, alert.Lat, alert.Lon)
	}

	if a.Notifier == nil {
		slog.Info("push (no notifier configured)", "recipient", recipient, "title", title, "body", body)
		return nil
	}
	return a.Notifier.SendPush(ctx, recipient, title, body)
}

// DeleteDispatch removes a dispatch record (saga compensation / rollback).
func (a *EscalationActivities) DeleteDispatch(ctx context.Context, dispatchID string) error {
	if err := a.Dispatches.DeleteDispatch(ctx, dispatchID); err != nil {
		return fmt.Errorf("delete dispatch %s: %w", dispatchID, err)
	}
	slog.Info("dispatch record deleted after failed push", "dispatch_id", dispatchID)
	return nil
}

// CheckAcknowledged reports whether the alert has been acknowledged yet.
func (a *EscalationActivities) CheckAcknowledged(ctx context.Context, alertID string) (bool, error) {
	alert, err := a.Alerts.GetByID(ctx, alertID)
	if err != nil {
		return false, fmt.Errorf("get alert %s: %w", alertID, err)
	}
	return alert.Acknowledged, nil
}
