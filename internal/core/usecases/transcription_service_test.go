package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/usecases"
)

// --- Mock DetectionClient ---

type mockDetector struct {
	reports  []string
	reportFn func(ctx context.Context, transcription string) error
}

func (m *mockDetector) Report(ctx context.Context, transcription string) error {
	m.reports = append(m.reports, transcription)
	if m.reportFn != nil {
		return m.reportFn(ctx, transcription)
	}
	return nil
}

func TestTranscriptionService_Ingest(t *testing.T) {
	alertRepo := &mockAlertRepo{}
	pub := &mockPublisher{}
	detector := &mockDetector{}
	svc := usecases.NewTranscriptionService(usecases.NewAlertService(alertRepo, pub), detector)

	loc := &domain.GeoPoint{Lat: 40.0367, Lon: -75.3496}
	alert, err := svc.Ingest(context.Background(), "help me", loc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert.Kind != domain.AlertVoiceTrigger {
		t.Errorf("alert kind = %s, want %s", alert.Kind, domain.AlertVoiceTrigger)
	}
	if alert.Message != "help me" {
		t.Errorf("alert message = %q, want the transcription", alert.Message)
	}
	if alert.Location == nil || alert.Location.Lat != 40.0367 {
		t.Errorf("alert location = %v, want the caller's position", alert.Location)
	}
	if len(detector.reports) != 1 || detector.reports[0] != "help me" {
		t.Errorf("detector reports = %v, want the transcription forwarded once", detector.reports)
	}
	// Voice triggers are emergencies.
	if len(pub.escalations) != 1 {
		t.Errorf("published %d escalations, want 1", len(pub.escalations))
	}
}

func TestTranscriptionService_DetectorFailureStillRecords(t *testing.T) {
	alertRepo := &mockAlertRepo{}
	detector := &mockDetector{
		reportFn: func(_ context.Context, _ string) error {
			return errors.New("detection endpoint down")
		},
	}
	svc := usecases.NewTranscriptionService(usecases.NewAlertService(alertRepo, nil), detector)

	alert, err := svc.Ingest(context.Background(), "someone is following me", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if alert == nil {
		t.Fatal("expected the alert despite the forward failure")
	}
	if len(alertRepo.inserted) != 1 {
		t.Errorf("recorded %d alerts, want 1", len(alertRepo.inserted))
	}
}

func TestTranscriptionService_IngestEmpty(t *testing.T) {
	svc := usecases.NewTranscriptionService(usecases.NewAlertService(&mockAlertRepo{}, nil), nil)

	if _, err := svc.Ingest(context.Background(), "  ", nil); err == nil {
		t.Fatal("expected an error for a blank transcription")
	}
}
