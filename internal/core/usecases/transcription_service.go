package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/ports"
)

// TranscriptionService handles voice-trigger transcriptions: the alert is
// recorded first, then the text is forwarded to the detection endpoint. The
// forward is fire and forget; the upstream defines no response contract.
type TranscriptionService struct {
	alerts   *AlertService
	detector ports.DetectionClient
}

// NewTranscriptionService creates a new TranscriptionService.
func NewTranscriptionService(alerts *AlertService, detector ports.DetectionClient) *TranscriptionService {
	return &TranscriptionService{alerts: alerts, detector: detector}
}

// Ingest records a voice-trigger alert and forwards the transcription.
func (s *TranscriptionService) Ingest(ctx context.Context, transcription string, location *domain.GeoPoint) (*domain.SafetyAlert, error) {
	if strings.TrimSpace(transcription) == "" {
		return nil, fmt.Errorf("transcription must not be empty")
	}

	alert, err := s.alerts.Record(ctx, domain.AlertVoiceTrigger, transcription, location)
	if err != nil {
		return nil, err
	}

	if s.detector != nil {
		if err := s.detector.Report(ctx, transcription); err != nil {
			slog.Warn("transcription forward failed", "alert_id", alert.ID, "error", err)
		}
	}

	return alert, nil
}
