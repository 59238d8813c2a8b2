package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/swopnil/Guardify/internal/core/domain"
	"github.com/swopnil/Guardify/internal/core/usecases"
)

// --- Mock AssistantClient ---

type mockAssistant struct {
	sendFn func(ctx context.Context, message string) (string, bool, error)
}

func (m *mockAssistant) Send(ctx context.Context, message string) (string, bool, error) {
	return m.sendFn(ctx, message)
}

// --- Mock ChatRepository ---

type mockChatRepo struct {
	inserted  []*domain.ChatExchange
	historyFn func(ctx context.Context, limit, offset int) ([]domain.ChatExchange, int, error)
}

func (m *mockChatRepo) Insert(ctx context.Context, ex *domain.ChatExchange) error {
	m.inserted = append(m.inserted, ex)
	return nil
}

func (m *mockChatRepo) History(ctx context.Context, limit, offset int) ([]domain.ChatExchange, int, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, limit, offset)
	}
	return nil, 0, nil
}

func TestChatService_SendBenign(t *testing.T) {
	assistant := &mockAssistant{
		sendFn: func(_ context.Context, _ string) (string, bool, error) {
			return "The library closes at midnight.", false, nil
		},
	}
	chats := &mockChatRepo{}
	alertRepo := &mockAlertRepo{}
	alerts := usecases.NewAlertService(alertRepo, nil)
	svc := usecases.NewChatService(assistant, chats, alerts)

	ex, err := svc.Send(context.Background(), "When does the library close?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.BotText != "The library closes at midnight." {
		t.Errorf("bot text = %q", ex.BotText)
	}
	if ex.Malicious {
		t.Error("expected benign exchange")
	}
	if len(chats.inserted) != 1 {
		t.Fatalf("inserted %d exchanges, want 1", len(chats.inserted))
	}
	if len(alertRepo.inserted) != 0 {
		t.Errorf("recorded %d alerts, want 0", len(alertRepo.inserted))
	}
}

func TestChatService_SendMaliciousEscalates(t *testing.T) {
	assistant := &mockAssistant{
		sendFn: func(_ context.Context, _ string) (string, bool, error) {
			return "I cannot help with that.", true, nil
		},
	}
	chats := &mockChatRepo{}
	alertRepo := &mockAlertRepo{}
	pub := &mockPublisher{}
	alerts := usecases.NewAlertService(alertRepo, pub)
	svc := usecases.NewChatService(assistant, chats, alerts)

	ex, err := svc.Send(context.Background(), "something hostile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ex.Malicious {
		t.Fatal("expected the exchange to be flagged")
	}
	if len(chats.inserted) != 1 {
		t.Fatalf("inserted %d exchanges, want 1", len(chats.inserted))
	}
	if len(alertRepo.inserted) != 1 {
		t.Fatalf("recorded %d alerts, want 1", len(alertRepo.inserted))
	}
	alert := alertRepo.inserted[0]
	if alert.Kind != domain.AlertChatEscalation {
		t.Errorf("alert kind = %s, want %s", alert.Kind, domain.AlertChatEscalation)
	}
	// The alert references the exchange rather than quoting the chat.
	if alert.Message == ex.UserText || alert.Message == ex.BotText {
		t.Errorf("alert message %q should not quote the conversation", alert.Message)
	}
	if len(pub.escalations) != 1 {
		t.Errorf("published %d escalations, want 1", len(pub.escalations))
	}
}

func TestChatService_SendEmpty(t *testing.T) {
	svc := usecases.NewChatService(&mockAssistant{}, &mockChatRepo{}, nil)

	if _, err := svc.Send(context.Background(), "   "); err == nil {
		t.Fatal("expected an error for a blank message")
	}
}

func TestChatService_AssistantError(t *testing.T) {
	assistant := &mockAssistant{
		sendFn: func(_ context.Context, _ string) (string, bool, error) {
			return "", false, errors.New("upstream timeout")
		},
	}
	chats := &mockChatRepo{}
	svc := usecases.NewChatService(assistant, chats, nil)

	_, err := svc.Send(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(chats.inserted) != 0 {
		t.Errorf("inserted %d exchanges after assistant failure, want 0", len(chats.inserted))
	}
}

func TestChatService_HistoryClampsLimit(t *testing.T) {
	var gotLimit, gotOffset int
	chats := &mockChatRepo{
		historyFn: func(_ context.Context, limit, offset int) ([]domain.ChatExchange, int, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		},
	}
	svc := usecases.NewChatService(&mockAssistant{}, chats, nil)

	if _, _, err := svc.History(context.Background(), 999, -4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 50 {
		t.Errorf("limit = %d, want 50", gotLimit)
	}
	if gotOffset != 0 {
		t.Errorf("offset = %d, want 0", gotOffset)
	}
}
