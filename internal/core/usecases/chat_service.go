package usecases

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

// ChatService proxies the companion assistant and keeps the conversation
// history. A reply flagged malicious escalates into a safety alert.
type ChatService struct {
	assistant ports.AssistantClient
	chats     ports.ChatRepository
	alerts    *AlertService
}

// NewChatService creates a new ChatService.
func NewChatService(assistant ports.AssistantClient, chats ports.ChatRepository, alerts *AlertService) *ChatService {
	return &ChatService{assistant: assistant, chats: chats, alerts: alerts}
}

// Send forwards a user message to the assistant, persists the exchange, and
// records an escalation alert when the assistant flags the message.
func (s *ChatService) Send(ctx context.Context, message string) (*domain.ChatExchange, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("message must not be empty")
	}

	reply, malicious, err := s.assistant.Send(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("assistant: %w", err)
	}

	ex := &domain.ChatExchange{
		ID:        uuid.NewString(),
		UserText:  message,
		BotText:   reply,
		Malicious: malicious,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.chats.Insert(ctx, ex); err != nil {
		return nil, fmt.Errorf("insert chat exchange: %w", err)
	}

	if malicious && s.alerts != nil {
		// Alert text references the exchange instead of quoting it; chat
		// content stays in the chat table.
		msg := fmt.Sprintf("assistant flagged chat exchange %s", ex.ID)
		if _, err := s.alerts.Record(ctx, domain.AlertChatEscalation, msg, nil); err != nil {
			slog.Error("chat escalation alert failed", "exchange_id", ex.ID, "error", err)
		}
	}

	return ex, nil
}

// History returns a page of past exchanges, newest first, with the total.
func (s *ChatService) History(ctx context.Context, limit, offset int) ([]domain.ChatExchange, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.chats.History(ctx, limit, offset)
}
