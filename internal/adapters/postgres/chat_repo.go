package postgres

import (
	"context"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// ChatRepo implements ports.ChatRepository.
type ChatRepo struct {
	db Querier
}

func NewChatRepo(db Querier) *ChatRepo {
	return &ChatRepo{db: db}
}

func (r *ChatRepo) Insert(ctx context.Context, ex *domain.ChatExchange) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO chat_messages (id, user_text, bot_text, malicious, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ex.ID, ex.UserText, ex.BotText, ex.Malicious, ex.CreatedAt)
	return err
}

func (r *ChatRepo) History(ctx context.Context, limit, offset int) ([]domain.ChatExchange, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM chat_messages`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_text, bot_text, malicious, created_at
		FROM chat_messages
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var exchanges []domain.ChatExchange
	for rows.Next() {
		var ex domain.ChatExchange
		if err := rows.Scan(&ex.ID, &ex.UserText, &ex.BotText, &ex.Malicious, &ex.CreatedAt); err != nil {
			return nil, 0, err
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, total, rows.Err()
}
