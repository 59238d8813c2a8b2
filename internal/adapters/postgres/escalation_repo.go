package postgres

import (
	"context"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// EscalationRepo implements ports.EscalationRepository.
type EscalationRepo struct {
	db Querier
}

func NewEscalationRepo(db Querier) *EscalationRepo {
	return &EscalationRepo{db: db}
}

func (r *EscalationRepo) RecordDispatch(ctx context.Context, d *domain.EscalationDispatch) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO escalation_dispatches (id, alert_id, recipient, follow_up, dispatched_at)
		VALUES ($1, $2, $3, $4, $5)
	`, d.ID, d.AlertID, d.Recipient, d.FollowUp, d.DispatchedAt)
	return err
}

func (r *EscalationRepo) DeleteDispatch(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM escalation_dispatches WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EscalationRepo) DispatchesForAlert(ctx context.Context, alertID string) ([]domain.EscalationDispatch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, alert_id, recipient, follow_up, dispatched_at
		FROM escalation_dispatches
		WHERE alert_id = $1
		ORDER BY dispatched_at ASC
	`, alertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.EscalationDispatch
	for rows.Next() {
		var d domain.EscalationDispatch
		if err := rows.Scan(&d.ID, &d.AlertID, &d.Recipient, &d.FollowUp, &d.DispatchedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
