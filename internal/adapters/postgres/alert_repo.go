package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/swopnil/Guardify/internal/core/domain"
)

// AlertRepo implements ports.AlertRepository. Alerts are append-only; only
// the acknowledgement columns ever change after insert.
type AlertRepo struct {
	db Querier
}

func NewAlertRepo(db Querier) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) Insert(ctx context.Context, alert *domain.SafetyAlert) error {
	var lat, lon interface{}
	if alert.Location != nil {
		lat, lon = alert.Location.Lat, alert.Location.Lon
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO alerts (id, kind, message, lat, lon, created_at, acknowledged)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, alert.ID, string(alert.Kind), alert.Message, lat, lon, alert.CreatedAt, alert.Acknowledged)
	return err
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*domain.SafetyAlert, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, kind, message, lat, lon, created_at, acknowledged, acked_at
		FROM alerts WHERE id = $1
	`, id)

	alert, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return alert, nil
}

func (r *AlertRepo) List(ctx context.Context, limit, offset int) ([]domain.SafetyAlert, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM alerts`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, kind, message, lat, lon, created_at, acknowledged, acked_at
		FROM alerts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var alerts []domain.SafetyAlert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		alerts = append(alerts, *alert)
	}
	return alerts, total, rows.Err()
}

func (r *AlertRepo) CountSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM alerts WHERE created_at >= $1
	`, since).Scan(&n)
	return n, err
}

func (r *AlertRepo) Acknowledge(ctx context.Context, id string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE alerts SET acknowledged = TRUE, acked_at = $2 WHERE id = $1
	`, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanAlert(row pgx.Row) (*domain.SafetyAlert, error) {
	var a domain.SafetyAlert
	var kind string
	var lat, lon sql.NullFloat64
	var ackedAt sql.NullTime

	if err := row.Scan(&a.ID, &kind, &a.Message, &lat, &lon, &a.CreatedAt, &a.Acknowledged, &ackedAt); err != nil {
		return nil, err
	}

	a.Kind = domain.AlertKind(kind)
	if lat.Valid && lon.Valid {
		a.Location = &domain.GeoPoint{Lat: lat.Float64, Lon: lon.Float64}
	}
	if ackedAt.Valid {
		t := ackedAt.Time
		a.AckedAt = &t
	}
	return &a, nil
}
