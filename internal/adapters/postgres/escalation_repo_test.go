package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"

	"github.com/swopnil/Guardify/internal/adapters/postgres"
	"github.com/swopnil/Guardify/internal/core/domain"
)

func TestEscalationRepo_RecordAndList(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	repo := postgres.NewEscalationRepo(mock)
	at := time.Date(2025, 3, 14, 22, 20, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO escalation_dispatches`).
		WithArgs("d1", "alert-1", "campus-safety", false, at).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.RecordDispatch(context.Background(), &domain.EscalationDispatch{
		ID:           "d1",
		AlertID:      "alert-1",
		Recipient:    "campus-safety",
		DispatchedAt: at,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	mock.ExpectQuery(`SELECT id, alert_id, recipient, follow_up, dispatched_at`).
		WithArgs("alert-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "alert_id", "recipient", "follow_up", "dispatched_at"}).
			AddRow("d1", "alert-1", "campus-safety", false, at).
			AddRow("d2", "alert-1", "campus-safety", true, at.Add(2*time.Minute)))

	dispatches, err := repo.DispatchesForAlert(context.Background(), "alert-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(dispatches) != 2 {
		t.Fatalf("got %d dispatches, want 2", len(dispatches))
	}
	if dispatches[0].FollowUp {
		t.Error("first dispatch should not be a follow-up")
	}
	if !dispatches[1].FollowUp {
		t.Error("second dispatch should be a follow-up")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEscalationRepo_DeleteMissing(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	repo := postgres.NewEscalationRepo(mock)

	mock.ExpectExec(`DELETE FROM escalation_dispatches`).
		WithArgs("ghost").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if err := repo.DeleteDispatch(context.Background(), "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
