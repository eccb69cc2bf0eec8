package postgres

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"studyenrollment/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

const lockEventPattern = `SELECT id, study_id, .* FROM events WHERE id = \$1 FOR UPDATE`

func TestUnitOfWork_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`SET LOCAL lock_timeout = '250ms'`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(lockEventPattern).WithArgs("ev-1").WillReturnRows(eventRow("ev-1", "FCFS", 2, nil))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM enrollments WHERE event_id = \$1 AND accepted = TRUE`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO enrollments`).
		WithArgs("ev-1", "acc-1", true, testTime).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(9)))
	mock.ExpectCommit()

	uow := NewUnitOfWork(db, 250*time.Millisecond, discardLogger())
	err = uow.WithinEvent(ctx, "ev-1", func(ctx context.Context, tx domain.EventTx) error {
		require.Equal(t, 2, tx.Event().LimitOfEnrollments)
		n, err := tx.CountAccepted(ctx, "ev-1")
		if err != nil {
			return err
		}
		require.Equal(t, 1, n)
		return tx.Create(ctx, domain.NewEnrollment("ev-1", "acc-1", true, testTime))
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(lockEventPattern).WithArgs("ev-1").WillReturnRows(eventRow("ev-1", "FCFS", 2, nil))
	mock.ExpectExec(`DELETE FROM enrollments`).WithArgs("ev-1", "acc-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE enrollments SET accepted`).WithArgs("ev-1", "acc-2", true).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	uow := NewUnitOfWork(db, 0, discardLogger())
	err = uow.WithinEvent(context.Background(), "ev-1", func(ctx context.Context, tx domain.EventTx) error {
		if err := tx.Delete(ctx, "ev-1", "acc-1"); err != nil {
			return err
		}
		return tx.Update(ctx, &domain.Enrollment{EventID: "ev-1", AccountID: "acc-2", Accepted: true})
	})
	require.ErrorIs(t, err, sql.ErrConnDone)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_LockErrors(t *testing.T) {
	tests := []struct {
		name    string
		lockErr error
		wantErr error
	}{
		{"event missing", sql.ErrNoRows, domain.ErrEventNotFound},
		{"lock timeout", &pq.Error{Code: "55P03"}, domain.ErrBusy},
		{"statement canceled", &pq.Error{Code: "57014"}, domain.ErrBusy},
		{"other failure", sql.ErrConnDone, sql.ErrConnDone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectBegin()
			mock.ExpectExec(`SET LOCAL lock_timeout = '1000ms'`).WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectQuery(lockEventPattern).WithArgs("ev-1").WillReturnError(tt.lockErr)
			mock.ExpectRollback()

			called := false
			uow := NewUnitOfWork(db, time.Second, discardLogger())
			err = uow.WithinEvent(context.Background(), "ev-1", func(context.Context, domain.EventTx) error {
				called = true
				return nil
			})
			require.ErrorIs(t, err, tt.wantErr)
			require.False(t, called)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUnitOfWork_UpdateLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(lockEventPattern).WithArgs("ev-1").WillReturnRows(eventRow("ev-1", "FCFS", 2, nil))
	mock.ExpectExec(`UPDATE events SET limit_of_enrollments = \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs("ev-1", 4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	uow := NewUnitOfWork(db, 0, discardLogger())
	err = uow.WithinEvent(context.Background(), "ev-1", func(ctx context.Context, tx domain.EventTx) error {
		if err := tx.UpdateLimit(ctx, 4); err != nil {
			return err
		}
		require.Equal(t, 4, tx.Event().LimitOfEnrollments)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_BeginFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

	uow := NewUnitOfWork(db, 0, discardLogger())
	err = uow.WithinEvent(context.Background(), "ev-1", func(context.Context, domain.EventTx) error { return nil })
	require.Error(t, err)
	require.NotErrorIs(t, err, domain.ErrBusy)
}
