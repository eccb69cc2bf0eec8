package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studyenrollment/internal/domain"
)

type unitOfWork struct {
	DB          *sql.DB
	lockTimeout time.Duration
	logger      *slog.Logger
}

// NewUnitOfWork returns an EventUnitOfWork that runs each unit in a transaction holding
// the event row with SELECT ... FOR UPDATE. Concurrent units on the same event queue on the
// row lock; other events are unaffected. lockTimeout > 0 bounds the wait via lock_timeout.
func NewUnitOfWork(db *sql.DB, lockTimeout time.Duration, logger *slog.Logger) domain.EventUnitOfWork {
	return &unitOfWork{
		DB:          db,
		lockTimeout: lockTimeout,
		logger:      logger.With("component", "event_unit_of_work"),
	}
}

func (u *unitOfWork) WithinEvent(ctx context.Context, eventID string, fn func(ctx context.Context, tx domain.EventTx) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				u.logger.Error("rollback after panic failed", "event_id", eventID, "err", rbErr)
			}
			panic(p)
		}
	}()

	if u.lockTimeout > 0 {
		// SET does not accept bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			u.rollback(tx, eventID, err)
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	ev, err := scanEvent(tx.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, eventID))
	if err != nil {
		u.rollback(tx, eventID, err)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return mapLockError(ctx, err)
	}

	scoped := &eventTx{
		enrollmentRepository: enrollmentRepository{DB: tx},
		tx:                   tx,
		event:                ev,
	}
	if err := fn(ctx, scoped); err != nil {
		u.rollback(tx, eventID, err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (u *unitOfWork) rollback(tx *sql.Tx, eventID string, cause error) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		u.logger.Error("rollback failed", "event_id", eventID, "err", err, "cause", cause)
		return
	}
	u.logger.Debug("rolled back", "event_id", eventID, "cause", cause)
}

// eventTx scopes the enrollment repository to one transaction and one locked event.
type eventTx struct {
	enrollmentRepository
	tx    *sql.Tx
	event *domain.Event
}

func (t *eventTx) Event() *domain.Event {
	cp := *t.event
	return &cp
}

func (t *eventTx) UpdateLimit(ctx context.Context, limit int) error {
	result, err := t.tx.ExecContext(ctx,
		`UPDATE events SET limit_of_enrollments = $2, updated_at = NOW() WHERE id = $1`,
		t.event.ID, limit,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	t.event.LimitOfEnrollments = limit
	return nil
}
