package postgres

import (
	"context"
	"database/sql"
	"errors"

	"studyenrollment/internal/domain"
)

const eventColumns = `id, study_id, title, description, type, limit_of_enrollments,
		enrollment_opens_at, enrollment_closes_at, starts_at, ends_at, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var opensNull sql.NullTime
	err := row.Scan(
		&e.ID, &e.StudyID, &e.Title, &e.Description, &e.Type, &e.LimitOfEnrollments,
		&opensNull, &e.EnrollmentClosesAt, &e.StartsAt, &e.EndsAt, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if opensNull.Valid {
		e.EnrollmentOpensAt = &opensNull.Time
	}
	return e, nil
}

type eventRepository struct {
	DB *sql.DB
}

// NewEventRepository returns the event catalog backed by the events table.
func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (study_id, title, description, type, limit_of_enrollments,
			enrollment_opens_at, enrollment_closes_at, starts_at, ends_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var opens sql.NullTime
	if e.EnrollmentOpensAt != nil {
		opens = sql.NullTime{Time: *e.EnrollmentOpensAt, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.StudyID, e.Title, e.Description, string(e.Type), e.LimitOfEnrollments,
		opens, e.EnrollmentClosesAt, e.StartsAt, e.EndsAt, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}
