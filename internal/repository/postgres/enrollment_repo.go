package postgres

import (
	"context"
	"database/sql"
	"errors"

	"studyenrollment/internal/domain"
)

const enrollmentColumns = `event_id, account_id, accepted, enrolled_at, seq`

type enrollmentRepository struct {
	DB dbtx
}

// NewEnrollmentRepository returns a repository over committed enrollment rows.
// Read-decide-write sequences go through the unit of work instead.
func NewEnrollmentRepository(db *sql.DB) domain.EnrollmentRepository {
	return &enrollmentRepository{
		DB: db,
	}
}

func scanEnrollments(rows *sql.Rows) ([]*domain.Enrollment, error) {
	defer rows.Close()
	out := make([]*domain.Enrollment, 0)
	for rows.Next() {
		e := &domain.Enrollment{}
		if err := rows.Scan(&e.EventID, &e.AccountID, &e.Accepted, &e.EnrolledAt, &e.Seq); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepository) Get(ctx context.Context, eventID, accountID string) (*domain.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE event_id = $1 AND account_id = $2
	`
	e := &domain.Enrollment{}
	err := r.DB.QueryRowContext(ctx, query, eventID, accountID).
		Scan(&e.EventID, &e.AccountID, &e.Accepted, &e.EnrolledAt, &e.Seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *enrollmentRepository) Exists(ctx context.Context, eventID, accountID string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM enrollments WHERE event_id = $1 AND account_id = $2)`,
		eventID, accountID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	query := `
		INSERT INTO enrollments (event_id, account_id, accepted, enrolled_at)
		VALUES ($1, $2, $3, $4)
		RETURNING seq
	`
	err := r.DB.QueryRowContext(ctx, query, e.EventID, e.AccountID, e.Accepted, e.EnrolledAt).Scan(&e.Seq)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEnrollment
		}
		return err
	}
	return nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, eventID, accountID string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM enrollments WHERE event_id = $1 AND account_id = $2`,
		eventID, accountID,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

func (r *enrollmentRepository) ListWaiting(ctx context.Context, eventID string) ([]*domain.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE event_id = $1 AND accepted = FALSE
		ORDER BY enrolled_at, seq
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	return scanEnrollments(rows)
}

func (r *enrollmentRepository) CountAccepted(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE event_id = $1 AND accepted = TRUE`,
		eventID,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, e *domain.Enrollment) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE enrollments SET accepted = $3 WHERE event_id = $1 AND account_id = $2`,
		e.EventID, e.AccountID, e.Accepted,
	)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrEnrollmentNotFound
	}
	return nil
}

func (r *enrollmentRepository) ListByEvent(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE event_id = $1
		ORDER BY enrolled_at, seq
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.PageSize, params.Offset())
	if err != nil {
		return nil, err
	}
	return scanEnrollments(rows)
}

func (r *enrollmentRepository) CountByEvent(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM enrollments WHERE event_id = $1`, eventID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
