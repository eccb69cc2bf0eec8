package postgres

import (
	"context"
	"database/sql"
	"errors"

	"studyenrollment/internal/domain"
)

type accountRepository struct {
	DB *sql.DB
}

// NewAccountRepository returns the account directory backed by the accounts table.
func NewAccountRepository(db *sql.DB) domain.AccountRepository {
	return &accountRepository{DB: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `
		SELECT id, email, nickname, created_at
		FROM accounts
		WHERE id = $1
	`
	a := &domain.Account{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Email, &a.Nickname, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *accountRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
