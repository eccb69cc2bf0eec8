package domain

import (
	"context"
	"time"
)

// Account is a member of the platform as seen by the enrollment core.
// swagger:model Account
type Account struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccount returns a new Account with the given fields.
func NewAccount(id, email, nickname string, createdAt time.Time) *Account {
	return &Account{
		ID:        id,
		Email:     email,
		Nickname:  nickname,
		CreatedAt: createdAt,
	}
}

// AccountRepository is the account directory consulted to identify the acting user.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// TokenIssuer issues tokens (e.g. JWT) for an account.
type TokenIssuer interface {
	Issue(accountID, email string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated account ID.
type TokenVerifier interface {
	Verify(token string) (accountID string, err error)
}
