package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"studyenrollment/internal/domain"
)

// SQLSTATE codes the repositories care about.
const (
	uniqueViolationCode  = "23505"
	lockNotAvailableCode = "55P03"
	queryCanceledCode    = "57014"
)

func pqCode(err error) string {
	var perr *pq.Error
	if errors.As(err, &perr) {
		return string(perr.Code)
	}
	return ""
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	return pqCode(err) == uniqueViolationCode
}

// mapLockError turns a failed attempt to lock an event row into ErrBusy when the
// failure came from lock_timeout or from the caller's context ending.
func mapLockError(ctx context.Context, err error) error {
	switch code := pqCode(err); {
	case code == lockNotAvailableCode:
		return fmt.Errorf("%w: %v", domain.ErrBusy, err)
	case code == queryCanceledCode, ctx.Err() != nil:
		return fmt.Errorf("%w: %v", domain.ErrBusy, err)
	}
	return fmt.Errorf("lock event: %w", err)
}
