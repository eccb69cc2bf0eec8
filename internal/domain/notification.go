package domain

import "context"

// Notification tells an account what happened to its enrollment.
type Notification struct {
	AccountID string
	EventID   string
	Outcome   EnrollmentOutcome
}

// EnrollmentNotifier delivers notifications. Delivery is best-effort: errors never
// affect the enrollment that triggered them.
type EnrollmentNotifier interface {
	Notify(ctx context.Context, n Notification) error
}
