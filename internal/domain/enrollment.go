package domain

import (
	"context"
	"time"
)

// Enrollment is an account's request to attend an event.
// At most one exists per (EventID, AccountID).
// swagger:model Enrollment
type Enrollment struct {
	EventID    string    `json:"event_id"`
	AccountID  string    `json:"account_id"`
	Accepted   bool      `json:"accepted"`
	EnrolledAt time.Time `json:"enrolled_at"`
	// Seq is the store's insertion sequence; it orders records with equal EnrolledAt.
	Seq int64 `json:"-"`
}

// NewEnrollment creates a new Enrollment. Seq is set by the repository on create.
func NewEnrollment(eventID, accountID string, accepted bool, enrolledAt time.Time) *Enrollment {
	return &Enrollment{
		EventID:    eventID,
		AccountID:  accountID,
		Accepted:   accepted,
		EnrolledAt: enrolledAt,
	}
}

// EnrollmentRepository stores enrollment records.
// Implementations returned by EventUnitOfWork are scoped to a single event's unit of work.
type EnrollmentRepository interface {
	Get(ctx context.Context, eventID, accountID string) (*Enrollment, error)
	Exists(ctx context.Context, eventID, accountID string) (bool, error)
	// Create returns ErrDuplicateEnrollment if the pair already has a record.
	Create(ctx context.Context, e *Enrollment) error
	// Delete returns ErrEnrollmentNotFound if the pair has no record.
	Delete(ctx context.Context, eventID, accountID string) error
	// ListWaiting returns the unaccepted records ordered by EnrolledAt, then Seq.
	ListWaiting(ctx context.Context, eventID string) ([]*Enrollment, error)
	CountAccepted(ctx context.Context, eventID string) (int, error)
	Update(ctx context.Context, e *Enrollment) error
	ListByEvent(ctx context.Context, eventID string, params PaginationParams) ([]*Enrollment, error)
	CountByEvent(ctx context.Context, eventID string) (int, error)
}

// EventTx is the view of one event available inside its unit of work.
type EventTx interface {
	EnrollmentRepository
	// Event returns the event as read under the exclusion scope.
	Event() *Event
	// UpdateLimit changes the event's limit of enrollments.
	UpdateLimit(ctx context.Context, limit int) error
}

// EventUnitOfWork serializes all reads and writes that touch one event's enrollments.
type EventUnitOfWork interface {
	// WithinEvent runs fn while holding eventID's exclusion scope. Writes made through tx
	// commit when fn returns nil and are discarded otherwise. It returns ErrEventNotFound for
	// unknown events and ErrBusy when the scope cannot be acquired in time.
	WithinEvent(ctx context.Context, eventID string, fn func(ctx context.Context, tx EventTx) error) error
}

// EnrollmentOutcome is the admission result reported to callers and notified to accounts.
type EnrollmentOutcome string

const (
	OutcomeAccepted  EnrollmentOutcome = "accepted"
	OutcomeWaiting   EnrollmentOutcome = "waiting"
	OutcomeCancelled EnrollmentOutcome = "cancelled"
	OutcomePromoted  EnrollmentOutcome = "promoted"
	OutcomeRejected  EnrollmentOutcome = "rejected"
)

// EnrollResult is returned by EnrollmentService.Enroll.
type EnrollResult struct {
	Outcome    EnrollmentOutcome `json:"outcome"`
	Enrollment *Enrollment       `json:"enrollment"`
}

// DisenrollResult is returned when a record is removed. Promoted is the account
// that took over the freed slot, if any.
type DisenrollResult struct {
	Promoted *string `json:"promoted"`
}

// EnrollmentService is the only entry point callers use to change enrollments.
type EnrollmentService interface {
	Enroll(ctx context.Context, eventID, accountID string) (*EnrollResult, error)
	Disenroll(ctx context.Context, eventID, accountID string) (*DisenrollResult, error)
	AcceptEnrollment(ctx context.Context, eventID, accountID, managerID string) (*Enrollment, error)
	RejectEnrollment(ctx context.Context, eventID, accountID, managerID string) (*DisenrollResult, error)
	GetEnrollment(ctx context.Context, eventID, accountID string) (*Enrollment, error)
	ListEnrollments(ctx context.Context, eventID string, params PaginationParams) ([]*Enrollment, int, error)
}
