package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"studyenrollment/internal/admission"
	"studyenrollment/internal/domain"
)

type enrollmentService struct {
	accountRepo    domain.AccountRepository
	eventRepo      domain.EventRepository
	enrollmentRepo domain.EnrollmentRepository
	uow            domain.EventUnitOfWork
	notifier       domain.EnrollmentNotifier
	logger         *slog.Logger
	now            func() time.Time
}

// NewEnrollmentService returns the EnrollmentService. Every state change runs inside uow so
// that enrollments for one event are decided one at a time; notifications go out after the
// unit of work has committed.
func NewEnrollmentService(
	accountRepo domain.AccountRepository,
	eventRepo domain.EventRepository,
	enrollmentRepo domain.EnrollmentRepository,
	uow domain.EventUnitOfWork,
	notifier domain.EnrollmentNotifier,
	logger *slog.Logger,
) domain.EnrollmentService {
	return &enrollmentService{
		accountRepo:    accountRepo,
		eventRepo:      eventRepo,
		enrollmentRepo: enrollmentRepo,
		uow:            uow,
		notifier:       notifier,
		logger:         logger.With("component", "enrollment_service"),
		now:            time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, eventID, accountID string) (*domain.EnrollResult, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !event.IsEnrollableAt(now) {
		return nil, domain.ErrWindowClosed
	}

	var result *domain.EnrollResult
	err = s.uow.WithinEvent(ctx, eventID, func(ctx context.Context, tx domain.EventTx) error {
		exists, err := tx.Exists(ctx, eventID, accountID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if exists {
			return domain.ErrAlreadyEnrolled
		}
		accepted, err := tx.CountAccepted(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count accepted: %w", err)
		}

		enrollment := domain.NewEnrollment(eventID, accountID, admission.Admit(tx.Event(), accepted), now)
		if err := tx.Create(ctx, enrollment); err != nil {
			if errors.Is(err, domain.ErrAlreadyEnrolled) {
				return domain.ErrAlreadyEnrolled
			}
			return fmt.Errorf("create enrollment: %w", err)
		}

		outcome := domain.OutcomeWaiting
		if enrollment.Accepted {
			outcome = domain.OutcomeAccepted
		}
		result = &domain.EnrollResult{Outcome: outcome, Enrollment: enrollment}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{AccountID: accountID, EventID: eventID, Outcome: result.Outcome})
	return result, nil
}

func (s *enrollmentService) Disenroll(ctx context.Context, eventID, accountID string) (*domain.DisenrollResult, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.HasEndedAt(s.now()) {
		return nil, domain.ErrWindowClosed
	}

	var promoted *domain.Enrollment
	err = s.uow.WithinEvent(ctx, eventID, func(ctx context.Context, tx domain.EventTx) error {
		var err error
		promoted, err = s.removeAndPromote(ctx, tx, eventID, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{AccountID: accountID, EventID: eventID, Outcome: domain.OutcomeCancelled})
	return s.disenrollResult(ctx, eventID, promoted), nil
}

func (s *enrollmentService) AcceptEnrollment(ctx context.Context, eventID, accountID, managerID string) (*domain.Enrollment, error) {
	var (
		accepted *domain.Enrollment
		changed  bool
	)
	err := s.uow.WithinEvent(ctx, eventID, func(ctx context.Context, tx domain.EventTx) error {
		event := tx.Event()
		if !event.IsManagedBy(managerID) {
			return domain.ErrForbidden
		}
		enrollment, err := tx.Get(ctx, eventID, accountID)
		if err != nil {
			return err
		}
		count, err := tx.CountAccepted(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count accepted: %w", err)
		}
		if err := admission.CanConfirm(event, enrollment, count); err != nil {
			return err
		}
		accepted = enrollment
		if enrollment.Accepted {
			return nil
		}
		enrollment.Accepted = true
		if err := tx.Update(ctx, enrollment); err != nil {
			return fmt.Errorf("accept enrollment: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		s.notify(ctx, domain.Notification{AccountID: accountID, EventID: eventID, Outcome: domain.OutcomeAccepted})
	}
	return accepted, nil
}

func (s *enrollmentService) RejectEnrollment(ctx context.Context, eventID, accountID, managerID string) (*domain.DisenrollResult, error) {
	var promoted *domain.Enrollment
	err := s.uow.WithinEvent(ctx, eventID, func(ctx context.Context, tx domain.EventTx) error {
		if !tx.Event().IsManagedBy(managerID) {
			return domain.ErrForbidden
		}
		var err error
		promoted, err = s.removeAndPromote(ctx, tx, eventID, accountID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, domain.Notification{AccountID: accountID, EventID: eventID, Outcome: domain.OutcomeRejected})
	return s.disenrollResult(ctx, eventID, promoted), nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, eventID, accountID string) (*domain.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.Get(ctx, eventID, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	return enrollment, nil
}

func (s *enrollmentService) ListEnrollments(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Enrollment, int, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, 0, err
	}
	total, err := s.enrollmentRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	list, err := s.enrollmentRepo.ListByEvent(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}
	if list == nil {
		list = []*domain.Enrollment{}
	}
	return list, total, nil
}

// removeAndPromote deletes the record and, if it held a first-come slot, hands the slot to
// the earliest waiter. It must run inside the event's unit of work.
func (s *enrollmentService) removeAndPromote(ctx context.Context, tx domain.EventTx, eventID, accountID string) (*domain.Enrollment, error) {
	removed, err := tx.Get(ctx, eventID, accountID)
	if err != nil {
		return nil, err
	}
	if err := tx.Delete(ctx, eventID, accountID); err != nil {
		return nil, fmt.Errorf("delete enrollment: %w", err)
	}
	if !removed.Accepted {
		return nil, nil
	}

	waiting, err := tx.ListWaiting(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list waiting: %w", err)
	}
	next := admission.PromoteOnCancel(tx.Event(), removed, waiting)
	if next == nil {
		return nil, nil
	}
	next.Accepted = true
	if err := tx.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("promote enrollment: %w", err)
	}
	return next, nil
}

func (s *enrollmentService) disenrollResult(ctx context.Context, eventID string, promoted *domain.Enrollment) *domain.DisenrollResult {
	if promoted == nil {
		return &domain.DisenrollResult{}
	}
	s.notify(ctx, domain.Notification{AccountID: promoted.AccountID, EventID: eventID, Outcome: domain.OutcomePromoted})
	id := promoted.AccountID
	return &domain.DisenrollResult{Promoted: &id}
}

func (s *enrollmentService) requireAccount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return domain.ErrAccountNotFound
	}
	ok, err := s.accountRepo.Exists(ctx, accountID)
	if err != nil {
		return fmt.Errorf("check account: %w", err)
	}
	if !ok {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (s *enrollmentService) getEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *enrollmentService) notify(ctx context.Context, n domain.Notification) {
	notifyBestEffort(ctx, s.notifier, s.logger, n)
}
