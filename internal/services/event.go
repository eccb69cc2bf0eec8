package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studyenrollment/internal/admission"
	"studyenrollment/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	uow       domain.EventUnitOfWork
	notifier  domain.EnrollmentNotifier
	logger    *slog.Logger
	now       func() time.Time
}

// NewEventService returns the catalog service used by study managers.
func NewEventService(
	eventRepo domain.EventRepository,
	uow domain.EventUnitOfWork,
	notifier domain.EnrollmentNotifier,
	logger *slog.Logger,
) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		uow:       uow,
		notifier:  notifier,
		logger:    logger.With("component", "event_service"),
		now:       time.Now,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event) error {
	if event == nil {
		return fmt.Errorf("%w: event is required", domain.ErrInvalidInput)
	}
	if err := validateEvent(event); err != nil {
		return err
	}

	now := s.now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	s.logger.Info("event created", "event_id", event.ID, "type", event.Type, "limit", event.LimitOfEnrollments)
	return nil
}

func validateEvent(event *domain.Event) error {
	switch {
	case event.CreatedBy == "":
		return fmt.Errorf("%w: event owner is required", domain.ErrInvalidInput)
	case strings.TrimSpace(event.Title) == "":
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	case !event.Type.Valid():
		return fmt.Errorf("%w: unknown event type %q", domain.ErrInvalidInput, event.Type)
	case event.LimitOfEnrollments <= 0:
		return fmt.Errorf("%w: limit of enrollments must be positive", domain.ErrInvalidInput)
	case event.EnrollmentOpensAt != nil && !event.EnrollmentOpensAt.Before(event.EnrollmentClosesAt):
		return fmt.Errorf("%w: enrollment must open before it closes", domain.ErrInvalidInput)
	case event.EnrollmentClosesAt.After(event.StartsAt):
		return fmt.Errorf("%w: enrollment must close before the event starts", domain.ErrInvalidInput)
	case !event.StartsAt.Before(event.EndsAt):
		return fmt.Errorf("%w: event must start before it ends", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) UpdateCapacity(ctx context.Context, eventID, managerID string, limit int) (*domain.Event, []string, error) {
	if limit <= 0 {
		return nil, nil, fmt.Errorf("%w: limit of enrollments must be positive", domain.ErrInvalidInput)
	}

	var (
		updated  *domain.Event
		promoted []string
	)
	err := s.uow.WithinEvent(ctx, eventID, func(ctx context.Context, tx domain.EventTx) error {
		if !tx.Event().IsManagedBy(managerID) {
			return domain.ErrForbidden
		}
		accepted, err := tx.CountAccepted(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count accepted: %w", err)
		}
		if !admission.CanLowerLimit(limit, accepted) {
			return fmt.Errorf("%w: %d enrollments are already accepted", domain.ErrInvalidInput, accepted)
		}
		if err := tx.UpdateLimit(ctx, limit); err != nil {
			return fmt.Errorf("update limit: %w", err)
		}

		waiting, err := tx.ListWaiting(ctx, eventID)
		if err != nil {
			return fmt.Errorf("list waiting: %w", err)
		}
		updated = tx.Event()
		for _, e := range admission.PromoteOnCapacity(updated, accepted, waiting) {
			e.Accepted = true
			if err := tx.Update(ctx, e); err != nil {
				return fmt.Errorf("promote enrollment: %w", err)
			}
			promoted = append(promoted, e.AccountID)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("event capacity updated", "event_id", eventID, "limit", limit, "promoted", len(promoted))
	for _, accountID := range promoted {
		notifyBestEffort(ctx, s.notifier, s.logger, domain.Notification{
			AccountID: accountID, EventID: eventID, Outcome: domain.OutcomePromoted,
		})
	}
	if promoted == nil {
		promoted = []string{}
	}
	return updated, promoted, nil
}
