package memory

import (
	"context"
	"fmt"
	"time"

	"studyenrollment/internal/domain"
)

// WithinEvent implements domain.EventUnitOfWork. fn works on a private copy of the
// event's records; the copy replaces committed state only when fn returns nil.
func (s *Store) WithinEvent(ctx context.Context, eventID string, fn func(ctx context.Context, tx domain.EventTx) error) error {
	release, err := s.locks.acquire(ctx, eventID, s.lockTimeout)
	if err != nil {
		return err
	}
	defer release()

	s.mu.RLock()
	ev, ok := s.events[eventID]
	if !ok {
		s.mu.RUnlock()
		return domain.ErrEventNotFound
	}
	evCopy := *ev
	tx := &eventTx{
		store:   s,
		event:   &evCopy,
		records: s.enrollments[eventID].clone(),
	}
	s.mu.RUnlock()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.enrollments[eventID] = tx.records
	if tx.limitChanged {
		cur := s.events[eventID]
		cur.LimitOfEnrollments = tx.event.LimitOfEnrollments
		cur.UpdatedAt = tx.event.UpdatedAt
	}
	return nil
}

// eventTx stages changes to a single event.
type eventTx struct {
	store        *Store
	event        *domain.Event
	records      recordSet
	limitChanged bool
}

func (tx *eventTx) Event() *domain.Event {
	cp := *tx.event
	return &cp
}

func (tx *eventTx) UpdateLimit(_ context.Context, limit int) error {
	tx.event.LimitOfEnrollments = limit
	tx.event.UpdatedAt = time.Now()
	tx.limitChanged = true
	return nil
}

func (tx *eventTx) check(eventID string) error {
	if eventID != tx.event.ID {
		return fmt.Errorf("event %s is outside the unit of work for %s", eventID, tx.event.ID)
	}
	return nil
}

func (tx *eventTx) Get(_ context.Context, eventID, accountID string) (*domain.Enrollment, error) {
	if err := tx.check(eventID); err != nil {
		return nil, err
	}
	return tx.records.get(accountID)
}

func (tx *eventTx) Exists(_ context.Context, eventID, accountID string) (bool, error) {
	if err := tx.check(eventID); err != nil {
		return false, err
	}
	_, ok := tx.records[accountID]
	return ok, nil
}

func (tx *eventTx) Create(_ context.Context, e *domain.Enrollment) error {
	if err := tx.check(e.EventID); err != nil {
		return err
	}
	if _, dup := tx.records[e.AccountID]; dup {
		return domain.ErrDuplicateEnrollment
	}
	e.Seq = tx.store.nextSeq()
	cp := *e
	tx.records[e.AccountID] = &cp
	return nil
}

func (tx *eventTx) Delete(_ context.Context, eventID, accountID string) error {
	if err := tx.check(eventID); err != nil {
		return err
	}
	if _, ok := tx.records[accountID]; !ok {
		return domain.ErrEnrollmentNotFound
	}
	delete(tx.records, accountID)
	return nil
}

func (tx *eventTx) ListWaiting(_ context.Context, eventID string) ([]*domain.Enrollment, error) {
	if err := tx.check(eventID); err != nil {
		return nil, err
	}
	return tx.records.waiting(), nil
}

func (tx *eventTx) CountAccepted(_ context.Context, eventID string) (int, error) {
	if err := tx.check(eventID); err != nil {
		return 0, err
	}
	return tx.records.countAccepted(), nil
}

func (tx *eventTx) Update(_ context.Context, e *domain.Enrollment) error {
	if err := tx.check(e.EventID); err != nil {
		return err
	}
	cur, ok := tx.records[e.AccountID]
	if !ok {
		return domain.ErrEnrollmentNotFound
	}
	cur.Accepted = e.Accepted
	return nil
}

func (tx *eventTx) ListByEvent(_ context.Context, eventID string, params domain.PaginationParams) ([]*domain.Enrollment, error) {
	if err := tx.check(eventID); err != nil {
		return nil, err
	}
	return tx.records.page(params), nil
}

func (tx *eventTx) CountByEvent(_ context.Context, eventID string) (int, error) {
	if err := tx.check(eventID); err != nil {
		return 0, err
	}
	return len(tx.records), nil
}
