package memory

import (
	"context"

	"studyenrollment/internal/domain"
)

// committedRepository reads and writes committed state directly. Each call is atomic
// on its own; callers needing a consistent read-decide-write use Store.WithinEvent.
type committedRepository struct{ s *Store }

func (r committedRepository) Get(_ context.Context, eventID, accountID string) (*domain.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.enrollments[eventID].get(accountID)
}

func (r committedRepository) Exists(_ context.Context, eventID, accountID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.enrollments[eventID][accountID]
	return ok, nil
}

func (r committedRepository) Create(_ context.Context, e *domain.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set, ok := r.s.enrollments[e.EventID]
	if !ok {
		set = make(recordSet)
		r.s.enrollments[e.EventID] = set
	}
	if _, dup := set[e.AccountID]; dup {
		return domain.ErrDuplicateEnrollment
	}
	e.Seq = r.s.nextSeq()
	cp := *e
	set[e.AccountID] = &cp
	return nil
}

func (r committedRepository) Delete(_ context.Context, eventID, accountID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	set := r.s.enrollments[eventID]
	if _, ok := set[accountID]; !ok {
		return domain.ErrEnrollmentNotFound
	}
	delete(set, accountID)
	return nil
}

func (r committedRepository) ListWaiting(_ context.Context, eventID string) ([]*domain.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.enrollments[eventID].waiting(), nil
}

func (r committedRepository) CountAccepted(_ context.Context, eventID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.enrollments[eventID].countAccepted(), nil
}

func (r committedRepository) Update(_ context.Context, e *domain.Enrollment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.enrollments[e.EventID][e.AccountID]
	if !ok {
		return domain.ErrEnrollmentNotFound
	}
	cur.Accepted = e.Accepted
	return nil
}

func (r committedRepository) ListByEvent(_ context.Context, eventID string, params domain.PaginationParams) ([]*domain.Enrollment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.enrollments[eventID].page(params), nil
}

func (r committedRepository) CountByEvent(_ context.Context, eventID string) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.enrollments[eventID]), nil
}
