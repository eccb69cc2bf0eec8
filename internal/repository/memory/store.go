// Package memory is a single-node store for accounts, events and enrollments.
// Per-event units of work are serialized with an in-process lock.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"studyenrollment/internal/domain"
)

// Store keeps all state in maps guarded by mu. Enrollment writes made inside
// WithinEvent are staged and swapped in on commit.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]*domain.Account
	events      map[string]*domain.Event
	enrollments map[string]recordSet

	seq         atomic.Int64
	locks       *keyedLock
	lockTimeout time.Duration
}

// NewStore returns an empty Store. lockTimeout bounds how long WithinEvent waits for an
// event's scope; 0 waits until the context is done.
func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		accounts:    make(map[string]*domain.Account),
		events:      make(map[string]*domain.Event),
		enrollments: make(map[string]recordSet),
		locks:       newKeyedLock(),
		lockTimeout: lockTimeout,
	}
}

// PutAccount adds or replaces an account in the directory.
func (s *Store) PutAccount(a *domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.accounts[a.ID] = &cp
}

// Accounts returns the account directory.
func (s *Store) Accounts() domain.AccountRepository { return accountRepository{s} }

// Events returns the event catalog.
func (s *Store) Events() domain.EventRepository { return eventRepository{s} }

// Enrollments returns a repository over committed enrollment state. Use WithinEvent for
// read-decide-write sequences.
func (s *Store) Enrollments() domain.EnrollmentRepository { return committedRepository{s} }

func (s *Store) nextSeq() int64 { return s.seq.Add(1) }

type accountRepository struct{ s *Store }

func (r accountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (r accountRepository) Exists(_ context.Context, id string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.accounts[id]
	return ok, nil
}

type eventRepository struct{ s *Store }

func (r eventRepository) Create(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	cp := *e
	r.s.events[e.ID] = &cp
	return nil
}

func (r eventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	cp := *e
	return &cp, nil
}
