package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"studyenrollment/internal/domain"
	"studyenrollment/internal/repository/memory"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tickingClock returns a strictly increasing time on every call.
type tickingClock struct {
	mu  sync.Mutex
	cur time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

// recordingNotifier keeps every notification it receives.
type recordingNotifier struct {
	mu    sync.Mutex
	got   []domain.Notification
	err   error
	calls int
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, n)
	return nil
}

func (r *recordingNotifier) notifications() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.got...)
}

type harness struct {
	store    *memory.Store
	clock    *tickingClock
	notifier *recordingNotifier
	svc      *enrollmentService
	events   *eventService
}

func newHarness(t *testing.T, accounts ...string) *harness {
	t.Helper()
	store := memory.NewStore(time.Second)
	for _, id := range append([]string{"manager"}, accounts...) {
		store.PutAccount(domain.NewAccount(id, id+"@example.com", id, baseTime))
	}
	clock := &tickingClock{cur: baseTime}
	notifier := &recordingNotifier{}

	svc := NewEnrollmentService(store.Accounts(), store.Events(), store.Enrollments(), store, notifier, discardLogger()).(*enrollmentService)
	svc.now = clock.Now
	events := NewEventService(store.Events(), store, notifier, discardLogger()).(*eventService)
	events.now = clock.Now

	return &harness{store: store, clock: clock, notifier: notifier, svc: svc, events: events}
}

// createEvent adds an event whose enrollment window is open for the next hour of test time.
func (h *harness) createEvent(t *testing.T, typ domain.EventType, limit int) *domain.Event {
	t.Helper()
	ev := domain.NewEvent("study-1", "Go study", typ, limit,
		baseTime.Add(time.Hour), baseTime.Add(2*time.Hour), baseTime.Add(3*time.Hour), "manager")
	require.NoError(t, h.events.CreateEvent(context.Background(), ev))
	return ev
}

func (h *harness) enrollment(t *testing.T, eventID, accountID string) *domain.Enrollment {
	t.Helper()
	e, err := h.store.Enrollments().Get(context.Background(), eventID, accountID)
	require.NoError(t, err)
	return e
}

func (h *harness) acceptedCount(t *testing.T, eventID string) int {
	t.Helper()
	n, err := h.store.Enrollments().CountAccepted(context.Background(), eventID)
	require.NoError(t, err)
	return n
}

func (h *harness) total(t *testing.T, eventID string) int {
	t.Helper()
	n, err := h.store.Enrollments().CountByEvent(context.Background(), eventID)
	require.NoError(t, err)
	return n
}

var errMailDown = errors.New("mail provider unavailable")
