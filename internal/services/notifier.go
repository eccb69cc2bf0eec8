package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"studyenrollment/internal/domain"
)

// ErrNotifierClosed is returned by AsyncNotifier.Notify after Close.
var ErrNotifierClosed = errors.New("notifier closed")

// ErrNotifyQueueFull is returned when the notification queue has no room.
var ErrNotifyQueueFull = errors.New("notification queue full")

// notifyBestEffort sends n after the enrollment change has committed. Failures are only
// logged and the caller's cancellation does not reach the notifier.
func notifyBestEffort(ctx context.Context, notifier domain.EnrollmentNotifier, logger *slog.Logger, n domain.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(context.WithoutCancel(ctx), n); err != nil {
		logger.Warn("notification failed",
			"event_id", n.EventID, "account_id", n.AccountID, "outcome", n.Outcome, "err", err)
	}
}

// AsyncNotifier queues notifications and delivers them from a single worker goroutine,
// so a slow mail provider never holds up an enrollment request.
type AsyncNotifier struct {
	inner  domain.EnrollmentNotifier
	logger *slog.Logger
	queue  chan queuedNotification

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

type queuedNotification struct {
	ctx context.Context
	n   domain.Notification
}

// NewAsyncNotifier starts the worker. buffer is the queue length; values below 1 use 1.
func NewAsyncNotifier(inner domain.EnrollmentNotifier, logger *slog.Logger, buffer int) *AsyncNotifier {
	if buffer < 1 {
		buffer = 1
	}
	a := &AsyncNotifier{
		inner:  inner,
		logger: logger.With("component", "async_notifier"),
		queue:  make(chan queuedNotification, buffer),
		done:   make(chan struct{}),
	}
	go a.run()
	return a
}

// Notify enqueues n without blocking.
func (a *AsyncNotifier) Notify(ctx context.Context, n domain.Notification) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrNotifierClosed
	}
	select {
	case a.queue <- queuedNotification{ctx: ctx, n: n}:
		return nil
	default:
		return fmt.Errorf("%w: dropped %s for account %s", ErrNotifyQueueFull, n.Outcome, n.AccountID)
	}
}

func (a *AsyncNotifier) run() {
	defer close(a.done)
	for q := range a.queue {
		if err := a.inner.Notify(q.ctx, q.n); err != nil {
			a.logger.Warn("deliver notification",
				"event_id", q.n.EventID, "account_id", q.n.AccountID, "outcome", q.n.Outcome, "err", err)
		}
	}
}

// Close stops accepting notifications and waits until queued ones are delivered or ctx ends.
func (a *AsyncNotifier) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type emailNotifier struct {
	accountRepo  domain.AccountRepository
	eventRepo    domain.EventRepository
	emailService domain.EmailService
}

// NewEmailNotifier returns an EnrollmentNotifier that e-mails the account about its enrollment.
func NewEmailNotifier(accountRepo domain.AccountRepository, eventRepo domain.EventRepository, emailService domain.EmailService) domain.EnrollmentNotifier {
	return &emailNotifier{accountRepo: accountRepo, eventRepo: eventRepo, emailService: emailService}
}

func (n *emailNotifier) Notify(ctx context.Context, note domain.Notification) error {
	account, err := n.accountRepo.GetByID(ctx, note.AccountID)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}
	event, err := n.eventRepo.GetByID(ctx, note.EventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	return n.emailService.SendEnrollmentNotice(ctx, &domain.EnrollmentEmailData{
		Email:      account.Email,
		Nickname:   account.Nickname,
		EventID:    event.ID,
		EventTitle: event.Title,
		Outcome:    note.Outcome,
	})
}
