package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studyenrollment/internal/domain"
)

// keyedLock hands out one exclusive slot per key. Slots are created on demand and
// dropped once nobody holds or waits for them, so idle events cost nothing.
type keyedLock struct {
	mu    sync.Mutex
	slots map[string]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func newKeyedLock() *keyedLock {
	return &keyedLock{slots: make(map[string]*lockSlot)}
}

// acquire blocks until key's slot is free, ctx is done or timeout elapses (0 waits for ctx only).
func (l *keyedLock) acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	var expired <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		expired = t.C
	}

	select {
	case s.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-s.ch
				l.unref(key, s)
			})
		}, nil
	case <-ctx.Done():
		l.unref(key, s)
		return nil, fmt.Errorf("%w: %v", domain.ErrBusy, ctx.Err())
	case <-expired:
		l.unref(key, s)
		return nil, fmt.Errorf("%w: lock wait exceeded %s", domain.ErrBusy, timeout)
	}
}

func (l *keyedLock) unref(key string, s *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

// size returns the number of live slots.
func (l *keyedLock) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
