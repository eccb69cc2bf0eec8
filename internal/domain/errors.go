package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is the generic not-found error. Entity-specific variants wrap it.
var ErrNotFound = errors.New("not found")

// Sentinel errors for event, enrollment and account lookups.
var (
	ErrEventNotFound      = fmt.Errorf("event %w", ErrNotFound)
	ErrEnrollmentNotFound = fmt.Errorf("enrollment %w", ErrNotFound)
	ErrAccountNotFound    = fmt.Errorf("account %w", ErrNotFound)
)

// ErrAlreadyEnrolled is returned when the account already holds an enrollment for the event.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ErrDuplicateEnrollment is returned by a store when a record for the same (event, account) exists.
// It wraps ErrAlreadyEnrolled so callers only need to match one of them.
var ErrDuplicateEnrollment = fmt.Errorf("duplicate enrollment: %w", ErrAlreadyEnrolled)

// ErrWindowClosed is returned when the request falls outside the event's enrollment window.
var ErrWindowClosed = errors.New("enrollment window closed")

// ErrBusy is returned when the event's exclusion scope could not be acquired in time.
// Nothing was mutated; the request is safe to retry.
var ErrBusy = errors.New("event busy, retry later")

// ErrEventFull is returned when a manual acceptance would exceed the event's limit.
var ErrEventFull = errors.New("event is full")

// ErrNotConfirmative is returned when a manager tries to accept an enrollment on a first-come event.
var ErrNotConfirmative = errors.New("event does not require confirmation")

// ErrForbidden is returned when the caller is not allowed to manage the event.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidInput is returned when the request is invalid (e.g. a non-positive limit).
var ErrInvalidInput = errors.New("invalid input")
