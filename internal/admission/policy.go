// Package admission decides who occupies an event's limited slots.
//
// Every function here is pure: callers read the current state inside the event's
// unit of work, ask for a decision, and write the result back before releasing it.
package admission

import (
	"studyenrollment/internal/domain"
)

// Admit reports whether a new enrollment is accepted immediately.
// Confirmative events never admit on request; first-come events admit while a slot is free.
func Admit(event *domain.Event, acceptedCount int) bool {
	if event.Type != domain.EventTypeFCFS {
		return false
	}
	return acceptedCount < event.LimitOfEnrollments
}

// PromoteOnCancel returns the waiter that takes over the slot freed by removing cancelled,
// or nil when nobody is promoted. At most one record is promoted per removal.
func PromoteOnCancel(event *domain.Event, cancelled *domain.Enrollment, waiting []*domain.Enrollment) *domain.Enrollment {
	if event.Type != domain.EventTypeFCFS || cancelled == nil || !cancelled.Accepted {
		return nil
	}
	var first *domain.Enrollment
	for _, w := range waiting {
		if w.Accepted {
			continue
		}
		if first == nil || Less(w, first) {
			first = w
		}
	}
	return first
}

// PromoteOnCapacity returns the waiters, in arrival order, that fill the slots opened
// when a first-come event's limit is raised above acceptedCount.
func PromoteOnCapacity(event *domain.Event, acceptedCount int, waiting []*domain.Enrollment) []*domain.Enrollment {
	if event.Type != domain.EventTypeFCFS {
		return nil
	}
	free := event.LimitOfEnrollments - acceptedCount
	if free <= 0 {
		return nil
	}
	ordered := make([]*domain.Enrollment, 0, len(waiting))
	for _, w := range waiting {
		if !w.Accepted {
			ordered = append(ordered, w)
		}
	}
	SortByArrival(ordered)
	if len(ordered) > free {
		ordered = ordered[:free]
	}
	return ordered
}

// CanConfirm checks a manager's manual acceptance of a waiting enrollment.
// Manual acceptance is capacity-gated like first-come admission so the limit holds for every event type.
func CanConfirm(event *domain.Event, enrollment *domain.Enrollment, acceptedCount int) error {
	if event.Type != domain.EventTypeConfirmative {
		return domain.ErrNotConfirmative
	}
	if enrollment.Accepted {
		return nil
	}
	if acceptedCount >= event.LimitOfEnrollments {
		return domain.ErrEventFull
	}
	return nil
}

// CanLowerLimit checks that a new limit keeps every accepted enrollment in a slot.
func CanLowerLimit(limit, acceptedCount int) bool {
	return limit > 0 && limit >= acceptedCount
}
