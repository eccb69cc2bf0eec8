package domain

import (
	"context"
	"time"
)

// EventType decides how enrollments are admitted.
type EventType string

const (
	// EventTypeFCFS admits enrollments in arrival order until the limit is reached.
	EventTypeFCFS EventType = "FCFS"
	// EventTypeConfirmative leaves every enrollment waiting until a manager accepts it.
	EventTypeConfirmative EventType = "CONFIRMATIVE"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventTypeFCFS || t == EventTypeConfirmative
}

// Event represents a study meetup with a limited number of slots.
// swagger:model Event
type Event struct {
	ID                 string     `json:"id"`
	StudyID            string     `json:"study_id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Type               EventType  `json:"type"`
	LimitOfEnrollments int        `json:"limit_of_enrollments"`
	EnrollmentOpensAt  *time.Time `json:"enrollment_opens_at,omitempty"`
	EnrollmentClosesAt time.Time  `json:"enrollment_closes_at"`
	StartsAt           time.Time  `json:"starts_at"`
	EndsAt             time.Time  `json:"ends_at"`
	CreatedBy          string     `json:"created_by"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID is typically set by the repository on create.
func NewEvent(studyID, title string, eventType EventType, limit int, closesAt, startsAt, endsAt time.Time, createdBy string) *Event {
	return &Event{
		StudyID:            studyID,
		Title:              title,
		Type:               eventType,
		LimitOfEnrollments: limit,
		EnrollmentClosesAt: closesAt,
		StartsAt:           startsAt,
		EndsAt:             endsAt,
		CreatedBy:          createdBy,
	}
}

// IsEnrollableAt reports whether t lies inside the enrollment window.
func (e *Event) IsEnrollableAt(t time.Time) bool {
	if e.EnrollmentOpensAt != nil && t.Before(*e.EnrollmentOpensAt) {
		return false
	}
	return t.Before(e.EnrollmentClosesAt)
}

// HasEndedAt reports whether the meetup is over at t.
func (e *Event) HasEndedAt(t time.Time) bool {
	return !t.Before(e.EndsAt)
}

// IsManagedBy reports whether accountID may manage the event's enrollments.
func (e *Event) IsManagedBy(accountID string) bool {
	return accountID != "" && e.CreatedBy == accountID
}

// EventRepository is the event catalog. The enrollment core only reads from it.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
}

// EventService defines catalog operations used by study managers.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	// UpdateCapacity changes the limit and returns the ids of accounts promoted as a result.
	UpdateCapacity(ctx context.Context, eventID, managerID string, limit int) (*Event, []string, error)
}
