package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"studyenrollment/internal/delivery/http/helpers"
	"studyenrollment/internal/delivery/http/middleware"
	"studyenrollment/internal/domain"
)

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	StudyID            string     `json:"study_id" validate:"required,max=64"`
	Title              string     `json:"title" validate:"required,max=200"`
	Description        string     `json:"description" validate:"max=5000"`
	Type               string     `json:"type" validate:"required,oneof=FCFS CONFIRMATIVE"`
	LimitOfEnrollments int        `json:"limit_of_enrollments" validate:"required,gt=0"`
	EnrollmentOpensAt  *time.Time `json:"enrollment_opens_at"`
	EnrollmentClosesAt time.Time  `json:"enrollment_closes_at" validate:"required"`
	StartsAt           time.Time  `json:"starts_at" validate:"required"`
	EndsAt             time.Time  `json:"ends_at" validate:"required"`
}

// Validate implements helpers.Validator for the ordering rules between the timestamps.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.EnrollmentOpensAt != nil && !c.EnrollmentOpensAt.Before(c.EnrollmentClosesAt) {
		errs = append(errs, "enrollment_opens_at must be before enrollment_closes_at")
	}
	if c.EnrollmentClosesAt.After(c.StartsAt) {
		errs = append(errs, "enrollment_closes_at must not be after starts_at")
	}
	if !c.StartsAt.Before(c.EndsAt) {
		errs = append(errs, "starts_at must be before ends_at")
	}
	return errs
}

// EventSuccessResponse is the success response envelope for endpoints returning one event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// UpdateCapacityRequest is the request body for PATCH /events/{eventID}/capacity.
type UpdateCapacityRequest struct {
	LimitOfEnrollments int `json:"limit_of_enrollments" validate:"required,gt=0"`
}

// UpdateCapacityResponse is the data payload for PATCH /events/{eventID}/capacity (200).
type UpdateCapacityResponse struct {
	Event    *domain.Event `json:"event"`
	Promoted []string      `json:"promoted"`
}

// UpdateCapacitySuccessResponse is the success response envelope for PATCH /events/{eventID}/capacity (200).
type UpdateCapacitySuccessResponse struct {
	Data  UpdateCapacityResponse `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a study event. The authenticated account becomes the event manager.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := domain.NewEvent(req.StudyID, req.Title, domain.EventType(req.Type), req.LimitOfEnrollments,
		req.EnrollmentClosesAt, req.StartsAt, req.EndsAt, accountID)
	event.Description = req.Description
	event.EnrollmentOpensAt = req.EnrollmentOpensAt
	if err := c.Service.CreateEvent(r.Context(), event); err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: event_not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateCapacity godoc
// @Summary Change an event's limit of enrollments
// @Description Only the event manager may change the limit. The new limit cannot be lower than the number of accepted enrollments. Raising the limit of a first-come event promotes waiting enrollments in arrival order.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateCapacityRequest true "New limit"
// @Success 200 {object} controllers.UpdateCapacitySuccessResponse "data contains the event and promoted account IDs"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: event_not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: busy"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/capacity [patch]
func (c *EventController) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDFromPath(w, r)
	if !ok {
		return
	}
	accountID, ok := middleware.AccountIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateCapacityRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, promoted, err := c.Service.UpdateCapacity(r.Context(), eventID, accountID, req.LimitOfEnrollments)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateCapacityResponse{Event: event, Promoted: promoted})
}

// eventIDFromPath reads and validates the eventID path value. On failure it writes a 400 and returns false.
func eventIDFromPath(w http.ResponseWriter, r *http.Request) (string, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return "", false
	}
	if _, err := uuid.Parse(eventID); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "eventID must be a UUID")
		return "", false
	}
	return eventID, true
}
