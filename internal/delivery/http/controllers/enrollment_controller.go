package controllers

import (
	"log/slog"
	"net/http"

	"studyenrollment/internal/delivery/http/helpers"
	"studyenrollment/internal/delivery/http/middleware"
	"studyenrollment/internal/domain"
)

// EnrollSuccessResponse is the success response envelope for POST /events/{eventID}/enroll (201).
type EnrollSuccessResponse struct {
	Data  *domain.EnrollResult `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// DisenrollSuccessResponse is the success response envelope for endpoints that remove an enrollment (200).
// data.promoted is the account that took over the freed slot, or null.
type DisenrollSuccessResponse struct {
	Data  *domain.DisenrollResult `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

// EnrollmentSuccessResponse is the success response envelope for endpoints returning one enrollment (200).
type EnrollmentSuccessResponse struct {
	Data  *domain.Enrollment `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// ListEnrollmentsResponse is the data payload for GET /events/{eventID}/enrollments (200).
type ListEnrollmentsResponse struct {
	Items      []*domain.Enrollment   `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEnrollmentsSuccessResponse is the success response envelope for GET /events/{eventID}/enrollments (200).
type ListEnrollmentsSuccessResponse struct {
	Data  ListEnrollmentsResponse `json:"data"`
	Error *helpers.APIError       `json:"error"`
}

type EnrollmentController struct {
	Logger  *slog.Logger
	Service domain.EnrollmentService
}

func NewEnrollmentController(logger *slog.Logger, svc domain.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		Logger:  logger,
		Service: svc,
	}
}

// Enroll godoc
// @Summary Enroll in an event
// @Description Enrolls the authenticated account. First-come events accept while slots are free and queue the rest; confirmative events always queue until a manager accepts.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 201 {object} controllers.EnrollSuccessResponse "data.outcome is accepted or waiting"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: event_not_found, account_not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: already_enrolled, window_closed"
// @Failure 503 {object} helpers.APIResponse "error.code: busy"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/enroll [post]
func (c *EnrollmentController) Enroll(w http.ResponseWriter, r *http.Request) {
	eventID, accountID, ok := c.eventAndCaller(w, r)
	if !ok {
		return
	}
	result, err := c.Service.Enroll(r.Context(), eventID, accountID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, result)
}

// Disenroll godoc
// @Summary Cancel an enrollment
// @Description Removes the authenticated account's enrollment. On a first-come event the earliest waiting enrollment takes over a freed slot.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.DisenrollSuccessResponse "data.promoted is the promoted account or null"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: event_not_found, enrollment_not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: window_closed"
// @Failure 503 {object} helpers.APIResponse "error.code: busy"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/disenroll [post]
func (c *EnrollmentController) Disenroll(w http.ResponseWriter, r *http.Request) {
	eventID, accountID, ok := c.eventAndCaller(w, r)
	if !ok {
		return
	}
	result, err := c.Service.Disenroll(r.Context(), eventID, accountID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

// ListEnrollments godoc
// @Summary List an event's enrollments
// @Description Returns enrollments in arrival order. Supports pagination via page and page_size.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEnrollmentsSuccessResponse "data.items and data.pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: event_not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/enrollments [get]
func (c *EnrollmentController) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	eventID, _, ok := c.eventAndCaller(w, r)
	if !ok {
		return
	}
	params, err := helpers.ParsePagination(r)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	items, total, err := c.Service.ListEnrollments(r.Context(), eventID, params)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEnrollmentsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// AcceptEnrollment godoc
// @Summary Accept a waiting enrollment
// @Description Manager-only manual acceptance for confirmative events. Fails when the event is full.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param accountID path string true "Account ID of the enrollment"
// @Success 200 {object} controllers.EnrollmentSuccessResponse "data contains the accepted enrollment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: event_not_found, enrollment_not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: event_full, not_confirmative"
// @Failure 503 {object} helpers.APIResponse "error.code: busy"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/enrollments/{accountID}/accept [post]
func (c *EnrollmentController) AcceptEnrollment(w http.ResponseWriter, r *http.Request) {
	eventID, managerID, ok := c.eventAndCaller(w, r)
	if !ok {
		return
	}
	accountID := r.PathValue("accountID")
	if accountID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing accountID")
		return
	}
	enrollment, err := c.Service.AcceptEnrollment(r.Context(), eventID, accountID, managerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, enrollment)
}

// RejectEnrollment godoc
// @Summary Reject an enrollment
// @Description Manager-only. Removes the enrollment; on a first-come event a freed slot goes to the earliest waiting enrollment.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param accountID path string true "Account ID of the enrollment"
// @Success 200 {object} controllers.DisenrollSuccessResponse "data.promoted is the promoted account or null"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: event_not_found, enrollment_not_found"
// @Failure 503 {object} helpers.APIResponse "error.code: busy"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/enrollments/{accountID}/reject [post]
func (c *EnrollmentController) RejectEnrollment(w http.ResponseWriter, r *http.Request) {
	eventID, managerID, ok := c.eventAndCaller(w, r)
	if !ok {
		return
	}
	accountID := r.PathValue("accountID")
	if accountID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing accountID")
		return
	}
	result, err := c.Service.RejectEnrollment(r.Context(), eventID, accountID, managerID)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}

func (c *EnrollmentController) eventAndCaller(w http.ResponseWriter, r *http.Request) (eventID, accountID string, ok bool) {
	eventID, ok = eventIDFromPath(w, r)
	if !ok {
		return "", "", false
	}
	accountID, ok = middleware.AccountIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return "", "", false
	}
	return eventID, accountID, true
}
