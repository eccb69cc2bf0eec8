package helpers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"studyenrollment/internal/domain"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest         = "bad_request"
	ErrCodeUnauthorized       = "unauthorized"
	ErrCodeForbidden          = "forbidden"
	ErrCodeEventNotFound      = "event_not_found"
	ErrCodeEnrollmentNotFound = "enrollment_not_found"
	ErrCodeAccountNotFound    = "account_not_found"
	ErrCodeNotFound           = "not_found"
	ErrCodeAlreadyEnrolled    = "already_enrolled"
	ErrCodeWindowClosed       = "window_closed"
	ErrCodeEventFull          = "event_full"
	ErrCodeNotConfirmative    = "not_confirmative"
	ErrCodeBusy               = "busy"
	ErrCodeInternalError      = "internal_error"
)

// RetryAfterSeconds is sent with busy responses.
const RetryAfterSeconds = "1"

// APIError is the error object in the standardized API response envelope.
// swagger:model APIError
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// APIResponse is the standardized envelope for all API responses.
// On success: Data is set, Error is nil. On error: Data is nil, Error is set.
// swagger:model APIResponse
type APIResponse struct {
	Data  any       `json:"data"`
	Error *APIError `json:"error"`
}

// WriteJSONSuccess sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with the given data and error set to nil.
func WriteJSONSuccess(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Data: data, Error: nil})
}

// WriteJSONError sets Content-Type to application/json, writes statusCode, and
// encodes an APIResponse with data nil and the given error code and message.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Data:  nil,
		Error: &APIError{Code: code, Message: message},
	})
}

// serviceErrors maps domain errors to HTTP status and error code. Order matters:
// entity-specific not-found errors come before the generic one.
var serviceErrors = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrBusy, http.StatusServiceUnavailable, ErrCodeBusy},
	{domain.ErrAlreadyEnrolled, http.StatusConflict, ErrCodeAlreadyEnrolled},
	{domain.ErrEventNotFound, http.StatusNotFound, ErrCodeEventNotFound},
	{domain.ErrEnrollmentNotFound, http.StatusNotFound, ErrCodeEnrollmentNotFound},
	{domain.ErrAccountNotFound, http.StatusNotFound, ErrCodeAccountNotFound},
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrWindowClosed, http.StatusConflict, ErrCodeWindowClosed},
	{domain.ErrEventFull, http.StatusConflict, ErrCodeEventFull},
	{domain.ErrNotConfirmative, http.StatusConflict, ErrCodeNotConfirmative},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
}

// WriteServiceError writes the response for an error returned by a domain service.
// Unknown errors are logged and reported as 500 without their message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			if m.code == ErrCodeBusy {
				w.Header().Set("Retry-After", RetryAfterSeconds)
			}
			WriteJSONError(w, m.status, m.code, err.Error())
			return
		}
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
}
