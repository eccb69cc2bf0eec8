package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyenrollment/internal/delivery/http/helpers"
	"studyenrollment/internal/delivery/http/middleware"
	"studyenrollment/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enrolledAt = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func TestEnrollmentController_Enroll(t *testing.T) {
	tests := []struct {
		name        string
		eventID     string
		noAccount   bool
		fake        *fakeEnrollmentService
		wantStatus  int
		wantCode    string
		wantOutcome domain.EnrollmentOutcome
	}{
		{
			name:    "accepted",
			eventID: testEventID,
			fake: &fakeEnrollmentService{enrollResult: &domain.EnrollResult{
				Outcome:    domain.OutcomeAccepted,
				Enrollment: domain.NewEnrollment(testEventID, "acc-1", true, enrolledAt),
			}},
			wantStatus:  http.StatusCreated,
			wantOutcome: domain.OutcomeAccepted,
		},
		{
			name:    "waiting",
			eventID: testEventID,
			fake: &fakeEnrollmentService{enrollResult: &domain.EnrollResult{
				Outcome:    domain.OutcomeWaiting,
				Enrollment: domain.NewEnrollment(testEventID, "acc-1", false, enrolledAt),
			}},
			wantStatus:  http.StatusCreated,
			wantOutcome: domain.OutcomeWaiting,
		},
		{name: "no account", eventID: testEventID, noAccount: true, fake: &fakeEnrollmentService{}, wantStatus: http.StatusUnauthorized, wantCode: helpers.ErrCodeUnauthorized},
		{name: "bad event id", eventID: "not-a-uuid", fake: &fakeEnrollmentService{}, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "already enrolled", eventID: testEventID, fake: &fakeEnrollmentService{err: domain.ErrAlreadyEnrolled}, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeAlreadyEnrolled},
		{name: "lost insert race", eventID: testEventID, fake: &fakeEnrollmentService{err: domain.ErrDuplicateEnrollment}, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeAlreadyEnrolled},
		{name: "window closed", eventID: testEventID, fake: &fakeEnrollmentService{err: domain.ErrWindowClosed}, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeWindowClosed},
		{name: "event not found", eventID: testEventID, fake: &fakeEnrollmentService{err: domain.ErrEventNotFound}, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeEventNotFound},
		{name: "account not found", eventID: testEventID, fake: &fakeEnrollmentService{err: domain.ErrAccountNotFound}, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeAccountNotFound},
		{name: "busy", eventID: testEventID, fake: &fakeEnrollmentService{err: domain.ErrBusy}, wantStatus: http.StatusServiceUnavailable, wantCode: helpers.ErrCodeBusy},
		{name: "store failure", eventID: testEventID, fake: &fakeEnrollmentService{err: errors.New("connection reset")}, wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEnrollmentController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "/events/"+tt.eventID+"/enroll", nil)
			req.SetPathValue("eventID", tt.eventID)
			if !tt.noAccount {
				req = req.WithContext(middleware.SetAccountID(req.Context(), "acc-1"))
			}
			rr := httptest.NewRecorder()

			ctrl.Enroll(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				envelope := decodeEnvelope(t, rr, nil)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				if tt.wantCode == helpers.ErrCodeBusy {
					assert.Equal(t, helpers.RetryAfterSeconds, rr.Header().Get("Retry-After"))
				}
				return
			}
			var result domain.EnrollResult
			decodeEnvelope(t, rr, &result)
			assert.Equal(t, tt.wantOutcome, result.Outcome)
			assert.Equal(t, "acc-1", result.Enrollment.AccountID)
			assert.Equal(t, testEventID, tt.fake.lastEventID)
			assert.Equal(t, "acc-1", tt.fake.lastAccountID)
		})
	}
}

func TestEnrollmentController_Disenroll(t *testing.T) {
	promoted := "acc-9"
	tests := []struct {
		name         string
		fake         *fakeEnrollmentService
		wantStatus   int
		wantCode     string
		wantPromoted *string
	}{
		{name: "promotes waiter", fake: &fakeEnrollmentService{disenrollResult: &domain.DisenrollResult{Promoted: &promoted}}, wantStatus: http.StatusOK, wantPromoted: &promoted},
		{name: "nobody promoted", fake: &fakeEnrollmentService{disenrollResult: &domain.DisenrollResult{}}, wantStatus: http.StatusOK},
		{name: "not enrolled", fake: &fakeEnrollmentService{err: domain.ErrEnrollmentNotFound}, wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeEnrollmentNotFound},
		{name: "event over", fake: &fakeEnrollmentService{err: domain.ErrWindowClosed}, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeWindowClosed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEnrollmentController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/disenroll", nil)
			req.SetPathValue("eventID", testEventID)
			req = req.WithContext(middleware.SetAccountID(req.Context(), "acc-1"))
			rr := httptest.NewRecorder()

			ctrl.Disenroll(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				envelope := decodeEnvelope(t, rr, nil)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			assert.Contains(t, rr.Body.String(), `"promoted":`)
			var result domain.DisenrollResult
			decodeEnvelope(t, rr, &result)
			assert.Equal(t, tt.wantPromoted, result.Promoted)
		})
	}
}

func TestEnrollmentController_ListEnrollments(t *testing.T) {
	fake := &fakeEnrollmentService{
		listResult: []*domain.Enrollment{
			domain.NewEnrollment(testEventID, "acc-3", true, enrolledAt),
		},
		listTotal: 3,
	}
	ctrl := NewEnrollmentController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/enrollments?page=2&page_size=2", nil)
	req.SetPathValue("eventID", testEventID)
	req = req.WithContext(middleware.SetAccountID(req.Context(), "acc-1"))
	rr := httptest.NewRecorder()

	ctrl.ListEnrollments(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var data ListEnrollmentsResponse
	decodeEnvelope(t, rr, &data)
	require.Len(t, data.Items, 1)
	assert.Equal(t, "acc-3", data.Items[0].AccountID)
	assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 2, Total: 3, TotalPages: 2}, data.Pagination)
	assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 2}, fake.lastParams)
}

func TestEnrollmentController_ListEnrollments_BadPage(t *testing.T) {
	fake := &fakeEnrollmentService{}
	ctrl := NewEnrollmentController(testLogger, fake)
	req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID+"/enrollments?page=0", nil)
	req.SetPathValue("eventID", testEventID)
	req = req.WithContext(middleware.SetAccountID(req.Context(), "acc-1"))
	rr := httptest.NewRecorder()

	ctrl.ListEnrollments(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), helpers.ErrCodeBadRequest)
	assert.Equal(t, domain.PaginationParams{}, fake.lastParams)
}

func TestEnrollmentController_AcceptEnrollment(t *testing.T) {
	tests := []struct {
		name       string
		accountID  string
		fake       *fakeEnrollmentService
		wantStatus int
		wantCode   string
	}{
		{name: "accepted", accountID: "acc-2", fake: &fakeEnrollmentService{acceptResult: domain.NewEnrollment(testEventID, "acc-2", true, enrolledAt)}, wantStatus: http.StatusOK},
		{name: "missing account", accountID: "", fake: &fakeEnrollmentService{}, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "not manager", accountID: "acc-2", fake: &fakeEnrollmentService{err: domain.ErrForbidden}, wantStatus: http.StatusForbidden, wantCode: helpers.ErrCodeForbidden},
		{name: "event full", accountID: "acc-2", fake: &fakeEnrollmentService{err: domain.ErrEventFull}, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeEventFull},
		{name: "first-come event", accountID: "acc-2", fake: &fakeEnrollmentService{err: domain.ErrNotConfirmative}, wantStatus: http.StatusConflict, wantCode: helpers.ErrCodeNotConfirmative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewEnrollmentController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/enrollments/"+tt.accountID+"/accept", nil)
			req.SetPathValue("eventID", testEventID)
			req.SetPathValue("accountID", tt.accountID)
			req = req.WithContext(middleware.SetAccountID(req.Context(), "manager"))
			rr := httptest.NewRecorder()

			ctrl.AcceptEnrollment(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				envelope := decodeEnvelope(t, rr, nil)
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			var enrollment domain.Enrollment
			decodeEnvelope(t, rr, &enrollment)
			assert.True(t, enrollment.Accepted)
			assert.Equal(t, "manager", tt.fake.lastManagerID)
			assert.Equal(t, "acc-2", tt.fake.lastAccountID)
		})
	}
}

func TestEnrollmentController_RejectEnrollment(t *testing.T) {
	promoted := "acc-3"
	fake := &fakeEnrollmentService{disenrollResult: &domain.DisenrollResult{Promoted: &promoted}}
	ctrl := NewEnrollmentController(testLogger, fake)
	req := httptest.NewRequest(http.MethodPost, "/events/"+testEventID+"/enrollments/acc-2/reject", nil)
	req.SetPathValue("eventID", testEventID)
	req.SetPathValue("accountID", "acc-2")
	req = req.WithContext(middleware.SetAccountID(req.Context(), "manager"))
	rr := httptest.NewRecorder()

	ctrl.RejectEnrollment(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var result domain.DisenrollResult
	decodeEnvelope(t, rr, &result)
	require.NotNil(t, result.Promoted)
	assert.Equal(t, "acc-3", *result.Promoted)
	assert.Equal(t, "acc-2", fake.lastAccountID)
	assert.Equal(t, "manager", fake.lastManagerID)
}
