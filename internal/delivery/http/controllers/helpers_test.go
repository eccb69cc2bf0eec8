package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"studyenrollment/internal/delivery/http/helpers"
	"studyenrollment/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const testEventID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createEventErr  error
	getEventResult  *domain.Event
	getEventErr     error
	updateErr       error
	updatePromoted  []string
	lastCreateEvent *domain.Event
	lastUpdate      struct {
		eventID, managerID string
		limit              int
	}
}

func (f *fakeEventService) CreateEvent(_ context.Context, event *domain.Event) error {
	f.lastCreateEvent = event
	if f.createEventErr != nil {
		return f.createEventErr
	}
	event.ID = testEventID
	return nil
}

func (f *fakeEventService) GetEvent(_ context.Context, _ string) (*domain.Event, error) {
	return f.getEventResult, f.getEventErr
}

func (f *fakeEventService) UpdateCapacity(_ context.Context, eventID, managerID string, limit int) (*domain.Event, []string, error) {
	f.lastUpdate.eventID, f.lastUpdate.managerID, f.lastUpdate.limit = eventID, managerID, limit
	if f.updateErr != nil {
		return nil, nil, f.updateErr
	}
	return &domain.Event{ID: eventID, LimitOfEnrollments: limit}, f.updatePromoted, nil
}

// fakeEnrollmentService implements domain.EnrollmentService for handler tests.
type fakeEnrollmentService struct {
	enrollResult    *domain.EnrollResult
	disenrollResult *domain.DisenrollResult
	acceptResult    *domain.Enrollment
	listResult      []*domain.Enrollment
	listTotal       int
	err             error

	lastEventID   string
	lastAccountID string
	lastManagerID string
	lastParams    domain.PaginationParams
}

func (f *fakeEnrollmentService) Enroll(_ context.Context, eventID, accountID string) (*domain.EnrollResult, error) {
	f.lastEventID, f.lastAccountID = eventID, accountID
	return f.enrollResult, f.err
}

func (f *fakeEnrollmentService) Disenroll(_ context.Context, eventID, accountID string) (*domain.DisenrollResult, error) {
	f.lastEventID, f.lastAccountID = eventID, accountID
	return f.disenrollResult, f.err
}

func (f *fakeEnrollmentService) AcceptEnrollment(_ context.Context, eventID, accountID, managerID string) (*domain.Enrollment, error) {
	f.lastEventID, f.lastAccountID, f.lastManagerID = eventID, accountID, managerID
	return f.acceptResult, f.err
}

func (f *fakeEnrollmentService) RejectEnrollment(_ context.Context, eventID, accountID, managerID string) (*domain.DisenrollResult, error) {
	f.lastEventID, f.lastAccountID, f.lastManagerID = eventID, accountID, managerID
	return f.disenrollResult, f.err
}

func (f *fakeEnrollmentService) GetEnrollment(_ context.Context, eventID, accountID string) (*domain.Enrollment, error) {
	return f.acceptResult, f.err
}

func (f *fakeEnrollmentService) ListEnrollments(_ context.Context, eventID string, params domain.PaginationParams) ([]*domain.Enrollment, int, error) {
	f.lastEventID, f.lastParams = eventID, params
	return f.listResult, f.listTotal, f.err
}

// decodeEnvelope decodes the response envelope and, when dest is non-nil, its data field into dest.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(dataBytes, dest))
	}
	return envelope
}
