package postgres

import (
	"database/sql/driver"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

var testTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

var eventRowColumns = []string{
	"id", "study_id", "title", "description", "type", "limit_of_enrollments",
	"enrollment_opens_at", "enrollment_closes_at", "starts_at", "ends_at", "created_by", "created_at", "updated_at",
}

func eventRow(id, typ string, limit int, opensAt driver.Value) *sqlmock.Rows {
	return sqlmock.NewRows(eventRowColumns).AddRow(
		id, "study-1", "Go study", "weekly meetup", typ, limit,
		opensAt, testTime.Add(24*time.Hour), testTime.Add(48*time.Hour), testTime.Add(50*time.Hour), "acc-owner", testTime, testTime,
	)
}

var enrollmentRowColumns = []string{"event_id", "account_id", "accepted", "enrolled_at", "seq"}
