package attendance

import (
	"context"
)

// EventService defines business logic for the attendance log.
type EventService interface {
	// LogEvent validates the employee and status, appends one event,
	// then reconciles the employee's materialized presence. The event
	// insert is authoritative and its failure propagates; the
	// reconciliation is best-effort.
	LogEvent(ctx context.Context, req LogEventRequest) (EventResponse, error)

	// GetLogs retrieves events for the dashboard, newest first
	GetLogs(ctx context.Context, filter LogFilter) ([]EventResponse, error)

	// GetHistory compresses the employee's full raw event stream down to
	// status changes and returns the most recent limit entries, newest
	// first. An unknown employee yields an empty list.
	GetHistory(ctx context.Context, employeeCode string, limit int) ([]EventResponse, error)

	// GetMonthlyPresence reconstructs presence sessions for a calendar
	// month and sums duration per day. An employee with no events in the
	// month yields an empty list, not an error.
	GetMonthlyPresence(ctx context.Context, employeeCode string, year int, month int) ([]DayPresence, error)

	// UpdateLog applies an administrative correction, then reconciles
	// the affected employee since the log is authoritative
	UpdateLog(ctx context.Context, req UpdateLogRequest) (EventResponse, error)

	// DeleteLog removes an event (administrative correction) and
	// reconciles the affected employee
	DeleteLog(ctx context.Context, id string) error
}
