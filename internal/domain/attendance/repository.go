package attendance

import (
	"context"
	"time"
)

// EventRepository defines data access for the append-only attendance log.
type EventRepository interface {
	// Create appends one event. The insert is the authoritative write:
	// failures must surface to the caller.
	Create(ctx context.Context, event Event) (Event, error)

	// GetByID retrieves a single event
	GetByID(ctx context.Context, id string) (Event, error)

	// GetLatestByEmployee retrieves the most recent event for one
	// employee, ordered by timestamp with id as tie-breaker. Returns nil
	// when the employee has no history.
	GetLatestByEmployee(ctx context.Context, employeeID string) (*Event, error)

	// ListLatestPerEmployee returns every employee joined with their
	// most recent event in one query. This is the sweep working set;
	// never issue one query per employee.
	ListLatestPerEmployee(ctx context.Context) ([]EmployeeLatest, error)

	// ListByEmployeeAsc returns the employee's events inside [from, to)
	// in ascending timestamp order
	ListByEmployeeAsc(ctx context.Context, employeeID string, from, to time.Time) ([]Event, error)

	// ListAllByEmployeeAsc returns the employee's full history in
	// ascending timestamp order
	ListAllByEmployeeAsc(ctx context.Context, employeeID string) ([]Event, error)

	// ListLogs retrieves events with employee/department joins for the
	// dashboard, newest first
	ListLogs(ctx context.Context, filter LogFilter) ([]Event, error)

	// Update applies an administrative correction. Not part of the
	// reconciliation algorithm.
	Update(ctx context.Context, id string, status *Status, source *string) (Event, error)

	// Delete removes an event (administrative correction)
	Delete(ctx context.Context, id string) error
}
