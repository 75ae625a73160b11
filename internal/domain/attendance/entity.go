package attendance

import (
	"time"
)

// Event is one immutable attendance log entry. The per-employee sequence
// of events ordered by timestamp (id breaks ties) is the authoritative
// presence history; everything else is derived from it.
type Event struct {
	ID             string
	EmployeeID     string
	Status         Status
	Source         string
	DeviceID       *string
	SignalStrength *int
	Timestamp      time.Time
	CreatedAt      time.Time

	// DTO
	EmployeeName   *string
	EmployeeCode   *string
	EmployeeEmail  *string
	DepartmentName *string
}

type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// SourceUnknown is recorded when the reporter did not tag the signal.
const SourceUnknown = "unknown"

// EmployeeLatest pairs an employee's materialized presence fields with
// that employee's most recent attendance event. One row per employee;
// the event fields are nil when the employee has no history. This is the
// sweep working set, produced by a single query.
type EmployeeLatest struct {
	EmployeeID    string
	FullName      string
	IsPresent     bool
	LastSeen      *time.Time
	LastStatus    *Status
	LastTimestamp *time.Time
}
