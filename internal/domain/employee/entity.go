package employee

import (
	"time"
)

// Employee is the identity record owned by the registry. IsPresent and
// LastSeen are derived fields: they are mutated only by the presence
// reconciler and the background sweeper, never by registry writes.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	PhoneNumber  *string
	DepartmentID *string
	IsPresent    bool
	LastSeen     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	DepartmentName *string
}
