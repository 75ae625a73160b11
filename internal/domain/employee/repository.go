package employee

import (
	"context"
	"time"
)

// EmployeeRepository defines the registry surface the presence core needs.
// Employee CRUD lives with the registry and is out of scope here; only the
// derived presence fields are written through this interface.
type EmployeeRepository interface {
	// GetByID retrieves an employee by internal id
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetByEmployeeCode retrieves an employee by the stable external code
	// (human-assigned, e.g. "EMP041")
	GetByEmployeeCode(ctx context.Context, employeeCode string) (Employee, error)

	// UpdatePresence persists the materialized is_present/last_seen pair.
	// lastSeen is nil when the employee has no attendance history.
	UpdatePresence(ctx context.Context, id string, isPresent bool, lastSeen *time.Time) error
}
