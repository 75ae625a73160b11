package presence

import (
	"context"
)

// PresenceService defines business logic for the presence channel.
type PresenceService interface {
	Reconciler

	// ReportPresence ingests a mobile presence signal. The employee must
	// resolve; a resolvable scanner device is the proof of presence, so
	// a missing or sentinel device reference classifies the report as
	// "absent" regardless of the caller's intent.
	ReportPresence(ctx context.Context, req ReportRequest) (ReportResponse, error)

	// GetPresenceStatus derives the employee's current presence from the
	// latest attendance event and the freshness window
	GetPresenceStatus(ctx context.Context, employeeCode string) (StatusResponse, error)
}
