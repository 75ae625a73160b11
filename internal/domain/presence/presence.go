package presence

import (
	"context"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
)

// FreshnessWindow is the threshold after which a "present" signal goes
// stale. The live report path and the background sweep derive presence
// with the same value; they must never diverge.
const FreshnessWindow = 10 * time.Minute

// Derive applies the presence rule to an employee's most recent event:
// present if and only if the latest status is "present" and the event is
// still inside the freshness window. A nil event means no history.
func Derive(latest *attendance.Event, now time.Time) (isPresent bool, lastSeen *time.Time) {
	if latest == nil {
		return false, nil
	}
	ts := latest.Timestamp
	return latest.Status == attendance.StatusPresent && now.Sub(ts) < FreshnessWindow, &ts
}

// Reconciler re-derives one employee's materialized is_present/last_seen
// from the attendance log. Reconcile is idempotent: applying it twice
// against the same latest event changes nothing on the second call.
// Callers on the hot path treat failures as best-effort; the event log
// stays authoritative either way.
type Reconciler interface {
	Reconcile(ctx context.Context, employeeID string) error
}
