package attendance

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// LogEventRequest is the direct log entry point used by automated
// scanners and administrative tools. The caller supplies the status;
// device corroboration is the presence report path's concern.
type LogEventRequest struct {
	EmployeeID     string     `json:"employee_id"`
	Status         string     `json:"status"`
	Source         string     `json:"source"`
	DeviceID       *string    `json:"device_id"`
	SignalStrength *int       `json:"signal_strength"`
	Timestamp      *time.Time `json:"timestamp"`
}

func (r *LogEventRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if !Status(r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be present, absent, or late",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LogFilter struct {
	EmployeeID *string
	Date       *string // "2006-01-02", matched against the event's day
	Limit      int
}

type UpdateLogRequest struct {
	ID     string  `json:"-"`
	Status *string `json:"status"`
	Source *string `json:"source"`
}

func (r *UpdateLogRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Status != nil && !Status(*r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be present, absent, or late",
		})
	}

	if r.Status == nil && r.Source == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one of status or source must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EventResponse struct {
	ID             string     `json:"id"`
	EmployeeID     string     `json:"employee_id"`
	Status         string     `json:"status"`
	Source         string     `json:"source"`
	DeviceID       *string    `json:"device_id"`
	SignalStrength *int       `json:"signal_strength"`
	Timestamp      time.Time  `json:"timestamp"`
	EmployeeName   *string    `json:"employee_name,omitempty"`
	EmployeeCode   *string    `json:"employee_code,omitempty"`
	DepartmentName *string    `json:"department_name,omitempty"`
	CreatedAt      *time.Time `json:"created_at,omitempty"`
}

func ToEventResponse(e Event) EventResponse {
	resp := EventResponse{
		ID:             e.ID,
		EmployeeID:     e.EmployeeID,
		Status:         string(e.Status),
		Source:         e.Source,
		DeviceID:       e.DeviceID,
		SignalStrength: e.SignalStrength,
		Timestamp:      e.Timestamp,
		EmployeeName:   e.EmployeeName,
		EmployeeCode:   e.EmployeeCode,
		DepartmentName: e.DepartmentName,
	}
	if !e.CreatedAt.IsZero() {
		createdAt := e.CreatedAt
		resp.CreatedAt = &createdAt
	}
	return resp
}

// Session is one contiguous interval of presumed presence, bounded by a
// present-transition and the following absent-transition (or "now" when
// still open).
type Session struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes int       `json:"minutes"`
	Ongoing bool      `json:"ongoing,omitempty"`
}

// DayPresence is the per-day aggregate for the monthly report. A session
// that spans midnight is attributed entirely to its start day.
type DayPresence struct {
	Date         string    `json:"date"`
	TotalMinutes int       `json:"totalMinutes"`
	TotalHours   string    `json:"totalHours"`
	Sessions     []Session `json:"sessions"`
}
