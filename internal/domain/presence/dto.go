package presence

import (
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// PRESENCE DTOs
// ========================================

// ReportRequest is a presence signal from the mobile scanner app. The
// device id is optional; "none" is the sentinel for "no scanner in
// range".
type ReportRequest struct {
	EmployeeCode   string     `json:"employee_id"`
	DeviceID       string     `json:"device_id"`
	SignalStrength *int       `json:"signal_strength"`
	Timestamp      *time.Time `json:"timestamp"`
	Source         string     `json:"source"`
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeCode) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReportResponse struct {
	EmployeeID string                   `json:"employee_id"`
	DeviceID   *string                  `json:"device_id"`
	Status     string                   `json:"status"`
	Event      attendance.EventResponse `json:"attendance_event"`
	Timestamp  time.Time                `json:"timestamp"`
}

type StatusResponse struct {
	EmployeeCode string     `json:"employee_id"`
	IsPresent    bool       `json:"is_present"`
	LastSeen     *time.Time `json:"last_seen"`
	DeviceID     *string    `json:"device_id"`
}
