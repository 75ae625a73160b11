package device

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
)

// ========================================
// DEVICE DTOs
// ========================================

type RegisterDeviceRequest struct {
	DeviceID    string  `json:"device_id"`
	Location    string  `json:"location"`
	Description *string `json:"description"`
}

func (r *RegisterDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.DeviceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "device_id",
			Message: "device_id is required",
		})
	}

	if validator.IsEmpty(r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateDeviceRequest struct {
	ID          string  `json:"-"`
	Location    string  `json:"location"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

func (r *UpdateDeviceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Location) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	}

	if !Status(r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active, inactive, or maintenance",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ScanRequest struct {
	DeviceID  string     `json:"device_id"`
	Timestamp *time.Time `json:"timestamp"`
}

type BeaconHeartbeatRequest struct {
	DeviceID      string     `json:"device_id"`
	BeaconUUID    string     `json:"beacon_uuid"`
	BeaconMajor   *int       `json:"beacon_major"`
	BeaconMinor   *int       `json:"beacon_minor"`
	IsAdvertising bool       `json:"is_advertising"`
	Timestamp     *time.Time `json:"timestamp"`
}

// BeaconDescription is the default description for auto-registered beacons.
func (r *BeaconHeartbeatRequest) BeaconDescription() string {
	return fmt.Sprintf("ESP32 Beacon - UUID: %s", r.BeaconUUID)
}

type ScanResponse struct {
	Processed int    `json:"processed"`
	Message   string `json:"message"`
}

type BeaconResponse struct {
	DeviceID string `json:"device_id"`
	Result   string `json:"result"` // "updated" or "created"
}

// Overview is the monitoring summary for the scanner fleet.
type Overview struct {
	TotalEmployees   int `json:"total_employees"`
	PresentEmployees int `json:"present_employees"`
	ActiveScanners   int `json:"active_scanners"`
}

type DeviceResponse struct {
	ID          string     `json:"id"`
	DeviceID    string     `json:"device_id"`
	Location    string     `json:"location"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	LastSeen    *time.Time `json:"last_seen"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToDeviceResponse(d Device) DeviceResponse {
	return DeviceResponse{
		ID:          d.ID,
		DeviceID:    d.DeviceID,
		Location:    d.Location,
		Description: d.Description,
		Status:      string(d.Status),
		LastSeen:    d.LastSeen,
		CreatedAt:   d.CreatedAt,
	}
}
