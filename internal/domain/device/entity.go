package device

import (
	"time"
)

// Device is a fixed ESP32 scanner beacon. Its lifecycle is independent
// from employees: heartbeats and scans update LastSeen, the dashboard
// manages the rest.
type Device struct {
	ID          string
	DeviceID    string
	Location    string
	Description *string
	Status      Status
	LastSeen    *time.Time
	CreatedAt   time.Time
}

type Status string

const (
	StatusActive      Status = "active"
	StatusInactive    Status = "inactive"
	StatusMaintenance Status = "maintenance"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusMaintenance:
		return true
	}
	return false
}

// NoDeviceSentinel is the device id mobile clients send when no scanner
// was in range. It must resolve to "no device", not to a lookup failure.
const NoDeviceSentinel = "none"
