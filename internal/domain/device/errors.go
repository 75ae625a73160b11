package device

import "errors"

var (
	ErrDeviceNotFound  = errors.New("scanner device not found")
	ErrInvalidStatus   = errors.New("device status must be active, inactive, or maintenance")
	ErrDeviceIDExists  = errors.New("device id already registered")
	ErrDeviceIDMissing = errors.New("device id is required")
)
