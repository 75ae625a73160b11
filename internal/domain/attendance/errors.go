package attendance

import "errors"

// Attendance domain errors
var (
	ErrEventNotFound = errors.New("attendance event not found")
	ErrInvalidStatus = errors.New("status must be present, absent, or late")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
)
