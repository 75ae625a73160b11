package device

import (
	"context"
	"time"
)

// DeviceRepository defines data access for scanner devices.
type DeviceRepository interface {
	// GetByDeviceID retrieves a device by its external device id
	GetByDeviceID(ctx context.Context, deviceID string) (Device, error)

	// List retrieves all devices, newest first
	List(ctx context.Context) ([]Device, error)

	// Register upserts a device on device_id, reactivating it if it
	// already exists
	Register(ctx context.Context, d Device) (Device, error)

	// Update modifies location, description and status by internal id
	Update(ctx context.Context, id string, location string, description *string, status Status) (Device, error)

	// Delete removes a device by internal id
	Delete(ctx context.Context, id string) error

	// TouchLastSeen stamps last_seen for a heartbeat
	TouchLastSeen(ctx context.Context, deviceID string, at time.Time) error

	// MarkBeacon records a beacon heartbeat: marks the device active and
	// stamps last_seen, creating the device when it is unknown. Returns
	// true when a new device row was created.
	MarkBeacon(ctx context.Context, deviceID string, description string, at time.Time) (created bool, err error)

	// Overview aggregates fleet and presence counts over the last hour
	// of attendance activity
	Overview(ctx context.Context) (Overview, error)
}
