package device

import (
	"context"
)

// DeviceService defines business logic for the scanner fleet.
type DeviceService interface {
	// ProcessScan handles a scan-result post from an ESP32. Presence
	// itself is reported by the mobile app; the scan only proves the
	// beacon is alive.
	ProcessScan(ctx context.Context, req ScanRequest) (ScanResponse, error)

	// BeaconHeartbeat upserts the beacon on its periodic heartbeat
	BeaconHeartbeat(ctx context.Context, req BeaconHeartbeatRequest) (BeaconResponse, error)

	// Register registers a device from the dashboard
	Register(ctx context.Context, req RegisterDeviceRequest) (DeviceResponse, error)

	// List retrieves all devices
	List(ctx context.Context) ([]DeviceResponse, error)

	// Update modifies a device
	Update(ctx context.Context, req UpdateDeviceRequest) (DeviceResponse, error)

	// Delete removes a device
	Delete(ctx context.Context, id string) error

	// Overview reports fleet and presence counts for monitoring
	Overview(ctx context.Context) (Overview, error)
}
