package device

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/device"
)

type DeviceServiceImpl struct {
	deviceRepo device.DeviceRepository
	now        func() time.Time
}

func NewDeviceService(deviceRepo device.DeviceRepository) *DeviceServiceImpl {
	return &DeviceServiceImpl{
		deviceRepo: deviceRepo,
		now:        time.Now,
	}
}

// ProcessScan implements device.DeviceService. Presence tracking itself
// is driven by the mobile app; a scan post only proves the beacon is
// alive.
func (s *DeviceServiceImpl) ProcessScan(ctx context.Context, req device.ScanRequest) (device.ScanResponse, error) {
	if req.DeviceID == "" {
		return device.ScanResponse{}, device.ErrDeviceIDMissing
	}

	at := s.now()
	if req.Timestamp != nil {
		at = *req.Timestamp
	}

	if err := s.deviceRepo.TouchLastSeen(ctx, req.DeviceID, at); err != nil {
		return device.ScanResponse{}, err
	}

	return device.ScanResponse{
		Processed: 0,
		Message:   "Scanner heartbeat received. Presence tracking handled by mobile app.",
	}, nil
}

// BeaconHeartbeat implements device.DeviceService.
func (s *DeviceServiceImpl) BeaconHeartbeat(ctx context.Context, req device.BeaconHeartbeatRequest) (device.BeaconResponse, error) {
	if req.DeviceID == "" {
		return device.BeaconResponse{}, device.ErrDeviceIDMissing
	}

	at := s.now()
	if req.Timestamp != nil {
		at = *req.Timestamp
	}

	created, err := s.deviceRepo.MarkBeacon(ctx, req.DeviceID, req.BeaconDescription(), at)
	if err != nil {
		return device.BeaconResponse{}, err
	}

	result := "updated"
	if created {
		result = "created"
		slog.Info("Auto-registered unknown beacon", "device_id", req.DeviceID)
	}

	return device.BeaconResponse{DeviceID: req.DeviceID, Result: result}, nil
}

// Register implements device.DeviceService.
func (s *DeviceServiceImpl) Register(ctx context.Context, req device.RegisterDeviceRequest) (device.DeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	registered, err := s.deviceRepo.Register(ctx, device.Device{
		DeviceID:    req.DeviceID,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		return device.DeviceResponse{}, err
	}

	return device.ToDeviceResponse(registered), nil
}

// List implements device.DeviceService.
func (s *DeviceServiceImpl) List(ctx context.Context) ([]device.DeviceResponse, error) {
	devices, err := s.deviceRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]device.DeviceResponse, 0, len(devices))
	for _, dev := range devices {
		responses = append(responses, device.ToDeviceResponse(dev))
	}
	return responses, nil
}

// Update implements device.DeviceService.
func (s *DeviceServiceImpl) Update(ctx context.Context, req device.UpdateDeviceRequest) (device.DeviceResponse, error) {
	if err := req.Validate(); err != nil {
		return device.DeviceResponse{}, err
	}

	updated, err := s.deviceRepo.Update(ctx, req.ID, req.Location, req.Description, device.Status(req.Status))
	if err != nil {
		return device.DeviceResponse{}, err
	}

	return device.ToDeviceResponse(updated), nil
}

// Delete implements device.DeviceService.
func (s *DeviceServiceImpl) Delete(ctx context.Context, id string) error {
	return s.deviceRepo.Delete(ctx, id)
}

// Overview implements device.DeviceService.
func (s *DeviceServiceImpl) Overview(ctx context.Context) (device.Overview, error) {
	return s.deviceRepo.Overview(ctx)
}
