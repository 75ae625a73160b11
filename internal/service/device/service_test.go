package device

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDeviceRepo struct {
	mu      sync.Mutex
	devices map[string]device.Device // by device_id
	touched map[string]time.Time
}

func newFakeDeviceRepo() *fakeDeviceRepo {
	return &fakeDeviceRepo{
		devices: make(map[string]device.Device),
		touched: make(map[string]time.Time),
	}
}

func (f *fakeDeviceRepo) GetByDeviceID(ctx context.Context, deviceID string) (device.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.devices[deviceID]
	if !ok {
		return device.Device{}, device.ErrDeviceNotFound
	}
	return d, nil
}

func (f *fakeDeviceRepo) List(ctx context.Context) ([]device.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]device.Device, 0, len(f.devices))
	for _, d := range f.devices {
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDeviceRepo) Register(ctx context.Context, d device.Device) (device.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.devices[d.DeviceID]; ok {
		existing.Location = d.Location
		existing.Description = d.Description
		existing.Status = device.StatusActive
		f.devices[d.DeviceID] = existing
		return existing, nil
	}
	d.ID = uuid.NewString()
	d.Status = device.StatusActive
	d.CreatedAt = time.Now()
	f.devices[d.DeviceID] = d
	return d, nil
}

func (f *fakeDeviceRepo) Update(ctx context.Context, id string, location string, description *string, status device.Status) (device.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, d := range f.devices {
		if d.ID == id {
			d.Location = location
			d.Description = description
			d.Status = status
			f.devices[key] = d
			return d, nil
		}
	}
	return device.Device{}, device.ErrDeviceNotFound
}

func (f *fakeDeviceRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, d := range f.devices {
		if d.ID == id {
			delete(f.devices, key)
			return nil
		}
	}
	return device.ErrDeviceNotFound
}

func (f *fakeDeviceRepo) TouchLastSeen(ctx context.Context, deviceID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched[deviceID] = at
	return nil
}

func (f *fakeDeviceRepo) MarkBeacon(ctx context.Context, deviceID string, description string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.devices[deviceID]; ok {
		d.Status = device.StatusActive
		d.LastSeen = &at
		f.devices[deviceID] = d
		return false, nil
	}
	f.devices[deviceID] = device.Device{
		ID:          uuid.NewString(),
		DeviceID:    deviceID,
		Location:    "Unknown Location",
		Description: &description,
		Status:      device.StatusActive,
		LastSeen:    &at,
	}
	return true, nil
}

func (f *fakeDeviceRepo) Overview(ctx context.Context) (device.Overview, error) {
	return device.Overview{TotalEmployees: 12, PresentEmployees: 7, ActiveScanners: 3}, nil
}

var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func newTestService(repo *fakeDeviceRepo) *DeviceServiceImpl {
	svc := NewDeviceService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestDeviceService_ProcessScan(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeDeviceRepo()
	svc := newTestService(repo)

	resp, err := svc.ProcessScan(ctx, device.ScanRequest{DeviceID: "scanner-lobby"})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Processed)
	assert.True(t, repo.touched["scanner-lobby"].Equal(testNow))
}

func TestDeviceService_ProcessScan_MissingDeviceID(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(newFakeDeviceRepo())

	_, err := svc.ProcessScan(ctx, device.ScanRequest{})

	assert.ErrorIs(t, err, device.ErrDeviceIDMissing)
}

func TestDeviceService_BeaconHeartbeat_AutoRegisters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := newFakeDeviceRepo()
	svc := newTestService(repo)

	resp, err := svc.BeaconHeartbeat(ctx, device.BeaconHeartbeatRequest{
		DeviceID:   "beacon-07",
		BeaconUUID: "e2c56db5-dffb-48d2-b060-d0f5a71096e0",
	})

	require.NoError(t, err)
	assert.Equal(t, "created", resp.Result)

	// A second heartbeat finds the existing row
	resp, err = svc.BeaconHeartbeat(ctx, device.BeaconHeartbeatRequest{DeviceID: "beacon-07"})
	require.NoError(t, err)
	assert.Equal(t, "updated", resp.Result)
}

func TestDeviceService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(newFakeDeviceRepo())

	resp, err := svc.Register(ctx, device.RegisterDeviceRequest{
		DeviceID: "scanner-lobby",
		Location: "Lobby",
	})

	require.NoError(t, err)
	assert.Equal(t, "scanner-lobby", resp.DeviceID)
	assert.Equal(t, string(device.StatusActive), resp.Status)
}

func TestDeviceService_Register_MissingFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(newFakeDeviceRepo())

	_, err := svc.Register(ctx, device.RegisterDeviceRequest{})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	m := verrs.ToMap()
	assert.Contains(t, m, "device_id")
	assert.Contains(t, m, "location")
}

func TestDeviceService_Update_InvalidStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(newFakeDeviceRepo())

	_, err := svc.Update(ctx, device.UpdateDeviceRequest{
		ID:       uuid.NewString(),
		Location: "Lobby",
		Status:   "broken",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "status")
}

func TestDeviceService_Overview(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(newFakeDeviceRepo())

	overview, err := svc.Overview(ctx)

	require.NoError(t, err)
	assert.Equal(t, 12, overview.TotalEmployees)
	assert.Equal(t, 7, overview.PresentEmployees)
	assert.Equal(t, 3, overview.ActiveScanners)
}
