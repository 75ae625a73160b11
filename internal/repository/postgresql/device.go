package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type deviceRepositoryImpl struct {
	db *database.DB
}

func NewDeviceRepository(db *database.DB) device.DeviceRepository {
	return &deviceRepositoryImpl{db: db}
}

// GetByDeviceID implements device.DeviceRepository.
func (d *deviceRepositoryImpl) GetByDeviceID(ctx context.Context, deviceID string) (device.Device, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT id, device_id, location, description, status, last_seen, created_at
		FROM scanner_devices
		WHERE device_id = $1
	`

	var dev device.Device
	err := q.QueryRow(ctx, query, deviceID).Scan(
		&dev.ID, &dev.DeviceID, &dev.Location, &dev.Description,
		&dev.Status, &dev.LastSeen, &dev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.Device{}, device.ErrDeviceNotFound
		}
		return device.Device{}, fmt.Errorf("failed to get device by device id: %w", err)
	}

	return dev, nil
}

// List implements device.DeviceRepository.
func (d *deviceRepositoryImpl) List(ctx context.Context) ([]device.Device, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT id, device_id, location, description, status, last_seen, created_at
		FROM scanner_devices
		ORDER BY created_at DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []device.Device
	for rows.Next() {
		var dev device.Device
		if err := rows.Scan(
			&dev.ID, &dev.DeviceID, &dev.Location, &dev.Description,
			&dev.Status, &dev.LastSeen, &dev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan device row: %w", err)
		}
		devices = append(devices, dev)
	}

	return devices, rows.Err()
}

// Register implements device.DeviceRepository.
func (d *deviceRepositoryImpl) Register(ctx context.Context, dev device.Device) (device.Device, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		INSERT INTO scanner_devices (device_id, location, description, status, last_seen)
		VALUES ($1, $2, $3, 'active', NOW())
		ON CONFLICT (device_id) DO UPDATE SET
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			status = 'active',
			last_seen = NOW()
		RETURNING id, device_id, location, description, status, last_seen, created_at
	`

	var registered device.Device
	err := q.QueryRow(ctx, query, dev.DeviceID, dev.Location, dev.Description).Scan(
		&registered.ID, &registered.DeviceID, &registered.Location, &registered.Description,
		&registered.Status, &registered.LastSeen, &registered.CreatedAt,
	)
	if err != nil {
		return device.Device{}, fmt.Errorf("failed to register device: %w", err)
	}

	return registered, nil
}

// Update implements device.DeviceRepository.
func (d *deviceRepositoryImpl) Update(ctx context.Context, id string, location string, description *string, status device.Status) (device.Device, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		UPDATE scanner_devices
		SET location = $1, description = $2, status = $3
		WHERE id = $4
		RETURNING id, device_id, location, description, status, last_seen, created_at
	`

	var dev device.Device
	err := q.QueryRow(ctx, query, location, description, status, id).Scan(
		&dev.ID, &dev.DeviceID, &dev.Location, &dev.Description,
		&dev.Status, &dev.LastSeen, &dev.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return device.Device{}, device.ErrDeviceNotFound
		}
		return device.Device{}, fmt.Errorf("failed to update device: %w", err)
	}

	return dev, nil
}

// Delete implements device.DeviceRepository.
func (d *deviceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, d.db)

	tag, err := q.Exec(ctx, `DELETE FROM scanner_devices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

// TouchLastSeen implements device.DeviceRepository.
func (d *deviceRepositoryImpl) TouchLastSeen(ctx context.Context, deviceID string, at time.Time) error {
	q := GetQuerier(ctx, d.db)

	tag, err := q.Exec(ctx, `
		UPDATE scanner_devices
		SET last_seen = $1
		WHERE device_id = $2
	`, at, deviceID)
	if err != nil {
		return fmt.Errorf("failed to touch device last_seen: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return device.ErrDeviceNotFound
	}

	return nil
}

// MarkBeacon implements device.DeviceRepository. The update/insert pair
// runs in one transaction: two first heartbeats from the same beacon
// must not both auto-register it.
func (d *deviceRepositoryImpl) MarkBeacon(ctx context.Context, deviceID string, description string, at time.Time) (bool, error) {
	var created bool

	err := WithTransaction(ctx, d.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, d.db)

		tag, err := q.Exec(txCtx, `
			UPDATE scanner_devices
			SET last_seen = $1, status = 'active'
			WHERE device_id = $2
		`, at, deviceID)
		if err != nil {
			return fmt.Errorf("failed to update beacon: %w", err)
		}

		if tag.RowsAffected() > 0 {
			return nil
		}

		// Unknown beacon, auto-register it with a placeholder location
		_, err = q.Exec(txCtx, `
			INSERT INTO scanner_devices (device_id, location, description, status, last_seen)
			VALUES ($1, 'Unknown Location', $2, 'active', $3)
		`, deviceID, description, at)
		if err != nil {
			return fmt.Errorf("failed to auto-register beacon: %w", err)
		}

		created = true
		return nil
	})

	return created, err
}

// Overview implements device.DeviceRepository.
func (d *deviceRepositoryImpl) Overview(ctx context.Context) (device.Overview, error) {
	q := GetQuerier(ctx, d.db)

	query := `
		SELECT
			COUNT(DISTINCT e.id) AS total_employees,
			COUNT(DISTINCT e.id) FILTER (WHERE e.is_present) AS present_employees,
			COUNT(DISTINCT al.device_id) AS active_scanners
		FROM employees e
		LEFT JOIN attendance_events al
			ON al.employee_id = e.id
			AND al.timestamp >= NOW() - INTERVAL '1 hour'
	`

	var ov device.Overview
	err := q.QueryRow(ctx, query).Scan(&ov.TotalEmployees, &ov.PresentEmployees, &ov.ActiveScanners)
	if err != nil {
		return device.Overview{}, fmt.Errorf("failed to get scanner overview: %w", err)
	}

	return ov, nil
}
