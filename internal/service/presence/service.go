package presence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/device"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/presence"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/events"
)

type PresenceServiceImpl struct {
	eventRepo    attendance.EventRepository
	employeeRepo employee.EmployeeRepository
	deviceRepo   device.DeviceRepository
	hub          *events.Hub
	now          func() time.Time
}

func NewPresenceService(
	eventRepo attendance.EventRepository,
	employeeRepo employee.EmployeeRepository,
	deviceRepo device.DeviceRepository,
	hub *events.Hub,
) *PresenceServiceImpl {
	return &PresenceServiceImpl{
		eventRepo:    eventRepo,
		employeeRepo: employeeRepo,
		deviceRepo:   deviceRepo,
		hub:          hub,
		now:          time.Now,
	}
}

// Reconcile implements presence.Reconciler. It re-derives the
// employee's materialized presence from the latest attendance event.
// Applying it twice against the same latest event is a no-op the second
// time.
func (s *PresenceServiceImpl) Reconcile(ctx context.Context, employeeID string) error {
	latest, err := s.eventRepo.GetLatestByEmployee(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to load latest event for reconciliation: %w", err)
	}

	isPresent, lastSeen := presence.Derive(latest, s.now())

	if err := s.employeeRepo.UpdatePresence(ctx, employeeID, isPresent, lastSeen); err != nil {
		return fmt.Errorf("failed to persist reconciled presence: %w", err)
	}

	return nil
}

// ReportPresence implements presence.PresenceService.
func (s *PresenceServiceImpl) ReportPresence(ctx context.Context, req presence.ReportRequest) (presence.ReportResponse, error) {
	if err := req.Validate(); err != nil {
		return presence.ReportResponse{}, err
	}

	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, req.EmployeeCode)
	if err != nil {
		return presence.ReportResponse{}, err
	}

	// Proximity to a known fixed scanner is the proof of presence. A
	// missing or sentinel device reference classifies the report as
	// "absent" even if the caller intended presence.
	var dev *device.Device
	if req.DeviceID != "" && req.DeviceID != device.NoDeviceSentinel {
		found, err := s.deviceRepo.GetByDeviceID(ctx, req.DeviceID)
		if err != nil {
			return presence.ReportResponse{}, err
		}
		dev = &found
	}

	status := attendance.StatusAbsent
	var deviceID *string
	if dev != nil {
		status = attendance.StatusPresent
		deviceID = &dev.DeviceID
	}

	timestamp := s.now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	source := req.Source
	if source == "" {
		source = attendance.SourceUnknown
	}

	// Authoritative write: failure here propagates to the caller.
	event, err := s.eventRepo.Create(ctx, attendance.Event{
		EmployeeID:     emp.ID,
		Status:         status,
		Source:         source,
		DeviceID:       deviceID,
		SignalStrength: req.SignalStrength,
		Timestamp:      timestamp,
	})
	if err != nil {
		return presence.ReportResponse{}, err
	}

	// Presence materialization is best-effort: the event log stays
	// authoritative, so a failed update is logged and swallowed.
	if err := s.Reconcile(ctx, emp.ID); err != nil {
		slog.Error("Failed to reconcile presence after report",
			"employee_id", emp.ID, "error", err)
	} else {
		s.publishTransitionIfFlipped(emp, event)
	}

	if dev != nil {
		if err := s.deviceRepo.TouchLastSeen(ctx, dev.DeviceID, timestamp); err != nil {
			slog.Warn("Failed to touch device last_seen",
				"device_id", dev.DeviceID, "error", err)
		}
	}

	return presence.ReportResponse{
		EmployeeID: emp.ID,
		DeviceID:   deviceID,
		Status:     string(status),
		Event:      attendance.ToEventResponse(event),
		Timestamp:  timestamp,
	}, nil
}

// GetPresenceStatus implements presence.PresenceService.
func (s *PresenceServiceImpl) GetPresenceStatus(ctx context.Context, employeeCode string) (presence.StatusResponse, error) {
	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		return presence.StatusResponse{}, err
	}

	latest, err := s.eventRepo.GetLatestByEmployee(ctx, emp.ID)
	if err != nil {
		return presence.StatusResponse{}, fmt.Errorf("failed to load latest event: %w", err)
	}

	isPresent, lastSeen := presence.Derive(latest, s.now())

	var deviceID *string
	if latest != nil {
		deviceID = latest.DeviceID
	}

	return presence.StatusResponse{
		EmployeeCode: employeeCode,
		IsPresent:    isPresent,
		LastSeen:     lastSeen,
		DeviceID:     deviceID,
	}, nil
}

func (s *PresenceServiceImpl) publishTransitionIfFlipped(emp employee.Employee, event attendance.Event) {
	if s.hub == nil {
		return
	}
	nowPresent, lastSeen := presence.Derive(&event, s.now())
	if emp.IsPresent == nowPresent {
		return
	}
	s.hub.Publish(events.Transition{
		EmployeeID: emp.ID,
		FullName:   emp.FullName,
		From:       emp.IsPresent,
		To:         nowPresent,
		LastSeen:   lastSeen,
		ObservedAt: s.now(),
		Origin:     "report",
	})
}
