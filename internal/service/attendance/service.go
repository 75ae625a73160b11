package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/presence"
)

const defaultHistoryLimit = 10

type EventServiceImpl struct {
	eventRepo    attendance.EventRepository
	employeeRepo employee.EmployeeRepository
	reconciler   presence.Reconciler
	now          func() time.Time
}

func NewEventService(
	eventRepo attendance.EventRepository,
	employeeRepo employee.EmployeeRepository,
	reconciler presence.Reconciler,
) *EventServiceImpl {
	return &EventServiceImpl{
		eventRepo:    eventRepo,
		employeeRepo: employeeRepo,
		reconciler:   reconciler,
		now:          time.Now,
	}
}

// LogEvent implements attendance.EventService.
func (s *EventServiceImpl) LogEvent(ctx context.Context, req attendance.LogEventRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	timestamp := s.now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	source := req.Source
	if source == "" {
		source = attendance.SourceUnknown
	}

	// The insert is the authoritative write; its failure propagates.
	event, err := s.eventRepo.Create(ctx, attendance.Event{
		EmployeeID:     emp.ID,
		Status:         attendance.Status(req.Status),
		Source:         source,
		DeviceID:       req.DeviceID,
		SignalStrength: req.SignalStrength,
		Timestamp:      timestamp,
	})
	if err != nil {
		return attendance.EventResponse{}, err
	}

	s.reconcileBestEffort(ctx, emp.ID)

	return attendance.ToEventResponse(event), nil
}

// GetLogs implements attendance.EventService.
func (s *EventServiceImpl) GetLogs(ctx context.Context, filter attendance.LogFilter) ([]attendance.EventResponse, error) {
	logs, err := s.eventRepo.ListLogs(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]attendance.EventResponse, 0, len(logs))
	for _, event := range logs {
		responses = append(responses, attendance.ToEventResponse(event))
	}
	return responses, nil
}

// GetHistory implements attendance.EventService. The full history is
// compressed before the limit is applied: windowing first could hide a
// transition that sits just outside the window.
func (s *EventServiceImpl) GetHistory(ctx context.Context, employeeCode string, limit int) ([]attendance.EventResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return []attendance.EventResponse{}, nil
		}
		return nil, err
	}

	events, err := s.eventRepo.ListAllByEmployeeAsc(ctx, emp.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance history: %w", err)
	}

	changes := compressStatusChanges(events)

	// Newest first, then cap
	responses := make([]attendance.EventResponse, 0, limit)
	for i := len(changes) - 1; i >= 0 && len(responses) < limit; i-- {
		resp := attendance.ToEventResponse(changes[i])
		name, code := emp.FullName, emp.EmployeeCode
		resp.EmployeeName = &name
		resp.EmployeeCode = &code
		responses = append(responses, resp)
	}

	return responses, nil
}

// GetMonthlyPresence implements attendance.EventService.
func (s *EventServiceImpl) GetMonthlyPresence(ctx context.Context, employeeCode string, year int, month int) ([]attendance.DayPresence, error) {
	if month < 1 || month > 12 {
		return nil, attendance.ErrInvalidMonth
	}

	emp, err := s.employeeRepo.GetByEmployeeCode(ctx, employeeCode)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return []attendance.DayPresence{}, nil
		}
		return nil, err
	}

	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	events, err := s.eventRepo.ListByEmployeeAsc(ctx, emp.ID, monthStart, monthEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance events for month: %w", err)
	}

	transitions := compressStatusChanges(events)
	return s.buildDailyPresence(transitions), nil
}

// buildDailyPresence walks status transitions in ascending timestamp
// order. A "present" transition opens a session, the following "absent"
// closes it; the duration lands on the day the session started, even
// across midnight. "late" is kept in the log but neither opens nor
// closes a session.
func (s *EventServiceImpl) buildDailyPresence(transitions []attendance.Event) []attendance.DayPresence {
	type dayAccum struct {
		totalMinutes float64
		sessions     []attendance.Session
	}

	daily := make(map[string]*dayAccum)

	var sessionStart *time.Time

	record := func(start, end time.Time, ongoing bool) {
		minutes := end.Sub(start).Minutes()
		day := start.UTC().Format("2006-01-02")
		accum, ok := daily[day]
		if !ok {
			accum = &dayAccum{}
			daily[day] = accum
		}
		accum.totalMinutes += minutes
		accum.sessions = append(accum.sessions, attendance.Session{
			Start:   start,
			End:     end,
			Minutes: int(math.Round(minutes)),
			Ongoing: ongoing,
		})
	}

	for _, event := range transitions {
		switch event.Status {
		case attendance.StatusPresent:
			ts := event.Timestamp
			sessionStart = &ts
		case attendance.StatusAbsent:
			if sessionStart != nil {
				record(*sessionStart, event.Timestamp, false)
				sessionStart = nil
			}
		}
	}

	// Still present at the end of the data: accrue up to now
	if sessionStart != nil {
		record(*sessionStart, s.now(), true)
	}

	result := make([]attendance.DayPresence, 0, len(daily))
	for day, accum := range daily {
		result = append(result, attendance.DayPresence{
			Date:         day,
			TotalMinutes: int(math.Round(accum.totalMinutes)),
			TotalHours:   strconv.FormatFloat(accum.totalMinutes/60, 'f', 2, 64),
			Sessions:     accum.sessions,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})

	return result
}

// UpdateLog implements attendance.EventService.
func (s *EventServiceImpl) UpdateLog(ctx context.Context, req attendance.UpdateLogRequest) (attendance.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EventResponse{}, err
	}

	var status *attendance.Status
	if req.Status != nil {
		converted := attendance.Status(*req.Status)
		status = &converted
	}

	updated, err := s.eventRepo.Update(ctx, req.ID, status, req.Source)
	if err != nil {
		return attendance.EventResponse{}, err
	}

	// The log is authoritative, so a correction re-derives presence.
	s.reconcileBestEffort(ctx, updated.EmployeeID)

	return attendance.ToEventResponse(updated), nil
}

// DeleteLog implements attendance.EventService.
func (s *EventServiceImpl) DeleteLog(ctx context.Context, id string) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.reconcileBestEffort(ctx, event.EmployeeID)
	return nil
}

func (s *EventServiceImpl) reconcileBestEffort(ctx context.Context, employeeID string) {
	if err := s.reconciler.Reconcile(ctx, employeeID); err != nil {
		slog.Error("Failed to reconcile presence after log write",
			"employee_id", employeeID, "error", err)
	}
}

// compressStatusChanges reduces a timestamp-ordered event stream to the
// events whose status differs from the immediately preceding one. The
// first event always counts as a change.
func compressStatusChanges(events []attendance.Event) []attendance.Event {
	var changes []attendance.Event
	var lastStatus *attendance.Status
	for _, event := range events {
		if lastStatus == nil || event.Status != *lastStatus {
			changes = append(changes, event)
			status := event.Status
			lastStatus = &status
		}
	}
	return changes
}
