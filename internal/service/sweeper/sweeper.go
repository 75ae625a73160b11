package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/presence"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/events"
)

// Status is the sweeper's control-surface snapshot.
type Status struct {
	IsRunning  bool       `json:"isRunning"`
	IntervalMs int64      `json:"intervalMs"`
	NextTickAt *time.Time `json:"nextTickAt,omitempty"`
}

// Sweeper periodically re-derives every employee's materialized presence
// from the attendance log and corrects drift (an employee who left
// silently, a missed mobile report). Callers own the handle: construct
// with New, then Start/Stop/RunOnce explicitly.
type Sweeper struct {
	eventRepo    attendance.EventRepository
	employeeRepo employee.EmployeeRepository
	hub          *events.Hub
	interval     time.Duration
	now          func() time.Time

	mu       sync.Mutex // lifecycle state below
	running  bool
	cancel   context.CancelFunc
	done     chan struct{}
	nextTick time.Time

	sweepMu sync.Mutex // serializes sweeps; a tick never overlaps another
}

func New(
	eventRepo attendance.EventRepository,
	employeeRepo employee.EmployeeRepository,
	hub *events.Hub,
	interval time.Duration,
) *Sweeper {
	return &Sweeper{
		eventRepo:    eventRepo,
		employeeRepo: employeeRepo,
		hub:          hub,
		interval:     interval,
		now:          time.Now,
	}
}

// Start launches the sweep loop. It is idempotent: calling it on a
// running sweeper logs a warning and does nothing. The first sweep runs
// synchronously before the first scheduled tick.
func (s *Sweeper) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		slog.Warn("Presence sweeper is already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.running = true
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	slog.Info("Starting presence sweeper", "interval", s.interval)

	// Immediate run before the first scheduled tick
	s.tick(ctx)

	s.mu.Lock()
	s.nextTick = s.now().Add(s.interval)
	s.mu.Unlock()

	go s.loop(ctx, s.done)
}

// Stop cancels the scheduled tick. An in-flight sweep is allowed to
// finish but will not reschedule itself. Idempotent.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		slog.Warn("Presence sweeper is not running")
		return
	}
	s.running = false
	s.nextTick = time.Time{}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	slog.Info("Stopping presence sweeper")
	cancel()
	<-done
	slog.Info("Presence sweeper stopped")
}

// RunOnce triggers a single sweep. It serializes behind any sweep
// already in flight rather than running concurrently with it.
func (s *Sweeper) RunOnce(ctx context.Context) error {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	corrected, err := s.sweep(ctx)
	if err != nil {
		return err
	}
	slog.Info("Presence sweep completed", "corrected", corrected)
	return nil
}

// GetStatus reports the sweeper's control-surface state.
func (s *Sweeper) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := Status{
		IsRunning:  s.running,
		IntervalMs: s.interval.Milliseconds(),
	}
	if s.running && !s.nextTick.IsZero() {
		next := s.nextTick
		status.NextTickAt = &next
	}
	return status
}

func (s *Sweeper) loop(ctx context.Context, done chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
			s.mu.Lock()
			s.nextTick = s.now().Add(s.interval)
			s.mu.Unlock()
		}
	}
}

// tick runs one sweep unless a previous one is still in flight, in
// which case the tick is skipped. The loop never raises: a failed sweep
// is logged and the next tick proceeds regardless.
func (s *Sweeper) tick(ctx context.Context) {
	if !s.sweepMu.TryLock() {
		slog.Warn("Previous presence sweep still in flight, skipping tick")
		return
	}
	defer s.sweepMu.Unlock()

	start := s.now()
	corrected, err := s.sweep(ctx)
	if err != nil {
		slog.Error("Presence sweep failed", "error", err, "duration", time.Since(start))
		return
	}

	if corrected > 0 {
		slog.Info("Presence sweep corrected employees",
			"corrected", corrected, "duration", time.Since(start))
	} else {
		slog.Debug("Presence sweep found no drift", "duration", time.Since(start))
	}
}

// sweep re-derives presence for every employee from the last event per
// employee, fetched in one query. A single employee's persistence
// failure is logged and skipped so it never aborts the pass over the
// rest.
func (s *Sweeper) sweep(ctx context.Context) (int, error) {
	rows, err := s.eventRepo.ListLatestPerEmployee(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	corrected := 0

	for _, row := range rows {
		shouldBePresent := false
		lastSeen := row.LastSeen

		if row.LastStatus != nil && row.LastTimestamp != nil {
			shouldBePresent = *row.LastStatus == attendance.StatusPresent &&
				now.Sub(*row.LastTimestamp) < presence.FreshnessWindow
			// Correction uses the event's timestamp, not sweep time
			lastSeen = row.LastTimestamp
		}

		if row.IsPresent == shouldBePresent {
			continue
		}

		if err := s.employeeRepo.UpdatePresence(ctx, row.EmployeeID, shouldBePresent, lastSeen); err != nil {
			slog.Error("Failed to correct employee presence",
				"employee_id", row.EmployeeID, "error", err)
			continue
		}

		corrected++
		slog.Info("Corrected employee presence",
			"employee", row.FullName,
			"from", presenceLabel(row.IsPresent),
			"to", presenceLabel(shouldBePresent))

		if s.hub != nil {
			s.hub.Publish(events.Transition{
				EmployeeID: row.EmployeeID,
				FullName:   row.FullName,
				From:       row.IsPresent,
				To:         shouldBePresent,
				LastSeen:   lastSeen,
				ObservedAt: now,
				Origin:     "sweep",
			})
		}
	}

	return corrected, nil
}

func presenceLabel(present bool) string {
	if present {
		return "present"
	}
	return "absent"
}
