package sweeper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== IN-MEMORY FAKES =====

// fakeEventRepo serves the sweep working set. Create is tracked so tests
// can assert the sweeper never writes to the log.
type fakeEventRepo struct {
	mu          sync.Mutex
	rows        []attendance.EmployeeLatest
	listErr     error
	listDelay   time.Duration
	listCalls   int32
	createCalls int32
	active      int32
	maxActive   int32
}

func (f *fakeEventRepo) ListLatestPerEmployee(ctx context.Context) ([]attendance.EmployeeLatest, error) {
	cur := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		max := atomic.LoadInt32(&f.maxActive)
		if cur <= max || atomic.CompareAndSwapInt32(&f.maxActive, max, cur) {
			break
		}
	}
	atomic.AddInt32(&f.listCalls, 1)

	if f.listDelay > 0 {
		time.Sleep(f.listDelay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]attendance.EmployeeLatest, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeEventRepo) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	atomic.AddInt32(&f.createCalls, 1)
	return event, nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	return attendance.Event{}, attendance.ErrEventNotFound
}

func (f *fakeEventRepo) GetLatestByEmployee(ctx context.Context, employeeID string) (*attendance.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) ListByEmployeeAsc(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) ListAllByEmployeeAsc(ctx context.Context, employeeID string) ([]attendance.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) ListLogs(ctx context.Context, filter attendance.LogFilter) ([]attendance.Event, error) {
	return nil, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, status *attendance.Status, source *string) (attendance.Event, error) {
	return attendance.Event{}, attendance.ErrEventNotFound
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	return attendance.ErrEventNotFound
}

type presenceWrite struct {
	isPresent bool
	lastSeen  *time.Time
}

type fakeEmployeeRepo struct {
	mu      sync.Mutex
	writes  map[string][]presenceWrite
	failIDs map[string]bool
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{
		writes:  make(map[string][]presenceWrite),
		failIDs: make(map[string]bool),
	}
}

func (f *fakeEmployeeRepo) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByEmployeeCode(ctx context.Context, employeeCode string) (employee.Employee, error) {
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) UpdatePresence(ctx context.Context, id string, isPresent bool, lastSeen *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[id] {
		return errors.New("write failed")
	}
	f.writes[id] = append(f.writes[id], presenceWrite{isPresent: isPresent, lastSeen: lastSeen})
	return nil
}

func (f *fakeEmployeeRepo) writesFor(id string) []presenceWrite {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[id]
}

// ===== HELPERS =====

var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func statusPtr(s attendance.Status) *attendance.Status { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func latestRow(isPresent bool, status attendance.Status, age time.Duration) attendance.EmployeeLatest {
	ts := testNow.Add(-age)
	return attendance.EmployeeLatest{
		EmployeeID:    uuid.NewString(),
		FullName:      "Ayu Lestari",
		IsPresent:     isPresent,
		LastSeen:      timePtr(ts),
		LastStatus:    statusPtr(status),
		LastTimestamp: timePtr(ts),
	}
}

func newTestSweeper(eventRepo *fakeEventRepo, employeeRepo *fakeEmployeeRepo, hub *events.Hub, interval time.Duration) *Sweeper {
	s := New(eventRepo, employeeRepo, hub, interval)
	s.now = func() time.Time { return testNow }
	return s
}

// ===== SWEEP TESTS =====

func TestSweeper_RunOnce_CorrectsStalePresent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	row := latestRow(true, attendance.StatusPresent, 11*time.Minute)
	eventRepo := &fakeEventRepo{rows: []attendance.EmployeeLatest{row}}
	employeeRepo := newFakeEmployeeRepo()
	s := newTestSweeper(eventRepo, employeeRepo, nil, time.Minute)

	require.NoError(t, s.RunOnce(ctx))

	writes := employeeRepo.writesFor(row.EmployeeID)
	require.Len(t, writes, 1)
	assert.False(t, writes[0].isPresent)
	// last_seen keeps the event's timestamp, not the sweep time
	require.NotNil(t, writes[0].lastSeen)
	assert.True(t, writes[0].lastSeen.Equal(*row.LastTimestamp))

	// Corrections mutate the materialized state only, never the log
	assert.Equal(t, int32(0), atomic.LoadInt32(&eventRepo.createCalls))
}

func TestSweeper_RunOnce_FreshPresentUntouched(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	row := latestRow(true, attendance.StatusPresent, 5*time.Minute)
	eventRepo := &fakeEventRepo{rows: []attendance.EmployeeLatest{row}}
	employeeRepo := newFakeEmployeeRepo()
	s := newTestSweeper(eventRepo, employeeRepo, nil, time.Minute)

	require.NoError(t, s.RunOnce(ctx))

	assert.Empty(t, employeeRepo.writesFor(row.EmployeeID))
}

func TestSweeper_RunOnce_CorrectsMissedPresence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Fresh present event but the materialized flag still says absent
	row := latestRow(false, attendance.StatusPresent, 2*time.Minute)
	eventRepo := &fakeEventRepo{rows: []attendance.EmployeeLatest{row}}
	employeeRepo := newFakeEmployeeRepo()
	s := newTestSweeper(eventRepo, employeeRepo, nil, time.Minute)

	require.NoError(t, s.RunOnce(ctx))

	writes := employeeRepo.writesFor(row.EmployeeID)
	require.Len(t, writes, 1)
	assert.True(t, writes[0].isPresent)
}

func TestSweeper_RunOnce_NoHistoryMarkedAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	row := attendance.EmployeeLatest{
		EmployeeID: uuid.NewString(),
		FullName:   "Budi Santoso",
		IsPresent:  true,
	}
	eventRepo := &fakeEventRepo{rows: []attendance.EmployeeLatest{row}}
	employeeRepo := newFakeEmployeeRepo()
	s := newTestSweeper(eventRepo, employeeRepo, nil, time.Minute)

	require.NoError(t, s.RunOnce(ctx))

	writes := employeeRepo.writesFor(row.EmployeeID)
	require.Len(t, writes, 1)
	assert.False(t, writes[0].isPresent)
	assert.Nil(t, writes[0].lastSeen)
}

func TestSweeper_RunOnce_SingleFailureDoesNotAbortPass(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bad := latestRow(true, attendance.StatusPresent, 20*time.Minute)
	good := latestRow(true, attendance.StatusPresent, 20*time.Minute)
	eventRepo := &fakeEventRepo{rows: []attendance.EmployeeLatest{bad, good}}
	employeeRepo := newFakeEmployeeRepo()
	employeeRepo.failIDs[bad.EmployeeID] = true
	s := newTestSweeper(eventRepo, employeeRepo, nil, time.Minute)

	require.NoError(t, s.RunOnce(ctx))

	assert.Empty(t, employeeRepo.writesFor(bad.EmployeeID))
	assert.Len(t, employeeRepo.writesFor(good.EmployeeID), 1)
}

func TestSweeper_RunOnce_ListFailureSurfaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	eventRepo := &fakeEventRepo{listErr: errors.New("connection refused")}
	s := newTestSweeper(eventRepo, newFakeEmployeeRepo(), nil, time.Minute)

	assert.Error(t, s.RunOnce(ctx))
}

func TestSweeper_RunOnce_PublishesTransition(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hub := events.NewHub()
	ch, cleanup := hub.Subscribe()
	defer cleanup()

	row := latestRow(true, attendance.StatusPresent, 15*time.Minute)
	eventRepo := &fakeEventRepo{rows: []attendance.EmployeeLatest{row}}
	s := newTestSweeper(eventRepo, newFakeEmployeeRepo(), hub, time.Minute)

	require.NoError(t, s.RunOnce(ctx))

	select {
	case tr := <-ch:
		assert.Equal(t, row.EmployeeID, tr.EmployeeID)
		assert.True(t, tr.From)
		assert.False(t, tr.To)
		assert.Equal(t, "sweep", tr.Origin)
	case <-time.After(time.Second):
		t.Fatal("expected a sweep transition to be published")
	}
}

func TestSweeper_SweepsNeverOverlap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	eventRepo := &fakeEventRepo{listDelay: 30 * time.Millisecond}
	s := newTestSweeper(eventRepo, newFakeEmployeeRepo(), nil, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.RunOnce(ctx))
		}()
	}
	wg.Wait()

	// Sweeps queued behind each other instead of running concurrently
	assert.Equal(t, int32(1), atomic.LoadInt32(&eventRepo.maxActive))
	assert.Equal(t, int32(4), atomic.LoadInt32(&eventRepo.listCalls))
}

// ===== LIFECYCLE TESTS =====

func TestSweeper_StartRunsImmediateSweep(t *testing.T) {
	t.Parallel()

	row := latestRow(true, attendance.StatusPresent, 11*time.Minute)
	eventRepo := &fakeEventRepo{rows: []attendance.EmployeeLatest{row}}
	employeeRepo := newFakeEmployeeRepo()
	s := newTestSweeper(eventRepo, employeeRepo, nil, time.Hour)
	defer s.Stop()

	s.Start()

	// The first sweep runs synchronously inside Start
	assert.Equal(t, int32(1), atomic.LoadInt32(&eventRepo.listCalls))
	assert.Len(t, employeeRepo.writesFor(row.EmployeeID), 1)
}

func TestSweeper_StartIsIdempotent(t *testing.T) {
	t.Parallel()

	eventRepo := &fakeEventRepo{}
	s := newTestSweeper(eventRepo, newFakeEmployeeRepo(), nil, time.Hour)
	defer s.Stop()

	s.Start()
	s.Start()

	// The second Start is a no-op: one immediate sweep, one loop
	assert.Equal(t, int32(1), atomic.LoadInt32(&eventRepo.listCalls))
	assert.True(t, s.GetStatus().IsRunning)
}

func TestSweeper_TicksWhileRunning(t *testing.T) {
	t.Parallel()

	eventRepo := &fakeEventRepo{}
	s := newTestSweeper(eventRepo, newFakeEmployeeRepo(), nil, 10*time.Millisecond)

	s.Start()
	time.Sleep(55 * time.Millisecond)
	s.Stop()

	// Immediate sweep plus several ticks
	assert.GreaterOrEqual(t, atomic.LoadInt32(&eventRepo.listCalls), int32(3))
}

func TestSweeper_StopHaltsTicks(t *testing.T) {
	t.Parallel()

	eventRepo := &fakeEventRepo{}
	s := newTestSweeper(eventRepo, newFakeEmployeeRepo(), nil, 10*time.Millisecond)

	s.Start()
	s.Stop()

	calls := atomic.LoadInt32(&eventRepo.listCalls)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, atomic.LoadInt32(&eventRepo.listCalls))
	assert.False(t, s.GetStatus().IsRunning)

	// Stopping again is a no-op
	s.Stop()
}

func TestSweeper_Restart(t *testing.T) {
	t.Parallel()

	eventRepo := &fakeEventRepo{}
	s := newTestSweeper(eventRepo, newFakeEmployeeRepo(), nil, time.Hour)

	s.Start()
	s.Stop()
	s.Start()
	defer s.Stop()

	assert.Equal(t, int32(2), atomic.LoadInt32(&eventRepo.listCalls))
	assert.True(t, s.GetStatus().IsRunning)
}

func TestSweeper_GetStatus(t *testing.T) {
	t.Parallel()

	s := newTestSweeper(&fakeEventRepo{}, newFakeEmployeeRepo(), nil, 45*time.Second)

	status := s.GetStatus()
	assert.False(t, status.IsRunning)
	assert.Equal(t, int64(45000), status.IntervalMs)
	assert.Nil(t, status.NextTickAt)

	s.Start()
	defer s.Stop()

	status = s.GetStatus()
	assert.True(t, status.IsRunning)
	require.NotNil(t, status.NextTickAt)
	assert.True(t, status.NextTickAt.Equal(testNow.Add(45*time.Second)))
}
