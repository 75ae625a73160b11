package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/presence-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceEventRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceEventRepository(db *database.DB) attendance.EventRepository {
	return &attendanceEventRepositoryImpl{db: db}
}

const eventColumns = `id, employee_id, status, source, device_id, signal_strength, timestamp, created_at`

// Create implements attendance.EventRepository.
func (a *attendanceEventRepositoryImpl) Create(ctx context.Context, event attendance.Event) (attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_events (employee_id, status, source, device_id, signal_strength, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		event.EmployeeID,
		event.Status,
		event.Source,
		event.DeviceID,
		event.SignalStrength,
		event.Timestamp,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return attendance.Event{}, fmt.Errorf("failed to create attendance event: %w", err)
	}

	return event, nil
}

// GetByID implements attendance.EventRepository.
func (a *attendanceEventRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE id = $1
	`

	var event attendance.Event
	err := q.QueryRow(ctx, query, id).Scan(
		&event.ID, &event.EmployeeID, &event.Status, &event.Source,
		&event.DeviceID, &event.SignalStrength, &event.Timestamp, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to get attendance event by id: %w", err)
	}

	return event, nil
}

// GetLatestByEmployee implements attendance.EventRepository.
func (a *attendanceEventRepositoryImpl) GetLatestByEmployee(ctx context.Context, employeeID string) (*attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_id = $1
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`

	var event attendance.Event
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&event.ID, &event.EmployeeID, &event.Status, &event.Source,
		&event.DeviceID, &event.SignalStrength, &event.Timestamp, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no attendance history
		}
		return nil, fmt.Errorf("failed to get latest attendance event: %w", err)
	}

	return &event, nil
}

// ListLatestPerEmployee implements attendance.EventRepository.
// One query covers all employees: last-event-per-employee via DISTINCT ON.
func (a *attendanceEventRepositoryImpl) ListLatestPerEmployee(ctx context.Context) ([]attendance.EmployeeLatest, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT e.id, e.full_name, e.is_present, e.last_seen,
			   al.status AS last_status,
			   al.timestamp AS last_timestamp
		FROM employees e
		LEFT JOIN (
			SELECT DISTINCT ON (employee_id) employee_id, status, timestamp
			FROM attendance_events
			ORDER BY employee_id, timestamp DESC, id DESC
		) al ON al.employee_id = e.id
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest events per employee: %w", err)
	}
	defer rows.Close()

	var result []attendance.EmployeeLatest
	for rows.Next() {
		var row attendance.EmployeeLatest
		if err := rows.Scan(
			&row.EmployeeID, &row.FullName, &row.IsPresent, &row.LastSeen,
			&row.LastStatus, &row.LastTimestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee latest row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

// ListByEmployeeAsc implements attendance.EventRepository.
func (a *attendanceEventRepositoryImpl) ListByEmployeeAsc(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_id = $1
		  AND timestamp >= $2
		  AND timestamp < $3
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListAllByEmployeeAsc implements attendance.EventRepository.
func (a *attendanceEventRepositoryImpl) ListAllByEmployeeAsc(ctx context.Context, employeeID string) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + eventColumns + `
		FROM attendance_events
		WHERE employee_id = $1
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListLogs implements attendance.EventRepository.
func (a *attendanceEventRepositoryImpl) ListLogs(ctx context.Context, filter attendance.LogFilter) ([]attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	baseQuery := `
		SELECT al.id, al.employee_id, al.status, al.source, al.device_id,
			   al.signal_strength, al.timestamp, al.created_at,
			   e.full_name AS employee_name,
			   e.employee_code,
			   e.email AS employee_email,
			   d.name AS department_name
		FROM attendance_events al
		LEFT JOIN employees e ON e.id = al.employee_id
		LEFT JOIN departments d ON d.id = e.department_id
	`

	where := ""
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		where += fmt.Sprintf(" AND al.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	if filter.Date != nil && *filter.Date != "" {
		where += fmt.Sprintf(" AND al.timestamp::date = $%d::date", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}

	if where != "" {
		baseQuery += " WHERE " + where[len(" AND "):]
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	baseQuery += fmt.Sprintf(" ORDER BY al.timestamp DESC, al.id DESC LIMIT $%d", argIdx)
	args = append(args, limit)

	rows, err := q.Query(ctx, baseQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	defer rows.Close()

	var events []attendance.Event
	for rows.Next() {
		var event attendance.Event
		if err := rows.Scan(
			&event.ID, &event.EmployeeID, &event.Status, &event.Source,
			&event.DeviceID, &event.SignalStrength, &event.Timestamp, &event.CreatedAt,
			&event.EmployeeName, &event.EmployeeCode, &event.EmployeeEmail, &event.DepartmentName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance log row: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// Update implements attendance.EventRepository.
func (a *attendanceEventRepositoryImpl) Update(ctx context.Context, id string, status *attendance.Status, source *string) (attendance.Event, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_events
		SET status = COALESCE($1, status),
			source = COALESCE($2, source)
		WHERE id = $3
		RETURNING ` + eventColumns + `
	`

	var event attendance.Event
	err := q.QueryRow(ctx, query, status, source, id).Scan(
		&event.ID, &event.EmployeeID, &event.Status, &event.Source,
		&event.DeviceID, &event.SignalStrength, &event.Timestamp, &event.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Event{}, attendance.ErrEventNotFound
		}
		return attendance.Event{}, fmt.Errorf("failed to update attendance event: %w", err)
	}

	return event, nil
}

// Delete implements attendance.EventRepository.
func (a *attendanceEventRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrEventNotFound
	}

	return nil
}

func scanEvents(rows pgx.Rows) ([]attendance.Event, error) {
	var events []attendance.Event
	for rows.Next() {
		var event attendance.Event
		if err := rows.Scan(
			&event.ID, &event.EmployeeID, &event.Status, &event.Source,
			&event.DeviceID, &event.SignalStrength, &event.Timestamp, &event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance event row: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
