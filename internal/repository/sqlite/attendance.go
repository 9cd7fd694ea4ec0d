package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
)

type attendanceRepository struct {
	db       *sql.DB
	calendar workday.Calendar
}

func NewAttendanceRepository(db *sql.DB, calendar workday.Calendar) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, calendar: calendar}
}

const selectAttendanceColumns = `
	SELECT date, is_present, record_type, work_mode, location, note, created_at, updated_at
	FROM attendance_records
`

type rowScanner interface {
	Scan(dest ...any) error
}

// GetByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByDate(ctx context.Context, date time.Time) (*attendance.AttendanceRecord, error) {
	q := getQuerier(ctx, r.db)

	record, err := r.scan(q.QueryRowContext(ctx, selectAttendanceColumns+` WHERE date = ?`, workday.Key(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return &record, nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepository) Upsert(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := getQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			date, is_present, record_type, work_mode, location, note, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			is_present = excluded.is_present,
			record_type = excluded.record_type,
			work_mode = excluded.work_mode,
			location = excluded.location,
			note = excluded.note,
			updated_at = excluded.updated_at
		RETURNING date, is_present, record_type, work_mode, location, note, created_at, updated_at
	`

	saved, err := r.scan(q.QueryRowContext(ctx, query,
		workday.Key(record.Date),
		record.IsPresent,
		string(record.RecordType),
		string(record.WorkMode),
		record.Location,
		record.Note,
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
		record.UpdatedAt.UTC().Format(time.RFC3339Nano),
	))
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return saved, nil
}

// DeleteByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	q := getQuerier(ctx, r.db)

	if _, err := q.ExecContext(ctx, `DELETE FROM attendance_records WHERE date = ?`, workday.Key(date)); err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}
	return nil
}

// ListInRange implements attendance.AttendanceRepository. Date keys sort
// lexically in calendar order.
func (r *attendanceRepository) ListInRange(ctx context.Context, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	q := getQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, selectAttendanceColumns+` WHERE date >= ? AND date <= ? ORDER BY date ASC`,
		workday.Key(start), workday.Key(end))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.AttendanceRecord, 0)
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance records: %w", err)
	}

	return records, nil
}

// WithinDateLock implements attendance.AttendanceRepository. The immediate
// transaction holds the database write lock, which covers every date.
func (r *attendanceRepository) WithinDateLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	return withTransaction(ctx, r.db, fn)
}

func (r *attendanceRepository) scan(row rowScanner) (attendance.AttendanceRecord, error) {
	var (
		record               attendance.AttendanceRecord
		date                 string
		recordType, workMode string
		location, note       sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&date, &record.IsPresent, &recordType, &workMode, &location, &note, &createdAt, &updatedAt); err != nil {
		return attendance.AttendanceRecord{}, err
	}

	var err error
	if record.Date, err = r.calendar.ParseDate(date); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}
	if record.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("invalid updated_at %q: %w", updatedAt, err)
	}

	record.RecordType = attendance.RecordType(recordType)
	record.WorkMode = attendance.WorkMode(workMode)
	if location.Valid {
		record.Location = &location.String
	}
	if note.Valid {
		record.Note = &note.String
	}
	return record, nil
}
