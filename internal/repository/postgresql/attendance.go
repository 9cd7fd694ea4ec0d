package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
	"github.com/jackc/pgx/v5"
)

// attendanceLockClass namespaces the advisory locks taken per date.
const attendanceLockClass = 0x5746

type attendanceRepository struct {
	db       *database.DB
	calendar workday.Calendar
}

func NewAttendanceRepository(db *database.DB, calendar workday.Calendar) attendance.AttendanceRepository {
	return &attendanceRepository{db: db, calendar: calendar}
}

const selectAttendanceColumns = `
	SELECT date, is_present, record_type, work_mode, location, note, created_at, updated_at
	FROM attendance_records
`

// GetByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByDate(ctx context.Context, date time.Time) (*attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	row := q.QueryRow(ctx, selectAttendanceColumns+` WHERE date = $1`, workday.Key(date))
	record, err := r.scan(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}

	return &record, nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepository) Upsert(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_records (
			date, is_present, record_type, work_mode, location, note, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (date) DO UPDATE SET
			is_present = EXCLUDED.is_present,
			record_type = EXCLUDED.record_type,
			work_mode = EXCLUDED.work_mode,
			location = EXCLUDED.location,
			note = EXCLUDED.note,
			updated_at = EXCLUDED.updated_at
		RETURNING date, is_present, record_type, work_mode, location, note, created_at, updated_at
	`

	row := q.QueryRow(ctx, query,
		workday.Key(record.Date),
		record.IsPresent,
		record.RecordType,
		record.WorkMode,
		record.Location,
		record.Note,
		record.CreatedAt,
		record.UpdatedAt,
	)

	saved, err := r.scan(row)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to upsert attendance record: %w", err)
	}

	return saved, nil
}

// DeleteByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM attendance_records WHERE date = $1`, workday.Key(date)); err != nil {
		return fmt.Errorf("failed to delete attendance record: %w", err)
	}

	return nil
}

// ListInRange implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListInRange(ctx context.Context, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, selectAttendanceColumns+` WHERE date BETWEEN $1 AND $2 ORDER BY date ASC`,
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

// WithinDateLock implements attendance.AttendanceRepository. The advisory lock
// is released when the transaction ends.
func (r *attendanceRepository) WithinDateLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	key := int32(date.Year()*10000 + int(date.Month())*100 + date.Day())

	return WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, int32(attendanceLockClass), key); err != nil {
			return fmt.Errorf("failed to lock date %s: %w", workday.Key(date), err)
		}
		return fn(WithTx(ctx, tx))
	})
}

func (r *attendanceRepository) scan(row pgx.Row) (attendance.AttendanceRecord, error) {
	var (
		record attendance.AttendanceRecord
		date   time.Time
	)
	err := row.Scan(
		&date,
		&record.IsPresent,
		&record.RecordType,
		&record.WorkMode,
		&record.Location,
		&record.Note,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	record.Date = r.calendar.Normalize(date)
	return record, nil
}
