package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
)

type attendanceRepositoryImpl struct {
	mu      sync.RWMutex
	records map[string]attendance.AttendanceRecord

	dateLocks sync.Map
}

// NewAttendanceRepository returns a process-local store. Nothing survives a restart.
func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{
		records: make(map[string]attendance.AttendanceRecord),
	}
}

// GetByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByDate(ctx context.Context, date time.Time) (*attendance.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[workday.Key(date)]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Upsert(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := workday.Key(record.Date)
	if existing, ok := r.records[key]; ok {
		record.CreatedAt = existing.CreatedAt
	}
	r.records[key] = record
	return record, nil
}

// DeleteByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) DeleteByDate(ctx context.Context, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.records, workday.Key(date))
	return nil
}

// ListInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListInRange(ctx context.Context, start, end time.Time) ([]attendance.AttendanceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, to := workday.Key(start), workday.Key(end)
	records := make([]attendance.AttendanceRecord, 0)
	for key, record := range r.records {
		if key >= from && key <= to {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

// WithinDateLock implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) WithinDateLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	v, _ := r.dateLocks.LoadOrStore(workday.Key(date), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	return fn(ctx)
}
