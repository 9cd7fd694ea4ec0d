package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is the date-keyed record store.
type AttendanceRepository interface {
	// GetByDate returns the record for date or nil when there is none.
	GetByDate(ctx context.Context, date time.Time) (*AttendanceRecord, error)

	// Upsert inserts the record or replaces the one with the same date.
	// CreatedAt of an existing row is kept.
	Upsert(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// DeleteByDate removes the record for date. Deleting a missing date is not an error.
	DeleteByDate(ctx context.Context, date time.Time) error

	// ListInRange returns records with start <= date <= end ordered by date.
	ListInRange(ctx context.Context, start, end time.Time) ([]AttendanceRecord, error)

	// WithinDateLock runs fn so that no other WithinDateLock call for the same
	// date interleaves with it. Repository calls made with the ctx passed to fn
	// take part in the same unit of work.
	WithinDateLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error
}
