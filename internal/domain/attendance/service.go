package attendance

import (
	"context"
	"time"
)

// AttendanceService defines the decision engine and record operations.
type AttendanceService interface {
	// DetectAndRecord samples a position, decides WFO/WFH and reconciles the
	// verdict with today's record.
	DetectAndRecord(ctx context.Context, req DetectRequest) (DetectionResult, error)

	// RecordDistance reconciles an already computed distance for date.
	RecordDistance(ctx context.Context, date time.Time, distanceMeters float64, force bool) (DetectionResult, error)

	// MarkManual upserts a MANUAL record unconditionally.
	MarkManual(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)

	// Toggle flips WFO and WFH for date as a MANUAL record.
	Toggle(ctx context.Context, date string) (AttendanceResponse, error)

	// GetAttendance returns the record for date.
	GetAttendance(ctx context.Context, date string) (AttendanceResponse, error)

	// ListAttendance returns records in a date range (defaults to the current month).
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// DeleteAttendance removes the record for date; a missing record is a no-op.
	DeleteAttendance(ctx context.Context, date string) error
}
