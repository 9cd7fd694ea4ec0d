package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/notification"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/utils"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
)

const (
	autoLocationLabel = "GPS auto-detected"
	// DefaultLocationTimeout is how long a detection waits for a position fix.
	DefaultLocationTimeout = 3 * time.Second
)

// Config holds the decision engine settings.
type Config struct {
	Office          location.Office
	Calendar        workday.Calendar
	LocationTimeout time.Duration
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	source   location.Source
	notifier notification.Sink
	clock    clock.Clock
	config   Config

	// dateLocks serializes read-decide-write per date key within the process.
	dateLocks sync.Map
}

func NewAttendanceService(
	repo attendance.AttendanceRepository,
	source location.Source,
	notifier notification.Sink,
	clk clock.Clock,
	cfg Config,
) *AttendanceServiceImpl {
	if clk == nil {
		clk = clock.System()
	}
	if cfg.LocationTimeout <= 0 {
		cfg.LocationTimeout = DefaultLocationTimeout
	}
	if cfg.Calendar.Location == nil {
		cfg.Calendar = workday.NewCalendar(time.UTC)
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: repo,
		source:               source,
		notifier:             notifier,
		clock:                clk,
		config:               cfg,
	}
}

// Today returns the current calendar day in the configured zone.
func (s *AttendanceServiceImpl) Today() time.Time {
	return s.config.Calendar.DateOf(s.clock.Now())
}

// DetectAndRecord implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DetectAndRecord(ctx context.Context, req attendance.DetectRequest) (attendance.DetectionResult, error) {
	now := s.clock.Now()
	today := s.config.Calendar.DateOf(now)

	if !req.IgnoreWindow {
		if !s.config.Calendar.IsWorkday(now) {
			slog.Debug("Detection skipped: not a workday", "date", workday.Key(today))
			return skipped(today, attendance.SkipNotWorkday), nil
		}
		if !s.config.Calendar.WithinWorkHours(now) {
			slog.Debug("Detection skipped: outside work hours", "date", workday.Key(today))
			return skipped(today, attendance.SkipOutsideHours), nil
		}
	}

	pos, err := s.source.RequestPosition(ctx, s.config.LocationTimeout)
	if err != nil {
		if errors.Is(err, location.ErrNoFix) {
			slog.Info("Detection skipped: no position fix", "date", workday.Key(today), "timeout", s.config.LocationTimeout)
			return skipped(today, attendance.SkipNoFix), nil
		}
		return attendance.DetectionResult{}, fmt.Errorf("failed to request position: %w", err)
	}

	distance := utils.CalculateHaversineDistance(
		pos.Latitude, pos.Longitude,
		s.config.Office.Latitude, s.config.Office.Longitude,
	)

	return s.reconcile(ctx, today, distance, req.Force)
}

// RecordDistance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RecordDistance(ctx context.Context, date time.Time, distanceMeters float64, force bool) (attendance.DetectionResult, error) {
	return s.reconcile(ctx, s.config.Calendar.DateOf(date), distanceMeters, force)
}

// reconcile applies the auto-detection rules for date:
//   - within radius: WFO, replaces any WFH record
//   - outside radius: WFH, only when there is no record, or replacing a WFH record when forced
//   - WFO and LEAVE records are never touched
func (s *AttendanceServiceImpl) reconcile(ctx context.Context, date time.Time, distance float64, force bool) (attendance.DetectionResult, error) {
	mode := attendance.WorkModeWFH
	if utils.WithinRadius(distance, s.config.Office.RadiusMeters) {
		mode = attendance.WorkModeWFO
	}

	result := attendance.DetectionResult{
		Status:         attendance.DetectionSkipped,
		Reason:         attendance.SkipAlreadyRecorded,
		Date:           date,
		WorkMode:       mode,
		DistanceMeters: &distance,
	}

	unlock := s.lockDate(date)
	defer unlock()

	err := s.AttendanceRepository.WithinDateLock(ctx, date, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.GetByDate(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to get attendance for %s: %w", workday.Key(date), err)
		}

		if !canAutoReplace(existing, mode, force) {
			result.Record = existing
			return nil
		}

		note := fmt.Sprintf("Distance to office: %dm", int(math.Round(distance)))
		label := autoLocationLabel
		record, err := s.upsert(ctx, existing, attendance.AttendanceRecord{
			Date:       date,
			IsPresent:  true,
			RecordType: attendance.RecordTypeAuto,
			WorkMode:   mode,
			Location:   &label,
			Note:       &note,
		})
		if err != nil {
			return err
		}

		result.Status = attendance.DetectionSuccess
		result.Reason = ""
		result.Written = true
		result.Record = &record
		return nil
	})
	if err != nil {
		return attendance.DetectionResult{}, err
	}

	if result.Written {
		slog.Info("Attendance auto-recorded",
			"date", workday.Key(date),
			"work_mode", mode,
			"distance_meters", int(math.Round(distance)))
		s.notify(ctx, notification.TypeAttendanceRecorded, date,
			"Attendance recorded",
			fmt.Sprintf("%s detected, %dm from office", mode, int(math.Round(distance))))
	} else {
		slog.Info("Detection skipped: already recorded",
			"date", workday.Key(date),
			"verdict", mode,
			"existing", result.Record.WorkMode)
	}

	return result, nil
}

func canAutoReplace(existing *attendance.AttendanceRecord, mode attendance.WorkMode, force bool) bool {
	if existing == nil {
		return true
	}
	if existing.IsTerminalForAuto() {
		return false
	}
	// existing is WFH
	return mode == attendance.WorkModeWFO || force
}

// MarkManual implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkManual(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := s.config.Calendar.ParseDate(req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidDate
	}
	mode, err := attendance.ParseWorkMode(req.WorkMode)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.writeManual(ctx, date, func(*attendance.AttendanceRecord) attendance.AttendanceRecord {
		return attendance.AttendanceRecord{
			Date:       date,
			IsPresent:  true,
			RecordType: attendance.RecordTypeManual,
			WorkMode:   mode,
			Location:   req.Location,
			Note:       req.Note,
		}
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(record), nil
}

// Toggle implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Toggle(ctx context.Context, dateStr string) (attendance.AttendanceResponse, error) {
	date, err := s.config.Calendar.ParseDate(dateStr)
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidDate
	}

	record, err := s.writeManual(ctx, date, func(existing *attendance.AttendanceRecord) attendance.AttendanceRecord {
		next := attendance.AttendanceRecord{
			Date:       date,
			IsPresent:  true,
			RecordType: attendance.RecordTypeManual,
			WorkMode:   attendance.WorkModeWFO,
		}
		if existing != nil {
			next.Location = existing.Location
			next.Note = existing.Note
			if existing.WorkMode == attendance.WorkModeWFO {
				next.WorkMode = attendance.WorkModeWFH
			}
		}
		return next
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(record), nil
}

func (s *AttendanceServiceImpl) writeManual(ctx context.Context, date time.Time, build func(existing *attendance.AttendanceRecord) attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	unlock := s.lockDate(date)
	defer unlock()

	var record attendance.AttendanceRecord
	err := s.AttendanceRepository.WithinDateLock(ctx, date, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.GetByDate(ctx, date)
		if err != nil {
			return fmt.Errorf("failed to get attendance for %s: %w", workday.Key(date), err)
		}
		record, err = s.upsert(ctx, existing, build(existing))
		return err
	})
	if err != nil {
		return attendance.AttendanceRecord{}, err
	}

	slog.Info("Attendance manually recorded", "date", workday.Key(date), "work_mode", record.WorkMode)
	s.notify(ctx, notification.TypeAttendanceManual, date,
		"Attendance updated",
		fmt.Sprintf("%s marked as %s", workday.Key(date), record.WorkMode))

	return record, nil
}

func (s *AttendanceServiceImpl) upsert(ctx context.Context, existing *attendance.AttendanceRecord, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	now := s.clock.Now()
	record.CreatedAt = now
	if existing != nil {
		record.CreatedAt = existing.CreatedAt
	}
	record.UpdatedAt = now

	saved, err := s.AttendanceRepository.Upsert(ctx, record)
	if err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to save attendance for %s: %w", workday.Key(record.Date), err)
	}
	return saved, nil
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, dateStr string) (attendance.AttendanceResponse, error) {
	date, err := s.config.Calendar.ParseDate(dateStr)
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.ErrInvalidDate
	}

	record, err := s.AttendanceRepository.GetByDate(ctx, date)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	if record == nil {
		return attendance.AttendanceResponse{}, attendance.ErrRecordNotFound
	}

	return attendance.ToResponse(*record), nil
}

// ListAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	today := s.Today()
	start := s.config.Calendar.MonthStart(today)
	end := s.config.Calendar.MonthEnd(today)

	if filter.StartDate != nil && *filter.StartDate != "" {
		start, _ = s.config.Calendar.ParseDate(*filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		end, _ = s.config.Calendar.ParseDate(*filter.EndDate)
	}
	if start.After(end) {
		return attendance.ListAttendanceResponse{}, attendance.ErrInvalidRange
	}

	records, err := s.AttendanceRepository.ListInRange(ctx, start, end)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	items := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		items = append(items, attendance.ToResponse(r))
	}

	return attendance.ListAttendanceResponse{
		StartDate:   workday.Key(start),
		EndDate:     workday.Key(end),
		TotalCount:  len(items),
		Attendances: items,
	}, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, dateStr string) error {
	date, err := s.config.Calendar.ParseDate(dateStr)
	if err != nil {
		return attendance.ErrInvalidDate
	}

	unlock := s.lockDate(date)
	defer unlock()

	err = s.AttendanceRepository.WithinDateLock(ctx, date, func(ctx context.Context) error {
		return s.AttendanceRepository.DeleteByDate(ctx, date)
	})
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	slog.Info("Attendance deleted", "date", workday.Key(date))
	return nil
}

func (s *AttendanceServiceImpl) lockDate(date time.Time) func() {
	v, _ := s.dateLocks.LoadOrStore(workday.Key(date), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *AttendanceServiceImpl) notify(ctx context.Context, typ notification.NotificationType, date time.Time, title, message string) {
	if s.notifier == nil {
		return
	}
	err := s.notifier.Notify(ctx, notification.NotifyRequest{
		Type:    typ,
		Date:    date,
		Title:   title,
		Message: message,
	})
	if err != nil {
		slog.Warn("Failed to queue notification", "date", workday.Key(date), "error", err)
	}
}

func skipped(date time.Time, reason attendance.SkipReason) attendance.DetectionResult {
	return attendance.DetectionResult{
		Status: attendance.DetectionSkipped,
		Reason: reason,
		Date:   date,
	}
}
