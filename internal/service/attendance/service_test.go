package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/notification"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
	"github.com/cmlabs-hris/wfo-tracker/internal/repository/memory"
	locationService "github.com/cmlabs-hris/wfo-tracker/internal/service/location"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testZone   = time.FixedZone("CST", 8*3600)
	testOffice = location.Office{Latitude: 34.2098056, Longitude: 108.8379444, RadiusMeters: 800}

	atOffice = &location.Position{Latitude: 34.2098056, Longitude: 108.8379444}
	atHome   = &location.Position{Latitude: 34.2500000, Longitude: 108.9500000}
)

type recordingSink struct {
	mu       sync.Mutex
	requests []notification.NotifyRequest
}

func (s *recordingSink) Notify(ctx context.Context, req notification.NotifyRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type fixture struct {
	svc   *AttendanceServiceImpl
	repo  attendance.AttendanceRepository
	clock *clock.Fixed
	sink  *recordingSink
}

// Monday 2025-03-03 10:00 local time.
func newFixture(t *testing.T, pos *location.Position) *fixture {
	t.Helper()
	clk := clock.NewFixed(time.Date(2025, 3, 3, 10, 0, 0, 0, testZone))
	repo := memory.NewAttendanceRepository()
	sink := &recordingSink{}
	svc := NewAttendanceService(repo, locationService.NewStaticSource(pos), sink, clk, Config{
		Office:   testOffice,
		Calendar: workday.NewCalendar(testZone),
	})
	return &fixture{svc: svc, repo: repo, clock: clk, sink: sink}
}

func (f *fixture) seed(t *testing.T, mode attendance.WorkMode, typ attendance.RecordType) attendance.AttendanceRecord {
	t.Helper()
	created := time.Date(2025, 3, 3, 9, 5, 0, 0, testZone)
	rec, err := f.repo.Upsert(context.Background(), attendance.AttendanceRecord{
		Date:       f.svc.Today(),
		IsPresent:  true,
		RecordType: typ,
		WorkMode:   mode,
		CreatedAt:  created,
		UpdatedAt:  created,
	})
	require.NoError(t, err)
	return rec
}

func (f *fixture) today(t *testing.T) *attendance.AttendanceRecord {
	t.Helper()
	rec, err := f.repo.GetByDate(context.Background(), f.svc.Today())
	require.NoError(t, err)
	return rec
}

func TestDetectAndRecord_NoRecord_AtOffice_RecordsWFO(t *testing.T) {
	f := newFixture(t, atOffice)

	result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
	require.NoError(t, err)

	assert.Equal(t, attendance.DetectionSuccess, result.Status)
	assert.True(t, result.Written)
	assert.Equal(t, attendance.WorkModeWFO, result.WorkMode)
	require.NotNil(t, result.DistanceMeters)
	assert.InDelta(t, 0, *result.DistanceMeters, 0.001)

	rec := f.today(t)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.WorkModeWFO, rec.WorkMode)
	assert.Equal(t, attendance.RecordTypeAuto, rec.RecordType)
	assert.True(t, rec.IsPresent)
	require.NotNil(t, rec.Location)
	assert.Equal(t, "GPS auto-detected", *rec.Location)
	require.NotNil(t, rec.Note)
	assert.Equal(t, "Distance to office: 0m", *rec.Note)
	assert.Equal(t, "2025-03-03", workday.Key(rec.Date))
	assert.Equal(t, 1, f.sink.count())
}

func TestDetectAndRecord_NoRecord_AtHome_RecordsWFH(t *testing.T) {
	f := newFixture(t, atHome)

	result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
	require.NoError(t, err)

	assert.Equal(t, attendance.DetectionSuccess, result.Status)
	assert.Equal(t, attendance.WorkModeWFH, result.WorkMode)
	require.NotNil(t, result.DistanceMeters)
	assert.Greater(t, *result.DistanceMeters, 800.0)

	rec := f.today(t)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.WorkModeWFH, rec.WorkMode)
	assert.Equal(t, attendance.RecordTypeAuto, rec.RecordType)
}

func TestDetectAndRecord_UpgradesAutoWFHToWFO(t *testing.T) {
	f := newFixture(t, atOffice)
	seeded := f.seed(t, attendance.WorkModeWFH, attendance.RecordTypeAuto)
	f.clock.Advance(time.Hour)

	result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
	require.NoError(t, err)
	assert.True(t, result.Written)

	rec := f.today(t)
	require.NotNil(t, rec)
	assert.Equal(t, attendance.WorkModeWFO, rec.WorkMode)
	assert.Equal(t, seeded.CreatedAt, rec.CreatedAt)
	assert.Equal(t, f.clock.Now(), rec.UpdatedAt)
}

func TestDetectAndRecord_WFOIsNeverDowngraded(t *testing.T) {
	for _, force := range []bool{false, true} {
		f := newFixture(t, atHome)
		seeded := f.seed(t, attendance.WorkModeWFO, attendance.RecordTypeAuto)

		result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{Force: force})
		require.NoError(t, err)

		assert.Equal(t, attendance.DetectionSkipped, result.Status)
		assert.Equal(t, attendance.SkipAlreadyRecorded, result.Reason)
		assert.False(t, result.Written)

		rec := f.today(t)
		require.NotNil(t, rec)
		assert.Equal(t, seeded, *rec)
		assert.Equal(t, 0, f.sink.count())
	}
}

func TestDetectAndRecord_LeaveIsNeverOverwritten(t *testing.T) {
	for _, force := range []bool{false, true} {
		f := newFixture(t, atOffice)
		f.seed(t, attendance.WorkModeLeave, attendance.RecordTypeManual)

		result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{Force: force})
		require.NoError(t, err)
		assert.Equal(t, attendance.SkipAlreadyRecorded, result.Reason)
		assert.Equal(t, attendance.WorkModeLeave, f.today(t).WorkMode)
	}
}

func TestDetectAndRecord_ExistingWFOWithWFOVerdictIsSkipped(t *testing.T) {
	f := newFixture(t, atOffice)
	f.seed(t, attendance.WorkModeWFO, attendance.RecordTypeAuto)

	result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.SkipAlreadyRecorded, result.Reason)
	require.NotNil(t, result.Record)
	assert.Equal(t, attendance.WorkModeWFO, result.Record.WorkMode)
}

func TestDetectAndRecord_UpgradesManualWFHToWFO(t *testing.T) {
	f := newFixture(t, atOffice)
	f.seed(t, attendance.WorkModeWFH, attendance.RecordTypeManual)

	result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.DetectionSuccess, result.Status)
	assert.True(t, result.Written)

	rec := f.today(t)
	assert.Equal(t, attendance.WorkModeWFO, rec.WorkMode)
	assert.Equal(t, attendance.RecordTypeAuto, rec.RecordType)
}

func TestDetectAndRecord_ManualWFHNotDowngradedWithoutForce(t *testing.T) {
	f := newFixture(t, atHome)
	seeded := f.seed(t, attendance.WorkModeWFH, attendance.RecordTypeManual)

	result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
	require.NoError(t, err)
	assert.False(t, result.Written)
	assert.Equal(t, attendance.RecordTypeManual, f.today(t).RecordType)
	assert.Equal(t, seeded.UpdatedAt, f.today(t).UpdatedAt)
}

func TestDetectAndRecord_WFHOverWFHNeedsForce(t *testing.T) {
	f := newFixture(t, atHome)
	seeded := f.seed(t, attendance.WorkModeWFH, attendance.RecordTypeAuto)
	f.clock.Advance(30 * time.Minute)

	result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.SkipAlreadyRecorded, result.Reason)
	assert.Equal(t, seeded.UpdatedAt, f.today(t).UpdatedAt)

	result, err = f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{Force: true})
	require.NoError(t, err)
	assert.True(t, result.Written)
	rec := f.today(t)
	assert.Equal(t, attendance.WorkModeWFH, rec.WorkMode)
	assert.Equal(t, f.clock.Now(), rec.UpdatedAt)
	assert.Equal(t, seeded.CreatedAt, rec.CreatedAt)
}

func TestDetectAndRecord_NoFixIsSkippedWithoutWrite(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.DetectionSkipped, result.Status)
	assert.Equal(t, attendance.SkipNoFix, result.Reason)
	assert.Nil(t, result.DistanceMeters)
	assert.Nil(t, f.today(t))
}

func TestDetectAndRecord_CancelledContextIsAnError(t *testing.T) {
	f := newFixture(t, atOffice)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.DetectAndRecord(ctx, attendance.DetectRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetectAndRecord_Window(t *testing.T) {
	tests := []struct {
		name   string
		now    time.Time
		reason attendance.SkipReason
	}{
		{"before start", time.Date(2025, 3, 3, 8, 59, 0, 0, testZone), attendance.SkipOutsideHours},
		{"after end", time.Date(2025, 3, 3, 18, 31, 0, 0, testZone), attendance.SkipOutsideHours},
		{"saturday", time.Date(2025, 3, 8, 10, 0, 0, 0, testZone), attendance.SkipNotWorkday},
		{"sunday", time.Date(2025, 3, 9, 10, 0, 0, 0, testZone), attendance.SkipNotWorkday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, atOffice)
			f.clock.Set(tt.now)

			result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.reason, result.Reason)
			assert.Nil(t, f.today(t))

			result, err = f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{IgnoreWindow: true})
			require.NoError(t, err)
			assert.True(t, result.Written)
		})
	}
}

func TestDetectAndRecord_WindowEdgesAreInclusive(t *testing.T) {
	for _, now := range []time.Time{
		time.Date(2025, 3, 3, 9, 0, 0, 0, testZone),
		time.Date(2025, 3, 3, 18, 30, 0, 0, testZone),
	} {
		f := newFixture(t, atOffice)
		f.clock.Set(now)

		result, err := f.svc.DetectAndRecord(context.Background(), attendance.DetectRequest{})
		require.NoError(t, err)
		assert.True(t, result.Written, now.String())
	}
}

func TestRecordDistance_RadiusBoundary(t *testing.T) {
	f := newFixture(t, nil)
	date := f.svc.Today()

	result, err := f.svc.RecordDistance(context.Background(), date, 800, false)
	require.NoError(t, err)
	assert.Equal(t, attendance.WorkModeWFO, result.WorkMode)

	f = newFixture(t, nil)
	result, err = f.svc.RecordDistance(context.Background(), date, 800.0001, false)
	require.NoError(t, err)
	assert.Equal(t, attendance.WorkModeWFH, result.WorkMode)
	require.NotNil(t, result.Record)
	require.NotNil(t, result.Record.Note)
	assert.Equal(t, "Distance to office: 800m", *result.Record.Note)
}

func TestRecordDistance_ConcurrentCallsWriteOnce(t *testing.T) {
	f := newFixture(t, nil)
	date := f.svc.Today()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		written int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.svc.RecordDistance(context.Background(), date, 10, false)
			assert.NoError(t, err)
			if result.Written {
				mu.Lock()
				written++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, written)
	records, err := f.repo.ListInRange(context.Background(), date, date)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMarkManual_OverridesAnything(t *testing.T) {
	f := newFixture(t, nil)
	seeded := f.seed(t, attendance.WorkModeWFO, attendance.RecordTypeAuto)
	note := "dentist"

	resp, err := f.svc.MarkManual(context.Background(), attendance.MarkAttendanceRequest{
		Date:     "2025-03-03",
		WorkMode: "leave",
		Note:     &note,
	})
	require.NoError(t, err)
	assert.Equal(t, "LEAVE", resp.WorkMode)
	assert.Equal(t, "MANUAL", resp.RecordType)

	rec := f.today(t)
	assert.Equal(t, attendance.WorkModeLeave, rec.WorkMode)
	assert.Equal(t, seeded.CreatedAt, rec.CreatedAt)
	require.NotNil(t, rec.Note)
	assert.Equal(t, "dentist", *rec.Note)
	assert.Equal(t, 1, f.sink.count())
}

func TestMarkManual_TwiceKeepsOneRecord(t *testing.T) {
	f := newFixture(t, nil)
	req := attendance.MarkAttendanceRequest{Date: "2025-03-03", WorkMode: "WFO"}

	_, err := f.svc.MarkManual(context.Background(), req)
	require.NoError(t, err)
	first := f.today(t)
	require.NotNil(t, first)

	f.clock.Advance(time.Minute)
	_, err = f.svc.MarkManual(context.Background(), req)
	require.NoError(t, err)

	date := f.svc.Today()
	records, err := f.repo.ListInRange(context.Background(), date, date)
	require.NoError(t, err)
	require.Len(t, records, 1)

	second := records[0]
	assert.Equal(t, attendance.WorkModeWFO, second.WorkMode)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, second.UpdatedAt.Equal(first.UpdatedAt.Add(time.Minute)))
}

func TestMarkManual_InvalidInput(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.MarkManual(context.Background(), attendance.MarkAttendanceRequest{Date: "03/03/2025", WorkMode: "WFO"})
	assert.Error(t, err)

	_, err = f.svc.MarkManual(context.Background(), attendance.MarkAttendanceRequest{Date: "2025-03-03", WorkMode: "OFFICE"})
	assert.Error(t, err)
	assert.Nil(t, f.today(t))
}

func TestToggle(t *testing.T) {
	f := newFixture(t, nil)

	resp, err := f.svc.Toggle(context.Background(), "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "WFO", resp.WorkMode)
	assert.Equal(t, "MANUAL", resp.RecordType)

	resp, err = f.svc.Toggle(context.Background(), "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "WFH", resp.WorkMode)

	resp, err = f.svc.Toggle(context.Background(), "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "WFO", resp.WorkMode)
}

func TestToggle_LeaveBecomesWFO(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, attendance.WorkModeLeave, attendance.RecordTypeManual)

	resp, err := f.svc.Toggle(context.Background(), "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "WFO", resp.WorkMode)
}

func TestGetAndDeleteAttendance(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.GetAttendance(context.Background(), "2025-03-03")
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)

	_, err = f.svc.GetAttendance(context.Background(), "not-a-date")
	assert.ErrorIs(t, err, attendance.ErrInvalidDate)

	f.seed(t, attendance.WorkModeWFH, attendance.RecordTypeAuto)
	resp, err := f.svc.GetAttendance(context.Background(), "2025-03-03")
	require.NoError(t, err)
	assert.Equal(t, "WFH", resp.WorkMode)

	require.NoError(t, f.svc.DeleteAttendance(context.Background(), "2025-03-03"))
	require.NoError(t, f.svc.DeleteAttendance(context.Background(), "2025-03-03"))
	assert.Nil(t, f.today(t))
}

// lockTrackingRepository fails deletes that run outside WithinDateLock.
type lockTrackingRepository struct {
	attendance.AttendanceRepository

	mu     sync.Mutex
	locked bool
}

func (r *lockTrackingRepository) WithinDateLock(ctx context.Context, date time.Time, fn func(ctx context.Context) error) error {
	return r.AttendanceRepository.WithinDateLock(ctx, date, func(ctx context.Context) error {
		r.mu.Lock()
		r.locked = true
		r.mu.Unlock()
		defer func() {
			r.mu.Lock()
			r.locked = false
			r.mu.Unlock()
		}()
		return fn(ctx)
	})
}

func (r *lockTrackingRepository) DeleteByDate(ctx context.Context, date time.Time) error {
	r.mu.Lock()
	locked := r.locked
	r.mu.Unlock()
	if !locked {
		return errors.New("delete outside date lock")
	}
	return r.AttendanceRepository.DeleteByDate(ctx, date)
}

func TestDeleteAttendance_RunsUnderDateLock(t *testing.T) {
	f := newFixture(t, nil)
	f.seed(t, attendance.WorkModeWFO, attendance.RecordTypeManual)

	repo := &lockTrackingRepository{AttendanceRepository: f.repo}
	svc := NewAttendanceService(repo, locationService.NewStaticSource(nil), f.sink, f.clock, Config{
		Office:   testOffice,
		Calendar: workday.NewCalendar(testZone),
	})

	require.NoError(t, svc.DeleteAttendance(context.Background(), "2025-03-03"))
	assert.Nil(t, f.today(t))
}

func TestListAttendance(t *testing.T) {
	f := newFixture(t, nil)
	for _, date := range []string{"2025-02-28", "2025-03-03", "2025-03-04", "2025-03-31"} {
		_, err := f.svc.MarkManual(context.Background(), attendance.MarkAttendanceRequest{Date: date, WorkMode: "WFO"})
		require.NoError(t, err)
	}

	resp, err := f.svc.ListAttendance(context.Background(), attendance.AttendanceFilter{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", resp.StartDate)
	assert.Equal(t, "2025-03-31", resp.EndDate)
	assert.Equal(t, 3, resp.TotalCount)
	assert.Equal(t, "2025-03-03", resp.Attendances[0].Date)

	start, end := "2025-02-01", "2025-03-03"
	resp, err = f.svc.ListAttendance(context.Background(), attendance.AttendanceFilter{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TotalCount)

	_, err = f.svc.ListAttendance(context.Background(), attendance.AttendanceFilter{StartDate: &end, EndDate: &start})
	assert.ErrorIs(t, err, attendance.ErrInvalidRange)
}
