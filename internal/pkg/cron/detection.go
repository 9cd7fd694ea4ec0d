package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
)

const (
	DefaultDetectionInterval = 30 * time.Minute
	DefaultRetryBackoff      = 15 * time.Minute
)

// DetectionState is where the detection job is between runs.
type DetectionState string

const (
	StateIdle         DetectionState = "idle"
	StatePendingRetry DetectionState = "pending_retry"
)

// Detector runs one auto-detection pass.
type Detector interface {
	DetectAndRecord(ctx context.Context, req attendance.DetectRequest) (attendance.DetectionResult, error)
}

// DetectionStatus is a snapshot of the detection job.
type DetectionStatus struct {
	State      DetectionState
	Attempts   int
	LastRun    time.Time
	NextRun    time.Time
	LastResult *attendance.DetectionResult
}

// DetectionJob drives auto-detection through the work window. A missing fix or
// a failed pass moves it to pending_retry, which re-runs after RetryBackoff
// without limit. Any other outcome returns it to idle on the regular cadence.
type DetectionJob struct {
	detector     Detector
	calendar     workday.Calendar
	clock        clock.Clock
	interval     time.Duration
	retryBackoff time.Duration

	mu     sync.Mutex
	status DetectionStatus
}

func NewDetectionJob(detector Detector, calendar workday.Calendar, clk clock.Clock, interval, retryBackoff time.Duration) *DetectionJob {
	if clk == nil {
		clk = clock.System()
	}
	if interval <= 0 {
		interval = DefaultDetectionInterval
	}
	if retryBackoff <= 0 {
		retryBackoff = DefaultRetryBackoff
	}
	return &DetectionJob{
		detector:     detector,
		calendar:     calendar,
		clock:        clk,
		interval:     interval,
		retryBackoff: retryBackoff,
		status:       DetectionStatus{State: StateIdle},
	}
}

func (j *DetectionJob) Register(scheduler *Scheduler) {
	scheduler.AddAdaptiveJob("attendance_detection", j.Run)
}

// Run performs one pass and returns the delay before the next one.
func (j *DetectionJob) Run(ctx context.Context) (time.Duration, error) {
	now := j.clock.Now()

	if !j.calendar.IsWorkday(now) || !j.calendar.WithinWorkHours(now) {
		delay := j.untilNextWindow(now)
		j.transition(StateIdle, now, delay, nil, true)
		slog.Debug("Detection idle outside work window", "next_run_in", delay)
		return delay, nil
	}

	result, err := j.detector.DetectAndRecord(ctx, attendance.DetectRequest{})
	if err != nil {
		attempts := j.transition(StatePendingRetry, now, j.retryBackoff, nil, false)
		slog.Warn("Detection failed, retry scheduled", "attempt", attempts, "retry_in", j.retryBackoff, "error", err)
		return j.retryBackoff, err
	}

	switch {
	case result.Reason == attendance.SkipNoFix:
		attempts := j.transition(StatePendingRetry, now, j.retryBackoff, &result, false)
		slog.Info("No position fix, retry scheduled", "attempt", attempts, "retry_in", j.retryBackoff)
		return j.retryBackoff, nil

	case result.Record != nil && result.Record.IsTerminalForAuto():
		delay := j.untilNextWindow(now)
		j.transition(StateIdle, now, delay, &result, true)
		slog.Info("Attendance settled for today", "date", workday.Key(result.Date), "work_mode", result.Record.WorkMode, "next_run_in", delay)
		return delay, nil

	case result.Reason == attendance.SkipOutsideHours || result.Reason == attendance.SkipNotWorkday:
		delay := j.untilNextWindow(now)
		j.transition(StateIdle, now, delay, &result, true)
		return delay, nil
	}

	j.transition(StateIdle, now, j.interval, &result, true)
	return j.interval, nil
}

// Status returns a snapshot of the job state.
func (j *DetectionJob) Status() DetectionStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status
}

func (j *DetectionJob) transition(state DetectionState, now time.Time, delay time.Duration, result *attendance.DetectionResult, reset bool) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.status.State = state
	j.status.LastRun = now
	j.status.NextRun = now.Add(delay)
	if result != nil {
		j.status.LastResult = result
	}
	if reset {
		j.status.Attempts = 0
	} else {
		j.status.Attempts++
	}
	return j.status.Attempts
}

// untilNextWindow returns the delay until the start of the next work window
// that begins after now.
func (j *DetectionJob) untilNextWindow(now time.Time) time.Duration {
	today := j.calendar.DateOf(now)
	startHour, startMinute := int(j.calendar.WorkStart)/60, int(j.calendar.WorkStart)%60

	for offset := 0; offset <= 7; offset++ {
		d := today.AddDate(0, 0, offset)
		start := time.Date(d.Year(), d.Month(), d.Day(), startHour, startMinute, 0, 0, j.calendar.Location)
		if start.After(now) && j.calendar.IsWorkday(start) {
			return start.Sub(now)
		}
	}
	return 24 * time.Hour
}
