package statistics

import (
	"math"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/statistics"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
)

// ceilEpsilon keeps ceil(20*0.6) at 12 despite float error.
const ceilEpsilon = 1e-9

// Calculator derives monthly compliance figures from a month's records.
type Calculator struct {
	RequiredRatio float64
}

func NewCalculator(ratio float64) Calculator {
	if ratio <= 0 {
		ratio = statistics.DefaultRequiredRatio
	}
	return Calculator{RequiredRatio: ratio}
}

// Calculate computes statistics for the month containing month. Records outside
// that month and records that are not present are ignored. today decides
// RemainingWorkdays, which is only non-zero for the month containing today.
func (c Calculator) Calculate(month time.Time, records []attendance.AttendanceRecord, today time.Time) statistics.MonthlyStatistics {
	start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	end := start.AddDate(0, 1, -1)

	stats := statistics.MonthlyStatistics{Month: start}

	leaveDates := make(map[string]struct{})
	for _, r := range records {
		if !r.IsPresent || r.Date.Year() != start.Year() || r.Date.Month() != start.Month() {
			continue
		}
		switch r.WorkMode {
		case attendance.WorkModeLeave:
			stats.LeaveDays++
			leaveDates[workday.Key(r.Date)] = struct{}{}
		case attendance.WorkModeWFO:
			stats.WFODays++
		case attendance.WorkModeWFH:
			stats.WFHDays++
		}
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if workday.IsWeekday(d) {
			stats.TotalWorkdays++
		}
	}

	stats.EffectiveWorkdays = stats.TotalWorkdays - stats.LeaveDays
	if stats.EffectiveWorkdays > 0 {
		stats.RequiredDays = int(math.Ceil(float64(stats.EffectiveWorkdays)*c.RequiredRatio - ceilEpsilon))
		stats.CurrentRate = float64(stats.WFODays) / float64(stats.EffectiveWorkdays)
	}
	stats.RemainingDays = max(0, stats.RequiredDays-stats.WFODays)

	if today.Year() == start.Year() && today.Month() == start.Month() {
		from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, start.Location()).AddDate(0, 0, 1)
		for d := from; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !workday.IsWeekday(d) {
				continue
			}
			if _, onLeave := leaveDates[workday.Key(d)]; onLeave {
				continue
			}
			stats.RemainingWorkdays++
		}
	}

	return stats
}
