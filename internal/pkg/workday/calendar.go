package workday

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the key format used for calendar dates everywhere in the app.
const DateLayout = "2006-01-02"

// MonthLayout is the format used for month parameters.
const MonthLayout = "2006-01"

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses "HH:MM" (24h).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseWeekdays parses a comma separated list such as "mon,tue,wed".
func ParseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if len(name) > 3 {
			name = name[:3]
		}
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("invalid weekday %q", part)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("at least one workday is required")
	}
	return days, nil
}

// DefaultWorkdays is Monday through Friday.
func DefaultWorkdays() []time.Weekday {
	return []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}
}

// Calendar holds the time zone, workdays and work-hours window used to bucket
// records by date and to decide whether auto-detection may run.
type Calendar struct {
	Location  *time.Location
	Workdays  []time.Weekday
	WorkStart TimeOfDay
	WorkEnd   TimeOfDay
}

// NewCalendar returns a calendar with the default 09:00-18:30 Mon-Fri window.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{
		Location:  loc,
		Workdays:  DefaultWorkdays(),
		WorkStart: 9 * 60,
		WorkEnd:   18*60 + 30,
	}
}

// DateOf returns the start of the calendar day containing t in the calendar's zone.
func (c Calendar) DateOf(t time.Time) time.Time {
	local := t.In(c.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.Location)
}

// Normalize maps a date from any zone (e.g. a DATE column scanned as UTC)
// onto the same calendar day in the calendar's zone.
func (c Calendar) Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.Location)
}

// ParseDate parses a YYYY-MM-DD key into a calendar day in the calendar's zone.
func (c Calendar) ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), c.Location)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// ParseMonth parses YYYY-MM into the first day of that month.
func (c Calendar) ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, strings.TrimSpace(s), c.Location)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// IsWorkday reports whether t falls on a configured workday.
func (c Calendar) IsWorkday(t time.Time) bool {
	day := t.In(c.Location).Weekday()
	for _, wd := range c.Workdays {
		if wd == day {
			return true
		}
	}
	return false
}

// WithinWorkHours reports whether the wall-clock time of t lies inside
// [WorkStart, WorkEnd], both ends inclusive.
func (c Calendar) WithinWorkHours(t time.Time) bool {
	local := t.In(c.Location)
	minutes := TimeOfDay(local.Hour()*60 + local.Minute())
	return minutes >= c.WorkStart && minutes <= c.WorkEnd
}

// MonthStart returns the first day of the month containing t.
func (c Calendar) MonthStart(t time.Time) time.Time {
	local := t.In(c.Location)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, c.Location)
}

// MonthEnd returns the last day of the month containing t.
func (c Calendar) MonthEnd(t time.Time) time.Time {
	return c.MonthStart(t).AddDate(0, 1, -1)
}

// IsWeekday reports whether t is Monday through Friday. Monthly statistics use
// this fixed rule regardless of the configured detection workdays.
func IsWeekday(t time.Time) bool {
	day := t.Weekday()
	return day >= time.Monday && day <= time.Friday
}

// Key formats a calendar day as YYYY-MM-DD.
func Key(t time.Time) string {
	return t.Format(DateLayout)
}
