package workday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shanghai(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Shanghai")
	require.NoError(t, err)
	return loc
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("18:30")
	require.NoError(t, err)
	assert.Equal(t, TimeOfDay(18*60+30), tod)
	assert.Equal(t, "18:30", tod.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
}

func TestParseWeekdays(t *testing.T) {
	days, err := ParseWeekdays("Mon, tue,wednesday,mon")
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}, days)

	_, err = ParseWeekdays("funday")
	assert.Error(t, err)

	_, err = ParseWeekdays(" , ")
	assert.Error(t, err)
}

func TestCalendar_DateOf_UsesConfiguredZone(t *testing.T) {
	cal := NewCalendar(shanghai(t))

	// 2024-03-04 20:00 UTC is already 2024-03-05 04:00 in Shanghai.
	instant := time.Date(2024, 3, 4, 20, 0, 0, 0, time.UTC)
	date := cal.DateOf(instant)

	assert.Equal(t, "2024-03-05", Key(date))
	assert.Equal(t, 0, date.Hour())
	assert.Equal(t, cal.Location, date.Location())
}

func TestCalendar_IsWorkday(t *testing.T) {
	cal := NewCalendar(time.UTC)
	monday := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		offset   int
		expected bool
	}{
		{"Monday", 0, true},
		{"Wednesday", 2, true},
		{"Friday", 4, true},
		{"Saturday", 5, false},
		{"Sunday", 6, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cal.IsWorkday(monday.AddDate(0, 0, tt.offset)))
		})
	}
}

func TestCalendar_WithinWorkHours(t *testing.T) {
	cal := NewCalendar(time.UTC)
	day := func(h, m int) time.Time { return time.Date(2024, 1, 2, h, m, 0, 0, time.UTC) }

	assert.False(t, cal.WithinWorkHours(day(8, 59)))
	assert.True(t, cal.WithinWorkHours(day(9, 0)))
	assert.True(t, cal.WithinWorkHours(day(12, 15)))
	assert.True(t, cal.WithinWorkHours(day(18, 30)))
	assert.False(t, cal.WithinWorkHours(day(18, 31)))
}

func TestCalendar_MonthBounds(t *testing.T) {
	cal := NewCalendar(time.UTC)
	mid := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-02-01", Key(cal.MonthStart(mid)))
	assert.Equal(t, "2024-02-29", Key(cal.MonthEnd(mid)))
}

func TestCalendar_ParseDateAndMonth(t *testing.T) {
	cal := NewCalendar(shanghai(t))

	d, err := cal.ParseDate("2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, cal.Location, d.Location())

	m, err := cal.ParseMonth("2024-05")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Day())

	_, err = cal.ParseDate("2024/05/20")
	assert.Error(t, err)
}

func TestCalendar_Normalize(t *testing.T) {
	cal := NewCalendar(shanghai(t))
	utcMidnight := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	n := cal.Normalize(utcMidnight)
	assert.Equal(t, "2024-07-01", Key(n))
	assert.Equal(t, cal.Location, n.Location())
}
