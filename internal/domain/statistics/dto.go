package statistics

import (
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
)

// ========== MONTHLY STATISTICS ==========

type MonthlyStatisticsResponse struct {
	Month             string  `json:"month"` // Format: "YYYY-MM"
	TotalWorkdays     int     `json:"total_workdays"`
	EffectiveWorkdays int     `json:"effective_workdays"`
	LeaveDays         int     `json:"leave_days"`
	WFODays           int     `json:"wfo_days"`
	WFHDays           int     `json:"wfh_days"`
	RequiredDays      int     `json:"required_days"`
	RemainingDays     int     `json:"remaining_days"`
	RemainingWorkdays int     `json:"remaining_workdays"`
	CurrentRate       float64 `json:"current_rate"`
	RequiredRate      float64 `json:"required_rate"`
	OnTrack           bool    `json:"on_track"`
}

// ========== TRAILING STATISTICS ==========

type TrailingStatisticsResponse struct {
	Months []MonthlyStatisticsResponse `json:"months"` // oldest first
}

// ========== TODAY SUMMARY ==========

type TodaySummaryResponse struct {
	Date            string                         `json:"date"`
	IsWorkday       bool                           `json:"is_workday"`
	WithinWorkHours bool                           `json:"within_work_hours"`
	Today           *attendance.AttendanceResponse `json:"today,omitempty"`
	Month           MonthlyStatisticsResponse      `json:"month"`
}

// ToResponse converts statistics to the API representation.
func ToResponse(s MonthlyStatistics, requiredRatio float64) MonthlyStatisticsResponse {
	return MonthlyStatisticsResponse{
		Month:             s.Month.Format(workday.MonthLayout),
		TotalWorkdays:     s.TotalWorkdays,
		EffectiveWorkdays: s.EffectiveWorkdays,
		LeaveDays:         s.LeaveDays,
		WFODays:           s.WFODays,
		WFHDays:           s.WFHDays,
		RequiredDays:      s.RequiredDays,
		RemainingDays:     s.RemainingDays,
		RemainingWorkdays: s.RemainingWorkdays,
		CurrentRate:       s.CurrentRate,
		RequiredRate:      requiredRatio,
		// Achievable when the outstanding WFO days still fit in the month.
		OnTrack: s.RemainingDays == 0 || s.RemainingDays <= s.RemainingWorkdays,
	}
}
