package statistics

import "time"

// DefaultRequiredRatio is the share of effective workdays that must be WFO.
const DefaultRequiredRatio = 0.6

// MonthlyStatistics is derived from a month's records on every query.
type MonthlyStatistics struct {
	Month             time.Time
	TotalWorkdays     int
	EffectiveWorkdays int
	LeaveDays         int
	WFODays           int
	WFHDays           int
	RequiredDays      int
	RemainingDays     int
	RemainingWorkdays int
	// CurrentRate is WFODays / EffectiveWorkdays and may exceed 1.
	CurrentRate float64
}
