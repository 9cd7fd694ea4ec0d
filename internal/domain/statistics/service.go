package statistics

import "context"

// StatisticsService computes compliance statistics on demand.
type StatisticsService interface {
	// Monthly returns statistics for month (YYYY-MM, empty for the current month).
	Monthly(ctx context.Context, month string) (MonthlyStatisticsResponse, error)

	// Trailing returns the last n months including the current one, oldest first.
	Trailing(ctx context.Context, months int) (TrailingStatisticsResponse, error)

	// Today returns today's record and the current month's statistics.
	Today(ctx context.Context) (TodaySummaryResponse, error)
}
