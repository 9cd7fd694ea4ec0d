package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/statistics"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
	"golang.org/x/sync/errgroup"
)

// DefaultTrailingMonths is used when no month count is given.
const DefaultTrailingMonths = 12

const maxTrailingMonths = 36

type StatisticsServiceImpl struct {
	repo       attendance.AttendanceRepository
	calculator Calculator
	calendar   workday.Calendar
	clock      clock.Clock
}

func NewStatisticsService(repo attendance.AttendanceRepository, calculator Calculator, calendar workday.Calendar, clk clock.Clock) *StatisticsServiceImpl {
	if clk == nil {
		clk = clock.System()
	}
	return &StatisticsServiceImpl{
		repo:       repo,
		calculator: calculator,
		calendar:   calendar,
		clock:      clk,
	}
}

// Monthly implements statistics.StatisticsService.
func (s *StatisticsServiceImpl) Monthly(ctx context.Context, month string) (statistics.MonthlyStatisticsResponse, error) {
	today := s.calendar.DateOf(s.clock.Now())

	target := s.calendar.MonthStart(today)
	if month != "" {
		parsed, err := s.calendar.ParseMonth(month)
		if err != nil {
			return statistics.MonthlyStatisticsResponse{}, statistics.ErrInvalidMonth
		}
		target = parsed
	}

	stats, err := s.monthly(ctx, target, today)
	if err != nil {
		return statistics.MonthlyStatisticsResponse{}, err
	}
	return statistics.ToResponse(stats, s.calculator.RequiredRatio), nil
}

// Trailing implements statistics.StatisticsService.
func (s *StatisticsServiceImpl) Trailing(ctx context.Context, months int) (statistics.TrailingStatisticsResponse, error) {
	if months == 0 {
		months = DefaultTrailingMonths
	}
	if months < 1 || months > maxTrailingMonths {
		return statistics.TrailingStatisticsResponse{}, statistics.ErrInvalidMonthsCount
	}

	today := s.calendar.DateOf(s.clock.Now())
	current := s.calendar.MonthStart(today)

	results := make([]statistics.MonthlyStatisticsResponse, months)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < months; i++ {
		month := current.AddDate(0, i-months+1, 0)
		g.Go(func() error {
			stats, err := s.monthly(gctx, month, today)
			if err != nil {
				return err
			}
			results[i] = statistics.ToResponse(stats, s.calculator.RequiredRatio)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return statistics.TrailingStatisticsResponse{}, err
	}

	return statistics.TrailingStatisticsResponse{Months: results}, nil
}

// Today implements statistics.StatisticsService.
func (s *StatisticsServiceImpl) Today(ctx context.Context) (statistics.TodaySummaryResponse, error) {
	now := s.clock.Now()
	today := s.calendar.DateOf(now)

	stats, err := s.monthly(ctx, s.calendar.MonthStart(today), today)
	if err != nil {
		return statistics.TodaySummaryResponse{}, err
	}

	record, err := s.repo.GetByDate(ctx, today)
	if err != nil {
		return statistics.TodaySummaryResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	summary := statistics.TodaySummaryResponse{
		Date:            workday.Key(today),
		IsWorkday:       s.calendar.IsWorkday(now),
		WithinWorkHours: s.calendar.WithinWorkHours(now),
		Month:           statistics.ToResponse(stats, s.calculator.RequiredRatio),
	}
	if record != nil {
		resp := attendance.ToResponse(*record)
		summary.Today = &resp
	}
	return summary, nil
}

func (s *StatisticsServiceImpl) monthly(ctx context.Context, month, today time.Time) (statistics.MonthlyStatistics, error) {
	start := s.calendar.MonthStart(month)
	end := s.calendar.MonthEnd(month)

	records, err := s.repo.ListInRange(ctx, start, end)
	if err != nil {
		return statistics.MonthlyStatistics{}, fmt.Errorf("failed to load records for %s: %w", start.Format(workday.MonthLayout), err)
	}
	return s.calculator.Calculate(start, records, today), nil
}
