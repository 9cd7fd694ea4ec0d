package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/wfo-tracker/internal/config"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/notification"
	appHTTP "github.com/cmlabs-hris/wfo-tracker/internal/handler/http"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
	"github.com/cmlabs-hris/wfo-tracker/internal/repository"
	attendanceService "github.com/cmlabs-hris/wfo-tracker/internal/service/attendance"
	locationService "github.com/cmlabs-hris/wfo-tracker/internal/service/location"
	notificationService "github.com/cmlabs-hris/wfo-tracker/internal/service/notification"
	statisticsService "github.com/cmlabs-hris/wfo-tracker/internal/service/statistics"
	"github.com/spf13/cobra"
)

var (
	cfg           *config.Config
	calendar      workday.Calendar
	office        location.Office
	repo          attendance.AttendanceRepository
	closeStore    func()
	notifier      notification.Service
	statisticsSvc *statisticsService.StatisticsServiceImpl
)

var rootCmd = &cobra.Command{
	Use:           "wfo",
	Short:         "Track office attendance against the monthly WFO quota",
	Long:          `wfo records WFO, WFH and LEAVE days and reports progress towards the required share of office days.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		slog.SetLogLoggerLevel(appHTTP.ParseLogLevel(cfg.App.LogLevel))

		calendar, err = cfg.Tracker.Calendar()
		if err != nil {
			return err
		}
		office = location.Office{
			Latitude:     cfg.Office.Latitude,
			Longitude:    cfg.Office.Longitude,
			RadiusMeters: cfg.Office.RadiusMeters,
		}

		repo, closeStore, err = repository.OpenAttendanceRepository(cmd.Context(), cfg.Database, cfg.DatabaseURL(), calendar)
		if err != nil {
			return err
		}

		notifier = notificationService.NewNotificationService(sse.NewHub(), clock.System(), notificationService.Config{
			QueueSize:   cfg.Tracker.NotificationQueueSize,
			HistorySize: cfg.Tracker.NotificationHistorySize,
		})
		statisticsSvc = statisticsService.NewStatisticsService(repo, statisticsService.NewCalculator(cfg.Tracker.RequiredRatio), calendar, clock.System())
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if notifier != nil {
			notifier.Stop()
		}
		if closeStore != nil {
			closeStore()
		}
		return nil
	},
}

// newAttendanceService builds the decision engine around source. Commands
// without a position use a source that never has a fix.
func newAttendanceService(source location.Source) *attendanceService.AttendanceServiceImpl {
	if source == nil {
		source = locationService.NewStaticSource(nil)
	}
	return attendanceService.NewAttendanceService(repo, source, notifier, clock.System(), attendanceService.Config{
		Office:          office,
		Calendar:        calendar,
		LocationTimeout: cfg.Tracker.LocationTimeout,
	})
}

func init() {
	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(markCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(trailingCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
