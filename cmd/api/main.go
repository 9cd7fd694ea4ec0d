package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/wfo-tracker/internal/config"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/location"
	appHTTP "github.com/cmlabs-hris/wfo-tracker/internal/handler/http"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/clock"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/cron"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/jwt"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/sse"
	"github.com/cmlabs-hris/wfo-tracker/internal/repository"
	attendanceService "github.com/cmlabs-hris/wfo-tracker/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/wfo-tracker/internal/service/auth"
	locationService "github.com/cmlabs-hris/wfo-tracker/internal/service/location"
	notificationService "github.com/cmlabs-hris/wfo-tracker/internal/service/notification"
	statisticsService "github.com/cmlabs-hris/wfo-tracker/internal/service/statistics"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	slog.SetLogLoggerLevel(appHTTP.ParseLogLevel(cfg.App.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calendar, err := cfg.Tracker.Calendar()
	if err != nil {
		return err
	}
	clk := clock.System()

	attendanceRepo, closeStore, err := repository.OpenAttendanceRepository(ctx, cfg.Database, cfg.DatabaseURL(), calendar)
	if err != nil {
		return err
	}
	defer closeStore()

	office := location.Office{
		Latitude:     cfg.Office.Latitude,
		Longitude:    cfg.Office.Longitude,
		RadiusMeters: cfg.Office.RadiusMeters,
	}

	positionSource := locationService.NewLatestSource(clk, cfg.Tracker.MaxFixAge)
	notifier := notificationService.NewNotificationService(sse.NewHub(), clk, notificationService.Config{
		QueueSize:   cfg.Tracker.NotificationQueueSize,
		HistorySize: cfg.Tracker.NotificationHistorySize,
	})
	defer notifier.Stop()

	JWTService := jwt.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.AccessExpiration)
	authService := serviceAuth.NewAuthService(JWTService, cfg.Auth.PassphraseHash)
	locationSvc := locationService.NewLocationService(positionSource, office, clk)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, positionSource, notifier, clk, attendanceService.Config{
		Office:          office,
		Calendar:        calendar,
		LocationTimeout: cfg.Tracker.LocationTimeout,
	})
	statisticsSvc := statisticsService.NewStatisticsService(attendanceRepo, statisticsService.NewCalculator(cfg.Tracker.RequiredRatio), calendar, clk)

	router := appHTTP.NewRouter(
		appHTTP.RouterConfig{
			AppName:        cfg.App.Name,
			Version:        cfg.App.Version,
			Env:            cfg.App.Env,
			LogLevel:       cfg.App.LogLevel,
			AllowedOrigins: cfg.App.CORSOrigins,
		},
		JWTService,
		appHTTP.Handlers{
			Auth:         appHTTP.NewAuthHandler(authService),
			Location:     appHTTP.NewLocationHandler(locationSvc),
			Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
			Statistics:   appHTTP.NewStatisticsHandler(statisticsSvc),
			Notification: appHTTP.NewNotificationHandler(notifier, JWTService),
		},
	)

	scheduler := cron.NewScheduler()
	cron.NewDetectionJob(attendanceSvc, calendar, clk, cfg.Tracker.DetectionInterval, cfg.Tracker.RetryBackoff).Register(scheduler)
	cron.RegisterTokenCleanup(scheduler, JWTService, cron.DefaultTokenCleanupInterval)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// SSE streams end when the signal context is cancelled.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", "http://localhost"+server.Addr, "env", cfg.App.Env)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
