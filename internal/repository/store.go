package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/wfo-tracker/internal/config"
	"github.com/cmlabs-hris/wfo-tracker/internal/domain/attendance"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/database"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
	"github.com/cmlabs-hris/wfo-tracker/internal/repository/memory"
	"github.com/cmlabs-hris/wfo-tracker/internal/repository/postgresql"
	"github.com/cmlabs-hris/wfo-tracker/internal/repository/sqlite"
)

// OpenAttendanceRepository opens the attendance store selected by DB_DRIVER.
// The returned close func releases the underlying connection.
func OpenAttendanceRepository(ctx context.Context, cfg config.DatabaseConfig, dsn string, calendar workday.Calendar) (attendance.AttendanceRepository, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := postgresql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		slog.Info("Attendance store opened", "driver", cfg.Driver, "host", cfg.Host, "name", cfg.Name)
		return postgresql.NewAttendanceRepository(db, calendar), db.Close, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		slog.Info("Attendance store opened", "driver", cfg.Driver, "path", cfg.SQLitePath)
		return sqlite.NewAttendanceRepository(db, calendar), func() { _ = db.Close() }, nil

	case config.DriverMemory:
		slog.Warn("Attendance store is in-memory, records are lost on exit")
		return memory.NewAttendanceRepository(), func() {}, nil
	}

	return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
}
