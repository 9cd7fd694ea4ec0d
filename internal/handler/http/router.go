package http

import (
	"log/slog"
	"os"
	"strings"

	"github.com/cmlabs-hris/wfo-tracker/internal/handler/http/middleware"
	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the settings the router needs from the application config.
type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       string
	AllowedOrigins []string
}

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth         AuthHandler
	Location     LocationHandler
	Attendance   AttendanceHandler
	Statistics   StatisticsHandler
	Notification NotificationHandler
}

func NewRouter(cfg RouterConfig, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  ParseLogLevel(cfg.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", h.Auth.Token)

		// EventSource cannot send headers; the stream checks its own short-lived token.
		r.Get("/notifications/stream", h.Notification.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", h.Auth.Logout)
				r.Post("/sse-token", h.Auth.SSEToken)
			})

			r.Route("/location", func(r chi.Router) {
				r.Post("/", h.Location.Report)
				r.Get("/", h.Location.Latest)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Post("/detect", h.Attendance.Detect)
				r.Route("/{date}", func(r chi.Router) {
					r.Get("/", h.Attendance.Get)
					r.Put("/", h.Attendance.Mark)
					r.Delete("/", h.Attendance.Delete)
					r.Post("/toggle", h.Attendance.Toggle)
				})
			})

			r.Route("/statistics", func(r chi.Router) {
				r.Get("/monthly", h.Statistics.Monthly)
				r.Get("/trailing", h.Statistics.Trailing)
				r.Get("/today", h.Statistics.Today)
			})

			r.Get("/notifications", h.Notification.Recent)
		})
	})
	return r
}

// ParseLogLevel maps a config level name to a slog level, defaulting to info.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
