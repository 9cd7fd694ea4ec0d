package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/cmlabs-hris/wfo-tracker/internal/pkg/workday"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Office   OfficeConfig  `yaml:"office"`
	Tracker  TrackerConfig `yaml:"tracker"`
}

// AppConfig holds application configuration
type AppConfig struct {
	Name        string
	Version     string
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	SQLitePath string
}

// AuthConfig holds the bearer token settings. PassphraseHash is a bcrypt hash
// of the owner's passphrase.
type AuthConfig struct {
	JWTSecret        string
	AccessExpiration time.Duration
	PassphraseHash   string
}

type OfficeConfig struct {
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	RadiusMeters float64 `yaml:"radius_meters"`
}

type TrackerConfig struct {
	Timezone                string        `yaml:"timezone"`
	WorkStart               string        `yaml:"work_start"`
	WorkEnd                 string        `yaml:"work_end"`
	Workdays                string        `yaml:"workdays"`
	RequiredRatio           float64       `yaml:"required_ratio"`
	DetectionInterval       time.Duration `yaml:"detection_interval"`
	RetryBackoff            time.Duration `yaml:"retry_backoff"`
	LocationTimeout         time.Duration `yaml:"location_timeout"`
	MaxFixAge               time.Duration `yaml:"max_fix_age"`
	NotificationQueueSize   int           `yaml:"notification_queue_size"`
	NotificationHistorySize int           `yaml:"notification_history_size"`
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:        "wfo-tracker",
			Version:     "v1.0.0",
			Port:        8080,
			Env:         "development",
			LogLevel:    "info",
			CORSOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Driver:     DriverSQLite,
			Host:       "localhost",
			Port:       5432,
			User:       "postgres",
			Name:       "wfo_tracker",
			SSLMode:    "disable",
			SQLitePath: "wfo.db",
		},
		Auth: AuthConfig{
			AccessExpiration: 24 * time.Hour,
		},
		Office: OfficeConfig{
			Latitude:     34.2098056,
			Longitude:    108.8379444,
			RadiusMeters: 800,
		},
		Tracker: TrackerConfig{
			Timezone:                "Asia/Shanghai",
			WorkStart:               "09:00",
			WorkEnd:                 "18:30",
			Workdays:                "Mon,Tue,Wed,Thu,Fri",
			RequiredRatio:           0.6,
			DetectionInterval:       30 * time.Minute,
			RetryBackoff:            15 * time.Minute,
			LocationTimeout:         3 * time.Second,
			MaxFixAge:               5 * time.Minute,
			NotificationQueueSize:   100,
			NotificationHistorySize: 50,
		},
	}
}

// Load reads defaults, then the YAML file named by WFO_CONFIG_FILE, then the
// environment (including a .env file when present). Later sources win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := defaults()

	if path := os.Getenv("WFO_CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	var err error

	// Application configuration
	app := &config.App
	if app.Port, err = getEnvInt("APP_PORT", app.Port); err != nil {
		return nil, err
	}
	app.Env = getEnv("APP_ENV", app.Env)
	app.LogLevel = getEnv("LOG_LEVEL", app.LogLevel)
	app.CORSOrigins = getEnvSlice("CORS_ALLOWED_ORIGINS", app.CORSOrigins)

	// Database configuration
	db := &config.Database
	db.Driver = strings.ToLower(getEnv("DB_DRIVER", db.Driver))
	db.Host = getEnv("DB_HOST", db.Host)
	if db.Port, err = getEnvInt("DB_PORT", db.Port); err != nil {
		return nil, err
	}
	db.User = getEnv("DB_USER", db.User)
	db.Password = getEnv("DB_PASSWORD", db.Password)
	db.Name = getEnv("DB_NAME", db.Name)
	db.SSLMode = getEnv("DB_SSL_MODE", db.SSLMode)
	db.SQLitePath = getEnv("SQLITE_PATH", db.SQLitePath)

	// Auth configuration
	config.Auth.JWTSecret = getEnv("JWT_SECRET_KEY", config.Auth.JWTSecret)
	config.Auth.PassphraseHash = getEnv("AUTH_PASSPHRASE_HASH", config.Auth.PassphraseHash)
	if config.Auth.AccessExpiration, err = getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", config.Auth.AccessExpiration); err != nil {
		return nil, err
	}

	// Office configuration
	office := &config.Office
	if office.Latitude, err = getEnvFloat("OFFICE_LATITUDE", office.Latitude); err != nil {
		return nil, err
	}
	if office.Longitude, err = getEnvFloat("OFFICE_LONGITUDE", office.Longitude); err != nil {
		return nil, err
	}
	if office.RadiusMeters, err = getEnvFloat("OFFICE_RADIUS_METERS", office.RadiusMeters); err != nil {
		return nil, err
	}

	// Tracker configuration
	tracker := &config.Tracker
	tracker.Timezone = getEnv("TIMEZONE", tracker.Timezone)
	tracker.WorkStart = getEnv("WORK_START", tracker.WorkStart)
	tracker.WorkEnd = getEnv("WORK_END", tracker.WorkEnd)
	tracker.Workdays = getEnv("WORKDAYS", tracker.Workdays)
	if tracker.RequiredRatio, err = getEnvFloat("REQUIRED_WFO_RATIO", tracker.RequiredRatio); err != nil {
		return nil, err
	}
	if tracker.DetectionInterval, err = getEnvDuration("DETECTION_INTERVAL", tracker.DetectionInterval); err != nil {
		return nil, err
	}
	if tracker.RetryBackoff, err = getEnvDuration("DETECTION_RETRY_BACKOFF", tracker.RetryBackoff); err != nil {
		return nil, err
	}
	if tracker.LocationTimeout, err = getEnvDuration("LOCATION_TIMEOUT", tracker.LocationTimeout); err != nil {
		return nil, err
	}
	if tracker.MaxFixAge, err = getEnvDuration("LOCATION_MAX_AGE", tracker.MaxFixAge); err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be one of: postgres, sqlite, memory")
	}

	if c.Office.Latitude < -90 || c.Office.Latitude > 90 {
		return fmt.Errorf("OFFICE_LATITUDE must be between -90 and 90")
	}
	if c.Office.Longitude < -180 || c.Office.Longitude > 180 {
		return fmt.Errorf("OFFICE_LONGITUDE must be between -180 and 180")
	}
	if c.Office.RadiusMeters <= 0 {
		return fmt.Errorf("OFFICE_RADIUS_METERS must be positive")
	}
	if c.Tracker.RequiredRatio <= 0 || c.Tracker.RequiredRatio > 1 {
		return fmt.Errorf("REQUIRED_WFO_RATIO must be in (0, 1]")
	}
	if c.Tracker.RetryBackoff <= 0 || c.Tracker.DetectionInterval <= 0 {
		return fmt.Errorf("DETECTION_INTERVAL and DETECTION_RETRY_BACKOFF must be positive")
	}

	if _, err := c.Tracker.Calendar(); err != nil {
		return err
	}
	return nil
}

// ValidateServer checks the settings only the HTTP server needs.
func (c *Config) ValidateServer() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Auth.PassphraseHash == "" {
		return fmt.Errorf("AUTH_PASSPHRASE_HASH is required")
	}
	if c.Auth.AccessExpiration <= 0 {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	return nil
}

// Calendar builds the work calendar from the tracker settings.
func (t TrackerConfig) Calendar() (workday.Calendar, error) {
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return workday.Calendar{}, fmt.Errorf("invalid TIMEZONE %q: %w", t.Timezone, err)
	}

	cal := workday.NewCalendar(loc)
	if cal.WorkStart, err = workday.ParseTimeOfDay(t.WorkStart); err != nil {
		return workday.Calendar{}, fmt.Errorf("invalid WORK_START: %w", err)
	}
	if cal.WorkEnd, err = workday.ParseTimeOfDay(t.WorkEnd); err != nil {
		return workday.Calendar{}, fmt.Errorf("invalid WORK_END: %w", err)
	}
	if cal.WorkEnd < cal.WorkStart {
		return workday.Calendar{}, fmt.Errorf("WORK_END must not be before WORK_START")
	}
	if cal.Workdays, err = workday.ParseWeekdays(t.Workdays); err != nil {
		return workday.Calendar{}, fmt.Errorf("invalid WORKDAYS: %w", err)
	}
	return cal, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
